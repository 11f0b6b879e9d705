package ebiten

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"mapcurator/pkg/engine/input"
	"mapcurator/pkg/game/curator"
	"mapcurator/pkg/game/devtools"
	"mapcurator/pkg/game/i18n"
)

// keyCodes names the window keys the bindings know about
var keyCodes = map[ebiten.Key]string{
	ebiten.KeyEscape:    "escape",
	ebiten.KeyQ:         "q",
	ebiten.KeySpace:     "space",
	ebiten.KeyR:         "r",
	ebiten.KeyF:         "f",
	ebiten.KeyArrowUp:   "arrow_up",
	ebiten.KeyK:         "k",
	ebiten.KeyArrowDown: "arrow_down",
	ebiten.KeyJ:         "j",
	ebiten.KeyF9:        "f9",
	ebiten.KeyS:         "s",
	ebiten.KeyH:         "h",
}

// Update handles input and advances the population by one tick (Ebiten interface)
func (e *EbitenRenderer) Update() error {
	// Log window opening on first update (confirms window is actually running)
	if !e.windowOpenedLogged {
		e.windowOpenedLogged = true
		w, h := ebiten.WindowSize()
		log.Printf("Main window opened successfully (%dx%d)", w, h)
	}

	for key, code := range keyCodes {
		if !inpututil.IsKeyJustPressed(key) {
			continue
		}
		act := input.Resolve(input.DeviceKeyboard, code)
		if act == input.ActionQuit {
			return ebiten.Termination
		}
		e.apply(act)
	}

	e.cur.Tick()
	return nil
}

// apply performs one non-quit action
func (e *EbitenRenderer) apply(act input.Action) {
	switch act {
	case input.ActionRegenerate:
		e.cur.Reset()
		e.status = ""
		log.Printf("population reset")
	case input.ActionFastForward:
		e.cur.SetFastForward(!e.cur.Config().FastForward)
	case input.ActionSelectBetter:
		e.cur.StepPercentile(-curator.PercentileStep)
	case input.ActionSelectWorse:
		e.cur.StepPercentile(curator.PercentileStep)
	case input.ActionScreenshot:
		e.saveScreenshot()
	case input.ActionHelp:
		e.status = input.HelpText()
	}
}

// saveScreenshot writes the selected map to an HTML file
func (e *EbitenRenderer) saveScreenshot() {
	best, ok := e.cur.Best()
	if !ok {
		return
	}
	name, err := devtools.SaveScreenshotHTML(best.Generator.Name(), best.Generator.Grid())
	if err != nil {
		log.Printf("screenshot: %v", err)
		e.status = err.Error()
		return
	}
	e.status = i18n.Get("SCREENSHOT_SAVED", name)
}

// Layout returns the logical screen size; the board follows the window
func (e *EbitenRenderer) Layout(outsideWidth, outsideHeight int) (int, int) {
	e.windowWidth, e.windowHeight = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
