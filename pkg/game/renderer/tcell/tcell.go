// Package tcell provides a full-screen terminal host: the population is
// ticked on a timer and redrawn cell by cell, with keys handled as they
// arrive.
package tcell

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"mapcurator/pkg/engine/input"
	"mapcurator/pkg/engine/world"
	"mapcurator/pkg/game/curator"
	"mapcurator/pkg/game/devtools"
	"mapcurator/pkg/game/i18n"
)

// DefaultFrame is the time between curator ticks (~30 FPS)
const DefaultFrame = 33 * time.Millisecond

// thumbnailGap is the number of columns between side-by-side maps
const thumbnailGap = 2

// Tile runes
const (
	runeWall   = '▒'
	runeOpen   = '·'
	runeStart  = '@'
	runeFinish = '△'
)

var (
	styleWall    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleOpen    = tcell.StyleDefault.Foreground(tcell.ColorSteelBlue)
	styleStart   = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleFinish  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleCaption = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleBest    = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorGreen)
	styleStatus  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.NewRGBColor(15, 15, 26))
)

// TcellRenderer drives and draws a curator population on a tcell screen
type TcellRenderer struct {
	cur    *curator.Curator
	screen tcell.Screen
	frame  time.Duration

	status  string
	initErr error
}

// New creates a new tcell host for cur
func New(cur *curator.Curator) *TcellRenderer {
	return &TcellRenderer{cur: cur, frame: DefaultFrame}
}

// SetScreen replaces the terminal screen, e.g. with a simulation screen
func (r *TcellRenderer) SetScreen(s tcell.Screen) {
	r.screen = s
}

// Init opens and initializes the screen. Errors surface from Run.
func (r *TcellRenderer) Init() {
	if r.screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			r.initErr = fmt.Errorf("opening terminal screen: %w", err)
			return
		}
		r.screen = s
	}
	if err := r.screen.Init(); err != nil {
		r.initErr = fmt.Errorf("initializing terminal screen: %w", err)
		r.screen = nil
	}
}

// Run ticks and redraws until the user quits
func (r *TcellRenderer) Run() error {
	if r.initErr != nil {
		return r.initErr
	}
	if r.screen == nil {
		r.Init()
		if r.initErr != nil {
			return r.initErr
		}
	}
	defer r.screen.Fini()

	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := r.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(r.frame)
	defer ticker.Stop()

	r.draw()
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if r.handleKey(ev) {
					return nil
				}
			case *tcell.EventResize:
				r.screen.Sync()
			}
		case <-ticker.C:
			r.cur.Tick()
		}
		r.draw()
	}
}

// keyCode names a tcell key the way input bindings expect
func keyCode(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyEscape:
		return "escape"
	case tcell.KeyCtrlC:
		return "ctrl_c"
	case tcell.KeyUp:
		return "arrow_up"
	case tcell.KeyDown:
		return "arrow_down"
	case tcell.KeyLeft:
		return "arrow_left"
	case tcell.KeyRight:
		return "arrow_right"
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyF9:
		return "f9"
	case tcell.KeyRune:
		if ev.Rune() == ' ' {
			return "space"
		}
		return strings.ToLower(string(ev.Rune()))
	}
	return ""
}

// handleKey applies one key and reports whether to quit
func (r *TcellRenderer) handleKey(ev *tcell.EventKey) bool {
	switch input.Resolve(input.DeviceTerminal, keyCode(ev)) {
	case input.ActionQuit:
		return true
	case input.ActionRegenerate:
		r.cur.Reset()
		r.status = ""
		log.Printf("population reset")
	case input.ActionFastForward:
		r.cur.SetFastForward(!r.cur.Config().FastForward)
	case input.ActionSelectBetter:
		r.cur.StepPercentile(-curator.PercentileStep)
	case input.ActionSelectWorse:
		r.cur.StepPercentile(curator.PercentileStep)
	case input.ActionScreenshot:
		r.saveScreenshot()
	case input.ActionHelp:
		r.status = input.HelpText()
	}
	return false
}

func (r *TcellRenderer) saveScreenshot() {
	best, ok := r.cur.Best()
	if !ok {
		return
	}
	name, err := devtools.SaveScreenshotHTML(best.Generator.Name(), best.Generator.Grid())
	if err != nil {
		log.Printf("screenshot: %v", err)
		r.status = err.Error()
		return
	}
	r.status = i18n.Get("SCREENSHOT_SAVED", name)
}

func tileCell(t world.TileType) (rune, tcell.Style) {
	switch t {
	case world.Wall:
		return runeWall, styleWall
	case world.Open:
		return runeOpen, styleOpen
	case world.Start:
		return runeStart, styleStart
	case world.Finish:
		return runeFinish, styleFinish
	}
	return ' ', tcell.StyleDefault
}

func (r *TcellRenderer) text(x, y int, s string, style tcell.Style) {
	for i, c := range []rune(s) {
		r.screen.SetContent(x+i, y, c, nil, style)
	}
}

// draw paints every map with a caption above it and two status lines at
// the bottom. Maps that do not fit are clipped by the screen.
func (r *TcellRenderer) draw() {
	s := r.screen
	s.Clear()
	w, h := s.Size()

	cands := r.cur.Candidates()
	best, _ := r.cur.Best()
	if len(cands) > 0 {
		mapW := cands[0].Generator.Grid().Width()
		perRow := max(1, min(len(cands), (w+thumbnailGap)/(mapW+thumbnailGap)))
		y := 0
		for start := 0; start < len(cands); start += perRow {
			rowH := 0
			for i, c := range cands[start:min(start+perRow, len(cands))] {
				x := i * (mapW + thumbnailGap)
				grid := c.Generator.Grid()
				style := styleCaption
				if c == best {
					style = styleBest
				}
				r.text(x, y, caption(c), style)
				grid.ForEachCell(func(cx, cy int, t world.TileType) {
					ch, st := tileCell(t)
					s.SetContent(x+cx, y+1+cy, ch, nil, st)
				})
				rowH = max(rowH, grid.Height()+1)
			}
			y += rowH + 1
		}
	}

	for x := 0; x < w; x++ {
		s.SetContent(x, h-2, ' ', nil, styleStatus)
		s.SetContent(x, h-1, ' ', nil, styleStatus)
	}
	r.text(0, h-2, r.statusLine(), styleStatus)
	r.text(0, h-1, i18n.Get("HELP_KEYS"), styleStatus)
	s.Show()
}

func caption(c *curator.Candidate) string {
	switch {
	case c.Err != nil:
		return fmt.Sprintf("#%d %s", c.Index, i18n.Get("FAILED", c.Err.Error()))
	case !c.Generator.Finished():
		return fmt.Sprintf("#%d %3.0f%%", c.Index, c.Generator.Progress()*100)
	}
	return fmt.Sprintf("#%d %s", c.Index, i18n.Get("FITNESS", c.Fitness))
}

func (r *TcellRenderer) statusLine() string {
	line := i18n.Get("PROGRESS", r.cur.Progress()*100)
	if best, ok := r.cur.Best(); ok {
		line = i18n.Get("BEST_MAP", best.Index, r.cur.Config().FitnessPercentile) +
			"  " + best.Generator.Name() + ", " + i18n.Get("FITNESS", best.Fitness)
	} else if r.cur.Measured() {
		line = i18n.Get("FITNESS_DISABLED")
	}
	if r.cur.Config().FastForward {
		line += "  [ff]"
	}
	if r.status != "" {
		line += "  " + r.status
	}
	return line
}
