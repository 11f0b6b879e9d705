package tui

import (
	"errors"
	"fmt"
	"io"
	"log"

	"mapcurator/pkg/engine/input"
	"mapcurator/pkg/engine/terminal"
	"mapcurator/pkg/game/curator"
	"mapcurator/pkg/game/devtools"
	"mapcurator/pkg/game/i18n"
)

// statusLines is the text reserved around the live population view
const statusLines = 6

// KeySource delivers one key code per call, as input.KeyReader does
type KeySource interface {
	ReadKey() (string, error)
}

// Host drives a curator from the terminal: while maps are being built it
// redraws the population (or a progress bar when it does not fit), then
// prints the ranking and the selected map. With a key source attached it
// keeps going after that, reacting to keys until told to quit.
type Host struct {
	r      *TUIRenderer
	out    io.Writer
	cur    *curator.Curator
	plain  bool
	keys   KeySource
	remote bool // output goes to a terminal other than stdout
}

// NewHost creates a terminal host writing to out
func NewHost(out io.Writer, cur *curator.Curator, plain bool) *Host {
	return &Host{r: New(out), out: out, cur: cur, plain: plain}
}

// SetKeys makes Run interactive
func (h *Host) SetKeys(keys KeySource) {
	h.keys = keys
}

// SetTerminal sends output to a terminal of the given size instead of the
// local one, such as a remote session's
func (h *Host) SetTerminal(size func() (width, height int)) {
	h.r.SetSize(size)
	h.remote = true
}

// Init sets up colours
func (h *Host) Init() {
	h.r.Init(h.plain)
}

// live reports whether intermediate frames are worth drawing
func (h *Host) live() bool {
	return !h.plain && !h.cur.Config().FastForward && (h.remote || terminal.IsTerminal())
}

// Run ticks the population until it is measured and prints the result,
// then serves keys if there is a key source
func (h *Host) Run() error {
	h.generate()
	h.report()
	if h.keys == nil {
		return nil
	}

	fmt.Fprintln(h.out, h.r.style(h.r.colorSubtle, i18n.Get("HELP_KEYS")))
	for {
		code, err := h.keys.ReadKey()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if quit := h.handle(input.Resolve(input.DeviceTerminal, code)); quit {
			return nil
		}
	}
}

// handle performs one action and reports whether the host should stop
func (h *Host) handle(act input.Action) bool {
	switch act {
	case input.ActionQuit:
		return true
	case input.ActionRegenerate:
		log.Printf("population reset")
		h.cur.Reset()
		h.generate()
		h.report()
	case input.ActionFastForward:
		h.cur.SetFastForward(!h.cur.Config().FastForward)
		fmt.Fprintln(h.out, i18n.Get("FAST_FORWARD", h.cur.Config().FastForward))
	case input.ActionSelectBetter, input.ActionSelectWorse:
		step := curator.PercentileStep
		if act == input.ActionSelectBetter {
			step = -step
		}
		p := h.cur.StepPercentile(step)
		if !h.plain {
			h.r.Clear()
		}
		fmt.Fprintln(h.out, i18n.Get("PERCENTILE", p))
		h.r.RenderSummary(h.cur)
	case input.ActionScreenshot:
		h.screenshot()
	case input.ActionHelp:
		fmt.Fprintln(h.out, input.HelpText())
	}
	return false
}

// generate ticks until the population is measured
func (h *Host) generate() {
	live := h.live()
	for !h.cur.Tick() {
		if live {
			h.r.Clear()
			h.renderLive()
		}
	}
	if live {
		h.r.Clear()
	}
}

func (h *Host) report() {
	if !h.plain {
		h.r.RenderPopulation(h.cur)
	}
	h.r.RenderSummary(h.cur)
}

func (h *Host) screenshot() {
	best, ok := h.cur.Best()
	if !ok {
		return
	}
	name, err := devtools.SaveScreenshotHTML(best.Generator.Name(), best.Generator.Grid())
	if err != nil {
		log.Printf("screenshot: %v", err)
		fmt.Fprintln(h.out, h.r.style(h.r.colorDenied, err.Error()))
		return
	}
	fmt.Fprintln(h.out, i18n.Get("SCREENSHOT_SAVED", name))
}

func (h *Host) renderLive() {
	cands := h.cur.Candidates()
	if len(cands) > 0 {
		grid := cands[0].Generator.Grid()
		w, ht := h.r.size()
		perRow := thumbnailsPerRow(w, grid.Width(), len(cands))
		rows := (len(cands) + perRow - 1) / perRow
		cols := perRow*(grid.Width()+thumbnailGap) - thumbnailGap
		if terminal.FitsGrid(w, ht, cols, rows*(grid.Height()+2), statusLines) {
			h.r.RenderPopulation(h.cur)
		}
	}
	h.r.RenderProgress(h.cur)
}
