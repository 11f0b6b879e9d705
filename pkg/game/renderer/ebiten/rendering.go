package ebiten

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"mapcurator/pkg/game/i18n"
	"mapcurator/pkg/game/renderer/thumbnail"
)

// Draw renders every map of the population and a status bar (Ebiten interface)
func (e *EbitenRenderer) Draw(screen *ebiten.Image) {
	screen.Fill(thumbnail.ColorBackground)

	cands := e.cur.Candidates()
	if len(cands) == 0 {
		return
	}
	grid0 := cands[0].Generator.Grid()
	boardH := float64(max(1, e.windowHeight-statusBarHeight))
	slots := thumbnail.Layout(len(cands), grid0.Width(), grid0.Height(), float64(e.windowWidth), boardH)

	e.ensureThumbs(len(cands))
	best, _ := e.cur.Best()
	for i, c := range cands {
		grid := c.Generator.Grid()
		img := e.thumbs[i]
		if b := img.Bounds(); b.Dx() != grid.Width() || b.Dy() != grid.Height() {
			img.Deallocate()
			img = ebiten.NewImage(grid.Width(), grid.Height())
			e.thumbs[i] = img
		}
		e.pixels = thumbnail.Pixels(grid, e.pixels)
		img.WritePixels(e.pixels)

		s := slots[i]
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(s.Scale, s.Scale)
		op.GeoM.Translate(s.X, s.Y)
		screen.DrawImage(img, op)

		if c == best {
			vector.StrokeRect(screen, float32(s.X-2), float32(s.Y-2), float32(s.W+4), float32(s.H+4),
				2, thumbnail.ColorBest, false)
		}
	}

	e.drawStatus(screen)
}

// ensureThumbs keeps one placeholder image per candidate
func (e *EbitenRenderer) ensureThumbs(n int) {
	for len(e.thumbs) < n {
		e.thumbs = append(e.thumbs, ebiten.NewImage(1, 1))
	}
}

func (e *EbitenRenderer) drawStatus(screen *ebiten.Image) {
	y := e.windowHeight - statusBarHeight
	vector.DrawFilledRect(screen, 0, float32(y), float32(e.windowWidth), statusBarHeight,
		thumbnail.ColorVoid, false)

	line := i18n.Get("PROGRESS", e.cur.Progress()*100)
	if best, ok := e.cur.Best(); ok {
		line = i18n.Get("BEST_MAP", best.Index, e.cur.Config().FitnessPercentile) +
			"  " + i18n.Get("FITNESS", best.Fitness)
	} else if e.cur.Measured() {
		line = i18n.Get("FITNESS_DISABLED")
	}
	if e.cur.Config().FastForward {
		line += "  [ff]"
	}
	if e.status != "" {
		line += "  " + e.status
	}
	ebitenutil.DebugPrintAt(screen, line, 8, y+2)
	ebitenutil.DebugPrintAt(screen, i18n.Get("HELP_KEYS"), 8, y+18)
}
