package tui

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/gookit/color"

	"mapcurator/pkg/engine/terminal"
	"mapcurator/pkg/engine/world"
	"mapcurator/pkg/game/curator"
	"mapcurator/pkg/game/i18n"
)

// Icon constants for map tiles
const (
	IconWall   = "▒"
	IconOpen   = "·"
	IconStart  = "@"
	IconFinish = "△"
	IconVoid   = " "
)

// clearScreen homes the cursor and erases the display
const clearScreen = "\033[H\033[2J"

// thumbnailGap is the number of columns between side-by-side maps
const thumbnailGap = 2

// TUIRenderer is the terminal-based renderer implementation
type TUIRenderer struct {
	out   io.Writer
	plain bool
	size  func() (width, height int)

	colorWall   color.Style
	colorOpen   color.Style
	colorStart  color.Style
	colorFinish color.Style
	colorTitle  color.Style
	colorBest   color.Style
	colorSubtle color.Style
	colorDenied color.Style
}

// New creates a new TUI renderer writing to out
func New(out io.Writer) *TUIRenderer {
	return &TUIRenderer{out: out, size: terminal.GetSize}
}

// SetSize replaces the local terminal as the source of the screen size,
// for output that goes to a remote terminal
func (t *TUIRenderer) SetSize(size func() (width, height int)) {
	t.size = size
}

func (t *TUIRenderer) width() int {
	w, _ := t.size()
	return w
}

// Init initializes the TUI renderer colors. Plain mode prints the same
// layout without escape codes.
func (t *TUIRenderer) Init(plain bool) {
	t.plain = plain
	t.colorWall = color.Style{color.FgGray}
	t.colorOpen = color.Style{color.FgBlue}
	t.colorStart = color.Style{color.FgGreen, color.OpBold}
	t.colorFinish = color.Style{color.FgRed, color.OpBold}
	t.colorTitle = color.Style{color.FgMagenta, color.OpBold}
	t.colorBest = color.Style{color.FgGreen, color.BgBlack, color.OpBold}
	t.colorSubtle = color.Style{color.FgGray, color.OpBold}
	t.colorDenied = color.Style{color.FgRed, color.OpBold}
}

func (t *TUIRenderer) style(s color.Style, text string) string {
	if t.plain {
		return text
	}
	return s.Sprint(text)
}

// Clear clears the terminal screen
func (t *TUIRenderer) Clear() {
	if t.plain {
		return
	}
	fmt.Fprint(t.out, clearScreen)
}

// tileGlyph returns the styled icon for one tile
func (t *TUIRenderer) tileGlyph(tile world.TileType) string {
	switch tile {
	case world.Wall:
		return t.style(t.colorWall, IconWall)
	case world.Open:
		return t.style(t.colorOpen, IconOpen)
	case world.Start:
		return t.style(t.colorStart, IconStart)
	case world.Finish:
		return t.style(t.colorFinish, IconFinish)
	default:
		return IconVoid
	}
}

// gridLines renders every row of the grid
func (t *TUIRenderer) gridLines(grid *world.Grid) []string {
	lines := make([]string, grid.Height())
	var b strings.Builder
	for y := 0; y < grid.Height(); y++ {
		b.Reset()
		for x := 0; x < grid.Width(); x++ {
			b.WriteString(t.tileGlyph(grid.Tile(x, y)))
		}
		lines[y] = b.String()
	}
	return lines
}

// RenderGrid prints one grid with a title line
func (t *TUIRenderer) RenderGrid(title string, grid *world.Grid) {
	fmt.Fprintln(t.out, t.style(t.colorTitle, title))
	for _, line := range t.gridLines(grid) {
		fmt.Fprintln(t.out, line)
	}
	fmt.Fprintln(t.out, t.Legend())
}

// Legend returns the tile legend line
func (t *TUIRenderer) Legend() string {
	return t.style(t.colorSubtle, i18n.Get("LEGEND",
		IconWall, IconOpen, IconStart, IconFinish))
}

// RenderProgress prints a one-line progress bar for the population
func (t *TUIRenderer) RenderProgress(cur *curator.Curator) {
	width := max(10, min(t.width()-20, 60))
	p := cur.Progress()
	filled := int(math.Round(p * float64(width)))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	fmt.Fprintf(t.out, "%s %s\n", t.style(t.colorSubtle, bar), i18n.Get("PROGRESS", p*100))
}

// thumbnailsPerRow returns how many maps of the given width fit side by
// side in the terminal
func thumbnailsPerRow(termWidth, mapWidth, count int) int {
	n := (termWidth + thumbnailGap) / (mapWidth + thumbnailGap)
	return max(1, min(n, count))
}

// RenderPopulation prints every map of the population, as many per row as
// the terminal allows, with the selected map's caption highlighted
func (t *TUIRenderer) RenderPopulation(cur *curator.Curator) {
	cands := cur.Candidates()
	if len(cands) == 0 {
		return
	}
	best, _ := cur.Best()
	mapWidth := cands[0].Generator.Grid().Width()
	perRow := thumbnailsPerRow(t.width(), mapWidth, len(cands))
	gap := strings.Repeat(" ", thumbnailGap)

	for start := 0; start < len(cands); start += perRow {
		row := cands[start:min(start+perRow, len(cands))]

		captions := make([]string, len(row))
		for i, c := range row {
			caption := fmt.Sprintf("#%-3d %s", c.Index, t.candidateStatus(c))
			caption = padRight(caption, mapWidth)
			if c == best {
				caption = t.style(t.colorBest, caption)
			}
			captions[i] = caption
		}
		fmt.Fprintln(t.out, strings.Join(captions, gap))

		rendered := make([][]string, len(row))
		height := 0
		for i, c := range row {
			rendered[i] = t.gridLines(c.Generator.Grid())
			height = max(height, len(rendered[i]))
		}
		for y := 0; y < height; y++ {
			parts := make([]string, len(row))
			for i := range row {
				if y < len(rendered[i]) {
					parts[i] = rendered[i][y]
				} else {
					parts[i] = strings.Repeat(IconVoid, mapWidth)
				}
			}
			fmt.Fprintln(t.out, strings.Join(parts, gap))
		}
		fmt.Fprintln(t.out)
	}
	fmt.Fprintln(t.out, t.Legend())
}

func (t *TUIRenderer) candidateStatus(c *curator.Candidate) string {
	if c.Err != nil {
		return t.style(t.colorDenied, i18n.Get("FAILED", c.Err.Error()))
	}
	grid := c.Generator.Grid()
	_, okS := grid.StartCell()
	_, okF := grid.FinishCell()
	if !okS || !okF {
		return i18n.Get("NO_ENDPOINTS")
	}
	return i18n.Get("FITNESS", c.Fitness)
}

// RenderSummary prints the ranking of a measured population and the
// selected map
func (t *TUIRenderer) RenderSummary(cur *curator.Curator) {
	fmt.Fprintln(t.out, t.style(t.colorTitle, i18n.Get("POPULATION_MEASURED", len(cur.Candidates()))))
	best, ok := cur.Best()
	if !ok {
		fmt.Fprintln(t.out, t.style(t.colorSubtle, i18n.Get("FITNESS_DISABLED")))
		return
	}

	fmt.Fprintln(t.out, t.style(t.colorSubtle, i18n.Get("RANKING")))
	for rank, c := range cur.Ranked() {
		line := fmt.Sprintf("%3d. #%-3d %s", rank+1, c.Index, t.candidateStatus(c))
		if c == best {
			line = t.style(t.colorBest, line)
		}
		fmt.Fprintln(t.out, line)
	}
	fmt.Fprintln(t.out)

	title := i18n.Get("BEST_MAP", best.Index, cur.Config().FitnessPercentile) +
		" - " + best.Generator.Name() + ", " + i18n.Get("FITNESS", best.Fitness)
	t.RenderGrid(title, best.Generator.Grid())
}

// padRight pads s with spaces to width runes, counting only visible runes
func padRight(s string, width int) string {
	n := len([]rune(color.ClearCode(s)))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
