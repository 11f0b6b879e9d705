// Package thumbnail turns grids into RGBA pixels and lays a population of
// them out on a square-ish board. It has no windowing dependency so the
// maths can be tested headless.
package thumbnail

import (
	"image/color"
	"math"

	"mapcurator/pkg/engine/world"
)

// Tile palette
var (
	ColorBackground = color.RGBA{26, 26, 46, 255}    // Dark blue-gray
	ColorWall       = color.RGBA{60, 60, 80, 255}    // Darker gray-blue
	ColorOpen       = color.RGBA{180, 180, 200, 255} // Light gray-blue
	ColorStart      = color.RGBA{0, 255, 0, 255}     // Bright green
	ColorFinish     = color.RGBA{255, 80, 80, 255}   // Bright red
	ColorVoid       = color.RGBA{15, 15, 26, 255}
	ColorBest       = color.RGBA{100, 255, 150, 255} // Selection outline
	ColorText       = color.RGBA{200, 210, 245, 255}
)

// TileColor returns the palette entry for a tile kind
func TileColor(t world.TileType) color.RGBA {
	switch t {
	case world.Wall:
		return ColorWall
	case world.Open:
		return ColorOpen
	case world.Start:
		return ColorStart
	case world.Finish:
		return ColorFinish
	default:
		return ColorVoid
	}
}

// Pixels writes one RGBA pixel per cell into buf, growing it if needed,
// and returns it. Row-major, matching ebiten's WritePixels layout.
func Pixels(grid *world.Grid, buf []byte) []byte {
	n := grid.Width() * grid.Height() * 4
	if cap(buf) < n {
		buf = make([]byte, n)
	}
	buf = buf[:n]
	i := 0
	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			c := TileColor(grid.Tile(x, y))
			buf[i], buf[i+1], buf[i+2], buf[i+3] = c.R, c.G, c.B, c.A
			i += 4
		}
	}
	return buf
}

// Slot is where one map goes on the board, in screen pixels
type Slot struct {
	X, Y  float64
	Scale float64 // screen pixels per cell
	W, H  float64 // drawn size
}

// Layout places count maps of mapW x mapH cells on a board of boardW x
// boardH pixels: ceil(sqrt(count)) columns, 98% of each slot used, maps
// centred and scaled uniformly.
func Layout(count, mapW, mapH int, boardW, boardH float64) []Slot {
	if count <= 0 || mapW <= 0 || mapH <= 0 {
		return nil
	}
	cols := int(math.Ceil(math.Sqrt(float64(count))))
	rows := (count + cols - 1) / cols
	slotW := boardW / float64(cols)
	slotH := boardH / float64(rows)
	scale := 0.98 * math.Min(slotW/float64(mapW), slotH/float64(mapH))
	w, h := scale*float64(mapW), scale*float64(mapH)

	slots := make([]Slot, count)
	for i := range slots {
		col, row := i%cols, i/cols
		slots[i] = Slot{
			X:     float64(col)*slotW + (slotW-w)/2,
			Y:     float64(row)*slotH + (slotH-h)/2,
			Scale: scale,
			W:     w,
			H:     h,
		}
	}
	return slots
}
