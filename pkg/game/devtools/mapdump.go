// Package devtools provides developer tools for testing and debugging.
package devtools

import (
	"bufio"
	"fmt"
	"io"

	"mapcurator/pkg/engine/world"
	"mapcurator/pkg/game/curator"
)

// TileSymbol returns the single-character symbol for a tile kind
func TileSymbol(t world.TileType) rune {
	switch t {
	case world.Wall:
		return '#'
	case world.Open:
		return '.'
	case world.Start:
		return 'S'
	case world.Finish:
		return 'F'
	default:
		return ' '
	}
}

// writeMapGrid writes one line per grid row
func writeMapGrid(w *bufio.Writer, grid *world.Grid) {
	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			w.WriteRune(TileSymbol(grid.Tile(x, y)))
		}
		w.WriteByte('\n')
	}
}

// WriteMap writes the grid as plain text, one character per cell
func WriteMap(out io.Writer, grid *world.Grid) error {
	w := bufio.NewWriter(out)
	writeMapGrid(w, grid)
	return w.Flush()
}

func pointOrNone(p world.Point, ok bool) string {
	if !ok {
		return "none"
	}
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

// DumpCandidate writes a debug dump of one population member: metadata,
// legend and the map itself. Format is key: value sections so it reads
// well both by eye and by diff.
func DumpCandidate(out io.Writer, c *curator.Candidate) error {
	w := bufio.NewWriter(out)
	grid := c.Generator.Grid()
	start, okS := grid.StartCell()
	finish, okF := grid.FinishCell()

	fmt.Fprintln(w, "--- Metadata ---")
	fmt.Fprintf(w, "index: %d\n", c.Index)
	fmt.Fprintf(w, "generator: %s\n", c.Generator.Name())
	fmt.Fprintf(w, "kind: %s\n", c.Generator.Kind())
	fmt.Fprintf(w, "grid_width: %d\n", grid.Width())
	fmt.Fprintf(w, "grid_height: %d\n", grid.Height())
	fmt.Fprintln(w, "coordinate_system: x,y (0-based, x=horizontal, y=vertical)")
	fmt.Fprintf(w, "start: %s\n", pointOrNone(start, okS))
	fmt.Fprintf(w, "finish: %s\n", pointOrNone(finish, okF))
	fmt.Fprintf(w, "fitness: %d\n", c.Fitness)
	fmt.Fprintf(w, "open_cells: %d\n", grid.Count(world.Open))
	if c.Err != nil {
		fmt.Fprintf(w, "error: %v\n", c.Err)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "--- Legend ---")
	for _, t := range world.AllTileTypes() {
		if t == world.OutOfBounds {
			continue
		}
		fmt.Fprintf(w, "%c = %s\n", TileSymbol(t), t)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "--- Map ---")
	writeMapGrid(w, grid)
	return w.Flush()
}

// DumpPopulation writes the ranking of a measured population followed by
// a full dump of the selected map
func DumpPopulation(out io.Writer, cur *curator.Curator) error {
	w := bufio.NewWriter(out)
	fmt.Fprintln(w, "=== POPULATION ===")
	fmt.Fprintf(w, "size: %d\n", len(cur.Candidates()))
	fmt.Fprintf(w, "percentile: %.2f\n", cur.Config().FitnessPercentile)

	ranked := cur.Ranked()
	if ranked == nil {
		ranked = cur.Candidates()
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "--- Ranking ---")
	for rank, c := range ranked {
		status := "ok"
		if c.Err != nil {
			status = c.Err.Error()
		}
		fmt.Fprintf(w, "%3d. #%-3d fitness=%-5d %s\n", rank+1, c.Index, c.Fitness, status)
	}
	fmt.Fprintln(w)
	if err := w.Flush(); err != nil {
		return err
	}

	best, ok := cur.Best()
	if !ok {
		_, err := fmt.Fprintln(out, "best: none")
		return err
	}
	return DumpCandidate(out, best)
}
