package devtools

import (
	"bytes"
	"strings"
	"testing"

	"mapcurator/pkg/engine/pathing"
	"mapcurator/pkg/engine/rng"
	"mapcurator/pkg/engine/world"
	"mapcurator/pkg/game/curator"
	"mapcurator/pkg/game/generator"
)

func TestWriteMap_RoundTripsDevMap(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMap(&buf, DevMap()); err != nil {
		t.Fatalf("WriteMap error: %v", err)
	}
	want := strings.Join(devMapRows, "\n") + "\n"
	if buf.String() != want {
		t.Errorf("WriteMap output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestDevMap_KnownDistance(t *testing.T) {
	grid := DevMap()
	start, okS := grid.StartCell()
	finish, okF := grid.FinishCell()
	if !okS || !okF {
		t.Fatal("dev map lost its endpoints")
	}
	if got := pathing.New().Distance(grid, start, finish); got != DevMapDistance {
		t.Errorf("Distance = %d, want %d", got, DevMapDistance)
	}
}

func TestParseMap_Errors(t *testing.T) {
	cases := map[string][]string{
		"empty":  nil,
		"ragged": {"###", "##"},
		"symbol": {"#x#"},
	}
	for name, rows := range cases {
		if _, err := ParseMap(rows); err == nil {
			t.Errorf("%s: ParseMap accepted %q", name, rows)
		}
	}
}

func TestWriteHTML_ContainsEveryRow(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, "Dev <map>", DevMap()); err != nil {
		t.Fatalf("WriteHTML error: %v", err)
	}
	out := buf.String()
	if got := strings.Count(out, `<div class="map-row">`); got != len(devMapRows) {
		t.Errorf("map rows = %d, want %d", got, len(devMapRows))
	}
	if !strings.Contains(out, "Dev &lt;map&gt;") {
		t.Error("title was not escaped")
	}
	if strings.Count(out, `class="start"`) != 1 || strings.Count(out, `class="finish"`) != 1 {
		t.Error("expected exactly one start and one finish span")
	}
}

func TestDumpPopulation(t *testing.T) {
	cfg := curator.DefaultConfig()
	cfg.Count = 3
	cfg.FastForward = true
	factory := func() (generator.Generator, error) {
		return generator.New(generator.KindNoise, 12, 8)
	}
	cur, err := curator.New(cfg, factory, rng.New(5))
	if err != nil {
		t.Fatalf("curator.New error: %v", err)
	}
	cur.Run()

	var buf bytes.Buffer
	if err := DumpPopulation(&buf, cur); err != nil {
		t.Fatalf("DumpPopulation error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"=== POPULATION ===", "size: 3", "--- Ranking ---", "--- Map ---", "generator: Noise"} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q", want)
		}
	}
	if got := strings.Count(out, "fitness="); got != 3 {
		t.Errorf("ranking lines = %d, want 3", got)
	}
}

func TestTileSymbol_Distinct(t *testing.T) {
	seen := map[rune]world.TileType{}
	for _, tile := range world.AllTileTypes() {
		r := TileSymbol(tile)
		if prev, ok := seen[r]; ok {
			t.Errorf("%v and %v share symbol %q", prev, tile, r)
		}
		seen[r] = tile
	}
}
