package world

import "testing"

func TestNewGrid_InitialState(t *testing.T) {
	g := NewGrid(4, 3)
	if g.Width() != 4 || g.Height() != 3 {
		t.Fatalf("NewGrid(4, 3) dims = %dx%d, want 4x3", g.Width(), g.Height())
	}
	g.ForEachCell(func(x, y int, tile TileType) {
		if tile != Open {
			t.Errorf("Tile(%d,%d) = %v, want Open", x, y, tile)
		}
		if r := g.Room(x, y); r != NoRoom {
			t.Errorf("Room(%d,%d) = %d, want %d", x, y, r, NoRoom)
		}
	})
	if _, ok := g.StartCell(); ok {
		t.Error("StartCell reported present on a fresh grid")
	}
	if _, ok := g.FinishCell(); ok {
		t.Error("FinishCell reported present on a fresh grid")
	}
}

func TestNewGrid_PanicsOnBadDimensions(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewGrid(0, 5) did not panic")
		}
	}()
	NewGrid(0, 5)
}

func TestGrid_ReadBackWrites(t *testing.T) {
	g := NewGrid(5, 5)
	kinds := AllTileTypes()
	i := 0
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if !g.SetTile(x, y, kinds[i%len(kinds)]) {
				t.Fatalf("SetTile(%d,%d) = false, want true", x, y)
			}
			if !g.SetRoom(x, y, i) {
				t.Fatalf("SetRoom(%d,%d) = false, want true", x, y)
			}
			i++
		}
	}
	i = 0
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if got, want := g.Tile(x, y), kinds[i%len(kinds)]; got != want {
				t.Errorf("Tile(%d,%d) = %v, want %v", x, y, got, want)
			}
			if got := g.Room(x, y); got != i {
				t.Errorf("Room(%d,%d) = %d, want %d", x, y, got, i)
			}
			i++
		}
	}
}

func TestGrid_OutOfRange(t *testing.T) {
	g := NewGrid(3, 3)
	before := g.Snapshot()

	outside := []Point{{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {-100, 100}, {3, 3}}
	for _, p := range outside {
		if g.SetTileAt(p, Wall) {
			t.Errorf("SetTileAt(%v) = true, want false", p)
		}
		if g.SetRoomAt(p, 7) {
			t.Errorf("SetRoomAt(%v) = true, want false", p)
		}
		if got := g.TileAt(p); got != OutOfBounds {
			t.Errorf("TileAt(%v) = %v, want OutOfBounds", p, got)
		}
		if got := g.RoomAt(p); got != RoomOutOfBounds {
			t.Errorf("RoomAt(%v) = %d, want %d", p, got, RoomOutOfBounds)
		}
	}
	if g.SetTile(5, 5, Start) {
		t.Error("SetTile(5,5,Start) = true, want false")
	}
	if _, ok := g.StartCell(); ok {
		t.Error("out-of-range Start write was tracked")
	}

	after := g.Snapshot()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("out-of-range writes mutated cell %d: %v -> %v", i, before[i], after[i])
		}
	}
}

func TestGrid_StartFinishTracking(t *testing.T) {
	g := NewGrid(4, 4)
	g.SetTile(1, 1, Start)
	g.SetTile(2, 2, Finish)

	if p, ok := g.StartCell(); !ok || p != Pt(1, 1) {
		t.Errorf("StartCell() = %v,%v, want (1,1),true", p, ok)
	}
	if p, ok := g.FinishCell(); !ok || p != Pt(2, 2) {
		t.Errorf("FinishCell() = %v,%v, want (2,2),true", p, ok)
	}

	// last write wins; old cell keeps its tile value
	g.SetTile(3, 0, Start)
	if p, _ := g.StartCell(); p != Pt(3, 0) {
		t.Errorf("StartCell() after rewrite = %v, want (3,0)", p)
	}
	if got := g.Tile(1, 1); got != Start {
		t.Errorf("Tile(1,1) after moving start = %v, want Start", got)
	}
	if got := g.Count(Start); got != 2 {
		t.Errorf("Count(Start) = %d, want 2", got)
	}
}

func TestGrid_FillLeavesRooms(t *testing.T) {
	g := NewGrid(3, 2)
	g.SetRoom(1, 1, 4)
	g.Fill(Wall)
	g.ForEachCell(func(x, y int, tile TileType) {
		if tile != Wall {
			t.Errorf("Tile(%d,%d) = %v after Fill(Wall), want Wall", x, y, tile)
		}
	})
	if got := g.Room(1, 1); got != 4 {
		t.Errorf("Room(1,1) after Fill = %d, want 4", got)
	}
	if got := g.Count(Wall); got != 6 {
		t.Errorf("Count(Wall) = %d, want 6", got)
	}
}

func TestGrid_Reset(t *testing.T) {
	g := NewGrid(3, 3)
	g.SetTile(0, 0, Start)
	g.SetRoom(0, 0, 2)
	g.Fill(Wall)
	g.Reset()
	if _, ok := g.StartCell(); ok {
		t.Error("StartCell still tracked after Reset")
	}
	if g.Tile(0, 0) != Open || g.Room(0, 0) != NoRoom {
		t.Errorf("cell (0,0) after Reset = %v/%d, want Open/%d", g.Tile(0, 0), g.Room(0, 0), NoRoom)
	}
}

func TestDirection_FlanksArePerpendicular(t *testing.T) {
	p := Pt(5, 5)
	for _, d := range AllDirections() {
		dx, dy := d.Delta()
		l, r := d.Flanks(p)
		for _, f := range []Point{l, r} {
			fx, fy := f.X-p.X, f.Y-p.Y
			if fx*dx+fy*dy != 0 || p.Manhattan(f) != 1 {
				t.Errorf("%v flank %v of %v is not a perpendicular neighbour", d, f, p)
			}
		}
		if l == r {
			t.Errorf("%v flanks are identical: %v", d, l)
		}
		if p.Step(d).Step(d.Opposite()) != p {
			t.Errorf("%v followed by opposite does not return to origin", d)
		}
	}
}
