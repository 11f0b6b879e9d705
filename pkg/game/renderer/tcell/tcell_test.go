package tcell

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"mapcurator/pkg/engine/rng"
	"mapcurator/pkg/game/curator"
	"mapcurator/pkg/game/generator"
)

func newCurator(t *testing.T) *curator.Curator {
	t.Helper()
	cfg := curator.DefaultConfig()
	cfg.Count = 3
	cfg.FastForward = true
	cur, err := curator.New(cfg, func() (generator.Generator, error) {
		return generator.New(generator.KindNoise, 12, 6)
	}, rng.New(4))
	if err != nil {
		t.Fatalf("curator.New error: %v", err)
	}
	return cur
}

func newSimRenderer(t *testing.T, cur *curator.Curator) (*TcellRenderer, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	r := New(cur)
	r.SetScreen(screen)
	r.Init()
	if r.initErr != nil {
		t.Fatalf("Init error: %v", r.initErr)
	}
	screen.SetSize(80, 24)
	return r, screen
}

func TestKeyCode(t *testing.T) {
	cases := []struct {
		key  tcell.Key
		r    rune
		want string
	}{
		{tcell.KeyEscape, 0, "escape"},
		{tcell.KeyCtrlC, 0, "ctrl_c"},
		{tcell.KeyUp, 0, "arrow_up"},
		{tcell.KeyDown, 0, "arrow_down"},
		{tcell.KeyF9, 0, "f9"},
		{tcell.KeyRune, ' ', "space"},
		{tcell.KeyRune, 'J', "j"},
		{tcell.KeyRune, '?', "?"},
		{tcell.KeyF1, 0, ""},
	}
	for _, tc := range cases {
		ev := tcell.NewEventKey(tc.key, tc.r, tcell.ModNone)
		if got := keyCode(ev); got != tc.want {
			t.Errorf("keyCode(%v, %q) = %q, want %q", tc.key, tc.r, got, tc.want)
		}
	}
}

func TestHandleKey(t *testing.T) {
	cur := newCurator(t)
	cur.Run()
	r, screen := newSimRenderer(t, cur)
	defer screen.Fini()

	key := func(ch rune) bool {
		return r.handleKey(tcell.NewEventKey(tcell.KeyRune, ch, tcell.ModNone))
	}
	if key('j') {
		t.Fatal("j should not quit")
	}
	if p := cur.Config().FitnessPercentile; p != 0.05 {
		t.Errorf("percentile after j = %v, want 0.05", p)
	}
	key('k')
	key('k')
	if p := cur.Config().FitnessPercentile; p != 0 {
		t.Errorf("percentile after k k = %v, want 0", p)
	}
	key('f')
	if cur.Config().FastForward {
		t.Error("f should toggle fast-forward off")
	}
	key('?')
	if r.status == "" {
		t.Error("help should set the status line")
	}
	if !r.handleKey(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("escape should quit")
	}
}

func TestDraw_ShowsMapsAndStatus(t *testing.T) {
	cur := newCurator(t)
	cur.Run()
	r, screen := newSimRenderer(t, cur)
	defer screen.Fini()

	r.draw()
	cells, w, h := screen.GetContents()
	if w != 80 || h != 24 {
		t.Fatalf("screen size = %dx%d", w, h)
	}

	at := func(x, y int) rune {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			return ' '
		}
		return c.Runes[0]
	}
	if got := at(0, 0); got != '#' {
		t.Errorf("caption starts with %q, want '#'", got)
	}

	starts := 0
	for y := 1; y <= 6; y++ {
		for x := 0; x < w; x++ {
			if at(x, y) == runeStart {
				starts++
			}
		}
	}
	// three 12-wide maps fit side by side on one row
	if starts != 3 {
		t.Errorf("drew %d start cells, want 3", starts)
	}

	var status []rune
	for x := 0; x < 8; x++ {
		status = append(status, at(x, h-2))
	}
	if string(status) != "Selected" {
		t.Errorf("status line starts %q", string(status))
	}
}

func TestRun_QuitsOnKey(t *testing.T) {
	cur := newCurator(t)
	r, screen := newSimRenderer(t, cur)
	r.frame = time.Millisecond

	screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'j', tcell.ModNone))
	screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))

	done := make(chan error, 1)
	go func() { done <- r.Run() }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after q")
	}
	if p := cur.Config().FitnessPercentile; p != 0.05 {
		t.Errorf("percentile = %v, want 0.05", p)
	}
}
