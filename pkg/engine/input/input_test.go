package input

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestReadKey_Sequence(t *testing.T) {
	k := NewKeyReader(strings.NewReader("\x1b[A\x1bOBQ \r\x03\x1b[20~\x1bx?"))
	want := []string{"arrow_up", "arrow_down", "q", "space", "enter", "ctrl_c", "f9", "escape", "x", "?"}
	for i, w := range want {
		got, err := k.ReadKey()
		if err != nil {
			t.Fatalf("key %d: error %v", i, err)
		}
		if got != w {
			t.Errorf("key %d = %q, want %q", i, got, w)
		}
	}
	if _, err := k.ReadKey(); !errors.Is(err, io.EOF) {
		t.Errorf("read past end = %v, want io.EOF", err)
	}
}

func TestReadKey_TrailingEscape(t *testing.T) {
	k := NewKeyReader(strings.NewReader("\x1b"))
	if got, err := k.ReadKey(); err != nil || got != "escape" {
		t.Errorf("ReadKey = %q, %v; want escape", got, err)
	}
}

func TestReadKey_UnknownSequenceDiscarded(t *testing.T) {
	k := NewKeyReader(strings.NewReader("\x1b[Zr"))
	if got, _ := k.ReadKey(); got != "" {
		t.Errorf("unknown sequence = %q, want empty", got)
	}
	if got, _ := k.ReadKey(); got != "r" {
		t.Errorf("key after sequence = %q, want r", got)
	}
}

func TestResolve(t *testing.T) {
	cases := []struct {
		device Device
		code   string
		want   Action
	}{
		{DeviceTerminal, "q", ActionQuit},
		{DeviceKeyboard, "escape", ActionQuit},
		{DeviceTerminal, "space", ActionRegenerate},
		{DeviceKeyboard, "f", ActionFastForward},
		{DeviceTerminal, "arrow_up", ActionSelectBetter},
		{DeviceTerminal, "arrow_down", ActionSelectWorse},
		{DeviceKeyboard, "f9", ActionScreenshot},
		{DeviceTerminal, "x", ActionNone},
	}
	for _, tc := range cases {
		if got := Resolve(tc.device, tc.code); got != tc.want {
			t.Errorf("Resolve(%q) = %s, want %s", tc.code, ActionName(got), ActionName(tc.want))
		}
	}
}

func TestGetBindingsByAction_Sorted(t *testing.T) {
	quit := GetBindingsByAction()[ActionQuit]
	want := []string{"ctrl_c", "escape", "q"}
	if strings.Join(quit, ",") != strings.Join(want, ",") {
		t.Errorf("quit bindings = %v, want %v", quit, want)
	}
}

func TestHelpText_ListsActionsInOrder(t *testing.T) {
	help := HelpText()
	quit := strings.Index(help, "Quit: ctrl_c/escape/q")
	regen := strings.Index(help, "Regenerate: r/space")
	shot := strings.Index(help, "Screenshot: f9/s")
	if quit < 0 || regen < 0 || shot < 0 {
		t.Fatalf("HelpText() = %q", help)
	}
	if !(quit < regen && regen < shot) {
		t.Errorf("actions out of order in %q", help)
	}
}
