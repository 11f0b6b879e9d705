package renderer

import (
	"fmt"
	"strings"
)

// UI names a presentation backend
type UI string

// Available backends
const (
	UITerminal UI = "tui"    // coloured terminal output, live progress
	UIPlain    UI = "plain"  // terminal output without escape codes
	UIEbiten   UI = "ebiten" // window that ticks one slice per frame
	UITcell    UI = "tcell"  // full-screen terminal that ticks on a timer
)

// UIs returns every backend name
func UIs() []UI {
	return []UI{UITerminal, UIPlain, UIEbiten, UITcell}
}

// ParseUI resolves a backend name, case-insensitively
func ParseUI(s string) (UI, error) {
	for _, ui := range UIs() {
		if strings.EqualFold(s, string(ui)) {
			return ui, nil
		}
	}
	return "", fmt.Errorf("unknown ui %q (want one of %v)", s, UIs())
}

// Host defines the interface for presentation backends. A host drives its
// curator until the population is measured (or the user quits) and
// presents the result.
type Host interface {
	// Init prepares the backend (colours, window, etc.)
	Init()

	// Run blocks until the host is done
	Run() error
}
