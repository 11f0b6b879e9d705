// Package terminal reports what the attached terminal can display.
package terminal

import (
	"os"

	"golang.org/x/term"
)

// Fallback size used when stdout is not a terminal
const (
	DefaultWidth  = 80
	DefaultHeight = 24
)

// GetSize returns the current terminal width and height.
// Falls back to defaults if the size cannot be determined.
func GetSize() (width, height int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 || height <= 0 {
		return DefaultWidth, DefaultHeight
	}
	return width, height
}

// IsTerminal reports whether stdout is an interactive terminal. Hosts use
// it to drop colour and screen clearing when output is piped.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// FitsGrid reports whether cols x rows cells fit on a width x height
// screen with room for reserved lines of text around them
func FitsGrid(width, height, cols, rows, reserved int) bool {
	return cols <= width && rows+reserved <= height
}
