// Package input turns key presses from the terminal or a window into
// curator actions.
package input

import (
	"bufio"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// KeyReader decodes single key presses from a byte stream, such as a
// terminal in raw mode
type KeyReader struct {
	r *bufio.Reader
}

// NewKeyReader wraps r
func NewKeyReader(r io.Reader) *KeyReader {
	return &KeyReader{r: bufio.NewReader(r)}
}

// ReadKey blocks until one key arrives and returns its code: "arrow_up" and
// friends for arrow keys, "enter", "escape", "ctrl_c", "space", "f9", or the
// lower-cased character itself.
func (k *KeyReader) ReadKey() (string, error) {
	b, err := k.r.ReadByte()
	if err != nil {
		return "", err
	}

	switch b {
	case 0x1b:
		return k.readEscape()
	case 3:
		return "ctrl_c", nil
	case '\n', '\r':
		return "enter", nil
	case ' ':
		return "space", nil
	}
	return strings.ToLower(string(rune(b))), nil
}

// readEscape decodes the rest of an escape sequence. Both CSI (ESC [) and
// SS3 (ESC O) forms are accepted; anything else is a lone Escape and the
// byte after it is left for the next read.
func (k *KeyReader) readEscape() (string, error) {
	b2, err := k.r.ReadByte()
	if err == io.EOF {
		return "escape", nil
	}
	if err != nil {
		return "", err
	}
	if b2 != '[' && b2 != 'O' {
		k.r.UnreadByte()
		return "escape", nil
	}

	b3, err := k.r.ReadByte()
	if err != nil {
		return "", err
	}
	switch b3 {
	case 'A':
		return "arrow_up", nil
	case 'B':
		return "arrow_down", nil
	case 'C':
		return "arrow_right", nil
	case 'D':
		return "arrow_left", nil
	case '2':
		// F9 arrives as ESC [ 2 0 ~
		rest, err := k.r.ReadString('~')
		if err != nil {
			return "", err
		}
		if rest == "0~" {
			return "f9", nil
		}
	}
	// Unknown escape sequence - discard it
	return "", nil
}

// RawMode puts the terminal behind f into raw mode so keys arrive without
// Enter. The returned function restores the previous state.
func RawMode(f *os.File) (restore func(), err error) {
	fd := int(f.Fd())
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return func() { term.Restore(fd, old) }, nil
}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Terminal reads keys from a terminal, switching it to raw mode only for
// the duration of each read so ordinary output keeps its line discipline
type Terminal struct {
	f    *os.File
	keys *KeyReader
}

// NewTerminal reads keys from f, normally os.Stdin
func NewTerminal(f *os.File) *Terminal {
	return &Terminal{f: f, keys: NewKeyReader(f)}
}

// ReadKey waits for one key press
func (t *Terminal) ReadKey() (string, error) {
	restore, err := RawMode(t.f)
	if err != nil {
		return "", err
	}
	defer restore()
	return t.keys.ReadKey()
}
