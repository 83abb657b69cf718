package ui

import "strings"

// Key names used by KeyEvent.
const (
	KeyEnter     = "Enter"
	KeyBackspace = "Backspace"
	KeyTab       = "Tab"
	KeyEscape    = "Escape"
)

// KeyEvent is a single key press. Key is either one of the Key* names or the
// printable text the key produced.
type KeyEvent struct {
	Key   string
	Ctrl  bool
	Alt   bool
	Shift bool
}

// IsTranslateShortcut reports whether the event is Control+Enter.
func (e KeyEvent) IsTranslateShortcut() bool {
	return e.Ctrl && e.Key == KeyEnter
}

func (e KeyEvent) String() string {
	var parts []string
	if e.Ctrl {
		parts = append(parts, "Ctrl")
	}
	if e.Alt {
		parts = append(parts, "Alt")
	}
	if e.Shift {
		parts = append(parts, "Shift")
	}
	parts = append(parts, e.Key)
	return strings.Join(parts, "+")
}
