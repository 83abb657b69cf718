package terminal

import (
	"unicode"
	"unicode/utf8"

	"github.com/valpere/pajajap/internal/ui"
)

// Control bytes as delivered by a terminal in raw mode.
const (
	backspace = 0x08
	tab       = 0x09
	lineFeed  = 0x0a
	carriage  = 0x0d
	escape    = 0x1b
	del       = 0x7f
)

// Escape sequences terminals send for Control+Enter when extended key
// reporting is on (CSI-u and xterm modifyOtherKeys).
var ctrlEnterSequences = []string{
	"\x1b[13;5u",
	"\x1b[27;5;13~",
}

// Decode turns a chunk of raw terminal input into key events.
//
// Control+Enter is reported by most terminals as LF (the same byte as
// Control+J) while a plain Enter is CR. Unrecognised escape sequences are
// dropped.
func Decode(b []byte) []ui.KeyEvent {
	var events []ui.KeyEvent

	for len(b) > 0 {
		switch c := b[0]; {
		case c == escape:
			ev, n, ok := decodeEscape(b)
			if ok {
				events = append(events, ev)
			}
			b = b[n:]
			continue
		case c == carriage:
			events = append(events, ui.KeyEvent{Key: ui.KeyEnter})
		case c == lineFeed:
			events = append(events, ui.KeyEvent{Key: ui.KeyEnter, Ctrl: true})
		case c == del || c == backspace:
			events = append(events, ui.KeyEvent{Key: ui.KeyBackspace})
		case c == tab:
			events = append(events, ui.KeyEvent{Key: ui.KeyTab})
		case c < 0x20:
			// Caret notation: 0x00 is Control+@, 0x01 Control+A, 0x1c Control+\.
			events = append(events, ui.KeyEvent{Key: string(unicode.ToLower(rune(c + 0x40))), Ctrl: true})
		default:
			r, n := utf8.DecodeRune(b)
			if r != utf8.RuneError || n > 1 {
				events = append(events, ui.KeyEvent{Key: string(r)})
			}
			b = b[n:]
			continue
		}
		b = b[1:]
	}

	return events
}

// decodeEscape reads one escape sequence starting at b[0] and returns the
// number of bytes it spans.
func decodeEscape(b []byte) (ui.KeyEvent, int, bool) {
	for _, seq := range ctrlEnterSequences {
		if len(b) >= len(seq) && string(b[:len(seq)]) == seq {
			return ui.KeyEvent{Key: ui.KeyEnter, Ctrl: true}, len(seq), true
		}
	}

	if len(b) == 1 {
		return ui.KeyEvent{Key: ui.KeyEscape}, 1, true
	}

	switch b[1] {
	case '[':
		// CSI: parameters and intermediates up to a final byte in 0x40..0x7e.
		for i := 2; i < len(b); i++ {
			if b[i] >= 0x40 && b[i] <= 0x7e {
				return ui.KeyEvent{}, i + 1, false
			}
		}
		return ui.KeyEvent{}, len(b), false
	case 'O':
		if len(b) >= 3 {
			return ui.KeyEvent{}, 3, false
		}
		return ui.KeyEvent{}, len(b), false
	case carriage:
		return ui.KeyEvent{Key: ui.KeyEnter, Alt: true}, 2, true
	case escape:
		return ui.KeyEvent{Key: ui.KeyEscape}, 1, true
	}

	r, n := utf8.DecodeRune(b[1:])
	return ui.KeyEvent{Key: string(r), Alt: true}, 1 + n, true
}
