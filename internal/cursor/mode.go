package cursor

import (
	"fmt"
	"strings"
)

// Mode is the behaviour bound to a primary-button drag over the document.
type Mode int

const (
	// Select drags select lines of text. It is the default.
	Select Mode = iota
	// Hand drags pan the document.
	Hand
	// Zoom is reserved and currently has no behaviour.
	Zoom
)

func (m Mode) String() string {
	switch m {
	case Select:
		return "select"
	case Hand:
		return "hand"
	case Zoom:
		return "zoom"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a mode name (or its number) to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "select", "0":
		return Select, nil
	case "hand", "pan", "1":
		return Hand, nil
	case "zoom", "2":
		return Zoom, nil
	}
	return Select, fmt.Errorf("%w: %q", ErrUnsupportedMode, s)
}
