package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrInvalidKey is returned by Parse for unrecognized key text.
var ErrInvalidKey = errors.New("invalid key")

// Event represents a single key press.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier
}

// NewRuneEvent creates a key event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecialEvent creates a key event for a special key.
func NewSpecialEvent(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// StartsNumber reports whether the key can begin typed numeric input:
// a digit, a minus sign or a decimal point without Ctrl or Alt held.
func (e Event) StartsNumber() bool {
	if !e.IsRune() || e.Modifiers.Has(ModCtrl|ModAlt) {
		return false
	}
	return e.Rune == '-' || e.Rune == '.' || (e.Rune >= '0' && e.Rune <= '9')
}

// String returns the canonical text form accepted by Parse.
func (e Event) String() string {
	var name string
	if e.Key == KeyRune {
		name = string(e.Rune)
	} else {
		name = e.Key.String()
	}
	if mods := e.Modifiers.String(); mods != "" {
		return mods + "+" + name
	}
	return name
}

// Parse converts text like "Esc", "5" or "Ctrl+Z" into an Event.
// A lone "+" or "-" is a character, not a separator.
func Parse(s string) (Event, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Event{}, fmt.Errorf("%w: empty", ErrInvalidKey)
	}

	var mods Modifier
	rest := s
	for {
		i := strings.Index(rest, "+")
		if i <= 0 || i == len(rest)-1 {
			break
		}
		mod := ModifierFromName(rest[:i])
		if mod == ModNone {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidKey, rest[:i])
		}
		mods |= mod
		rest = rest[i+1:]
	}

	if utf8.RuneCountInString(rest) == 1 {
		r, _ := utf8.DecodeRuneInString(rest)
		if r == ' ' {
			return NewSpecialEvent(KeySpace, mods), nil
		}
		return NewRuneEvent(r, mods), nil
	}
	if k := KeyFromName(rest); k != KeyNone {
		return NewSpecialEvent(k, mods), nil
	}
	return Event{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
}
