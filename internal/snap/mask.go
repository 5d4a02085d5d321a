package snap

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSnapType is returned by ParseMask for an unknown name.
var ErrUnknownSnapType = errors.New("unknown snap type")

// Mask selects which kinds of object snap are active.
type Mask uint32

const (
	MaskEndPoint Mask = 1 << iota
	MaskMidPoint
	MaskCenter
	MaskIntersection

	MaskNone Mask = 0
	MaskAll       = MaskEndPoint | MaskMidPoint | MaskCenter | MaskIntersection
)

var maskNames = []struct {
	mask Mask
	name string
}{
	{MaskEndPoint, "endpoint"},
	{MaskMidPoint, "midpoint"},
	{MaskCenter, "center"},
	{MaskIntersection, "intersection"},
}

// Has reports whether every bit of flag is set.
func (m Mask) Has(flag Mask) bool {
	return m&flag == flag
}

// Names returns the names of the set flags in canonical order.
func (m Mask) Names() []string {
	var names []string
	for _, mn := range maskNames {
		if m.Has(mn.mask) {
			names = append(names, mn.name)
		}
	}
	return names
}

// String returns the flag names joined by "|", or "none".
func (m Mask) String() string {
	if m == MaskNone {
		return "none"
	}
	return strings.Join(m.Names(), "|")
}

// ParseMask builds a mask from flag names (case-insensitive). "all" and
// "none" are accepted as shorthands.
func ParseMask(names []string) (Mask, error) {
	var m Mask
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		switch name {
		case "all":
			m |= MaskAll
			continue
		case "none", "":
			continue
		}
		found := false
		for _, mn := range maskNames {
			if mn.name == name {
				m |= mn.mask
				found = true
				break
			}
		}
		if !found {
			return MaskNone, fmt.Errorf("%w: %q", ErrUnknownSnapType, raw)
		}
	}
	return m, nil
}
