package mouse

import (
	"fmt"

	"github.com/dshills/draftsnap/internal/input/key"
)

// Button represents a mouse button.
type Button uint8

const (
	// ButtonLeft is the primary (left) mouse button.
	ButtonLeft Button = iota
	// ButtonMiddle is the middle mouse button (scroll wheel click).
	ButtonMiddle
	// ButtonRight is the secondary (right) mouse button.
	ButtonRight
	// ButtonNone indicates no button, as in a plain move.
	ButtonNone Button = 255
)

// String returns a string representation of the button.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	default:
		return "none"
	}
}

// Action represents the type of mouse action.
type Action uint8

const (
	// ActionMove indicates pointer movement.
	ActionMove Action = iota
	// ActionPress indicates a button press.
	ActionPress
	// ActionRelease indicates a button release.
	ActionRelease
	// ActionWheel indicates a wheel turn.
	ActionWheel
)

// String returns a string representation of the action.
func (a Action) String() string {
	switch a {
	case ActionMove:
		return "move"
	case ActionPress:
		return "press"
	case ActionRelease:
		return "release"
	case ActionWheel:
		return "wheel"
	default:
		return fmt.Sprintf("action(%d)", a)
	}
}

// Event represents a pointer input event.
type Event struct {
	// X and Y are viewport pixel coordinates.
	X, Y float64

	// Button is the mouse button involved. ButtonLeft is button 0.
	Button Button

	// Action is the type of mouse action.
	Action Action

	// Delta is the wheel step for ActionWheel events.
	Delta float64

	// Modifiers are any keyboard modifiers held during the event.
	Modifiers key.Modifier
}

// Move returns a move event at (x, y).
func Move(x, y float64) Event {
	return Event{X: x, Y: y, Button: ButtonNone, Action: ActionMove}
}

// Press returns a press event for b at (x, y).
func Press(x, y float64, b Button) Event {
	return Event{X: x, Y: y, Button: b, Action: ActionPress}
}

// Release returns a release event for b at (x, y).
func Release(x, y float64, b Button) Event {
	return Event{X: x, Y: y, Button: b, Action: ActionRelease}
}

// Wheel returns a wheel event at (x, y).
func Wheel(x, y, delta float64) Event {
	return Event{X: x, Y: y, Button: ButtonNone, Action: ActionWheel, Delta: delta}
}

// IsPrimary reports whether the event involves the primary button.
func (e Event) IsPrimary() bool {
	return e.Button == ButtonLeft && (e.Action == ActionPress || e.Action == ActionRelease)
}

// String returns a compact description such as "press left (10,20)".
func (e Event) String() string {
	switch e.Action {
	case ActionMove:
		return fmt.Sprintf("move (%g,%g)", e.X, e.Y)
	case ActionWheel:
		return fmt.Sprintf("wheel %g (%g,%g)", e.Delta, e.X, e.Y)
	default:
		return fmt.Sprintf("%s %s (%g,%g)", e.Action, e.Button, e.X, e.Y)
	}
}
