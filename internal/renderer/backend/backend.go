// Package backend draws an orthographic view into a character terminal
// and turns terminal input into pointer and key events.
package backend

import (
	"strings"

	"github.com/dshills/draftsnap/internal/input/key"
	"github.com/dshills/draftsnap/internal/input/mouse"
	"github.com/dshills/draftsnap/internal/view"
)

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventInterrupt
	EventClosed
)

// Event represents a terminal event. Mouse positions are in cells.
type Event struct {
	Type EventType

	// Key is set for EventKey.
	Key key.Event

	// X, Y, Button, Action and Delta are set for EventMouse.
	X, Y   int
	Button mouse.Button
	Action mouse.Action
	Delta  float64
	Mod    key.Modifier

	// Width and Height are set for EventResize.
	Width, Height int

	// Data is the payload of a posted EventInterrupt.
	Data any
}

// Style is the look of a single cell. A zero Foreground is the terminal
// default color.
type Style struct {
	Foreground view.Color
	Bold       bool
	Reverse    bool
}

// Backend defines the interface for terminal/display backends.
type Backend interface {
	// Init initializes the backend for use.
	// Must be called before any other methods.
	Init() error

	// Shutdown releases backend resources and restores terminal state.
	Shutdown()

	// Size returns the current terminal dimensions in cells.
	Size() (width, height int)

	// SetCell sets a single cell. Positions outside the terminal are
	// silently ignored.
	SetCell(x, y int, r rune, style Style)

	// Clear clears the entire screen.
	Clear()

	// Show flushes pending changes to the display.
	Show()

	// PollEvent waits for and returns the next terminal event.
	PollEvent() Event

	// PostEvent queues a synthetic EventInterrupt carrying data.
	PostEvent(data any)
}

type cell struct {
	r     rune
	style Style
}

// NullBackend is an in-memory backend for testing.
type NullBackend struct {
	width, height int
	cells         [][]cell
	events        chan Event
	shows         int
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	b := &NullBackend{events: make(chan Event, 100)}
	b.Resize(width, height)
	return b
}

func (b *NullBackend) Init() error { return nil }
func (b *NullBackend) Shutdown()   {}

func (b *NullBackend) Size() (int, int) {
	return b.width, b.height
}

func (b *NullBackend) SetCell(x, y int, r rune, style Style) {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		b.cells[y][x] = cell{r: r, style: style}
	}
}

func (b *NullBackend) Clear() {
	for y := range b.cells {
		for x := range b.cells[y] {
			b.cells[y][x] = cell{r: ' '}
		}
	}
}

func (b *NullBackend) Show() { b.shows++ }

func (b *NullBackend) PollEvent() Event {
	return <-b.events
}

func (b *NullBackend) PostEvent(data any) {
	b.Inject(Event{Type: EventInterrupt, Data: data})
}

// Inject queues ev for PollEvent. Events are dropped when the queue is full.
func (b *NullBackend) Inject(ev Event) {
	select {
	case b.events <- ev:
	default:
	}
}

// Cell returns the rune and style at (x, y).
func (b *NullBackend) Cell(x, y int) (rune, Style) {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		c := b.cells[y][x]
		return c.r, c.style
	}
	return ' ', Style{}
}

// Row returns row y as a string with trailing blanks removed.
func (b *NullBackend) Row(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	var sb strings.Builder
	for _, c := range b.cells[y] {
		sb.WriteRune(c.r)
	}
	return strings.TrimRight(sb.String(), " ")
}

// Shows returns how many times Show was called.
func (b *NullBackend) Shows() int { return b.shows }

// Resize simulates a terminal resize. The screen is cleared.
func (b *NullBackend) Resize(width, height int) {
	b.width, b.height = width, height
	b.cells = make([][]cell, height)
	for i := range b.cells {
		b.cells[i] = make([]cell, width)
	}
	b.Clear()
}
