package backend

import (
	"sync"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/draftsnap/internal/input/key"
	"github.com/dshills/draftsnap/internal/input/mouse"
)

// Terminal implements Backend using tcell for terminal output.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex
	mouse  mouseState
}

// NewTerminal creates a new terminal backend.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminalWithScreen(screen), nil
}

// NewTerminalWithScreen wraps an existing screen, such as a tcell
// simulation screen.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	// Motion events drive the snap preview.
	t.screen.EnableMouse(tcell.MouseMotionEvents)
	t.screen.HideCursor()
	return nil
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

func (t *Terminal) SetCell(x, y int, r rune, style Style) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.SetContent(x, y, r, nil, convertStyle(style))
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

func (t *Terminal) PollEvent() Event {
	ev := t.screen.PollEvent()
	if ev == nil {
		return Event{Type: EventClosed}
	}
	return t.mouse.convertEvent(ev)
}

func (t *Terminal) PostEvent(data any) {
	_ = t.screen.PostEvent(tcell.NewEventInterrupt(data)) // best-effort; the queue may be full
}

// convertStyle converts our Style to tcell.Style.
func convertStyle(s Style) tcell.Style {
	style := tcell.StyleDefault
	if s.Foreground != 0 {
		c := uint32(s.Foreground)
		style = style.Foreground(tcell.NewRGBColor(int32(c>>16&0xff), int32(c>>8&0xff), int32(c&0xff)))
	}
	if s.Bold {
		style = style.Bold(true)
	}
	if s.Reverse {
		style = style.Reverse(true)
	}
	return style
}

// mouseState remembers the pressed buttons so that tcell's button state
// reports can be turned into press and release transitions.
type mouseState struct {
	buttons tcell.ButtonMask
}

var buttonMap = []struct {
	mask   tcell.ButtonMask
	button mouse.Button
}{
	{tcell.Button1, mouse.ButtonLeft},
	{tcell.Button2, mouse.ButtonRight},
	{tcell.Button3, mouse.ButtonMiddle},
}

// convertEvent converts tcell events to our Event type.
func (m *mouseState) convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		k, ok := convertKey(e)
		if !ok {
			return Event{Type: EventNone}
		}
		if k.Key == key.KeyRune && k.Rune == 'c' && k.Modifiers.Has(key.ModCtrl) {
			return Event{Type: EventInterrupt}
		}
		return Event{Type: EventKey, Key: k}

	case *tcell.EventMouse:
		x, y := e.Position()
		out := Event{Type: EventMouse, X: x, Y: y, Button: mouse.ButtonNone, Action: mouse.ActionMove, Mod: convertMod(e.Modifiers())}
		b := e.Buttons()
		switch {
		case b&tcell.WheelUp != 0:
			out.Action, out.Delta = mouse.ActionWheel, 1
			return out
		case b&tcell.WheelDown != 0:
			out.Action, out.Delta = mouse.ActionWheel, -1
			return out
		}
		for _, bm := range buttonMap {
			now, before := b&bm.mask != 0, m.buttons&bm.mask != 0
			if now == before {
				continue
			}
			out.Button = bm.button
			if now {
				out.Action = mouse.ActionPress
			} else {
				out.Action = mouse.ActionRelease
			}
			break
		}
		m.buttons = b & (tcell.Button1 | tcell.Button2 | tcell.Button3)
		return out

	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Width: w, Height: h}

	case *tcell.EventInterrupt:
		return Event{Type: EventInterrupt, Data: e.Data()}

	default:
		return Event{Type: EventNone}
	}
}

// convertKey converts a tcell key event. Control letters become runes with
// ModCtrl.
func convertKey(e *tcell.EventKey) (key.Event, bool) {
	mods := convertMod(e.Modifiers())
	switch e.Key() {
	case tcell.KeyRune:
		r := e.Rune()
		if r == ' ' {
			return key.NewSpecialEvent(key.KeySpace, mods), true
		}
		if mods.Has(key.ModCtrl) {
			r = unicode.ToLower(r)
		}
		return key.NewRuneEvent(r, mods), true
	case tcell.KeyEscape:
		return key.NewSpecialEvent(key.KeyEscape, mods), true
	case tcell.KeyEnter:
		return key.NewSpecialEvent(key.KeyEnter, mods), true
	case tcell.KeyTab:
		return key.NewSpecialEvent(key.KeyTab, mods), true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return key.NewSpecialEvent(key.KeyBackspace, mods), true
	case tcell.KeyDelete:
		return key.NewSpecialEvent(key.KeyDelete, mods), true
	case tcell.KeyUp:
		return key.NewSpecialEvent(key.KeyUp, mods), true
	case tcell.KeyDown:
		return key.NewSpecialEvent(key.KeyDown, mods), true
	case tcell.KeyLeft:
		return key.NewSpecialEvent(key.KeyLeft, mods), true
	case tcell.KeyRight:
		return key.NewSpecialEvent(key.KeyRight, mods), true
	}
	if k := e.Key(); k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return key.NewRuneEvent('a'+rune(k-tcell.KeyCtrlA), mods|key.ModCtrl), true
	}
	return key.Event{}, false
}

// convertMod converts tcell modifier mask to our Modifier.
func convertMod(m tcell.ModMask) key.Modifier {
	var result key.Modifier
	if m&tcell.ModShift != 0 {
		result |= key.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= key.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= key.ModAlt
	}
	return result
}
