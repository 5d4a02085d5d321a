package history

import (
	"errors"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// undoEntry wraps a command with metadata.
type undoEntry struct {
	id        ulid.ULID
	command   Command
	timestamp time.Time
}

func (e *undoEntry) info() OperationInfo {
	return OperationInfo{
		ID:          e.id,
		Description: e.command.Description(),
		Timestamp:   e.timestamp,
	}
}

// History manages undo/redo state for a document.
type History struct {
	mu sync.Mutex

	undoStack []*undoEntry
	redoStack []*undoEntry

	// Grouping state
	grouping  bool
	groupName string
	groupCmds []Command

	// Configuration
	maxEntries int
}

// DefaultMaxEntries bounds the undo stack when no size is configured.
const DefaultMaxEntries = 200

// NewHistory creates a new history manager.
func NewHistory(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{
		maxEntries: maxEntries,
	}
}

// Push adds an already applied command to the undo stack.
// Clears the redo stack.
func (h *History) Push(cmd Command) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		h.groupCmds = append(h.groupCmds, cmd)
		return
	}

	h.pushLocked(cmd)
}

// pushLocked adds a command without acquiring the lock.
func (h *History) pushLocked(cmd Command) {
	h.undoStack = append(h.undoStack, &undoEntry{
		id:        ulid.Make(),
		command:   cmd,
		timestamp: time.Now(),
	})

	// Clear redo stack
	h.redoStack = nil

	// Enforce max entries
	if len(h.undoStack) > h.maxEntries {
		// Remove oldest entries
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo undoes the last command.
// The lock is released during command execution to avoid holding it during
// store callbacks.
func (h *History) Undo(s Store) error {
	h.mu.Lock()
	if len(h.undoStack) == 0 {
		h.mu.Unlock()
		return ErrNothingToUndo
	}

	entry := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.mu.Unlock()

	// Execute undo without holding the lock
	if err := entry.command.Undo(s); err != nil {
		// Restore entry on failure
		h.mu.Lock()
		h.undoStack = append(h.undoStack, entry)
		h.mu.Unlock()
		return err
	}

	h.mu.Lock()
	h.redoStack = append(h.redoStack, entry)
	h.mu.Unlock()
	return nil
}

// Redo redoes the last undone command.
// The lock is released during command execution to avoid holding it during
// store callbacks.
func (h *History) Redo(s Store) error {
	h.mu.Lock()
	if len(h.redoStack) == 0 {
		h.mu.Unlock()
		return ErrNothingToRedo
	}

	entry := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.mu.Unlock()

	// Execute redo without holding the lock
	if err := entry.command.Execute(s); err != nil {
		// Restore entry on failure
		h.mu.Lock()
		h.redoStack = append(h.redoStack, entry)
		h.mu.Unlock()
		return err
	}

	h.mu.Lock()
	h.undoStack = append(h.undoStack, entry)
	h.mu.Unlock()
	return nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// UndoCount returns the number of undo operations available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// BeginGroup starts a command group. Commands pushed while grouping are
// combined into a single undo unit. Nested calls are ignored.
func (h *History) BeginGroup(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		return
	}

	h.grouping = true
	h.groupName = name
	h.groupCmds = nil
}

// EndGroup finishes a command group. The commands pushed since BeginGroup
// become one CompoundCommand named after the group; an empty group adds
// nothing.
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.grouping {
		return
	}

	h.grouping = false

	if len(h.groupCmds) == 0 {
		h.groupCmds = nil
		return
	}

	h.pushLocked(&CompoundCommand{Name: h.groupName, Commands: h.groupCmds})
	h.groupCmds = nil
}

// CancelGroup drops the open group without adding to history. The caller
// is responsible for reverting the store.
func (h *History) CancelGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.grouping = false
	h.groupCmds = nil
}

// UndoInfo returns info about available undo operations.
func (h *History) UndoInfo() []OperationInfo {
	h.mu.Lock()
	defer h.mu.Unlock()

	result := make([]OperationInfo, len(h.undoStack))
	for i, entry := range h.undoStack {
		result[i] = entry.info()
	}
	return result
}

// PeekUndo returns info about the next undo operation without removing it.
func (h *History) PeekUndo() (OperationInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return OperationInfo{}, false
	}

	entry := h.undoStack[len(h.undoStack)-1]
	return entry.info(), true
}

// PeekRedo returns info about the next redo operation without removing it.
func (h *History) PeekRedo() (OperationInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return OperationInfo{}, false
	}

	entry := h.redoStack[len(h.redoStack)-1]
	return entry.info(), true
}

// SetMaxEntries changes the maximum number of undo entries.
// If the current stack is larger, oldest entries are removed.
func (h *History) SetMaxEntries(max int) {
	if max <= 0 {
		max = DefaultMaxEntries
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.maxEntries = max

	if len(h.undoStack) > max {
		excess := len(h.undoStack) - max
		h.undoStack = h.undoStack[excess:]
	}
}

// MaxEntries returns the maximum number of undo entries.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}
