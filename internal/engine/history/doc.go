// Package history provides undo/redo of committed document transactions.
//
// An Operation records one keyed change with before/after state: the key of
// the entry that changed (a model id), the state before the change (nil when
// the entry was added) and the state after it (nil when it was removed).
// A ChangeCommand replays a list of operations against a Store.
//
// History keeps the undo and redo stacks. A document transaction opens a
// group, pushes one command per change and closes the group, so the whole
// transaction undoes as a single CompoundCommand:
//
//	h.BeginGroup("execute create.box")
//	h.Push(NewChangeCommand("add Box 1", op))
//	h.EndGroup()
//
//	h.Undo(store)
//
// Every entry carries a time-ordered ULID, reported by UndoInfo and the
// Peek methods.
package history
