package history

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Store is the keyed state the history edits. Restore with a nil state
// removes the entry.
type Store interface {
	Restore(key string, state any)
}

// Operation represents a single undoable change of one keyed entry.
type Operation struct {
	Key    string
	Before any // nil when the entry did not exist
	After  any // nil when the entry was removed

	Timestamp time.Time
}

// NewAddOperation records the creation of an entry.
func NewAddOperation(key string, state any) *Operation {
	return &Operation{Key: key, After: state, Timestamp: time.Now()}
}

// NewRemoveOperation records the removal of an entry.
func NewRemoveOperation(key string, state any) *Operation {
	return &Operation{Key: key, Before: state, Timestamp: time.Now()}
}

// NewReplaceOperation records a change of an existing entry.
func NewReplaceOperation(key string, before, after any) *Operation {
	return &Operation{Key: key, Before: before, After: after, Timestamp: time.Now()}
}

// Invert returns the operation that reverses this one.
func (op *Operation) Invert() *Operation {
	return &Operation{
		Key:       op.Key,
		Before:    op.After,
		After:     op.Before,
		Timestamp: op.Timestamp,
	}
}

// Apply writes the after state into s.
func (op *Operation) Apply(s Store) {
	s.Restore(op.Key, op.After)
}

// OperationInfo provides read-only info about a history entry.
type OperationInfo struct {
	ID          ulid.ULID
	Description string
	Timestamp   time.Time
}

// OperationList is a collection of operations that are applied together.
type OperationList []*Operation

// Invert returns a list of inverse operations in reverse order.
func (ops OperationList) Invert() OperationList {
	result := make(OperationList, len(ops))
	for i, op := range ops {
		result[len(ops)-1-i] = op.Invert()
	}
	return result
}

// Keys returns the distinct keys touched, in first-touch order.
func (ops OperationList) Keys() []string {
	seen := make(map[string]bool, len(ops))
	var keys []string
	for _, op := range ops {
		if !seen[op.Key] {
			seen[op.Key] = true
			keys = append(keys, op.Key)
		}
	}
	return keys
}
