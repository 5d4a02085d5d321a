package history

import (
	"errors"
	"testing"
)

// mapStore is a Store backed by a map of strings.
type mapStore map[string]any

func (m mapStore) Restore(key string, state any) {
	if state == nil {
		delete(m, key)
		return
	}
	m[key] = state
}

// add applies an add operation and returns the recording command.
func add(s mapStore, key, value string) *ChangeCommand {
	op := NewAddOperation(key, value)
	op.Apply(s)
	return NewChangeCommand("add "+key, op)
}

// Operation Tests

func TestOperationApply(t *testing.T) {
	tests := []struct {
		name string
		op   *Operation
		want mapStore
	}{
		{"add", NewAddOperation("b", 2), mapStore{"a": 1, "b": 2}},
		{"remove", NewRemoveOperation("a", 1), mapStore{}},
		{"replace", NewReplaceOperation("a", 1, 3), mapStore{"a": 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mapStore{"a": 1}
			tt.op.Apply(s)
			if len(s) != len(tt.want) {
				t.Fatalf("store = %v, want %v", s, tt.want)
			}
			for k, v := range tt.want {
				if s[k] != v {
					t.Errorf("store = %v, want %v", s, tt.want)
				}
			}
			if tt.op.Timestamp.IsZero() {
				t.Error("timestamp not set")
			}

			tt.op.Invert().Apply(s)
			if len(s) != 1 || s["a"] != 1 {
				t.Errorf("after inverse: %v", s)
			}
		})
	}
}

func TestOperationInvert(t *testing.T) {
	op := NewReplaceOperation("m", "old", "new")
	inv := op.Invert()

	if inv.Key != "m" {
		t.Errorf("key = %q", inv.Key)
	}
	if inv.Before != "new" || inv.After != "old" {
		t.Errorf("inverted states = %v -> %v", inv.Before, inv.After)
	}
	if add := NewAddOperation("m", 1).Invert(); add.Before != 1 || add.After != nil {
		t.Error("inverse of add should be a remove")
	}
}

func TestOperationListKeys(t *testing.T) {
	ops := OperationList{
		NewAddOperation("b", 1),
		NewReplaceOperation("a", 1, 2),
		NewReplaceOperation("b", 1, 2),
	}
	keys := ops.Keys()
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Errorf("Keys() = %v", keys)
	}

	inv := ops.Invert()
	if inv[0].Key != "b" || inv[2].Key != "b" || inv[1].Key != "a" {
		t.Error("inverted list not reversed")
	}
}

// Command Tests

func TestChangeCommandUndoRedo(t *testing.T) {
	s := mapStore{"a": "1"}
	cmd := NewChangeCommand("edit",
		NewReplaceOperation("a", "1", "2"),
		NewAddOperation("b", "3"),
		NewReplaceOperation("a", "2", "4"),
	)

	if err := cmd.Execute(s); err != nil {
		t.Fatal(err)
	}
	if s["a"] != "4" || s["b"] != "3" {
		t.Errorf("after execute: %v", s)
	}

	if err := cmd.Undo(s); err != nil {
		t.Fatal(err)
	}
	if s["a"] != "1" || len(s) != 1 {
		t.Errorf("after undo: %v", s)
	}
}

func TestChangeCommandDescription(t *testing.T) {
	tests := []struct {
		cmd  *ChangeCommand
		want string
	}{
		{NewChangeCommand("execute line"), "execute line"},
		{NewChangeCommand("", NewAddOperation("m1", 1)), "Change m1"},
		{NewChangeCommand("", NewAddOperation("m1", 1), NewAddOperation("m2", 1), NewReplaceOperation("m1", 1, 2)), "Change 2 entries"},
	}
	for _, tt := range tests {
		if got := tt.cmd.Description(); got != tt.want {
			t.Errorf("Description() = %q, want %q", got, tt.want)
		}
	}
}

type failingCommand struct{}

func (failingCommand) Execute(Store) error { return errors.New("boom") }
func (failingCommand) Undo(Store) error    { return nil }
func (failingCommand) Description() string { return "fail" }

func TestCompoundCommandRollsBackOnFailure(t *testing.T) {
	s := mapStore{}
	cmd := &CompoundCommand{Name: "both", Commands: []Command{
		NewChangeCommand("", NewAddOperation("a", "1")),
		failingCommand{},
	}}

	if err := cmd.Execute(s); err == nil {
		t.Fatal("expected error")
	}
	if len(s) != 0 {
		t.Errorf("partial execution not rolled back: %v", s)
	}
}

func TestCompoundCommandUndo(t *testing.T) {
	s := mapStore{}
	cmd := &CompoundCommand{Commands: []Command{
		NewChangeCommand("", NewAddOperation("a", "1")),
		NewChangeCommand("", NewReplaceOperation("a", "1", "2")),
	}}
	if cmd.Description() != "2 changes" {
		t.Errorf("Description() = %q", cmd.Description())
	}
	if err := cmd.Execute(s); err != nil {
		t.Fatal(err)
	}
	if s["a"] != "2" {
		t.Errorf("after execute: %v", s)
	}
	if err := cmd.Undo(s); err != nil {
		t.Fatal(err)
	}
	if len(s) != 0 {
		t.Errorf("after undo: %v", s)
	}
}

// History Tests

func TestHistoryPushAndUndo(t *testing.T) {
	s := mapStore{}
	history := NewHistory(100)
	history.Push(add(s, "a", "1"))

	if err := history.Undo(s); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if len(s) != 0 {
		t.Errorf("after undo: %v", s)
	}
}

func TestHistoryRedo(t *testing.T) {
	s := mapStore{}
	history := NewHistory(100)
	history.Push(add(s, "a", "1"))
	_ = history.Undo(s)

	if err := history.Redo(s); err != nil {
		t.Fatalf("Redo failed: %v", err)
	}
	if s["a"] != "1" {
		t.Errorf("after redo: %v", s)
	}
}

func TestHistoryRedoClearedOnPush(t *testing.T) {
	s := mapStore{}
	history := NewHistory(100)
	history.Push(add(s, "a", "1"))
	_ = history.Undo(s)

	if _, ok := history.PeekRedo(); !ok {
		t.Error("should be able to redo")
	}

	history.Push(add(s, "b", "2"))

	if _, ok := history.PeekRedo(); ok {
		t.Error("redo should be cleared after new command")
	}
}

func TestHistoryMaxEntries(t *testing.T) {
	s := mapStore{}
	history := NewHistory(3)

	for _, k := range []string{"a", "b", "c", "d", "e"} {
		history.Push(add(s, k, k))
	}

	if history.UndoCount() != 3 {
		t.Errorf("undo count = %d, want 3", history.UndoCount())
	}

	history.SetMaxEntries(1)
	if history.UndoCount() != 1 || history.MaxEntries() != 1 {
		t.Errorf("after shrink: count %d, max %d", history.UndoCount(), history.MaxEntries())
	}
}

func TestHistoryDefaultMaxEntries(t *testing.T) {
	if got := NewHistory(0).MaxEntries(); got != DefaultMaxEntries {
		t.Errorf("MaxEntries() = %d, want %d", got, DefaultMaxEntries)
	}
}

func TestHistoryErrors(t *testing.T) {
	history := NewHistory(10)
	s := mapStore{}

	if err := history.Undo(s); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo() = %v, want ErrNothingToUndo", err)
	}
	if err := history.Redo(s); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo() = %v, want ErrNothingToRedo", err)
	}
}

func TestHistoryUndoFailureKeepsEntry(t *testing.T) {
	history := NewHistory(10)
	history.Push(&CompoundCommand{Name: "x", Commands: []Command{failingUndo{}}})

	if err := history.Undo(mapStore{}); err == nil {
		t.Fatal("expected error")
	}
	if history.UndoCount() != 1 {
		t.Error("failed undo should restore the entry")
	}
}

type failingUndo struct{}

func (failingUndo) Execute(Store) error { return nil }
func (failingUndo) Undo(Store) error    { return errors.New("boom") }
func (failingUndo) Description() string { return "fail undo" }

func TestHistoryGrouping(t *testing.T) {
	s := mapStore{}
	history := NewHistory(100)

	history.BeginGroup("array")
	history.Push(add(s, "a", "1"))
	history.Push(add(s, "b", "2"))
	history.EndGroup()

	if history.UndoCount() != 1 {
		t.Fatalf("undo count = %d, want 1", history.UndoCount())
	}
	info, _ := history.PeekUndo()
	if info.Description != "array" {
		t.Errorf("description = %q", info.Description)
	}

	_ = history.Undo(s)
	if len(s) != 0 {
		t.Errorf("after undo: %v", s)
	}
	_ = history.Redo(s)
	if s["a"] != "1" || s["b"] != "2" {
		t.Errorf("after redo: %v", s)
	}
}

func TestHistoryNestedGroup(t *testing.T) {
	s := mapStore{}
	history := NewHistory(100)

	history.BeginGroup("outer")
	history.Push(add(s, "a", "1"))
	history.BeginGroup("inner")
	history.Push(add(s, "b", "2"))
	history.EndGroup()
	history.EndGroup()

	if history.UndoCount() != 1 {
		t.Fatalf("undo count = %d, want 1", history.UndoCount())
	}
	if info, _ := history.PeekUndo(); info.Description != "outer" {
		t.Errorf("description = %q, want outer", info.Description)
	}
}

func TestHistoryEmptyGroup(t *testing.T) {
	history := NewHistory(100)
	history.BeginGroup("nothing")
	history.EndGroup()

	if history.CanUndo() {
		t.Error("empty group should not create an entry")
	}
}

func TestHistoryCancelGroup(t *testing.T) {
	s := mapStore{}
	history := NewHistory(100)

	history.BeginGroup("g")
	history.Push(add(s, "a", "1"))
	history.CancelGroup()

	if s["a"] != "1" {
		t.Errorf("store = %v", s)
	}
	if history.CanUndo() {
		t.Error("canceled group should not create undo entry")
	}

	history.Push(add(s, "b", "2"))
	if history.UndoCount() != 1 {
		t.Error("pushes after a cancelled group should not be grouped")
	}
}

func TestHistoryInfoIDsAreOrdered(t *testing.T) {
	s := mapStore{}
	history := NewHistory(100)
	history.Push(add(s, "a", "1"))
	history.Push(add(s, "b", "2"))

	infos := history.UndoInfo()
	if len(infos) != 2 {
		t.Fatalf("len = %d", len(infos))
	}
	if infos[0].ID.Compare(infos[1].ID) >= 0 {
		t.Error("entry ids should be increasing")
	}
	if infos[1].Description != "add b" {
		t.Errorf("description = %q", infos[1].Description)
	}

	_ = history.Undo(s)
	peek, ok := history.PeekRedo()
	if !ok || peek.Description != "add b" {
		t.Errorf("PeekRedo() = %v, %v", peek, ok)
	}
	if peek.ID != infos[1].ID {
		t.Error("redo entry should keep its id")
	}
}
