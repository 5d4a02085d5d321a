package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchDeliversWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")
	other := filepath.Join(dir, "other.toml")
	if err := os.WriteFile(path, []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := New(WithDebounce(20 * time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	events := make(chan Event, 16)
	w.OnChange(func(ev Event) {
		select {
		case events <- ev:
		default:
		}
	})
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}
	w.Start()
	if !w.IsRunning() {
		t.Fatal("IsRunning() = false after Start")
	}

	if err := os.WriteFile(other, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("b"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-events:
		abs, _ := filepath.Abs(path)
		if ev.Path != abs {
			t.Errorf("event path = %q, want %q", ev.Path, abs)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no event after write")
	}
}

func TestWatchRefcountsDirectories(t *testing.T) {
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a.toml"), filepath.Join(dir, "b.toml")

	w, err := New()
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	for _, p := range []string{a, b, a} {
		if err := w.Watch(p); err != nil {
			t.Fatal(err)
		}
	}
	if got := len(w.WatchedFiles()); got != 2 {
		t.Fatalf("WatchedFiles() = %d, want 2", got)
	}
	if err := w.Unwatch(a); err != nil {
		t.Fatal(err)
	}
	if w.dirs[dir] != 1 {
		t.Errorf("dir refcount = %d, want 1", w.dirs[dir])
	}
	if err := w.Unwatch(b); err != nil {
		t.Fatal(err)
	}
	if _, ok := w.dirs[dir]; ok {
		t.Error("directory still watched")
	}
}

func TestQueueEventCoalesces(t *testing.T) {
	tests := []struct {
		name string
		ops  []Operation
		want Operation
	}{
		{"create then write", []Operation{OpCreate, OpWrite}, OpCreate},
		{"writes", []Operation{OpWrite, OpWrite, OpWrite}, OpWrite},
		{"write then remove", []Operation{OpWrite, OpRemove}, OpRemove},
		{"remove then create", []Operation{OpRemove, OpCreate}, OpCreate},
		{"write then rename", []Operation{OpWrite, OpRename}, OpRename},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Watcher{
				debounce:     time.Millisecond,
				pendingFiles: make(map[string]pendingEvent),
			}
			var got []Event
			w.handlers = []Handler{func(ev Event) { got = append(got, ev) }}

			past := time.Now().Add(-time.Second)
			for _, op := range tt.ops {
				w.queueEvent(Event{Path: "/s.toml", Op: op, Time: past})
			}
			w.processPendingEvents()

			if len(got) != 1 {
				t.Fatalf("got %d events, want 1", len(got))
			}
			if got[0].Op != tt.want {
				t.Errorf("Op = %s, want %s", got[0].Op, tt.want)
			}
		})
	}
}

func TestProcessPendingWaitsForStability(t *testing.T) {
	w := &Watcher{
		debounce:     time.Hour,
		pendingFiles: make(map[string]pendingEvent),
	}
	calls := 0
	w.handlers = []Handler{func(Event) { calls++ }}

	w.queueEvent(Event{Path: "/s.toml", Op: OpWrite, Time: time.Now()})
	w.processPendingEvents()
	if calls != 0 {
		t.Errorf("recent event emitted early")
	}
	if len(w.pendingFiles) != 1 {
		t.Errorf("pending = %d, want 1", len(w.pendingFiles))
	}
}

func TestHandlerPanicIsRecovered(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	calls := 0
	w.OnChange(func(Event) { panic("boom") })
	w.OnChange(func(Event) { calls++ })
	w.emitEvent(Event{Path: "/s.toml", Op: OpWrite})
	if calls != 1 {
		t.Errorf("second handler calls = %d, want 1", calls)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatal(err)
	}
	w.Start()
	if err := w.Stop(); err != nil {
		t.Fatal(err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("second Stop() = %v", err)
	}
	if w.IsRunning() {
		t.Error("IsRunning() = true after Stop")
	}
}

func TestOperationString(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{Operation(7), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
