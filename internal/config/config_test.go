package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/dshills/draftsnap/internal/config/notify"
	"github.com/dshills/draftsnap/internal/config/watcher"
	"github.com/dshills/draftsnap/internal/snap"
)

type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	s, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(s), nil
}

func (m memFS) Stat(path string) (fs.FileInfo, error) {
	return nil, fs.ErrNotExist
}

func TestDefaultIsValid(t *testing.T) {
	s := Default()
	if err := s.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	mask, err := s.Snap.Mask()
	if err != nil || mask != snap.MaskAll {
		t.Errorf("Mask() = %v, %v; want all", mask, err)
	}
	if s.Snap.Distance != snap.DefaultSnapDistance {
		t.Errorf("Distance = %v", s.Snap.Distance)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		path   string
		code   ValidationErrorCode
	}{
		{"zero distance", func(s *Settings) { s.Snap.Distance = 0 }, "snap.distance", ErrCodeOutOfRange},
		{"negative scale", func(s *Settings) { s.View.Scale = -1 }, "view.scale", ErrCodeOutOfRange},
		{"negative history", func(s *Settings) { s.History.MaxEntries = -1 }, "history.maxEntries", ErrCodeOutOfRange},
		{"unknown snap type", func(s *Settings) { s.Snap.Types = []string{"tangent"} }, "snap.types", ErrCodeInvalidEnum},
		{"bad color", func(s *Settings) { s.Visual.MarkerColor = "yellow" }, "visual.markerColor", ErrCodePatternMismatch},
		{"bad level", func(s *Settings) { s.Logging.Level = "loud" }, "logging.level", ErrCodeInvalidEnum},
		{"bad format", func(s *Settings) { s.Logging.Format = "xml" }, "logging.format", ErrCodeInvalidEnum},
		{"no output", func(s *Settings) { s.Logging.Output = " " }, "logging.output", ErrCodeRequiredMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(&s)
			err := s.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if verr.Path != tt.path || verr.Code != tt.code {
				t.Errorf("got %s (%s), want %s (%s)", verr.Path, verr.Code, tt.path, tt.code)
			}
			if !errors.Is(err, ErrValidationFailed) {
				t.Error("errors.Is(err, ErrValidationFailed) = false")
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{"#ffff00", 0xffff00, false},
		{"#00CCff", 0x00ccff, false},
		{"ffff00", 0, true},
		{"#fff", 0, true},
		{"#gggggg", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseColor(%q) = %#x, %v", tt.in, got, err)
		}
	}
}

func TestLoadPrecedence(t *testing.T) {
	t.Setenv("DRAFTSNAP_SNAP_DISTANCE", "9")
	fsys := memFS{"/s.toml": `
[snap]
distance = 7
featureDistance = 4

[logging]
level = "debug"
`}

	c, err := Load(WithFile("/s.toml"), WithFileSystem(fsys))
	if err != nil {
		t.Fatal(err)
	}
	s := c.Settings()
	if s.Snap.Distance != 9 {
		t.Errorf("Distance = %v, want environment value 9", s.Snap.Distance)
	}
	if s.Snap.FeatureDistance != 4 {
		t.Errorf("FeatureDistance = %v, want file value 4", s.Snap.FeatureDistance)
	}
	if s.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", s.Logging.Level)
	}
	if s.View.Scale != 10 {
		t.Errorf("Scale = %v, want default 10", s.View.Scale)
	}
}

func TestLoadWithoutEnv(t *testing.T) {
	t.Setenv("DRAFTSNAP_SNAP_DISTANCE", "9")
	c, err := Load(WithEnvPrefix(""))
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Settings().Snap.Distance; got != snap.DefaultSnapDistance {
		t.Errorf("Distance = %v, want default", got)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	fsys := memFS{"/s.yaml": "snap:\n  types: [tangent]\n"}
	c := New(WithFile("/s.yaml"), WithFileSystem(fsys), WithEnvPrefix(""))
	err := c.Load()
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("Load() = %v, want validation failure", err)
	}
	if !reflect.DeepEqual(c.Settings(), Default()) {
		t.Error("invalid load replaced the settings")
	}
}

func TestLoadNotifiesChanges(t *testing.T) {
	fsys := memFS{"/s.toml": "[snap]\ntypes = [\"endpoint\"]\n"}
	c := New(WithFile("/s.toml"), WithFileSystem(fsys), WithEnvPrefix(""))

	var all, snapOnly []notify.Change
	c.Subscribe(func(ch notify.Change) { all = append(all, ch) })
	c.SubscribePath("snap", func(ch notify.Change) { snapOnly = append(snapOnly, ch) })

	if err := c.Load(); err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].Path != "snap.types" {
		t.Fatalf("changes = %+v", all)
	}
	if !reflect.DeepEqual(all[0].NewValue, []string{"endpoint"}) {
		t.Errorf("NewValue = %v", all[0].NewValue)
	}
	if all[0].Source != "/s.toml" {
		t.Errorf("Source = %q", all[0].Source)
	}
	if len(snapOnly) != 1 {
		t.Errorf("path subscription got %d changes", len(snapOnly))
	}

	all = nil
	if err := c.Load(); err != nil {
		t.Fatal(err)
	}
	if len(all) != 0 {
		t.Errorf("unchanged reload reported %d changes", len(all))
	}
}

func TestSettingsAreCopies(t *testing.T) {
	c := New(WithEnvPrefix(""))
	s := c.Settings()
	s.Snap.Types[0] = "changed"
	if c.Settings().Snap.Types[0] == "changed" {
		t.Error("Settings() shares the types slice")
	}
}

func TestDiff(t *testing.T) {
	a := Default()
	b := a.Clone()
	b.History.MaxEntries = 10
	b.Plugins.Validators = []string{"x.lua"}

	changes := Diff(a, b, "test")
	if len(changes) != 2 {
		t.Fatalf("Diff() = %d changes, want 2", len(changes))
	}
	if changes[0].Path != "history.maxEntries" || changes[0].OldValue != 200 || changes[0].NewValue != 10 {
		t.Errorf("changes[0] = %+v", changes[0])
	}
	if changes[1].Path != "plugins.validators" {
		t.Errorf("changes[1] = %+v", changes[1])
	}
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")
	if err := os.WriteFile(path, []byte("[snap]\ndistance = 5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(WithFile(path), WithEnvPrefix(""))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	var mu sync.Mutex
	var got []notify.Change
	reloaded := make(chan struct{}, 4)
	c.Subscribe(func(ch notify.Change) {
		mu.Lock()
		got = append(got, ch)
		mu.Unlock()
		if ch.Type == notify.ChangeReload {
			select {
			case reloaded <- struct{}{}:
			default:
			}
		}
	})

	if err := c.Watch(watcher.WithDebounce(20 * time.Millisecond)); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[snap]\ndistance = 8\n"), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for c.Settings().Snap.Distance != 8 {
		select {
		case <-reloaded:
		case <-deadline:
			t.Fatalf("Distance = %v after write, want 8", c.Settings().Snap.Distance)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	found := false
	for _, ch := range got {
		if ch.Type == notify.ChangeSet && ch.Path == "snap.distance" && ch.NewValue == 8.0 {
			found = true
		}
	}
	if !found {
		t.Errorf("changes = %+v, want snap.distance set to 8", got)
	}
}

func TestClose(t *testing.T) {
	c := New(WithEnvPrefix(""))
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	if err := c.Load(); !errors.Is(err, ErrClosed) {
		t.Errorf("Load() after Close = %v, want ErrClosed", err)
	}
}

func TestValidationErrorCodeString(t *testing.T) {
	tests := []struct {
		code ValidationErrorCode
		want string
	}{
		{ErrCodeOutOfRange, "out_of_range"},
		{ErrCodeInvalidEnum, "invalid_enum"},
		{ErrCodePatternMismatch, "pattern_mismatch"},
		{ErrCodeRequiredMissing, "required_missing"},
		{ValidationErrorCode(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.code, got, tt.want)
		}
	}
}
