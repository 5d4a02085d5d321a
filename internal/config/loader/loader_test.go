package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

type section struct {
	Distance float64  `toml:"distance" yaml:"distance" envconfig:"DISTANCE"`
	Types    []string `toml:"types" yaml:"types" envconfig:"TYPES"`
}

type sample struct {
	Snap  section `toml:"snap" yaml:"snap" envconfig:"SNAP"`
	Level string  `toml:"level" yaml:"level" envconfig:"LEVEL"`
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"settings.toml", FormatTOML, false},
		{"settings.TOML", FormatTOML, false},
		{"settings.yaml", FormatYAML, false},
		{"/etc/draftsnap/settings.yml", FormatYAML, false},
		{"settings.json", 0, true},
		{"settings", 0, true},
	}

	for _, tt := range tests {
		got, err := FormatOf(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatOf(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			if !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("FormatOf(%q) error = %v, want ErrUnsupportedFormat", tt.path, err)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("FormatOf(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestFileLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/s.toml", `
level = "debug"

[snap]
distance = 8
types = ["endpoint"]
`)
	memfs.AddFile("/s.yaml", `
level: debug
snap:
  distance: 8
  types: [endpoint]
`)

	for _, path := range []string{"/s.toml", "/s.yaml"} {
		t.Run(path, func(t *testing.T) {
			l, err := NewFileLoaderWithFS(memfs, path)
			if err != nil {
				t.Fatal(err)
			}
			got := sample{Snap: section{Distance: 5, Types: []string{"all"}}, Level: "info"}
			found, err := l.Load(&got)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if !found {
				t.Fatal("Load() found = false")
			}
			if got.Level != "debug" || got.Snap.Distance != 8 {
				t.Errorf("Load() = %+v", got)
			}
			if len(got.Snap.Types) != 1 || got.Snap.Types[0] != "endpoint" {
				t.Errorf("Types = %v, want [endpoint]", got.Snap.Types)
			}
		})
	}
}

func TestFileLoader_KeepsUnsetFields(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/s.toml", "[snap]\ndistance = 2\n")

	l, _ := NewFileLoaderWithFS(memfs, "/s.toml")
	got := sample{Level: "info", Snap: section{Types: []string{"all"}}}
	if _, err := l.Load(&got); err != nil {
		t.Fatal(err)
	}
	if got.Level != "info" || len(got.Snap.Types) != 1 {
		t.Errorf("unset fields changed: %+v", got)
	}
}

func TestFileLoader_Missing(t *testing.T) {
	l, _ := NewFileLoaderWithFS(NewMemFS(), "/none.toml")
	var s sample
	found, err := l.Load(&s)
	if err != nil || found {
		t.Errorf("Load() = %v, %v; want false, nil", found, err)
	}
}

func TestFileLoader_ParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		content  string
		wantLine bool
		contains string
	}{
		{"toml syntax", "/bad.toml", "[snap\ndistance = 1", true, ""},
		{"toml unknown key", "/typo.toml", "[snap]\ndistanse = 1\n", true, "unknown key snap.distanse"},
		{"yaml syntax", "/bad.yaml", "snap: [", false, ""},
		{"yaml unknown key", "/typo.yaml", "snap:\n  distanse: 1\n", false, "distanse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			memfs := NewMemFS()
			memfs.AddFile(tt.path, tt.content)
			l, _ := NewFileLoaderWithFS(memfs, tt.path)

			var s sample
			_, err := l.Load(&s)
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Load() error = %v, want *ParseError", err)
			}
			if perr.Path != tt.path {
				t.Errorf("Path = %q, want %q", perr.Path, tt.path)
			}
			if tt.wantLine && perr.Line == 0 {
				t.Errorf("Line = 0, want position in %v", perr)
			}
			if tt.contains != "" && !strings.Contains(perr.Error(), tt.contains) {
				t.Errorf("Error() = %q, want it to contain %q", perr.Error(), tt.contains)
			}
			if perr.Unwrap() == nil {
				t.Error("Unwrap() = nil")
			}
		})
	}
}

func TestLoadFromReader(t *testing.T) {
	var s sample
	if err := LoadFromReader(strings.NewReader("level: warn\n"), FormatYAML, &s); err != nil {
		t.Fatal(err)
	}
	if s.Level != "warn" {
		t.Errorf("Level = %q, want warn", s.Level)
	}

	if err := LoadFromReader(strings.NewReader(""), FormatYAML, &s); err != nil {
		t.Errorf("empty document: %v", err)
	}
}

func TestParseError_Error(t *testing.T) {
	tests := []struct {
		err  *ParseError
		want string
	}{
		{&ParseError{Path: "a.toml", Line: 3, Column: 2, Message: "x"}, "parse error in a.toml at line 3, column 2: x"},
		{&ParseError{Path: "a.toml", Line: 3, Message: "x"}, "parse error in a.toml at line 3: x"},
		{&ParseError{Path: "a.toml", Message: "x"}, "parse error in a.toml: x"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestEnvLoader(t *testing.T) {
	t.Setenv("DSTEST_SNAP_DISTANCE", "7.5")
	t.Setenv("DSTEST_SNAP_TYPES", "endpoint,center")

	s := sample{Level: "info"}
	l := NewEnvLoader("DSTEST")
	if err := l.Load(&s); err != nil {
		t.Fatal(err)
	}
	if s.Snap.Distance != 7.5 {
		t.Errorf("Distance = %v, want 7.5", s.Snap.Distance)
	}
	if len(s.Snap.Types) != 2 || s.Snap.Types[1] != "center" {
		t.Errorf("Types = %v", s.Snap.Types)
	}
	if s.Level != "info" {
		t.Errorf("unset variable changed Level to %q", s.Level)
	}
}

func TestEnvLoader_BadValue(t *testing.T) {
	t.Setenv("DSTEST_SNAP_DISTANCE", "far")
	var s sample
	if err := NewEnvLoader("DSTEST").Load(&s); err == nil {
		t.Error("Load() error = nil, want parse failure")
	}
}

func TestEnvLoader_Usage(t *testing.T) {
	keys, err := NewEnvLoader("DSTEST").Usage(&sample{})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"DSTEST_SNAP_DISTANCE", "DSTEST_SNAP_TYPES", "DSTEST_LEVEL"}
	if strings.Join(keys, ",") != strings.Join(want, ",") {
		t.Errorf("Usage() = %v, want %v", keys, want)
	}
}
