// Package loader reads settings files and environment variables into
// tagged structs.
//
// Files are decoded by extension: ".toml" with go-toml, ".yaml" and ".yml"
// with yaml.v3. Unknown keys are rejected so typos surface as parse errors.
// Environment variables are applied with envconfig on top of whatever the
// struct already holds.
package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Format is a settings file syntax.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Decoder decodes one file format into dst.
type Decoder interface {
	Decode(source string, data []byte, dst any) error
}

func decoderFor(f Format) Decoder {
	if f == FormatYAML {
		return yamlDecoder{}
	}
	return tomlDecoder{}
}

// FileSystem is an abstraction for file system operations.
// This allows for easy testing with in-memory file systems.
type FileSystem interface {
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() FileSystem {
	return OSFS{}
}

// FileLoader decodes one settings file.
type FileLoader struct {
	fs     FileSystem
	path   string
	format Format
}

// NewFileLoader creates a loader for path. The format follows the extension.
func NewFileLoader(path string) (*FileLoader, error) {
	return NewFileLoaderWithFS(DefaultFS(), path)
}

// NewFileLoaderWithFS creates a file loader reading through fsys.
func NewFileLoaderWithFS(fsys FileSystem, path string) (*FileLoader, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	return &FileLoader{fs: fsys, path: path, format: f}, nil
}

// Path returns the file the loader reads.
func (l *FileLoader) Path() string { return l.path }

// Format returns the file format.
func (l *FileLoader) Format() Format { return l.format }

// Load decodes the file into dst. It reports false, with no error, when the
// file does not exist.
func (l *FileLoader) Load(dst any) (bool, error) {
	data, err := l.fs.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("reading config file %s: %w", l.path, err)
	}
	if err := decoderFor(l.format).Decode(l.path, data, dst); err != nil {
		return false, err
	}
	return true, nil
}

// LoadFromReader decodes r, in the given format, into dst.
func LoadFromReader(r io.Reader, f Format, dst any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	return decoderFor(f).Decode("<reader>", data, dst)
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
