package lua

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/draftsnap/internal/document"
	"github.com/dshills/draftsnap/internal/geom"
)

// Validator accepts or rejects points by calling a Lua function.
type Validator struct {
	name   string
	state  *State
	fn     *lua.LFunction
	logger hclog.Logger
}

// Option configures a Validator.
type Option func(*validatorConfig)

type validatorConfig struct {
	timeout time.Duration
	logger  hclog.Logger
}

// WithTimeout bounds each call into the script.
func WithTimeout(d time.Duration) Option {
	return func(c *validatorConfig) { c.timeout = d }
}

// WithLogger sets the logger used for script errors and draftsnap.log.
func WithLogger(l hclog.Logger) Option {
	return func(c *validatorConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// LoadFile loads a validator script from disk.
func LoadFile(path string, opts ...Option) (*Validator, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lua validator: %w", err)
	}
	return LoadString(filepath.Base(path), string(code), opts...)
}

// LoadString loads a validator from source. name identifies the script in
// errors and logs.
func LoadString(name, code string, opts ...Option) (*Validator, error) {
	cfg := validatorConfig{timeout: DefaultExecutionTimeout, logger: hclog.NewNullLogger()}
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.logger.Named("lua").With("script", name)

	state := NewState(WithExecutionTimeout(cfg.timeout))
	state.Preload(ModuleName, moduleLoader(logger))

	ret, err := state.Load(name, code)
	if err != nil {
		state.Close()
		return nil, fmt.Errorf("lua validator %s: %w", name, err)
	}
	fn, ok := ret.(*lua.LFunction)
	if !ok {
		fn, ok = state.GetGlobal("validate").(*lua.LFunction)
	}
	if !ok {
		state.Close()
		return nil, fmt.Errorf("lua validator %s: %w", name, ErrNoValidateFunc)
	}
	return &Validator{name: name, state: state, fn: fn, logger: logger}, nil
}

// LoadFiles loads every script in order. On error the validators already
// loaded are closed.
func LoadFiles(paths []string, opts ...Option) ([]*Validator, error) {
	out := make([]*Validator, 0, len(paths))
	for _, p := range paths {
		v, err := LoadFile(p, opts...)
		if err != nil {
			for _, loaded := range out {
				loaded.Close()
			}
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Name returns the script name.
func (v *Validator) Name() string { return v.name }

// Check calls the script with p.
func (v *Validator) Check(p geom.Point) (bool, error) {
	ret, err := v.state.CallFunction(v.fn, PointToTable(v.state.L, p))
	if err != nil {
		return false, fmt.Errorf("lua validator %s: %w", v.name, err)
	}
	return lua.LVAsBool(ret), nil
}

// Accept reports whether the script accepts p. A script error rejects the
// point.
func (v *Validator) Accept(p geom.Point) bool {
	ok, err := v.Check(p)
	if err != nil {
		v.logger.Warn("point rejected by failing script", "error", err)
		return false
	}
	return ok
}

// Attach registers the validator with doc.
func (v *Validator) Attach(doc *document.Document) {
	doc.AddPointValidator(v.Accept)
}

// Close releases the Lua state.
func (v *Validator) Close() error {
	return v.state.Close()
}
