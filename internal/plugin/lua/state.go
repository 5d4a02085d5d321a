package lua

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultExecutionTimeout bounds a single script call.
const DefaultExecutionTimeout = 250 * time.Millisecond

// State wraps gopher-lua with a sandbox and a per-call timeout.
//
// gopher-lua's LState is not goroutine-safe. The mutex serializes calls
// made from Go; Lua code itself always runs on the calling goroutine.
type State struct {
	L *lua.LState

	mu               sync.Mutex
	executionTimeout time.Duration
	sandbox          *Sandbox
	closed           bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the timeout for each call into Lua. Zero
// disables the timeout.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		if d >= 0 {
			s.executionTimeout = d
		}
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) *State {
	s := &State{executionTimeout: DefaultExecutionTimeout}
	for _, opt := range opts {
		opt(s)
	}

	s.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(s.L)
	s.sandbox = NewSandbox(s.L)
	s.sandbox.Install()
	return s
}

// openSafeLibraries opens the package, base, table, string and math
// libraries. io, os and debug stay closed.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage},
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
}

// Load compiles and runs a chunk and returns its first result, or LNil.
func (s *State) Load(name, code string) (lua.LValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil, ErrStateClosed
	}
	fn, err := s.L.Load(strings.NewReader(code), name)
	if err != nil {
		return lua.LNil, err
	}
	return s.call(fn)
}

// CallFunction calls fn with args and returns its first result.
func (s *State) CallFunction(fn *lua.LFunction, args ...lua.LValue) (lua.LValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil, ErrStateClosed
	}
	return s.call(fn, args...)
}

func (s *State) call(fn *lua.LFunction, args ...lua.LValue) (ret lua.LValue, err error) {
	if s.executionTimeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), s.executionTimeout)
		defer cancel()
		s.L.SetContext(ctx)
		defer s.L.RemoveContext()
		defer func() {
			if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				err = fmt.Errorf("%w: %v", ErrExecutionTimeout, err)
			}
		}()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	top := s.L.GetTop()
	if err := s.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		s.L.SetTop(top)
		return lua.LNil, err
	}
	ret = s.L.Get(-1)
	s.L.SetTop(top)
	return ret, nil
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// Preload makes a Go module available to require.
func (s *State) Preload(name string, loader lua.LGFunction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.sandbox.Allow(name)
	s.L.PreloadModule(name, loader)
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases the Lua state. It is safe to call Close multiple times.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}
