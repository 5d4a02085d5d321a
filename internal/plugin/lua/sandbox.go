package lua

import lua "github.com/yuin/gopher-lua"

// Sandbox restricts Lua execution to safe operations.
type Sandbox struct {
	L       *lua.LState
	modules map[string]bool
}

// NewSandbox creates a new sandbox for the Lua state.
func NewSandbox(L *lua.LState) *Sandbox {
	return &Sandbox{
		L: L,
		modules: map[string]bool{
			"string": true,
			"table":  true,
			"math":   true,
		},
	}
}

// Install removes the functions that load code from disk or from strings
// and replaces require with a whitelist.
func (s *Sandbox) Install() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "module"} {
		s.L.SetGlobal(name, lua.LNil)
	}

	if pkg, ok := s.L.GetGlobal("package").(*lua.LTable); ok {
		s.L.SetField(pkg, "path", lua.LString(""))
		s.L.SetField(pkg, "cpath", lua.LString(""))
	}

	original := s.L.GetGlobal("require")
	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		if !s.modules[name] {
			L.RaiseError("module %q is not available", name)
			return 0
		}
		L.Push(original)
		L.Push(lua.LString(name))
		L.Call(1, 1)
		return 1
	}))
}

// Allow lets require load the named module.
func (s *Sandbox) Allow(name string) {
	s.modules[name] = true
}

// Allowed reports whether require may load the named module.
func (s *Sandbox) Allowed(name string) bool {
	return s.modules[name]
}
