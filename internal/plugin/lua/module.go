package lua

import (
	"github.com/hashicorp/go-hclog"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/draftsnap/internal/geom"
)

// ModuleName is the name scripts pass to require.
const ModuleName = "draftsnap"

// moduleLoader returns the loader for the draftsnap module.
//
//	point(x, y, z)        -> {x=, y=, z=}
//	distance(a, b)        -> number
//	near(a, b, tolerance) -> boolean
//	log(message, ...)     -> logs key/value pairs at info level
func moduleLoader(logger hclog.Logger) lua.LGFunction {
	return func(L *lua.LState) int {
		mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
			"point": func(L *lua.LState) int {
				p := geom.XYZ(float64(L.OptNumber(1, 0)), float64(L.OptNumber(2, 0)), float64(L.OptNumber(3, 0)))
				L.Push(PointToTable(L, p))
				return 1
			},
			"distance": func(L *lua.LState) int {
				a, b := checkPoint(L, 1), checkPoint(L, 2)
				L.Push(lua.LNumber(geom.Distance(a, b)))
				return 1
			},
			"near": func(L *lua.LState) int {
				a, b := checkPoint(L, 1), checkPoint(L, 2)
				tol := float64(L.OptNumber(3, 1e-9))
				L.Push(lua.LBool(geom.Equal(a, b, tol)))
				return 1
			},
			"log": func(L *lua.LState) int {
				msg := L.CheckString(1)
				var args []any
				for i := 2; i+1 <= L.GetTop(); i += 2 {
					args = append(args, L.CheckString(i), L.Get(i+1).String())
				}
				logger.Info(msg, args...)
				return 0
			},
		})
		L.Push(mod)
		return 1
	}
}
