package lua

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/draftsnap/internal/geom"
)

// PointToTable converts p to a table with x, y and z fields.
func PointToTable(L *lua.LState, p geom.Point) *lua.LTable {
	t := L.CreateTable(0, 3)
	t.RawSetString("x", lua.LNumber(p[0]))
	t.RawSetString("y", lua.LNumber(p[1]))
	t.RawSetString("z", lua.LNumber(p[2]))
	return t
}

// TableToPoint reads x, y and z from t. Missing fields read as zero; a
// field holding anything other than a number is an error.
func TableToPoint(t *lua.LTable) (geom.Point, bool) {
	var p geom.Point
	for i, key := range []string{"x", "y", "z"} {
		switch v := t.RawGetString(key).(type) {
		case lua.LNumber:
			p[i] = float64(v)
		case *lua.LNilType:
		default:
			return geom.Point{}, false
		}
	}
	return p, true
}

func checkPoint(L *lua.LState, n int) geom.Point {
	p, ok := TableToPoint(L.CheckTable(n))
	if !ok {
		L.ArgError(n, "point expected")
	}
	return p
}
