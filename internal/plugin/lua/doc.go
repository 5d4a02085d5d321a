// Package lua runs user supplied Lua scripts that accept or reject picked
// points.
//
// A validator script either returns a function or defines a global
// validate function. The function receives the point as a table with x, y
// and z fields and returns true to accept it:
//
//	local ds = require("draftsnap")
//	local origin = ds.point(0, 0, 0)
//
//	return function(p)
//	    return ds.distance(p, origin) <= 100
//	end
//
// Scripts run in a sandboxed State: only the base, table, string and math
// libraries are open, file loading functions are removed, and require
// only resolves the built-in libraries and the draftsnap module. Each call
// runs under a timeout.
//
// Attach a loaded Validator to a document to apply it to every point step:
//
//	v, err := lua.LoadFile("bounds.lua", lua.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	defer v.Close()
//	v.Attach(doc)
package lua
