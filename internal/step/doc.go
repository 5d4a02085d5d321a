// Package step implements the inputs a multistep command asks for: a point,
// a length along an axis, a set of shapes, or a set of models.
//
// A step starts an interactive pick session on the document's viewer and
// reports its result through a callback once the session's handle settles.
// A cancelled session reports nil.
package step
