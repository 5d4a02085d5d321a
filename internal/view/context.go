package view

import "github.com/dshills/draftsnap/internal/geom"

// Handle identifies a mesh displayed through a VisualContext.
// The zero Handle is never issued.
type Handle uint64

// VisualContext owns the render objects of one view.
//
// DisplayShapeMesh shows pick feedback such as the snap marker and command
// previews. TemporaryDisplay shows glyphs for snap points that have none of
// their own, like circle centers. Every handle must be returned through the
// matching remove call exactly once.
type VisualContext interface {
	DisplayShapeMesh(data MeshData) Handle
	RemoveShapeMesh(h Handle)
	Highlighted(s geom.Shape)
	Unhighlighted(s geom.Shape)
	TemporaryDisplay(data MeshData) Handle
	TemporaryRemove(h Handle)
}
