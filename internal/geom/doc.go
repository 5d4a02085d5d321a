// Package geom defines the geometric vocabulary shared by the snapping engine
// and the command layer.
//
// Points are go3d vectors. Shapes are referenced through small interfaces so a
// real modelling kernel can sit behind them; the kernel subpackage provides an
// in-memory implementation with line and circle edges.
//
// # Identity
//
// Every shape carries a stable, prefixed, time-ordered identifier (a typeid).
// Caches in the snapping engine key on these identifiers, never on pointers,
// and unordered pairs of shapes are keyed smaller-identifier first.
package geom
