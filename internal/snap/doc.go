// Package snap turns a stream of pointer and key events into a single
// current snap point.
//
// Providers propose candidates for a pointer position. ObjectSnap works on
// the edges under the cursor: end points, mid points, circle centers and
// pairwise intersections, cached per pick session. PlaneSnap and AxisSnap
// project the pointer ray onto a construction plane or axis.
//
// EventHandler drives one pick session. It asks the providers in order,
// runs the caller's validators, draws a marker and preview at the accepted
// point, and resolves its async.Handle when the user clicks, types a value
// or presses Escape. All temporary render objects are removed before the
// handle settles.
package snap
