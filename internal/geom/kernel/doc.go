// Package kernel is a small in-memory geometry kernel.
//
// It provides line and circle edges with pairwise intersection, wires built
// from connected edge chains, planar faces bounded by closed wires, and box
// wireframes. It backs the tests, the scenario replay, and the terminal demo;
// a production build would put a B-rep kernel behind the same geom interfaces.
package kernel
