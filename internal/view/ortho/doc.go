// Package ortho is an in-memory orthographic view. It projects a scene
// along a fixed direction, detects edges by pixel distance, and records
// every render handle in a Context so tests and the terminal backend can
// inspect what is on screen.
package ortho
