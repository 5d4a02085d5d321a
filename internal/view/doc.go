// Package view defines the viewport boundary the snapping engine works
// against: detection under the cursor, world/screen projection, and a visual
// context that owns render handles for markers, previews and highlights.
//
// The Viewer routes pointer and keyboard events to the EventHandler on top of
// its handler stack. A pick session pushes its handler for the duration of
// the pick and pops it on teardown, so the idle handler regains control
// without knowing who borrowed the viewport.
package view
