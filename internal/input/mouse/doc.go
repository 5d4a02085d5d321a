// Package mouse defines the pointer events delivered to viewport handlers.
//
// Coordinates are in viewport pixels with the origin at the top-left
// corner. Wheel events carry a signed Delta; positive values zoom in.
package mouse
