// Package selection implements the pick handlers that select existing
// geometry: PickHandler for the shape and model pick steps of a command,
// and IdleHandler, the handler a viewer falls back to when no command is
// running.
package selection
