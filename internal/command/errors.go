package command

import "errors"

// Command errors.
var (
	// ErrUnknownCommand indicates no command is registered under a name.
	ErrUnknownCommand = errors.New("command: unknown command")

	// ErrNoModels indicates a command that needs models received none.
	ErrNoModels = errors.New("command: no models")
)
