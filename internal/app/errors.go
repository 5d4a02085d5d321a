package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrQuit signals that the event loop should exit normally.
	ErrQuit = errors.New("quit requested")

	// ErrAlreadyRunning indicates the event loop is already running.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrCommandActive indicates another command is still collecting input.
	ErrCommandActive = errors.New("a command is already running")

	// ErrUnknownCommand indicates the registry has no such command.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrShutdown indicates the application has been shut down.
	ErrShutdown = errors.New("application shut down")
)

// InitError reports a component that failed to start.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("init %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
