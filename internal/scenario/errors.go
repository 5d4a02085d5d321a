package scenario

import "errors"

var (
	// ErrInvalidScenario reports a malformed scenario.
	ErrInvalidScenario = errors.New("invalid scenario")

	// ErrUnknownFormat reports a file that is neither YAML nor JSON.
	ErrUnknownFormat = errors.New("unknown scenario format")

	// ErrFailed is returned by Run when an expectation does not hold.
	ErrFailed = errors.New("scenario failed")
)
