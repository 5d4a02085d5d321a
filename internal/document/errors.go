package document

import "errors"

// Errors returned by document operations.
var (
	// ErrUnknownModel indicates the model is not part of the document.
	ErrUnknownModel = errors.New("model not in document")

	// ErrEmptyBody indicates a body without geometry.
	ErrEmptyBody = errors.New("body has no geometry")

	// ErrTransactionActive indicates undo or redo was requested while a
	// transaction is recording.
	ErrTransactionActive = errors.New("transaction in progress")
)
