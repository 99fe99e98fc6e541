package interfaces

import "errors"

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStatusConflict is returned by TransitionStatus when the document
	// was not in any of the expected from-statuses.
	ErrStatusConflict = errors.New("document status conflict")

	// ErrForbidden is returned when the caller does not own the resource.
	ErrForbidden = errors.New("forbidden")

	// ErrEmbeddingUnsupported is returned by chat-only LLM providers when
	// Embed is called.
	ErrEmbeddingUnsupported = errors.New("embedding not supported by provider")
)
