package ingest

import "errors"

var (
	// ErrRepositoryRequired indicates NewPipeline was called without a case repository.
	ErrRepositoryRequired = errors.New("case repository is required")

	// ErrEmbedderRequired indicates NewPipeline was called without an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrInvalidMaxAttempts indicates a non-positive retry attempt count.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrMalformedInput indicates an unreadable input file or line.
	ErrMalformedInput = errors.New("malformed input")
)
