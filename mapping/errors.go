package mapping

import "errors"

var (
	// ErrNameSourceRequired is returned when a name source is not provided.
	ErrNameSourceRequired = errors.New("name source required")

	// ErrCorpusUnavailable indicates the name corpus could not be read.
	// A build that fails this way publishes nothing.
	ErrCorpusUnavailable = errors.New("name corpus unavailable")

	// ErrInvalidThreshold indicates a similarity threshold outside 0-100.
	ErrInvalidThreshold = errors.New("similarity threshold must be between 0 and 100")
)
