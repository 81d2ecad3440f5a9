package semantic

import "errors"

var (
	// ErrRepositoryRequired indicates NewMatcher was called without a case repository.
	ErrRepositoryRequired = errors.New("case repository is required")

	// ErrEmbedderRequired indicates NewMatcher was called without an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrEmbedding indicates the embedding service call failed.
	ErrEmbedding = errors.New("embedding failed")

	// ErrVectorSearch indicates the store's similarity search failed.
	ErrVectorSearch = errors.New("vector search failed")
)
