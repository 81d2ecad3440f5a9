package storage

import (
	"context"

	"github.com/poiesic/theoria/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// CaseRepository provides operations for managing case records.
type CaseRepository interface {
	Repository

	// AddCases adds one or more case records to storage.
	// Records with ID=0 get a content-based ID derived from the natural key.
	// Sets InsertedAt timestamp if not already set.
	// Returns the records with IDs and timestamps populated.
	AddCases(ctx context.Context, cases ...*core.CaseRecord) ([]*core.CaseRecord, error)

	// UpdateCases updates existing case records.
	// Updates the UpdatedAt timestamp automatically and keeps the
	// theory-name index in sync.
	// Returns ErrNotFound if any record doesn't exist.
	UpdateCases(ctx context.Context, cases ...*core.CaseRecord) ([]*core.CaseRecord, error)

	// DeleteCases removes case records and their index entries by ID.
	// Returns ErrNotFound if any record doesn't exist.
	DeleteCases(ctx context.Context, ids ...core.ID) error

	// GetCase retrieves a single case record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetCase(ctx context.Context, id core.ID) (*core.CaseRecord, error)

	// GetCases retrieves multiple case records by their IDs.
	// Returns only the records that exist (no error for missing records).
	GetCases(ctx context.Context, ids ...core.ID) ([]*core.CaseRecord, error)

	// GetCaseByCode finds a case record by its case code.
	// Returns ErrNotFound if no matching record exists.
	GetCaseByCode(ctx context.Context, code string) (*core.CaseRecord, error)

	// GetCasesUsingTheory retrieves all cases recorded under the given
	// theory-name label. The match is a literal string match against the
	// stored labels, which may be un-normalized.
	GetCasesUsingTheory(ctx context.Context, name string) ([]*core.CaseRecord, error)

	// AllTheoryNames enumerates the distinct theory-name labels across all
	// stored cases, in lexicographic key order.
	AllTheoryNames(ctx context.Context) ([]string, error)

	// FindSimilar finds case records whose embedding vector is similar to
	// the given vector. Returns matches with similarity >= minSimilarity,
	// up to limit results, ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.CaseMatch, error)
}
