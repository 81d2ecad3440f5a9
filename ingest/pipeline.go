package ingest

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/theoria/ai"
	"github.com/poiesic/theoria/core"
	"github.com/poiesic/theoria/semantic"
	"github.com/poiesic/theoria/storage"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = 500 * time.Millisecond
)

// Pipeline orchestrates loading case records and embedding their search
// text. Storage writes are synchronous; embedding runs on a worker pool.
type Pipeline struct {
	repository  storage.CaseRepository
	embedder    ai.Embedder
	pool        *ants.Pool
	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger
	wg          sync.WaitGroup
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithRetry sets the retry policy for embedding calls.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		p.maxAttempts = maxAttempts
		p.baseDelay = baseDelay
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(repository storage.CaseRepository, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repository:  repository,
		embedder:    embedder,
		pool:        pool,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Ingest validates and stores case records, then embeds their search text
// asynchronously. Validation failures abort the whole batch before anything
// is written. Embedding failures are logged, not returned: the records stay
// stored without vectors.
func (p *Pipeline) Ingest(ctx context.Context, records ...*core.CaseRecord) ([]*core.CaseRecord, error) {
	for _, record := range records {
		if err := core.ValidateCaseRecord(record); err != nil {
			return nil, err
		}
	}

	added, err := p.repository.AddCases(ctx, records...)
	if err != nil {
		return nil, err
	}
	if len(added) == 0 {
		return added, nil
	}

	ids := make([]core.ID, len(added))
	for i, record := range added {
		ids[i] = record.Id
	}

	p.wg.Add(1)
	submitErr := p.pool.Submit(func() {
		defer p.wg.Done()
		p.embedBatch(context.Background(), ids)
	})
	if submitErr != nil {
		// Pool unavailable, embed inline
		p.embedBatch(ctx, ids)
		p.wg.Done()
	}

	return added, nil
}

// Wait blocks until all in-flight embedding work has finished.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}

// Release releases the worker pool after draining in-flight work.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	p.wg.Wait()
	if p.pool != nil {
		p.pool.Release()
	}
}

// embedBatch embeds the search text of the given records and stores the
// normalized vectors back.
func (p *Pipeline) embedBatch(ctx context.Context, ids []core.ID) {
	records, err := p.repository.GetCases(ctx, ids...)
	if err != nil {
		p.logger.Error("error loading cases for embedding", "count", len(ids), "err", err)
		return
	}
	if len(records) == 0 {
		return
	}

	texts := make([]string, len(records))
	for i, record := range records {
		texts[i] = record.SearchText()
	}

	var embeddings [][]float32
	err = RetryWithBackoff(ctx, func() error {
		var embedErr error
		embeddings, embedErr = p.embedder.EmbedTexts(ctx, texts)
		return embedErr
	}, p.maxAttempts, p.baseDelay)
	if err != nil {
		p.logger.Error("embedding failed, cases stored without vectors",
			"count", len(records), "err", err)
		return
	}

	for i, record := range records {
		if i < len(embeddings) {
			record.Vector = semantic.NormalizeVector(embeddings[i])
		}
	}

	if _, err := p.repository.UpdateCases(ctx, records...); err != nil {
		p.logger.Error("error storing embeddings", "count", len(records), "err", err)
		return
	}

	p.logger.Debug("embedded case batch", "count", len(records))
}
