// Package semantic scores case similarity through externally computed text
// embeddings. It owns no embedding logic itself: texts go to an ai.Embedder,
// vectors go to the case store's similarity search, and failures on either
// boundary surface as typed errors rather than zero scores.
package semantic
