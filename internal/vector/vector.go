// Package vector defines the index operations the answering pipeline
// depends on and manages the connection to the backing store.
package vector

import (
	"context"
	"errors"

	"askdoc/internal/ingest"
	"askdoc/internal/retrieval"
)

// ErrUnavailable marks failures reaching the vector index backend.
var ErrUnavailable = errors.New("vector index unavailable")

// Index is the full set of vector index operations the service uses.
// Both the Weaviate and the chromem adapters implement it.
type Index interface {
	Exists(ctx context.Context, sourceURL string) (bool, error)
	StoreBatch(ctx context.Context, chunks []ingest.Chunk) error
	Search(ctx context.Context, vector []float32, limit int) ([]retrieval.Result, error)
	CountChunks(ctx context.Context) (int, error)
}
