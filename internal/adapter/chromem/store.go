// Package chromem adapts the embedded chromem-go database to the
// vector index operations of the answering pipeline. The store runs
// fully in process, so it needs no external service, which makes it
// the backend of choice for local development and tests.
package chromem

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"

	"askdoc/internal/ingest"
	"askdoc/internal/retrieval"
)

const collectionName = "DocumentChunk"

type Store struct {
	collection *chromem.Collection

	mu      sync.RWMutex
	indexed map[string]bool
}

// NewStore creates an empty in-memory store. Embeddings are computed
// upstream, so the collection is created without an embedding func.
func NewStore() (*Store, error) {
	db := chromem.NewDB()
	collection, err := db.CreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return &Store{
		collection: collection,
		indexed:    make(map[string]bool),
	}, nil
}

// Exists reports whether chunks from the given source URL have been
// stored. The collection has no metadata lookup without a vector, so
// indexed URLs are tracked alongside it.
func (s *Store) Exists(ctx context.Context, sourceURL string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexed[sourceURL], nil
}

func (s *Store) StoreBatch(ctx context.Context, chunks []ingest.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	docs := make([]chromem.Document, 0, len(chunks))
	for _, chunk := range chunks {
		docs = append(docs, chromem.Document{
			ID:        uuid.NewString(),
			Content:   chunk.Text,
			Embedding: chunk.Vector,
			Metadata: map[string]string{
				"sourceDocument": chunk.SourceDocument,
				"sourceUrl":      chunk.SourceURL,
			},
		})
	}
	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("add documents: %w", err)
	}

	s.mu.Lock()
	for _, chunk := range chunks {
		s.indexed[chunk.SourceURL] = true
	}
	s.mu.Unlock()
	return nil
}

func (s *Store) Search(ctx context.Context, vector []float32, limit int) ([]retrieval.Result, error) {
	// QueryEmbedding rejects limits above the collection size.
	if count := s.collection.Count(); limit > count {
		limit = count
	}
	if limit == 0 {
		return nil, nil
	}

	res, err := s.collection.QueryEmbedding(ctx, vector, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query embedding: %w", err)
	}

	results := make([]retrieval.Result, 0, len(res))
	for _, r := range res {
		results = append(results, retrieval.Result{
			Text:           r.Content,
			SourceDocument: r.Metadata["sourceDocument"],
			SourceURL:      r.Metadata["sourceUrl"],
			Score:          r.Similarity,
		})
	}
	return results, nil
}

func (s *Store) CountChunks(ctx context.Context) (int, error) {
	return s.collection.Count(), nil
}
