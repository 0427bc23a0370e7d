package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Embedding one question should never hang a request indefinitely.
const embedTimeout = 60 * time.Second

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Searcher interface {
	Search(ctx context.Context, vector []float32, limit int) ([]Result, error)
}

// Service runs one vector search per question and merges the hits.
type Service struct {
	embedder Embedder
	index    Searcher
	topK     int
}

func NewService(e Embedder, idx Searcher, topK int) *Service {
	return &Service{embedder: e, index: idx, topK: topK}
}

// RetrieveAll searches the index for each question in order and returns the
// merged evidence. Any embedding or search failure aborts the whole run.
func (s *Service) RetrieveAll(ctx context.Context, questions []string) (*EvidenceSet, error) {
	evidence := NewEvidenceSet()

	for i, question := range questions {
		embedCtx, cancel := context.WithTimeout(ctx, embedTimeout)
		vec, err := s.embedder.Embed(embedCtx, question)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("embed question %d: %w", i+1, err)
		}

		results, err := s.index.Search(ctx, vec, s.topK)
		if err != nil {
			return nil, fmt.Errorf("search question %d: %w", i+1, err)
		}

		for _, r := range results {
			evidence.Add(r)
		}
		slog.DebugContext(ctx, "question retrieved", "question", i+1, "results", len(results), "evidence_size", evidence.Len())
	}

	slog.InfoContext(ctx, "retrieval complete", "questions", len(questions), "evidence_chunks", evidence.Len())
	return evidence, nil
}
