package vector

import (
	"context"
	"fmt"
	"sync"

	"askdoc/internal/ingest"
	"askdoc/internal/retrieval"
)

// Provider dials the vector index on first use and caches the
// connection. A failed dial is retried on the next call, so the
// service can start while the backend is still coming up.
type Provider struct {
	dial  func(ctx context.Context) (Index, error)
	mu    sync.RWMutex
	index Index
}

func NewProvider(dial func(ctx context.Context) (Index, error)) *Provider {
	return &Provider{dial: dial}
}

// Warm dials the index eagerly so startup can surface backend problems
// before the first request arrives.
func (p *Provider) Warm(ctx context.Context) error {
	_, err := p.get(ctx)
	return err
}

func (p *Provider) get(ctx context.Context) (Index, error) {
	p.mu.RLock()
	if p.index != nil {
		defer p.mu.RUnlock()
		return p.index, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double check
	if p.index != nil {
		return p.index, nil
	}

	index, err := p.dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	p.index = index
	return index, nil
}

func (p *Provider) Exists(ctx context.Context, sourceURL string) (bool, error) {
	index, err := p.get(ctx)
	if err != nil {
		return false, err
	}
	return index.Exists(ctx, sourceURL)
}

func (p *Provider) StoreBatch(ctx context.Context, chunks []ingest.Chunk) error {
	index, err := p.get(ctx)
	if err != nil {
		return err
	}
	return index.StoreBatch(ctx, chunks)
}

func (p *Provider) Search(ctx context.Context, vector []float32, limit int) ([]retrieval.Result, error) {
	index, err := p.get(ctx)
	if err != nil {
		return nil, err
	}
	return index.Search(ctx, vector, limit)
}

func (p *Provider) CountChunks(ctx context.Context) (int, error) {
	index, err := p.get(ctx)
	if err != nil {
		return 0, err
	}
	return index.CountChunks(ctx)
}
