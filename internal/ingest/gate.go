package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Embedding one chunk should never hang a request indefinitely.
const embedTimeout = 60 * time.Second

// Gate makes ingestion idempotent. A URL whose chunks are already in the
// store is never fetched, extracted or embedded again.
type Gate struct {
	downloader Downloader
	chunker    Chunker
	embedder   Embedder
	store      ChunkStore
}

func NewGate(d Downloader, c Chunker, e Embedder, s ChunkStore) *Gate {
	return &Gate{
		downloader: d,
		chunker:    c,
		embedder:   e,
		store:      s,
	}
}

// EnsureIndexed ingests the document at url unless it is already indexed.
// On any error the store is left without chunks for the URL, so a later
// request retries the whole pipeline.
func (g *Gate) EnsureIndexed(ctx context.Context, url string) error {
	// Two requests racing past this check both ingest; the duplicate
	// chunks cost storage, not correctness.
	exists, err := g.store.Exists(ctx, url)
	if err != nil {
		return fmt.Errorf("existence check: %w", err)
	}
	if exists {
		slog.InfoContext(ctx, "document already indexed, skipping ingestion", "url", url)
		return nil
	}

	slog.InfoContext(ctx, "ingesting document", "url", url)

	data, contentType, err := g.downloader.Fetch(ctx, url)
	if err != nil {
		return err
	}

	chunks, err := g.chunker.Chunk(ctx, data, url, contentType)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return fmt.Errorf("%w: %s", ErrNoChunks, url)
	}

	for i := range chunks {
		embedCtx, cancel := context.WithTimeout(ctx, embedTimeout)
		vector, err := g.embedder.Embed(embedCtx, chunks[i].Text)
		cancel()
		if err != nil {
			return fmt.Errorf("embed chunk %d: %w", i, err)
		}
		chunks[i].Vector = vector
	}

	if err := g.store.StoreBatch(ctx, chunks); err != nil {
		return fmt.Errorf("store chunks: %w", err)
	}

	slog.InfoContext(ctx, "document indexed", "url", url, "chunks", len(chunks))
	return nil
}
