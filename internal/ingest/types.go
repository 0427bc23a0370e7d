// Package ingest turns remote documents into embedded chunks in the vector
// index, exactly once per source URL.
package ingest

import (
	"context"
	"errors"
)

// ErrNoChunks means extraction succeeded but splitting produced nothing.
var ErrNoChunks = errors.New("document produced no chunks")

// Chunk is one slice of a source document, carrying the metadata stored
// alongside its vector.
type Chunk struct {
	Text           string
	SourceDocument string
	SourceURL      string
	Vector         []float32
}

type Downloader interface {
	Fetch(ctx context.Context, url string) ([]byte, string, error)
}

type Chunker interface {
	Chunk(ctx context.Context, data []byte, sourceURL, contentType string) ([]Chunk, error)
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type ChunkStore interface {
	Exists(ctx context.Context, sourceURL string) (bool, error)
	StoreBatch(ctx context.Context, chunks []Chunk) error
}
