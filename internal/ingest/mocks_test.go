package ingest_test

import (
	"context"

	"github.com/stretchr/testify/mock"
	"askdoc/internal/ingest"
)

// Mocks

type MockDownloader struct{ mock.Mock }

func (m *MockDownloader) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

type MockChunker struct{ mock.Mock }

func (m *MockChunker) Chunk(ctx context.Context, data []byte, sourceURL, contentType string) ([]ingest.Chunk, error) {
	args := m.Called(ctx, data, sourceURL, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ingest.Chunk), args.Error(1)
}

type MockEmbedder struct{ mock.Mock }

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

type MockChunkStore struct{ mock.Mock }

func (m *MockChunkStore) Exists(ctx context.Context, sourceURL string) (bool, error) {
	args := m.Called(ctx, sourceURL)
	return args.Bool(0), args.Error(1)
}

func (m *MockChunkStore) StoreBatch(ctx context.Context, chunks []ingest.Chunk) error {
	args := m.Called(ctx, chunks)
	return args.Error(0)
}
