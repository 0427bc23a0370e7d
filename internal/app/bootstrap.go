package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"

	"askdoc/features/qa"
	"askdoc/internal/adapter/chromem"
	"askdoc/internal/adapter/gemini"
	wstore "askdoc/internal/adapter/weaviate"
	"askdoc/internal/config"
	"askdoc/internal/document"
	"askdoc/internal/ingest"
	"askdoc/internal/retrieval"
	"askdoc/internal/vector"
)

// dialTimeout bounds the readiness probe and schema check of one
// vector index dial attempt.
const dialTimeout = 10 * time.Second

// Dependencies carries everything App needs. The pipeline fields are
// interfaces so tests can swap in fakes for the external services.
type Dependencies struct {
	Gate        qa.IngestionGate
	Retriever   qa.Retriever
	Generator   qa.Generator
	Provider    *vector.Provider
	QueryLogger *retrieval.QueryLogger
}

func Bootstrap(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	embedder, err := gemini.NewEmbedder(ctx, cfg.GoogleAPIKey, cfg.GeminiEmbedModel)
	if err != nil {
		return nil, fmt.Errorf("gemini embedder: %w", err)
	}
	generator, err := gemini.NewGenerator(ctx, cfg.GoogleAPIKey, cfg.GeminiChatModel, cfg.GeminiTemperature)
	if err != nil {
		return nil, fmt.Errorf("gemini generator: %w", err)
	}

	provider, err := NewVectorProvider(cfg)
	if err != nil {
		return nil, err
	}

	// Warm the index with a short retry loop. A cold backend is not
	// fatal: the provider redials on the first request that needs it.
	retryDelay := time.Duration(cfg.BootstrapRetryDelaySeconds) * time.Second
	warmErr := provider.Warm(ctx)
	for i := 1; warmErr != nil && i < cfg.BootstrapRetryAttempts; i++ {
		slog.Warn("vector index not ready, retrying...", "attempt", i)
		time.Sleep(retryDelay)
		warmErr = provider.Warm(ctx)
	}
	if warmErr != nil {
		slog.Warn("starting with cold vector index", "error", warmErr)
	}

	if err := document.CheckPDFToolAvailable(); err != nil {
		slog.Warn("pdftotext not available, PDF ingestion will fail", "error", err)
	}

	downloader := document.NewDownloader(time.Duration(cfg.FetchTimeoutSeconds) * time.Second)
	chunker := ingest.NewDocumentChunker(document.NewExtractor(), cfg.ChunkSize, cfg.ChunkOverlap)
	gate := ingest.NewGate(downloader, chunker, embedder, provider)
	retriever := retrieval.NewService(embedder, provider, cfg.RetrievalTopK)

	queryLogger, err := retrieval.NewFileQueryLogger(cfg.QueryLogPath)
	if err != nil {
		slog.Warn("failed to create query logger, falling back to stdout", "error", err)
		queryLogger = retrieval.NewQueryLogger(os.Stdout)
	}

	return &Dependencies{
		Gate:        gate,
		Retriever:   retriever,
		Generator:   generator,
		Provider:    provider,
		QueryLogger: queryLogger,
	}, nil
}

// NewVectorProvider builds the lazy index handle for the configured
// backend. The weaviate dial probes readiness and ensures the schema;
// the chromem store is in-process and always ready.
func NewVectorProvider(cfg *config.Config) (*vector.Provider, error) {
	switch cfg.VectorBackend {
	case config.BackendWeaviate:
		wCfg := weaviate.Config{Host: cfg.WeaviateHost, Scheme: cfg.WeaviateScheme}
		return vector.NewProvider(func(ctx context.Context) (vector.Index, error) {
			client, err := weaviate.NewClient(wCfg)
			if err != nil {
				return nil, fmt.Errorf("weaviate client: %w", err)
			}
			store := wstore.NewStore(client)

			dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
			defer cancel()
			if err := store.Ready(dialCtx); err != nil {
				return nil, fmt.Errorf("weaviate not ready: %w", err)
			}
			if err := vector.EnsureSchema(dialCtx, store); err != nil {
				return nil, fmt.Errorf("weaviate schema: %w", err)
			}
			return store, nil
		}), nil
	case config.BackendChromem:
		store, err := chromem.NewStore()
		if err != nil {
			return nil, fmt.Errorf("chromem store: %w", err)
		}
		return vector.NewProvider(func(ctx context.Context) (vector.Index, error) {
			return store, nil
		}), nil
	default:
		return nil, fmt.Errorf("%w: VECTOR_BACKEND=%s", config.ErrInvalidValue, cfg.VectorBackend)
	}
}
