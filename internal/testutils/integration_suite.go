package testutils

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"

	"askdoc/internal/config"
)

// IntegrationSuite starts a disposable Weaviate container for tests that
// need a real vector index.
type IntegrationSuite struct {
	T        *testing.T
	Weaviate *weaviate.Client

	weaviateContainer testcontainers.Container
	weaviateHost      string
}

func NewIntegrationSuite(t *testing.T) *IntegrationSuite {
	return &IntegrationSuite{T: t}
}

func (s *IntegrationSuite) Setup() {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "semitechnologies/weaviate:latest",
		ExposedPorts: []string{"8080/tcp", "50051/tcp"},
		Env: map[string]string{
			"AUTHENTICATION_ANONYMOUS_ACCESS_ENABLED": "true",
			"DEFAULT_VECTORIZER_MODULE":               "none",
			"PERSISTENCE_DATA_PATH":                   "/var/lib/weaviate",
		},
		WaitingFor: wait.ForHTTP("/v1/meta").WithPort("8080/tcp").WithStartupTimeout(60 * time.Second),
	}
	weaviateC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(s.T, err)
	s.weaviateContainer = weaviateC

	host, err := weaviateC.Host(ctx)
	require.NoError(s.T, err)
	port, err := weaviateC.MappedPort(ctx, "8080")
	require.NoError(s.T, err)

	s.weaviateHost = fmt.Sprintf("%s:%s", host, port.Port())
	cfg := weaviate.Config{
		Host:   s.weaviateHost,
		Scheme: "http",
	}
	s.Weaviate, err = weaviate.NewClient(cfg)
	require.NoError(s.T, err)
}

// GetAppConfig returns a config wired to the containers the suite started.
func (s *IntegrationSuite) GetAppConfig() *config.Config {
	return &config.Config{
		ServerPort:                 8080,
		APIBearerToken:             "integration-token",
		GoogleAPIKey:               "test-key",
		GeminiEmbedModel:           "embedding-001",
		GeminiChatModel:            "gemini-1.5-flash-latest",
		GeminiTemperature:          0.2,
		VectorBackend:              config.BackendWeaviate,
		WeaviateHost:               s.weaviateHost,
		WeaviateScheme:             "http",
		RetrievalTopK:              5,
		ChunkSize:                  1500,
		ChunkOverlap:               200,
		FetchTimeoutSeconds:        10,
		QueryLogPath:               filepath.Join(s.T.TempDir(), "queries.jsonl"),
		BootstrapRetryAttempts:     3,
		BootstrapRetryDelaySeconds: 1,
	}
}

func (s *IntegrationSuite) Teardown() {
	ctx := context.Background()
	if s.weaviateContainer != nil {
		s.weaviateContainer.Terminate(ctx)
	}
}
