package config

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var (
	ErrMissingRequired = errors.New("missing required configuration")
	ErrInvalidValue    = errors.New("invalid configuration value")
)

const (
	BackendWeaviate = "weaviate"
	BackendChromem  = "chromem"
)

type Config struct {
	ServerPort     int    `envconfig:"PORT" default:"8080"`
	APIBearerToken string `envconfig:"API_BEARER_TOKEN"`

	GoogleAPIKey      string  `envconfig:"GOOGLE_API_KEY"`
	GeminiEmbedModel  string  `envconfig:"GEMINI_EMBED_MODEL" default:"embedding-001"`
	GeminiChatModel   string  `envconfig:"GEMINI_CHAT_MODEL" default:"gemini-1.5-flash-latest"`
	GeminiTemperature float32 `envconfig:"GEMINI_TEMPERATURE" default:"0.2"`

	VectorBackend  string `envconfig:"VECTOR_BACKEND" default:"weaviate"`
	WeaviateHost   string `envconfig:"WEAVIATE_HOST" default:"localhost:8080"`
	WeaviateScheme string `envconfig:"WEAVIATE_SCHEME" default:"http"`

	RetrievalTopK       int `envconfig:"RETRIEVAL_TOP_K" default:"5"`
	ChunkSize           int `envconfig:"CHUNK_SIZE" default:"1500"`
	ChunkOverlap        int `envconfig:"CHUNK_OVERLAP" default:"200"`
	FetchTimeoutSeconds int `envconfig:"FETCH_TIMEOUT_SECONDS" default:"60"`

	QueryLogPath string `envconfig:"QUERY_LOG_PATH" default:"data/logs/queries.jsonl"`

	// Resilience
	BootstrapRetryAttempts     int `envconfig:"BOOTSTRAP_RETRY_ATTEMPTS" default:"3"`
	BootstrapRetryDelaySeconds int `envconfig:"BOOTSTRAP_RETRY_DELAY_SECONDS" default:"2"`
}

func Load() (*Config, error) {
	// Env vars may be set in the shell instead, so a missing .env is fine.
	_ = godotenv.Load(".env")

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.APIBearerToken == "" {
		return fmt.Errorf("%w: API_BEARER_TOKEN", ErrMissingRequired)
	}
	if c.GoogleAPIKey == "" {
		return fmt.Errorf("%w: GOOGLE_API_KEY", ErrMissingRequired)
	}
	if c.VectorBackend != BackendWeaviate && c.VectorBackend != BackendChromem {
		return fmt.Errorf("%w: VECTOR_BACKEND must be %q or %q", ErrInvalidValue, BackendWeaviate, BackendChromem)
	}
	if c.VectorBackend == BackendWeaviate && c.WeaviateHost == "" {
		return fmt.Errorf("%w: WEAVIATE_HOST", ErrMissingRequired)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: CHUNK_SIZE must be positive", ErrInvalidValue)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: CHUNK_OVERLAP must be non-negative and smaller than CHUNK_SIZE", ErrInvalidValue)
	}
	if c.RetrievalTopK <= 0 {
		return fmt.Errorf("%w: RETRIEVAL_TOP_K must be positive", ErrInvalidValue)
	}
	return nil
}
