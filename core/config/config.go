package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino-ext/components/model/qwen"
	"github.com/gogf/gf/v2/frame/g"
)

// CorpusConfig configures where source files live and how they are fetched.
type CorpusConfig struct {
	Dir          string // local corpus directory (cache dir when Store is rustfs)
	BaseURL      string // raw file base URL, one <name>.txt per corpus file
	Store        string // local | rustfs
	FetchWorkers int    // bounded download concurrency
	FetchTimeout int    // per-file timeout, seconds
}

// ChunkConfig configures the splitter.
type ChunkConfig struct {
	Size    int
	Overlap int
}

// EmbeddingConfig configures the embedding backend.
type EmbeddingConfig struct {
	Type        string // openai | custom
	APIKey      string
	BaseURL     string
	Model       string
	Dimension   int
	BatchSize   int
	Concurrency int // concurrent batches during ingestion
	Timeout     int // seconds
}

// ChatConfig configures the answer model.
type ChatConfig struct {
	Provider    string // openai | qwen
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Timeout     int // seconds
}

// RetrieverConfig holds the retrieval tunables. ScoreThreshold is an
// empirical constant, not derived; results below it are discarded.
type RetrieverConfig struct {
	TopK           int
	ScoreThreshold float64
}

// VectorStoreConfig selects and configures the index backend.
type VectorStoreConfig struct {
	Type       string // flat | milvus | pgvector
	Path       string // flat bundle path
	MetricType string // COSINE, L2, IP
}

// MilvusConfig configures the milvus backend.
type MilvusConfig struct {
	Address    string
	DBName     string
	Collection string
}

// PgVectorConfig configures the pgvector backend.
type PgVectorConfig struct {
	DSN   string
	Table string
}

// RustFSConfig configures the S3-compatible corpus store.
type RustFSConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Config is the full application configuration, loaded once at startup and
// passed to service constructors.
type Config struct {
	Corpus      CorpusConfig
	Chunk       ChunkConfig
	Embedding   EmbeddingConfig
	Chat        ChatConfig
	Retriever   RetrieverConfig
	VectorStore VectorStoreConfig
	Milvus      MilvusConfig
	PgVector    PgVectorConfig
	RustFS      RustFSConfig
}

// Load reads the configuration with defaults applied.
func Load(ctx context.Context) *Config {
	return &Config{
		Corpus: CorpusConfig{
			Dir:          g.Cfg().MustGet(ctx, "corpus.dir", "./data/corpus").String(),
			BaseURL:      g.Cfg().MustGet(ctx, "corpus.baseURL", "https://raw.githubusercontent.com/prince-mishra/the-constitution-of-india/master").String(),
			Store:        g.Cfg().MustGet(ctx, "corpus.store", "local").String(),
			FetchWorkers: g.Cfg().MustGet(ctx, "corpus.fetchWorkers", 5).Int(),
			FetchTimeout: g.Cfg().MustGet(ctx, "corpus.fetchTimeout", 30).Int(),
		},
		Chunk: ChunkConfig{
			Size:    g.Cfg().MustGet(ctx, "chunk.size", 1000).Int(),
			Overlap: g.Cfg().MustGet(ctx, "chunk.overlap", 200).Int(),
		},
		Embedding: EmbeddingConfig{
			Type:        g.Cfg().MustGet(ctx, "embedding.type", "openai").String(),
			APIKey:      g.Cfg().MustGet(ctx, "embedding.apiKey", "").String(),
			BaseURL:     g.Cfg().MustGet(ctx, "embedding.baseURL", "").String(),
			Model:       g.Cfg().MustGet(ctx, "embedding.model", "").String(),
			Dimension:   g.Cfg().MustGet(ctx, "embedding.dimension", 1536).Int(),
			BatchSize:   g.Cfg().MustGet(ctx, "embedding.batchSize", 30).Int(),
			Concurrency: g.Cfg().MustGet(ctx, "embedding.concurrency", 3).Int(),
			Timeout:     g.Cfg().MustGet(ctx, "embedding.timeout", 60).Int(),
		},
		Chat: ChatConfig{
			Provider:    g.Cfg().MustGet(ctx, "chat.provider", "openai").String(),
			APIKey:      g.Cfg().MustGet(ctx, "chat.apiKey", "").String(),
			BaseURL:     g.Cfg().MustGet(ctx, "chat.baseURL", "").String(),
			Model:       g.Cfg().MustGet(ctx, "chat.model", "").String(),
			Temperature: float32(g.Cfg().MustGet(ctx, "chat.temperature", 0.3).Float64()),
			Timeout:     g.Cfg().MustGet(ctx, "chat.timeout", 60).Int(),
		},
		Retriever: RetrieverConfig{
			TopK:           g.Cfg().MustGet(ctx, "retriever.topK", 4).Int(),
			ScoreThreshold: g.Cfg().MustGet(ctx, "retriever.scoreThreshold", 0.78).Float64(),
		},
		VectorStore: VectorStoreConfig{
			Type:       g.Cfg().MustGet(ctx, "vectorstore.type", "flat").String(),
			Path:       g.Cfg().MustGet(ctx, "vectorstore.path", "./data/index/constitution.bundle").String(),
			MetricType: g.Cfg().MustGet(ctx, "vectorstore.metricType", "COSINE").String(),
		},
		Milvus: MilvusConfig{
			Address:    g.Cfg().MustGet(ctx, "milvus.address", "").String(),
			DBName:     g.Cfg().MustGet(ctx, "milvus.dbName", "default").String(),
			Collection: g.Cfg().MustGet(ctx, "milvus.collection", "constitution_chunks").String(),
		},
		PgVector: PgVectorConfig{
			DSN:   g.Cfg().MustGet(ctx, "pgvector.dsn", "").String(),
			Table: g.Cfg().MustGet(ctx, "pgvector.table", "constitution_chunks").String(),
		},
		RustFS: RustFSConfig{
			Endpoint:  g.Cfg().MustGet(ctx, "rustfs.endpoint", "").String(),
			AccessKey: g.Cfg().MustGet(ctx, "rustfs.accessKey", "").String(),
			SecretKey: g.Cfg().MustGet(ctx, "rustfs.secretKey", "").String(),
			Bucket:    g.Cfg().MustGet(ctx, "rustfs.bucket", "constitution-corpus").String(),
			UseSSL:    g.Cfg().MustGet(ctx, "rustfs.useSSL", false).Bool(),
		},
	}
}

// EmbeddingConfig implements the common embedding config interface.
func (c *EmbeddingConfig) GetAPIKey() string         { return c.APIKey }
func (c *EmbeddingConfig) GetBaseURL() string        { return c.BaseURL }
func (c *EmbeddingConfig) GetEmbeddingModel() string { return c.Model }
func (c *EmbeddingConfig) GetDimension() int         { return c.Dimension }
func (c *EmbeddingConfig) GetTimeout() int           { return c.Timeout }

// OpenAIConfig builds the eino openai chat model configuration.
func (c *ChatConfig) OpenAIConfig() *openai.ChatModelConfig {
	temperature := c.Temperature
	return &openai.ChatModelConfig{
		APIKey:      c.APIKey,
		BaseURL:     c.BaseURL,
		Model:       c.Model,
		Temperature: &temperature,
		Timeout:     time.Duration(c.Timeout) * time.Second,
	}
}

// QwenConfig builds the eino qwen chat model configuration.
func (c *ChatConfig) QwenConfig() *qwen.ChatModelConfig {
	temperature := c.Temperature
	return &qwen.ChatModelConfig{
		APIKey:      c.APIKey,
		BaseURL:     c.BaseURL,
		Model:       c.Model,
		Temperature: &temperature,
		Timeout:     time.Duration(c.Timeout) * time.Second,
	}
}

// ValidateConfiguration validates all required configuration items before the
// server starts. Missing required keys fail startup; soft issues are logged.
func ValidateConfiguration(ctx context.Context) error {
	var missingConfigs []string
	var warnings []string

	cfg := Load(ctx)

	// Embedding service is required for both ingestion and query paths.
	if cfg.Embedding.BaseURL == "" {
		missingConfigs = append(missingConfigs, "embedding.baseURL")
	}
	if cfg.Embedding.Model == "" {
		missingConfigs = append(missingConfigs, "embedding.model")
	}
	if cfg.Embedding.APIKey == "" {
		warnings = append(warnings, "embedding.apiKey is not set")
	}

	if cfg.Chat.APIKey == "" {
		warnings = append(warnings, "chat.apiKey is not set")
	}
	if cfg.Chat.BaseURL == "" {
		warnings = append(warnings, "chat.baseURL is not set")
	}
	if cfg.Chat.Model == "" {
		warnings = append(warnings, "chat.model is not set")
	}

	switch cfg.VectorStore.Type {
	case "flat":
		if cfg.VectorStore.Path == "" {
			missingConfigs = append(missingConfigs, "vectorstore.path")
		}
	case "milvus":
		if cfg.Milvus.Address == "" {
			missingConfigs = append(missingConfigs, "milvus.address")
		}
	case "pgvector":
		if cfg.PgVector.DSN == "" {
			missingConfigs = append(missingConfigs, "pgvector.dsn")
		}
	default:
		missingConfigs = append(missingConfigs, fmt.Sprintf("vectorstore.type (unsupported value %q)", cfg.VectorStore.Type))
	}

	if cfg.Corpus.Store == "rustfs" && cfg.RustFS.Endpoint == "" {
		missingConfigs = append(missingConfigs, "rustfs.endpoint")
	}

	if cfg.Chunk.Overlap >= cfg.Chunk.Size {
		missingConfigs = append(missingConfigs, fmt.Sprintf("chunk.overlap (%d) must be smaller than chunk.size (%d)", cfg.Chunk.Overlap, cfg.Chunk.Size))
	}
	if cfg.Retriever.ScoreThreshold < 0 || cfg.Retriever.ScoreThreshold > 1 {
		warnings = append(warnings, fmt.Sprintf("retriever.scoreThreshold %.2f is outside [0,1]", cfg.Retriever.ScoreThreshold))
	}

	if len(warnings) > 0 {
		g.Log().Warningf(ctx, "Configuration warnings:\n- %s", strings.Join(warnings, "\n- "))
	}

	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configuration items:\n- %s\n\nPlease check your config.yaml file and ensure all required settings are properly configured", strings.Join(missingConfigs, "\n- "))
	}

	g.Log().Info(ctx, "✓ All required configuration items are present")

	return nil
}
