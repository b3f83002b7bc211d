package common

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/conlawai/conlaw/core/errors"

	openaiembed "github.com/cloudwego/eino-ext/components/embedding/openai"
)

// EmbeddingConfig exposes the embedding service settings an embedder
// needs, independent of how they were loaded.
type EmbeddingConfig interface {
	GetAPIKey() string
	GetBaseURL() string
	GetEmbeddingModel() string
	GetDimension() int
	GetTimeout() int
}

// Embedder turns text into vectors. Both ingestion and query-time
// retrieval go through this.
type Embedder interface {
	EmbedStrings(ctx context.Context, texts []string) ([][]float32, error)
}

// Supported embedder types.
const (
	EmbedderTypeOpenAI = "openai"
	EmbedderTypeCustom = "custom"
)

// NewEmbedder builds the embedder selected by embedderType.
func NewEmbedder(ctx context.Context, embedderType string, conf EmbeddingConfig) (Embedder, error) {
	switch embedderType {
	case EmbedderTypeOpenAI:
		return newOpenAIEmbedder(ctx, conf)
	case EmbedderTypeCustom:
		return NewCustomEmbedder(ctx, conf)
	default:
		return nil, errors.Newf(errors.ErrUnsupportedConfiguration, "unsupported embedder type: %s", embedderType)
	}
}

// openaiEmbedder adapts the eino OpenAI embedding component to the
// Embedder interface, narrowing its float64 vectors to float32.
type openaiEmbedder struct {
	embedder *openaiembed.Embedder
}

func newOpenAIEmbedder(ctx context.Context, conf EmbeddingConfig) (*openaiEmbedder, error) {
	cfg := &openaiembed.EmbeddingConfig{
		APIKey:  conf.GetAPIKey(),
		BaseURL: conf.GetBaseURL(),
		Model:   conf.GetEmbeddingModel(),
		Timeout: time.Duration(conf.GetTimeout()) * time.Second,
	}
	if dim := conf.GetDimension(); dim > 0 {
		cfg.Dimensions = Of(dim)
	}

	emb, err := openaiembed.NewEmbedder(ctx, cfg)
	if err != nil {
		return nil, errors.Newf(errors.ErrEmbeddingService, "failed to create openai embedder: %v", err)
	}
	return &openaiEmbedder{embedder: emb}, nil
}

func (e *openaiEmbedder) EmbedStrings(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	vectors, err := e.embedder.EmbedStrings(ctx, texts)
	if err != nil {
		if os.IsTimeout(err) || stderrors.Is(err, context.DeadlineExceeded) {
			return nil, errors.Newf(errors.ErrUpstreamTimeout, "embedding request timed out: %v", err)
		}
		return nil, errors.Newf(errors.ErrEmbeddingService, "embedding request failed: %v", err)
	}
	if len(vectors) != len(texts) {
		return nil, errors.Newf(errors.ErrEmbeddingService, "response data length (%d) doesn't match input length (%d)", len(vectors), len(texts))
	}

	result := make([][]float32, len(vectors))
	for i, vec := range vectors {
		float32Vec := make([]float32, len(vec))
		for j, v := range vec {
			float32Vec[j] = float32(v)
		}
		result[i] = float32Vec
	}
	return result, nil
}

// CustomEmbedder talks to any OpenAI-compatible /embeddings endpoint
// directly, for providers the SDK client chokes on.
type CustomEmbedder struct {
	apiKey     string
	baseURL    string
	model      string
	dimension  int
	httpClient *http.Client
}

// EmbeddingRequest is the OpenAI-compatible embedding request body.
type EmbeddingRequest struct {
	Input      []string `json:"input"`
	Model      string   `json:"model"`
	Dimensions *int     `json:"dimensions,omitempty"`
}

// EmbeddingResponse is the OpenAI-compatible embedding response body.
type EmbeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
		Object    string    `json:"object"`
	} `json:"data"`
	Model  string `json:"model"`
	Object string `json:"object"`
	Usage  struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

// ErrorResponse is the error payload embedding providers return.
type ErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code,omitempty"`
	} `json:"error"`
}

func NewCustomEmbedder(ctx context.Context, conf EmbeddingConfig) (*CustomEmbedder, error) {
	apiKey := conf.GetAPIKey()
	baseURL := conf.GetBaseURL()
	model := conf.GetEmbeddingModel()

	if apiKey == "" {
		return nil, errors.Newf(errors.ErrInvalidParameter, "embedding apiKey is required")
	}
	if baseURL == "" {
		return nil, errors.Newf(errors.ErrInvalidParameter, "embedding baseURL is required")
	}
	if model == "" {
		return nil, errors.Newf(errors.ErrInvalidParameter, "embedding model not found")
	}

	// Generous timeouts: batch embedding of large inputs can be slow.
	httpClient := &http.Client{
		Timeout: 5 * time.Minute,
		Transport: &http.Transport{
			Dial: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).Dial,
			TLSHandshakeTimeout:   30 * time.Second,
			ResponseHeaderTimeout: 2 * time.Minute,
			ExpectContinueTimeout: 1 * time.Second,
			IdleConnTimeout:       90 * time.Second,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
		},
	}

	return &CustomEmbedder{
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
		dimension:  conf.GetDimension(),
		httpClient: httpClient,
	}, nil
}

// EmbedStrings vectorizes texts in a single request.
func (e *CustomEmbedder) EmbedStrings(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	req := EmbeddingRequest{
		Input: texts,
		Model: e.model,
	}
	if e.dimension > 0 {
		req.Dimensions = Of(e.dimension)
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Newf(errors.ErrEmbeddingService, "failed to marshal request: %v", err)
	}

	url := e.baseURL + "/embeddings"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, errors.Newf(errors.ErrEmbeddingService, "failed to create request: %v", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		if os.IsTimeout(err) || stderrors.Is(err, context.DeadlineExceeded) {
			return nil, errors.Newf(errors.ErrUpstreamTimeout, "embedding request timed out: %v", err)
		}
		return nil, errors.Newf(errors.ErrEmbeddingService, "failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
			return nil, errors.Newf(errors.ErrEmbeddingService, "HTTP %d: failed to decode error response: %v", resp.StatusCode, err)
		}
		return nil, errors.Newf(errors.ErrEmbeddingService, "API error (HTTP %d): %s", resp.StatusCode, errResp.Error.Message)
	}

	var embResp EmbeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&embResp); err != nil {
		return nil, errors.Newf(errors.ErrEmbeddingService, "failed to decode response: %v", err)
	}

	if len(embResp.Data) != len(texts) {
		return nil, errors.Newf(errors.ErrEmbeddingService, "response data length (%d) doesn't match input length (%d)", len(embResp.Data), len(texts))
	}

	// Providers may reorder results, so place each vector by its index.
	result := make([][]float32, len(texts))
	for _, data := range embResp.Data {
		if data.Index < 0 || data.Index >= len(result) {
			return nil, errors.Newf(errors.ErrEmbeddingService, "invalid embedding index: %d", data.Index)
		}
		float32Vec := make([]float32, len(data.Embedding))
		for i, v := range data.Embedding {
			float32Vec[i] = float32(v)
		}
		result[data.Index] = float32Vec
	}

	return result, nil
}
