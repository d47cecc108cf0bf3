package embedding

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

type clientImpl struct {
	api   *openai.Client
	model openai.EmbeddingModel
	cache *vectorCache
}

type Config struct {
	APIKey string
	Model  string

	// CacheDir enables the on-disk vector cache when non-empty, so command
	// embeddings survive restarts without repeat API calls.
	CacheDir string
}

func NewClient(cfg *Config) (API, error) {
	if cfg == nil {
		return nil, errors.New("missing parameter: cfg")
	}

	if cfg.APIKey == "" {
		return nil, errors.New("missing parameter: cfg.APIKey")
	}

	model := openai.EmbeddingModel(cfg.Model)
	if cfg.Model == "" {
		model = openai.SmallEmbedding3
	}

	client := &clientImpl{
		api:   openai.NewClient(cfg.APIKey),
		model: model,
	}

	if cfg.CacheDir != "" {
		cache, err := openVectorCache(cfg.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("open embedding cache: %w", err)
		}

		client.cache = cache
	}

	return client, nil
}

func (client *clientImpl) Embed(ctx context.Context, text string) ([]float32, error) {
	if client.cache != nil {
		if vec, ok := client.cache.get(string(client.model), text); ok {
			return vec, nil
		}
	}

	resp, err := client.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: client.model,
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, errors.New("embedding response contained no data")
	}

	vec := resp.Data[0].Embedding

	if client.cache != nil {
		if err := client.cache.put(string(client.model), text, vec); err != nil {
			// cache miss next time, nothing lost
			return vec, nil
		}
	}

	return vec, nil
}

func (client *clientImpl) Close() error {
	if client.cache != nil {
		return client.cache.close()
	}

	return nil
}
