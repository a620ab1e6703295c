package main

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"wastebot/internal/chunker"
	"wastebot/internal/config"
	"wastebot/internal/embedding"
	"wastebot/internal/embedding/openai"
	"wastebot/internal/embedding/tfidf"
	"wastebot/internal/index"
)

func newEmbedderFactory(cfg *config.Config) (func() embedding.Embedder, error) {
	switch cfg.Embedder.Type {
	case "", "tfidf":
		return func() embedding.Embedder { return tfidf.New() }, nil
	case "openai":
		client, err := openai.NewClient(openai.Config{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return nil, err
		}
		return func() embedding.Embedder { return client }, nil
	default:
		return nil, fmt.Errorf("unknown embedder type %q", cfg.Embedder.Type)
	}
}

func newIndexManager(cfg *config.Config, logger *zap.Logger) (*index.Manager, error) {
	factory, err := newEmbedderFactory(cfg)
	if err != nil {
		return nil, err
	}
	indexer := index.NewIndexer(index.Options{
		Chunker:      chunker.New(cfg.Chunker.Size, cfg.Chunker.Overlap),
		NewEmbedder:  factory,
		Path:         cfg.Index.Path,
		FallbackFile: cfg.KnowledgeBase.FallbackFile,
		Logger:       logger,
	})
	return index.NewManager(indexer, cfg.KnowledgeBase.Path, logger), nil
}
