package main

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wastebot/internal/config"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the knowledge base index and exit",
	Run: func(cmd *cobra.Command, args []string) {
		runIndex()
	},
}

func runIndex() {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	manager, err := newIndexManager(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create index manager", zap.Error(err))
	}
	chunks, err := manager.Rebuild(context.Background())
	if err != nil {
		logger.Fatal("Failed to build index", zap.Error(err))
	}
	logger.Info("index rebuilt", zap.Int("chunks", chunks))
}
