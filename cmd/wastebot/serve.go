package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wastebot/internal/api"
	"wastebot/internal/chat"
	"wastebot/internal/config"
	"wastebot/internal/intent"
	"wastebot/internal/llm"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chatbot HTTP server",
	Run: func(cmd *cobra.Command, args []string) {
		runServe()
	},
}

func runServe() {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	completer, err := llm.NewClient(llm.Config{
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		TopP:        cfg.LLM.TopP,
		Timeout:     time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
		Logger:      logger,
	})
	if err != nil {
		logger.Fatal("Failed to create completion client", zap.Error(err))
	}

	manager, err := newIndexManager(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create index manager", zap.Error(err))
	}
	if err := manager.Init(context.Background()); err != nil {
		logger.Fatal("Failed to initialize index", zap.Error(err))
	}
	logger.Info("index ready", zap.Int("chunks", manager.Len()))

	classifier := intent.NewClassifier(completer, logger)
	pipeline := chat.NewPipeline(completer, manager, classifier, logger)
	suggester := chat.NewSuggestionGenerator(completer, manager, cfg.Suggestions.Max, logger)

	handler := api.NewChatHandler(pipeline, suggester, manager, logger)
	router := api.SetupRouter(handler, api.RouterConfig{
		APIKey:       cfg.Admin.APIKey,
		AllowOrigins: []string{"*"},
	})

	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Starting wastebot server", zap.String("address", cfg.Address()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
	logger.Info("Server stopped")
}
