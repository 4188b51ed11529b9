package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"gitarag/internal/config"
	"gitarag/internal/corpus"
	"gitarag/internal/domain"
	"gitarag/internal/index"
	"gitarag/internal/retriever"
	"gitarag/internal/server"
	"gitarag/internal/service"
	"gitarag/internal/summarizer"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	var debug bool
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/gitarag/config.yaml if not provided)")
	flag.BoolVar(&debug, "debug", false, "enable debug logging")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := newLogger(debug)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	svc, closeSummarizer, err := buildService(cfg, logger)
	if err != nil {
		logger.Fatal("initialization failed", zap.Error(err))
	}
	defer closeSummarizer()

	srv := server.NewServer(svc, &cfg.Server, logger)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		logger.Fatal("server stopped", zap.Error(err))
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Stop(ctx); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// buildService loads both corpora, builds the term index and wires the
// orchestrator. It returns a teardown func releasing the summarizer pool.
func buildService(cfg *config.AppConfig, logger *zap.Logger) (*service.Service, func(), error) {
	c, err := corpus.Load(corpus.Paths{
		GitaVerses:    cfg.Corpus.GitaVerses,
		GitaQuestions: cfg.Corpus.GitaQuestions,
		PYSVerses:     cfg.Corpus.PYSVerses,
		PYSQuestions:  cfg.Corpus.PYSQuestions,
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	idx, err := index.Build(c.Records)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("term index built",
		zap.Int("verses", idx.Rows()),
		zap.Int("vocabulary", idx.Dimension()))

	retr, err := retriever.New(idx, c.Records, cfg.Retrieval.MaxTopN)
	if err != nil {
		return nil, nil, err
	}

	var sum domain.Summarizer
	switch cfg.Summarizer.Type {
	case "frequency", "":
		sum = summarizer.NewFrequency()
	case "llm":
		llm, err := summarizer.NewLLM(summarizer.LLMConfig{
			BaseURL:   cfg.Summarizer.BaseURL,
			Model:     cfg.Summarizer.Model,
			APIKeyEnv: cfg.Summarizer.APIKeyEnv,
		})
		if err != nil {
			return nil, nil, err
		}
		sum = llm
	default:
		logger.Fatal("unknown summarizer type", zap.String("type", cfg.Summarizer.Type))
	}
	gate, err := summarizer.NewGate(sum, cfg.Summarizer.MaxConcurrent,
		time.Duration(cfg.Summarizer.TimeoutSecs)*time.Second)
	if err != nil {
		return nil, nil, err
	}

	svc, err := service.New(c, retr, gate, service.Options{
		DefaultTopN:      cfg.Retrieval.DefaultTopN,
		MaxQueryLength:   cfg.Retrieval.MaxQueryLength,
		MaxContextLength: cfg.Summarizer.MaxContextLength,
		MaxOutputTokens:  cfg.Summarizer.MaxOutputTokens,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	return svc, gate.Close, nil
}
