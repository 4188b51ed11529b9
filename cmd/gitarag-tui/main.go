package main

import (
	"flag"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"gitarag/internal/config"
	"gitarag/internal/corpus"
	"gitarag/internal/domain"
	"gitarag/internal/index"
	"gitarag/internal/retriever"
	"gitarag/internal/service"
	"gitarag/internal/summarizer"
	"gitarag/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/gitarag/config.yaml if not provided)")
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

	// The TUI owns the terminal, so logs stay quiet.
	logger := zap.NewNop()

	c, err := corpus.Load(corpus.Paths{
		GitaVerses:    cfg.Corpus.GitaVerses,
		GitaQuestions: cfg.Corpus.GitaQuestions,
		PYSVerses:     cfg.Corpus.PYSVerses,
		PYSQuestions:  cfg.Corpus.PYSQuestions,
	}, logger)
	if err != nil {
		log.Fatalf("corpus load failed: %v", err)
	}
	idx, err := index.Build(c.Records)
	if err != nil {
		log.Fatalf("index build failed: %v", err)
	}
	retr, err := retriever.New(idx, c.Records, cfg.Retrieval.MaxTopN)
	if err != nil {
		log.Fatalf("retriever init failed: %v", err)
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
			log.Fatalf("summarizer init failed: %v", err)
		}
		sum = llm
	default:
		log.Fatalf("unknown summarizer: %s", cfg.Summarizer.Type)
	}

	svc, err := service.New(c, retr, sum, service.Options{
		DefaultTopN:      cfg.Retrieval.DefaultTopN,
		MaxQueryLength:   cfg.Retrieval.MaxQueryLength,
		MaxContextLength: cfg.Summarizer.MaxContextLength,
		MaxOutputTokens:  cfg.Summarizer.MaxOutputTokens,
	}, logger)
	if err != nil {
		log.Fatalf("service init failed: %v", err)
	}

	m := tui.New(svc)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
