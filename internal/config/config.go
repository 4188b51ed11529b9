// Package config provides YAML configuration for the verse retrieval
// service.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// CorpusConfig points at the corpus CSV files. The questions files are
// optional tag supplements.
type CorpusConfig struct {
	GitaVerses    string `yaml:"gita_verses"`
	GitaQuestions string `yaml:"gita_questions"`
	PYSVerses     string `yaml:"pys_verses"`
	PYSQuestions  string `yaml:"pys_questions"`
}

// RetrievalConfig bounds query parameters.
type RetrievalConfig struct {
	DefaultTopN    int `yaml:"default_top_n"`
	MaxTopN        int `yaml:"max_top_n"`
	MaxQueryLength int `yaml:"max_query_length"`
}

// SummarizerConfig selects and configures the summarizer. Type is "llm" or
// "frequency".
type SummarizerConfig struct {
	Type             string `yaml:"type"`
	Model            string `yaml:"model"`
	BaseURL          string `yaml:"base_url"`
	APIKeyEnv        string `yaml:"api_key_env"`
	MaxContextLength int    `yaml:"max_context_length"`
	MaxOutputTokens  int    `yaml:"max_output_tokens"`
	MaxConcurrent    int    `yaml:"max_concurrent"`
	TimeoutSecs      int    `yaml:"timeout_secs"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Server     ServerConfig     `yaml:"server"`
	Corpus     CorpusConfig     `yaml:"corpus"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/gitarag/config.yaml.
// If neither exists, it writes defaults to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gitarag", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8000},
		Corpus: CorpusConfig{
			GitaVerses:    "dataset/Bhagwad_Gita_Verses_English.csv",
			GitaQuestions: "dataset/Bhagwad_Gita_Verses_English_Questions.csv",
			PYSVerses:     "dataset/Patanjali_Yoga_Sutras_Verses_English.csv",
			PYSQuestions:  "dataset/Patanjali_Yoga_Sutras_Verses_English_Questions.csv",
		},
		Retrieval:  RetrievalConfig{},
		Summarizer: SummarizerConfig{Type: "frequency"},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Retrieval.DefaultTopN == 0 {
		cfg.Retrieval.DefaultTopN = 5
	}
	if cfg.Retrieval.MaxTopN == 0 {
		cfg.Retrieval.MaxTopN = 20
	}
	if cfg.Retrieval.MaxQueryLength == 0 {
		cfg.Retrieval.MaxQueryLength = 500
	}
	if cfg.Summarizer.Type == "" {
		cfg.Summarizer.Type = "frequency"
	}
	if cfg.Summarizer.Type == "llm" {
		if cfg.Summarizer.Model == "" {
			cfg.Summarizer.Model = "gpt-4o-mini"
		}
		if cfg.Summarizer.APIKeyEnv == "" {
			cfg.Summarizer.APIKeyEnv = "OPENAI_API_KEY"
		}
	}
	if cfg.Summarizer.MaxContextLength == 0 {
		cfg.Summarizer.MaxContextLength = 512
	}
	if cfg.Summarizer.MaxOutputTokens == 0 {
		cfg.Summarizer.MaxOutputTokens = 150
	}
	if cfg.Summarizer.MaxConcurrent == 0 {
		cfg.Summarizer.MaxConcurrent = 2
	}
	if cfg.Summarizer.TimeoutSecs == 0 {
		cfg.Summarizer.TimeoutSecs = 30
	}
}
