package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, 8000, cfg.Server.Port)
		assert.Equal(t, 5, cfg.Retrieval.DefaultTopN)
		assert.Equal(t, 20, cfg.Retrieval.MaxTopN)
		assert.Equal(t, 500, cfg.Retrieval.MaxQueryLength)
		assert.Equal(t, "frequency", cfg.Summarizer.Type)
		assert.Equal(t, 512, cfg.Summarizer.MaxContextLength)
		assert.Equal(t, 150, cfg.Summarizer.MaxOutputTokens)
		assert.Equal(t, 2, cfg.Summarizer.MaxConcurrent)
		assert.Equal(t, 30, cfg.Summarizer.TimeoutSecs)
	})

	t.Run("partial file keeps defaults for the rest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "server:\n  port: 9001\nsummarizer:\n  type: llm\n  model: flan-t5-base\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 9001, cfg.Server.Port)
		assert.Equal(t, "llm", cfg.Summarizer.Type)
		assert.Equal(t, "flan-t5-base", cfg.Summarizer.Model)
		assert.Equal(t, "OPENAI_API_KEY", cfg.Summarizer.APIKeyEnv)
		assert.Equal(t, 20, cfg.Retrieval.MaxTopN)
	})

	t.Run("malformed yaml fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(":\n  - ["), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.Server.Port = 8088
	cfg.Server.CORSOrigins = []string{"http://localhost:3000"}
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8088, loaded.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, loaded.Server.CORSOrigins)
}
