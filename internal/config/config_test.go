package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, ProviderOllama, cfg.Backend.Provider)
	assert.Equal(t, "http://localhost:11434", cfg.Backend.BaseURL)
	assert.Equal(t, 120*time.Second, cfg.Backend.Timeout())
	assert.Equal(t, 2, cfg.Backend.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Backend.Backoff())
	assert.Equal(t, 25000, cfg.Extraction.MaxContentChars)
	assert.Equal(t, 30*time.Second, cfg.Extraction.FetchTimeout())
	assert.Equal(t, "en", cfg.Extraction.TranscriptLanguage)
	assert.Equal(t, "prompts", cfg.Prompts.Dir)
	assert.Equal(t, "https://api.notion.com", cfg.Notion.BaseURL)
	assert.Empty(t, cfg.Database.DSN)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LLM_PROVIDER", ProviderOpenAI)
	t.Setenv("OLLAMA_BASE_URL", "http://ollama.internal:11434")
	t.Setenv("OLLAMA_MODEL", "llama3.1:8b")
	t.Setenv("LLM_API_KEY", "sk-test")
	t.Setenv("NOTION_TOKEN", "secret_token")
	t.Setenv("NOTION_DATABASE_ID", "db123")
	t.Setenv("DATABASE_DSN", "postgres://localhost/learning")
	t.Setenv("MAX_INPUT_CHARS", "4000")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, ProviderOpenAI, cfg.Backend.Provider)
	assert.Equal(t, "http://ollama.internal:11434", cfg.Backend.BaseURL)
	assert.Equal(t, "llama3.1:8b", cfg.Backend.Model)
	assert.Equal(t, "sk-test", cfg.Backend.APIKey)
	assert.Equal(t, "secret_token", cfg.Notion.Token)
	assert.Equal(t, "db123", cfg.Notion.DatabaseID)
	assert.Equal(t, "postgres://localhost/learning", cfg.Database.DSN)
	assert.Equal(t, 4000, cfg.Extraction.MaxContentChars)
}

func TestLoadInvalidMaxInputCharsIsIgnored(t *testing.T) {
	t.Setenv("MAX_INPUT_CHARS", "lots")

	cfg := Load()
	assert.Equal(t, 25000, cfg.Extraction.MaxContentChars)
}

func TestLoadYAMLFileWithEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte(`
server:
  addr: ":7070"
backend:
  provider: openai
  model: gpt-4o-mini
  timeoutSeconds: 15
  maxRetries: 4
extraction:
  maxContentChars: 12000
prompts:
  dir: /etc/learning/prompts
`)
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	t.Setenv("LEARNING_ASSISTANT_CONFIG", path)
	t.Setenv("OLLAMA_MODEL", "llama3.1:8b")

	cfg := Load()

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, ProviderOpenAI, cfg.Backend.Provider)
	assert.Equal(t, "llama3.1:8b", cfg.Backend.Model, "environment wins over the file")
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout())
	assert.Equal(t, 4, cfg.Backend.MaxRetries)
	assert.Equal(t, 12000, cfg.Extraction.MaxContentChars)
	assert.Equal(t, "/etc/learning/prompts", cfg.Prompts.Dir)
	assert.Equal(t, "http://localhost:11434", cfg.Backend.BaseURL, "unset fields keep defaults")
}

func TestLoadUnreadableFileFallsBackToDefaults(t *testing.T) {
	t.Setenv("LEARNING_ASSISTANT_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg := Load()
	assert.Equal(t, ":8000", cfg.Server.Addr)
}
