package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv      = "LEARNING_ASSISTANT_CONFIG"
	httpAddrEnv        = "HTTP_ADDR"
	logLevelEnv        = "LOG_LEVEL"
	backendProviderEnv = "LLM_PROVIDER"
	backendBaseURLEnv  = "OLLAMA_BASE_URL"
	backendModelEnv    = "OLLAMA_MODEL"
	backendAPIKeyEnv   = "LLM_API_KEY"
	notionTokenEnv     = "NOTION_TOKEN"
	notionDatabaseEnv  = "NOTION_DATABASE_ID"
	databaseDSNEnv     = "DATABASE_DSN"
	maxInputCharsEnv   = "MAX_INPUT_CHARS"
)

// Backend providers recognized by the application wiring.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Config holds all settings required across the application.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Server     ServerConfig     `yaml:"server"`
	Backend    BackendConfig    `yaml:"backend"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Prompts    PromptConfig     `yaml:"prompts"`
	Notion     NotionConfig     `yaml:"notion"`
	Database   DatabaseConfig   `yaml:"database"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ServerConfig describes the HTTP submit surface.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// BackendConfig selects and tunes the language-model backend.
type BackendConfig struct {
	Provider        string `yaml:"provider"`
	BaseURL         string `yaml:"baseUrl"`
	Model           string `yaml:"model"`
	APIKey          string `yaml:"apiKey"`
	TimeoutSeconds  int    `yaml:"timeoutSeconds"`
	MaxRetries      int    `yaml:"maxRetries"`
	BackoffMillis   int    `yaml:"backoffMillis"`
	MaxOutputTokens int    `yaml:"maxOutputTokens"`
}

// Timeout bounds a single inference call.
func (b BackendConfig) Timeout() time.Duration {
	if b.TimeoutSeconds <= 0 {
		return 120 * time.Second
	}
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// Backoff is the fixed wait between transient-failure retries.
func (b BackendConfig) Backoff() time.Duration {
	if b.BackoffMillis <= 0 {
		return 2 * time.Second
	}
	return time.Duration(b.BackoffMillis) * time.Millisecond
}

// ExtractionConfig tunes the content extractors.
type ExtractionConfig struct {
	MaxContentChars     int    `yaml:"maxContentChars"`
	FetchTimeoutSeconds int    `yaml:"fetchTimeoutSeconds"`
	TranscriptLanguage  string `yaml:"transcriptLanguage"`
}

// FetchTimeout bounds a single extraction network call.
func (e ExtractionConfig) FetchTimeout() time.Duration {
	if e.FetchTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(e.FetchTimeoutSeconds) * time.Second
}

// PromptConfig points at the external template directory.
type PromptConfig struct {
	Dir string `yaml:"dir"`
}

// NotionConfig wires the knowledge-base page creation collaborator.
type NotionConfig struct {
	BaseURL    string `yaml:"baseUrl"`
	Token      string `yaml:"token"`
	DatabaseID string `yaml:"databaseId"`
}

// DatabaseConfig describes the Postgres archive fallback.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(httpAddrEnv); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(backendProviderEnv); v != "" {
		c.Backend.Provider = v
	}
	if v := os.Getenv(backendBaseURLEnv); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv(backendModelEnv); v != "" {
		c.Backend.Model = v
	}
	if v := os.Getenv(backendAPIKeyEnv); v != "" {
		c.Backend.APIKey = v
	}
	if v := os.Getenv(notionTokenEnv); v != "" {
		c.Notion.Token = v
	}
	if v := os.Getenv(notionDatabaseEnv); v != "" {
		c.Notion.DatabaseID = v
	}
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(maxInputCharsEnv); v != "" {
		if chars, err := strconv.Atoi(v); err == nil && chars > 0 {
			c.Extraction.MaxContentChars = chars
		} else {
			log.Printf("config: ignoring invalid %s=%q", maxInputCharsEnv, v)
		}
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}

	if override.Backend.Provider != "" {
		base.Backend.Provider = override.Backend.Provider
	}
	if override.Backend.BaseURL != "" {
		base.Backend.BaseURL = override.Backend.BaseURL
	}
	if override.Backend.Model != "" {
		base.Backend.Model = override.Backend.Model
	}
	if override.Backend.APIKey != "" {
		base.Backend.APIKey = override.Backend.APIKey
	}
	if override.Backend.TimeoutSeconds > 0 {
		base.Backend.TimeoutSeconds = override.Backend.TimeoutSeconds
	}
	if override.Backend.MaxRetries > 0 {
		base.Backend.MaxRetries = override.Backend.MaxRetries
	}
	if override.Backend.BackoffMillis > 0 {
		base.Backend.BackoffMillis = override.Backend.BackoffMillis
	}
	if override.Backend.MaxOutputTokens > 0 {
		base.Backend.MaxOutputTokens = override.Backend.MaxOutputTokens
	}

	if override.Extraction.MaxContentChars > 0 {
		base.Extraction.MaxContentChars = override.Extraction.MaxContentChars
	}
	if override.Extraction.FetchTimeoutSeconds > 0 {
		base.Extraction.FetchTimeoutSeconds = override.Extraction.FetchTimeoutSeconds
	}
	if override.Extraction.TranscriptLanguage != "" {
		base.Extraction.TranscriptLanguage = override.Extraction.TranscriptLanguage
	}

	if override.Prompts.Dir != "" {
		base.Prompts.Dir = override.Prompts.Dir
	}

	if override.Notion.BaseURL != "" {
		base.Notion.BaseURL = override.Notion.BaseURL
	}
	if override.Notion.Token != "" {
		base.Notion.Token = override.Notion.Token
	}
	if override.Notion.DatabaseID != "" {
		base.Notion.DatabaseID = override.Notion.DatabaseID
	}

	if override.Database.DSN != "" {
		base.Database.DSN = override.Database.DSN
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Server:  ServerConfig{Addr: ":8000"},
		Backend: BackendConfig{
			Provider:        ProviderOllama,
			BaseURL:         "http://localhost:11434",
			Model:           "minimax-m2:cloud",
			TimeoutSeconds:  120,
			MaxRetries:      2,
			BackoffMillis:   2000,
			MaxOutputTokens: 1000,
		},
		Extraction: ExtractionConfig{
			MaxContentChars:     25000,
			FetchTimeoutSeconds: 30,
			TranscriptLanguage:  "en",
		},
		Prompts: PromptConfig{Dir: "prompts"},
		Notion: NotionConfig{
			BaseURL: "https://api.notion.com",
		},
		Database: DatabaseConfig{},
	}
}
