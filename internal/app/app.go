package app

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"LearningAssistant/internal/classify"
	"LearningAssistant/internal/config"
	"LearningAssistant/internal/domain"
	"LearningAssistant/internal/extract"
	infraextract "LearningAssistant/internal/infrastructure/extract"
	"LearningAssistant/internal/infrastructure/llm"
	"LearningAssistant/internal/infrastructure/notion"
	"LearningAssistant/internal/infrastructure/storage"
	"LearningAssistant/internal/logging"
	"LearningAssistant/internal/parse"
	"LearningAssistant/internal/ports"
	"LearningAssistant/internal/prompt"
	"LearningAssistant/internal/server"
	"LearningAssistant/internal/summarize"
	"LearningAssistant/internal/usecase"
)

// Application wires configuration into the pipeline and HTTP surface.
type Application struct {
	cfg    config.Config
	server *server.Server
	logger *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	fetchClient := &http.Client{Timeout: cfg.Extraction.FetchTimeout()}

	arxiv := infraextract.NewArxivExtractor(fetchClient, logging.Component(baseLogger, "extract.arxiv"))

	registry := extract.NewRegistry()
	registry.Register(domain.ResourceYouTube, infraextract.NewYouTubeExtractor(
		fetchClient, cfg.Extraction.TranscriptLanguage, logging.Component(baseLogger, "extract.youtube")))
	registry.Register(domain.ResourceBlog, infraextract.NewBlogExtractor(
		fetchClient, logging.Component(baseLogger, "extract.blog")))
	registry.Register(domain.ResourcePaper, arxiv)
	registry.Register(domain.ResourceSurveyPaper, arxiv)

	backend, err := buildBackend(cfg.Backend)
	if err != nil {
		return nil, err
	}

	summarizer := summarize.NewClient(backend, summarize.Options{
		Timeout:    cfg.Backend.Timeout(),
		MaxRetries: cfg.Backend.MaxRetries,
		Backoff:    cfg.Backend.Backoff(),
	}, logging.Component(baseLogger, "summarize"))

	knowledgeBase, err := buildKnowledgeBase(cfg)
	if err != nil {
		return nil, err
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Classifier:    classify.New(arxiv, logging.Component(baseLogger, "classify")),
		Extractors:    registry,
		Prompts:       prompt.NewSelector(cfg.Prompts.Dir, cfg.Extraction.MaxContentChars, logging.Component(baseLogger, "prompt")),
		Summarizer:    summarizer,
		Parser:        parse.New(logging.Component(baseLogger, "parse")),
		KnowledgeBase: knowledgeBase,
		Logger:        logging.Component(baseLogger, "pipeline"),
	})

	return &Application{
		cfg:    cfg,
		server: server.New(pipeline, logging.Component(baseLogger, "server")),
		logger: baseLogger,
	}, nil
}

// Run serves the HTTP surface until the process stops.
func (a *Application) Run() error {
	a.logger.Info("listening", "addr", a.cfg.Server.Addr, "backend", a.cfg.Backend.Provider)
	return a.server.Run(a.cfg.Server.Addr)
}

func buildBackend(cfg config.BackendConfig) (ports.ModelBackend, error) {
	switch cfg.Provider {
	case config.ProviderOllama:
		return llm.NewOllamaClient(cfg.BaseURL, cfg.Model, cfg.MaxOutputTokens), nil
	case config.ProviderOpenAI:
		return llm.NewOpenAIClient(cfg.BaseURL, cfg.Model, cfg.APIKey, cfg.MaxOutputTokens), nil
	default:
		return nil, fmt.Errorf("unknown backend provider %q", cfg.Provider)
	}
}

func buildKnowledgeBase(cfg config.Config) (ports.KnowledgeBase, error) {
	if cfg.Notion.Token != "" && cfg.Notion.DatabaseID != "" {
		return notion.NewClient(cfg.Notion.BaseURL, cfg.Notion.Token, cfg.Notion.DatabaseID), nil
	}

	if cfg.Database.DSN != "" {
		db, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return storage.NewPostgresRepository(db), nil
	}

	return nil, fmt.Errorf("no knowledge base configured: set NOTION_TOKEN/NOTION_DATABASE_ID or DATABASE_DSN")
}
