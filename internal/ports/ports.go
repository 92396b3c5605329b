package ports

import (
	"context"

	"LearningAssistant/internal/domain"
)

// Classifier resolves a submitted URL to a resource type.
type Classifier interface {
	Classify(ctx context.Context, rawURL string, hint domain.ResourceType) (domain.ResourceType, error)
}

// Extractor converts a URL into normalized plain text plus metadata.
type Extractor interface {
	Extract(ctx context.Context, rawURL string) (domain.ExtractedContent, error)
}

// ExtractorResolver looks up the extractor registered for a resource type.
type ExtractorResolver interface {
	Resolve(resourceType domain.ResourceType) (Extractor, error)
}

// TitleSource fetches a resource title cheaply, without full extraction.
// The classifier uses it to detect survey papers from arXiv titles.
type TitleSource interface {
	FetchTitle(ctx context.Context, rawURL string) (string, error)
}

// PromptBuilder renders the per-type template for extracted content.
type PromptBuilder interface {
	BuildPrompt(content domain.ExtractedContent) (domain.PromptPayload, error)
}

// ModelBackend is a single inference capability. The orchestrator never
// branches on which backend is behind it.
type ModelBackend interface {
	Name() string
	Infer(ctx context.Context, prompt string) (string, error)
}

// Summarizer runs a rendered prompt through a backend with timeout and retry.
type Summarizer interface {
	Summarize(ctx context.Context, prompt domain.PromptPayload) (domain.ModelResponse, error)
}

// ResultParser turns raw model output into a structured summary.
type ResultParser interface {
	Parse(response domain.ModelResponse, content domain.ExtractedContent) (domain.StructuredSummary, error)
}

// KnowledgeBase persists one page per successful run.
type KnowledgeBase interface {
	SavePage(ctx context.Context, summary domain.StructuredSummary) error
}
