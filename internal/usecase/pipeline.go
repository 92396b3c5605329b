package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"LearningAssistant/internal/domain"
	"LearningAssistant/internal/ports"
)

// Stage names the pipeline step a run is in when it fails.
type Stage string

const (
	StageClassifying Stage = "classifying"
	StageExtracting  Stage = "extracting"
	StagePrompting   Stage = "prompting"
	StageSummarizing Stage = "summarizing"
	StageParsing     Stage = "parsing"
	StagePersisting  Stage = "persisting"
)

// Failure is the structured terminal error surfaced to the caller. A failed
// run never crashes the process and never persists a partial summary.
type Failure struct {
	Stage   Stage
	Kind    string
	Message string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("pipeline failed at %s (%s): %s", f.Stage, f.Kind, f.Message)
}

// PipelineDeps wires all collaborators into the orchestration pipeline.
type PipelineDeps struct {
	Classifier    ports.Classifier
	Extractors    ports.ExtractorResolver
	Prompts       ports.PromptBuilder
	Summarizer    ports.Summarizer
	Parser        ports.ResultParser
	KnowledgeBase ports.KnowledgeBase
	Logger        *slog.Logger
}

// Pipeline sequences classification, extraction, prompting, summarization,
// parsing, and persistence for one submitted URL. Runs hold no cross-request
// state, so a single Pipeline serves concurrent submissions.
type Pipeline struct {
	classifier    ports.Classifier
	extractors    ports.ExtractorResolver
	prompts       ports.PromptBuilder
	summarizer    ports.Summarizer
	parser        ports.ResultParser
	knowledgeBase ports.KnowledgeBase
	logger        *slog.Logger
	now           func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		classifier:    deps.Classifier,
		extractors:    deps.Extractors,
		prompts:       deps.Prompts,
		summarizer:    deps.Summarizer,
		parser:        deps.Parser,
		knowledgeBase: deps.KnowledgeBase,
		logger:        deps.Logger,
		now:           time.Now,
	}
}

// Ingest runs one URL through the full pipeline and hands the structured
// summary to the knowledge base. Any stage failure short-circuits the run.
func (p *Pipeline) Ingest(ctx context.Context, req domain.IngestRequest) (domain.StructuredSummary, *Failure) {
	resourceType, err := p.classifier.Classify(ctx, req.URL, req.TypeHint)
	if err != nil {
		return domain.StructuredSummary{}, fail(StageClassifying, err)
	}
	p.debug("classified", "url", req.URL, "type", resourceType)

	extractor, err := p.extractors.Resolve(resourceType)
	if err != nil {
		return domain.StructuredSummary{}, fail(StageExtracting, err)
	}
	content, err := extractor.Extract(ctx, req.URL)
	if err != nil {
		return domain.StructuredSummary{}, fail(StageExtracting, err)
	}
	// Only the classifier distinguishes survey papers, so the resolved type
	// is stamped here rather than by the extractor.
	content.ResourceType = resourceType
	if content.SourceURL == "" {
		content.SourceURL = req.URL
	}
	p.debug("extracted", "url", req.URL, "title", content.Title, "chars", len(content.RawText))

	prompt, err := p.prompts.BuildPrompt(content)
	if err != nil {
		return domain.StructuredSummary{}, fail(StagePrompting, err)
	}

	response, err := p.summarizer.Summarize(ctx, prompt)
	if err != nil {
		return domain.StructuredSummary{}, fail(StageSummarizing, err)
	}
	p.debug("summarized", "url", req.URL, "backend", response.BackendUsed, "latency", response.Latency)

	summary, err := p.parser.Parse(response, content)
	if err != nil {
		return domain.StructuredSummary{}, fail(StageParsing, err)
	}

	if reminderAt, ok := req.Reminder.Resolve(p.now()); ok {
		summary.ReminderAt = &reminderAt
	}

	if p.knowledgeBase != nil {
		if err := p.knowledgeBase.SavePage(ctx, summary); err != nil {
			return domain.StructuredSummary{}, &Failure{
				Stage:   StagePersisting,
				Kind:    domain.KindPersistence,
				Message: err.Error(),
			}
		}
	}

	return summary, nil
}

func fail(stage Stage, err error) *Failure {
	return &Failure{
		Stage:   stage,
		Kind:    domain.Kind(err),
		Message: err.Error(),
	}
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
