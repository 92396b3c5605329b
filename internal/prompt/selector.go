package prompt

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pemistahl/lingua-go"

	"LearningAssistant/internal/domain"
	"LearningAssistant/internal/ports"
)

// languageSample bounds how much text feeds the language detector.
const languageSample = 2000

// fallbackLanguage is substituted when detection is inconclusive.
const fallbackLanguage = "the same language as the text"

// Selector maps resource types to templates and renders prompts. BuildPrompt
// is a pure function: identical content always yields an identical prompt.
type Selector struct {
	templates       map[domain.ResourceType]Template
	maxContentChars int
	detector        lingua.LanguageDetector
	logger          *slog.Logger
}

var _ ports.PromptBuilder = (*Selector)(nil)

// NewSelector loads template files from dir, falling back to built-in
// defaults per missing file. maxContentChars bounds the substituted content.
func NewSelector(dir string, maxContentChars int, logger *slog.Logger) *Selector {
	if maxContentChars <= 0 {
		maxContentChars = 25000
	}

	templates := make(map[domain.ResourceType]Template, len(builtinTemplates))
	for resourceType, builtin := range builtinTemplates {
		templates[resourceType] = builtin
	}

	if dir != "" {
		for resourceType, name := range templateFiles {
			path := filepath.Join(dir, name)
			raw, err := os.ReadFile(path)
			if err != nil {
				if logger != nil {
					logger.Debug("template file not found, using builtin", "path", path)
				}
				continue
			}
			text := strings.TrimSpace(string(raw))
			if text == "" {
				continue
			}
			templates[resourceType] = Template{ID: "file/" + name, Text: text}
		}
	}

	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(
			lingua.English,
			lingua.Chinese,
			lingua.Spanish,
			lingua.French,
			lingua.German,
			lingua.Portuguese,
			lingua.Russian,
			lingua.Japanese,
			lingua.Korean,
		).
		Build()

	return &Selector{
		templates:       templates,
		maxContentChars: maxContentChars,
		detector:        detector,
		logger:          logger,
	}
}

// BuildPrompt selects the template for the content's resource type, truncates
// the raw text to the configured budget, and substitutes the placeholders.
func (s *Selector) BuildPrompt(content domain.ExtractedContent) (domain.PromptPayload, error) {
	tpl, ok := s.templates[content.ResourceType]
	if !ok {
		return domain.PromptPayload{}, fmt.Errorf("no prompt template for resource type %s", content.ResourceType)
	}

	text := Truncate(content.RawText, s.maxContentChars)
	rendered := strings.NewReplacer(
		"{content}", text,
		"{title}", content.Title,
		"{metadata}", formatMetadata(content.Metadata),
		"{language}", s.detectLanguage(text),
	).Replace(tpl.Text)

	return domain.PromptPayload{
		TemplateID:     tpl.ID,
		RenderedPrompt: rendered,
	}, nil
}

// Truncate keeps at most max runes from the beginning of the text. The
// beginning carries the abstract/intro, which outranks tail content.
func Truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}

func (s *Selector) detectLanguage(text string) string {
	if s.detector == nil {
		return fallbackLanguage
	}
	sample := Truncate(text, languageSample)
	lang, ok := s.detector.DetectLanguageOf(sample)
	if !ok {
		return fallbackLanguage
	}
	return lang.String()
}

// formatMetadata renders metadata deterministically, one sorted key per line.
func formatMetadata(metadata map[string]string) string {
	if len(metadata) == 0 {
		return ""
	}
	keys := make([]string, 0, len(metadata))
	for key := range metadata {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, key+": "+metadata[key])
	}
	return strings.Join(lines, "\n")
}
