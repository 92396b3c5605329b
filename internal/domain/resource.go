package domain

import "time"

// ResourceType selects the extraction and prompting strategy for a URL.
type ResourceType string

const (
	ResourceYouTube     ResourceType = "youtube"
	ResourceBlog        ResourceType = "blog"
	ResourcePaper       ResourceType = "paper"
	ResourceSurveyPaper ResourceType = "survey_paper"
)

// Valid reports whether the value is one of the supported resource types.
func (t ResourceType) Valid() bool {
	switch t {
	case ResourceYouTube, ResourceBlog, ResourcePaper, ResourceSurveyPaper:
		return true
	}
	return false
}

// Label maps the type to the display name used by the knowledge base.
func (t ResourceType) Label() string {
	switch t {
	case ResourceYouTube:
		return "Video"
	case ResourcePaper, ResourceSurveyPaper:
		return "Paper"
	default:
		return "Article"
	}
}

// ReminderInterval is an optional review reminder attached to a submission.
type ReminderInterval string

const (
	ReminderNone     ReminderInterval = ""
	ReminderTomorrow ReminderInterval = "tomorrow"
	ReminderThreeDay ReminderInterval = "3days"
	ReminderOneWeek  ReminderInterval = "1week"
)

// Resolve converts the interval to an absolute date relative to now.
// The second return is false when no reminder was requested.
func (r ReminderInterval) Resolve(now time.Time) (time.Time, bool) {
	switch r {
	case ReminderTomorrow:
		return now.AddDate(0, 0, 1), true
	case ReminderThreeDay:
		return now.AddDate(0, 0, 3), true
	case ReminderOneWeek:
		return now.AddDate(0, 0, 7), true
	}
	return time.Time{}, false
}

// IngestRequest is a single submitted URL with optional overrides.
// It is immutable and discarded once the pipeline run completes.
type IngestRequest struct {
	URL      string
	TypeHint ResourceType
	Reminder ReminderInterval
}

// ExtractedContent is the normalized text produced by an extractor.
// RawText is non-empty on success; an empty extraction is a failure.
type ExtractedContent struct {
	ResourceType ResourceType
	SourceURL    string
	Title        string
	RawText      string
	Metadata     map[string]string
}

// PromptPayload is a rendered model instruction, derived deterministically
// from ExtractedContent.
type PromptPayload struct {
	TemplateID     string
	RenderedPrompt string
}

// ModelResponse carries the raw generated text back to the result parser.
type ModelResponse struct {
	RawText     string
	Latency     time.Duration
	BackendUsed string
}

// StructuredSummary is the terminal artifact handed to the persistence
// collaborator after a fully successful run.
type StructuredSummary struct {
	Title        string
	SummaryText  string
	KeyPoints    []string
	Tags         []string
	ResourceType ResourceType
	SourceURL    string
	ReminderAt   *time.Time
}
