package parse

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"

	"LearningAssistant/internal/domain"
	"LearningAssistant/internal/ports"
)

// bulletExpr splits takeaway blobs on bullets or newlines, as the prompt
// templates request one point per line.
var bulletExpr = regexp.MustCompile(`[-•*]\s*|\n`)

// keyPointMarkers are tried in order when the response is not JSON.
var keyPointMarkers = []string{"KEY POINTS:", "TAKEAWAYS:"}

// Parser converts raw model output into a structured summary. Parsing is
// tolerant: output that ignores the requested structure degrades to a plain
// summary instead of failing the pipeline.
type Parser struct {
	logger *slog.Logger
}

var _ ports.ResultParser = (*Parser)(nil)

// New builds a parser.
func New(logger *slog.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse extracts summary text, key points, and tags from the model response.
// It fails only when the response is empty or an echoed backend error payload.
func (p *Parser) Parse(response domain.ModelResponse, content domain.ExtractedContent) (domain.StructuredSummary, error) {
	raw := strings.TrimSpace(response.RawText)
	if raw == "" {
		return domain.StructuredSummary{}, &domain.ParseError{Reason: "model returned empty output"}
	}

	summary := domain.StructuredSummary{
		Title:        content.Title,
		ResourceType: content.ResourceType,
		SourceURL:    content.SourceURL,
	}

	if parsed, ok, echoed := p.parseJSON(raw); echoed {
		return domain.StructuredSummary{}, &domain.ParseError{Reason: "model echoed a backend error payload"}
	} else if ok {
		summary.SummaryText = parsed.summary
		summary.KeyPoints = parsed.keyPoints
		summary.Tags = parsed.tags
		return summary, nil
	}

	if text, points, tags, ok := parseSections(raw); ok {
		summary.SummaryText = text
		summary.KeyPoints = points
		summary.Tags = tags
		return summary, nil
	}

	// No recognizable structure: the whole response is the summary.
	p.debug("no section markers in model output, using full text", "backend", response.BackendUsed)
	summary.SummaryText = raw
	summary.KeyPoints = []string{}
	summary.Tags = []string{}
	return summary, nil
}

type jsonResult struct {
	summary   string
	keyPoints []string
	tags      []string
}

// parseJSON extracts the outermost JSON object from the response, which may
// be surrounded by extra prose. The third return flags an error payload echo.
func (p *Parser) parseJSON(raw string) (jsonResult, bool, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return jsonResult{}, false, false
	}

	var payload struct {
		Summary   string          `json:"summary"`
		Takeaways json.RawMessage `json:"takeaways"`
		Tags      json.RawMessage `json:"tags"`
		Error     json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err != nil {
		p.debug("json candidate failed to decode", "error", err)
		return jsonResult{}, false, false
	}

	summaryText := strings.TrimSpace(payload.Summary)
	if len(payload.Error) > 0 && summaryText == "" {
		return jsonResult{}, false, true
	}
	if summaryText == "" {
		return jsonResult{}, false, false
	}

	return jsonResult{
		summary:   summaryText,
		keyPoints: decodeStringList(payload.Takeaways),
		tags:      dedupe(decodeStringList(payload.Tags)),
	}, true, false
}

// decodeStringList tolerates both a JSON array and a single string blob that
// needs splitting on bullets or newlines.
func decodeStringList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return trimNonEmpty(list)
	}

	var blob string
	if err := json.Unmarshal(raw, &blob); err == nil {
		return splitBullets(blob)
	}

	return []string{}
}

// parseSections handles the plain-text SUMMARY / KEY POINTS / TAGS layout.
func parseSections(raw string) (string, []string, []string, bool) {
	upper := strings.ToUpper(raw)
	summaryIdx := strings.Index(upper, "SUMMARY:")
	if summaryIdx == -1 {
		return "", nil, nil, false
	}

	pointsIdx := -1
	pointsMarker := ""
	for _, marker := range keyPointMarkers {
		if idx := strings.Index(upper, marker); idx > summaryIdx {
			pointsIdx = idx
			pointsMarker = marker
			break
		}
	}
	tagsIdx := strings.Index(upper, "TAGS:")

	summaryEnd := len(raw)
	if pointsIdx != -1 {
		summaryEnd = pointsIdx
	} else if tagsIdx > summaryIdx {
		summaryEnd = tagsIdx
	}
	summaryText := strings.TrimSpace(raw[summaryIdx+len("SUMMARY:") : summaryEnd])

	var points []string
	if pointsIdx != -1 {
		pointsEnd := len(raw)
		if tagsIdx > pointsIdx {
			pointsEnd = tagsIdx
		}
		points = splitBullets(raw[pointsIdx+len(pointsMarker) : pointsEnd])
	} else {
		points = []string{}
	}

	var tags []string
	if tagsIdx > summaryIdx {
		tags = dedupe(trimNonEmpty(strings.Split(raw[tagsIdx+len("TAGS:"):], ",")))
	} else {
		tags = []string{}
	}

	return summaryText, points, tags, true
}

func splitBullets(blob string) []string {
	return trimNonEmpty(bulletExpr.Split(blob, -1))
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

func (p *Parser) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
