package classify

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"LearningAssistant/internal/domain"
	"LearningAssistant/internal/ports"
)

var youtubeHosts = map[string]bool{
	"youtube.com":   true,
	"youtu.be":      true,
	"m.youtube.com": true,
}

// Classifier matches URLs against an ordered pattern set. For arXiv links it
// fetches the paper title to separate survey papers from regular papers.
type Classifier struct {
	titles ports.TitleSource
	logger *slog.Logger
}

var _ ports.Classifier = (*Classifier)(nil)

// New wires the title source used for survey detection.
func New(titles ports.TitleSource, logger *slog.Logger) *Classifier {
	return &Classifier{titles: titles, logger: logger}
}

// Classify resolves the resource type for a URL. An explicit hint always
// overrides pattern inference. Calling it twice on the same URL yields the
// same result.
func (c *Classifier) Classify(ctx context.Context, rawURL string, hint domain.ResourceType) (domain.ResourceType, error) {
	if hint != "" {
		if !hint.Valid() {
			return "", &domain.UnsupportedURLError{URL: rawURL}
		}
		return hint, nil
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", &domain.UnsupportedURLError{URL: rawURL}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", &domain.UnsupportedURLError{URL: rawURL}
	}

	host := strings.ToLower(strings.TrimPrefix(parsed.Hostname(), "www."))

	if youtubeHosts[host] {
		return domain.ResourceYouTube, nil
	}

	if IsArxivURL(rawURL) {
		return c.classifyArxiv(ctx, rawURL)
	}

	return domain.ResourceBlog, nil
}

func (c *Classifier) classifyArxiv(ctx context.Context, rawURL string) (domain.ResourceType, error) {
	if c.titles == nil {
		return domain.ResourcePaper, nil
	}

	title, err := c.titles.FetchTitle(ctx, rawURL)
	if err != nil {
		return "", fmt.Errorf("fetch arxiv title: %w", err)
	}

	if strings.Contains(strings.ToLower(title), "survey") {
		c.debug("survey title detected", "url", rawURL, "title", title)
		return domain.ResourceSurveyPaper, nil
	}
	return domain.ResourcePaper, nil
}

// IsArxivURL reports whether the URL has the expected arXiv abstract or PDF
// shape. A bare arXiv identifier without the URL shape does not qualify.
func IsArxivURL(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	if !strings.Contains(lower, "arxiv.org") {
		return false
	}
	return strings.Contains(lower, "/abs/") || strings.Contains(lower, "/pdf/")
}

func (c *Classifier) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
