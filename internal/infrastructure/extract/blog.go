package extract

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"LearningAssistant/internal/domain"
	"LearningAssistant/internal/ports"
)

// BlogExtractor fetches raw HTML and strips boilerplate with readability,
// keeping the main article text. It does not execute JavaScript; pages that
// require client-side rendering fail with an extraction error.
type BlogExtractor struct {
	client *http.Client
	logger *slog.Logger
}

var _ ports.Extractor = (*BlogExtractor)(nil)

// NewBlogExtractor wires an HTTP client.
func NewBlogExtractor(client *http.Client, logger *slog.Logger) *BlogExtractor {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &BlogExtractor{client: client, logger: logger}
}

// Extract downloads the page and returns the readable article text.
func (b *BlogExtractor) Extract(ctx context.Context, rawURL string) (domain.ExtractedContent, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return domain.ExtractedContent{}, &domain.ExtractionError{URL: rawURL, Reason: "invalid url", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return domain.ExtractedContent{}, &domain.ExtractionError{URL: rawURL, Reason: "build request", Err: err}
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := b.client.Do(req)
	if err != nil {
		return domain.ExtractedContent{}, &domain.ExtractionError{URL: rawURL, Reason: "fetch page", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.ExtractedContent{}, &domain.ExtractionError{
			URL:    rawURL,
			Reason: "page returned " + resp.Status,
		}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "html") && !strings.Contains(contentType, "text") {
		return domain.ExtractedContent{}, &domain.ExtractionError{
			URL:    rawURL,
			Reason: "non-text content type " + contentType,
		}
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return domain.ExtractedContent{}, &domain.ExtractionError{URL: rawURL, Reason: "readability extraction failed", Err: err}
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return domain.ExtractedContent{}, &domain.ExtractionError{
			URL:    rawURL,
			Reason: "no article text (the page may require client-side rendering)",
		}
	}

	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = "Blog Article"
	}

	metadata := map[string]string{}
	if article.Byline != "" {
		metadata["author"] = article.Byline
	}
	if article.SiteName != "" {
		metadata["site"] = article.SiteName
	}
	if article.Excerpt != "" {
		metadata["excerpt"] = article.Excerpt
	}

	b.debug("blog extracted", "url", rawURL, "title", title, "chars", len(text))

	return domain.ExtractedContent{
		SourceURL: rawURL,
		Title:     title,
		RawText:   text,
		Metadata:  metadata,
	}, nil
}

func (b *BlogExtractor) debug(msg string, args ...any) {
	if b.logger != nil {
		b.logger.Debug(msg, args...)
	}
}
