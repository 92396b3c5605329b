package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"

	"LearningAssistant/internal/domain"
	"LearningAssistant/internal/ports"
)

// maxPDFBytes caps full-text downloads; arXiv papers rarely exceed this.
const maxPDFBytes = 64 << 20

// ArxivExtractor resolves the abstract page for metadata and the PDF source
// for body text. It also serves as the classifier's title source.
type ArxivExtractor struct {
	client *http.Client
	logger *slog.Logger
}

var _ ports.Extractor = (*ArxivExtractor)(nil)
var _ ports.TitleSource = (*ArxivExtractor)(nil)

// NewArxivExtractor wires an HTTP client.
func NewArxivExtractor(client *http.Client, logger *slog.Logger) *ArxivExtractor {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &ArxivExtractor{client: client, logger: logger}
}

// AbsURL normalizes an arXiv URL to its abstract page form.
func AbsURL(rawURL string) (string, error) {
	switch {
	case strings.Contains(rawURL, "/abs/"):
		return rawURL, nil
	case strings.Contains(rawURL, "/pdf/"):
		return strings.TrimSuffix(strings.Replace(rawURL, "/pdf/", "/abs/", 1), ".pdf"), nil
	default:
		return "", fmt.Errorf("invalid arxiv url format: %s", rawURL)
	}
}

// PDFURL converts an arXiv abstract URL to its PDF counterpart.
func PDFURL(rawURL string) (string, error) {
	switch {
	case strings.Contains(rawURL, "/abs/"):
		return strings.Replace(rawURL, "/abs/", "/pdf/", 1) + ".pdf", nil
	case strings.HasSuffix(rawURL, ".pdf"):
		return rawURL, nil
	case strings.Contains(rawURL, "/pdf/"):
		return rawURL + ".pdf", nil
	default:
		return "", fmt.Errorf("invalid arxiv url format: %s", rawURL)
	}
}

// FetchTitle parses only the abstract page title. Used during classification
// to detect survey papers before full extraction runs.
func (a *ArxivExtractor) FetchTitle(ctx context.Context, rawURL string) (string, error) {
	absURL, err := AbsURL(rawURL)
	if err != nil {
		return "", err
	}

	doc, err := a.fetchDocument(ctx, absURL)
	if err != nil {
		return "", err
	}

	title := cleanPrefixed(doc.Find("h1.title").First().Text(), "Title:")
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if title == "" {
		return "", fmt.Errorf("no title found on %s", absURL)
	}
	return title, nil
}

// Extract returns title, authors and abstract in metadata and the PDF body
// text as raw text.
func (a *ArxivExtractor) Extract(ctx context.Context, rawURL string) (domain.ExtractedContent, error) {
	absURL, err := AbsURL(rawURL)
	if err != nil {
		return domain.ExtractedContent{}, &domain.ExtractionError{URL: rawURL, Reason: "unsupported arxiv url shape", Err: err}
	}

	doc, err := a.fetchDocument(ctx, absURL)
	if err != nil {
		return domain.ExtractedContent{}, &domain.ExtractionError{URL: rawURL, Reason: "fetch abstract page", Err: err}
	}

	title := cleanPrefixed(doc.Find("h1.title").First().Text(), "Title:")
	if title == "" {
		title = "Research Paper"
	}
	authors := cleanPrefixed(doc.Find("div.authors").First().Text(), "Authors:")
	abstract := cleanPrefixed(doc.Find("blockquote.abstract").First().Text(), "Abstract:")

	pdfURL, err := PDFURL(absURL)
	if err != nil {
		return domain.ExtractedContent{}, &domain.ExtractionError{URL: rawURL, Reason: "resolve pdf url", Err: err}
	}

	body, err := a.fetchPDFText(ctx, pdfURL)
	if err != nil {
		return domain.ExtractedContent{}, &domain.ExtractionError{URL: rawURL, Reason: "extract pdf text", Err: err}
	}

	a.debug("arxiv extracted", "url", rawURL, "title", title, "chars", len(body))

	return domain.ExtractedContent{
		SourceURL: rawURL,
		Title:     title,
		RawText:   body,
		Metadata: map[string]string{
			"title":    title,
			"authors":  authors,
			"abstract": abstract,
		},
	}, nil
}

func (a *ArxivExtractor) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "LearningAssistant/1.0")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func (a *ArxivExtractor) fetchPDFText(ctx context.Context, pdfURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdfURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "LearningAssistant/1.0")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download pdf: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pdf download returned %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPDFBytes))
	if err != nil {
		return "", fmt.Errorf("read pdf body: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	text := strings.TrimSpace(buf.String())
	if text == "" {
		return "", fmt.Errorf("no text in pdf (it may be image-based)")
	}
	return text, nil
}

func cleanPrefixed(text, prefix string) string {
	text = strings.TrimSpace(text)
	if len(text) >= len(prefix) && strings.EqualFold(text[:len(prefix)], prefix) {
		text = text[len(prefix):]
	}
	return strings.TrimSpace(text)
}

func (a *ArxivExtractor) debug(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Debug(msg, args...)
	}
}
