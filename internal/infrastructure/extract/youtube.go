package extract

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"LearningAssistant/internal/domain"
	"LearningAssistant/internal/ports"
)

const defaultYouTubeBaseURL = "https://www.youtube.com"

// videoIDExpr matches the 11-character video ID across YouTube URL formats.
var videoIDExpr = regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})`)

// YouTubeExtractor fetches the transcript track and title for a video.
type YouTubeExtractor struct {
	client   *http.Client
	baseURL  string
	language string
	logger   *slog.Logger
}

var _ ports.Extractor = (*YouTubeExtractor)(nil)

// NewYouTubeExtractor wires an HTTP client; language defaults to "en".
func NewYouTubeExtractor(client *http.Client, language string, logger *slog.Logger) *YouTubeExtractor {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if language == "" {
		language = "en"
	}
	return &YouTubeExtractor{
		client:   client,
		baseURL:  defaultYouTubeBaseURL,
		language: language,
		logger:   logger,
	}
}

// SetBaseURL redirects API calls, used by tests.
func (y *YouTubeExtractor) SetBaseURL(base string) {
	y.baseURL = strings.TrimSuffix(base, "/")
}

// Extract resolves the video ID, fetches the transcript track, and returns
// the joined transcript text with the video title.
func (y *YouTubeExtractor) Extract(ctx context.Context, rawURL string) (domain.ExtractedContent, error) {
	id, ok := VideoID(rawURL)
	if !ok {
		return domain.ExtractedContent{}, &domain.ExtractionError{
			URL:    rawURL,
			Reason: "not a valid youtube video url",
		}
	}

	transcript, err := y.fetchTranscript(ctx, id)
	if err != nil {
		return domain.ExtractedContent{}, &domain.ExtractionError{
			URL:    rawURL,
			Reason: "fetch transcript",
			Err:    err,
		}
	}

	title := y.fetchTitle(ctx, rawURL)

	return domain.ExtractedContent{
		SourceURL: rawURL,
		Title:     title,
		RawText:   transcript,
		Metadata: map[string]string{
			"video_id": id,
		},
	}, nil
}

// VideoID extracts the video ID from various YouTube URL formats.
func VideoID(rawURL string) (string, bool) {
	match := videoIDExpr.FindStringSubmatch(rawURL)
	if match == nil {
		return "", false
	}
	return match[1], true
}

type timedTextTrack struct {
	XMLName xml.Name `xml:"transcript"`
	Lines   []struct {
		Text string `xml:",chardata"`
	} `xml:"text"`
}

func (y *YouTubeExtractor) fetchTranscript(ctx context.Context, videoID string) (string, error) {
	endpoint := fmt.Sprintf("%s/api/timedtext?lang=%s&v=%s", y.baseURL, url.QueryEscape(y.language), url.QueryEscape(videoID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "LearningAssistant/1.0")

	resp, err := y.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request transcript: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", &domain.NoTranscriptError{VideoID: videoID}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("timedtext returned %s", resp.Status)
	}

	var track timedTextTrack
	if err := xml.NewDecoder(resp.Body).Decode(&track); err != nil {
		// An empty body means YouTube has no track for this video/language.
		return "", &domain.NoTranscriptError{VideoID: videoID}
	}

	parts := make([]string, 0, len(track.Lines))
	for _, line := range track.Lines {
		text := strings.TrimSpace(html.UnescapeString(line.Text))
		if text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return "", &domain.NoTranscriptError{VideoID: videoID}
	}

	return strings.Join(parts, " "), nil
}

// fetchTitle asks the oEmbed endpoint first and falls back to scraping the
// watch page <title>. A missing title degrades to a placeholder, not an error.
func (y *YouTubeExtractor) fetchTitle(ctx context.Context, rawURL string) string {
	const fallback = "YouTube Video"

	endpoint := fmt.Sprintf("%s/oembed?url=%s&format=json", y.baseURL, url.QueryEscape(rawURL))
	if title := y.oembedTitle(ctx, endpoint); title != "" {
		return title
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fallback
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := y.client.Do(req)
	if err != nil {
		y.debug("title fallback fetch failed", "url", rawURL, "error", err)
		return fallback
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fallback
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return fallback
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	title = strings.TrimSpace(strings.TrimSuffix(title, "- YouTube"))
	if title == "" {
		return fallback
	}
	return title
}

func (y *YouTubeExtractor) oembedTitle(ctx context.Context, endpoint string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ""
	}

	resp, err := y.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var payload struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Title)
}

func (y *YouTubeExtractor) debug(msg string, args ...any) {
	if y.logger != nil {
		y.logger.Debug(msg, args...)
	}
}
