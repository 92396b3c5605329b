package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LearningAssistant/internal/domain"
)

const timedTextBody = `<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0.0" dur="3.2">welcome to the course</text>
  <text start="3.2" dur="4.1">today we cover &amp;quot;machine learning&amp;quot;</text>
  <text start="7.3" dur="2.0">   </text>
</transcript>`

func newYouTubeTestServer(t *testing.T, transcriptStatus int, transcriptBody string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/timedtext", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "en", r.URL.Query().Get("lang"))
		w.WriteHeader(transcriptStatus)
		_, _ = w.Write([]byte(transcriptBody))
	})
	mux.HandleFunc("/oembed", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"title": "Intro to Machine Learning", "author_name": "ML Channel"}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestYouTubeExtract(t *testing.T) {
	t.Parallel()

	server := newYouTubeTestServer(t, http.StatusOK, timedTextBody)
	extractor := NewYouTubeExtractor(server.Client(), "en", nil)
	extractor.SetBaseURL(server.URL)

	content, err := extractor.Extract(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	require.NoError(t, err)

	assert.Equal(t, "Intro to Machine Learning", content.Title)
	assert.Equal(t, `welcome to the course today we cover "machine learning"`, content.RawText)
	assert.Equal(t, "dQw4w9WgXcQ", content.Metadata["video_id"])
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", content.SourceURL)
}

func TestYouTubeExtractMissingTranscript(t *testing.T) {
	t.Parallel()

	server := newYouTubeTestServer(t, http.StatusNotFound, "")
	extractor := NewYouTubeExtractor(server.Client(), "en", nil)
	extractor.SetBaseURL(server.URL)

	_, err := extractor.Extract(context.Background(), "https://youtu.be/dQw4w9WgXcQ")

	var noTranscript *domain.NoTranscriptError
	require.ErrorAs(t, err, &noTranscript)
	assert.Equal(t, "dQw4w9WgXcQ", noTranscript.VideoID)
	assert.Equal(t, domain.KindNoTranscript, domain.Kind(err))
}

func TestYouTubeExtractEmptyTranscriptBody(t *testing.T) {
	t.Parallel()

	server := newYouTubeTestServer(t, http.StatusOK, "")
	extractor := NewYouTubeExtractor(server.Client(), "en", nil)
	extractor.SetBaseURL(server.URL)

	_, err := extractor.Extract(context.Background(), "https://youtu.be/dQw4w9WgXcQ")

	var noTranscript *domain.NoTranscriptError
	require.ErrorAs(t, err, &noTranscript)
}

func TestYouTubeExtractRejectsNonVideoURL(t *testing.T) {
	t.Parallel()

	extractor := NewYouTubeExtractor(nil, "en", nil)

	_, err := extractor.Extract(context.Background(), "https://www.youtube.com/")

	var extraction *domain.ExtractionError
	require.ErrorAs(t, err, &extraction)
}

func TestVideoID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		rawURL string
		want   string
		ok     bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", true},
		{"https://m.youtube.com/watch?v=aB3_x-9Qz0k", "aB3_x-9Qz0k", true},
		{"https://www.youtube.com/", "", false},
		{"not-a-url", "", false},
	}

	for _, tc := range cases {
		got, ok := VideoID(tc.rawURL)
		assert.Equal(t, tc.ok, ok, tc.rawURL)
		assert.Equal(t, tc.want, got, tc.rawURL)
	}
}
