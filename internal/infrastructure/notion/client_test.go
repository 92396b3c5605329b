package notion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LearningAssistant/internal/domain"
)

func TestSavePage(t *testing.T) {
	t.Parallel()

	var captured struct {
		method  string
		path    string
		headers http.Header
		payload map[string]any
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.path = r.URL.Path
		captured.headers = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured.payload))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"object": "page", "id": "abc"}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, "secret_token", "db123")

	reminder := time.Date(2026, time.March, 11, 12, 0, 0, 0, time.UTC)
	err := client.SavePage(context.Background(), domain.StructuredSummary{
		Title:        "Intro to Machine Learning",
		SummaryText:  "An overview of supervised learning.\n\nCovers loss functions and regularization.",
		KeyPoints:    []string{"models generalize via regularization", "loss choice matters"},
		Tags:         []string{"ml", "basics"},
		ResourceType: domain.ResourceYouTube,
		SourceURL:    "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		ReminderAt:   &reminder,
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, captured.method)
	assert.Equal(t, "/v1/pages", captured.path)
	assert.Equal(t, "Bearer secret_token", captured.headers.Get("Authorization"))
	assert.Equal(t, "2022-06-28", captured.headers.Get("Notion-Version"))
	assert.Equal(t, "application/json", captured.headers.Get("Content-Type"))

	parent := captured.payload["parent"].(map[string]any)
	assert.Equal(t, "db123", parent["database_id"])

	properties := captured.payload["properties"].(map[string]any)
	name := properties["Name"].(map[string]any)["title"].([]any)[0].(map[string]any)
	assert.Equal(t, "Intro to Machine Learning", name["text"].(map[string]any)["content"])
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", properties["URL"].(map[string]any)["url"])
	typeSelect := properties["Type"].(map[string]any)["select"].(map[string]any)
	assert.Equal(t, "Video", typeSelect["name"])
	statusSelect := properties["Status"].(map[string]any)["select"].(map[string]any)
	assert.Equal(t, "To Review", statusSelect["name"])
	tags := properties["Tags"].(map[string]any)["multi_select"].([]any)
	require.Len(t, tags, 2)
	date := properties["Reminder"].(map[string]any)["date"].(map[string]any)
	assert.Equal(t, "2026-03-11T12:00:00Z", date["start"])

	children := captured.payload["children"].([]any)
	// Summary heading, two paragraphs, takeaways heading, two bullets.
	require.Len(t, children, 6)
	first := children[0].(map[string]any)
	assert.Equal(t, "heading_2", first["type"])
	bulletBlock := children[4].(map[string]any)
	assert.Equal(t, "bulleted_list_item", bulletBlock["type"])
}

func TestSavePageOmitsEmptyOptionalProperties(t *testing.T) {
	t.Parallel()

	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, "secret_token", "db123")
	err := client.SavePage(context.Background(), domain.StructuredSummary{
		SummaryText:  "short note",
		ResourceType: domain.ResourceBlog,
		SourceURL:    "https://example.com/post",
	})
	require.NoError(t, err)

	properties := payload["properties"].(map[string]any)
	assert.NotContains(t, properties, "Tags")
	assert.NotContains(t, properties, "Reminder")

	name := properties["Name"].(map[string]any)["title"].([]any)[0].(map[string]any)
	assert.Equal(t, "New Resource", name["text"].(map[string]any)["content"])
}

func TestSavePageSurfacesAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"object": "error", "message": "database not found"}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, "secret_token", "db123")
	err := client.SavePage(context.Background(), domain.StructuredSummary{SummaryText: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database not found")
}

func TestSavePageRequiresCredentials(t *testing.T) {
	t.Parallel()

	client := NewClient("https://api.notion.com", "", "")
	err := client.SavePage(context.Background(), domain.StructuredSummary{SummaryText: "x"})
	require.Error(t, err)
}

func TestChunkText(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 2500)
	chunks := chunkText("first paragraph\n\n"+long+"\n\n\n\nlast", 2000)

	require.Len(t, chunks, 4)
	assert.Equal(t, "first paragraph", chunks[0])
	assert.Len(t, chunks[1], 2000)
	assert.Len(t, chunks[2], 500)
	assert.Equal(t, "last", chunks[3])
}
