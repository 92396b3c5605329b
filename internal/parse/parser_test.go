package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LearningAssistant/internal/domain"
)

func testContent() domain.ExtractedContent {
	return domain.ExtractedContent{
		ResourceType: domain.ResourceBlog,
		SourceURL:    "https://example.com/post",
		Title:        "Example Post",
	}
}

func TestParseJSONResponse(t *testing.T) {
	t.Parallel()

	raw := `Here is the result:
{"summary": "Go's scheduler maps goroutines onto OS threads.", "takeaways": ["M:N scheduling", "work stealing"], "tags": ["go", "runtime", "go"]}`

	got, err := New(nil).Parse(domain.ModelResponse{RawText: raw}, testContent())
	require.NoError(t, err)
	assert.Equal(t, "Go's scheduler maps goroutines onto OS threads.", got.SummaryText)
	assert.Equal(t, []string{"M:N scheduling", "work stealing"}, got.KeyPoints)
	assert.Equal(t, []string{"go", "runtime"}, got.Tags, "tags are deduplicated")
	assert.Equal(t, "Example Post", got.Title)
	assert.Equal(t, "https://example.com/post", got.SourceURL)
}

func TestParseJSONTakeawaysAsString(t *testing.T) {
	t.Parallel()

	raw := `{"summary": "A short summary.", "takeaways": "- first point\n- second point"}`

	got, err := New(nil).Parse(domain.ModelResponse{RawText: raw}, testContent())
	require.NoError(t, err)
	assert.Equal(t, []string{"first point", "second point"}, got.KeyPoints)
}

func TestParseSectionResponse(t *testing.T) {
	t.Parallel()

	raw := "SUMMARY: ML overview\nKEY POINTS: - intro to ML"

	got, err := New(nil).Parse(domain.ModelResponse{RawText: raw}, testContent())
	require.NoError(t, err)
	assert.Equal(t, "ML overview", got.SummaryText)
	assert.Equal(t, []string{"intro to ML"}, got.KeyPoints)
	assert.Empty(t, got.Tags)
}

func TestParseSectionResponseWithTags(t *testing.T) {
	t.Parallel()

	raw := "SUMMARY: The survey maps the field.\nKEY POINTS:\n- taxonomy of methods\n- open problems\nTAGS: surveys, deep learning"

	got, err := New(nil).Parse(domain.ModelResponse{RawText: raw}, testContent())
	require.NoError(t, err)
	assert.Equal(t, "The survey maps the field.", got.SummaryText)
	assert.Equal(t, []string{"taxonomy of methods", "open problems"}, got.KeyPoints)
	assert.Equal(t, []string{"surveys", "deep learning"}, got.Tags)
}

func TestParseFallbackToWholeResponse(t *testing.T) {
	t.Parallel()

	raw := "The article explains how container networking works under the hood."

	got, err := New(nil).Parse(domain.ModelResponse{RawText: raw}, testContent())
	require.NoError(t, err)
	assert.Equal(t, raw, got.SummaryText)
	assert.Empty(t, got.KeyPoints)
	assert.Empty(t, got.Tags)
}

func TestParseEmptyResponse(t *testing.T) {
	t.Parallel()

	_, err := New(nil).Parse(domain.ModelResponse{RawText: "   \n "}, testContent())
	var parseErr *domain.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestParseBackendErrorEcho(t *testing.T) {
	t.Parallel()

	raw := `{"error": {"message": "model not found", "code": 404}}`

	_, err := New(nil).Parse(domain.ModelResponse{RawText: raw}, testContent())
	var parseErr *domain.ParseError
	require.ErrorAs(t, err, &parseErr)
}
