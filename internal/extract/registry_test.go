package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LearningAssistant/internal/domain"
)

type noopExtractor struct{ name string }

func (n noopExtractor) Extract(context.Context, string) (domain.ExtractedContent, error) {
	return domain.ExtractedContent{Title: n.name}, nil
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register(domain.ResourceYouTube, noopExtractor{name: "video"})
	registry.Register(domain.ResourcePaper, noopExtractor{name: "paper"})
	registry.Register(domain.ResourceSurveyPaper, noopExtractor{name: "paper"})

	extractor, err := registry.Resolve(domain.ResourceYouTube)
	require.NoError(t, err)
	content, err := extractor.Extract(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "video", content.Title)
}

func TestRegistryResolveUnknownType(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()

	_, err := registry.Resolve(domain.ResourceBlog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blog")
}
