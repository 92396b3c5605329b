package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"LearningAssistant/internal/domain"
)

func TestSavePageRequiresConnection(t *testing.T) {
	t.Parallel()

	repo := NewPostgresRepository(nil)
	err := repo.SavePage(context.Background(), domain.StructuredSummary{SourceURL: "https://example.com"})
	require.Error(t, err)
}
