package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"LearningAssistant/internal/domain"
	"LearningAssistant/internal/ports"
)

// PostgresRepository is a knowledge-base collaborator backed by Postgres,
// used when no Notion integration is configured.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.KnowledgeBase = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SavePage upserts the summary keyed by its source URL.
func (r *PostgresRepository) SavePage(ctx context.Context, summary domain.StructuredSummary) error {
	if r.db == nil {
		return fmt.Errorf("postgres repository not connected")
	}

	insert := r.builder.
		Insert("knowledge_pages").
		Columns("source_url", "resource_type", "title", "summary", "key_points", "tags", "reminder_at").
		Values(
			summary.SourceURL,
			string(summary.ResourceType),
			summary.Title,
			summary.SummaryText,
			pq.StringArray(summary.KeyPoints),
			pq.StringArray(summary.Tags),
			summary.ReminderAt,
		).
		Suffix(`ON CONFLICT (source_url) DO UPDATE
            SET resource_type = EXCLUDED.resource_type,
                title = EXCLUDED.title,
                summary = EXCLUDED.summary,
                key_points = EXCLUDED.key_points,
                tags = EXCLUDED.tags,
                reminder_at = EXCLUDED.reminder_at,
                updated_at = NOW()`)

	if _, err := insert.RunWith(r.db).ExecContext(ctx); err != nil {
		return fmt.Errorf("upsert knowledge page: %w", err)
	}

	return nil
}
