package database

import (
	"context"
	"fmt"

	"story-server/internal/interfaces"
	"story-server/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	listByOwnerQuery = `
		SELECT ` + storyFields + ` FROM stories s
		WHERE s.owner_id = $1 AND ($2::text IS NULL OR s.status = $2)
		ORDER BY s.updated_at DESC
		LIMIT $3 OFFSET $4
	`

	listForSlugQuery = `
		SELECT ` + storyFields + ` FROM stories s
		WHERE s.owner_id = $1
		  AND (s.status = 'published' OR ($2 AND s.status = 'draft'))
		ORDER BY s.updated_at DESC
	`

	// По одной (последней опубликованной) истории на автора, лента
	// отсортирована по времени этой публикации.
	listRecentAuthorsQuery = `
		SELECT u.username, s.id AS story_id, s.title, s.word_count, s.published_at
		FROM (
			SELECT DISTINCT ON (owner_id)
				owner_id, id, title, word_count, published_at
			FROM stories
			WHERE status = 'published'
			ORDER BY owner_id, published_at DESC
		) s
		JOIN users u ON u.id = s.owner_id
		ORDER BY s.published_at DESC
		LIMIT $1
	`
)

// ListByOwner возвращает истории владельца, опционально по статусу.
func (r *pgStoryRepository) ListByOwner(ctx context.Context, querier interfaces.DBTX, ownerID uuid.UUID, status *models.StoryStatus, limit, offset int) ([]*models.Story, error) {
	logFields := []zap.Field{
		zap.String("ownerID", ownerID.String()),
		zap.Int("limit", limit),
		zap.Int("offset", offset),
	}
	r.logger.Debug("Listing stories by owner", logFields...)

	var statusFilter *string
	if status != nil {
		v := string(*status)
		statusFilter = &v
	}

	rows, err := querier.Query(ctx, listByOwnerQuery, ownerID, statusFilter, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list stories by owner", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка списка историй владельца %s: %w", ownerID, err)
	}

	stories, err := scanStories(rows)
	if err != nil {
		r.logger.Error("Failed to scan owner stories", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка сканирования историй владельца %s: %w", ownerID, err)
	}
	return stories, nil
}

// ListForSlugResolution возвращает кандидатов для сопоставления слага.
func (r *pgStoryRepository) ListForSlugResolution(ctx context.Context, querier interfaces.DBTX, ownerID uuid.UUID, includeDrafts bool) ([]*models.Story, error) {
	logFields := []zap.Field{
		zap.String("ownerID", ownerID.String()),
		zap.Bool("includeDrafts", includeDrafts),
	}
	r.logger.Debug("Listing slug candidates", logFields...)

	rows, err := querier.Query(ctx, listForSlugQuery, ownerID, includeDrafts)
	if err != nil {
		r.logger.Error("Failed to list slug candidates", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка списка кандидатов слага для %s: %w", ownerID, err)
	}

	stories, err := scanStories(rows)
	if err != nil {
		r.logger.Error("Failed to scan slug candidates", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка сканирования кандидатов слага для %s: %w", ownerID, err)
	}
	return stories, nil
}

// ListRecentAuthors возвращает ленту недавних авторов.
func (r *pgStoryRepository) ListRecentAuthors(ctx context.Context, querier interfaces.DBTX, limit int) ([]models.AuthorFeedEntry, error) {
	logFields := []zap.Field{zap.Int("limit", limit)}
	r.logger.Debug("Listing recent authors", logFields...)

	var entries []models.AuthorFeedEntry
	if err := pgxscan.Select(ctx, querier, &entries, listRecentAuthorsQuery, limit); err != nil {
		r.logger.Error("Failed to list recent authors", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка списка недавних авторов: %w", err)
	}

	r.logger.Debug("Recent authors listed", append(logFields, zap.Int("count", len(entries)))...)
	return entries, nil
}
