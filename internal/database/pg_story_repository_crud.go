package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"story-server/internal/interfaces"
	"story-server/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const (
	createStoryQuery = `
		INSERT INTO stories (
			id, owner_id, title, content, word_count, status,
			original_story_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	getStoryByIDQuery = `SELECT ` + storyFields + ` FROM stories s WHERE s.id = $1`

	getOwnedStoryQuery = `SELECT ` + storyFields + ` FROM stories s WHERE s.id = $1 AND s.owner_id = $2`

	getStoryForUpdateQuery = `SELECT ` + storyFields + ` FROM stories s WHERE s.id = $1 FOR UPDATE`

	deleteStoryQuery = `DELETE FROM stories WHERE id = $1 AND owner_id = $2`

	findShadowDraftQuery = `
		SELECT ` + storyFields + ` FROM stories s
		WHERE s.original_story_id = $1 AND s.status = 'draft'
		ORDER BY s.updated_at DESC
		LIMIT 1
	`
)

// Create создает новую запись истории.
func (r *pgStoryRepository) Create(ctx context.Context, querier interfaces.DBTX, story *models.Story) error {
	if story.ID == uuid.Nil {
		story.ID = uuid.New()
	}
	now := time.Now().UTC()
	story.CreatedAt = now
	story.UpdatedAt = now

	logFields := []zap.Field{
		zap.String("storyID", story.ID.String()),
		zap.String("ownerID", story.OwnerID.String()),
		zap.String("status", string(story.Status)),
	}
	r.logger.Debug("Creating story", logFields...)

	_, err := querier.Exec(ctx, createStoryQuery,
		story.ID,
		story.OwnerID,
		story.Title,
		story.Content,
		story.WordCount,
		story.Status,
		story.OriginalStoryID,
		story.CreatedAt,
		story.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Нарушение частичного уникального индекса на original_story_id:
			// теневой черновик для этой истории уже существует.
			r.logger.Warn("Duplicate shadow draft insert", logFields...)
			return models.ErrConflict
		}
		r.logger.Error("Failed to create story", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка создания истории: %w", err)
	}

	r.logger.Info("Story created", logFields...)
	return nil
}

// GetByID получает историю по ID без проверки владельца.
func (r *pgStoryRepository) GetByID(ctx context.Context, querier interfaces.DBTX, id uuid.UUID) (*models.Story, error) {
	logFields := []zap.Field{zap.String("storyID", id.String())}
	r.logger.Debug("Getting story by ID", logFields...)

	story, err := scanStory(querier.QueryRow(ctx, getStoryByIDQuery, id))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			r.logger.Warn("Story not found by ID", logFields...)
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get story by ID", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка получения истории %s: %w", id, err)
	}
	return story, nil
}

// GetOwned получает историю по ID с проверкой владельца.
// Чужая история неотличима от несуществующей.
func (r *pgStoryRepository) GetOwned(ctx context.Context, querier interfaces.DBTX, id, ownerID uuid.UUID) (*models.Story, error) {
	logFields := []zap.Field{
		zap.String("storyID", id.String()),
		zap.String("ownerID", ownerID.String()),
	}
	r.logger.Debug("Getting owned story", logFields...)

	story, err := scanStory(querier.QueryRow(ctx, getOwnedStoryQuery, id, ownerID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			r.logger.Warn("Owned story not found", logFields...)
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get owned story", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка получения истории %s: %w", id, err)
	}
	return story, nil
}

// GetForUpdate читает историю с блокировкой строки. Вызывать только внутри транзакции.
func (r *pgStoryRepository) GetForUpdate(ctx context.Context, querier interfaces.DBTX, id uuid.UUID) (*models.Story, error) {
	logFields := []zap.Field{zap.String("storyID", id.String())}
	r.logger.Debug("Locking story row", logFields...)

	story, err := scanStory(querier.QueryRow(ctx, getStoryForUpdateQuery, id))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to lock story row", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка блокировки истории %s: %w", id, err)
	}
	return story, nil
}

// Delete удаляет историю владельца. Лайки удаляются каскадом по FK.
func (r *pgStoryRepository) Delete(ctx context.Context, querier interfaces.DBTX, id, ownerID uuid.UUID) error {
	logFields := []zap.Field{
		zap.String("storyID", id.String()),
		zap.String("ownerID", ownerID.String()),
	}
	r.logger.Debug("Deleting story", logFields...)

	commandTag, err := querier.Exec(ctx, deleteStoryQuery, id, ownerID)
	if err != nil {
		r.logger.Error("Failed to delete story", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка удаления истории %s: %w", id, err)
	}
	if commandTag.RowsAffected() == 0 {
		r.logger.Warn("Story not found for deletion", logFields...)
		return models.ErrNotFound
	}

	r.logger.Info("Story deleted", logFields...)
	return nil
}

// FindShadowDraft находит теневой черновик опубликованной истории.
func (r *pgStoryRepository) FindShadowDraft(ctx context.Context, querier interfaces.DBTX, originalStoryID uuid.UUID) (*models.Story, error) {
	logFields := []zap.Field{zap.String("originalStoryID", originalStoryID.String())}
	r.logger.Debug("Looking up shadow draft", logFields...)

	story, err := scanStory(querier.QueryRow(ctx, findShadowDraftQuery, originalStoryID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to look up shadow draft", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка поиска теневого черновика для %s: %w", originalStoryID, err)
	}
	return story, nil
}
