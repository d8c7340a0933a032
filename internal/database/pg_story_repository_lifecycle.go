package database

import (
	"context"
	"errors"
	"fmt"

	"story-server/internal/interfaces"
	"story-server/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// Обновляет только черновик владельца: условие на status исключает гонку
	// autosave с одновременной публикацией — после publish запрос не найдет строку.
	updateDraftContentQuery = `
		UPDATE stories s SET
			title = $3,
			content = $4,
			word_count = $5,
			updated_at = NOW()
		WHERE s.id = $1 AND s.owner_id = $2 AND s.status = 'draft'
		RETURNING ` + storyFields

	// published_at выставляется ровно один раз: COALESCE сохраняет значение,
	// оставшееся от прошлой публикации. Предикаты на title/content повторяют
	// сервисную валидацию: между проверкой снапшота и этим UPDATE параллельный
	// autosave мог сделать черновик невалидным, и тогда строка не найдется.
	markPublishedQuery = `
		UPDATE stories s SET
			status = 'published',
			published_at = COALESCE(published_at, NOW()),
			updated_at = NOW()
		WHERE s.id = $1 AND s.owner_id = $2 AND s.status = 'draft'
		  AND btrim(s.title) <> '' AND char_length(s.content) >= $3
		RETURNING ` + storyFields

	updatePublishedContentQuery = `
		UPDATE stories SET
			title = $2,
			content = $3,
			word_count = $4,
			updated_at = NOW()
		WHERE id = $1 AND status = 'published'
	`

	archiveStoryQuery = `
		UPDATE stories s SET
			status = 'archived',
			updated_at = NOW()
		WHERE s.id = $1 AND s.owner_id = $2 AND s.status = 'published'
		RETURNING ` + storyFields
)

// UpdateDraftContent обновляет содержимое черновика владельца.
func (r *pgStoryRepository) UpdateDraftContent(ctx context.Context, querier interfaces.DBTX, id, ownerID uuid.UUID, title, content string, wordCount int) (*models.Story, error) {
	logFields := []zap.Field{
		zap.String("storyID", id.String()),
		zap.String("ownerID", ownerID.String()),
	}
	r.logger.Debug("Updating draft content", logFields...)

	story, err := scanStory(querier.QueryRow(ctx, updateDraftContentQuery, id, ownerID, title, content, wordCount))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			r.logger.Warn("No owned draft to update", logFields...)
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to update draft content", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка обновления черновика %s: %w", id, err)
	}

	r.logger.Info("Draft content updated", logFields...)
	return story, nil
}

// MarkPublished переводит черновик владельца в статус published.
func (r *pgStoryRepository) MarkPublished(ctx context.Context, querier interfaces.DBTX, id, ownerID uuid.UUID, minContentLen int) (*models.Story, error) {
	logFields := []zap.Field{
		zap.String("storyID", id.String()),
		zap.String("ownerID", ownerID.String()),
	}
	r.logger.Debug("Marking story as published", logFields...)

	story, err := scanStory(querier.QueryRow(ctx, markPublishedQuery, id, ownerID, minContentLen))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			r.logger.Warn("No owned publishable draft", logFields...)
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to mark story as published", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка публикации истории %s: %w", id, err)
	}

	r.logger.Info("Story published", logFields...)
	return story, nil
}

// UpdatePublishedContent копирует содержимое на опубликованную историю.
// Если история уже не published (параллельный archive/delete), возвращает
// ErrConflict — молча воскрешать снятую историю нельзя.
func (r *pgStoryRepository) UpdatePublishedContent(ctx context.Context, querier interfaces.DBTX, id uuid.UUID, title, content string, wordCount int) error {
	logFields := []zap.Field{zap.String("storyID", id.String())}
	r.logger.Debug("Updating published story content", logFields...)

	commandTag, err := querier.Exec(ctx, updatePublishedContentQuery, id, title, content, wordCount)
	if err != nil {
		r.logger.Error("Failed to update published story content", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка обновления опубликованной истории %s: %w", id, err)
	}
	if commandTag.RowsAffected() == 0 {
		r.logger.Warn("Story is no longer published, refusing content update", logFields...)
		return models.ErrConflict
	}

	r.logger.Info("Published story content updated", logFields...)
	return nil
}

// Archive переводит опубликованную историю владельца в архив.
func (r *pgStoryRepository) Archive(ctx context.Context, querier interfaces.DBTX, id, ownerID uuid.UUID) (*models.Story, error) {
	logFields := []zap.Field{
		zap.String("storyID", id.String()),
		zap.String("ownerID", ownerID.String()),
	}
	r.logger.Debug("Archiving story", logFields...)

	story, err := scanStory(querier.QueryRow(ctx, archiveStoryQuery, id, ownerID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			r.logger.Warn("No owned published story to archive", logFields...)
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to archive story", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка архивации истории %s: %w", id, err)
	}

	r.logger.Info("Story archived", logFields...)
	return story, nil
}
