package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"story-server/internal/interfaces"
	"story-server/internal/models"
)

// Publish переводит черновик в published. Валидация: непустой заголовок и
// контент не короче minContentLen рун. Теневые черновики публикуются только
// через Republish.
func (s *storyServiceImpl) Publish(ctx context.Context, storyID, ownerID uuid.UUID) (*models.Story, error) {
	logFields := []zap.Field{
		zap.String("storyID", storyID.String()),
		zap.String("ownerID", ownerID.String()),
	}
	s.logger.Info("Publishing story", logFields...)

	draft, err := s.storyRepo.GetOwned(ctx, s.pool, storyID, ownerID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("Failed to load draft for publish", append(logFields, zap.Error(err))...)
		return nil, models.ErrInternalServer
	}
	if draft.Status != models.StatusDraft {
		s.logger.Warn("Publish attempted on non-draft story",
			append(logFields, zap.String("status", string(draft.Status)))...)
		return nil, models.ErrNotFound
	}
	if draft.IsShadowDraft() {
		return nil, fmt.Errorf("%w: edit drafts are applied via republish", models.ErrValidation)
	}
	if strings.TrimSpace(draft.Title) == "" {
		return nil, fmt.Errorf("%w: title must not be empty", models.ErrValidation)
	}
	if utf8.RuneCountInString(draft.Content) < s.minContentLen {
		return nil, fmt.Errorf("%w: content must be at least %d characters", models.ErrValidation, s.minContentLen)
	}

	// Снапшот выше валиден, но параллельный autosave мог изменить черновик.
	// Запрос публикации повторяет проверки в своем WHERE, так что невалидный
	// или уже не-draft вариант строку не найдет.
	published, err := s.storyRepo.MarkPublished(ctx, s.pool, storyID, ownerID, s.minContentLen)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, s.classifyPublishMiss(ctx, storyID, ownerID, logFields)
		}
		s.logger.Error("Failed to publish story", append(logFields, zap.Error(err))...)
		return nil, models.ErrInternalServer
	}

	s.logger.Info("Story published", logFields...)
	s.emitEvent(models.StoryEventPublished, published)
	return published, nil
}

// classifyPublishMiss разбирает, почему запрос публикации не нашел строку:
// черновик либо стал невалидным из-за параллельного сохранения, либо исчез
// или сменил статус.
func (s *storyServiceImpl) classifyPublishMiss(ctx context.Context, storyID, ownerID uuid.UUID, logFields []zap.Field) error {
	current, err := s.storyRepo.GetOwned(ctx, s.pool, storyID, ownerID)
	switch {
	case err == nil && current.Status == models.StatusDraft:
		s.logger.Warn("Draft was invalidated by a concurrent save during publish", logFields...)
		return fmt.Errorf("%w: draft no longer satisfies publish requirements", models.ErrValidation)
	case err == nil, errors.Is(err, models.ErrNotFound):
		return models.ErrNotFound
	default:
		s.logger.Error("Failed to re-read draft after publish miss", append(logFields, zap.Error(err))...)
		return models.ErrInternalServer
	}
}

// EditPublished возвращает теневой черновик опубликованной истории, создавая
// его при необходимости. Повторные вызовы возвращают тот же черновик.
func (s *storyServiceImpl) EditPublished(ctx context.Context, storyID, ownerID uuid.UUID) (*models.Story, error) {
	logFields := []zap.Field{
		zap.String("storyID", storyID.String()),
		zap.String("ownerID", ownerID.String()),
	}
	s.logger.Info("Opening published story for editing", logFields...)

	original, err := s.storyRepo.GetOwned(ctx, s.pool, storyID, ownerID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("Failed to load story for editing", append(logFields, zap.Error(err))...)
		return nil, models.ErrInternalServer
	}
	if original.Status != models.StatusPublished {
		return nil, models.ErrNotFound
	}

	if shadow, err := s.storyRepo.FindShadowDraft(ctx, s.pool, storyID); err == nil {
		s.logger.Debug("Reusing existing shadow draft",
			append(logFields, zap.String("draftID", shadow.ID.String()))...)
		return shadow, nil
	} else if !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("Failed to look up shadow draft", append(logFields, zap.Error(err))...)
		return nil, models.ErrInternalServer
	}

	shadow := &models.Story{
		OwnerID:         ownerID,
		Title:           original.Title,
		Content:         original.Content,
		WordCount:       original.WordCount,
		Status:          models.StatusDraft,
		OriginalStoryID: &storyID,
	}
	err = s.storyRepo.Create(ctx, s.pool, shadow)
	if err == nil {
		s.logger.Info("Shadow draft created",
			append(logFields, zap.String("draftID", shadow.ID.String()))...)
		return shadow, nil
	}
	if errors.Is(err, models.ErrConflict) {
		// Параллельный вызов успел создать теневик первым, отдаем его.
		existing, findErr := s.storyRepo.FindShadowDraft(ctx, s.pool, storyID)
		if findErr == nil {
			return existing, nil
		}
		s.logger.Error("Shadow draft vanished after duplicate insert",
			append(logFields, zap.Error(findErr))...)
		return nil, models.ErrInternalServer
	}
	s.logger.Error("Failed to create shadow draft", append(logFields, zap.Error(err))...)
	return nil, models.ErrInternalServer
}

// Republish атомарно применяет теневой черновик к оригиналу: копирует
// заголовок и контент, оставляя published_at нетронутым, и удаляет черновик.
// Если оригинал уже не published, операция завершается ErrConflict, чтобы
// не воскресить снятую с публикации историю.
func (s *storyServiceImpl) Republish(ctx context.Context, draftID, ownerID uuid.UUID) (*models.Story, error) {
	logFields := []zap.Field{
		zap.String("draftID", draftID.String()),
		zap.String("ownerID", ownerID.String()),
	}
	s.logger.Info("Republishing story", logFields...)

	var updated *models.Story
	err := WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		draft, err := s.storyRepo.GetOwned(ctx, tx, draftID, ownerID)
		if err != nil {
			return err
		}
		if draft.Status != models.StatusDraft || draft.OriginalStoryID == nil {
			return models.ErrNotShadowDraft
		}

		original, err := s.storyRepo.GetForUpdate(ctx, tx, *draft.OriginalStoryID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				// Оригинал удален параллельно.
				return models.ErrConflict
			}
			return err
		}
		if original.OwnerID != ownerID {
			return models.ErrNotFound
		}
		if original.Status != models.StatusPublished {
			return models.ErrConflict
		}

		wordCount := models.CountWords(draft.Content)
		if err := s.storyRepo.UpdatePublishedContent(ctx, tx, original.ID, draft.Title, draft.Content, wordCount); err != nil {
			return err
		}
		if err := s.storyRepo.Delete(ctx, tx, draftID, ownerID); err != nil {
			return err
		}

		now := time.Now().UTC()
		original.Title = draft.Title
		original.Content = draft.Content
		original.WordCount = wordCount
		original.UpdatedAt = now
		updated = original
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound),
			errors.Is(err, models.ErrConflict),
			errors.Is(err, models.ErrNotShadowDraft):
			s.logger.Warn("Republish rejected", append(logFields, zap.Error(err))...)
			return nil, err
		default:
			s.logger.Error("Republish failed", append(logFields, zap.Error(err))...)
			return nil, models.ErrInternalServer
		}
	}

	s.logger.Info("Story republished",
		append(logFields, zap.String("storyID", updated.ID.String()))...)
	s.emitEvent(models.StoryEventRepublished, updated)
	return updated, nil
}

// Archive переводит опубликованную историю в archived. Архив исключается из
// публичных листингов и из like-операций, но остается видим владельцу.
func (s *storyServiceImpl) Archive(ctx context.Context, storyID, ownerID uuid.UUID) (*models.Story, error) {
	logFields := []zap.Field{
		zap.String("storyID", storyID.String()),
		zap.String("ownerID", ownerID.String()),
	}
	s.logger.Info("Archiving story", logFields...)

	archived, err := s.storyRepo.Archive(ctx, s.pool, storyID, ownerID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// Нет опубликованной истории владельца с таким ID: отсутствие и
			// неподходящий статус наружу неразличимы.
			s.logger.Warn("No owned published story to archive", logFields...)
			return nil, models.ErrNotFound
		}
		s.logger.Error("Failed to archive story", append(logFields, zap.Error(err))...)
		return nil, models.ErrInternalServer
	}

	s.logger.Info("Story archived", logFields...)
	s.emitEvent(models.StoryEventArchived, archived)
	return archived, nil
}

// Delete удаляет историю владельца из любого статуса. Лайки уходят каскадом,
// привязанный теневой черновик удаляется той же транзакцией.
func (s *storyServiceImpl) Delete(ctx context.Context, storyID, ownerID uuid.UUID) error {
	logFields := []zap.Field{
		zap.String("storyID", storyID.String()),
		zap.String("ownerID", ownerID.String()),
	}
	s.logger.Info("Deleting story", logFields...)

	var deleted *models.Story
	err := WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		story, err := s.storyRepo.GetOwned(ctx, tx, storyID, ownerID)
		if err != nil {
			return err
		}
		deleted = story

		shadow, err := s.storyRepo.FindShadowDraft(ctx, tx, storyID)
		if err == nil {
			if err := s.storyRepo.Delete(ctx, tx, shadow.ID, ownerID); err != nil && !errors.Is(err, models.ErrNotFound) {
				return err
			}
		} else if !errors.Is(err, models.ErrNotFound) {
			return err
		}

		return s.storyRepo.Delete(ctx, tx, storyID, ownerID)
	})
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("Failed to delete story", append(logFields, zap.Error(err))...)
		return models.ErrInternalServer
	}

	s.logger.Info("Story deleted", logFields...)
	s.emitEvent(models.StoryEventDeleted, deleted)
	return nil
}

// emitEvent отправляет событие жизненного цикла после коммита. Доставка
// best-effort: ошибки логируются, но не влияют на результат операции.
func (s *storyServiceImpl) emitEvent(eventType models.StoryEventType, story *models.Story) {
	if s.eventPublisher == nil {
		return
	}
	payload := models.StoryEventPayload{
		EventID:    uuid.NewString(),
		Type:       eventType,
		StoryID:    story.ID.String(),
		OwnerID:    story.OwnerID.String(),
		Title:      story.Title,
		OccurredAt: time.Now().UTC(),
	}
	go func(pub interfaces.StoryEventPublisher) {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := pub.PublishStoryEvent(ctx, payload); err != nil {
			s.logger.Error("Failed to publish story event",
				zap.String("eventID", payload.EventID),
				zap.String("type", string(payload.Type)),
				zap.Error(err))
		}
	}(s.eventPublisher)
}
