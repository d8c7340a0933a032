package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"story-server/internal/interfaces"
	"story-server/internal/models"
	"story-server/internal/slug"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// UpdateDraftParams описывает частичное обновление черновика. nil-поле
// означает "оставить как есть".
type UpdateDraftParams struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// StoryService defines the use cases for authoring and reading stories.
type StoryService interface {
	CreateDraft(ctx context.Context, ownerID uuid.UUID, title, content string) (*models.Story, error)
	SaveDraft(ctx context.Context, storyID, ownerID uuid.UUID, params UpdateDraftParams) (*models.Story, error)
	Publish(ctx context.Context, storyID, ownerID uuid.UUID) (*models.Story, error)
	EditPublished(ctx context.Context, storyID, ownerID uuid.UUID) (*models.Story, error)
	Republish(ctx context.Context, draftID, ownerID uuid.UUID) (*models.Story, error)
	Archive(ctx context.Context, storyID, ownerID uuid.UUID) (*models.Story, error)
	Delete(ctx context.Context, storyID, ownerID uuid.UUID) error
	GetStory(ctx context.Context, storyID uuid.UUID, callerID *uuid.UUID) (*models.Story, error)
	ListMyStories(ctx context.Context, ownerID uuid.UUID, status *models.StoryStatus, limit, offset int) ([]*models.Story, error)
	ResolveSlug(ctx context.Context, username, slugToken string, callerID *uuid.UUID) (*models.Story, error)
}

type storyServiceImpl struct {
	storyRepo      interfaces.StoryRepository
	userRepo       interfaces.UserRepository
	pool           *pgxpool.Pool
	eventPublisher interfaces.StoryEventPublisher
	logger         *zap.Logger
	minContentLen  int
}

// NewStoryService creates a new instance of StoryService.
// minContentLen — минимальная длина контента (в рунах) для публикации.
func NewStoryService(
	storyRepo interfaces.StoryRepository,
	userRepo interfaces.UserRepository,
	pool *pgxpool.Pool,
	eventPublisher interfaces.StoryEventPublisher,
	logger *zap.Logger,
	minContentLen int,
) StoryService {
	return &storyServiceImpl{
		storyRepo:      storyRepo,
		userRepo:       userRepo,
		pool:           pool,
		eventPublisher: eventPublisher,
		logger:         logger.Named("StoryService"),
		minContentLen:  minContentLen,
	}
}

// CreateDraft создает новый черновик. Заголовок и контент могут быть пустыми:
// черновик существует как сохраняемая заготовка.
func (s *storyServiceImpl) CreateDraft(ctx context.Context, ownerID uuid.UUID, title, content string) (*models.Story, error) {
	logFields := []zap.Field{zap.String("ownerID", ownerID.String())}
	s.logger.Info("Creating draft", logFields...)

	story := &models.Story{
		OwnerID:   ownerID,
		Title:     title,
		Content:   content,
		WordCount: models.CountWords(content),
		Status:    models.StatusDraft,
	}
	if err := s.storyRepo.Create(ctx, s.pool, story); err != nil {
		s.logger.Error("Failed to create draft", append(logFields, zap.Error(err))...)
		return nil, models.ErrInternalServer
	}

	s.logger.Info("Draft created", append(logFields, zap.String("storyID", story.ID.String()))...)
	return story, nil
}

// SaveDraft обновляет переданные поля черновика, пересчитывает количество слов
// и поднимает updated_at. Идемпотентен для одинакового payload.
func (s *storyServiceImpl) SaveDraft(ctx context.Context, storyID, ownerID uuid.UUID, params UpdateDraftParams) (*models.Story, error) {
	logFields := []zap.Field{
		zap.String("storyID", storyID.String()),
		zap.String("ownerID", ownerID.String()),
	}
	s.logger.Debug("Saving draft", logFields...)

	current, err := s.storyRepo.GetOwned(ctx, s.pool, storyID, ownerID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("Failed to load draft for save", append(logFields, zap.Error(err))...)
		return nil, models.ErrInternalServer
	}
	if current.Status != models.StatusDraft {
		// Для вызывающего история в другом статусе неотличима от отсутствия
		// черновика с таким ID.
		s.logger.Warn("Save attempted on non-draft story",
			append(logFields, zap.String("status", string(current.Status)))...)
		return nil, models.ErrNotFound
	}

	title := current.Title
	if params.Title != nil {
		title = *params.Title
	}
	content := current.Content
	if params.Content != nil {
		content = *params.Content
	}

	updated, err := s.storyRepo.UpdateDraftContent(ctx, s.pool, storyID, ownerID, title, content, models.CountWords(content))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// Черновик исчез или сменил статус между чтением и записью.
			return nil, models.ErrNotFound
		}
		s.logger.Error("Failed to save draft", append(logFields, zap.Error(err))...)
		return nil, models.ErrInternalServer
	}
	return updated, nil
}

// GetStory возвращает историю: опубликованные видны всем, остальные только
// владельцу. Для чужих черновиков и архивов неотличимо от отсутствия.
func (s *storyServiceImpl) GetStory(ctx context.Context, storyID uuid.UUID, callerID *uuid.UUID) (*models.Story, error) {
	story, err := s.storyRepo.GetByID(ctx, s.pool, storyID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("Failed to get story", zap.String("storyID", storyID.String()), zap.Error(err))
		return nil, models.ErrInternalServer
	}
	if story.Status == models.StatusPublished {
		return story, nil
	}
	if callerID != nil && *callerID == story.OwnerID {
		return story, nil
	}
	return nil, models.ErrNotFound
}

// ListMyStories возвращает истории владельца с опциональным фильтром по
// статусу, свежие сверху.
func (s *storyServiceImpl) ListMyStories(ctx context.Context, ownerID uuid.UUID, status *models.StoryStatus, limit, offset int) ([]*models.Story, error) {
	SanitizeLimit(&limit, defaultListLimit, maxListLimit)
	if offset < 0 {
		offset = 0
	}
	if status != nil && !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status '%s'", models.ErrValidation, *status)
	}

	stories, err := s.storyRepo.ListByOwner(ctx, s.pool, ownerID, status, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list stories", zap.String("ownerID", ownerID.String()), zap.Error(err))
		return nil, models.ErrInternalServer
	}
	return stories, nil
}

// ResolveSlug находит историю автора по slug заголовка. Черновики участвуют в
// поиске только когда вызывающий и есть автор. При коллизии слагов побеждает
// последняя обновленная история.
func (s *storyServiceImpl) ResolveSlug(ctx context.Context, username, slugToken string, callerID *uuid.UUID) (*models.Story, error) {
	logFields := []zap.Field{zap.String("username", username), zap.String("slug", slugToken)}
	s.logger.Debug("Resolving slug", logFields...)

	if slugToken == "" {
		return nil, models.ErrNotFound
	}

	owner, err := s.userRepo.GetByUsername(ctx, s.pool, username)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("Failed to look up author for slug", append(logFields, zap.Error(err))...)
		return nil, models.ErrInternalServer
	}

	includeDrafts := callerID != nil && *callerID == owner.ID
	stories, err := s.storyRepo.ListForSlugResolution(ctx, s.pool, owner.ID, includeDrafts)
	if err != nil {
		s.logger.Error("Failed to list stories for slug resolution", append(logFields, zap.Error(err))...)
		return nil, models.ErrInternalServer
	}

	// Список отсортирован по updated_at DESC, поэтому первое совпадение и
	// есть последняя обновленная история с этим слагом.
	for _, story := range stories {
		if slug.Make(story.Title) == slugToken {
			return story, nil
		}
	}

	s.logger.Debug("Slug did not match any story", logFields...)
	return nil, models.ErrNotFound
}
