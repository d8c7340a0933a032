package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"story-server/internal/interfaces"
	"story-server/internal/models"
)

// Mock StoryRepository
type StoryRepository struct {
	mock.Mock
}

func (m *StoryRepository) Create(ctx context.Context, querier interfaces.DBTX, story *models.Story) error {
	args := m.Called(ctx, querier, story)
	return args.Error(0)
}

func (m *StoryRepository) GetByID(ctx context.Context, querier interfaces.DBTX, id uuid.UUID) (*models.Story, error) {
	args := m.Called(ctx, querier, id)
	story, _ := args.Get(0).(*models.Story)
	return story, args.Error(1)
}

func (m *StoryRepository) GetOwned(ctx context.Context, querier interfaces.DBTX, id, ownerID uuid.UUID) (*models.Story, error) {
	args := m.Called(ctx, querier, id, ownerID)
	story, _ := args.Get(0).(*models.Story)
	return story, args.Error(1)
}

func (m *StoryRepository) GetForUpdate(ctx context.Context, querier interfaces.DBTX, id uuid.UUID) (*models.Story, error) {
	args := m.Called(ctx, querier, id)
	story, _ := args.Get(0).(*models.Story)
	return story, args.Error(1)
}

func (m *StoryRepository) UpdateDraftContent(ctx context.Context, querier interfaces.DBTX, id, ownerID uuid.UUID, title, content string, wordCount int) (*models.Story, error) {
	args := m.Called(ctx, querier, id, ownerID, title, content, wordCount)
	story, _ := args.Get(0).(*models.Story)
	return story, args.Error(1)
}

func (m *StoryRepository) MarkPublished(ctx context.Context, querier interfaces.DBTX, id, ownerID uuid.UUID, minContentLen int) (*models.Story, error) {
	args := m.Called(ctx, querier, id, ownerID, minContentLen)
	story, _ := args.Get(0).(*models.Story)
	return story, args.Error(1)
}

func (m *StoryRepository) UpdatePublishedContent(ctx context.Context, querier interfaces.DBTX, id uuid.UUID, title, content string, wordCount int) error {
	args := m.Called(ctx, querier, id, title, content, wordCount)
	return args.Error(0)
}

func (m *StoryRepository) Archive(ctx context.Context, querier interfaces.DBTX, id, ownerID uuid.UUID) (*models.Story, error) {
	args := m.Called(ctx, querier, id, ownerID)
	story, _ := args.Get(0).(*models.Story)
	return story, args.Error(1)
}

func (m *StoryRepository) Delete(ctx context.Context, querier interfaces.DBTX, id, ownerID uuid.UUID) error {
	args := m.Called(ctx, querier, id, ownerID)
	return args.Error(0)
}

func (m *StoryRepository) FindShadowDraft(ctx context.Context, querier interfaces.DBTX, originalStoryID uuid.UUID) (*models.Story, error) {
	args := m.Called(ctx, querier, originalStoryID)
	story, _ := args.Get(0).(*models.Story)
	return story, args.Error(1)
}

func (m *StoryRepository) ListByOwner(ctx context.Context, querier interfaces.DBTX, ownerID uuid.UUID, status *models.StoryStatus, limit, offset int) ([]*models.Story, error) {
	args := m.Called(ctx, querier, ownerID, status, limit, offset)
	stories, _ := args.Get(0).([]*models.Story)
	return stories, args.Error(1)
}

func (m *StoryRepository) ListForSlugResolution(ctx context.Context, querier interfaces.DBTX, ownerID uuid.UUID, includeDrafts bool) ([]*models.Story, error) {
	args := m.Called(ctx, querier, ownerID, includeDrafts)
	stories, _ := args.Get(0).([]*models.Story)
	return stories, args.Error(1)
}

func (m *StoryRepository) ListRecentAuthors(ctx context.Context, querier interfaces.DBTX, limit int) ([]models.AuthorFeedEntry, error) {
	args := m.Called(ctx, querier, limit)
	entries, _ := args.Get(0).([]models.AuthorFeedEntry)
	return entries, args.Error(1)
}
