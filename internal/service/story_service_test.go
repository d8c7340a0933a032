package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"story-server/internal/interfaces/mocks"
	"story-server/internal/models"
)

const testMinContentLen = 100

func newTestStoryService(storyRepo *mocks.StoryRepository, userRepo *mocks.UserRepository) StoryService {
	return NewStoryService(storyRepo, userRepo, nil, nil, zap.NewNop(), testMinContentLen)
}

func longContent() string {
	return strings.Repeat("я", testMinContentLen)
}

func TestCreateDraft_Success(t *testing.T) {
	storyRepo := new(mocks.StoryRepository)
	svc := newTestStoryService(storyRepo, nil)
	ownerID := uuid.New()

	storyRepo.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(s *models.Story) bool {
		return s.OwnerID == ownerID &&
			s.Status == models.StatusDraft &&
			s.Title == "Untitled" &&
			s.WordCount == 2 &&
			s.OriginalStoryID == nil
	})).Return(nil)

	story, err := svc.CreateDraft(context.Background(), ownerID, "Untitled", "two words")
	require.NoError(t, err)
	require.NotNil(t, story)
	assert.Equal(t, models.StatusDraft, story.Status)
	storyRepo.AssertExpectations(t)
}

func TestCreateDraft_EmptyPlaceholder(t *testing.T) {
	storyRepo := new(mocks.StoryRepository)
	svc := newTestStoryService(storyRepo, nil)

	storyRepo.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(s *models.Story) bool {
		return s.Title == "" && s.Content == "" && s.WordCount == 0
	})).Return(nil)

	story, err := svc.CreateDraft(context.Background(), uuid.New(), "", "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, story.Status)
}

func TestSaveDraft_MergesPartialFields(t *testing.T) {
	storyRepo := new(mocks.StoryRepository)
	svc := newTestStoryService(storyRepo, nil)
	ownerID := uuid.New()
	storyID := uuid.New()

	current := &models.Story{
		ID:      storyID,
		OwnerID: ownerID,
		Title:   "Old Title",
		Content: "old content here",
		Status:  models.StatusDraft,
	}
	newTitle := "New Title"

	storyRepo.On("GetOwned", mock.Anything, mock.Anything, storyID, ownerID).Return(current, nil)
	// Контент не передан, должен сохраниться старый
	storyRepo.On("UpdateDraftContent", mock.Anything, mock.Anything, storyID, ownerID,
		"New Title", "old content here", 3).
		Return(&models.Story{ID: storyID, Title: newTitle, Status: models.StatusDraft}, nil)

	updated, err := svc.SaveDraft(context.Background(), storyID, ownerID, UpdateDraftParams{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Title)
	storyRepo.AssertExpectations(t)
}

func TestSaveDraft_NotFound(t *testing.T) {
	storyRepo := new(mocks.StoryRepository)
	svc := newTestStoryService(storyRepo, nil)

	storyRepo.On("GetOwned", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, models.ErrNotFound)

	_, err := svc.SaveDraft(context.Background(), uuid.New(), uuid.New(), UpdateDraftParams{})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSaveDraft_PublishedStoryNotFound(t *testing.T) {
	storyRepo := new(mocks.StoryRepository)
	svc := newTestStoryService(storyRepo, nil)
	ownerID := uuid.New()
	storyID := uuid.New()

	// История не в статусе draft неотличима от отсутствующей
	storyRepo.On("GetOwned", mock.Anything, mock.Anything, storyID, ownerID).
		Return(&models.Story{ID: storyID, OwnerID: ownerID, Status: models.StatusPublished}, nil)

	_, err := svc.SaveDraft(context.Background(), storyID, ownerID, UpdateDraftParams{})
	assert.ErrorIs(t, err, models.ErrNotFound)
	storyRepo.AssertNotCalled(t, "UpdateDraftContent",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPublish_Success(t *testing.T) {
	storyRepo := new(mocks.StoryRepository)
	svc := newTestStoryService(storyRepo, nil)
	ownerID := uuid.New()
	storyID := uuid.New()

	draft := &models.Story{
		ID:      storyID,
		OwnerID: ownerID,
		Title:   "Ready",
		Content: longContent(),
		Status:  models.StatusDraft,
	}
	published := &models.Story{ID: storyID, OwnerID: ownerID, Title: "Ready", Status: models.StatusPublished}

	storyRepo.On("GetOwned", mock.Anything, mock.Anything, storyID, ownerID).Return(draft, nil)
	storyRepo.On("MarkPublished", mock.Anything, mock.Anything, storyID, ownerID, testMinContentLen).Return(published, nil)

	story, err := svc.Publish(context.Background(), storyID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, story.Status)
	storyRepo.AssertExpectations(t)
}

func TestPublish_EmptyTitleFailsValidation(t *testing.T) {
	storyRepo := new(mocks.StoryRepository)
	svc := newTestStoryService(storyRepo, nil)
	ownerID := uuid.New()
	storyID := uuid.New()

	storyRepo.On("GetOwned", mock.Anything, mock.Anything, storyID, ownerID).
		Return(&models.Story{ID: storyID, OwnerID: ownerID, Title: "   ", Content: longContent(), Status: models.StatusDraft}, nil)

	_, err := svc.Publish(context.Background(), storyID, ownerID)
	assert.ErrorIs(t, err, models.ErrValidation)
	storyRepo.AssertNotCalled(t, "MarkPublished",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPublish_ShortContentFailsValidation(t *testing.T) {
	storyRepo := new(mocks.StoryRepository)
	svc := newTestStoryService(storyRepo, nil)
	ownerID := uuid.New()
	storyID := uuid.New()

	// 99 рун, на одну меньше порога
	content := strings.Repeat("я", testMinContentLen-1)
	storyRepo.On("GetOwned", mock.Anything, mock.Anything, storyID, ownerID).
		Return(&models.Story{ID: storyID, OwnerID: ownerID, Title: "Ok", Content: content, Status: models.StatusDraft}, nil)

	_, err := svc.Publish(context.Background(), storyID, ownerID)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestPublish_ShadowDraftRejected(t *testing.T) {
	storyRepo := new(mocks.StoryRepository)
	svc := newTestStoryService(storyRepo, nil)
	ownerID := uuid.New()
	storyID := uuid.New()
	originalID := uuid.New()

	storyRepo.On("GetOwned", mock.Anything, mock.Anything, storyID, ownerID).
		Return(&models.Story{
			ID: storyID, OwnerID: ownerID, Title: "Ok", Content: longContent(),
			Status: models.StatusDraft, OriginalStoryID: &originalID,
		}, nil)

	_, err := svc.Publish(context.Background(), storyID, ownerID)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestPublish_AlreadyPublishedNotFound(t *testing.T) {
	storyRepo := new(mocks.StoryRepository)
	svc := newTestStoryService(storyRepo, nil)
	ownerID := uuid.New()
	storyID := uuid.New()

	// Публиковать можно только черновик; остальные статусы наружу выглядят
	// как отсутствие публикуемого черновика
	storyRepo.On("GetOwned", mock.Anything, mock.Anything, storyID, ownerID).
		Return(&models.Story{ID: storyID, OwnerID: ownerID, Status: models.StatusPublished}, nil)

	_, err := svc.Publish(context.Background(), storyID, ownerID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPublish_ConcurrentSaveInvalidatesDraft(t *testing.T) {
	storyRepo := new(mocks.StoryRepository)
	svc := newTestStoryService(storyRepo, nil)
	ownerID := uuid.New()
	storyID := uuid.New()

	valid := &models.Story{
		ID:      storyID,
		OwnerID: ownerID,
		Title:   "Ready",
		Content: longContent(),
		Status:  models.StatusDraft,
	}
	// Параллельный autosave опустошил черновик между валидацией снапшота и
	// записью: предикаты markPublishedQuery не находят строку
	emptied := &models.Story{ID: storyID, OwnerID: ownerID, Title: "", Content: "", Status: models.StatusDraft}

	storyRepo.On("GetOwned", mock.Anything, mock.Anything, storyID, ownerID).Return(valid, nil).Once()
	storyRepo.On("MarkPublished", mock.Anything, mock.Anything, storyID, ownerID, testMinContentLen).
		Return(nil, models.ErrNotFound)
	storyRepo.On("GetOwned", mock.Anything, mock.Anything, storyID, ownerID).Return(emptied, nil).Once()

	story, err := svc.Publish(context.Background(), storyID, ownerID)
	assert.Nil(t, story, "Invalidated draft must never come back published")
	assert.ErrorIs(t, err, models.ErrValidation)
	storyRepo.AssertExpectations(t)
}

func TestPublish_DraftVanishedDuringPublish(t *testing.T) {
	storyRepo := new(mocks.StoryRepository)
	svc := newTestStoryService(storyRepo, nil)
	ownerID := uuid.New()
	storyID := uuid.New()

	valid := &models.Story{
		ID:      storyID,
		OwnerID: ownerID,
		Title:   "Ready",
		Content: longContent(),
		Status:  models.StatusDraft,
	}

	// Черновик удален между валидацией и записью
	storyRepo.On("GetOwned", mock.Anything, mock.Anything, storyID, ownerID).Return(valid, nil).Once()
	storyRepo.On("MarkPublished", mock.Anything, mock.Anything, storyID, ownerID, testMinContentLen).
		Return(nil, models.ErrNotFound)
	storyRepo.On("GetOwned", mock.Anything, mock.Anything, storyID, ownerID).Return(nil, models.ErrNotFound).Once()

	_, err := svc.Publish(context.Background(), storyID, ownerID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestEditPublished_ReusesExistingShadow(t *testing.T) {
	storyRepo := new(mocks.StoryRepository)
	svc := newTestStoryService(storyRepo, nil)
	ownerID := uuid.New()
	storyID := uuid.New()

	original := &models.Story{ID: storyID, OwnerID: ownerID, Status: models.StatusPublished}
	shadow := &models.Story{ID: uuid.New(), OwnerID: ownerID, Status: models.StatusDraft, OriginalStoryID: &storyID}

	storyRepo.On("GetOwned", mock.Anything, mock.Anything, storyID, ownerID).Return(original, nil)
	storyRepo.On("FindShadowDraft", mock.Anything, mock.Anything, storyID).Return(shadow, nil)

	got, err := svc.EditPublished(context.Background(), storyID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, shadow.ID, got.ID)
	storyRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestEditPublished_CreatesShadowSeededFromOriginal(t *testing.T) {
	storyRepo := new(mocks.StoryRepository)
	svc := newTestStoryService(storyRepo, nil)
	ownerID := uuid.New()
	storyID := uuid.New()

	original := &models.Story{
		ID: storyID, OwnerID: ownerID, Title: "Live", Content: "published text",
		WordCount: 2, Status: models.StatusPublished,
	}

	storyRepo.On("GetOwned", mock.Anything, mock.Anything, storyID, ownerID).Return(original, nil)
	storyRepo.On("FindShadowDraft", mock.Anything, mock.Anything, storyID).Return(nil, models.ErrNotFound)
	storyRepo.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(s *models.Story) bool {
		return s.Status == models.StatusDraft &&
			s.OriginalStoryID != nil && *s.OriginalStoryID == storyID &&
			s.Title == "Live" && s.Content == "published text"
	})).Return(nil)

	shadow, err := svc.EditPublished(context.Background(), storyID, ownerID)
	require.NoError(t, err)
	assert.True(t, shadow.IsShadowDraft())
	storyRepo.AssertExpectations(t)
}

func TestEditPublished_DuplicateInsertFallsBackToExisting(t *testing.T) {
	storyRepo := new(mocks.StoryRepository)
	svc := newTestStoryService(storyRepo, nil)
	ownerID := uuid.New()
	storyID := uuid.New()

	original := &models.Story{ID: storyID, OwnerID: ownerID, Status: models.StatusPublished}
	existing := &models.Story{ID: uuid.New(), OwnerID: ownerID, Status: models.StatusDraft, OriginalStoryID: &storyID}

	storyRepo.On("GetOwned", mock.Anything, mock.Anything, storyID, ownerID).Return(original, nil)
	// Первый поиск пуст, вставка ловит дубликат, повторный поиск возвращает теневик
	storyRepo.On("FindShadowDraft", mock.Anything, mock.Anything, storyID).Return(nil, models.ErrNotFound).Once()
	storyRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(models.ErrConflict)
	storyRepo.On("FindShadowDraft", mock.Anything, mock.Anything, storyID).Return(existing, nil).Once()

	got, err := svc.EditPublished(context.Background(), storyID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, got.ID)
}

func TestEditPublished_DraftTargetNotFound(t *testing.T) {
	storyRepo := new(mocks.StoryRepository)
	svc := newTestStoryService(storyRepo, nil)
	ownerID := uuid.New()
	storyID := uuid.New()

	storyRepo.On("GetOwned", mock.Anything, mock.Anything, storyID, ownerID).
		Return(&models.Story{ID: storyID, OwnerID: ownerID, Status: models.StatusDraft}, nil)

	_, err := svc.EditPublished(context.Background(), storyID, ownerID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestArchive_Success(t *testing.T) {
	storyRepo := new(mocks.StoryRepository)
	svc := newTestStoryService(storyRepo, nil)
	ownerID := uuid.New()
	storyID := uuid.New()

	archived := &models.Story{ID: storyID, OwnerID: ownerID, Status: models.StatusArchived}
	storyRepo.On("Archive", mock.Anything, mock.Anything, storyID, ownerID).Return(archived, nil)

	story, err := svc.Archive(context.Background(), storyID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusArchived, story.Status)
}

func TestArchive_DraftNotFound(t *testing.T) {
	storyRepo := new(mocks.StoryRepository)
	svc := newTestStoryService(storyRepo, nil)
	ownerID := uuid.New()
	storyID := uuid.New()

	// Условный UPDATE не находит опубликованную историю: черновик для
	// архивации неотличим от отсутствующей истории
	storyRepo.On("Archive", mock.Anything, mock.Anything, storyID, ownerID).Return(nil, models.ErrNotFound)

	_, err := svc.Archive(context.Background(), storyID, ownerID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestArchive_MissingStoryNotFound(t *testing.T) {
	storyRepo := new(mocks.StoryRepository)
	svc := newTestStoryService(storyRepo, nil)
	ownerID := uuid.New()
	storyID := uuid.New()

	storyRepo.On("Archive", mock.Anything, mock.Anything, storyID, ownerID).Return(nil, models.ErrNotFound)

	_, err := svc.Archive(context.Background(), storyID, ownerID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGetStory_PublishedIsPublic(t *testing.T) {
	storyRepo := new(mocks.StoryRepository)
	svc := newTestStoryService(storyRepo, nil)
	storyID := uuid.New()

	storyRepo.On("GetByID", mock.Anything, mock.Anything, storyID).
		Return(&models.Story{ID: storyID, Status: models.StatusPublished}, nil)

	story, err := svc.GetStory(context.Background(), storyID, nil)
	require.NoError(t, err)
	assert.Equal(t, storyID, story.ID)
}

func TestGetStory_DraftHiddenFromStrangers(t *testing.T) {
	storyRepo := new(mocks.StoryRepository)
	svc := newTestStoryService(storyRepo, nil)
	ownerID := uuid.New()
	storyID := uuid.New()

	draft := &models.Story{ID: storyID, OwnerID: ownerID, Status: models.StatusDraft}
	storyRepo.On("GetByID", mock.Anything, mock.Anything, storyID).Return(draft, nil)

	// Аноним
	_, err := svc.GetStory(context.Background(), storyID, nil)
	assert.ErrorIs(t, err, models.ErrNotFound)

	// Другой пользователь
	strangerID := uuid.New()
	_, err = svc.GetStory(context.Background(), storyID, &strangerID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	// Владелец видит
	story, err := svc.GetStory(context.Background(), storyID, &ownerID)
	require.NoError(t, err)
	assert.Equal(t, storyID, story.ID)
}

func TestListMyStories_InvalidStatusFailsValidation(t *testing.T) {
	storyRepo := new(mocks.StoryRepository)
	svc := newTestStoryService(storyRepo, nil)

	bad := models.StoryStatus("exploded")
	_, err := svc.ListMyStories(context.Background(), uuid.New(), &bad, 10, 0)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestResolveSlug_PicksMostRecentlyUpdatedMatch(t *testing.T) {
	storyRepo := new(mocks.StoryRepository)
	userRepo := new(mocks.UserRepository)
	svc := newTestStoryService(storyRepo, userRepo)

	owner := &models.User{ID: uuid.New(), Username: "alice"}
	// Отсортировано по updated_at DESC, оба заголовка дают один slug
	newer := &models.Story{ID: uuid.New(), OwnerID: owner.ID, Title: "Hello World", Status: models.StatusPublished}
	older := &models.Story{ID: uuid.New(), OwnerID: owner.ID, Title: "hello, world", Status: models.StatusPublished}

	userRepo.On("GetByUsername", mock.Anything, mock.Anything, "alice").Return(owner, nil)
	storyRepo.On("ListForSlugResolution", mock.Anything, mock.Anything, owner.ID, false).
		Return([]*models.Story{newer, older}, nil)

	story, err := svc.ResolveSlug(context.Background(), "alice", "hello-world", nil)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, story.ID)
}

func TestResolveSlug_OwnerSeesDrafts(t *testing.T) {
	storyRepo := new(mocks.StoryRepository)
	userRepo := new(mocks.UserRepository)
	svc := newTestStoryService(storyRepo, userRepo)

	owner := &models.User{ID: uuid.New(), Username: "alice"}
	draft := &models.Story{ID: uuid.New(), OwnerID: owner.ID, Title: "Secret Draft", Status: models.StatusDraft}

	userRepo.On("GetByUsername", mock.Anything, mock.Anything, "alice").Return(owner, nil)
	storyRepo.On("ListForSlugResolution", mock.Anything, mock.Anything, owner.ID, true).
		Return([]*models.Story{draft}, nil)

	story, err := svc.ResolveSlug(context.Background(), "alice", "secret-draft", &owner.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, story.ID)
}

func TestResolveSlug_UnknownUserNotFound(t *testing.T) {
	storyRepo := new(mocks.StoryRepository)
	userRepo := new(mocks.UserRepository)
	svc := newTestStoryService(storyRepo, userRepo)

	userRepo.On("GetByUsername", mock.Anything, mock.Anything, "ghost").Return(nil, models.ErrUserNotFound)

	_, err := svc.ResolveSlug(context.Background(), "ghost", "anything", nil)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestResolveSlug_NoMatchNotFound(t *testing.T) {
	storyRepo := new(mocks.StoryRepository)
	userRepo := new(mocks.UserRepository)
	svc := newTestStoryService(storyRepo, userRepo)

	owner := &models.User{ID: uuid.New(), Username: "alice"}
	userRepo.On("GetByUsername", mock.Anything, mock.Anything, "alice").Return(owner, nil)
	storyRepo.On("ListForSlugResolution", mock.Anything, mock.Anything, owner.ID, false).
		Return([]*models.Story{
			{ID: uuid.New(), Title: "Something Else", Status: models.StatusPublished},
		}, nil)

	_, err := svc.ResolveSlug(context.Background(), "alice", "hello-world", nil)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSanitizeLimit(t *testing.T) {
	limit := 0
	SanitizeLimit(&limit, 20, 100)
	assert.Equal(t, 20, limit)

	limit = 500
	SanitizeLimit(&limit, 20, 100)
	assert.Equal(t, 20, limit)

	limit = 42
	SanitizeLimit(&limit, 20, 100)
	assert.Equal(t, 42, limit)
}
