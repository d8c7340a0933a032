package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"story-server/internal/interfaces"
	"story-server/internal/interfaces/mocks"
	"story-server/internal/models"
)

const testCacheTTL = 5 * time.Minute

func newTestLikeService(likeRepo *mocks.LikeRepository, storyRepo *mocks.StoryRepository, cache *mocks.LikeCountCache) LikeService {
	if cache == nil {
		return NewLikeService(likeRepo, storyRepo, nil, nil, zap.NewNop(), testCacheTTL)
	}
	return NewLikeService(likeRepo, storyRepo, cache, nil, zap.NewNop(), testCacheTTL)
}

func publishedStory(ownerID uuid.UUID) *models.Story {
	return &models.Story{ID: uuid.New(), OwnerID: ownerID, Status: models.StatusPublished}
}

func TestToggle_LikeThenUnlikeRoundTrip(t *testing.T) {
	likeRepo := new(mocks.LikeRepository)
	storyRepo := new(mocks.StoryRepository)
	svc := newTestLikeService(likeRepo, storyRepo, nil)

	ownerID := uuid.New()
	readerID := uuid.New()
	story := publishedStory(ownerID)

	storyRepo.On("GetByID", mock.Anything, mock.Anything, story.ID).Return(story, nil)

	// Первый toggle: лайка нет, ставим
	likeRepo.On("CheckLike", mock.Anything, mock.Anything, readerID, story.ID).Return(false, nil).Once()
	likeRepo.On("AddLike", mock.Anything, mock.Anything, readerID, story.ID).Return(nil).Once()
	likeRepo.On("CountLikes", mock.Anything, mock.Anything, story.ID).Return(int64(1), nil).Once()

	result, err := svc.Toggle(context.Background(), story.ID, readerID)
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Equal(t, int64(1), result.TotalLikes)

	// Второй toggle: лайк есть, снимаем
	likeRepo.On("CheckLike", mock.Anything, mock.Anything, readerID, story.ID).Return(true, nil).Once()
	likeRepo.On("RemoveLike", mock.Anything, mock.Anything, readerID, story.ID).Return(nil).Once()
	likeRepo.On("CountLikes", mock.Anything, mock.Anything, story.ID).Return(int64(0), nil).Once()

	result, err = svc.Toggle(context.Background(), story.ID, readerID)
	require.NoError(t, err)
	assert.False(t, result.Liked)
	assert.Equal(t, int64(0), result.TotalLikes)

	likeRepo.AssertExpectations(t)
}

func TestToggle_SelfLikeForbidden(t *testing.T) {
	likeRepo := new(mocks.LikeRepository)
	storyRepo := new(mocks.StoryRepository)
	svc := newTestLikeService(likeRepo, storyRepo, nil)

	ownerID := uuid.New()
	story := publishedStory(ownerID)
	storyRepo.On("GetByID", mock.Anything, mock.Anything, story.ID).Return(story, nil)

	_, err := svc.Toggle(context.Background(), story.ID, ownerID)
	assert.ErrorIs(t, err, models.ErrSelfLike)
	likeRepo.AssertNotCalled(t, "AddLike", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	likeRepo.AssertNotCalled(t, "RemoveLike", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestToggle_DraftStoryNotFound(t *testing.T) {
	likeRepo := new(mocks.LikeRepository)
	storyRepo := new(mocks.StoryRepository)
	svc := newTestLikeService(likeRepo, storyRepo, nil)

	story := &models.Story{ID: uuid.New(), OwnerID: uuid.New(), Status: models.StatusDraft}
	storyRepo.On("GetByID", mock.Anything, mock.Anything, story.ID).Return(story, nil)

	_, err := svc.Toggle(context.Background(), story.ID, uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestToggle_ArchivedStoryNotFound(t *testing.T) {
	likeRepo := new(mocks.LikeRepository)
	storyRepo := new(mocks.StoryRepository)
	svc := newTestLikeService(likeRepo, storyRepo, nil)

	story := &models.Story{ID: uuid.New(), OwnerID: uuid.New(), Status: models.StatusArchived}
	storyRepo.On("GetByID", mock.Anything, mock.Anything, story.ID).Return(story, nil)

	_, err := svc.Toggle(context.Background(), story.ID, uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestToggle_DuplicateInsertTreatedAsLiked(t *testing.T) {
	likeRepo := new(mocks.LikeRepository)
	storyRepo := new(mocks.StoryRepository)
	svc := newTestLikeService(likeRepo, storyRepo, nil)

	readerID := uuid.New()
	story := publishedStory(uuid.New())
	storyRepo.On("GetByID", mock.Anything, mock.Anything, story.ID).Return(story, nil)

	// Гонка: между проверкой и вставкой параллельный запрос успел поставить лайк
	likeRepo.On("CheckLike", mock.Anything, mock.Anything, readerID, story.ID).Return(false, nil)
	likeRepo.On("AddLike", mock.Anything, mock.Anything, readerID, story.ID).
		Return(interfaces.ErrLikeAlreadyExists)
	likeRepo.On("CountLikes", mock.Anything, mock.Anything, story.ID).Return(int64(1), nil)

	result, err := svc.Toggle(context.Background(), story.ID, readerID)
	require.NoError(t, err)
	assert.True(t, result.Liked)
}

func TestToggle_InvalidatesAndWarmsCache(t *testing.T) {
	likeRepo := new(mocks.LikeRepository)
	storyRepo := new(mocks.StoryRepository)
	cache := new(mocks.LikeCountCache)
	svc := newTestLikeService(likeRepo, storyRepo, cache)

	readerID := uuid.New()
	story := publishedStory(uuid.New())
	storyRepo.On("GetByID", mock.Anything, mock.Anything, story.ID).Return(story, nil)

	likeRepo.On("CheckLike", mock.Anything, mock.Anything, readerID, story.ID).Return(false, nil)
	likeRepo.On("AddLike", mock.Anything, mock.Anything, readerID, story.ID).Return(nil)
	likeRepo.On("CountLikes", mock.Anything, mock.Anything, story.ID).Return(int64(7), nil)

	cache.On("Invalidate", mock.Anything, story.ID).Return(nil)
	cache.On("Set", mock.Anything, story.ID, int64(7), testCacheTTL).Return(nil)

	result, err := svc.Toggle(context.Background(), story.ID, readerID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), result.TotalLikes)
	cache.AssertExpectations(t)
}

func TestStatus_ReportsWithoutMutating(t *testing.T) {
	likeRepo := new(mocks.LikeRepository)
	storyRepo := new(mocks.StoryRepository)
	svc := newTestLikeService(likeRepo, storyRepo, nil)

	readerID := uuid.New()
	story := publishedStory(uuid.New())
	storyRepo.On("GetByID", mock.Anything, mock.Anything, story.ID).Return(story, nil)
	likeRepo.On("CheckLike", mock.Anything, mock.Anything, readerID, story.ID).Return(true, nil)
	likeRepo.On("CountLikes", mock.Anything, mock.Anything, story.ID).Return(int64(3), nil)

	result, err := svc.Status(context.Background(), story.ID, readerID)
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Equal(t, int64(3), result.TotalLikes)
	likeRepo.AssertNotCalled(t, "AddLike", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	likeRepo.AssertNotCalled(t, "RemoveLike", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCount_CacheHitSkipsDatabase(t *testing.T) {
	likeRepo := new(mocks.LikeRepository)
	storyRepo := new(mocks.StoryRepository)
	cache := new(mocks.LikeCountCache)
	svc := newTestLikeService(likeRepo, storyRepo, cache)

	story := publishedStory(uuid.New())
	storyRepo.On("GetByID", mock.Anything, mock.Anything, story.ID).Return(story, nil)
	cache.On("Get", mock.Anything, story.ID).Return(int64(12), true, nil)

	total, err := svc.Count(context.Background(), story.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	likeRepo.AssertNotCalled(t, "CountLikes", mock.Anything, mock.Anything, mock.Anything)
}

func TestCount_CacheMissFallsThroughAndWarms(t *testing.T) {
	likeRepo := new(mocks.LikeRepository)
	storyRepo := new(mocks.StoryRepository)
	cache := new(mocks.LikeCountCache)
	svc := newTestLikeService(likeRepo, storyRepo, cache)

	story := publishedStory(uuid.New())
	storyRepo.On("GetByID", mock.Anything, mock.Anything, story.ID).Return(story, nil)
	cache.On("Get", mock.Anything, story.ID).Return(int64(0), false, nil)
	likeRepo.On("CountLikes", mock.Anything, mock.Anything, story.ID).Return(int64(4), nil)
	cache.On("Set", mock.Anything, story.ID, int64(4), testCacheTTL).Return(nil)

	total, err := svc.Count(context.Background(), story.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	cache.AssertExpectations(t)
}

func TestCount_MissingStoryNotFound(t *testing.T) {
	likeRepo := new(mocks.LikeRepository)
	storyRepo := new(mocks.StoryRepository)
	svc := newTestLikeService(likeRepo, storyRepo, nil)

	storyID := uuid.New()
	storyRepo.On("GetByID", mock.Anything, mock.Anything, storyID).Return(nil, models.ErrNotFound)

	_, err := svc.Count(context.Background(), storyID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
