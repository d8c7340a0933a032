package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"story-server/internal/interfaces"
	"story-server/internal/models"
)

// LikeService defines the interface for managing story likes.
type LikeService interface {
	// Toggle flips the like state for (userID, storyID) and returns the
	// resulting state with the fresh total.
	Toggle(ctx context.Context, storyID, userID uuid.UUID) (*models.LikeResult, error)
	// Status reports whether userID currently likes the story, plus the total.
	Status(ctx context.Context, storyID, userID uuid.UUID) (*models.LikeResult, error)
	// Count returns the public like total for a published story.
	Count(ctx context.Context, storyID uuid.UUID) (int64, error)
}

type likeServiceImpl struct {
	likeRepo  interfaces.LikeRepository
	storyRepo interfaces.StoryRepository
	cache     interfaces.LikeCountCache
	pool      *pgxpool.Pool
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewLikeService creates a new instance of LikeService.
func NewLikeService(
	likeRepo interfaces.LikeRepository,
	storyRepo interfaces.StoryRepository,
	cache interfaces.LikeCountCache,
	pool *pgxpool.Pool,
	logger *zap.Logger,
	cacheTTL time.Duration,
) LikeService {
	return &likeServiceImpl{
		likeRepo:  likeRepo,
		storyRepo: storyRepo,
		cache:     cache,
		pool:      pool,
		logger:    logger.Named("LikeService"),
		cacheTTL:  cacheTTL,
	}
}

// Toggle переключает лайк пользователя. Гонки двух одновременных toggle
// разрешает уникальный индекс (user_id, story_id): нарушение ограничения
// трактуется как "уже в желаемом состоянии", а не как ошибка.
func (s *likeServiceImpl) Toggle(ctx context.Context, storyID, userID uuid.UUID) (*models.LikeResult, error) {
	logFields := []zap.Field{
		zap.String("storyID", storyID.String()),
		zap.String("userID", userID.String()),
	}
	s.logger.Info("Toggling like", logFields...)

	story, err := s.likeableStory(ctx, storyID, logFields)
	if err != nil {
		return nil, err
	}
	if story.OwnerID == userID {
		s.logger.Warn("Owner attempted to like own story", logFields...)
		return nil, models.ErrSelfLike
	}

	liked, err := s.likeRepo.CheckLike(ctx, s.pool, userID, storyID)
	if err != nil {
		s.logger.Error("Failed to check like state", append(logFields, zap.Error(err))...)
		return nil, models.ErrInternalServer
	}

	var nowLiked bool
	if liked {
		err = s.likeRepo.RemoveLike(ctx, s.pool, userID, storyID)
		if err != nil && !errors.Is(err, interfaces.ErrLikeNotFound) {
			s.logger.Error("Failed to remove like", append(logFields, zap.Error(err))...)
			return nil, models.ErrInternalServer
		}
		nowLiked = false
	} else {
		err = s.likeRepo.AddLike(ctx, s.pool, userID, storyID)
		switch {
		case err == nil, errors.Is(err, interfaces.ErrLikeAlreadyExists):
			// Дубликат означает, что параллельный toggle уже поставил лайк.
			nowLiked = true
		case errors.Is(err, models.ErrNotFound):
			return nil, models.ErrNotFound
		default:
			s.logger.Error("Failed to add like", append(logFields, zap.Error(err))...)
			return nil, models.ErrInternalServer
		}
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, storyID); err != nil {
			s.logger.Warn("Failed to invalidate like count cache", append(logFields, zap.Error(err))...)
		}
	}

	total, err := s.likeRepo.CountLikes(ctx, s.pool, storyID)
	if err != nil {
		s.logger.Error("Failed to count likes after toggle", append(logFields, zap.Error(err))...)
		return nil, models.ErrInternalServer
	}
	s.storeCount(ctx, storyID, total)

	s.logger.Info("Like toggled", append(logFields, zap.Bool("liked", nowLiked), zap.Int64("total", total))...)
	return &models.LikeResult{Liked: nowLiked, TotalLikes: total}, nil
}

// Status возвращает текущее состояние лайка и общий счетчик, ничего не меняя.
func (s *likeServiceImpl) Status(ctx context.Context, storyID, userID uuid.UUID) (*models.LikeResult, error) {
	logFields := []zap.Field{
		zap.String("storyID", storyID.String()),
		zap.String("userID", userID.String()),
	}

	if _, err := s.likeableStory(ctx, storyID, logFields); err != nil {
		return nil, err
	}

	liked, err := s.likeRepo.CheckLike(ctx, s.pool, userID, storyID)
	if err != nil {
		s.logger.Error("Failed to check like state", append(logFields, zap.Error(err))...)
		return nil, models.ErrInternalServer
	}
	total, err := s.totalLikes(ctx, storyID, logFields)
	if err != nil {
		return nil, err
	}
	return &models.LikeResult{Liked: liked, TotalLikes: total}, nil
}

// Count возвращает публичный счетчик лайков опубликованной истории.
func (s *likeServiceImpl) Count(ctx context.Context, storyID uuid.UUID) (int64, error) {
	logFields := []zap.Field{zap.String("storyID", storyID.String())}

	if _, err := s.likeableStory(ctx, storyID, logFields); err != nil {
		return 0, err
	}
	return s.totalLikes(ctx, storyID, logFields)
}

// likeableStory загружает историю и требует статус published. Черновики и
// архив для like-операций неотличимы от несуществующих историй.
func (s *likeServiceImpl) likeableStory(ctx context.Context, storyID uuid.UUID, logFields []zap.Field) (*models.Story, error) {
	story, err := s.storyRepo.GetByID(ctx, s.pool, storyID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("Failed to load story for like operation", append(logFields, zap.Error(err))...)
		return nil, models.ErrInternalServer
	}
	if story.Status != models.StatusPublished {
		s.logger.Debug("Like operation on non-published story",
			append(logFields, zap.String("status", string(story.Status)))...)
		return nil, models.ErrNotFound
	}
	return story, nil
}

// totalLikes отдает счетчик из кеша, при промахе идет в БД и прогревает кеш.
func (s *likeServiceImpl) totalLikes(ctx context.Context, storyID uuid.UUID, logFields []zap.Field) (int64, error) {
	if s.cache != nil {
		if count, ok, err := s.cache.Get(ctx, storyID); err != nil {
			s.logger.Warn("Like count cache read failed", append(logFields, zap.Error(err))...)
		} else if ok {
			return count, nil
		}
	}

	total, err := s.likeRepo.CountLikes(ctx, s.pool, storyID)
	if err != nil {
		s.logger.Error("Failed to count likes", append(logFields, zap.Error(err))...)
		return 0, models.ErrInternalServer
	}
	s.storeCount(ctx, storyID, total)
	return total, nil
}

func (s *likeServiceImpl) storeCount(ctx context.Context, storyID uuid.UUID, total int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, storyID, total, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache like count",
			zap.String("storyID", storyID.String()), zap.Error(err))
	}
}
