package service

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"story-server/internal/interfaces"
	"story-server/internal/models"
)

// FeedService exposes public read-only listings.
type FeedService interface {
	// RecentAuthors returns, per author with at least one published story,
	// that author's latest published story, newest first.
	RecentAuthors(ctx context.Context, limit int) ([]models.AuthorFeedEntry, error)
}

type feedServiceImpl struct {
	storyRepo interfaces.StoryRepository
	pool      *pgxpool.Pool
	logger    *zap.Logger
}

// NewFeedService creates a new instance of FeedService.
func NewFeedService(storyRepo interfaces.StoryRepository, pool *pgxpool.Pool, logger *zap.Logger) FeedService {
	return &feedServiceImpl{
		storyRepo: storyRepo,
		pool:      pool,
		logger:    logger.Named("FeedService"),
	}
}

// RecentAuthors возвращает ленту недавних авторов. Авторы без публикаций в
// ленту не попадают.
func (s *feedServiceImpl) RecentAuthors(ctx context.Context, limit int) ([]models.AuthorFeedEntry, error) {
	SanitizeLimit(&limit, defaultListLimit, maxListLimit)

	entries, err := s.storyRepo.ListRecentAuthors(ctx, s.pool, limit)
	if err != nil {
		s.logger.Error("Failed to list recent authors", zap.Int("limit", limit), zap.Error(err))
		return nil, models.ErrInternalServer
	}
	if entries == nil {
		entries = []models.AuthorFeedEntry{}
	}
	return entries, nil
}
