package database

import (
	"context"
	"errors"
	"fmt"

	"story-server/internal/interfaces"
	"story-server/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// pgLikeRepository реализует интерфейс LikeRepository для PostgreSQL.
type pgLikeRepository struct {
	logger *zap.Logger
}

// Compile-time check
var _ interfaces.LikeRepository = (*pgLikeRepository)(nil)

// NewPgLikeRepository создает новый экземпляр репозитория лайков.
func NewPgLikeRepository(logger *zap.Logger) interfaces.LikeRepository {
	return &pgLikeRepository{
		logger: logger.Named("PgLikeRepo"),
	}
}

// AddLike добавляет запись о лайке. Уникальный индекс (user_id, story_id) —
// единственный арбитр гонки двух одновременных toggle от одного пользователя.
func (r *pgLikeRepository) AddLike(ctx context.Context, querier interfaces.DBTX, userID, storyID uuid.UUID) error {
	query := `INSERT INTO story_likes (user_id, story_id) VALUES ($1, $2)`
	logFields := []zap.Field{
		zap.String("userID", userID.String()),
		zap.String("storyID", storyID.String()),
	}
	r.logger.Debug("Adding like record", logFields...)

	_, err := querier.Exec(ctx, query, userID, storyID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505": // unique_violation: лайк уже существует
				r.logger.Warn("Like already exists (unique constraint violation)", logFields...)
				return interfaces.ErrLikeAlreadyExists
			case "23503": // foreign_key_violation: story_id не найден
				r.logger.Warn("Story not found (foreign key violation)", logFields...)
				return models.ErrNotFound
			}
		}
		r.logger.Error("Failed to add like record", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to add like: %w", err)
	}

	r.logger.Info("Like record added", logFields...)
	return nil
}

// RemoveLike удаляет запись о лайке.
func (r *pgLikeRepository) RemoveLike(ctx context.Context, querier interfaces.DBTX, userID, storyID uuid.UUID) error {
	query := `DELETE FROM story_likes WHERE user_id = $1 AND story_id = $2`
	logFields := []zap.Field{
		zap.String("userID", userID.String()),
		zap.String("storyID", storyID.String()),
	}
	r.logger.Debug("Removing like record", logFields...)

	commandTag, err := querier.Exec(ctx, query, userID, storyID)
	if err != nil {
		r.logger.Error("Failed to remove like record", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to remove like: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		r.logger.Warn("Like not found to remove", logFields...)
		return interfaces.ErrLikeNotFound
	}

	r.logger.Info("Like record removed", logFields...)
	return nil
}

// CheckLike проверяет, лайкнул ли пользователь историю.
func (r *pgLikeRepository) CheckLike(ctx context.Context, querier interfaces.DBTX, userID, storyID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM story_likes WHERE user_id = $1 AND story_id = $2)`
	var exists bool
	logFields := []zap.Field{
		zap.String("userID", userID.String()),
		zap.String("storyID", storyID.String()),
	}

	err := querier.QueryRow(ctx, query, userID, storyID).Scan(&exists)
	if err != nil {
		r.logger.Error("Failed to check like existence", append(logFields, zap.Error(err))...)
		return false, fmt.Errorf("failed to check like existence: %w", err)
	}

	r.logger.Debug("Like existence checked", append(logFields, zap.Bool("exists", exists))...)
	return exists, nil
}

// CountLikes возвращает общее количество лайков для истории.
func (r *pgLikeRepository) CountLikes(ctx context.Context, querier interfaces.DBTX, storyID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM story_likes WHERE story_id = $1`
	var count int64
	logFields := []zap.Field{zap.String("storyID", storyID.String())}

	err := querier.QueryRow(ctx, query, storyID).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count likes", append(logFields, zap.Error(err))...)
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}

	r.logger.Debug("Likes counted", append(logFields, zap.Int64("count", count))...)
	return count, nil
}
