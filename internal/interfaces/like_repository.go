package interfaces

import (
	"context"

	"github.com/google/uuid"
)

// LikeRepository определяет методы для работы с лайками к опубликованным историям.
//
//go:generate mockery --name LikeRepository --output ./mocks --outpkg mocks --case=underscore
type LikeRepository interface {
	// AddLike добавляет запись о лайке.
	// Возвращает ErrLikeAlreadyExists, если пользователь уже лайкнул эту историю,
	// и models.ErrNotFound при нарушении FK (история не существует).
	AddLike(ctx context.Context, querier DBTX, userID, storyID uuid.UUID) error

	// RemoveLike удаляет запись о лайке.
	// Возвращает ErrLikeNotFound, если лайка не было.
	RemoveLike(ctx context.Context, querier DBTX, userID, storyID uuid.UUID) error

	// CheckLike проверяет, лайкнул ли пользователь историю.
	CheckLike(ctx context.Context, querier DBTX, userID, storyID uuid.UUID) (bool, error)

	// CountLikes возвращает общее количество лайков для истории.
	CountLikes(ctx context.Context, querier DBTX, storyID uuid.UUID) (int64, error)
}
