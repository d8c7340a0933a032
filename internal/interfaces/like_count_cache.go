package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LikeCountCache кеширует счетчики лайков горячих историй. Реализация на
// Redis; промах кеша не считается ошибкой.
//
//go:generate mockery --name LikeCountCache --output ./mocks --outpkg mocks --case=underscore
type LikeCountCache interface {
	// Get возвращает закешированный счетчик и признак попадания.
	Get(ctx context.Context, storyID uuid.UUID) (count int64, ok bool, err error)

	// Set записывает счетчик с TTL.
	Set(ctx context.Context, storyID uuid.UUID, count int64, ttl time.Duration) error

	// Invalidate сбрасывает счетчик после toggle.
	Invalidate(ctx context.Context, storyID uuid.UUID) error
}
