package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock LikeCountCache
type LikeCountCache struct {
	mock.Mock
}

func (m *LikeCountCache) Get(ctx context.Context, storyID uuid.UUID) (int64, bool, error) {
	args := m.Called(ctx, storyID)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *LikeCountCache) Set(ctx context.Context, storyID uuid.UUID, count int64, ttl time.Duration) error {
	args := m.Called(ctx, storyID, count, ttl)
	return args.Error(0)
}

func (m *LikeCountCache) Invalidate(ctx context.Context, storyID uuid.UUID) error {
	args := m.Called(ctx, storyID)
	return args.Error(0)
}
