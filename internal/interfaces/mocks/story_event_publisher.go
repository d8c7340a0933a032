package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"story-server/internal/models"
)

// Mock StoryEventPublisher
type StoryEventPublisher struct {
	mock.Mock
}

func (m *StoryEventPublisher) PublishStoryEvent(ctx context.Context, payload models.StoryEventPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}
