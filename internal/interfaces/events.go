package interfaces

import (
	"context"

	"story-server/internal/models"
)

// StoryEventPublisher publishes lifecycle events for external collaborators.
// Delivery is best-effort: the domain operation has already committed by the
// time an event is published, so failures are logged, not surfaced.
//
//go:generate mockery --name StoryEventPublisher --output ./mocks --outpkg mocks --case=underscore
type StoryEventPublisher interface {
	PublishStoryEvent(ctx context.Context, payload models.StoryEventPayload) error
}
