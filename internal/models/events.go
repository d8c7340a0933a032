package models

import "time"

// StoryEventType идентифицирует событие жизненного цикла истории.
type StoryEventType string

const (
	StoryEventPublished   StoryEventType = "story.published"
	StoryEventRepublished StoryEventType = "story.republished"
	StoryEventArchived    StoryEventType = "story.archived"
	StoryEventDeleted     StoryEventType = "story.deleted"
)

// StoryEventPayload — сообщение для внешних потребителей (индексация поиска,
// уведомления). Отправляется после коммита соответствующей операции.
type StoryEventPayload struct {
	EventID    string         `json:"event_id"`
	Type       StoryEventType `json:"type"`
	StoryID    string         `json:"story_id"`
	OwnerID    string         `json:"owner_id"`
	Title      string         `json:"title,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}
