package models

import (
	"time"

	"github.com/google/uuid"
)

// Like — отметка "нравится" от пользователя к опубликованной истории.
// Пара (UserID, StoryID) уникальна, это обеспечивает БД.
type Like struct {
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	StoryID   uuid.UUID `db:"story_id" json:"story_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// LikeResult is what toggle/status operations report back to the caller.
type LikeResult struct {
	Liked      bool  `json:"liked"`
	TotalLikes int64 `json:"total_likes"`
}
