package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// StoryStatus описывает статус истории в жизненном цикле.
type StoryStatus string

const (
	StatusDraft     StoryStatus = "draft"
	StatusPublished StoryStatus = "published"
	StatusArchived  StoryStatus = "archived"
)

// IsValid проверяет, что статус — одно из известных значений.
func (s StoryStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// CanTransitionTo сообщает, допустим ли переход в статус next.
// Жизненный цикл двигается только вперед: draft -> published -> archived.
// Удаление разрешено из любого статуса и здесь не моделируется.
func (s StoryStatus) CanTransitionTo(next StoryStatus) bool {
	switch s {
	case StatusDraft:
		return next == StatusPublished
	case StatusPublished:
		return next == StatusArchived
	}
	return false
}

// Story представляет историю автора на любой стадии жизненного цикла.
type Story struct {
	ID        uuid.UUID   `db:"id" json:"id"`
	OwnerID   uuid.UUID   `db:"owner_id" json:"owner_id"`
	Title     string      `db:"title" json:"title"`
	Content   string      `db:"content" json:"content"`
	WordCount int         `db:"word_count" json:"word_count"`
	Status    StoryStatus `db:"status" json:"status"`
	// OriginalStoryID не nil только у теневого черновика, созданного
	// для редактирования уже опубликованной истории.
	OriginalStoryID *uuid.UUID `db:"original_story_id" json:"original_story_id,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
	PublishedAt     *time.Time `db:"published_at" json:"published_at,omitempty"`
}

// IsShadowDraft сообщает, является ли история теневым черновиком
// опубликованной истории.
func (s *Story) IsShadowDraft() bool {
	return s.Status == StatusDraft && s.OriginalStoryID != nil
}

// CountWords возвращает количество слов в тексте. Считаем по границам
// пробельных символов, а не по рунам.
func CountWords(content string) int {
	return len(strings.Fields(content))
}

// AuthorFeedEntry — элемент публичной ленты "недавние авторы": автор и его
// последняя опубликованная история.
type AuthorFeedEntry struct {
	Username    string    `db:"username" json:"username"`
	StoryID     uuid.UUID `db:"story_id" json:"story_id"`
	Title       string    `db:"title" json:"title"`
	WordCount   int       `db:"word_count" json:"word_count"`
	PublishedAt time.Time `db:"published_at" json:"published_at"`
}
