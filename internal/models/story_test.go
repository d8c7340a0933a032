package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStoryStatusCanTransitionTo(t *testing.T) {
	testCases := []struct {
		from    StoryStatus
		to      StoryStatus
		allowed bool
	}{
		{StatusDraft, StatusPublished, true},
		{StatusPublished, StatusArchived, true},
		{StatusDraft, StatusArchived, false},
		{StatusPublished, StatusDraft, false},
		{StatusArchived, StatusPublished, false},
		{StatusArchived, StatusDraft, false},
		{StatusDraft, StatusDraft, false},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"transition %s -> %s", tc.from, tc.to)
	}
}

func TestStoryStatusIsValid(t *testing.T) {
	assert.True(t, StatusDraft.IsValid())
	assert.True(t, StatusPublished.IsValid())
	assert.True(t, StatusArchived.IsValid())
	assert.False(t, StoryStatus("deleted").IsValid())
	assert.False(t, StoryStatus("").IsValid())
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, CountWords(""))
	assert.Equal(t, 0, CountWords("   \n\t "))
	assert.Equal(t, 1, CountWords("hello"))
	assert.Equal(t, 2, CountWords("hello world"))
	assert.Equal(t, 3, CountWords("  one\ntwo\tthree  "))
}

func TestIsShadowDraft(t *testing.T) {
	originalID := uuid.New()

	shadow := &Story{Status: StatusDraft, OriginalStoryID: &originalID}
	assert.True(t, shadow.IsShadowDraft())

	plainDraft := &Story{Status: StatusDraft}
	assert.False(t, plainDraft.IsShadowDraft())

	// Оригинал после republish черновиком не считается
	published := &Story{Status: StatusPublished, OriginalStoryID: &originalID}
	assert.False(t, published.IsShadowDraft())
}
