package interfaces

import (
	"context"

	"story-server/internal/models"

	"github.com/google/uuid"
)

// StoryRepository defines the persistence boundary for stories.
// Every querier argument accepts either the pool or an open transaction,
// so lifecycle operations that must be atomic can run inside one tx.
//
//go:generate mockery --name StoryRepository --output ./mocks --outpkg mocks --case=underscore
type StoryRepository interface {
	// Create inserts a new story record. Fills ID/CreatedAt/UpdatedAt on the model.
	Create(ctx context.Context, querier DBTX, story *models.Story) error

	// GetByID retrieves a story regardless of owner or status.
	// Returns models.ErrNotFound when no row matches.
	GetByID(ctx context.Context, querier DBTX, id uuid.UUID) (*models.Story, error)

	// GetOwned retrieves a story only when it belongs to ownerID.
	// Returns models.ErrNotFound both for missing rows and foreign rows, so
	// callers cannot distinguish "not yours" from "does not exist".
	GetOwned(ctx context.Context, querier DBTX, id, ownerID uuid.UUID) (*models.Story, error)

	// GetForUpdate reads a story with a row lock (SELECT ... FOR UPDATE).
	// Must be called inside a transaction.
	GetForUpdate(ctx context.Context, querier DBTX, id uuid.UUID) (*models.Story, error)

	// UpdateDraftContent updates title/content/word count of an owned DRAFT
	// and bumps updated_at. Returns the updated row, or models.ErrNotFound
	// when no matching owned draft exists.
	UpdateDraftContent(ctx context.Context, querier DBTX, id, ownerID uuid.UUID, title, content string, wordCount int) (*models.Story, error)

	// MarkPublished transitions an owned DRAFT to PUBLISHED, setting
	// published_at only if it was never set. The WHERE clause re-checks the
	// publish requirements (non-blank title, content of at least
	// minContentLen characters) so a concurrent draft save cannot slip
	// invalid content past service-level validation. Returns
	// models.ErrNotFound when no row satisfies all predicates.
	MarkPublished(ctx context.Context, querier DBTX, id, ownerID uuid.UUID, minContentLen int) (*models.Story, error)

	// UpdatePublishedContent copies new title/content onto a PUBLISHED story,
	// bumping updated_at and leaving published_at untouched. Returns
	// models.ErrConflict when the story is no longer published.
	UpdatePublishedContent(ctx context.Context, querier DBTX, id uuid.UUID, title, content string, wordCount int) error

	// Archive transitions an owned PUBLISHED story to ARCHIVED.
	// Returns models.ErrNotFound when no matching owned published story exists.
	Archive(ctx context.Context, querier DBTX, id, ownerID uuid.UUID) (*models.Story, error)

	// Delete hard-deletes an owned story of any status. Likes cascade in the
	// database. Returns models.ErrNotFound when nothing was deleted.
	Delete(ctx context.Context, querier DBTX, id, ownerID uuid.UUID) error

	// FindShadowDraft returns the draft carrying originalStoryID, if any.
	// Returns models.ErrNotFound when no shadow draft exists.
	FindShadowDraft(ctx context.Context, querier DBTX, originalStoryID uuid.UUID) (*models.Story, error)

	// ListByOwner returns the owner's stories, newest updated first,
	// optionally filtered by status.
	ListByOwner(ctx context.Context, querier DBTX, ownerID uuid.UUID, status *models.StoryStatus, limit, offset int) ([]*models.Story, error)

	// ListForSlugResolution returns the owner's published stories (plus
	// drafts when includeDrafts is set), newest updated first. Used to match
	// encoded titles against a slug.
	ListForSlugResolution(ctx context.Context, querier DBTX, ownerID uuid.UUID, includeDrafts bool) ([]*models.Story, error)

	// ListRecentAuthors returns, per author with at least one published
	// story, that author's latest published story, ordered by published_at
	// descending.
	ListRecentAuthors(ctx context.Context, querier DBTX, limit int) ([]models.AuthorFeedEntry, error)
}
