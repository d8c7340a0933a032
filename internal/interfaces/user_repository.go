package interfaces

import (
	"context"

	"story-server/internal/models"

	"github.com/google/uuid"
)

// UserRepository defines read access to users. The auth service owns the
// write path; this service only needs lookups for slug resolution and the
// author feed, plus Create so tests and seed tooling can provision authors.
//
//go:generate mockery --name UserRepository --output ./mocks --outpkg mocks --case=underscore
type UserRepository interface {
	// Create inserts a new user row.
	Create(ctx context.Context, querier DBTX, user *models.User) error

	// GetByID retrieves a user by ID.
	// Returns models.ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, querier DBTX, id uuid.UUID) (*models.User, error)

	// GetByUsername retrieves a user by their unique username.
	// Returns models.ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, querier DBTX, username string) (*models.User, error)
}
