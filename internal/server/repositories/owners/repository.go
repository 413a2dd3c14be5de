// Package owners declares the repository contract for owner accounts.
package owners

import (
	"context"

	"mydiary/internal/server/models"
)

// Repository defines persistence operations for owner accounts.
type Repository interface {
	// Create inserts a new owner and returns it with its generated id and
	// creation time. Duplicate handles yield common.ErrHandleTaken,
	// duplicate emails common.ErrEmailTaken.
	Create(ctx context.Context, owner *models.Owner) (*models.Owner, error)

	// GetByHandle returns the owner claiming the given handle, or
	// common.ErrNotFound.
	GetByHandle(ctx context.Context, handle string) (*models.Owner, error)

	// GetByID returns the owner with the given id, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Owner, error)

	// UpdateProfile sets the owner's bio and theme.
	UpdateProfile(ctx context.Context, id, bio, theme string) error

	// Search returns up to limit owners whose handle contains q.
	Search(ctx context.Context, q string, limit int) ([]*models.Owner, error)

	// Trending returns up to limit owners ranked by approved note count.
	Trending(ctx context.Context, limit int) ([]*models.TrendingOwner, error)
}
