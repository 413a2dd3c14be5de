// Package notes declares the repository contract for note persistence and
// the moderation queries built on it.
package notes

import (
	"context"
	"time"

	"mydiary/internal/server/models"
)

// Cursor is a keyset-pagination position: the creation time and id of the
// last item on the previous page. The zero value means "from the top".
type Cursor struct {
	CreatedAt time.Time
	ID        int64
}

// Zero reports whether the cursor is the start-of-listing position.
func (c Cursor) Zero() bool {
	return c.ID == 0 && c.CreatedAt.IsZero()
}

// Repository defines persistence operations for notes.
type Repository interface {
	// Create inserts a note and returns it with its generated id and
	// creation time.
	Create(ctx context.Context, note *models.Note) (*models.Note, error)

	// GetByID returns a note or common.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*models.Note, error)

	// UpdateStatus performs a compare-and-set from one status to another.
	// It reports false when the note is absent or its status is no longer
	// the expected one, with no mutation in either case.
	UpdateStatus(ctx context.Context, id int64, from, to models.Status) (bool, error)

	// Delete hard-deletes a note. Reports false when the note is absent.
	Delete(ctx context.Context, id int64) (bool, error)

	// SetFlagged marks a note as abuse-reported. Reports false when absent.
	SetFlagged(ctx context.Context, id int64) (bool, error)

	// SetRead marks a note as viewed by its owner. Reports false when absent.
	SetRead(ctx context.Context, id int64) (bool, error)

	// IncrementReaction atomically bumps one counter of an approved note
	// and returns the updated counts. Absent or non-approved notes yield
	// common.ErrNotFound.
	IncrementReaction(ctx context.Context, id int64, t models.ReactionType) (models.Reactions, error)

	// ListVisible returns up to limit publicly visible notes (approved and
	// not private) for an owner, newest first, starting strictly after the
	// cursor position.
	ListVisible(ctx context.Context, ownerID string, cursor Cursor, limit int) ([]*models.Note, error)

	// ListByOwner returns an owner's notes newest first, optionally
	// filtered by status, regardless of privacy.
	ListByOwner(ctx context.Context, ownerID string, status *models.Status, limit int) ([]*models.Note, error)

	// CountByStatus returns the owner's note counts grouped by status.
	CountByStatus(ctx context.Context, ownerID string) (map[models.Status]int64, error)

	// TotalReactions returns the sum of all reaction counters across the
	// owner's approved notes.
	TotalReactions(ctx context.Context, ownerID string) (int64, error)

	// ListFlagged returns up to limit flagged notes across all owners,
	// newest first.
	ListFlagged(ctx context.Context, limit int) ([]*models.Note, error)
}
