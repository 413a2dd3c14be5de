package services

import (
	"context"
	"database/sql"
	"errors"

	"mydiary/internal/cache"
	"mydiary/internal/common"
	"mydiary/internal/dbx"
	"mydiary/internal/server/models"
	"mydiary/internal/server/repositories/repomanager"
)

// flaggedQueueLimit caps the admin review listing.
const flaggedQueueLimit = 50

// ModerationService owns the note lifecycle: status transitions, flagging,
// reactions, and read marks. Owner-only events are authorized before any
// mutation; a rejected actor never changes state.
type ModerationService struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	listings *cache.ListingCache
}

// NewModerationService constructs a ModerationService sharing the listing
// cache with ContentService so transitions can invalidate public pages.
func NewModerationService(db *sql.DB, m repomanager.RepositoryManager, listings *cache.ListingCache) *ModerationService {
	return &ModerationService{db: db, repos: m, listings: listings}
}

// Transition applies an owner-only moderation event to a note. The fetch,
// authorization check, and compare-and-set run inside one transaction so
// concurrent events on the same note linearize: the loser of a race gets
// ErrInvalidTransition and changes nothing.
func (s *ModerationService) Transition(ctx context.Context, noteID int64, actorID string, event models.Event) (*models.Note, error) {
	if !models.ValidEvent(event) {
		return nil, common.ErrInvalidTransition
	}

	var result *models.Note
	var ownerHandle string

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		notesRepo := s.repos.Notes(tx)
		ownersRepo := s.repos.Owners(tx)

		note, err := notesRepo.GetByID(ctx, noteID)
		if err != nil {
			return err
		}

		// authorization precedes any mutation
		if note.OwnerID != actorID {
			actor, err := ownersRepo.GetByID(ctx, actorID)
			if err != nil || !actor.IsAdmin {
				return common.ErrUnauthorized
			}
		}

		owner, err := ownersRepo.GetByID(ctx, note.OwnerID)
		if err != nil {
			return err
		}
		ownerHandle = owner.Handle

		if event == models.EventDelete {
			ok, err := notesRepo.Delete(ctx, noteID)
			if err != nil {
				return err
			}
			if !ok {
				return common.ErrNotFound
			}
			result = nil
			return nil
		}

		next, ok := models.NextStatus(note.Status, event)
		if !ok {
			return common.ErrInvalidTransition
		}

		applied, err := notesRepo.UpdateStatus(ctx, noteID, note.Status, next)
		if err != nil {
			return err
		}
		if !applied {
			return common.ErrInvalidTransition
		}

		note.Status = next
		result = note
		return nil
	})
	if err != nil {
		return nil, err
	}

	// approval, archival, and deletion all change the owner's visible set
	s.listings.Invalidate(ownerHandle)

	return result, nil
}

// Flag marks a note as abuse-reported. Any viewer may flag; the flag does
// not change the note's visibility.
func (s *ModerationService) Flag(ctx context.Context, noteID int64) error {
	ok, err := s.repos.Notes(s.db).SetFlagged(ctx, noteID)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrNotFound
	}
	return nil
}

// React bumps a reaction counter on an approved note and returns the
// updated counts. Non-approved and missing notes are indistinguishable to
// the caller.
func (s *ModerationService) React(ctx context.Context, noteID int64, t models.ReactionType) (models.Reactions, error) {
	if !models.ValidReactionType(t) {
		return models.Reactions{}, common.ErrInvalidReactionType
	}

	notesRepo := s.repos.Notes(s.db)

	counts, err := notesRepo.IncrementReaction(ctx, noteID, t)
	if err != nil {
		return models.Reactions{}, err
	}

	// reaction counts appear on the public page; refresh the cached copy
	note, err := notesRepo.GetByID(ctx, noteID)
	if err == nil {
		if owner, oerr := s.repos.Owners(s.db).GetByID(ctx, note.OwnerID); oerr == nil {
			s.listings.Invalidate(owner.Handle)
		}
	} else if !errors.Is(err, common.ErrNotFound) {
		return models.Reactions{}, err
	}

	return counts, nil
}

// MarkRead records that the owner has viewed a note.
func (s *ModerationService) MarkRead(ctx context.Context, noteID int64, actorID string) error {
	notesRepo := s.repos.Notes(s.db)

	note, err := notesRepo.GetByID(ctx, noteID)
	if err != nil {
		return err
	}
	if note.OwnerID != actorID {
		return common.ErrUnauthorized
	}

	ok, err := notesRepo.SetRead(ctx, noteID)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrNotFound
	}
	return nil
}

// ListFlagged returns the abuse review queue. Admin only.
func (s *ModerationService) ListFlagged(ctx context.Context, actorID string) ([]*models.Note, error) {
	actor, err := s.repos.Owners(s.db).GetByID(ctx, actorID)
	if err != nil || !actor.IsAdmin {
		return nil, common.ErrUnauthorized
	}
	return s.repos.Notes(s.db).ListFlagged(ctx, flaggedQueueLimit)
}
