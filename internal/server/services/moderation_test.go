package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"mydiary/internal/cache"
	"mydiary/internal/common"
	"mydiary/internal/server/models"
)

func newModerationService(t *testing.T, db *sql.DB, rm *fakeRepoManager) (*ModerationService, *cache.ListingCache) {
	t.Helper()
	listings := cache.NewListingCache(16, time.Minute)
	return NewModerationService(db, rm, listings), listings
}

func moderationRepos(status models.Status) *fakeRepoManager {
	return &fakeRepoManager{
		o: &fakeOwnersRepo{byID: map[string]*models.Owner{
			"owner-1": {ID: "owner-1", Handle: "alice"},
			"admin-1": {ID: "admin-1", Handle: "mod", IsAdmin: true},
			"rando-1": {ID: "rando-1", Handle: "rando"},
		}},
		n: &fakeNotesRepo{
			getOut:   &models.Note{ID: 7, OwnerID: "owner-1", Status: status},
			updateOK: true,
			deleteOK: true,
		},
	}
}

func TestTransition_ApprovePending(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := moderationRepos(models.StatusPending)
	s, listings := newModerationService(t, db, rm)
	listings.Put("alice", &cache.Listing{})

	note, err := s.Transition(context.Background(), 7, "owner-1", models.EventApprove)
	if err != nil {
		t.Fatalf("Transition error: %v", err)
	}
	if note.Status != models.StatusApproved {
		t.Fatalf("want approved, got %s", note.Status)
	}
	if rm.n.updateFrom != models.StatusPending || rm.n.updateTo != models.StatusApproved {
		t.Fatalf("unexpected compare-and-set: %s -> %s", rm.n.updateFrom, rm.n.updateTo)
	}
	if _, ok := listings.Get("alice"); ok {
		t.Fatal("public listing cache not invalidated")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestTransition_ApproveArchived(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	s, _ := newModerationService(t, db, moderationRepos(models.StatusArchived))

	_, err := s.Transition(context.Background(), 7, "owner-1", models.EventApprove)
	if !errors.Is(err, common.ErrInvalidTransition) {
		t.Fatalf("want ErrInvalidTransition, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestTransition_StrangerDenied(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := moderationRepos(models.StatusPending)
	s, _ := newModerationService(t, db, rm)

	_, err := s.Transition(context.Background(), 7, "rando-1", models.EventApprove)
	if !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
	if rm.n.updateTo != "" {
		t.Fatal("rejected actor must not mutate state")
	}
}

func TestTransition_AdminAllowed(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	s, _ := newModerationService(t, db, moderationRepos(models.StatusPending))

	note, err := s.Transition(context.Background(), 7, "admin-1", models.EventApprove)
	if err != nil {
		t.Fatalf("Transition error: %v", err)
	}
	if note.Status != models.StatusApproved {
		t.Fatalf("want approved, got %s", note.Status)
	}
}

func TestTransition_DeleteFromAnyStatus(t *testing.T) {
	for _, status := range []models.Status{models.StatusPending, models.StatusApproved, models.StatusArchived} {
		t.Run(string(status), func(t *testing.T) {
			db, mock := newSQLMockDB(t)
			defer db.Close()
			mock.ExpectBegin()
			mock.ExpectCommit()

			s, listings := newModerationService(t, db, moderationRepos(status))
			listings.Put("alice", &cache.Listing{})

			note, err := s.Transition(context.Background(), 7, "owner-1", models.EventDelete)
			if err != nil {
				t.Fatalf("Transition error: %v", err)
			}
			if note != nil {
				t.Fatalf("deleted note should be gone, got %+v", note)
			}
			if _, ok := listings.Get("alice"); ok {
				t.Fatal("public listing cache not invalidated")
			}
		})
	}
}

func TestTransition_LostRace(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := moderationRepos(models.StatusPending)
	rm.n.updateOK = false
	s, _ := newModerationService(t, db, rm)

	_, err := s.Transition(context.Background(), 7, "owner-1", models.EventApprove)
	if !errors.Is(err, common.ErrInvalidTransition) {
		t.Fatalf("want ErrInvalidTransition, got %v", err)
	}
}

func TestTransition_UnknownEvent(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	s, _ := newModerationService(t, db, moderationRepos(models.StatusPending))

	_, err := s.Transition(context.Background(), 7, "owner-1", models.Event("promote"))
	if !errors.Is(err, common.ErrInvalidTransition) {
		t.Fatalf("want ErrInvalidTransition, got %v", err)
	}
}

func TestTransition_MissingNote(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := moderationRepos(models.StatusPending)
	rm.n.getOut = nil
	s, _ := newModerationService(t, db, rm)

	_, err := s.Transition(context.Background(), 404, "owner-1", models.EventApprove)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestFlag(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := moderationRepos(models.StatusApproved)
	rm.n.flagOK = true
	s, _ := newModerationService(t, db, rm)

	if err := s.Flag(context.Background(), 7); err != nil {
		t.Fatalf("Flag error: %v", err)
	}

	rm.n.flagOK = false
	if err := s.Flag(context.Background(), 404); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestReact_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := moderationRepos(models.StatusApproved)
	rm.n.incrOut = models.Reactions{Heart: 3, Laugh: 1}
	s, listings := newModerationService(t, db, rm)
	listings.Put("alice", &cache.Listing{})

	counts, err := s.React(context.Background(), 7, models.ReactionHeart)
	if err != nil {
		t.Fatalf("React error: %v", err)
	}
	if counts.Heart != 3 || counts.Total() != 4 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
	if _, ok := listings.Get("alice"); ok {
		t.Fatal("public listing cache not invalidated")
	}
}

func TestReact_InvalidType(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	s, _ := newModerationService(t, db, moderationRepos(models.StatusApproved))

	if _, err := s.React(context.Background(), 7, models.ReactionType("yikes")); !errors.Is(err, common.ErrInvalidReactionType) {
		t.Fatalf("want ErrInvalidReactionType, got %v", err)
	}
}

func TestReact_NotApproved(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := moderationRepos(models.StatusPending)
	rm.n.incrErr = common.ErrNotFound
	s, _ := newModerationService(t, db, rm)

	if _, err := s.React(context.Background(), 7, models.ReactionHeart); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestMarkRead(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := moderationRepos(models.StatusPending)
	rm.n.readOK = true
	s, _ := newModerationService(t, db, rm)

	if err := s.MarkRead(context.Background(), 7, "owner-1"); err != nil {
		t.Fatalf("MarkRead error: %v", err)
	}
	if err := s.MarkRead(context.Background(), 7, "rando-1"); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
}

func TestListFlagged(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := moderationRepos(models.StatusApproved)
	rm.n.flaggedOut = []*models.Note{{ID: 7, Flagged: true}}
	s, _ := newModerationService(t, db, rm)

	out, err := s.ListFlagged(context.Background(), "admin-1")
	if err != nil {
		t.Fatalf("ListFlagged error: %v", err)
	}
	if len(out) != 1 || !out[0].Flagged {
		t.Fatalf("unexpected queue: %+v", out)
	}

	if _, err := s.ListFlagged(context.Background(), "owner-1"); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
}
