package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"mydiary/internal/common"
	"mydiary/internal/dbx"
	"mydiary/internal/server/models"
	notesrepo "mydiary/internal/server/repositories/notes"
	ownersrepo "mydiary/internal/server/repositories/owners"
)

// --- helpers shared by the service tests ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type fakeOwnersRepo struct {
	createOut *models.Owner
	createErr error
	created   *models.Owner

	byHandle     map[string]*models.Owner
	getHandleErr error

	byID     map[string]*models.Owner
	getIDErr error

	updateErr    error
	updatedBio   string
	updatedTheme string

	searchOut   []*models.Owner
	searchErr   error
	searchQ     string
	searchCalls int

	trendingOut   []*models.TrendingOwner
	trendingLimit int
}

func (f *fakeOwnersRepo) Create(ctx context.Context, owner *models.Owner) (*models.Owner, error) {
	f.created = owner
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	out := *owner
	out.ID = "owner-1"
	return &out, nil
}

func (f *fakeOwnersRepo) GetByHandle(ctx context.Context, handle string) (*models.Owner, error) {
	if f.getHandleErr != nil {
		return nil, f.getHandleErr
	}
	if o, ok := f.byHandle[handle]; ok {
		return o, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeOwnersRepo) GetByID(ctx context.Context, id string) (*models.Owner, error) {
	if f.getIDErr != nil {
		return nil, f.getIDErr
	}
	if o, ok := f.byID[id]; ok {
		return o, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeOwnersRepo) UpdateProfile(ctx context.Context, id, bio, theme string) error {
	f.updatedBio = bio
	f.updatedTheme = theme
	return f.updateErr
}

func (f *fakeOwnersRepo) Search(ctx context.Context, q string, limit int) ([]*models.Owner, error) {
	f.searchQ = q
	f.searchCalls++
	return f.searchOut, f.searchErr
}

func (f *fakeOwnersRepo) Trending(ctx context.Context, limit int) ([]*models.TrendingOwner, error) {
	f.trendingLimit = limit
	return f.trendingOut, nil
}

type fakeNotesRepo struct {
	createErr error
	created   *models.Note

	getOut *models.Note
	getErr error

	updateOK   bool
	updateErr  error
	updateFrom models.Status
	updateTo   models.Status

	deleteOK  bool
	deleteErr error

	flagOK  bool
	flagErr error

	readOK  bool
	readErr error

	incrOut models.Reactions
	incrErr error

	listVisibleOut    []*models.Note
	listVisibleErr    error
	listVisibleCursor notesrepo.Cursor
	listVisibleCalls  int

	listByOwnerOut []*models.Note
	countsOut      map[models.Status]int64
	totalOut       int64

	flaggedOut []*models.Note
}

func (f *fakeNotesRepo) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	f.created = note
	if f.createErr != nil {
		return nil, f.createErr
	}
	out := *note
	out.ID = 1
	return &out, nil
}

func (f *fakeNotesRepo) GetByID(ctx context.Context, id int64) (*models.Note, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.getOut == nil {
		return nil, common.ErrNotFound
	}
	out := *f.getOut
	return &out, nil
}

func (f *fakeNotesRepo) UpdateStatus(ctx context.Context, id int64, from, to models.Status) (bool, error) {
	f.updateFrom = from
	f.updateTo = to
	return f.updateOK, f.updateErr
}

func (f *fakeNotesRepo) Delete(ctx context.Context, id int64) (bool, error) {
	return f.deleteOK, f.deleteErr
}

func (f *fakeNotesRepo) SetFlagged(ctx context.Context, id int64) (bool, error) {
	return f.flagOK, f.flagErr
}

func (f *fakeNotesRepo) SetRead(ctx context.Context, id int64) (bool, error) {
	return f.readOK, f.readErr
}

func (f *fakeNotesRepo) IncrementReaction(ctx context.Context, id int64, t models.ReactionType) (models.Reactions, error) {
	return f.incrOut, f.incrErr
}

func (f *fakeNotesRepo) ListVisible(ctx context.Context, ownerID string, cursor notesrepo.Cursor, limit int) ([]*models.Note, error) {
	f.listVisibleCursor = cursor
	f.listVisibleCalls++
	return f.listVisibleOut, f.listVisibleErr
}

func (f *fakeNotesRepo) ListByOwner(ctx context.Context, ownerID string, status *models.Status, limit int) ([]*models.Note, error) {
	return f.listByOwnerOut, nil
}

func (f *fakeNotesRepo) CountByStatus(ctx context.Context, ownerID string) (map[models.Status]int64, error) {
	return f.countsOut, nil
}

func (f *fakeNotesRepo) TotalReactions(ctx context.Context, ownerID string) (int64, error) {
	return f.totalOut, nil
}

func (f *fakeNotesRepo) ListFlagged(ctx context.Context, limit int) ([]*models.Note, error) {
	return f.flaggedOut, nil
}

type fakeRepoManager struct {
	o *fakeOwnersRepo
	n *fakeNotesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Owners(db dbx.DBTX) ownersrepo.Repository    { return m.o }
func (m *fakeRepoManager) Notes(db dbx.DBTX) notesrepo.Repository      { return m.n }
