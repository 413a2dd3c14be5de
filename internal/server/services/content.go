package services

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mydiary/internal/abuse"
	"mydiary/internal/cache"
	"mydiary/internal/common"
	"mydiary/internal/server/config"
	"mydiary/internal/server/models"
	"mydiary/internal/server/repositories/notes"
	"mydiary/internal/server/repositories/repomanager"
)

// SubmitPayload carries a visitor's (or the owner's own) submission.
type SubmitPayload struct {
	Message    string
	SenderName string
	Anonymous  bool
	Private    bool
	Category   models.Category
}

// Page is one public listing page plus the cursor for the next one. An
// empty NextCursor means the listing is exhausted.
type Page struct {
	Notes      []*models.Note
	NextCursor string
}

// OwnerListing is the dashboard view of an owner's notes: the filtered
// items plus counts grouped by status and total engagement.
type OwnerListing struct {
	Notes          []*models.Note
	Counts         map[models.Status]int64
	TotalReactions int64
}

// ownerDashboardLimit caps how many notes one dashboard request returns.
const ownerDashboardLimit = 200

// ContentService handles submission and the visibility rules for listings.
type ContentService struct {
	db         *sql.DB
	repos      repomanager.RepositoryManager
	noteFilter *abuse.Filter
	nameFilter *abuse.Filter
	limiter    *abuse.Limiter
	listings   *cache.ListingCache
	pageSize   int
}

// NewContentService constructs a ContentService using repositories, the
// shared listing cache, and server config.
func NewContentService(db *sql.DB, m repomanager.RepositoryManager, listings *cache.ListingCache, cfg *config.Config) *ContentService {
	return &ContentService{
		db:         db,
		repos:      m,
		noteFilter: abuse.NewFilter(cfg.NoteMinLen, cfg.NoteMaxLen, cfg.Denylist),
		nameFilter: abuse.NewFilter(0, 100, cfg.Denylist),
		limiter:    abuse.NewLimiter(cfg.MessageCooldown, cfg.DailySubmissionCap),
		listings:   listings,
		pageSize:   cfg.PageSize,
	}
}

// Submit validates, rate-limits, sanitizes, and stores a submission to the
// given handle. submitterHash identifies the submitter (hashed IP);
// actorID is the authenticated owner id, or empty for anonymous visitors.
// When the page owner posts to their own page the note is a diary entry:
// it skips the rate limit and starts out approved.
func (s *ContentService) Submit(ctx context.Context, handle string, p SubmitPayload, submitterHash, actorID string) (*models.Note, error) {
	owner, err := s.repos.Owners(s.db).GetByHandle(ctx, strings.ToLower(strings.TrimSpace(handle)))
	if err != nil {
		return nil, err
	}

	message, err := s.noteFilter.Evaluate(p.Message)
	if err != nil {
		return nil, err
	}
	senderName, err := s.nameFilter.EvaluateOptional(p.SenderName)
	if err != nil {
		return nil, err
	}
	category := p.Category
	if category == "" {
		category = models.CategoryGeneral
	}
	if !models.ValidCategory(category) {
		category = models.CategoryGeneral
	}

	isOwnerPost := actorID != "" && actorID == owner.ID
	if !isOwnerPost {
		if err := s.limiter.Allow(submitterHash, owner.ID); err != nil {
			return nil, err
		}
	}

	note := &models.Note{
		OwnerID:       owner.ID,
		Message:       message,
		SenderName:    senderName,
		Anonymous:     p.Anonymous,
		Private:       p.Private,
		Category:      category,
		Status:        models.StatusPending,
		SubmitterHash: submitterHash,
	}
	if p.Anonymous {
		note.SenderName = ""
	}
	if isOwnerPost {
		note.Status = models.StatusApproved
		note.Read = true
	}

	created, err := s.repos.Notes(s.db).Create(ctx, note)
	if err != nil {
		return nil, fmt.Errorf("error creating note: %w", err)
	}

	// an owner post is visible immediately, so the cached public page is stale
	if isOwnerPost {
		s.listings.Invalidate(owner.Handle)
	}

	return created, nil
}

// ListPublic returns one page of the owner's publicly visible notes, newest
// first. The first page is served through the listing cache.
func (s *ContentService) ListPublic(ctx context.Context, handle, cursorToken string) (*Page, error) {
	h := strings.ToLower(strings.TrimSpace(handle))

	cursor := decodeCursor(cursorToken)
	firstPage := cursor.Zero()

	if firstPage {
		if cached, ok := s.listings.Get(h); ok {
			return &Page{Notes: cached.Notes, NextCursor: cached.NextCursor}, nil
		}
	}

	owner, err := s.repos.Owners(s.db).GetByHandle(ctx, h)
	if err != nil {
		return nil, err
	}

	items, err := s.repos.Notes(s.db).ListVisible(ctx, owner.ID, cursor, s.pageSize)
	if err != nil {
		return nil, err
	}

	page := &Page{Notes: items}
	if len(items) == s.pageSize {
		last := items[len(items)-1]
		page.NextCursor = encodeCursor(notes.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	if firstPage {
		s.listings.Put(h, &cache.Listing{Notes: page.Notes, NextCursor: page.NextCursor})
	}

	return page, nil
}

// ListByOwner returns the actor's dashboard listing, optionally filtered by
// status. Only the page owner or an admin may call it.
func (s *ContentService) ListByOwner(ctx context.Context, handle string, statusFilter *models.Status, actorID string) (*OwnerListing, error) {
	ownersRepo := s.repos.Owners(s.db)

	owner, err := ownersRepo.GetByHandle(ctx, strings.ToLower(strings.TrimSpace(handle)))
	if err != nil {
		return nil, err
	}

	if owner.ID != actorID {
		actor, err := ownersRepo.GetByID(ctx, actorID)
		if err != nil || !actor.IsAdmin {
			return nil, common.ErrUnauthorized
		}
	}

	if statusFilter != nil && !models.ValidStatus(*statusFilter) {
		return nil, common.ErrInvalidStatus
	}

	notesRepo := s.repos.Notes(s.db)
	items, err := notesRepo.ListByOwner(ctx, owner.ID, statusFilter, ownerDashboardLimit)
	if err != nil {
		return nil, err
	}
	counts, err := notesRepo.CountByStatus(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	total, err := notesRepo.TotalReactions(ctx, owner.ID)
	if err != nil {
		return nil, err
	}

	return &OwnerListing{Notes: items, Counts: counts, TotalReactions: total}, nil
}

// encodeCursor packs a keyset position into an opaque page token.
func encodeCursor(c notes.Cursor) string {
	raw := strconv.FormatInt(c.CreatedAt.UnixNano(), 10) + ":" + strconv.FormatInt(c.ID, 10)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// decodeCursor unpacks a page token. Malformed tokens fall back to the
// start of the listing rather than failing the request.
func decodeCursor(token string) notes.Cursor {
	if token == "" {
		return notes.Cursor{}
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return notes.Cursor{}
	}
	parts := strings.SplitN(string(raw), ":", 2)
	if len(parts) != 2 {
		return notes.Cursor{}
	}
	nanos, err1 := strconv.ParseInt(parts[0], 10, 64)
	id, err2 := strconv.ParseInt(parts[1], 10, 64)
	if err1 != nil || err2 != nil || id <= 0 {
		return notes.Cursor{}
	}
	return notes.Cursor{CreatedAt: time.Unix(0, nanos).UTC(), ID: id}
}
