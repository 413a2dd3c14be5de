// Package services contains server-side business logic. This file implements
// OwnerService: claiming handles, registration, login, and profile updates.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"mydiary/internal/abuse"
	"mydiary/internal/common"
	"mydiary/internal/server/auth"
	"mydiary/internal/server/config"
	"mydiary/internal/server/models"
	"mydiary/internal/server/repositories/repomanager"
)

var handlePattern = regexp.MustCompile(`^[a-z0-9_]{3,30}$`)

// OwnerService provides account-related operations:
//   - Claim: passwordless page claim
//   - Register: full account with email and password
//   - Login: verify credentials and mint a session token
//   - UpdateProfile / GetByHandle / Search / Trending
type OwnerService struct {
	db              *sql.DB
	repos           repomanager.RepositoryManager
	bioFilter       *abuse.Filter
	jwtSecret       []byte
	sessionValidity time.Duration
}

// NewOwnerService constructs an OwnerService using repositories and server
// config.
func NewOwnerService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *OwnerService {
	return &OwnerService{
		db:              db,
		repos:           m,
		bioFilter:       abuse.NewFilter(0, cfg.BioMaxLen, cfg.Denylist),
		jwtSecret:       []byte(cfg.SecretKey),
		sessionValidity: cfg.SessionValidityDuration,
	}
}

// NormalizeHandle lowercases and trims a requested handle and validates it:
// 3–30 characters from [a-z0-9_].
func NormalizeHandle(handle string) (string, error) {
	h := strings.ToLower(strings.TrimSpace(handle))
	if !handlePattern.MatchString(h) {
		return "", common.ErrInvalidHandle
	}
	return h, nil
}

// Claim creates a passwordless owner for the given handle and returns it
// with a session token. The page is usable immediately; credentials can
// never be attached later, so Login rejects claimed pages.
func (s *OwnerService) Claim(ctx context.Context, handle string) (*models.Owner, string, error) {
	h, err := NormalizeHandle(handle)
	if err != nil {
		return nil, "", err
	}

	owner, err := s.repos.Owners(s.db).Create(ctx, &models.Owner{Handle: h, Theme: "bubblegum"})
	if err != nil {
		if errors.Is(err, common.ErrHandleTaken) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("error creating owner: %w", err)
	}

	token, err := s.sessionToken(owner.ID)
	if err != nil {
		return nil, "", err
	}
	return owner, token, nil
}

// Register creates an owner with credentials and returns it with a session
// token.
func (s *OwnerService) Register(ctx context.Context, handle, email, password string) (*models.Owner, string, error) {
	h, err := NormalizeHandle(handle)
	if err != nil {
		return nil, "", err
	}
	if email == "" || password == "" {
		return nil, "", common.ErrUnauthorized
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", common.ErrInternal
	}

	owner, err := s.repos.Owners(s.db).Create(ctx, &models.Owner{
		Handle:       h,
		Email:        email,
		PasswordHash: hash,
		Theme:        "bubblegum",
	})
	if err != nil {
		if errors.Is(err, common.ErrHandleTaken) || errors.Is(err, common.ErrEmailTaken) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("error creating owner: %w", err)
	}

	token, err := s.sessionToken(owner.ID)
	if err != nil {
		return nil, "", err
	}
	return owner, token, nil
}

// Login verifies the password for the handle and returns a session token.
// Missing owners and wrong passwords are indistinguishable to the caller.
func (s *OwnerService) Login(ctx context.Context, handle, password string) (string, error) {
	owner, err := s.repos.Owners(s.db).GetByHandle(ctx, strings.ToLower(strings.TrimSpace(handle)))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUnauthorized
		}
		return "", common.ErrInternal
	}
	// passwordless claimed pages cannot log in with a password
	if owner.PasswordHash == "" || !auth.CheckPassword(owner.PasswordHash, password) {
		return "", common.ErrUnauthorized
	}
	return s.sessionToken(owner.ID)
}

// UpdateProfile sets the actor's bio and theme. The bio runs through the
// abuse filter with the bio length bound.
func (s *OwnerService) UpdateProfile(ctx context.Context, actorID, bio, theme string) (*models.Owner, error) {
	sanitized, err := s.bioFilter.EvaluateOptional(bio)
	if err != nil {
		return nil, err
	}

	repo := s.repos.Owners(s.db)
	if err := repo.UpdateProfile(ctx, actorID, sanitized, theme); err != nil {
		return nil, err
	}
	return repo.GetByID(ctx, actorID)
}

// GetByHandle returns the owner claiming the given handle.
func (s *OwnerService) GetByHandle(ctx context.Context, handle string) (*models.Owner, error) {
	return s.repos.Owners(s.db).GetByHandle(ctx, strings.ToLower(strings.TrimSpace(handle)))
}

// GetByID returns the owner with the given id.
func (s *OwnerService) GetByID(ctx context.Context, id string) (*models.Owner, error) {
	return s.repos.Owners(s.db).GetByID(ctx, id)
}

// Search returns up to 10 owners whose handle contains q. An empty query
// returns no results.
func (s *OwnerService) Search(ctx context.Context, q string) ([]*models.Owner, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return nil, nil
	}
	return s.repos.Owners(s.db).Search(ctx, q, 10)
}

// Trending returns owners ranked by approved note count.
func (s *OwnerService) Trending(ctx context.Context, limit int) ([]*models.TrendingOwner, error) {
	if limit <= 0 || limit > 50 {
		limit = 12
	}
	return s.repos.Owners(s.db).Trending(ctx, limit)
}

func (s *OwnerService) sessionToken(ownerID string) (string, error) {
	token, err := auth.GenerateToken(ownerID, s.jwtSecret, s.sessionValidity)
	if err != nil {
		return "", common.ErrInternal
	}
	return token, nil
}
