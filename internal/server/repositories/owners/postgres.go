package owners

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"mydiary/internal/common"
	"mydiary/internal/dbx"
	"mydiary/internal/server/models"
)

// PostgresRepository implements owner storage over a dbx.DBTX (*sql.DB or
// *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new owner. Unique-constraint violations map to
// common.ErrHandleTaken / common.ErrEmailTaken.
func (r *PostgresRepository) Create(ctx context.Context, owner *models.Owner) (*models.Owner, error) {
	query := `
		INSERT INTO owners (handle, email, password_hash, bio, theme, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		owner.Handle, owner.Email, owner.PasswordHash, owner.Bio, owner.Theme, owner.IsAdmin,
	).Scan(&owner.ID, &owner.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if pgErr.ConstraintName == "owners_email_idx" {
				return nil, common.ErrEmailTaken
			}
			return nil, common.ErrHandleTaken
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return owner, nil
}

const ownerColumns = `id, handle, email, password_hash, bio, theme, is_admin, created_at`

func scanOwner(row *sql.Row) (*models.Owner, error) {
	o := &models.Owner{}
	err := row.Scan(&o.ID, &o.Handle, &o.Email, &o.PasswordHash, &o.Bio, &o.Theme, &o.IsAdmin, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return o, nil
}

// GetByHandle returns the owner claiming the given handle.
func (r *PostgresRepository) GetByHandle(ctx context.Context, handle string) (*models.Owner, error) {
	query := `SELECT ` + ownerColumns + ` FROM owners WHERE handle = $1`
	return scanOwner(r.db.QueryRowContext(ctx, query, handle))
}

// GetByID returns the owner with the given id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Owner, error) {
	query := `SELECT ` + ownerColumns + ` FROM owners WHERE id = $1`
	return scanOwner(r.db.QueryRowContext(ctx, query, id))
}

// UpdateProfile sets the owner's bio and theme.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, id, bio, theme string) error {
	query := `UPDATE owners SET bio = $2, theme = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, bio, theme)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Search returns up to limit owners whose handle contains q, shortest
// handles first so exact-ish matches surface early.
func (r *PostgresRepository) Search(ctx context.Context, q string, limit int) ([]*models.Owner, error) {
	query := `
		SELECT ` + ownerColumns + `
		FROM owners
		WHERE handle LIKE '%' || $1 || '%'
		ORDER BY length(handle), handle
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, q, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Owner
	for rows.Next() {
		o := &models.Owner{}
		if err := rows.Scan(&o.ID, &o.Handle, &o.Email, &o.PasswordHash, &o.Bio, &o.Theme, &o.IsAdmin, &o.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Trending returns up to limit owners ranked by approved note count.
func (r *PostgresRepository) Trending(ctx context.Context, limit int) ([]*models.TrendingOwner, error) {
	query := `
		SELECT o.handle, o.bio, o.theme, count(n.id) AS note_count
		FROM owners o
		JOIN notes n ON n.owner_id = o.id AND n.status = 'approved'
		GROUP BY o.id
		ORDER BY note_count DESC, o.handle
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.TrendingOwner
	for rows.Next() {
		o := &models.TrendingOwner{}
		if err := rows.Scan(&o.Handle, &o.Bio, &o.Theme, &o.NoteCount); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
