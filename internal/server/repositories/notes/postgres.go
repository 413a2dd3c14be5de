package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mydiary/internal/common"
	"mydiary/internal/dbx"
	"mydiary/internal/server/models"
)

// PostgresRepository implements note storage over a dbx.DBTX (*sql.DB or
// *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const noteColumns = `id, owner_id, message, sender_name, anonymous, private, category, status,
		heart_count, laugh_count, wow_count, flagged, is_read, submitter_hash, created_at`

func scanNote(scan func(dest ...any) error) (*models.Note, error) {
	n := &models.Note{}
	err := scan(
		&n.ID, &n.OwnerID, &n.Message, &n.SenderName, &n.Anonymous, &n.Private, &n.Category, &n.Status,
		&n.Reactions.Heart, &n.Reactions.Laugh, &n.Reactions.Wow, &n.Flagged, &n.Read, &n.SubmitterHash, &n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func collectNotes(rows *sql.Rows) ([]*models.Note, error) {
	defer rows.Close()
	var result []*models.Note
	for rows.Next() {
		n, err := scanNote(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Create inserts a note and fills in its generated id and creation time.
func (r *PostgresRepository) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	query := `
		INSERT INTO notes (owner_id, message, sender_name, anonymous, private, category, status, is_read, submitter_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		note.OwnerID, note.Message, note.SenderName, note.Anonymous, note.Private,
		note.Category, note.Status, note.Read, note.SubmitterHash,
	).Scan(&note.ID, &note.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return note, nil
}

// GetByID returns a note by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1`
	n, err := scanNote(r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// UpdateStatus moves a note from one status to another as a single
// compare-and-set; a false return means the row was absent or had already
// moved on.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, from, to models.Status) (bool, error) {
	query := `UPDATE notes SET status = $3 WHERE id = $1 AND status = $2`
	res, err := r.db.ExecContext(ctx, query, id, from, to)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n == 1, nil
}

// Delete hard-deletes a note.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n == 1, nil
}

// SetFlagged marks a note as abuse-reported.
func (r *PostgresRepository) SetFlagged(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE notes SET flagged = true WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n == 1, nil
}

// SetRead marks a note as viewed by its owner.
func (r *PostgresRepository) SetRead(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE notes SET is_read = true WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n == 1, nil
}

// reactionColumn maps a validated reaction type to its counter column. The
// caller must have checked models.ValidReactionType; anything else panics
// rather than reaching the query string.
func reactionColumn(t models.ReactionType) string {
	switch t {
	case models.ReactionHeart:
		return "heart_count"
	case models.ReactionLaugh:
		return "laugh_count"
	case models.ReactionWow:
		return "wow_count"
	}
	panic("unknown reaction type: " + string(t))
}

// IncrementReaction bumps one counter of an approved note in a single
// statement, so concurrent reactions are never lost.
func (r *PostgresRepository) IncrementReaction(ctx context.Context, id int64, t models.ReactionType) (models.Reactions, error) {
	col := reactionColumn(t)
	query := fmt.Sprintf(`
		UPDATE notes SET %s = %s + 1
		WHERE id = $1 AND status = 'approved'
		RETURNING heart_count, laugh_count, wow_count
	`, col, col)

	var counts models.Reactions
	err := r.db.QueryRowContext(ctx, query, id).Scan(&counts.Heart, &counts.Laugh, &counts.Wow)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Reactions{}, common.ErrNotFound
		}
		return models.Reactions{}, fmt.Errorf("db error: %w", err)
	}
	return counts, nil
}

// ListVisible returns publicly visible notes newest first, keyset-paginated
// on (created_at, id) so pages stay stable under concurrent inserts.
func (r *PostgresRepository) ListVisible(ctx context.Context, ownerID string, cursor Cursor, limit int) ([]*models.Note, error) {
	query := `
		SELECT ` + noteColumns + `
		FROM notes
		WHERE owner_id = $1 AND status = 'approved' AND NOT private
		  AND ($2 OR (created_at, id) < ($3, $4))
		ORDER BY created_at DESC, id DESC
		LIMIT $5
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID, cursor.Zero(), cursor.CreatedAt, cursor.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return collectNotes(rows)
}

// ListByOwner returns an owner's notes newest first, optionally filtered by
// status.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string, status *models.Status, limit int) ([]*models.Note, error) {
	query := `
		SELECT ` + noteColumns + `
		FROM notes
		WHERE owner_id = $1 AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`
	var statusArg any
	if status != nil {
		statusArg = string(*status)
	}
	rows, err := r.db.QueryContext(ctx, query, ownerID, statusArg, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return collectNotes(rows)
}

// CountByStatus returns the owner's note counts grouped by status. Statuses
// with no notes are absent from the map.
func (r *PostgresRepository) CountByStatus(ctx context.Context, ownerID string) (map[models.Status]int64, error) {
	query := `SELECT status, count(*) FROM notes WHERE owner_id = $1 GROUP BY status`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Status]int64)
	for rows.Next() {
		var s models.Status
		var n int64
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		counts[s] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

// TotalReactions sums all reaction counters across the owner's approved
// notes.
func (r *PostgresRepository) TotalReactions(ctx context.Context, ownerID string) (int64, error) {
	query := `
		SELECT coalesce(sum(heart_count + laugh_count + wow_count), 0)
		FROM notes
		WHERE owner_id = $1 AND status = 'approved'
	`
	var total int64
	if err := r.db.QueryRowContext(ctx, query, ownerID).Scan(&total); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return total, nil
}

// ListFlagged returns flagged notes across all owners, newest first.
func (r *PostgresRepository) ListFlagged(ctx context.Context, limit int) ([]*models.Note, error) {
	query := `
		SELECT ` + noteColumns + `
		FROM notes
		WHERE flagged
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return collectNotes(rows)
}
