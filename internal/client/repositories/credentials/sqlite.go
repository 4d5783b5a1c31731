package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/talentdesk/internal/dbx"
)

// SQLiteRepository keeps the credential in the single-row session table of
// the local cache database.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Load(ctx context.Context) (*Record, error) {
	var rec Record
	var savedAt string
	err := r.db.QueryRowContext(ctx,
		`SELECT token, email, saved_at FROM session WHERE id = 1`,
	).Scan(&rec.Token, &rec.Email, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session credential: %w", err)
	}
	if t, perr := time.Parse(time.RFC3339Nano, savedAt); perr == nil {
		rec.SavedAt = t
	}
	return &rec, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, rec Record) error {
	// Replace-not-upsert keeps the table single-row even after a schema
	// of past versions left strays behind.
	err := dbx.WithTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM session`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO session (id, token, email, saved_at) VALUES (1, ?, ?, ?)`,
			rec.Token, rec.Email, rec.SavedAt.Format(time.RFC3339Nano),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to save session credential: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("failed to clear session credential: %w", err)
	}
	return nil
}
