package urls

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqlite3 "github.com/mattn/go-sqlite3"

	"snipr/internal/engine/alias"
)

var (
	ErrNotFound        = errors.New("shortened URL not found")
	ErrAliasTaken      = errors.New("alias already in use")
	ErrTargetTaken     = errors.New("target URL already registered")
	ErrMultipleTargets = errors.New("multiple rows registered for one target URL")
)

// Store is the persistence boundary the registry depends on.
type Store interface {
	FindByTarget(ctx context.Context, target string) (*TargetURL, error)
	Insert(ctx context.Context, u *TargetURL) error
}

// Repository persists shortened URLs in sqlite. The alias column holds
// the integer form only; string forms are derived through the codec on
// read and never written.
type Repository struct {
	db    *sql.DB
	codec *alias.Codec
}

func NewRepository(db *sql.DB, codec *alias.Codec) *Repository {
	return &Repository{db: db, codec: codec}
}

// GetByAlias looks a row up by its primary key.
func (r *Repository) GetByAlias(ctx context.Context, a *alias.Alias) (*TargetURL, error) {
	query := `SELECT alias, target, created_at FROM urls WHERE alias = ?`
	return r.scanURL(r.db.QueryRowContext(ctx, query, a.Int()))
}

// FindByTarget returns the row registered for target, ErrNotFound when
// there is none, and ErrMultipleTargets if the uniqueness the schema
// promises has been violated.
func (r *Repository) FindByTarget(ctx context.Context, target string) (*TargetURL, error) {
	query := `SELECT alias, target, created_at FROM urls WHERE target = ?`
	rows, err := r.db.QueryContext(ctx, query, target)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var found *TargetURL
	for rows.Next() {
		if found != nil {
			return nil, fmt.Errorf("%w: %q", ErrMultipleTargets, target)
		}
		found, err = r.scanURL(rows)
		if err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

// Insert commits one new row in its own transaction. Uniqueness
// violations are translated so the caller can tell an alias collision
// (primary key) from a concurrently registered target (unique index).
func (r *Repository) Insert(ctx context.Context, u *TargetURL) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	query := `INSERT INTO urls (alias, target, created_at) VALUES (?, ?, ?)`
	if _, err := tx.ExecContext(ctx, query, u.Alias.Int(), u.Target, u.CreatedAt); err != nil {
		tx.Rollback()
		return constraintError(err)
	}
	if err := tx.Commit(); err != nil {
		return constraintError(err)
	}
	return nil
}

func constraintError(err error) error {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		switch serr.ExtendedCode {
		case sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %v", ErrAliasTaken, err)
		case sqlite3.ErrConstraintUnique:
			return fmt.Errorf("%w: %v", ErrTargetTaken, err)
		}
	}
	return err
}

func (r *Repository) scanURL(s interface {
	Scan(dest ...interface{}) error
}) (*TargetURL, error) {
	var (
		n         int64
		target    string
		createdAt int64
	)
	err := s.Scan(&n, &target, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	a, err := r.codec.FromInt(n)
	if err != nil {
		return nil, err
	}
	return &TargetURL{Alias: a, Target: target, CreatedAt: createdAt}, nil
}
