package store

import (
	"context"
	"database/sql"
	"fmt"

	"freshmart/internal/checkout"
	"freshmart/internal/database"
)

// Store is the SQL-backed persistence layer. It is handed explicitly to the
// checkout managers and the HTTP handlers rather than living in a package-level
// variable, so the transaction boundary stays visible at the call site.
type Store struct {
	db *database.DB
}

func New(db *database.DB) *Store {
	return &Store{db: db}
}

// queryer is satisfied by both *sql.DB and *sql.Tx so the row helpers
// can be shared between transactional and plain reads
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Tx is a transaction-scoped view of the store
type Tx struct {
	tx *sql.Tx
}

// InTx runs fn against a single database transaction. The commit is
// all-or-nothing: an error from fn rolls back every write made inside it.
func (s *Store) InTx(ctx context.Context, fn func(checkout.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&Tx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
