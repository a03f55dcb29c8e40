package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes the repositories translate into domain errors
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNumericOutOfRange   = "22003"
)

// ErrValueOutOfRange is returned when a write would overflow a stock or
// money column
var ErrValueOutOfRange = errors.New("value out of range")

// Querier is the subset of *sql.DB and *sql.Tx the repositories need
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store hands out repositories bound to one connection scope. Inside WithTx
// every repository returned by the inner Store runs in the same transaction.
type Store interface {
	Products() ProductRepository
	Customers() CustomerRepository
	Orders() OrderRepository

	// WithTx runs fn in a transaction. It commits when fn returns nil and
	// rolls back otherwise, so nothing fn wrote is visible on failure.
	WithTx(ctx context.Context, fn func(Store) error) error
}

type sqlStore struct {
	db *sql.DB
	q  Querier
}

// NewStore creates a Store over the pool
func NewStore(db *sql.DB) Store {
	return &sqlStore{db: db, q: db}
}

func (s *sqlStore) Products() ProductRepository {
	return &productRepository{db: s.q}
}

func (s *sqlStore) Customers() CustomerRepository {
	return &customerRepository{db: s.q}
}

func (s *sqlStore) Orders() OrderRepository {
	return &orderRepository{db: s.q}
}

func (s *sqlStore) WithTx(ctx context.Context, fn func(Store) error) error {
	// Already inside a transaction: join it
	if _, ok := s.q.(*sql.Tx); ok {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}

	if err := fn(&sqlStore{db: s.db, q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("failed to rollback tx: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tx: %w", err)
	}
	return nil
}

// pgErrorCode returns the SQLSTATE of a postgres error, or "" for anything else
func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == pgUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	return pgErrorCode(err) == pgForeignKeyViolation
}

// outOfRange replaces a numeric overflow with ErrValueOutOfRange
func outOfRange(err error) error {
	if pgErrorCode(err) == pgNumericOutOfRange {
		return ErrValueOutOfRange
	}
	return err
}

// Page is a skip/limit window over a listing
type Page struct {
	Skip  int
	Limit int
}
