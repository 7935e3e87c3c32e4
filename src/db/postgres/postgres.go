package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"pocketbook-server/src/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

const uniqueViolation = "23505"

type Store struct {
	pool *pgxpool.Pool
}

var _ db.Store = (*Store)(nil)

func Connect(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &Store{pool: pool}, nil
}

// Migrate creates any missing tables and indexes.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) DeleteAllData(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		TRUNCATE category_rules, bills, goals, budgets, transactions, categories, accounts, users
	`)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return db.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", db.ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}

func expectOne(cmd pgconn.CommandTag, err error) error {
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}
