package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"techblog/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
)

type UserPostgres struct {
	db *sql.DB
}

func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

// Ensure implementation of Users interface at compile time.
var _ Users = (*UserPostgres)(nil)

const (
	insertUserSQL       = `INSERT INTO users (name, password_hash) VALUES ($1, $2) RETURNING id`
	selectUserByNameSQL = `SELECT id, name, password_hash FROM users WHERE name = $1`
	selectUserByIDSQL   = `SELECT id, name, password_hash FROM users WHERE id = $1`
)

// pgUniqueViolation is the Postgres error code for a unique constraint breach.
const pgUniqueViolation = "23505"

// Create inserts a new user and returns its ID. A name collision is
// reported as ErrDuplicate.
func (r *UserPostgres) Create(ctx context.Context, name, passwordHash string) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx, insertUserSQL, name, passwordHash).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return 0, fmt.Errorf("insert user %q: %w", name, ErrDuplicate)
		}
		return 0, fmt.Errorf("insert user %q: %w", name, err)
	}
	return id, nil
}

// GetByName fetches a user by name. Returns ErrNotFound if absent.
func (r *UserPostgres) GetByName(ctx context.Context, name string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, selectUserByNameSQL, name).Scan(&u.ID, &u.Name, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select user %q: %w", name, err)
	}
	return &u, nil
}

// GetByID fetches a user by ID. Returns ErrNotFound if absent.
func (r *UserPostgres) GetByID(ctx context.Context, id int) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, selectUserByIDSQL, id).Scan(&u.ID, &u.Name, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select user id=%d: %w", id, err)
	}
	return &u, nil
}
