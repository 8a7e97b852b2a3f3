package repository

import (
	"context"
	"database/sql"
	"errors"

	"techblog/internal/models"
)

// Sentinel errors surfaced by repositories. Services translate them
// into their own domain errors where needed.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

type Users interface {
	Create(ctx context.Context, name, passwordHash string) (int, error)
	GetByName(ctx context.Context, name string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
}

// PostUpdate carries the mutable post fields. Cover is a pointer so
// callers can leave the stored cover untouched when no new upload was
// supplied.
type PostUpdate struct {
	Title     string
	Summary   string
	Content   string
	ImgCredit string
	Cover     *string
}

type Posts interface {
	List(ctx context.Context) ([]models.Post, error)
	GetByID(ctx context.Context, id int) (*models.Post, error)
	Create(ctx context.Context, p *models.Post) (*models.Post, error)
	Update(ctx context.Context, id int, upd PostUpdate) (*models.Post, error)
	Delete(ctx context.Context, id int) error
}

type Repository struct {
	Users Users
	Posts Posts
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users: NewUserPostgres(db),
		Posts: NewPostPostgres(db),
	}
}
