package service

import (
	"context"
	"io"
	"time"

	"techblog/internal/models"
	"techblog/internal/repository"
	"techblog/internal/storage"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (*models.User, error)
	SignIn(ctx context.Context, username, password string) (string, *models.User, error)
	ParseToken(accessToken string) (*Claims, error)
}

// Upload is a file streamed in from a multipart request.
type Upload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

// PostInput carries the text fields of a post create/update request.
type PostInput struct {
	Title     string
	Summary   string
	Content   string
	ImgCredit string
}

// Posts exposes the blog operations. Mutations take the acting user's
// id and enforce that only the author may change or remove a post.
type Posts interface {
	List(ctx context.Context) ([]models.Post, error)
	GetByID(ctx context.Context, id int) (*models.Post, error)
	Create(ctx context.Context, authorID int, in PostInput, cover Upload) (*models.Post, error)
	Update(ctx context.Context, actorID, id int, in PostInput, cover *Upload) (*models.Post, error)
	Delete(ctx context.Context, actorID, id int) error
}

// AuthConfig holds the token-signing settings loaded at startup.
type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

type Service struct {
	Authorization
	Posts
}

func NewService(repos *repository.Repository, store storage.ObjectStore, authCfg AuthConfig) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Users, authCfg),
		Posts:         NewPostService(repos.Posts, store),
	}
}
