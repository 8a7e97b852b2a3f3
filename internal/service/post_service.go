package service

import (
	"context"
	"errors"
	"fmt"

	"techblog/internal/models"
	"techblog/internal/repository"
	"techblog/internal/storage"
)

// Domain errors for post flows.
var (
	ErrPostNotFound = errors.New("post not found")
	ErrNotAuthor    = errors.New("not the author of this post")
)

// PostService owns the ownership guard and the cover-image lifecycle
// around the post repository.
type PostService struct {
	posts repository.Posts
	store storage.ObjectStore
}

func NewPostService(posts repository.Posts, store storage.ObjectStore) *PostService {
	return &PostService{posts: posts, store: store}
}

func (s *PostService) List(ctx context.Context) ([]models.Post, error) {
	return s.posts.List(ctx)
}

func (s *PostService) GetByID(ctx context.Context, id int) (*models.Post, error) {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return p, nil
}

// Create stores the cover first, then writes the post row with the
// acting user as its immutable author. If the row write fails the
// uploaded object is orphaned; no compensating delete is attempted.
func (s *PostService) Create(ctx context.Context, authorID int, in PostInput, cover Upload) (*models.Post, error) {
	coverURL, err := s.store.Put(ctx, cover.Filename, cover.ContentType, cover.Reader)
	if err != nil {
		return nil, fmt.Errorf("store cover: %w", err)
	}

	p := &models.Post{
		Title:     in.Title,
		Summary:   in.Summary,
		Content:   in.Content,
		ImgCredit: in.ImgCredit,
		Cover:     coverURL,
		Published: true,
		AuthorID:  authorID,
	}
	return s.posts.Create(ctx, p)
}

// authorize loads the post and checks ownership. Existence is checked
// before ownership: an absent post reports ErrPostNotFound, never
// ErrNotAuthor.
func (s *PostService) authorize(ctx context.Context, actorID, id int) (*models.Post, error) {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if p.AuthorID != actorID {
		return nil, ErrNotAuthor
	}
	return p, nil
}

// Update rewrites the post's text fields and, only when a new upload
// was supplied, replaces the cover.
func (s *PostService) Update(ctx context.Context, actorID, id int, in PostInput, cover *Upload) (*models.Post, error) {
	if _, err := s.authorize(ctx, actorID, id); err != nil {
		return nil, err
	}

	upd := repository.PostUpdate{
		Title:     in.Title,
		Summary:   in.Summary,
		Content:   in.Content,
		ImgCredit: in.ImgCredit,
	}
	if cover != nil {
		coverURL, err := s.store.Put(ctx, cover.Filename, cover.ContentType, cover.Reader)
		if err != nil {
			return nil, fmt.Errorf("store cover: %w", err)
		}
		upd.Cover = &coverURL
	}

	p, err := s.posts.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return p, nil
}

// Delete is a two-phase cleanup: the cover object goes first (an
// already-absent object counts as removed), then the record.
func (s *PostService) Delete(ctx context.Context, actorID, id int) error {
	p, err := s.authorize(ctx, actorID, id)
	if err != nil {
		return err
	}

	if p.Cover != "" {
		if err := s.store.Delete(ctx, p.Cover); err != nil {
			return fmt.Errorf("delete cover: %w", err)
		}
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		// Row raced away between the guard and the delete; it is gone
		// either way.
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}
