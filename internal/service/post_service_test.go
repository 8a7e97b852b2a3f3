package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"techblog/internal/models"
	"techblog/internal/repository"
)

// mockPostsRepo is an in-test mock for repository.Posts.
type mockPostsRepo struct {
	ListFn    func() ([]models.Post, error)
	GetByIDFn func(id int) (*models.Post, error)
	CreateFn  func(p *models.Post) (*models.Post, error)
	UpdateFn  func(id int, upd repository.PostUpdate) (*models.Post, error)
	DeleteFn  func(id int) error

	createCalls []*models.Post
	updateCalls []repository.PostUpdate
	deleteCalls []int
}

func (m *mockPostsRepo) List(_ context.Context) ([]models.Post, error) { return m.ListFn() }
func (m *mockPostsRepo) GetByID(_ context.Context, id int) (*models.Post, error) {
	return m.GetByIDFn(id)
}
func (m *mockPostsRepo) Create(_ context.Context, p *models.Post) (*models.Post, error) {
	m.createCalls = append(m.createCalls, p)
	return m.CreateFn(p)
}
func (m *mockPostsRepo) Update(_ context.Context, id int, upd repository.PostUpdate) (*models.Post, error) {
	m.updateCalls = append(m.updateCalls, upd)
	return m.UpdateFn(id, upd)
}
func (m *mockPostsRepo) Delete(_ context.Context, id int) error {
	m.deleteCalls = append(m.deleteCalls, id)
	return m.DeleteFn(id)
}

// mockStore is an in-test object store.
type mockStore struct {
	putURL string
	putErr error
	delErr error

	putCalls []string // filenames
	delCalls []string // urls
}

func (m *mockStore) Put(_ context.Context, filename, _ string, r io.Reader) (string, error) {
	m.putCalls = append(m.putCalls, filename)
	if r != nil {
		_, _ = io.Copy(io.Discard, r)
	}
	return m.putURL, m.putErr
}

func (m *mockStore) Delete(_ context.Context, url string) error {
	m.delCalls = append(m.delCalls, url)
	return m.delErr
}

func testUpload() Upload {
	return Upload{
		Filename:    "cover.png",
		ContentType: "image/png",
		Reader:      strings.NewReader("png-bytes"),
	}
}

// --- Create ---

func TestPostService_Create_UploadsThenPersists(t *testing.T) {
	repo := &mockPostsRepo{
		CreateFn: func(p *models.Post) (*models.Post, error) {
			p.ID = 11
			return p, nil
		},
	}
	store := &mockStore{putURL: "https://cdn.example.com/covers/1/2/3/abc-cover.png"}
	svc := NewPostService(repo, store)

	p, err := svc.Create(context.Background(), 7, PostInput{
		Title:     "First",
		Summary:   "sum",
		Content:   "body",
		ImgCredit: "me",
	}, testUpload())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if len(store.putCalls) != 1 || store.putCalls[0] != "cover.png" {
		t.Fatalf("expected one Put of cover.png, got %v", store.putCalls)
	}
	if p.ID != 11 || p.AuthorID != 7 {
		t.Fatalf("expected post id=11 author=7, got %+v", p)
	}
	if p.Cover != store.putURL {
		t.Fatalf("expected cover %q, got %q", store.putURL, p.Cover)
	}
	if !p.Published {
		t.Fatalf("expected created post to be published")
	}
}

func TestPostService_Create_StoreErrorSkipsRepo(t *testing.T) {
	repo := &mockPostsRepo{
		CreateFn: func(p *models.Post) (*models.Post, error) {
			t.Fatal("repo Create must not be called when the upload fails")
			return nil, nil
		},
	}
	store := &mockStore{putErr: errors.New("bucket unreachable")}
	svc := NewPostService(repo, store)

	if _, err := svc.Create(context.Background(), 1, PostInput{Title: "x"}, testUpload()); err == nil {
		t.Fatalf("expected error, got nil")
	}
	if len(repo.createCalls) != 0 {
		t.Fatalf("expected no repo Create calls, got %d", len(repo.createCalls))
	}
}

// --- GetByID ---

func TestPostService_GetByID_NotFound(t *testing.T) {
	repo := &mockPostsRepo{
		GetByIDFn: func(id int) (*models.Post, error) { return nil, repository.ErrNotFound },
	}
	svc := NewPostService(repo, &mockStore{})

	_, err := svc.GetByID(context.Background(), 99)
	if !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got: %v", err)
	}
}

// --- Update: existence before ownership ---

func TestPostService_Update_AbsentPostIsNotFoundNotForbidden(t *testing.T) {
	repo := &mockPostsRepo{
		GetByIDFn: func(id int) (*models.Post, error) { return nil, repository.ErrNotFound },
		UpdateFn: func(id int, upd repository.PostUpdate) (*models.Post, error) {
			t.Fatal("repo Update must not be called for an absent post")
			return nil, nil
		},
	}
	store := &mockStore{}
	svc := NewPostService(repo, store)

	// Even with a mismatching actor the absent post reports not-found.
	_, err := svc.Update(context.Background(), 123, 99, PostInput{}, nil)
	if !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got: %v", err)
	}
	if len(store.putCalls) != 0 {
		t.Fatalf("expected no uploads, got %v", store.putCalls)
	}
}

func TestPostService_Update_WrongAuthorForbidden(t *testing.T) {
	repo := &mockPostsRepo{
		GetByIDFn: func(id int) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 1}, nil
		},
		UpdateFn: func(id int, upd repository.PostUpdate) (*models.Post, error) {
			t.Fatal("repo Update must not be called for a non-author")
			return nil, nil
		},
	}
	svc := NewPostService(repo, &mockStore{})

	_, err := svc.Update(context.Background(), 2, 10, PostInput{Title: "t"}, nil)
	if !errors.Is(err, ErrNotAuthor) {
		t.Fatalf("expected ErrNotAuthor, got: %v", err)
	}
}

func TestPostService_Update_KeepsCoverWithoutUpload(t *testing.T) {
	repo := &mockPostsRepo{
		GetByIDFn: func(id int) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 5, Cover: "https://cdn.example.com/covers/old"}, nil
		},
		UpdateFn: func(id int, upd repository.PostUpdate) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 5, Title: upd.Title}, nil
		},
	}
	store := &mockStore{}
	svc := NewPostService(repo, store)

	_, err := svc.Update(context.Background(), 5, 10, PostInput{Title: "new title"}, nil)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if len(store.putCalls) != 0 {
		t.Fatalf("expected no uploads, got %v", store.putCalls)
	}
	if len(repo.updateCalls) != 1 {
		t.Fatalf("expected 1 repo Update call, got %d", len(repo.updateCalls))
	}
	if repo.updateCalls[0].Cover != nil {
		t.Fatalf("expected nil Cover in update, got %v", *repo.updateCalls[0].Cover)
	}
}

func TestPostService_Update_ReplacesCoverWithUpload(t *testing.T) {
	repo := &mockPostsRepo{
		GetByIDFn: func(id int) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 5}, nil
		},
		UpdateFn: func(id int, upd repository.PostUpdate) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 5, Cover: *upd.Cover}, nil
		},
	}
	store := &mockStore{putURL: "https://cdn.example.com/covers/new"}
	svc := NewPostService(repo, store)

	up := testUpload()
	p, err := svc.Update(context.Background(), 5, 10, PostInput{Title: "t"}, &up)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if len(store.putCalls) != 1 {
		t.Fatalf("expected 1 upload, got %v", store.putCalls)
	}
	if p.Cover != store.putURL {
		t.Fatalf("expected cover %q, got %q", store.putURL, p.Cover)
	}
}

// --- Delete: guard order and two-phase cleanup ---

func TestPostService_Delete_AbsentPostNotFound(t *testing.T) {
	repo := &mockPostsRepo{
		GetByIDFn: func(id int) (*models.Post, error) { return nil, repository.ErrNotFound },
	}
	svc := NewPostService(repo, &mockStore{})

	err := svc.Delete(context.Background(), 1, 99)
	if !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got: %v", err)
	}
}

func TestPostService_Delete_WrongAuthorForbidden(t *testing.T) {
	store := &mockStore{}
	repo := &mockPostsRepo{
		GetByIDFn: func(id int) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 1, Cover: "https://cdn.example.com/covers/x"}, nil
		},
		DeleteFn: func(id int) error {
			t.Fatal("repo Delete must not be called for a non-author")
			return nil
		},
	}
	svc := NewPostService(repo, store)

	err := svc.Delete(context.Background(), 2, 10)
	if !errors.Is(err, ErrNotAuthor) {
		t.Fatalf("expected ErrNotAuthor, got: %v", err)
	}
	if len(store.delCalls) != 0 {
		t.Fatalf("expected no object deletions, got %v", store.delCalls)
	}
}

func TestPostService_Delete_RemovesObjectThenRecord(t *testing.T) {
	const coverURL = "https://cdn.example.com/covers/1/2/3/abc"
	store := &mockStore{}
	repo := &mockPostsRepo{
		GetByIDFn: func(id int) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 4, Cover: coverURL}, nil
		},
		DeleteFn: func(id int) error { return nil },
	}
	svc := NewPostService(repo, store)

	if err := svc.Delete(context.Background(), 4, 10); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(store.delCalls) != 1 || store.delCalls[0] != coverURL {
		t.Fatalf("expected object delete for %q, got %v", coverURL, store.delCalls)
	}
	if len(repo.deleteCalls) != 1 || repo.deleteCalls[0] != 10 {
		t.Fatalf("expected record delete for id=10, got %v", repo.deleteCalls)
	}
}

func TestPostService_Delete_SkipsStoreForEmptyCover(t *testing.T) {
	store := &mockStore{}
	repo := &mockPostsRepo{
		GetByIDFn: func(id int) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 4}, nil
		},
		DeleteFn: func(id int) error { return nil },
	}
	svc := NewPostService(repo, store)

	if err := svc.Delete(context.Background(), 4, 10); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(store.delCalls) != 0 {
		t.Fatalf("expected no object deletions, got %v", store.delCalls)
	}
}

func TestPostService_Delete_StoreFailureAbortsRecordDelete(t *testing.T) {
	store := &mockStore{delErr: errors.New("bucket unreachable")}
	repo := &mockPostsRepo{
		GetByIDFn: func(id int) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 4, Cover: "https://cdn.example.com/covers/x"}, nil
		},
		DeleteFn: func(id int) error {
			t.Fatal("record delete must not run when object cleanup fails")
			return nil
		},
	}
	svc := NewPostService(repo, store)

	if err := svc.Delete(context.Background(), 4, 10); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestPostService_Delete_RowRacedAwayIsSuccess(t *testing.T) {
	repo := &mockPostsRepo{
		GetByIDFn: func(id int) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 4}, nil
		},
		DeleteFn: func(id int) error { return repository.ErrNotFound },
	}
	svc := NewPostService(repo, &mockStore{})

	if err := svc.Delete(context.Background(), 4, 10); err != nil {
		t.Fatalf("expected success when the row is already gone, got: %v", err)
	}
}
