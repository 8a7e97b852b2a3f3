package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"techblog/internal/models"
)

type PostPostgres struct {
	db *sql.DB
}

func NewPostPostgres(db *sql.DB) *PostPostgres {
	return &PostPostgres{db: db}
}

var _ Posts = (*PostPostgres)(nil)

// listPageSize bounds the public feed to the most recent posts.
const listPageSize = 20

const (
	postColumns = `p.id, p.title, p.summary, p.content, p.img_credit, p.cover, p.published, p.created_at, p.author_id, u.name`

	listPostsSQL = `SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.author_id
		ORDER BY p.created_at DESC
		LIMIT $1`

	selectPostByIDSQL = `SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.id = $1`

	insertPostSQL = `INSERT INTO posts (title, summary, content, img_credit, cover, published, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	updatePostSQL = `UPDATE posts
		SET title = $1, summary = $2, content = $3, img_credit = $4, cover = COALESCE($5, cover)
		WHERE id = $6`

	deletePostSQL = `DELETE FROM posts WHERE id = $1`
)

func scanPost(row interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := row.Scan(&p.ID, &p.Title, &p.Summary, &p.Content, &p.ImgCredit,
		&p.Cover, &p.Published, &p.CreatedAt, &p.AuthorID, &p.AuthorName)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns up to listPageSize posts, newest first, with the author
// name joined in.
func (r *PostPostgres) List(ctx context.Context) ([]models.Post, error) {
	rows, err := r.db.QueryContext(ctx, listPostsSQL, listPageSize)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	out := make([]models.Post, 0, listPageSize)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return out, nil
}

// GetByID fetches a single post. Returns ErrNotFound if absent.
func (r *PostPostgres) GetByID(ctx context.Context, id int) (*models.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, selectPostByIDSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select post id=%d: %w", id, err)
	}
	return p, nil
}

// Create inserts a post and fills in its generated ID and timestamp.
func (r *PostPostgres) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	err := r.db.QueryRowContext(ctx, insertPostSQL,
		p.Title, p.Summary, p.Content, p.ImgCredit, p.Cover, p.Published, p.AuthorID,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert post %q: %w", p.Title, err)
	}
	return p, nil
}

// Update rewrites the mutable fields of a post. A nil upd.Cover keeps
// the stored cover. Returns the updated row.
func (r *PostPostgres) Update(ctx context.Context, id int, upd PostUpdate) (*models.Post, error) {
	res, err := r.db.ExecContext(ctx, updatePostSQL,
		upd.Title, upd.Summary, upd.Content, upd.ImgCredit, upd.Cover, id)
	if err != nil {
		return nil, fmt.Errorf("update post id=%d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update post id=%d: %w", id, err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes a post row. Returns ErrNotFound when nothing matched.
func (r *PostPostgres) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, deletePostSQL, id)
	if err != nil {
		return fmt.Errorf("delete post id=%d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete post id=%d: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
