package models

import "time"

// Post is a single blog entry. AuthorName is joined from the users
// table on reads and never stored on the post row itself.
type Post struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	Summary    string    `json:"summary"`
	Content    string    `json:"content"`
	ImgCredit  string    `json:"imgCredit,omitempty"`
	Cover      string    `json:"cover"` // public object-store URL
	Published  bool      `json:"published"`
	CreatedAt  time.Time `json:"createdAt"`
	AuthorID   int       `json:"authorId"`
	AuthorName string    `json:"authorName,omitempty"`
}
