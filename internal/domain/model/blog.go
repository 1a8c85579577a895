package model

import (
	"time"
)

type Blog struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Content     string    `json:"content"` // markdown
	AuthorID    string    `json:"author"`  // set once at creation, immutable
	Categories  []string  `json:"categories"`
	BannerImage string    `json:"banner_image"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	AuthorName  string `json:"author_name,omitempty"`  // joined for display
	AuthorEmail string `json:"author_email,omitempty"` // joined for display
}
