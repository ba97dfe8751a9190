// Package news implements the news collection, the only catalog collection
// whose records can be edited after creation.
package news

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/acervo/internal/content"
)

// News is a published news item with an optional cover image.
type News struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Author    string    `json:"author"`
	ImageFile *string   `json:"image_file"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Command carries the fields of a create or update. A nil Image keeps the
// current image on update.
type Command struct {
	Title    string
	Content  string
	Category string
	Author   string
	Image    *content.Upload
}

// Normalize trims the text fields.
func (c Command) Normalize() Command {
	c.Title = strings.TrimSpace(c.Title)
	c.Content = strings.TrimSpace(c.Content)
	c.Category = strings.TrimSpace(c.Category)
	c.Author = strings.TrimSpace(c.Author)
	return c
}

// Validate checks that every text field is present.
func (c Command) Validate() error {
	var v content.Validator
	v.Require("title", c.Title)
	v.Require("content", c.Content)
	v.Require("category", c.Category)
	v.Require("author", c.Author)
	return v.Err()
}
