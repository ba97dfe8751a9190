// Package ensino implements the teaching collection: course material,
// classes, and videos with optional material and image attachments.
package ensino

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/acervo/internal/content"
)

// Ensino is a teaching resource.
type Ensino struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Subject      string    `json:"subject"`
	Tipo         string    `json:"tipo"`
	VideoURL     *string   `json:"video_url"`
	MaterialFile *string   `json:"material_file"`
	ImageFile    *string   `json:"image_file"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateCommand carries the fields and attachments of a new teaching resource.
type CreateCommand struct {
	Title       string
	Description string
	Subject     string
	Tipo        string
	VideoURL    string
	Material    *content.Upload
	Image       *content.Upload
}

// Normalize trims the text fields.
func (c CreateCommand) Normalize() CreateCommand {
	c.Title = strings.TrimSpace(c.Title)
	c.Description = strings.TrimSpace(c.Description)
	c.Subject = strings.TrimSpace(c.Subject)
	c.Tipo = strings.TrimSpace(c.Tipo)
	c.VideoURL = strings.TrimSpace(c.VideoURL)
	return c
}

// Validate checks the required fields. Tipo is free-form and optional.
func (c CreateCommand) Validate() error {
	var v content.Validator
	v.Require("title", c.Title)
	v.Require("description", c.Description)
	v.Require("subject", c.Subject)
	return v.Err()
}
