// Package extensao implements the outreach collection: community events,
// courses, and projects with an optional event date and attachments.
package extensao

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/acervo/internal/content"
)

// Extensao is an outreach activity. EventDate is when the activity takes
// place and is independent of CreatedAt.
type Extensao struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Location     string     `json:"location"`
	Tipo         string     `json:"tipo"`
	EventDate    *time.Time `json:"event_date"`
	VideoURL     *string    `json:"video_url"`
	MaterialFile *string    `json:"material_file"`
	ImageFile    *string    `json:"image_file"`
	CreatedAt    time.Time  `json:"created_at"`
}

// CreateCommand carries the fields and attachments of a new outreach activity.
type CreateCommand struct {
	Title       string
	Description string
	Location    string
	Tipo        string
	EventDate   *time.Time
	VideoURL    string
	Material    *content.Upload
	Image       *content.Upload
}

// Normalize trims the text fields.
func (c CreateCommand) Normalize() CreateCommand {
	c.Title = strings.TrimSpace(c.Title)
	c.Description = strings.TrimSpace(c.Description)
	c.Location = strings.TrimSpace(c.Location)
	c.Tipo = strings.TrimSpace(c.Tipo)
	c.VideoURL = strings.TrimSpace(c.VideoURL)
	return c
}

// Validate checks the required fields.
func (c CreateCommand) Validate() error {
	var v content.Validator
	v.Require("title", c.Title)
	v.Require("description", c.Description)
	v.Require("location", c.Location)
	return v.Err()
}

var eventDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

// ParseEventDate reads an ISO-8601 date or date-time. Values without a zone
// are taken as UTC. A blank value yields nil.
func ParseEventDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}

	return nil, content.NewValidationError("event_date", "must be an ISO-8601 date or date-time")
}
