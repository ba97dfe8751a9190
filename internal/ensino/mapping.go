package ensino

import (
	"net/url"

	"github.com/JaimeStill/acervo/internal/content"
	"github.com/JaimeStill/acervo/pkg/query"
	"github.com/JaimeStill/acervo/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "ensino", "e").
	Project("id", "ID").
	Project("title", "Title").
	Project("description", "Description").
	Project("subject", "Subject").
	Project("tipo", "Tipo").
	Project("video_url", "VideoURL").
	Project("material_file", "MaterialFile").
	Project("image_file", "ImageFile").
	Project("created_at", "CreatedAt")

const returningColumns = "id, title, description, subject, tipo, video_url, material_file, image_file, created_at"

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters narrows the listing. Tipo is an exact match; Subject is a
// case-insensitive substring match.
type Filters struct {
	Tipo    *string `json:"tipo,omitempty"`
	Subject *string `json:"subject,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Tipo", f.Tipo).
		WhereContains("Subject", f.Subject)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	return Filters{
		Tipo:    content.Optional(values.Get("tipo")),
		Subject: content.Optional(values.Get("subject")),
	}
}

func scanEnsino(s repository.Scanner) (Ensino, error) {
	var e Ensino
	err := s.Scan(
		&e.ID,
		&e.Title,
		&e.Description,
		&e.Subject,
		&e.Tipo,
		&e.VideoURL,
		&e.MaterialFile,
		&e.ImageFile,
		&e.CreatedAt,
	)
	return e, err
}
