package extensao

import (
	"net/url"

	"github.com/JaimeStill/acervo/internal/content"
	"github.com/JaimeStill/acervo/pkg/query"
	"github.com/JaimeStill/acervo/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "extensao", "x").
	Project("id", "ID").
	Project("title", "Title").
	Project("description", "Description").
	Project("location", "Location").
	Project("tipo", "Tipo").
	Project("event_date", "EventDate").
	Project("video_url", "VideoURL").
	Project("material_file", "MaterialFile").
	Project("image_file", "ImageFile").
	Project("created_at", "CreatedAt")

const returningColumns = "id, title, description, location, tipo, event_date, video_url, material_file, image_file, created_at"

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters narrows the listing. Tipo is an exact match.
type Filters struct {
	Tipo *string `json:"tipo,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.WhereEquals("Tipo", f.Tipo)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	return Filters{Tipo: content.Optional(values.Get("tipo"))}
}

func scanExtensao(s repository.Scanner) (Extensao, error) {
	var x Extensao
	err := s.Scan(
		&x.ID,
		&x.Title,
		&x.Description,
		&x.Location,
		&x.Tipo,
		&x.EventDate,
		&x.VideoURL,
		&x.MaterialFile,
		&x.ImageFile,
		&x.CreatedAt,
	)
	return x, err
}
