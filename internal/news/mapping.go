package news

import (
	"net/url"

	"github.com/JaimeStill/acervo/internal/content"
	"github.com/JaimeStill/acervo/pkg/pagination"
	"github.com/JaimeStill/acervo/pkg/query"
	"github.com/JaimeStill/acervo/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "news", "n").
	Project("id", "ID").
	Project("title", "Title").
	Project("content", "Content").
	Project("category", "Category").
	Project("author", "Author").
	Project("image_file", "ImageFile").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

const returningColumns = "id, title, content, category, author, image_file, created_at, updated_at"

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters narrows the news listing. Category is an exact match; Window
// selects a skip/limit slice of the newest-first ordering.
type Filters struct {
	Category *string           `json:"category,omitempty"`
	Window   pagination.Window `json:"-"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.WhereEquals("Category", f.Category)
}

// FiltersFromQuery extracts filter values and the skip/limit window from URL
// query parameters.
func FiltersFromQuery(values url.Values, page pagination.Config) (Filters, error) {
	window, err := pagination.WindowFromQuery(values, page)
	if err != nil {
		return Filters{}, err
	}

	return Filters{
		Category: content.Optional(values.Get("category")),
		Window:   window,
	}, nil
}

func scanNews(s repository.Scanner) (News, error) {
	var n News
	err := s.Scan(
		&n.ID,
		&n.Title,
		&n.Content,
		&n.Category,
		&n.Author,
		&n.ImageFile,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	return n, err
}
