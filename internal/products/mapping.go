package products

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/JaimeStill/acervo/internal/content"
	"github.com/JaimeStill/acervo/pkg/query"
	"github.com/JaimeStill/acervo/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "products", "p").
	Project("id", "ID").
	Project("title", "Title").
	ProjectArray("authors", "Authors").
	Project("abstract", "Abstract").
	Project("product_type", "ProductType").
	Project("doi", "DOI").
	Project("publication_year", "PublicationYear").
	Project("journal", "Journal").
	ProjectArray("keywords", "Keywords").
	Project("url", "URL").
	Project("document_file", "DocumentFile").
	Project("document_pages", "DocumentPages").
	Project("audio_file", "AudioFile").
	Project("view_count", "ViewCount").
	Project("download_count", "DownloadCount").
	Project("created_at", "CreatedAt")

const returningColumns = `id, title, authors, abstract, product_type, doi, publication_year, journal,
	keywords, url, document_file, document_pages, audio_file, view_count, download_count, created_at`

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for product queries.
// Nil fields are ignored and the remaining criteria are combined with AND.
// Search matches title, abstract, or any keyword; Author matches any author.
// Both are case-insensitive substring matches. ProductType and Year are exact.
type Filters struct {
	Search      *string `json:"search,omitempty"`
	ProductType *string `json:"product_type,omitempty"`
	Author      *string `json:"author,omitempty"`
	Year        *int    `json:"year,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereSearch(f.Search, "Title", "Abstract", "Keywords").
		WhereEquals("ProductType", f.ProductType).
		WhereContains("Authors", f.Author).
		WhereEquals("PublicationYear", f.Year)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// A year that is not an integer is a validation error.
func FiltersFromQuery(values url.Values) (Filters, error) {
	var f Filters

	f.Search = content.Optional(values.Get("search"))
	f.ProductType = content.Optional(values.Get("product_type"))
	f.Author = content.Optional(values.Get("author"))

	if y := strings.TrimSpace(values.Get("year")); y != "" {
		v, err := strconv.Atoi(y)
		if err != nil {
			return Filters{}, content.NewValidationError("year", "must be an integer")
		}
		f.Year = &v
	}

	return f, nil
}

func scanProduct(s repository.Scanner) (Product, error) {
	var p Product
	err := s.Scan(
		&p.ID,
		&p.Title,
		pq.Array(&p.Authors),
		&p.Abstract,
		&p.ProductType,
		&p.DOI,
		&p.PublicationYear,
		&p.Journal,
		pq.Array(&p.Keywords),
		&p.URL,
		&p.DocumentFile,
		&p.DocumentPages,
		&p.AudioFile,
		&p.ViewCount,
		&p.DownloadCount,
		&p.CreatedAt,
	)
	return p, err
}
