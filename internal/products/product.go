// Package products implements the academic product collection: articles,
// books, and the other publication types, with their document and audio
// attachments, search filters, and usage counters.
package products

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/acervo/internal/content"
	"github.com/JaimeStill/acervo/internal/doi"
)

// Types enumerates the accepted product_type values in display order.
var Types = []string{
	"Articles",
	"Extended Abstracts",
	"Projects",
	"Books",
	"Book Chapters",
	"Videocasts",
}

// ValidType reports whether t is one of Types.
func ValidType(t string) bool {
	return slices.Contains(Types, t)
}

// Product is a catalog publication with its attachment references and usage counters.
type Product struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Authors         []string  `json:"authors"`
	Abstract        string    `json:"abstract"`
	ProductType     string    `json:"product_type"`
	DOI             *string   `json:"doi"`
	PublicationYear *int      `json:"publication_year"`
	Journal         *string   `json:"journal"`
	Keywords        []string  `json:"keywords"`
	URL             *string   `json:"url"`
	DocumentFile    *string   `json:"document_file"`
	DocumentPages   *int      `json:"document_pages"`
	AudioFile       *string   `json:"audio_file"`
	ViewCount       int64     `json:"view_count"`
	DownloadCount   int64     `json:"download_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// File returns the asset id attached in role ("document" or "audio").
func (p *Product) File(role string) *string {
	switch role {
	case roleDocument:
		return p.DocumentFile
	case roleAudio:
		return p.AudioFile
	}
	return nil
}

const (
	roleDocument = "document"
	roleAudio    = "audio"
)

// CreateCommand carries the fields and attachments of a new product.
// Document and Audio are optional. DocumentPages is extracted from PDF
// documents by the handler.
type CreateCommand struct {
	Title           string
	Authors         []string
	Abstract        string
	ProductType     string
	DOI             string
	PublicationYear *int
	Journal         string
	Keywords        []string
	URL             string
	Document        *content.Upload
	DocumentPages   *int
	Audio           *content.Upload
}

// Draft returns the bibliographic fields of the command as DOI metadata.
func (c CreateCommand) Draft() doi.Metadata {
	return doi.Metadata{
		Title:           c.Title,
		Authors:         c.Authors,
		Journal:         c.Journal,
		PublicationYear: c.PublicationYear,
		Abstract:        c.Abstract,
		URL:             c.URL,
	}
}

// Enrich merges fetched registry metadata into the command.
// Non-empty fetched values overwrite the submitted ones.
func (c CreateCommand) Enrich(fetched doi.Metadata) CreateCommand {
	m := doi.Merge(c.Draft(), fetched)

	c.Title = m.Title
	c.Authors = m.Authors
	c.Journal = m.Journal
	c.PublicationYear = m.PublicationYear
	c.Abstract = m.Abstract
	c.URL = m.URL
	return c
}

// Normalize trims the scalar fields and drops blank authors and keywords.
func (c CreateCommand) Normalize() CreateCommand {
	c.Title = strings.TrimSpace(c.Title)
	c.Abstract = strings.TrimSpace(c.Abstract)
	c.ProductType = strings.TrimSpace(c.ProductType)
	c.DOI = strings.TrimSpace(c.DOI)
	c.Journal = strings.TrimSpace(c.Journal)
	c.URL = strings.TrimSpace(c.URL)
	c.Authors = content.CleanList(c.Authors)
	c.Keywords = content.CleanList(c.Keywords)
	return c
}

// Validate checks the required fields and the product type.
// Authors must hold at least one non-blank entry.
func (c CreateCommand) Validate() error {
	var v content.Validator

	v.Require("title", c.Title)
	v.Require("abstract", c.Abstract)
	v.Require("product_type", c.ProductType)
	v.Check(c.ProductType == "" || ValidType(c.ProductType), "product_type", "is not a recognized product type")
	v.RequireList("authors", c.Authors)

	if c.PublicationYear != nil {
		v.Check(*c.PublicationYear > 0, "publication_year", "must be a positive year")
	}

	return v.Err()
}
