package products

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/JaimeStill/acervo/internal/assets"
	"github.com/JaimeStill/acervo/internal/content"
	"github.com/JaimeStill/acervo/internal/doi"
	"github.com/JaimeStill/acervo/internal/usage"
	"github.com/JaimeStill/acervo/pkg/handlers"
	"github.com/JaimeStill/acervo/pkg/openapi"
	"github.com/JaimeStill/acervo/pkg/routes"
)

// Handler provides HTTP endpoints for product operations.
type Handler struct {
	sys           System
	doi           doi.System
	usage         usage.System
	assets        assets.System
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler with the given systems, logger, and per-file upload size limit.
func NewHandler(
	sys System,
	lookup doi.System,
	counter usage.System,
	resolver assets.System,
	logger *slog.Logger,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		sys:           sys,
		doi:           lookup,
		usage:         counter,
		assets:        resolver,
		logger:        logger.With("handler", "products"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the product collection routes and the product file downloads.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Tags: []string{"Products"},
		Children: []routes.Group{
			{
				Prefix: "/products",
				Routes: []routes.Route{
					{
						Method: "GET", Pattern: "", Handler: h.List,
						Summary: "Search products",
						Query: []*openapi.Parameter{
							openapi.QueryParam("search", "string", "Substring of title, abstract, or keywords"),
							openapi.QueryParam("product_type", "string", "Exact product type"),
							openapi.QueryParam("author", "string", "Substring of any author"),
							openapi.QueryParam("year", "integer", "Publication year"),
						},
					},
					{Method: "GET", Pattern: "/{id}", Handler: h.Find, Summary: "Get a product and record a view"},
					{Method: "POST", Pattern: "", Handler: h.Create, Access: routes.Protected, Summary: "Create a product, optionally enriched from its DOI"},
					{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete, Access: routes.Protected, Summary: "Delete a product"},
				},
			},
			{
				Prefix: "/download",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/{id}/{role}", Handler: h.Download, Summary: "Download a product document or audio file"},
				},
			},
		},
	}
}

// List returns the products matching the query parameter filters, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters, err := FiltersFromQuery(r.URL.Query())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	result, err := h.sys.List(r.Context(), filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single product and records the view.
// The response carries the incremented view count.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrNotFound)
		return
	}

	p, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if n, err := h.usage.Record(r.Context(), usage.Products, id, usage.Views); err != nil {
		h.logger.Warn("view count increment failed", "id", id, "error", err)
	} else {
		p.ViewCount = n
	}

	handlers.RespondJSON(w, http.StatusOK, p)
}

// Create processes a multipart form carrying the product fields and optional
// document_file and audio_file attachments. With enrich=true the DOI
// registry metadata is merged into the submitted fields before validation.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := content.ParseForm(w, r, h.maxUploadSize, 2); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	cmd, err := h.command(r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if enrich, _ := strconv.ParseBool(r.FormValue("enrich")); enrich {
		if strings.TrimSpace(cmd.DOI) == "" {
			err := content.NewValidationError("doi", "is required when enrich is set")
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}

		fetched, err := h.doi.Fetch(r.Context(), cmd.DOI)
		if err != nil {
			doi.RespondError(w, h.logger, err)
			return
		}
		cmd = cmd.Enrich(*fetched)
	}

	p, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, p)
}

// Delete removes a product and its attachments.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrNotFound)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Download sends the product's document or audio attachment and records the
// download. HEAD requests are not counted.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrNotFound)
		return
	}

	p, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	file := p.File(r.PathValue("role"))
	if file == nil {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrFileNotFound)
		return
	}

	if assets.Download(w, r, h.assets, h.logger, *file) && r.Method != http.MethodHead {
		h.usage.Track(context.WithoutCancel(r.Context()), usage.Products, id, usage.Downloads)
	}
}

func (h *Handler) command(r *http.Request) (CreateCommand, error) {
	authors, err := content.ParseList("authors", r.FormValue("authors"))
	if err != nil {
		return CreateCommand{}, err
	}

	keywords, err := content.ParseList("keywords", r.FormValue("keywords"))
	if err != nil {
		return CreateCommand{}, err
	}

	var year *int
	if y := strings.TrimSpace(r.FormValue("publication_year")); y != "" {
		v, err := strconv.Atoi(y)
		if err != nil {
			return CreateCommand{}, content.NewValidationError("publication_year", "must be an integer")
		}
		year = &v
	}

	document, err := content.ReadUpload(r, "document_file", content.Document, h.maxUploadSize)
	if err != nil {
		return CreateCommand{}, err
	}

	audio, err := content.ReadUpload(r, "audio_file", content.Audio, h.maxUploadSize)
	if err != nil {
		return CreateCommand{}, err
	}

	return CreateCommand{
		Title:           r.FormValue("title"),
		Authors:         authors,
		Abstract:        r.FormValue("abstract"),
		ProductType:     r.FormValue("product_type"),
		DOI:             r.FormValue("doi"),
		PublicationYear: year,
		Journal:         r.FormValue("journal"),
		Keywords:        keywords,
		URL:             r.FormValue("url"),
		Document:        document,
		DocumentPages:   pageCount(h.logger, document),
		Audio:           audio,
	}, nil
}

func pageCount(logger *slog.Logger, u *content.Upload) *int {
	if u == nil || u.ContentType != "application/pdf" {
		return nil
	}

	count, err := api.PageCount(bytes.NewReader(u.Data), nil)
	if err != nil {
		logger.Warn("failed to extract PDF page count", "file", u.Filename, "error", err)
		return nil
	}

	return &count
}
