package news

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/acervo/internal/content"
	"github.com/JaimeStill/acervo/pkg/handlers"
	"github.com/JaimeStill/acervo/pkg/openapi"
	"github.com/JaimeStill/acervo/pkg/pagination"
	"github.com/JaimeStill/acervo/pkg/routes"
)

// Handler provides HTTP endpoints for news operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
	page          pagination.Config
}

// NewHandler creates a Handler with the given system, logger, upload size
// limit, and list window bounds.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64, page pagination.Config) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "news"),
		maxUploadSize: maxUploadSize,
		page:          page,
	}
}

// Routes returns the route group definition for news endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/news",
		Tags:   []string{"News"},
		Routes: []routes.Route{
			{
				Method: "GET", Pattern: "", Handler: h.List,
				Summary: "List news, newest first",
				Query: []*openapi.Parameter{
					openapi.QueryParam("category", "string", "Exact category"),
					openapi.QueryParam("skip", "integer", "Items to skip"),
					openapi.QueryParam("limit", "integer", "Maximum items to return"),
				},
			},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, Summary: "Get a news item"},
			{Method: "POST", Pattern: "", Handler: h.Create, Access: routes.Protected, Summary: "Create a news item"},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update, Access: routes.Protected, Summary: "Update a news item"},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete, Access: routes.Protected, Summary: "Delete a news item"},
		},
	}
}

// List returns news items, newest first, optionally narrowed by category.
// Without skip or limit parameters the whole listing is returned.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters, err := FiltersFromQuery(r.URL.Query(), h.page)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	items, err := h.sys.List(r.Context(), filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, items)
}

// Find returns a single news item.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	n, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, n)
}

// Create processes a multipart form with the news fields and an optional image_file.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	cmd, ok := h.command(w, r)
	if !ok {
		return
	}

	n, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, n)
}

// Update replaces the news fields. Omitting image_file keeps the current image.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	cmd, ok := h.command(w, r)
	if !ok {
		return
	}

	n, err := h.sys.Update(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, n)
}

// Delete removes a news item and its image.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Malformed identifiers can never name a record and report not found.
func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrNotFound)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) command(w http.ResponseWriter, r *http.Request) (Command, bool) {
	if err := content.ParseForm(w, r, h.maxUploadSize, 1); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return Command{}, false
	}

	image, err := content.ReadUpload(r, "image_file", content.Image, h.maxUploadSize)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return Command{}, false
	}

	return Command{
		Title:    r.FormValue("title"),
		Content:  r.FormValue("content"),
		Category: r.FormValue("category"),
		Author:   r.FormValue("author"),
		Image:    image,
	}, true
}
