package ensino

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/acervo/internal/assets"
	"github.com/JaimeStill/acervo/internal/content"
	"github.com/JaimeStill/acervo/pkg/handlers"
	"github.com/JaimeStill/acervo/pkg/openapi"
	"github.com/JaimeStill/acervo/pkg/routes"
)

// Handler provides HTTP endpoints for teaching resources.
type Handler struct {
	sys           System
	assets        assets.System
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler with the given systems, logger, and upload size limit.
func NewHandler(sys System, resolver assets.System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		assets:        resolver,
		logger:        logger.With("handler", "ensino"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the collection routes and the material download route.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Tags: []string{"Ensino"},
		Children: []routes.Group{
			{
				Prefix: "/ensino",
				Routes: []routes.Route{
					{
						Method: "GET", Pattern: "", Handler: h.List,
						Summary: "List teaching resources",
						Query: []*openapi.Parameter{
							openapi.QueryParam("tipo", "string", "Exact resource type"),
							openapi.QueryParam("subject", "string", "Substring of the subject"),
						},
					},
					{Method: "POST", Pattern: "", Handler: h.Create, Access: routes.Protected, Summary: "Create a teaching resource"},
					{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete, Access: routes.Protected, Summary: "Delete a teaching resource"},
				},
			},
			{
				Prefix: "/download-ensino",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/{id}", Handler: h.Download, Summary: "Download teaching material"},
				},
			},
		},
	}
}

// List returns teaching resources, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.sys.List(r.Context(), FiltersFromQuery(r.URL.Query()))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, items)
}

// Create processes a multipart form with the resource fields and optional
// material_file and image_file attachments.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := content.ParseForm(w, r, h.maxUploadSize, 2); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	material, err := content.ReadUpload(r, "material_file", content.Material, h.maxUploadSize)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	image, err := content.ReadUpload(r, "image_file", content.Image, h.maxUploadSize)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	e, err := h.sys.Create(r.Context(), CreateCommand{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Subject:     r.FormValue("subject"),
		Tipo:        r.FormValue("tipo"),
		VideoURL:    r.FormValue("video_url"),
		Material:    material,
		Image:       image,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, e)
}

// Delete removes a teaching resource and its attachments.
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

// Download sends the resource's material as an attachment.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrNotFound)
		return
	}

	e, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if e.MaterialFile == nil {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrFileNotFound)
		return
	}

	assets.Download(w, r, h.assets, h.logger, *e.MaterialFile)
}
