package assets

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/JaimeStill/acervo/pkg/handlers"
	"github.com/JaimeStill/acervo/pkg/routes"
)

const imageMaxAge = time.Hour

// Handler serves assets by identifier.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler backed by sys.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "assets"),
	}
}

// Routes returns the public image route.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/image",
		Tags:   []string{"Assets"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{fileId}", Handler: h.Image, Summary: "Serve a stored image"},
		},
	}
}

// Image serves an asset inline. Identifiers without a known extension are
// labeled image/jpeg.
func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	a, err := h.sys.Resolve(r.Context(), r.PathValue("fileId"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if a.ContentType == octetStream {
		a.ContentType = "image/jpeg"
	}

	if err := Inline(w, r, a, imageMaxAge); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
	}
}

// Download writes the asset as an attachment, reporting resolution
// failures as JSON errors. It reports whether the asset was sent.
func Download(w http.ResponseWriter, r *http.Request, sys System, logger *slog.Logger, id string) bool {
	a, err := sys.Resolve(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, logger, MapHTTPStatus(err), err)
		return false
	}

	if err := Attach(w, r, a); err != nil {
		handlers.RespondError(w, logger, http.StatusInternalServerError, err)
		return false
	}
	return true
}
