package doi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/acervo/pkg/handlers"
	"github.com/JaimeStill/acervo/pkg/routes"
)

// Handler exposes DOI lookups over HTTP.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler backed by sys.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "doi"),
	}
}

// Routes returns the public DOI lookup route. The wildcard captures the
// slash inside DOIs.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/doi-metadata",
		Tags:   []string{"DOI"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{doi...}", Handler: h.Lookup, Summary: "Look up DOI registry metadata"},
		},
	}
}

// Lookup returns the normalized metadata for the DOI in the path.
// Failures report only the generic lookup message.
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	m, err := h.sys.Fetch(r.Context(), r.PathValue("doi"))
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, m)
}

// RespondError writes a DOI lookup error. Lookup failures carry only the
// generic ErrLookupFailure message, never the registry detail.
func RespondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := MapHTTPStatus(err)
	if errors.Is(err, ErrLookupFailure) {
		logger.Warn("doi lookup failed", "status", status, "error", err)
		handlers.RespondJSON(w, status, map[string]string{"error": ErrLookupFailure.Error()})
		return
	}
	handlers.RespondError(w, logger, status, err)
}
