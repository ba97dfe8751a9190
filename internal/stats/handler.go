package stats

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/acervo/pkg/handlers"
	"github.com/JaimeStill/acervo/pkg/routes"
)

// Handler exposes the catalog summary.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler backed by sys.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "stats"),
	}
}

// Routes returns the stats route. Credentials are optional but must be
// valid when presented.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/stats",
		Tags:   []string{"Stats"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Summary, Access: routes.Optional, Summary: "Catalog summary"},
		},
	}
}

// Summary returns the live catalog summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.sys.Summarize(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, s)
}
