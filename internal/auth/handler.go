package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/acervo/internal/content"
	"github.com/JaimeStill/acervo/pkg/handlers"
	"github.com/JaimeStill/acervo/pkg/routes"
)

// maxBodySize bounds JSON request bodies.
const maxBodySize = 64 << 10

// Handler provides HTTP endpoints for authentication.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler backed by sys.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "auth"),
	}
}

// Routes returns the route group definition for auth endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/auth",
		Tags:   []string{"Auth"},
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/login", Handler: h.Login, Status: http.StatusOK, Summary: "Exchange credentials for a token"},
			{Method: "POST", Pattern: "/change-password", Handler: h.ChangePassword, Access: routes.Protected, Status: http.StatusOK, Summary: "Change the caller's password"},
			{Method: "POST", Pattern: "/register", Handler: h.Register, Access: routes.Protected, Summary: "Register a user"},
		},
	}
}

// Login exchanges credentials for a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req Credentials
	if !h.decode(w, r, &req) {
		return
	}

	token, err := h.sys.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, token)
}

// ChangePassword replaces the password of the authenticated user.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, ErrUnauthorized)
		return
	}

	var req PasswordChange
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.sys.ChangePassword(r.Context(), p.Username, req.CurrentPassword, req.NewPassword); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}

// Register creates an account on behalf of an authenticated user.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req Credentials
	if !h.decode(w, r, &req) {
		return
	}

	u, err := h.sys.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, u)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, content.NewValidationError("body", "must be a JSON object"))
		return false
	}
	return true
}
