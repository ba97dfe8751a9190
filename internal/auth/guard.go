package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/JaimeStill/acervo/pkg/handlers"
	"github.com/JaimeStill/acervo/pkg/routes"
)

// Guard returns the route guard backed by sys. Protected routes require a
// valid bearer token for an existing user. Optional routes admit requests
// without an Authorization header but reject invalid credentials. Every
// rejection is the same 401 response.
func Guard(sys System, logger *slog.Logger) routes.Guard {
	logger = logger.With("guard", "auth")

	return func(next http.HandlerFunc, access routes.Access) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" && access == routes.Optional {
				next(w, r)
				return
			}

			raw, ok := bearerToken(header)
			if !ok {
				unauthorized(w, logger, r, "missing or malformed authorization header")
				return
			}

			p, err := sys.Authenticate(r.Context(), raw)
			if err != nil {
				unauthorized(w, logger, r, err.Error())
				return
			}

			next(w, r.WithContext(WithPrincipal(r.Context(), p)))
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, logger *slog.Logger, r *http.Request, reason string) {
	logger.Warn("request unauthorized", "method", r.Method, "path", r.URL.Path, "reason", reason)
	w.Header().Set("WWW-Authenticate", `Bearer realm="acervo"`)
	handlers.RespondJSON(w, http.StatusUnauthorized, map[string]string{"error": ErrUnauthorized.Error()})
}
