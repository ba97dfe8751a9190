package auth_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/acervo/internal/auth"
	"github.com/JaimeStill/acervo/pkg/lifecycle"
	"github.com/JaimeStill/acervo/pkg/routes"
)

type mockSystem struct {
	login          func(ctx context.Context, username, password string) (*auth.Token, error)
	authenticate   func(ctx context.Context, token string) (*auth.Principal, error)
	changePassword func(ctx context.Context, username, current, next string) error
	register       func(ctx context.Context, username, password string) (*auth.User, error)
}

func (m *mockSystem) Handler() *auth.Handler {
	return auth.NewHandler(m, slog.New(slog.DiscardHandler))
}

func (m *mockSystem) Login(ctx context.Context, username, password string) (*auth.Token, error) {
	return m.login(ctx, username, password)
}

func (m *mockSystem) Authenticate(ctx context.Context, token string) (*auth.Principal, error) {
	return m.authenticate(ctx, token)
}

func (m *mockSystem) ChangePassword(ctx context.Context, username, current, next string) error {
	return m.changePassword(ctx, username, current, next)
}

func (m *mockSystem) Register(ctx context.Context, username, password string) (*auth.User, error) {
	return m.register(ctx, username, password)
}

func (m *mockSystem) EnsureAdmin(context.Context, string, string) error { return nil }

func (m *mockSystem) Start(*lifecycle.Coordinator, string, string) {}

func acceptOnly(valid string) func(context.Context, string) (*auth.Principal, error) {
	return func(_ context.Context, token string) (*auth.Principal, error) {
		if token != valid {
			return nil, auth.ErrUnauthorized
		}
		return &auth.Principal{UserID: uuid.New(), Username: "admin"}, nil
	}
}

func TestGuard(t *testing.T) {
	sys := &mockSystem{authenticate: acceptOnly("good")}
	guard := auth.Guard(sys, slog.New(slog.DiscardHandler))

	tests := []struct {
		name       string
		access     routes.Access
		header     string
		wantStatus int
		wantCalled bool
		wantUser   string
	}{
		{"protected valid", routes.Protected, "Bearer good", http.StatusOK, true, "admin"},
		{"protected lower-case scheme", routes.Protected, "bearer good", http.StatusOK, true, "admin"},
		{"protected missing", routes.Protected, "", http.StatusUnauthorized, false, ""},
		{"protected malformed", routes.Protected, "Token good", http.StatusUnauthorized, false, ""},
		{"protected empty token", routes.Protected, "Bearer ", http.StatusUnauthorized, false, ""},
		{"protected invalid", routes.Protected, "Bearer expired", http.StatusUnauthorized, false, ""},
		{"optional absent", routes.Optional, "", http.StatusOK, true, ""},
		{"optional valid", routes.Optional, "Bearer good", http.StatusOK, true, "admin"},
		{"optional invalid", routes.Optional, "Bearer forged", http.StatusUnauthorized, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called bool
			var user string
			next := func(w http.ResponseWriter, r *http.Request) {
				called = true
				if p, ok := auth.PrincipalFrom(r.Context()); ok {
					user = p.Username
				}
				w.WriteHeader(http.StatusOK)
			}

			req := httptest.NewRequest("DELETE", "/products/1", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			guard(next, tt.access)(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
			if called != tt.wantCalled {
				t.Errorf("handler called: got %v, want %v", called, tt.wantCalled)
			}
			if user != tt.wantUser {
				t.Errorf("principal: got %q, want %q", user, tt.wantUser)
			}
			if rec.Code == http.StatusUnauthorized {
				if body := strings.TrimSpace(rec.Body.String()); body != `{"error":"unauthorized"}` {
					t.Errorf("body: got %s", body)
				}
				if rec.Header().Get("WWW-Authenticate") == "" {
					t.Error("missing WWW-Authenticate header")
				}
			}
		})
	}
}

func newMux(sys auth.System) *http.ServeMux {
	mux := http.NewServeMux()
	routes.Register(mux, auth.Guard(sys, slog.New(slog.DiscardHandler)), sys.Handler().Routes())
	return mux
}

func TestLoginHandler(t *testing.T) {
	sys := &mockSystem{
		login: func(_ context.Context, username, password string) (*auth.Token, error) {
			if username != "admin" || password != "secret-pass" {
				return nil, auth.ErrInvalidCredentials
			}
			return &auth.Token{AccessToken: "tok", TokenType: "bearer"}, nil
		},
	}
	mux := newMux(sys)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"valid", `{"username":"admin","password":"secret-pass"}`, http.StatusOK},
		{"invalid", `{"username":"admin","password":"nope"}`, http.StatusUnauthorized},
		{"malformed", `{"username":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("POST", "/auth/login", strings.NewReader(tt.body)))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				var tok auth.Token
				json.NewDecoder(rec.Body).Decode(&tok)
				if tok.AccessToken != "tok" || tok.TokenType != "bearer" {
					t.Errorf("token: got %+v", tok)
				}
			}
		})
	}
}

func TestChangePasswordHandler(t *testing.T) {
	var changedFor string
	sys := &mockSystem{
		authenticate: acceptOnly("good"),
		changePassword: func(_ context.Context, username, current, next string) error {
			if current != "old-password" {
				return auth.ErrWrongPassword
			}
			changedFor = username
			return nil
		},
	}
	mux := newMux(sys)

	t.Run("requires token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/auth/change-password", strings.NewReader(`{}`))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rec.Code)
		}
	})

	t.Run("wrong current", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/auth/change-password",
			strings.NewReader(`{"current_password":"x","new_password":"new-password"}`))
		req.Header.Set("Authorization", "Bearer good")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", rec.Code)
		}
	})

	t.Run("changed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/auth/change-password",
			strings.NewReader(`{"current_password":"old-password","new_password":"new-password"}`))
		req.Header.Set("Authorization", "Bearer good")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rec.Code)
		}
		if changedFor != "admin" {
			t.Errorf("changed for: got %q, want admin", changedFor)
		}
	})
}

func TestRegisterHandler(t *testing.T) {
	sys := &mockSystem{
		authenticate: acceptOnly("good"),
		register: func(_ context.Context, username, _ string) (*auth.User, error) {
			if username == "admin" {
				return nil, auth.ErrDuplicate
			}
			return &auth.User{ID: uuid.New(), Username: username}, nil
		},
	}
	mux := newMux(sys)

	tests := []struct {
		name       string
		body       string
		token      string
		wantStatus int
	}{
		{"created", `{"username":"editor","password":"long-enough"}`, "good", http.StatusCreated},
		{"duplicate", `{"username":"admin","password":"long-enough"}`, "good", http.StatusConflict},
		{"unauthenticated", `{"username":"editor","password":"long-enough"}`, "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/auth/register", strings.NewReader(tt.body))
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			mux.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusCreated && strings.Contains(rec.Body.String(), "password") {
				t.Error("response must not expose password material")
			}
		})
	}
}
