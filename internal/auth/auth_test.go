package auth_test

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/JaimeStill/acervo/internal/auth"
	"github.com/JaimeStill/acervo/internal/config"
	"github.com/JaimeStill/acervo/internal/content"
)

const findUserSQL = "SELECT u.id, u.username, u.password_hash, u.created_at, u.updated_at FROM public.users u WHERE u.username = $1"

var userColumns = []string{"id", "username", "password_hash", "created_at", "updated_at"}

func newSystem(t *testing.T) (auth.System, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.AuthConfig{
		Secret:      "0123456789abcdef0123456789abcdef",
		TokenExpiry: "1h",
		Issuer:      "acervo",
	}
	return auth.New(db, cfg, slog.New(slog.DiscardHandler)), mock
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(h)
}

func userRow(t *testing.T, username, password string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(userColumns).
		AddRow(uuid.NewString(), username, hash(t, password), now, now)
}

func TestLoginAndAuthenticate(t *testing.T) {
	sys, mock := newSystem(t)
	ctx := context.Background()

	mock.ExpectQuery(findUserSQL).WithArgs("admin").WillReturnRows(userRow(t, "admin", "correct-horse"))
	mock.ExpectQuery(findUserSQL).WithArgs("admin").WillReturnRows(userRow(t, "admin", "correct-horse"))

	token, err := sys.Login(ctx, " admin ", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token.AccessToken == "" || token.TokenType != "bearer" {
		t.Fatalf("token: got %+v", token)
	}

	p, err := sys.Authenticate(ctx, token.AccessToken)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if p.Username != "admin" {
		t.Errorf("principal: got %s, want admin", p.Username)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestLoginFailures(t *testing.T) {
	t.Run("wrong password", func(t *testing.T) {
		sys, mock := newSystem(t)
		mock.ExpectQuery(findUserSQL).WithArgs("admin").WillReturnRows(userRow(t, "admin", "correct-horse"))

		_, err := sys.Login(context.Background(), "admin", "battery-staple")
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			t.Errorf("error: got %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		sys, mock := newSystem(t)
		mock.ExpectQuery(findUserSQL).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

		_, err := sys.Login(context.Background(), "ghost", "whatever")
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			t.Errorf("error: got %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("blank fields", func(t *testing.T) {
		sys, _ := newSystem(t)

		_, err := sys.Login(context.Background(), " ", "")
		if !errors.Is(err, content.ErrValidation) {
			t.Errorf("error: got %v, want validation error", err)
		}
	})
}

func TestAuthenticateDeletedUser(t *testing.T) {
	sys, mock := newSystem(t)
	ctx := context.Background()

	mock.ExpectQuery(findUserSQL).WithArgs("editor").WillReturnRows(userRow(t, "editor", "correct-horse"))
	token, err := sys.Login(ctx, "editor", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	mock.ExpectQuery(findUserSQL).WithArgs("editor").WillReturnError(sql.ErrNoRows)
	_, err = sys.Authenticate(ctx, token.AccessToken)
	if !errors.Is(err, auth.ErrUnauthorized) {
		t.Errorf("error: got %v, want ErrUnauthorized", err)
	}
}

func TestRegister(t *testing.T) {
	insertSQL := `INSERT INTO users (id, username, password_hash) VALUES ($1, $2, $3) RETURNING id, username, password_hash, created_at, updated_at`

	t.Run("created", func(t *testing.T) {
		sys, mock := newSystem(t)
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(insertSQL).
			WithArgs(sqlmock.AnyArg(), "editor", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(uuid.NewString(), "editor", "hash", now, now))
		mock.ExpectCommit()

		u, err := sys.Register(context.Background(), " editor ", "long-enough")
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		if u.Username != "editor" {
			t.Errorf("username: got %s", u.Username)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		sys, mock := newSystem(t)

		mock.ExpectBegin()
		mock.ExpectQuery(insertSQL).
			WithArgs(sqlmock.AnyArg(), "admin", sqlmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: "23505"})
		mock.ExpectRollback()

		_, err := sys.Register(context.Background(), "admin", "long-enough")
		if !errors.Is(err, auth.ErrDuplicate) {
			t.Errorf("error: got %v, want ErrDuplicate", err)
		}
	})

	t.Run("short password", func(t *testing.T) {
		sys, _ := newSystem(t)

		_, err := sys.Register(context.Background(), "editor", "short")
		var ve *content.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("error: got %v, want *ValidationError", err)
		}
		if _, ok := ve.Fields()["password"]; !ok {
			t.Errorf("fields: got %v, want password", ve.Fields())
		}
	})
}

func TestChangePassword(t *testing.T) {
	updateSQL := "UPDATE users SET password_hash = $2, updated_at = now() WHERE username = $1"

	t.Run("changed", func(t *testing.T) {
		sys, mock := newSystem(t)

		mock.ExpectQuery(findUserSQL).WithArgs("admin").WillReturnRows(userRow(t, "admin", "old-password"))
		mock.ExpectBegin()
		mock.ExpectExec(updateSQL).WithArgs("admin", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		if err := sys.ChangePassword(context.Background(), "admin", "old-password", "new-password"); err != nil {
			t.Fatalf("change password: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})

	t.Run("wrong current", func(t *testing.T) {
		sys, mock := newSystem(t)
		mock.ExpectQuery(findUserSQL).WithArgs("admin").WillReturnRows(userRow(t, "admin", "old-password"))

		err := sys.ChangePassword(context.Background(), "admin", "not-it", "new-password")
		if !errors.Is(err, auth.ErrWrongPassword) {
			t.Errorf("error: got %v, want ErrWrongPassword", err)
		}
		if got := auth.MapHTTPStatus(err); got != 400 {
			t.Errorf("status: got %d, want 400", got)
		}
	})
}

func TestEnsureAdmin(t *testing.T) {
	seedSQL := regexp.QuoteMeta("INSERT INTO users (id, username, password_hash) VALUES ($1, $2, $3) ON CONFLICT (username) DO NOTHING")

	tests := []struct {
		name     string
		affected int64
	}{
		{"created", 1},
		{"existing account untouched", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("sqlmock.New: %v", err)
			}
			defer db.Close()

			cfg := &config.AuthConfig{Secret: "0123456789abcdef0123456789abcdef", TokenExpiry: "1h", Issuer: "acervo"}
			sys := auth.New(db, cfg, slog.New(slog.DiscardHandler))

			mock.ExpectExec(seedSQL).
				WithArgs(sqlmock.AnyArg(), "admin", sqlmock.AnyArg()).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			if err := sys.EnsureAdmin(context.Background(), "admin", "seed-password"); err != nil {
				t.Fatalf("ensure admin: %v", err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Error(err)
			}
		})
	}
}
