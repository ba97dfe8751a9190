package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/JaimeStill/acervo/internal/config"
	"github.com/JaimeStill/acervo/internal/content"
	"github.com/JaimeStill/acervo/pkg/lifecycle"
	"github.com/JaimeStill/acervo/pkg/query"
	"github.com/JaimeStill/acervo/pkg/repository"
)

const minPasswordLength = 8

var projection = query.
	NewProjectionMap("public", "users", "u").
	Project("id", "ID").
	Project("username", "Username").
	Project("password_hash", "PasswordHash").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

// dummyHash keeps unknown-user logins as slow as wrong-password logins.
var dummyHash = sync.OnceValue(func() []byte {
	hash, _ := bcrypt.GenerateFromPassword([]byte("acervo-timing-equalizer"), bcrypt.DefaultCost)
	return hash
})

type repo struct {
	db     *sql.DB
	tokens *tokens
	logger *slog.Logger
}

// New creates an auth system implementing the System interface.
func New(db *sql.DB, cfg *config.AuthConfig, logger *slog.Logger) System {
	return &repo{
		db:     db,
		tokens: newTokens(cfg.Secret, cfg.Issuer, cfg.TokenExpiryDuration()),
		logger: logger.With("system", "auth"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Login(ctx context.Context, username, password string) (*Token, error) {
	var v content.Validator
	v.Require("username", username)
	v.Require("password", password)
	if err := v.Err(); err != nil {
		return nil, err
	}

	username = strings.TrimSpace(username)

	u, err := r.find(ctx, username)
	if errors.Is(err, ErrNotFound) {
		bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		r.logger.Warn("login failed", "username", username, "reason", "unknown user")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password)); err != nil {
		r.logger.Warn("login failed", "username", username, "reason", "wrong password")
		return nil, ErrInvalidCredentials
	}

	token, err := r.tokens.issue(u.Username)
	if err != nil {
		return nil, err
	}

	r.logger.Info("user logged in", "username", u.Username)
	return token, nil
}

func (r *repo) Authenticate(ctx context.Context, raw string) (*Principal, error) {
	username, err := r.tokens.verify(raw)
	if err != nil {
		return nil, err
	}

	u, err := r.find(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: user %q no longer exists", ErrUnauthorized, username)
	}
	if err != nil {
		return nil, err
	}

	return &Principal{UserID: u.ID, Username: u.Username}, nil
}

func (r *repo) ChangePassword(ctx context.Context, username, current, next string) error {
	var v content.Validator
	v.Require("current_password", current)
	checkPassword(&v, "new_password", next)
	if err := v.Err(); err != nil {
		return err
	}

	u, err := r.find(ctx, username)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(current)); err != nil {
		return ErrWrongPassword
	}

	hash, err := hashPassword(next)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"UPDATE users SET password_hash = $2, updated_at = now() WHERE username = $1",
			username, hash,
		)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("password changed", "username", username)
	return nil
}

func (r *repo) Register(ctx context.Context, username, password string) (*User, error) {
	var v content.Validator
	v.Require("username", username)
	checkPassword(&v, "password", password)
	if err := v.Err(); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	q := `
		INSERT INTO users (id, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, username, password_hash, created_at, updated_at`

	args := []any{uuid.New(), strings.TrimSpace(username), hash}

	u, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (User, error) {
		return repository.QueryOne(ctx, tx, q, args, scanUser)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("user registered", "username", u.Username)
	return &u, nil
}

func (r *repo) EnsureAdmin(ctx context.Context, username, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(
		ctx,
		`INSERT INTO users (id, username, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO NOTHING`,
		uuid.New(), username, hash,
	)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	if n, _ := result.RowsAffected(); n > 0 {
		r.logger.Info("admin account created", "username", username)
	} else {
		r.logger.Info("admin account present", "username", username)
	}
	return nil
}

func (r *repo) Start(lc *lifecycle.Coordinator, username, password string) {
	lc.OnStartup(func() {
		ctx, cancel := context.WithTimeout(lc.Context(), 30*time.Second)
		defer cancel()

		if err := r.EnsureAdmin(ctx, username, password); err != nil {
			r.logger.Error("admin seed failed", "error", err)
			lc.Fail(err)
		}
	})
}

func (r *repo) find(ctx context.Context, username string) (User, error) {
	q, args := query.NewBuilder(projection).BuildSingle("Username", username)

	u, err := repository.QueryOne(ctx, r.db, q, args, scanUser)
	if err != nil {
		return User{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return u, nil
}

func scanUser(s repository.Scanner) (User, error) {
	var u User
	err := s.Scan(&u.ID, &u.Username, &u.passwordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func checkPassword(v *content.Validator, field, password string) {
	v.Require(field, password)
	v.Check(len(password) >= minPasswordLength, field, fmt.Sprintf("must be at least %d characters", minPasswordLength))
	v.Check(len(password) <= 72, field, "must be at most 72 bytes")
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
