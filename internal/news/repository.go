package news

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/acervo/internal/content"
	"github.com/JaimeStill/acervo/pkg/pagination"
	"github.com/JaimeStill/acervo/pkg/query"
	"github.com/JaimeStill/acervo/pkg/repository"
	"github.com/JaimeStill/acervo/pkg/storage"
)

const roleImage = "image"

type repo struct {
	db      *sql.DB
	storage storage.System
	logger  *slog.Logger
}

// New creates a news repository implementing the System interface.
func New(db *sql.DB, store storage.System, logger *slog.Logger) System {
	return &repo{
		db:      db,
		storage: store,
		logger:  logger.With("system", "news"),
	}
}

func (r *repo) Handler(maxUploadSize int64, page pagination.Config) *Handler {
	return NewHandler(r, r.logger, maxUploadSize, page)
}

func (r *repo) List(ctx context.Context, filters Filters) ([]News, error) {
	qb := query.NewBuilder(projection, defaultSort)
	filters.Apply(qb)

	q, args := qb.BuildPage(filters.Window.Skip, filters.Window.Limit)
	items, err := repository.QueryMany(ctx, r.db, q, args, scanNews)
	if err != nil {
		return nil, fmt.Errorf("query news: %w", err)
	}
	return items, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*News, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	n, err := repository.QueryOne(ctx, r.db, q, args, scanNews)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &n, nil
}

func (r *repo) Create(ctx context.Context, cmd Command) (*News, error) {
	cmd = cmd.Normalize()
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	stager := content.NewStager(r.storage, r.logger)

	image, err := stager.Stage(ctx, id, roleImage, cmd.Image)
	if err != nil {
		return nil, err
	}

	q := `
		INSERT INTO news(id, title, content, category, author, image_file)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + returningColumns

	args := []any{id, cmd.Title, cmd.Content, cmd.Category, cmd.Author, image}

	n, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (News, error) {
		return repository.QueryOne(ctx, tx, q, args, scanNews)
	})
	if err != nil {
		stager.Rollback(ctx)
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("news created", "id", n.ID, "title", n.Title)
	return &n, nil
}

// Update replaces the text fields and bumps updated_at. A new image is staged
// under a fresh asset id before the row changes; the replaced image is
// removed only after the update commits.
func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd Command) (*News, error) {
	cmd = cmd.Normalize()
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	stager := content.NewStager(r.storage, r.logger)

	image, err := stager.Stage(ctx, id, revisionRole(), cmd.Image)
	if err != nil {
		return nil, err
	}

	type result struct {
		news     News
		previous sql.NullString
	}

	q := `
		UPDATE news
		SET title = $2, content = $3, category = $4, author = $5,
			image_file = COALESCE($6, image_file), updated_at = now()
		WHERE id = $1
		RETURNING ` + returningColumns

	args := []any{id, cmd.Title, cmd.Content, cmd.Category, cmd.Author, image}

	res, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (result, error) {
		var res result

		previous, err := repository.QueryValue[sql.NullString](
			ctx, tx,
			"SELECT image_file FROM news WHERE id = $1 FOR UPDATE",
			id,
		)
		if err != nil {
			return res, err
		}
		res.previous = previous

		res.news, err = repository.QueryOne(ctx, tx, q, args, scanNews)
		return res, err
	})
	if err != nil {
		stager.Rollback(ctx)
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if image != nil && res.previous.Valid && res.previous.String != *image {
		content.Discard(ctx, r.storage, r.logger, res.previous.String)
	}

	r.logger.Info("news updated", "id", id, "image_replaced", image != nil)
	return &res.news, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	image, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (sql.NullString, error) {
		return repository.QueryValue[sql.NullString](
			ctx, tx,
			"DELETE FROM news WHERE id = $1 RETURNING image_file",
			id,
		)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	content.Discard(ctx, r.storage, r.logger, image.String)

	r.logger.Info("news deleted", "id", id)
	return nil
}

// revisionRole names a replacement image so it never collides with the
// asset it replaces.
func revisionRole() string {
	return roleImage + "-" + uuid.NewString()[:8]
}
