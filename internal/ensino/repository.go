package ensino

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/acervo/internal/assets"
	"github.com/JaimeStill/acervo/internal/content"
	"github.com/JaimeStill/acervo/pkg/query"
	"github.com/JaimeStill/acervo/pkg/repository"
	"github.com/JaimeStill/acervo/pkg/storage"
)

type repo struct {
	db      *sql.DB
	storage storage.System
	assets  assets.System
	logger  *slog.Logger
}

// New creates an ensino repository implementing the System interface.
func New(db *sql.DB, store storage.System, resolver assets.System, logger *slog.Logger) System {
	return &repo{
		db:      db,
		storage: store,
		assets:  resolver,
		logger:  logger.With("system", "ensino"),
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.assets, r.logger, maxUploadSize)
}

func (r *repo) List(ctx context.Context, filters Filters) ([]Ensino, error) {
	qb := query.NewBuilder(projection, defaultSort)
	filters.Apply(qb)

	q, args := qb.Build()
	items, err := repository.QueryMany(ctx, r.db, q, args, scanEnsino)
	if err != nil {
		return nil, fmt.Errorf("query ensino: %w", err)
	}
	return items, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Ensino, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	e, err := repository.QueryOne(ctx, r.db, q, args, scanEnsino)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &e, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Ensino, error) {
	cmd = cmd.Normalize()
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	stager := content.NewStager(r.storage, r.logger)

	e, err := r.create(ctx, id, stager, cmd)
	if err != nil {
		stager.Rollback(ctx)
		return nil, err
	}

	r.logger.Info("ensino created", "id", e.ID, "title", e.Title)
	return e, nil
}

func (r *repo) create(ctx context.Context, id uuid.UUID, stager *content.Stager, cmd CreateCommand) (*Ensino, error) {
	material, err := stager.Stage(ctx, id, "material", cmd.Material)
	if err != nil {
		return nil, err
	}

	image, err := stager.Stage(ctx, id, "image", cmd.Image)
	if err != nil {
		return nil, err
	}

	q := `
		INSERT INTO ensino(id, title, description, subject, tipo, video_url, material_file, image_file)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + returningColumns

	args := []any{
		id,
		cmd.Title,
		cmd.Description,
		cmd.Subject,
		cmd.Tipo,
		content.Optional(cmd.VideoURL),
		material,
		image,
	}

	e, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Ensino, error) {
		return repository.QueryOne(ctx, tx, q, args, scanEnsino)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &e, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	type files struct {
		material sql.NullString
		image    sql.NullString
	}

	f, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (files, error) {
		var f files
		err := tx.QueryRowContext(
			ctx,
			"DELETE FROM ensino WHERE id = $1 RETURNING material_file, image_file",
			id,
		).Scan(&f.material, &f.image)
		return f, err
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	content.Discard(ctx, r.storage, r.logger, f.material.String, f.image.String)

	r.logger.Info("ensino deleted", "id", id)
	return nil
}
