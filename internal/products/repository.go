package products

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/JaimeStill/acervo/internal/assets"
	"github.com/JaimeStill/acervo/internal/content"
	"github.com/JaimeStill/acervo/internal/doi"
	"github.com/JaimeStill/acervo/internal/usage"
	"github.com/JaimeStill/acervo/pkg/query"
	"github.com/JaimeStill/acervo/pkg/repository"
	"github.com/JaimeStill/acervo/pkg/storage"
)

type repo struct {
	db      *sql.DB
	storage storage.System
	doi     doi.System
	usage   usage.System
	assets  assets.System
	logger  *slog.Logger
}

// New creates a product repository implementing the System interface.
// The DOI, usage, and asset systems back the handler's enrichment,
// counter, and download paths.
func New(
	db *sql.DB,
	store storage.System,
	lookup doi.System,
	counter usage.System,
	resolver assets.System,
	logger *slog.Logger,
) System {
	return &repo{
		db:      db,
		storage: store,
		doi:     lookup,
		usage:   counter,
		assets:  resolver,
		logger:  logger.With("system", "products"),
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.doi, r.usage, r.assets, r.logger, maxUploadSize)
}

func (r *repo) List(ctx context.Context, filters Filters) ([]Product, error) {
	qb := query.NewBuilder(projection, defaultSort)
	filters.Apply(qb)

	q, args := qb.Build()
	products, err := repository.QueryMany(ctx, r.db, q, args, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	return products, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Product, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanProduct)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Product, error) {
	cmd = cmd.Normalize()
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	stager := content.NewStager(r.storage, r.logger)

	p, err := r.create(ctx, id, stager, cmd)
	if err != nil {
		stager.Rollback(ctx)
		return nil, err
	}

	r.logger.Info("product created", "id", p.ID, "title", p.Title, "type", p.ProductType)
	return p, nil
}

func (r *repo) create(ctx context.Context, id uuid.UUID, stager *content.Stager, cmd CreateCommand) (*Product, error) {
	documentFile, err := stager.Stage(ctx, id, roleDocument, cmd.Document)
	if err != nil {
		return nil, err
	}

	audioFile, err := stager.Stage(ctx, id, roleAudio, cmd.Audio)
	if err != nil {
		return nil, err
	}

	var documentPages *int
	if documentFile != nil {
		documentPages = cmd.DocumentPages
	}

	q := `
		INSERT INTO products(id, title, authors, abstract, product_type, doi, publication_year, journal,
			keywords, url, document_file, document_pages, audio_file)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + returningColumns

	args := []any{
		id,
		cmd.Title,
		pq.Array(cmd.Authors),
		cmd.Abstract,
		cmd.ProductType,
		content.Optional(cmd.DOI),
		cmd.PublicationYear,
		content.Optional(cmd.Journal),
		pq.Array(cmd.Keywords),
		content.Optional(cmd.URL),
		documentFile,
		documentPages,
		audioFile,
	}

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Product, error) {
		return repository.QueryOne(ctx, tx, q, args, scanProduct)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &p, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	type files struct {
		document sql.NullString
		audio    sql.NullString
	}

	f, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (files, error) {
		var f files
		err := tx.QueryRowContext(
			ctx,
			"DELETE FROM products WHERE id = $1 RETURNING document_file, audio_file",
			id,
		).Scan(&f.document, &f.audio)
		return f, err
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	content.Discard(ctx, r.storage, r.logger, f.document.String, f.audio.String)

	r.logger.Info("product deleted", "id", id)
	return nil
}
