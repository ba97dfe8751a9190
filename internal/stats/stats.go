// Package stats computes live catalog statistics: collection totals,
// per-type breakdowns, and the newest records of each collection.
package stats

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/acervo/internal/products"
	"github.com/JaimeStill/acervo/pkg/repository"
)

const recentLimit = 3

// Summary is a point-in-time view of the catalog. ProductTypes holds every
// product type, zero when unused. EnsinoTypes and ExtensaoTypes hold only the
// non-empty tipo values in use.
type Summary struct {
	TotalProducts  int64            `json:"total_products"`
	TotalNews      int64            `json:"total_news"`
	TotalEnsino    int64            `json:"total_ensino"`
	TotalExtensao  int64            `json:"total_extensao"`
	ProductTypes   map[string]int64 `json:"product_types"`
	EnsinoTypes    map[string]int64 `json:"ensino_types"`
	ExtensaoTypes  map[string]int64 `json:"extensao_types"`
	RecentProducts []Recent         `json:"recent_products"`
	RecentEnsino   []Recent         `json:"recent_ensino"`
	RecentExtensao []Recent         `json:"recent_extensao"`
}

// Recent identifies a newly created record.
type Recent struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// System aggregates catalog statistics.
type System interface {
	Handler() *Handler
	Summarize(ctx context.Context) (*Summary, error)
}

type aggregator struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a statistics aggregator over db.
func New(db *sql.DB, logger *slog.Logger) System {
	return &aggregator{
		db:     db,
		logger: logger.With("system", "stats"),
	}
}

func (a *aggregator) Handler() *Handler {
	return NewHandler(a, a.logger)
}

// Summarize runs the independent aggregate queries concurrently. The first
// failure cancels the rest.
func (a *aggregator) Summarize(ctx context.Context) (*Summary, error) {
	s := &Summary{
		ProductTypes: make(map[string]int64, len(products.Types)),
	}
	for _, t := range products.Types {
		s.ProductTypes[t] = 0
	}

	var productTypes map[string]int64

	g, ctx := errgroup.WithContext(ctx)

	g.Go(a.count(ctx, "products", &s.TotalProducts))
	g.Go(a.count(ctx, "news", &s.TotalNews))
	g.Go(a.count(ctx, "ensino", &s.TotalEnsino))
	g.Go(a.count(ctx, "extensao", &s.TotalExtensao))

	g.Go(a.group(ctx, "SELECT product_type, COUNT(*) FROM products GROUP BY product_type", &productTypes))
	g.Go(a.group(ctx, "SELECT tipo, COUNT(*) FROM ensino WHERE tipo <> '' GROUP BY tipo", &s.EnsinoTypes))
	g.Go(a.group(ctx, "SELECT tipo, COUNT(*) FROM extensao WHERE tipo <> '' GROUP BY tipo", &s.ExtensaoTypes))

	g.Go(a.recent(ctx, "products", &s.RecentProducts))
	g.Go(a.recent(ctx, "ensino", &s.RecentEnsino))
	g.Go(a.recent(ctx, "extensao", &s.RecentExtensao))

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for t, n := range productTypes {
		s.ProductTypes[t] = n
	}

	return s, nil
}

// Table names below are constants of this package, never request input.

func (a *aggregator) count(ctx context.Context, table string, dst *int64) func() error {
	return func() error {
		n, err := repository.QueryValue[int64](ctx, a.db, "SELECT COUNT(*) FROM "+table)
		if err != nil {
			return fmt.Errorf("count %s: %w", table, err)
		}
		*dst = n
		return nil
	}
}

func (a *aggregator) group(ctx context.Context, q string, dst *map[string]int64) func() error {
	type bucket struct {
		key   string
		count int64
	}

	return func() error {
		buckets, err := repository.QueryMany(ctx, a.db, q, nil, func(s repository.Scanner) (bucket, error) {
			var b bucket
			err := s.Scan(&b.key, &b.count)
			return b, err
		})
		if err != nil {
			return fmt.Errorf("group counts: %w", err)
		}

		m := make(map[string]int64, len(buckets))
		for _, b := range buckets {
			m[b.key] = b.count
		}
		*dst = m
		return nil
	}
}

func (a *aggregator) recent(ctx context.Context, table string, dst *[]Recent) func() error {
	q := fmt.Sprintf(
		"SELECT id, title, created_at FROM %s ORDER BY created_at DESC LIMIT %d",
		table, recentLimit,
	)

	return func() error {
		items, err := repository.QueryMany(ctx, a.db, q, nil, func(s repository.Scanner) (Recent, error) {
			var r Recent
			err := s.Scan(&r.ID, &r.Title, &r.CreatedAt)
			return r, err
		})
		if err != nil {
			return fmt.Errorf("recent %s: %w", table, err)
		}
		*dst = items
		return nil
	}
}
