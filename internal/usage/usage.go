// Package usage increments the view and download counters of catalog records.
package usage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/JaimeStill/acervo/pkg/repository"
)

// Counter names a usage counter column.
type Counter string

const (
	Views     Counter = "view_count"
	Downloads Counter = "download_count"
)

// Kind names a counted collection.
type Kind string

const Products Kind = "products"

var (
	ErrNotFound           = errors.New("record not found")
	ErrUnsupportedCounter = errors.New("unsupported counter")
)

// counters whitelists the table and column pairs that may be incremented,
// since both are interpolated into SQL.
var counters = map[Kind][]Counter{
	Products: {Views, Downloads},
}

var (
	incrementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "acervo_usage_increments_total",
		Help: "Usage counter increments by collection, counter, and outcome.",
	}, []string{"kind", "counter", "outcome"})
)

// System records accesses against catalog records.
type System interface {
	// Record atomically increments counter on the record and returns the new value.
	Record(ctx context.Context, kind Kind, id uuid.UUID, counter Counter) (int64, error)
	// Track records an access and logs failures instead of returning them.
	Track(ctx context.Context, kind Kind, id uuid.UUID, counter Counter)
}

type recorder struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a usage recorder over db.
func New(db *sql.DB, logger *slog.Logger) System {
	return &recorder{
		db:     db,
		logger: logger.With("system", "usage"),
	}
}

func (r *recorder) Record(ctx context.Context, kind Kind, id uuid.UUID, counter Counter) (int64, error) {
	q, err := incrementQuery(kind, counter)
	if err != nil {
		return 0, err
	}

	n, err := repository.QueryValue[int64](ctx, r.db, q, id)
	if err != nil {
		incrementsTotal.WithLabelValues(string(kind), string(counter), "error").Inc()
		return 0, repository.MapError(err, ErrNotFound, err)
	}

	incrementsTotal.WithLabelValues(string(kind), string(counter), "ok").Inc()
	return n, nil
}

func (r *recorder) Track(ctx context.Context, kind Kind, id uuid.UUID, counter Counter) {
	if _, err := r.Record(ctx, kind, id, counter); err != nil {
		r.logger.Warn(
			"usage increment failed",
			"kind", kind,
			"id", id,
			"counter", counter,
			"error", err,
		)
	}
}

func incrementQuery(kind Kind, counter Counter) (string, error) {
	if !slices.Contains(counters[kind], counter) {
		return "", fmt.Errorf("%w: %s.%s", ErrUnsupportedCounter, kind, counter)
	}
	return fmt.Sprintf(
		"UPDATE %s SET %s = %s + 1 WHERE id = $1 RETURNING %s",
		kind, counter, counter, counter,
	), nil
}
