// Package pagination parses skip/limit windows for list endpoints.
package pagination

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ErrInvalidWindow reports a malformed skip or limit parameter.
var ErrInvalidWindow = errors.New("invalid pagination")

// Window selects a slice of an ordered listing. Limit zero means no limit.
type Window struct {
	Skip  int
	Limit int
}

// Unbounded reports whether the window covers the whole listing.
func (w Window) Unbounded() bool {
	return w.Skip == 0 && w.Limit == 0
}

// WindowFromQuery parses the skip and limit query parameters. A missing
// limit falls back to cfg.DefaultLimit; limits above cfg.MaxLimit are clamped.
func WindowFromQuery(values url.Values, cfg Config) (Window, error) {
	skip, err := param(values, "skip", 0)
	if err != nil {
		return Window{}, err
	}

	limit, err := param(values, "limit", 1)
	if err != nil {
		return Window{}, err
	}
	if limit == 0 {
		limit = cfg.DefaultLimit
	}

	w := Window{Skip: skip, Limit: limit}
	w.Normalize(cfg)
	return w, nil
}

// Normalize clamps the window to the configured bounds.
func (w *Window) Normalize(cfg Config) {
	if w.Skip < 0 {
		w.Skip = 0
	}
	if w.Limit < 0 {
		w.Limit = 0
	}
	if cfg.MaxLimit > 0 && w.Limit > cfg.MaxLimit {
		w.Limit = cfg.MaxLimit
	}
}

func param(values url.Values, name string, min int) (int, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < min {
		return 0, fmt.Errorf("%w: %s must be an integer of at least %d", ErrInvalidWindow, name, min)
	}
	return n, nil
}
