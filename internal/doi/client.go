package doi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/JaimeStill/acervo/internal/config"
)

// maxResponseSize bounds the registry response body.
const maxResponseSize = 4 << 20

var lookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "acervo_doi_lookups_total",
	Help: "DOI lookups by outcome (hit, ok, invalid, error).",
}, []string{"outcome"})

// System fetches normalized DOI metadata.
type System interface {
	Handler() *Handler
	// Fetch returns the normalized metadata for doi.
	// Every failure wraps ErrLookupFailure.
	Fetch(ctx context.Context, doi string) (*Metadata, error)
}

type client struct {
	http      *http.Client
	baseURL   *url.URL
	userAgent string
	cache     *expirable.LRU[string, Metadata]
	logger    *slog.Logger
}

// New creates a CrossRef client. A CacheSize of zero disables caching.
func New(cfg *config.DOIConfig, version string, logger *slog.Logger) (System, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse doi base url: %w", err)
	}

	c := &client{
		http:      &http.Client{Timeout: cfg.TimeoutDuration()},
		baseURL:   base,
		userAgent: userAgent(version, cfg.Mailto),
		logger:    logger.With("system", "doi"),
	}

	if cfg.CacheSize > 0 {
		c.cache = expirable.NewLRU[string, Metadata](cfg.CacheSize, nil, cfg.CacheTTLDuration())
	}

	return c, nil
}

func (c *client) Handler() *Handler {
	return NewHandler(c, c.logger)
}

func (c *client) Fetch(ctx context.Context, raw string) (*Metadata, error) {
	doi, err := Normalize(raw)
	if err != nil {
		lookupsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	if c.cache != nil {
		if m, ok := c.cache.Get(doi); ok {
			lookupsTotal.WithLabelValues("hit").Inc()
			m = m.clone()
			return &m, nil
		}
	}

	m, err := c.lookup(ctx, doi)
	if err != nil {
		lookupsTotal.WithLabelValues("error").Inc()
		c.logger.Warn("doi lookup failed", "doi", doi, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrLookupFailure, err)
	}
	lookupsTotal.WithLabelValues("ok").Inc()

	if c.cache != nil {
		c.cache.Add(doi, m.clone())
	}

	c.logger.Info("doi resolved", "doi", doi, "title", m.Title)
	return &m, nil
}

func (c *client) lookup(ctx context.Context, doi string) (Metadata, error) {
	endpoint := c.baseURL.JoinPath("works", doi)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), http.NoBody)
	if err != nil {
		return Metadata{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return Metadata{}, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		return Metadata{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body workResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&body); err != nil {
		return Metadata{}, fmt.Errorf("decode response: %w", err)
	}

	return body.Message.metadata(), nil
}

func userAgent(version, mailto string) string {
	ua := "Acervo/" + version
	if mailto != "" {
		ua += " (mailto:" + mailto + ")"
	}
	return ua
}
