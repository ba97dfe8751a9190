package api

import (
	"fmt"

	"github.com/JaimeStill/acervo/internal/assets"
	"github.com/JaimeStill/acervo/internal/auth"
	"github.com/JaimeStill/acervo/internal/config"
	"github.com/JaimeStill/acervo/internal/doi"
	"github.com/JaimeStill/acervo/internal/ensino"
	"github.com/JaimeStill/acervo/internal/extensao"
	"github.com/JaimeStill/acervo/internal/news"
	"github.com/JaimeStill/acervo/internal/products"
	"github.com/JaimeStill/acervo/internal/stats"
	"github.com/JaimeStill/acervo/internal/usage"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Auth     auth.System
	Assets   assets.System
	DOI      doi.System
	Usage    usage.System
	Products products.System
	News     news.System
	Ensino   ensino.System
	Extensao extensao.System
	Stats    stats.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime, cfg *config.Config) (*Domain, error) {
	db := runtime.Database.Connection()

	lookup, err := doi.New(&cfg.DOI, cfg.Version, runtime.Logger)
	if err != nil {
		return nil, fmt.Errorf("doi init failed: %w", err)
	}

	assetsSystem := assets.New(runtime.Storage, runtime.Logger)
	usageSystem := usage.New(db, runtime.Logger)

	return &Domain{
		Auth:   auth.New(db, &cfg.Auth, runtime.Logger),
		Assets: assetsSystem,
		DOI:    lookup,
		Usage:  usageSystem,
		Products: products.New(
			db,
			runtime.Storage,
			lookup,
			usageSystem,
			assetsSystem,
			runtime.Logger,
		),
		News:     news.New(db, runtime.Storage, runtime.Logger),
		Ensino:   ensino.New(db, runtime.Storage, assetsSystem, runtime.Logger),
		Extensao: extensao.New(db, runtime.Storage, assetsSystem, runtime.Logger),
		Stats:    stats.New(db, runtime.Logger),
	}, nil
}
