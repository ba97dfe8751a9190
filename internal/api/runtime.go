package api

import (
	"github.com/JaimeStill/acervo/internal/config"
	"github.com/JaimeStill/acervo/internal/infrastructure"
	"github.com/JaimeStill/acervo/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	MaxUploadSize int64
	Pagination    pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		MaxUploadSize: cfg.API.MaxUploadSizeBytes(),
		Pagination:    cfg.API.Pagination,
	}
}
