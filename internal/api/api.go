// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/acervo/internal/config"
	"github.com/JaimeStill/acervo/internal/infrastructure"
	"github.com/JaimeStill/acervo/pkg/middleware"
	"github.com/JaimeStill/acervo/pkg/module"
)

// Module is the mounted API surface together with the domain systems
// that need lifecycle hooks once infrastructure has started.
type Module struct {
	*module.Module
	runtime *Runtime
	domain  *Domain
	cfg     *config.Config
}

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain, err := NewDomain(runtime, cfg)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	if err := registerRoutes(mux, cfg, domain, runtime); err != nil {
		return nil, err
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(
		middleware.Recover(runtime.Logger),
		middleware.CORS(&cfg.API.CORS),
		middleware.Logger(runtime.Logger),
		middleware.Metrics(),
	)

	return &Module{
		Module:  m,
		runtime: runtime,
		domain:  domain,
		cfg:     cfg,
	}, nil
}

// Start registers domain startup hooks. It must run after infrastructure
// has started so that the schema exists.
func (m *Module) Start() {
	if !m.cfg.Auth.SeedAdmin() {
		m.runtime.Logger.Warn("admin seed skipped: credentials not configured")
		return
	}
	m.domain.Auth.Start(
		m.runtime.Lifecycle,
		m.cfg.Auth.AdminUsername,
		m.cfg.Auth.AdminPassword,
	)
}
