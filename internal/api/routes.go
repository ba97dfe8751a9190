package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/JaimeStill/acervo/internal/auth"
	"github.com/JaimeStill/acervo/internal/config"
	"github.com/JaimeStill/acervo/pkg/openapi"
	"github.com/JaimeStill/acervo/pkg/routes"
)

func routeGroups(domain *Domain, runtime *Runtime) []routes.Group {
	return []routes.Group{
		domain.Auth.Handler().Routes(),
		domain.Products.Handler(runtime.MaxUploadSize).Routes(),
		domain.News.Handler(runtime.MaxUploadSize, runtime.Pagination).Routes(),
		domain.Ensino.Handler(runtime.MaxUploadSize).Routes(),
		domain.Extensao.Handler(runtime.MaxUploadSize).Routes(),
		domain.Assets.Handler().Routes(),
		domain.DOI.Handler().Routes(),
		domain.Stats.Handler().Routes(),
	}
}

// registerRoutes mounts the domain routes and GET /openapi.json describing them.
func registerRoutes(mux *http.ServeMux, cfg *config.Config, domain *Domain, runtime *Runtime) error {
	groups := routeGroups(domain, runtime)
	routes.Register(mux, auth.Guard(domain.Auth, runtime.Logger), groups...)

	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)
	routes.Describe(spec, groups...)

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		return fmt.Errorf("openapi document: %w", err)
	}
	if err := openapi.Validate(context.Background(), data); err != nil {
		return fmt.Errorf("openapi document: %w", err)
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(data))
	return nil
}
