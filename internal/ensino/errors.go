package ensino

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/acervo/internal/assets"
	"github.com/JaimeStill/acervo/internal/content"
)

// Domain errors for teaching resource operations.
var (
	ErrNotFound     = errors.New("ensino not found")
	ErrDuplicate    = errors.New("ensino already exists")
	ErrFileNotFound = errors.New("ensino has no material")
)

// MapHTTPStatus maps ensino domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if status := content.MapHTTPStatus(err); status != 0 {
		return status
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrFileNotFound), errors.Is(err, assets.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
