package products

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/acervo/internal/assets"
	"github.com/JaimeStill/acervo/internal/content"
	"github.com/JaimeStill/acervo/internal/doi"
)

// Domain errors for product operations.
var (
	ErrNotFound     = errors.New("product not found")
	ErrDuplicate    = errors.New("product already exists")
	ErrFileNotFound = errors.New("product file not found")
)

// MapHTTPStatus maps product domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if status := content.MapHTTPStatus(err); status != 0 {
		return status
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrFileNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, assets.ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, doi.ErrLookupFailure) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
