package extensao

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/acervo/internal/assets"
	"github.com/JaimeStill/acervo/internal/content"
)

// Domain errors for outreach operations.
var (
	ErrNotFound     = errors.New("extensao not found")
	ErrDuplicate    = errors.New("extensao already exists")
	ErrFileNotFound = errors.New("extensao has no material")
)

// MapHTTPStatus maps extensao domain errors to appropriate HTTP status codes.
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
