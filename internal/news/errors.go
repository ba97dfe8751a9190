package news

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/acervo/internal/content"
	"github.com/JaimeStill/acervo/pkg/pagination"
)

// Domain errors for news operations.
var (
	ErrNotFound  = errors.New("news not found")
	ErrDuplicate = errors.New("news already exists")
)

// MapHTTPStatus maps news domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if status := content.MapHTTPStatus(err); status != 0 {
		return status
	}
	if errors.Is(err, pagination.ErrInvalidWindow) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
