package content

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/acervo/pkg/repository"
)

// MapHTTPStatus maps shared request errors to HTTP status codes.
// It returns 0 when err is not one of them.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidFile), errors.Is(err, ErrInvalidForm):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrCheckViolation):
		return http.StatusBadRequest
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	}
	return 0
}
