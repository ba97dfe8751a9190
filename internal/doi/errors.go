package doi

import (
	"errors"
	"net/http"
)

// ErrLookupFailure covers every failed DOI lookup: malformed or unknown DOIs,
// registry errors, undecodable responses, and timeouts. Its message is the
// only detail reported to clients.
var ErrLookupFailure = errors.New("DOI lookup failed; verify the DOI")

// MapHTTPStatus maps DOI lookup errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrLookupFailure) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
