package routes

import (
	"net/http"

	"github.com/JaimeStill/acervo/pkg/openapi"
)

// Access describes the credential requirement of a route.
type Access int

const (
	// Public routes are served without inspecting credentials.
	Public Access = iota
	// Optional routes validate credentials only when the client presents them.
	Optional
	// Protected routes require valid credentials.
	Protected
)

func (a Access) String() string {
	switch a {
	case Optional:
		return "optional"
	case Protected:
		return "protected"
	default:
		return "public"
	}
}

// Route binds an HTTP method and pattern to a handler. Summary, Query, and
// Status only feed the OpenAPI document; a zero Status derives the success
// code from the method.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	Access  Access
	Summary string
	Query   []*openapi.Parameter
	Status  int
}

// Guard wraps a handler with the credential check required by access.
type Guard func(next http.HandlerFunc, access Access) http.HandlerFunc
