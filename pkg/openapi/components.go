package openapi

// BearerAuth is the security scheme name for token-protected operations.
const BearerAuth = "bearerAuth"

// Components holds reusable responses and security schemes.
type Components struct {
	Responses       map[string]*Response       `json:"responses,omitempty"`
	SecuritySchemes map[string]*SecurityScheme `json:"securitySchemes,omitempty"`
}

var errorBody = &Schema{
	Type: "object",
	Properties: map[string]*Schema{
		"error":  {Type: "string", Description: "Error message"},
		"fields": {Type: "object", Description: "Per-field validation messages"},
	},
}

func errorResponse(description string) *Response {
	return &Response{
		Description: description,
		Content: map[string]*MediaType{
			"application/json": {Schema: errorBody},
		},
	}
}

// NewComponents creates Components with the shared error responses and the
// bearer token scheme.
func NewComponents() *Components {
	return &Components{
		Responses: map[string]*Response{
			"BadRequest":   errorResponse("Invalid request"),
			"Unauthorized": errorResponse("Missing or invalid token"),
			"NotFound":     errorResponse("Resource not found"),
			"Conflict":     errorResponse("Resource conflict"),
		},
		SecuritySchemes: map[string]*SecurityScheme{
			BearerAuth: {Type: "http", Scheme: "bearer", BearerFormat: "JWT"},
		},
	}
}
