package routes

import (
	"net/http"
	"strings"

	"github.com/JaimeStill/acervo/pkg/openapi"
)

// Describe adds an operation to spec for every route in groups. Path
// wildcards become path parameters, and non-public routes reference the
// bearer security scheme.
func Describe(spec *openapi.Spec, groups ...Group) {
	for _, group := range groups {
		describeGroup(spec, "", nil, group)
	}
}

func describeGroup(spec *openapi.Spec, parentPrefix string, parentTags []string, group Group) {
	fullPrefix := parentPrefix + group.Prefix
	tags := group.Tags
	if len(tags) == 0 {
		tags = parentTags
	}

	for _, route := range group.Routes {
		path, params := openAPIPath(fullPrefix + route.Pattern)
		spec.AddOperation(route.Method, path, operation(route, tags, params))
	}
	for _, child := range group.Children {
		describeGroup(spec, fullPrefix, tags, child)
	}
}

func operation(route Route, tags []string, params []*openapi.Parameter) *openapi.Operation {
	op := &openapi.Operation{
		Summary:    route.Summary,
		Tags:       tags,
		Parameters: append(params, route.Query...),
		Responses: map[int]*openapi.Response{
			successStatus(route): {Description: http.StatusText(successStatus(route))},
		},
	}

	if len(params) > 0 {
		op.Responses[http.StatusNotFound] = openapi.ResponseRef("NotFound")
	}
	if route.Method == http.MethodPost || route.Method == http.MethodPut || len(route.Query) > 0 {
		op.Responses[http.StatusBadRequest] = openapi.ResponseRef("BadRequest")
	}

	switch route.Access {
	case Protected:
		op.Security = []openapi.SecurityRequirement{{openapi.BearerAuth: {}}}
		op.Responses[http.StatusUnauthorized] = openapi.ResponseRef("Unauthorized")
	case Optional:
		op.Security = []openapi.SecurityRequirement{{}, {openapi.BearerAuth: {}}}
		op.Responses[http.StatusUnauthorized] = openapi.ResponseRef("Unauthorized")
	}

	return op
}

func successStatus(route Route) int {
	if route.Status != 0 {
		return route.Status
	}
	switch route.Method {
	case http.MethodPost:
		return http.StatusCreated
	case http.MethodDelete:
		return http.StatusNoContent
	default:
		return http.StatusOK
	}
}

// openAPIPath rewrites mux wildcards ({name} and {name...}) into OpenAPI
// path templates and returns a parameter for each.
func openAPIPath(pattern string) (string, []*openapi.Parameter) {
	segments := strings.Split(pattern, "/")
	var params []*openapi.Parameter

	for i, seg := range segments {
		if !strings.HasPrefix(seg, "{") || !strings.HasSuffix(seg, "}") {
			continue
		}
		name := strings.TrimSuffix(strings.Trim(seg, "{}"), "...")
		segments[i] = "{" + name + "}"
		params = append(params, openapi.PathParam(name, ""))
	}

	path := strings.Join(segments, "/")
	if path == "" {
		path = "/"
	}
	return path, params
}
