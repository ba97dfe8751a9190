package routes

import (
	"fmt"
	"net/http"
)

// Group organizes routes under a common prefix with shared tags.
// Children without tags inherit the parent's.
type Group struct {
	Prefix   string
	Tags     []string
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to the mux.
// Non-public routes are wrapped with guard. Registering a non-public
// route with a nil guard panics so a route is never served unprotected.
func Register(mux *http.ServeMux, guard Guard, groups ...Group) {
	for _, group := range groups {
		registerGroup(mux, guard, "", group)
	}
}

func registerGroup(mux *http.ServeMux, guard Guard, parentPrefix string, group Group) {
	fullPrefix := parentPrefix + group.Prefix
	for _, route := range group.Routes {
		pattern := route.Method + " " + fullPrefix + route.Pattern
		handler := route.Handler

		if route.Access != Public {
			if guard == nil {
				panic(fmt.Sprintf("route %q is %s but no guard was provided", pattern, route.Access))
			}
			handler = guard(handler, route.Access)
		}

		mux.HandleFunc(pattern, handler)
	}
	for _, child := range group.Children {
		registerGroup(mux, guard, fullPrefix, child)
	}
}
