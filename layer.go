package lhttp

import "strings"

// MatcherFunc is an additional gate consulted after a layer's prefix
// matched. It receives the path as the layer's handler would see it, i.e.
// relative to the mount point. It must be side-effect free.
type MatcherFunc func(path string, c *Context) bool

// Layer is one registered route-prefix-plus-handler unit in the middleware
// stack. Layers are immutable once constructed.
type Layer struct {
	// Route is the mount prefix. It never ends in a slash, except for the
	// root route "/".
	Route string

	// Matcher optionally gates the layer beyond the prefix match.
	Matcher MatcherFunc

	// Handler runs when the layer matches. May be any shape supported by
	// [Adapt]; it is normalized at registration time.
	Handler any
}

// newLayer normalizes an input layer into its canonical runtime form: the
// route is cleaned, the handler adapted exactly once.
func newLayer(l Layer) layer {
	return layer{
		route:   normalizeRoute(l.Route),
		matcher: l.Matcher,
		handler: MustAdapt(l.Handler),
	}
}

type layer struct {
	route   string
	matcher MatcherFunc
	handler Handler
}

// match computes the path suffix this layer's handler should see, or
// reports false when the layer does not apply to the given path.
func (l layer) match(path string, c *Context) (string, bool) {
	suffix := path

	if len(l.route) > 1 {
		rest, ok := strings.CutPrefix(path, l.route)
		if !ok {
			return "", false
		}
		if rest != "" && rest[0] != '/' {
			// "/api" must not capture "/apiv2".
			return "", false
		}
		if rest == "" {
			rest = "/"
		}

		suffix = rest
	}

	if l.matcher != nil && !l.matcher(suffix, c) {
		return "", false
	}

	return suffix, true
}

// normalizeRoute defaults an empty route to the root and strips the
// trailing slash: registering "/foo/" behaves identically to "/foo".
func normalizeRoute(route string) string {
	if route == "" {
		return "/"
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	for len(route) > 1 && strings.HasSuffix(route, "/") {
		route = strings.TrimSuffix(route, "/")
	}

	return route
}

// expandUnits recursively expands the units accepted by [App.Use] and
// [App.Mount] into normalized layers, preserving order. Each unit becomes
// exactly one layer; units are never merged.
func expandUnits(route string, units []any) []layer {
	out := make([]layer, 0, len(units))

	for _, unit := range units {
		switch u := unit.(type) {
		case Layer:
			out = append(out, newLayer(u))
		case *Layer:
			out = append(out, newLayer(*u))
		case []any:
			out = append(out, expandUnits(route, u)...)
		default:
			out = append(out, newLayer(Layer{Route: route, Handler: u}))
		}
	}

	return out
}
