package lhttp

import (
	"sync"

	"github.com/advdv/lhttp/internal/pathtrie"
)

// MethodAll registers a handler as a wildcard usable by any request method.
// Method-specific registrations take precedence over it.
const MethodAll = "ALL"

// RouteNode holds the handlers registered for one distinct route pattern.
// The method map grows only during registration; the fallback cache is the
// single piece of state written during request handling and is therefore a
// sync.Map.
type RouteNode struct {
	pattern  string
	handlers map[string]Handler

	// fallback memoizes shadow-fallback resolutions per method so repeated
	// requests to the same ambiguous path skip the search. Racing writes
	// store the same handler reference, the last write is harmless.
	fallback sync.Map // method -> Handler
}

// Pattern returns the node's route pattern.
func (n *RouteNode) Pattern() string { return n.pattern }

func (n *RouteNode) register(method string, h Handler) {
	n.handlers[method] = h
}

// handler selects the handler for a method: method-specific first, then the
// MethodAll wildcard, then a memoized shadow-fallback result.
func (n *RouteNode) handler(method string) (Handler, bool) {
	if h, ok := n.handlers[method]; ok {
		return h, true
	}
	if h, ok := n.handlers[MethodAll]; ok {
		return h, true
	}
	if v, ok := n.fallback.Load(method); ok {
		return v.(Handler), true
	}

	return nil, false
}

// registered is like handler but never consults the memo cache, so a
// fallback search cannot feed on earlier fallback results.
func (n *RouteNode) registered(method string) (Handler, bool) {
	if h, ok := n.handlers[method]; ok {
		return h, true
	}
	if h, ok := n.handlers[MethodAll]; ok {
		return h, true
	}

	return nil, false
}

func (n *RouteNode) memoize(method string, h Handler) {
	n.fallback.Store(method, h)
}

// routeTable is the method-aware wrapper around the path trie: an arena of
// route nodes indexed by pattern, with trie insertion happening exactly once
// per distinct pattern.
type routeTable struct {
	trie  *pathtrie.Tree[*RouteNode]
	nodes map[string]*RouteNode
}

func newRouteTable() *routeTable {
	return &routeTable{
		trie:  pathtrie.New[*RouteNode](),
		nodes: make(map[string]*RouteNode),
	}
}

// node returns the route node for a pattern, creating and inserting it into
// the trie on first sight. Re-adding a method to an existing pattern must
// not re-insert.
func (t *routeTable) node(pattern string) *RouteNode {
	pattern = normalizeRoute(pattern)

	if n, ok := t.nodes[pattern]; ok {
		return n
	}

	n := &RouteNode{pattern: pattern, handlers: make(map[string]Handler)}
	t.nodes[pattern] = n
	t.trie.Insert(pattern, n)

	return n
}

func (t *routeTable) lookup(path string) (*RouteNode, map[string]string, bool) {
	return t.trie.Lookup(path)
}

// matchAll enumerates every registered pattern matching path, ordered from
// least to most specific.
func (t *routeTable) matchAll(path string) []*RouteNode {
	return t.trie.MatchAll(path)
}
