// Package pathtrie implements the route-pattern tree used by the router. It
// stores one value per registered pattern and supports exact lookup as well as
// enumerating every pattern that matches a concrete path.
//
// Patterns are rooted paths made of literal segments, ":name" parameter
// segments that match any single path component, and a final "*" or "*name"
// wildcard segment that matches the remainder of the path.
package pathtrie

import (
	"fmt"
	"strings"
)

// WildcardParam is the parameter key used for an unnamed "*" wildcard.
const WildcardParam = "*"

// Tree maps path patterns to values of type V. The zero value is not usable,
// create one with New. Registration is not safe for concurrent use with
// lookups; callers are expected to insert before serving.
type Tree[V any] struct {
	root *node[V]
}

type node[V any] struct {
	static map[string]*node[V]
	param  *node[V] // at most one ":name" child per node
	wild   *node[V] // terminal "*name" child, matches the remainder

	paramName string
	wildName  string

	pattern string
	value   V
	set     bool
}

// New returns an empty tree.
func New[V any]() *Tree[V] {
	return &Tree[V]{root: &node[V]{}}
}

// Insert registers value under the given pattern and reports whether the
// pattern was newly inserted. Re-inserting an existing pattern leaves the
// stored value untouched and returns it with false.
//
// Insert panics when two patterns disagree on the parameter name for the
// same position, since such routes are indistinguishable at match time.
func (t *Tree[V]) Insert(pattern string, value V) (V, bool) {
	cur := t.root

	for seg, rest := firstSegment(trimPath(pattern)); seg != ""; seg, rest = firstSegment(rest) {
		switch {
		case strings.HasPrefix(seg, ":"):
			name := seg[1:]
			if cur.param == nil {
				cur.param = &node[V]{paramName: name}
			} else if cur.param.paramName != name {
				panic(fmt.Sprintf("pathtrie: conflicting parameter names %q and %q in pattern %q",
					cur.param.paramName, name, pattern))
			}
			cur = cur.param

		case strings.HasPrefix(seg, "*"):
			if rest != "" {
				panic(fmt.Sprintf("pathtrie: wildcard must be the final segment in pattern %q", pattern))
			}
			name := seg[1:]
			if name == "" {
				name = WildcardParam
			}
			if cur.wild == nil {
				cur.wild = &node[V]{wildName: name}
			} else if cur.wild.wildName != name {
				panic(fmt.Sprintf("pathtrie: conflicting wildcard names %q and %q in pattern %q",
					cur.wild.wildName, name, pattern))
			}
			cur = cur.wild

		default:
			if cur.static == nil {
				cur.static = make(map[string]*node[V])
			}
			child, ok := cur.static[seg]
			if !ok {
				child = &node[V]{}
				cur.static[seg] = child
			}
			cur = child
		}
	}

	if cur.set {
		return cur.value, false
	}

	cur.pattern = pattern
	cur.value = value
	cur.set = true

	return value, true
}

// Lookup finds the single best pattern matching path, together with the
// extracted parameters. Static segments take precedence over parameters,
// and parameters over wildcards, with backtracking between the three.
func (t *Tree[V]) Lookup(path string) (value V, params map[string]string, ok bool) {
	n, params := t.root.lookup(trimPath(path), nil)
	if n == nil {
		var zero V
		return zero, nil, false
	}

	return n.value, params, true
}

// Pattern returns the registered pattern that Lookup would resolve path to.
func (t *Tree[V]) Pattern(path string) (string, bool) {
	n, _ := t.root.lookup(trimPath(path), nil)
	if n == nil {
		return "", false
	}

	return n.pattern, true
}

func (n *node[V]) lookup(path string, params map[string]string) (*node[V], map[string]string) {
	if path == "" {
		if n.set {
			return n, params
		}
		// A trailing wildcard also matches the empty remainder.
		if n.wild != nil && n.wild.set {
			return n.wild, withParam(params, n.wild.wildName, "")
		}
		return nil, nil
	}

	seg, rest := firstSegment(path)

	if child, ok := n.static[seg]; ok {
		if found, p := child.lookup(rest, params); found != nil {
			return found, p
		}
	}

	if n.param != nil {
		if found, p := n.param.lookup(rest, withParam(params, n.param.paramName, seg)); found != nil {
			return found, p
		}
	}

	if n.wild != nil && n.wild.set {
		return n.wild, withParam(params, n.wild.wildName, path)
	}

	return nil, nil
}

// MatchAll returns the values of every registered pattern that matches path,
// ordered from least specific to most specific. At every position a wildcard
// is considered less specific than a parameter, and a parameter less specific
// than a static segment.
func (t *Tree[V]) MatchAll(path string) []V {
	var out []V
	t.root.collect(trimPath(path), &out)
	return out
}

func (n *node[V]) collect(path string, out *[]V) {
	if path == "" {
		if n.wild != nil && n.wild.set {
			*out = append(*out, n.wild.value)
		}
		if n.set {
			*out = append(*out, n.value)
		}
		return
	}

	seg, rest := firstSegment(path)

	if n.wild != nil && n.wild.set {
		*out = append(*out, n.wild.value)
	}
	if n.param != nil {
		n.param.collect(rest, out)
	}
	if child, ok := n.static[seg]; ok {
		child.collect(rest, out)
	}
}

// withParam copies before writing so values captured on a branch that later
// dead-ends never leak into the params of the branch that wins.
func withParam(params map[string]string, name, value string) map[string]string {
	next := make(map[string]string, len(params)+1)
	for k, v := range params {
		next[k] = v
	}
	next[name] = value

	return next
}

// trimPath strips the leading and trailing slash so segment iteration only
// ever sees the path's interior. The root path becomes the empty string.
func trimPath(p string) string {
	p = strings.TrimPrefix(p, "/")
	return strings.TrimSuffix(p, "/")
}

func firstSegment(p string) (seg, rest string) {
	if p == "" {
		return "", ""
	}
	if idx := strings.IndexByte(p, '/'); idx >= 0 {
		return p[:idx], p[idx+1:]
	}
	return p, ""
}
