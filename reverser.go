package lhttp

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// Reverser keeps track of named route patterns and allows building urls
// from them by substituting parameter values in order.
type Reverser struct {
	pats map[string]string
}

// NewReverser inits the reverser.
func NewReverser() *Reverser {
	return &Reverser{pats: make(map[string]string)}
}

// Reverse reverses the named pattern into a url. Each ":name" parameter and
// the trailing wildcard consume one value, in order.
func (r *Reverser) Reverse(name string, vals ...string) (string, error) {
	pat, ok := r.pats[name]
	if !ok {
		return "", errors.Newf("no pattern named: %q, got: %v", name, lo.Keys(r.pats))
	}

	segs := strings.Split(strings.TrimPrefix(pat, "/"), "/")
	out := make([]string, 0, len(segs))

	for _, seg := range segs {
		if !strings.HasPrefix(seg, ":") && !strings.HasPrefix(seg, "*") {
			out = append(out, seg)
			continue
		}

		if len(vals) == 0 {
			return "", errors.Newf("not enough values to build %q from pattern %q", name, pat)
		}

		out = append(out, vals[0])
		vals = vals[1:]
	}

	if len(vals) > 0 {
		return "", errors.Newf("too many values to build %q from pattern %q, %d left over", name, pat, len(vals))
	}

	return "/" + strings.Join(out, "/"), nil
}

// Named is a convenience method that panics if naming the pattern fails.
func (r *Reverser) Named(name, pattern string) string {
	pattern, err := r.NamedPattern(name, pattern)
	if err != nil {
		panic("lhttp: " + err.Error())
	}

	return pattern
}

// NamedPattern records 'pattern' under 'name' while returning it as well.
func (r *Reverser) NamedPattern(name, pattern string) (string, error) {
	if _, exists := r.pats[name]; exists {
		return pattern, errors.Newf("pattern with name %q already exists", name)
	}

	r.pats[name] = pattern

	return pattern, nil
}
