package pathtrie_test

import (
	"testing"

	"github.com/advdv/lhttp/internal/pathtrie"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, patterns ...string) *pathtrie.Tree[string] {
	t.Helper()

	tree := pathtrie.New[string]()
	for _, p := range patterns {
		_, inserted := tree.Insert(p, p)
		require.True(t, inserted, "pattern %q should insert fresh", p)
	}

	return tree
}

func TestLookupStatic(t *testing.T) {
	tree := build(t, "/", "/a", "/a/b", "/c")

	for path, want := range map[string]string{
		"/":    "/",
		"/a":   "/a",
		"/a/b": "/a/b",
		"/c":   "/c",
	} {
		v, params, ok := tree.Lookup(path)
		require.True(t, ok, path)
		require.Equal(t, want, v)
		require.Empty(t, params)
	}

	_, _, ok := tree.Lookup("/a/b/c")
	require.False(t, ok, "deeper than any registered pattern")
	_, _, ok = tree.Lookup("/d")
	require.False(t, ok)
}

func TestLookupParams(t *testing.T) {
	tree := build(t, "/users/:id", "/users/:id/posts/:postID")

	v, params, ok := tree.Lookup("/users/42")
	require.True(t, ok)
	require.Equal(t, "/users/:id", v)
	require.Equal(t, map[string]string{"id": "42"}, params)

	v, params, ok = tree.Lookup("/users/42/posts/7")
	require.True(t, ok)
	require.Equal(t, "/users/:id/posts/:postID", v)
	require.Equal(t, map[string]string{"id": "42", "postID": "7"}, params)

	_, _, ok = tree.Lookup("/users/42/posts")
	require.False(t, ok, "partial match is no match")
}

func TestLookupPrecedence(t *testing.T) {
	tree := build(t, "/a/:id", "/a/fixed", "/a/*rest")

	v, _, ok := tree.Lookup("/a/fixed")
	require.True(t, ok)
	require.Equal(t, "/a/fixed", v, "static beats param and wildcard")

	v, params, ok := tree.Lookup("/a/other")
	require.True(t, ok)
	require.Equal(t, "/a/:id", v, "param beats wildcard")
	require.Equal(t, "other", params["id"])

	v, params, ok = tree.Lookup("/a/x/y")
	require.True(t, ok)
	require.Equal(t, "/a/*rest", v, "only the wildcard spans segments")
	require.Equal(t, "x/y", params["rest"])
}

func TestLookupBacktracking(t *testing.T) {
	// The static branch dead-ends at depth two so the match must back
	// up and take the parameter branch from the top.
	tree := build(t, "/a/fixed/deep", "/a/:id/leaf")

	v, params, ok := tree.Lookup("/a/fixed/leaf")
	require.True(t, ok)
	require.Equal(t, "/a/:id/leaf", v)
	require.Equal(t, "fixed", params["id"])
}

func TestLookupWildcard(t *testing.T) {
	tree := build(t, "/files/*")

	v, params, ok := tree.Lookup("/files/a/b/c.txt")
	require.True(t, ok)
	require.Equal(t, "/files/*", v)
	require.Equal(t, "a/b/c.txt", params[pathtrie.WildcardParam])

	v, params, ok = tree.Lookup("/files")
	require.True(t, ok, "a trailing wildcard also matches the empty remainder")
	require.Equal(t, "/files/*", v)
	require.Equal(t, "", params[pathtrie.WildcardParam])
}

func TestInsertIdempotent(t *testing.T) {
	tree := pathtrie.New[string]()

	v, inserted := tree.Insert("/a/:id", "first")
	require.True(t, inserted)
	require.Equal(t, "first", v)

	v, inserted = tree.Insert("/a/:id", "second")
	require.False(t, inserted, "re-inserting keeps the stored value")
	require.Equal(t, "first", v)
}

func TestInsertConflicts(t *testing.T) {
	t.Run("param names", func(t *testing.T) {
		tree := build(t, "/a/:id")
		require.Panics(t, func() { tree.Insert("/a/:name", "x") })
	})

	t.Run("wildcard names", func(t *testing.T) {
		tree := build(t, "/a/*rest")
		require.Panics(t, func() { tree.Insert("/a/*tail", "x") })
	})

	t.Run("non-final wildcard", func(t *testing.T) {
		tree := pathtrie.New[string]()
		require.Panics(t, func() { tree.Insert("/a/*/b", "x") })
	})
}

func TestPattern(t *testing.T) {
	tree := build(t, "/users/:id")

	pat, ok := tree.Pattern("/users/42")
	require.True(t, ok)
	require.Equal(t, "/users/:id", pat)

	_, ok = tree.Pattern("/nope")
	require.False(t, ok)
}

func TestMatchAllOrdering(t *testing.T) {
	tree := build(t, "/a/fixed", "/a/:id", "/a/*rest")

	require.Equal(t, []string{"/a/*rest", "/a/:id", "/a/fixed"}, tree.MatchAll("/a/fixed"),
		"matches are ordered least to most specific")
	require.Equal(t, []string{"/a/*rest", "/a/:id"}, tree.MatchAll("/a/other"))
	require.Equal(t, []string{"/a/*rest"}, tree.MatchAll("/a/x/y"))
	require.Empty(t, tree.MatchAll("/b"))
}
