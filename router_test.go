package lhttp_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/advdv/lhttp"
	"github.com/stretchr/testify/require"
)

func TestRouterMethodWildcard(t *testing.T) {
	router := lhttp.NewRouter()
	router.All("/x", func(c *lhttp.Context) (any, error) {
		return "any " + c.Method(), nil
	})

	app := lhttp.New(lhttp.WithLogger(lhttp.NewTestLogger(t))).Use(router)

	rec := serve(t, app, http.MethodGet, "/x")
	require.Equal(t, "any GET", rec.Body.String())

	rec = serve(t, app, http.MethodPost, "/x")
	require.Equal(t, "any POST", rec.Body.String())
}

func TestRouterMethodPrecedence(t *testing.T) {
	router := lhttp.NewRouter()
	router.All("/x", func(c *lhttp.Context) (any, error) { return "wildcard", nil })
	router.Get("/x", func(c *lhttp.Context) (any, error) { return "specific", nil })

	app := lhttp.New(lhttp.WithLogger(lhttp.NewTestLogger(t))).Use(router)

	rec := serve(t, app, http.MethodGet, "/x")
	require.Equal(t, "specific", rec.Body.String(), "method-specific beats the wildcard")

	rec = serve(t, app, http.MethodDelete, "/x")
	require.Equal(t, "wildcard", rec.Body.String())
}

func TestRouterParams(t *testing.T) {
	router := lhttp.NewRouter()
	router.Get("/items/:id", func(c *lhttp.Context) (any, error) {
		return fmt.Sprintf("item-%s", c.Param("id")), nil
	})

	app := lhttp.New(lhttp.WithLogger(lhttp.NewTestLogger(t))).Use(router)

	rec := serve(t, app, http.MethodGet, "/items/42")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "item-42", rec.Body.String())
	require.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"),
		"string responses are html typed")
}

func TestRouterMatchedRoute(t *testing.T) {
	router := lhttp.NewRouter()
	router.Get("/items/:id", func(c *lhttp.Context) (any, error) {
		return c.MatchedRoute(), nil
	})

	app := lhttp.New(lhttp.WithLogger(lhttp.NewTestLogger(t))).Use(router)

	rec := serve(t, app, http.MethodGet, "/items/7")
	require.Equal(t, "/items/:id", rec.Body.String())
}

func TestRouterPassesThrough(t *testing.T) {
	router := lhttp.NewRouter()
	router.Get("/known", func(c *lhttp.Context) (any, error) { return "known", nil })

	app := lhttp.New(lhttp.WithLogger(lhttp.NewTestLogger(t)))
	app.Use(router)
	app.Use(func(c *lhttp.Context) (any, error) { return "fallthrough", nil })

	rec := serve(t, app, http.MethodGet, "/unknown")
	require.Equal(t, "fallthrough", rec.Body.String(),
		"a non-preemptive router defers to the next layer")

	rec = serve(t, app, http.MethodPost, "/known")
	require.Equal(t, "fallthrough", rec.Body.String(),
		"an unmatched method also defers")
}

func TestRouterPreemptive(t *testing.T) {
	router := lhttp.NewRouter(lhttp.Preemptive())
	router.Get("/known", func(c *lhttp.Context) (any, error) { return "known", nil })

	app := lhttp.New(lhttp.WithLogger(lhttp.NewTestLogger(t)))
	app.Use(router)
	app.Use(func(c *lhttp.Context) (any, error) { return "fallthrough", nil })

	t.Run("unmatched path is not found", func(t *testing.T) {
		rec := serve(t, app, http.MethodGet, "/unknown")
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unmatched method is not allowed", func(t *testing.T) {
		rec := serve(t, app, http.MethodPost, "/known")
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		require.Contains(t, rec.Body.String(), "POST", "the error names the method")
	})

	t.Run("undecided handler becomes no content", func(t *testing.T) {
		router.Get("/undecided", func(c *lhttp.Context) (any, error) {
			return lhttp.Next, nil
		})

		rec := serve(t, app, http.MethodGet, "/undecided")
		require.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestRouterPreemtiveAlias(t *testing.T) {
	router := lhttp.NewRouter(lhttp.Preemtive())

	app := lhttp.New(lhttp.WithLogger(lhttp.NewTestLogger(t))).Use(router)

	rec := serve(t, app, http.MethodGet, "/anything")
	require.Equal(t, http.StatusNotFound, rec.Code, "the alias behaves as preemptive")
}

func TestRouterShadowFallback(t *testing.T) {
	var served []string

	router := lhttp.NewRouter()
	router.Get("/a/:id", func(c *lhttp.Context) (any, error) {
		served = append(served, "param")
		return "param handler", nil
	})
	router.Post("/a/fixed", func(c *lhttp.Context) (any, error) {
		served = append(served, "fixed")
		return "fixed handler", nil
	})

	app := lhttp.New(lhttp.WithLogger(lhttp.NewTestLogger(t))).Use(router)

	rec := serve(t, app, http.MethodGet, "/a/fixed")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "param handler", rec.Body.String(),
		"a GET to the POST-only pattern falls back to the overlapping pattern")

	rec = serve(t, app, http.MethodPost, "/a/fixed")
	require.Equal(t, "fixed handler", rec.Body.String(),
		"the registered method still wins on its own node")

	require.Equal(t, []string{"param", "fixed"}, served)
}

func TestRouterWildcardPattern(t *testing.T) {
	router := lhttp.NewRouter()
	router.Get("/static/*filepath", func(c *lhttp.Context) (any, error) {
		return c.Param("filepath"), nil
	})

	app := lhttp.New(lhttp.WithLogger(lhttp.NewTestLogger(t))).Use(router)

	rec := serve(t, app, http.MethodGet, "/static/css/site.css")
	require.Equal(t, "css/site.css", rec.Body.String())
}

func TestRouterTrailingSlashRegistration(t *testing.T) {
	router := lhttp.NewRouter()
	router.Get("/foo/", func(c *lhttp.Context) (any, error) { return "foo", nil })

	app := lhttp.New(lhttp.WithLogger(lhttp.NewTestLogger(t))).Use(router)

	rec := serve(t, app, http.MethodGet, "/foo")
	require.Equal(t, http.StatusOK, rec.Code, "registering /foo/ behaves identically to /foo")
}

func TestRouterReverse(t *testing.T) {
	router := lhttp.NewRouter()
	router.Get("/users/:id/posts/:postID", func(c *lhttp.Context) (any, error) { return nil, nil })
	router.Name("user-post", "/users/:id/posts/:postID")

	url, err := router.Reverse("user-post", "42", "101")
	require.NoError(t, err)
	require.Equal(t, "/users/42/posts/101", url)

	_, err = router.Reverse("nope")
	require.Error(t, err)
}
