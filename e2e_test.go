package lhttp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/advdv/lhttp"
	"github.com/carlmjohnson/requests"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// TestEndToEnd drives a composed app over a real listener: an access-marking
// middleware layer, a mounted api router and a catch-all page handler.
func TestEndToEnd(t *testing.T) {
	logs := lhttp.NewTestLogger(t)

	api := lhttp.NewRouter(lhttp.Preemptive())
	api.Get("/users/:id", func(c *lhttp.Context) (any, error) {
		return map[string]string{"id": c.Param("id"), "route": c.MatchedRoute()}, nil
	})
	api.Post("/users", func(c *lhttp.Context) (any, error) {
		var in struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(c.Request().Body).Decode(&in); err != nil {
			return nil, lhttp.NewError(lhttp.CodeBadRequest, err)
		}

		return &lhttp.Response{
			Status: http.StatusCreated,
			Body:   []byte(`{"created":true,"name":"` + in.Name + `"}`),
		}, nil
	})

	app := lhttp.New(lhttp.WithLogger(logs))
	app.Use(func(c *lhttp.Context) (any, error) {
		c.Writer().Header().Set("X-Served-By", "lhttp")
		return lhttp.Next, nil
	})
	app.Mount("/api", api)
	app.Use(func(c *lhttp.Context) (any, error) {
		return "<h1>welcome</h1>", nil
	})

	srv := httptest.NewServer(app)
	defer srv.Close()

	ctx := context.Background()

	t.Run("api json", func(t *testing.T) {
		var body string
		err := requests.URL(srv.URL + "/api/users/42").ToString(&body).Fetch(ctx)
		require.NoError(t, err)
		require.Equal(t, "42", gjson.Get(body, "id").String())
		require.Equal(t, "/users/:id", gjson.Get(body, "route").String())
	})

	t.Run("api create", func(t *testing.T) {
		var body string
		err := requests.URL(srv.URL+"/api/users").
			BodyJSON(map[string]string{"name": "ada"}).
			ToString(&body).
			Fetch(ctx)
		require.NoError(t, err)
		require.True(t, gjson.Get(body, "created").Bool())
		require.Equal(t, "ada", gjson.Get(body, "name").String())
	})

	t.Run("api miss is preemptive", func(t *testing.T) {
		err := requests.URL(srv.URL + "/api/nope").Fetch(ctx)
		require.Error(t, err)
		require.True(t, requests.HasStatusErr(err, http.StatusNotFound))
	})

	t.Run("page catch-all", func(t *testing.T) {
		var body string
		err := requests.URL(srv.URL + "/anything").ToString(&body).Fetch(ctx)
		require.NoError(t, err)
		require.Equal(t, "<h1>welcome</h1>", body)
	})

	require.Zero(t, logs.NumLogUnhandledServeError)
}
