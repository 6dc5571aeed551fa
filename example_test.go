package lhttp_test

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/advdv/lhttp"
	"github.com/advdv/lhttp/internal/example"
)

func Example() {
	app := lhttp.New()

	router := lhttp.NewRouter()
	router.Get("/greet/:name", func(c *lhttp.Context) (any, error) {
		return "hello, " + c.Param("name"), nil
	})

	app.Use(router)

	srv := httptest.NewServer(app)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/greet/world")
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()

	fmt.Println(resp.Status)
	// Output: 200 OK
}

func ExampleApp_Mount() {
	app := lhttp.New()
	app.Mount("/api", func(c *lhttp.Context) (any, error) {
		return "mounted at " + c.Path(), nil
	})

	srv := httptest.NewServer(app)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/users")
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Println(string(body))
	// Output: mounted at /users
}

func ExampleWrap() {
	handler := lhttp.MustAdapt(func(c *lhttp.Context) (any, error) {
		example.Log(c).Info("handling request")
		return "wrapped", nil
	})

	app := lhttp.New()
	app.Use(lhttp.Wrap(handler, example.Middleware(slog.New(slog.DiscardHandler))))

	srv := httptest.NewServer(app)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Println(string(body))
	// Output: wrapped
}

func ExampleRouter_Reverse() {
	router := lhttp.NewRouter()
	router.Get("/users/:id", func(c *lhttp.Context) (any, error) { return nil, nil })
	router.Name("user", "/users/:id")

	url, _ := router.Reverse("user", "42")
	fmt.Println(url)
	// Output: /users/42
}
