package lapptest

import (
	"net/http"
	"net/http/httptest"

	"github.com/advdv/lhttp"
)

// CallHandler invokes a handler with a buffered response writer and returns
// the recorded response. It handles the boilerplate of wrapping
// [httptest.ResponseRecorder] in a [lhttp.ResponseWriter], coercing the
// return value and flushing the buffer afterward.
func CallHandler(handler lhttp.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	w := lhttp.NewResponseWriter(rec, -1)

	c := lhttp.NewContext(w, req)

	v, err := handler(c)
	if err != nil {
		panic("lapptest: handler returned error: " + err.Error())
	}

	if v != lhttp.Next {
		if err := lhttp.Respond(c, v, ""); err != nil {
			panic("lapptest: respond failed: " + err.Error())
		}
	}

	if err := w.FlushBuffer(); err != nil {
		panic("lapptest: FlushBuffer failed: " + err.Error())
	}

	return rec
}
