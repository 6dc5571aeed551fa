package lhttp

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"reflect"

	"github.com/cockroachdb/errors"
)

// Response is an explicit wire response. Handlers can return it to take
// full control over status, headers and body; it is relayed verbatim.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Blob is a response value whose bytes are extracted on demand, possibly
// involving I/O. The declared content type is used for the response when the
// handler did not set one already.
type Blob interface {
	ContentType() string
	Bytes(c *Context) ([]byte, error)
}

// AlreadySent marks a return value that signals the response was fully
// written through some lower-level primitive; no further action is taken.
type AlreadySent interface {
	ResponseSent()
}

// Sent is a ready-made [AlreadySent] value.
type Sent struct{}

// ResponseSent implements the [AlreadySent] interface.
func (Sent) ResponseSent() {}

// Respond coerces a handler's return value into a wire response and writes
// it through the request's buffered writer. The value shapes are tried in a
// fixed priority order; the first matching rule wins:
//
//	nil                      no body, 204 No Content
//	*Response                relayed verbatim
//	[]byte, *bytes.Buffer    sent as binary
//	io.Reader                body streamed
//	Blob                     bytes extracted, sent with declared content type
//	error                    normalized into a handler failure
//	AlreadySent              no action, request is done
//	string                   sent as text/html
//	*big.Int                 stringified, sent as application/json
//	bool, numbers, objects   JSON encoded, sent as application/json
//	anything else            fails with an unsupported-response-type error
//
// A non-empty indent enables pretty-printed JSON. The [Next] sentinel is
// handled by the layer stack and must never be passed in here.
func Respond(c *Context, v any, indent string) error {
	w := c.Writer()

	if v == nil {
		w.WriteHeader(http.StatusNoContent)
		c.MarkHandled()
		return nil
	}

	switch tv := v.(type) {
	case *Response:
		for k, vs := range tv.Header {
			w.Header()[k] = vs
		}
		if tv.Status > 0 {
			w.WriteHeader(tv.Status)
		}
		if _, err := w.Write(tv.Body); err != nil {
			return errors.Wrap(err, "write response body")
		}

	// The concrete byte shapes come before io.Reader: a *bytes.Buffer is
	// also a reader, but must take the binary path with its content type.
	case []byte:
		return respondBinary(c, tv, "")
	case *bytes.Buffer:
		return respondBinary(c, tv.Bytes(), "")

	case io.Reader:
		if _, err := io.Copy(w, tv); err != nil {
			return errors.Wrap(err, "stream response body")
		}

	case Blob:
		data, err := tv.Bytes(c)
		if err != nil {
			return errors.Wrap(err, "extract blob bytes")
		}

		return respondBinary(c, data, tv.ContentType())

	case error:
		// A returned error value is treated identically to a thrown one.
		return tv

	case AlreadySent:

	case string:
		contentTypeIfUnset(w, "text/html; charset=utf-8")
		if _, err := io.WriteString(w, tv); err != nil {
			return errors.Wrap(err, "write response body")
		}

	case *big.Int:
		contentTypeIfUnset(w, "application/json")
		if _, err := io.WriteString(w, tv.String()); err != nil {
			return errors.Wrap(err, "write response body")
		}

	default:
		switch reflect.ValueOf(v).Kind() {
		case reflect.Func, reflect.Chan, reflect.UnsafePointer:
			return NewErrorf(CodeInternalServerError, "unsupported response type: %T", v)
		default:
		}

		enc, err := encodeJSON(v, indent)
		if err != nil {
			return NewError(CodeInternalServerError, errors.Wrapf(err, "encode %T response as json", v))
		}

		contentTypeIfUnset(w, "application/json")
		if _, err := w.Write(enc); err != nil {
			return errors.Wrap(err, "write response body")
		}
	}

	c.MarkHandled()

	return nil
}

func respondBinary(c *Context, data []byte, contentType string) error {
	w := c.Writer()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	contentTypeIfUnset(w, contentType)

	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "write response body")
	}

	c.MarkHandled()

	return nil
}

func encodeJSON(v any, indent string) ([]byte, error) {
	if indent != "" {
		return json.MarshalIndent(v, "", indent)
	}

	return json.Marshal(v)
}

// contentTypeIfUnset sets the content type unless the handler already chose
// one.
func contentTypeIfUnset(w ResponseWriter, ct string) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", ct)
	}
}
