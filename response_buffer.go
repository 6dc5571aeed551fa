package lhttp

import (
	"bytes"
	"net/http"
	"sync"

	"github.com/cockroachdb/errors"
)

// ErrBufferFull is returned from writes that would grow the response buffer
// beyond the configured limit. Nothing is written in that case.
var ErrBufferFull = errors.New("lhttp: response buffer is full")

var bufPool = sync.Pool{
	New: func() any { return bytes.NewBuffer(nil) },
}

// ResponseBuffer implements [ResponseWriter] by keeping everything written to
// it in memory until it is flushed. This allows the response to be discarded
// and rewritten completely, for example when a handler errors halfway through.
type ResponseBuffer struct {
	resp   http.ResponseWriter
	buf    *bytes.Buffer
	limit  int
	header http.Header

	status    int
	statusSet bool
	flushed   bool
	headerOut bool
}

// NewResponseWriter inits a buffered response writer that writes to 'resp'
// when flushed. A limit of -1 leaves the buffer unbounded.
func NewResponseWriter(resp http.ResponseWriter, limit int) ResponseWriter {
	return newBufferResponse(resp, limit)
}

func newBufferResponse(resp http.ResponseWriter, limit int) *ResponseBuffer {
	buf, _ := bufPool.Get().(*bytes.Buffer)
	buf.Reset()

	return &ResponseBuffer{
		resp:   resp,
		buf:    buf,
		limit:  limit,
		header: make(http.Header),
	}
}

// Header returns the header map that will be sent with the first flush.
// Changes made after the headers have been written out have no effect,
// mirroring the standard library's behavior.
func (w *ResponseBuffer) Header() http.Header {
	return w.header
}

// Write appends p to the buffer. If the write would exceed the buffer limit
// nothing is appended and [ErrBufferFull] is returned.
func (w *ResponseBuffer) Write(p []byte) (int, error) {
	if w.limit >= 0 && w.buf.Len()+len(p) > w.limit {
		return 0, ErrBufferFull
	}

	return w.buf.Write(p)
}

// WriteHeader buffers the status code. Only the first call has an effect.
func (w *ResponseBuffer) WriteHeader(statusCode int) {
	if w.statusSet || w.headerOut {
		return
	}

	w.status = statusCode
	w.statusSet = true
}

// Reset discards everything written so far: body, headers and status code.
// It panics when the response was already flushed to the underlying writer,
// since those bytes can no longer be taken back.
func (w *ResponseBuffer) Reset() {
	if w.flushed {
		panic("lhttp: response buffer is already flushed")
	}

	w.buf.Reset()
	w.header = make(http.Header)
	w.status = 0
	w.statusSet = false
}

// FlushError writes the buffered headers, status code and body to the
// underlying response writer. The buffer is emptied so writing can continue
// afterwards; the headers and status are only ever sent once.
func (w *ResponseBuffer) FlushError() error {
	w.flushed = true

	if !w.headerOut {
		dst := w.resp.Header()
		for k, vs := range w.header {
			dst[k] = vs
		}

		status := w.status
		if status == 0 {
			status = http.StatusOK
		}

		w.resp.WriteHeader(status)
		w.headerOut = true
	}

	if w.buf.Len() > 0 {
		if _, err := w.resp.Write(w.buf.Bytes()); err != nil {
			return errors.Wrap(err, "write buffered response")
		}

		w.buf.Reset()
	}

	return nil
}

// FlushBuffer performs the implicit flush at the end of serving a request.
func (w *ResponseBuffer) FlushBuffer() error {
	return w.FlushError()
}

// Flushed reports whether any part of the response already reached the
// underlying writer.
func (w *ResponseBuffer) Flushed() bool {
	return w.flushed
}

// Free returns the underlying buffer to the pool. The writer must not be
// used afterwards.
func (w *ResponseBuffer) Free() {
	if w.buf != nil {
		bufPool.Put(w.buf)
		w.buf = nil
	}
}

// Unwrap returns the underlying response writer, it allows the
// http.ResponseController to reach capabilities of the original.
func (w *ResponseBuffer) Unwrap() http.ResponseWriter {
	return w.resp
}
