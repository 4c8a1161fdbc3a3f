package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json; charset=utf-8"
	contentTypeText = "text/plain; charset=utf-8"
)

// Response is the buffered response shared by a request's pipeline.
// Middleware and handlers modify it; it is written to the client once by Send.
type Response struct {
	w          http.ResponseWriter
	header     http.Header
	body       bytes.Buffer
	status     int
	json       bool
	acceptJSON bool
	omitBody   bool

	mu         sync.Mutex
	sent       bool
	size       int
	beforeSend []func(*Response)
}

// NewResponse creates a response for the given request.
// HEAD requests never carry a body.
func NewResponse(w http.ResponseWriter, r *http.Request) *Response {
	res := &Response{
		w:      w,
		header: make(http.Header),
		status: http.StatusOK,
	}
	if r != nil {
		res.omitBody = r.Method == http.MethodHead
		res.acceptJSON = strings.HasPrefix(r.Header.Get("Accept"), "application/json")
	}
	return res
}

// Header returns the headers that Send will write.
func (r *Response) Header() http.Header {
	return r.header
}

// Status returns the response status code.
func (r *Response) Status() int {
	return r.status
}

// WithStatus sets the status code.
func (r *Response) WithStatus(code int) *Response {
	r.status = code
	return r
}

// Write appends raw bytes to the body.
func (r *Response) Write(b []byte) (int, error) {
	return r.body.Write(b)
}

// Body returns the buffered content.
func (r *Response) Body() string {
	return r.body.String()
}

// SetContent replaces the body with the normalized value.
func (r *Response) SetContent(v any) error {
	s, isJSON, err := normalizeContent(v)
	if err != nil {
		return err
	}
	r.body.Reset()
	r.body.WriteString(s)
	r.json = isJSON
	return nil
}

// AppendContent appends the normalized value to the body.
// Maps, slices and structs are encoded as JSON, strings and Stringers
// are appended as text.
func (r *Response) AppendContent(v any) error {
	if v == nil {
		return nil
	}
	s, isJSON, err := normalizeContent(v)
	if err != nil {
		return err
	}
	r.body.WriteString(s)
	r.json = r.json || isJSON
	return nil
}

// OnBeforeSend registers a hook run right before headers are written.
func (r *Response) OnBeforeSend(fn func(*Response)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.beforeSend = append(r.beforeSend, fn)
}

// Sent reports whether the response has been written to the client.
func (r *Response) Sent() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sent
}

// Size returns the number of body bytes written to the client.
func (r *Response) Size() int {
	return r.size
}

// Send writes headers and body to the client. Only the first call writes.
func (r *Response) Send() error {
	r.mu.Lock()
	if r.sent {
		r.mu.Unlock()
		return nil
	}
	r.sent = true
	hooks := r.beforeSend
	r.beforeSend = nil
	r.mu.Unlock()

	for _, fn := range hooks {
		fn(r)
	}

	dst := r.w.Header()
	for k, v := range r.header {
		dst[k] = v
	}
	if dst.Get("Content-Type") == "" && r.status != http.StatusNoContent {
		if r.json || r.acceptJSON {
			dst.Set("Content-Type", contentTypeJSON)
		} else {
			dst.Set("Content-Type", contentTypeHTML)
		}
	}
	if !r.omitBody && r.status != http.StatusNoContent {
		dst.Set("Content-Length", strconv.Itoa(r.body.Len()))
	}
	r.w.WriteHeader(r.status)

	if r.omitBody || r.status == http.StatusNoContent {
		return nil
	}
	n, err := r.w.Write(r.body.Bytes())
	r.size = n
	return err
}

// IsResponse reports whether v is a non-nil *Response. Pipeline values that
// are not responses end the request with v as the body.
func IsResponse(v any) bool {
	res, ok := v.(*Response)
	return ok && res != nil
}

// Unwrap returns the underlying writer.
func (r *Response) Unwrap() http.ResponseWriter {
	return r.w
}

// normalizeContent converts a handler value to response text.
func normalizeContent(v any) (string, bool, error) {
	switch c := v.(type) {
	case nil:
		return "", false, nil
	case string:
		return c, false, nil
	case []byte:
		return string(c), false, nil
	case fmt.Stringer:
		return c.String(), false, nil
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(c), false, nil
	case json.RawMessage:
		return string(c), true, nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return "", false, fmt.Errorf("waypoint: unsupported response content %T: %w", v, err)
	}
	return string(b), true, nil
}
