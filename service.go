package contentstack

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
)

// ServiceRequest is the logical request contract the pipeline consumes. A
// service request only has to describe an HTTP message: method, relative
// path, headers and an optional body. The pipeline never inspects domain
// semantics beyond this descriptor.
//
// Body must return a fresh reader on every call: the transport handler calls
// it once per attempt so retried requests resend the full payload.
type ServiceRequest interface {
	Method() string
	Path() string
	Header() http.Header
	Body() (io.Reader, error)
}

// Request is the concrete ServiceRequest used by the client's own helpers and
// by domain endpoint packages that have no custom descriptor needs.
type Request struct {
	method string
	path   string
	query  url.Values
	header http.Header
	body   []byte
}

// NewRequest builds a bodyless request for the given method and relative
// path. Use Client.NewRequest to attach a JSON payload serialized with the
// client's serializer settings.
func NewRequest(method, path string) *Request {
	return &Request{
		method: method,
		path:   path,
		query:  url.Values{},
		header: http.Header{},
	}
}

// SetHeader sets a header on the outgoing request. Client-identifying headers
// (User-Agent, X-User-Agent, authtoken) are applied by the transport handler
// and take precedence.
func (r *Request) SetHeader(key, value string) *Request {
	r.header.Set(key, value)
	return r
}

// SetQuery adds a query parameter to the request path.
func (r *Request) SetQuery(key, value string) *Request {
	r.query.Set(key, value)
	return r
}

// SetBody attaches raw bytes as the request body.
func (r *Request) SetBody(body []byte) *Request {
	r.body = body
	return r
}

// Method returns the HTTP method.
func (r *Request) Method() string { return r.method }

// Path returns the relative path including encoded query parameters.
func (r *Request) Path() string {
	if len(r.query) == 0 {
		return r.path
	}
	return r.path + "?" + r.query.Encode()
}

// Header returns the caller-supplied headers.
func (r *Request) Header() http.Header { return r.header }

// Body returns a fresh reader over the payload, or nil when there is none.
func (r *Request) Body() (io.Reader, error) {
	if len(r.body) == 0 {
		return nil, nil
	}
	return bytes.NewReader(r.body), nil
}
