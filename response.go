package contentstack

import (
	"net/http"
)

// Response owns the status, headers and buffered body of one completed HTTP
// exchange. The transport handler creates it after draining the body, so a
// Response never holds a live connection and needs no Close.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

// IsSuccess reports whether the status code is in the 2xx class.
func (r *Response) IsSuccess() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// String returns the body as text.
func (r *Response) String() string {
	if r == nil {
		return ""
	}
	return string(r.Body)
}

// errorDetail is the error envelope the Management API returns on non-2xx
// statuses.
type errorDetail struct {
	ErrorMessage string `json:"error_message"`
	ErrorCode    int    `json:"error_code"`
}
