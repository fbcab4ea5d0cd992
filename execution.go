package contentstack

import (
	"time"
)

// RequestContext is the read-only side of an ExecutionContext. It is set once
// when the context is created and every handler downstream sees the same
// values.
type RequestContext struct {
	Config  *Config
	Service ServiceRequest
	ID      string
	Started time.Time
}

// ResponseContext is the mutable side of an ExecutionContext. Each transport
// attempt replaces the whole outcome: either a buffered Response or a
// classified *RequestError, never both.
type ResponseContext struct {
	Response *Response
	Err      error
	Attempt  int
}

// setOutcome records the result of one transport attempt, discarding whatever
// a previous attempt left behind.
func (rc *ResponseContext) setOutcome(resp *Response, err error) {
	rc.Response = resp
	rc.Err = err
}

// ExecutionContext carries one call's state through the handler chain. A
// context belongs to exactly one call: it is created per invocation, handled
// by one handler at a time, and discarded when the call resolves.
type ExecutionContext struct {
	Request  RequestContext
	Response ResponseContext
}

// elapsed reports how long the call has been in flight.
func (ex *ExecutionContext) elapsed() time.Duration {
	return time.Since(ex.Request.Started)
}
