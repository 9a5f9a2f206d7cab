package net

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedEncoding is returned when a response declares a
	// transfer-encoding or content-encoding. Only plain bodies framed by
	// Content-Length can be read.
	ErrUnsupportedEncoding = errors.New("unsupported body encoding")
	// ErrMalformedRedirect is returned for a 3xx response without Location.
	ErrMalformedRedirect = errors.New("redirect without location")
	// ErrMalformedResponse is returned when the status line, a header line
	// or the body cannot be parsed.
	ErrMalformedResponse = errors.New("malformed response")
)

// TooManyRedirectsBody is returned as the document body, with a nil error,
// once the redirect budget is spent.
const TooManyRedirectsBody = "Too many redirects\n"

// TransportError reports a failed connect, read or write. A short body read
// against Content-Length is also a TransportError.
type TransportError struct {
	Op   string
	Addr PoolKey
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
