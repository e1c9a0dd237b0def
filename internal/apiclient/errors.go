package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Kind classifies a failed request.
type Kind int

const (
	// KindNetwork is a transport-level failure such as a refused connection or a DNS error.
	KindNetwork Kind = iota + 1
	// KindTimeout is a request that exceeded its deadline.
	KindTimeout
	// KindHTTPStatus is a response with a non-2xx status.
	KindHTTPStatus
	// KindDecode is a 2xx response whose body is not the expected JSON.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindHTTPStatus:
		return "http_status"
	case KindDecode:
		return "decode"
	default:
		return "none"
	}
}

// Error is returned for every failed request.
type Error struct {
	Kind       Kind
	Method     string
	URL        string
	StatusCode int
	// Body holds the response body of a KindHTTPStatus error.
	Body string
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
	default:
		return fmt.Sprintf("%s %s: %s: %v", e.Method, e.URL, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return 0
}

// IsTimeout reports whether err is a KindTimeout *Error.
func IsTimeout(err error) bool { return KindOf(err) == KindTimeout }

// IsNetwork reports whether err is a KindNetwork *Error.
func IsNetwork(err error) bool { return KindOf(err) == KindNetwork }

// IsHTTPStatus reports whether err is a KindHTTPStatus *Error.
func IsHTTPStatus(err error) bool { return KindOf(err) == KindHTTPStatus }

// StatusCode returns the response status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether the backend answered 404.
func IsNotFound(err error) bool {
	return IsHTTPStatus(err) && StatusCode(err) == http.StatusNotFound
}

func transportError(req *http.Request, err error) *Error {
	kind := KindNetwork
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = KindTimeout
	}
	return &Error{
		Kind:   kind,
		Method: req.Method,
		URL:    req.URL.String(),
		Err:    err,
	}
}
