// Package failure classifies everything that can go wrong while talking to
// the remote server into a small, closed set of kinds.
package failure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"
)

// Kind is the class of a failure.
type Kind int

const (
	Unknown Kind = iota
	NoConnectivity
	Timeout
	ServerError
	ClientError
	DecodeError
)

func (k Kind) String() string {
	switch k {
	case NoConnectivity:
		return "no_connectivity"
	case Timeout:
		return "timeout"
	case ServerError:
		return "server_error"
	case ClientError:
		return "client_error"
	case DecodeError:
		return "decode_error"
	default:
		return "unknown"
	}
}

// Error is a classified failure.
type Error struct {
	Kind   Kind
	Status int // HTTP status code, only set when the server answered
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (HTTP %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns a failure of the given kind.
func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// FromStatus classifies a non-2xx HTTP response. msg is the response body or
// a short description of it.
func FromStatus(status int, msg string) *Error {
	err := errors.New(msg)
	if msg == "" {
		err = errors.New(http.StatusText(status))
	}

	kind := Unknown
	switch {
	case status >= 500:
		kind = ServerError
	case status >= 400:
		kind = ClientError
	}

	return &Error{Kind: kind, Status: status, Err: err}
}

// Classify maps err to a failure. Errors that already are failures are
// returned unchanged, nil stays nil.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var f *Error
	if errors.As(err, &f) {
		return f
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return New(Timeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return New(Timeout, err)
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return New(NoConnectivity, err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return New(NoConnectivity, err)
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ENETUNREACH) || errors.Is(err, syscall.EHOSTUNREACH) {
		return New(NoConnectivity, err)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return New(DecodeError, err)
	}

	return New(Unknown, err)
}

// KindOf returns the kind of err. Unclassified errors, e.g. from the local
// store, are Unknown.
func KindOf(err error) Kind {
	var f *Error
	if errors.As(err, &f) {
		return f.Kind
	}
	return Unknown
}

// IsServerError reports whether err is a server-side failure. It is the
// default retry predicate: all other kinds are not transient.
func IsServerError(err error) bool {
	return KindOf(err) == ServerError
}
