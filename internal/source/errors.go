package source

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind distinguishes the fetch-failure taxonomy so the run loop can
// decide between retry, skip and abort.
type ErrorKind string

const (
	KindTimeout  ErrorKind = "timeout"
	KindNetwork  ErrorKind = "network"
	KindBadShape ErrorKind = "bad_shape" // page fetched but not parseable
	KindBlocked  ErrorKind = "blocked"   // bot detection, captcha, auth wall
)

// FetchError is the typed failure an adapter returns for a whole fetch.
type FetchError struct {
	Source string
	Kind   ErrorKind
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s fetch failed: %v", e.Source, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NewFetchError wraps a cause with an explicit kind.
func NewFetchError(source string, kind ErrorKind, err error) *FetchError {
	return &FetchError{Source: source, Kind: kind, Err: err}
}

// Classify wraps a transport error, inferring timeout vs generic network
// failure from the cause.
func Classify(source string, err error) *FetchError {
	kind := KindNetwork
	var nerr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &nerr) && nerr.Timeout()) {
		kind = KindTimeout
	}
	return &FetchError{Source: source, Kind: kind, Err: err}
}
