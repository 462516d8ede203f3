// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpadapter

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gogama/httpadapter/cause"
)

// Operation names recorded in Error.Op.
const (
	OpBuild     = "build"
	OpSend      = "send"
	OpReadBody  = "read body"
	OpWriteBody = "write body"
	OpCloseBody = "close body"
)

// A Kind is the class of an Error. The set of kinds is closed.
type Kind int

const (
	// KindConfiguration indicates an invalid client configuration, for
	// example zero or several selected backends. Configuration errors
	// are only ever returned while building a client, before any
	// network activity.
	KindConfiguration Kind = iota + 1
	// KindTransport indicates the request could not be delivered or no
	// response was received: connection, DNS or TLS failure, timeout,
	// cancellation, or a malformed response head. When an error has
	// this kind no Response exists.
	KindTransport
	// KindIo indicates a failure while reading or writing a body. If
	// it happened while reading a response body, the status and headers
	// of the response were already delivered to the caller.
	KindIo
	// KindStatus indicates a non-success status code. The adapter layer
	// never returns it by itself; it is produced by Response.CheckStatus
	// when the caller decides that a status is an error.
	KindStatus
)

var kindNames = []string{
	"unknown",
	"configuration",
	"transport",
	"io",
	"status",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// An Error is the single error type returned by the adapter layer.
//
// The underlying native error is always preserved in Err, so callers
// can still inspect it with errors.Is and errors.As.
type Error struct {
	// Kind classifies the error.
	Kind Kind
	// Backend names the backend adapter which produced the error. It
	// is empty for errors raised outside of an adapter.
	Backend string
	// Op names the operation which failed, for example OpSend.
	Op string
	// URL is the request URL, if known.
	URL string
	// StatusCode is the HTTP status code of a KindStatus error, and
	// zero otherwise.
	StatusCode int
	// Category is the diagnostic category of Err.
	Category cause.Category
	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	prefix := "httpadapter"
	if e.Backend != "" {
		prefix += "/" + e.Backend
	}
	if e.Kind == KindStatus && e.Err == nil {
		return fmt.Sprintf("%s: %s: unexpected status %d %s", prefix, e.Kind, e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s: %v", prefix, e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", prefix, e.Kind, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Timeout reports whether the error was caused by a timeout.
func (e *Error) Timeout() bool {
	return e.Category == cause.Timeout || cause.Categorize(e.Err) == cause.Timeout
}

// ConfigurationError returns a KindConfiguration error wrapping err.
func ConfigurationError(err error) *Error {
	return &Error{
		Kind:     KindConfiguration,
		Op:       OpBuild,
		Category: cause.Unknown,
		Err:      err,
	}
}

// KindOf returns the kind of the first *Error in err's chain, or zero
// if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// CategoryOf returns the category of the first *Error in err's chain,
// falling back to categorizing err itself.
func CategoryOf(err error) cause.Category {
	var e *Error
	if errors.As(err, &e) && e.Category != cause.Unknown {
		return e.Category
	}
	return cause.Categorize(err)
}

// IsConfiguration reports whether err is a KindConfiguration error.
func IsConfiguration(err error) bool {
	return KindOf(err) == KindConfiguration
}

// IsTransport reports whether err is a KindTransport error.
func IsTransport(err error) bool {
	return KindOf(err) == KindTransport
}

// IsIo reports whether err is a KindIo error.
func IsIo(err error) bool {
	return KindOf(err) == KindIo
}

// IsStatus reports whether err is a KindStatus error.
func IsStatus(err error) bool {
	return KindOf(err) == KindStatus
}

// A Phase is the stage of an exchange in which a native error occurred.
// Backend unifiers use it to decide the Kind of the unified error.
type Phase int

const (
	// PhaseSend covers everything up to the arrival of the response
	// status and headers. An error in this phase means no response
	// exists.
	PhaseSend Phase = iota
	// PhaseBody covers reading the response body, after the status and
	// headers were delivered.
	PhaseBody
)
