// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpclient

import (
	"context"
	"errors"
	"time"

	"github.com/gogama/httpadapter"
)

// An Exchange represents the state of a single Send through a Client.
//
// Event handlers may set values on an Exchange using its SetValue
// method and read them back using the Value method. They should treat
// the exported fields as read-only, except that BeforeSend handlers may
// alter the request header.
type Exchange struct {
	// Request is the request being sent, after client defaults were
	// applied. It is never nil.
	Request *httpadapter.Request

	// Response is the response delivered by the backend. It is nil
	// before the response arrives, and nil if the exchange failed.
	//
	// The response body is not read by the Client, so it is still
	// unread when AfterResponse and AfterSend fire.
	Response *httpadapter.Response

	// Err is the error returned by the backend. Whenever Err is
	// non-nil, it is an *httpadapter.Error.
	Err error

	// Backend names the backend serving the exchange.
	Backend string

	// Start is the time the exchange started. It is set before
	// BeforeSend fires.
	Start time.Time

	// End is the time the exchange ended. It contains the zero value
	// until just before AfterSend fires.
	End time.Time

	data context.Context
}

// StatusCode returns the response status code, or 0 if there is no
// response.
func (e *Exchange) StatusCode() int {
	if e.Response == nil {
		return 0
	}

	return e.Response.StatusCode
}

// Duration returns the duration of the exchange.
//
// If the exchange has not yet started, the duration is zero. If the
// exchange has Ended, the duration returned is equal to End minus
// Start. Otherwise, it is equal to the current time minus Start.
func (e *Exchange) Duration() time.Duration {
	if !e.Started() {
		return time.Duration(0)
	} else if !e.Ended() {
		return time.Since(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started indicates whether the exchange has started.
func (e *Exchange) Started() bool {
	return !e.Start.IsZero()
}

// Ended indicates whether the exchange has ended.
func (e *Exchange) Ended() bool {
	return !e.End.IsZero()
}

// Timeout indicates whether Err contains a non-nil value which
// indicates a timeout.
func (e *Exchange) Timeout() bool {
	var he *httpadapter.Error
	if errors.As(e.Err, &he) {
		return he.Timeout()
	}
	return false
}

// SetValue allows event handlers to store arbitrary data in the
// exchange.
//
// The key must follow the same rules as the key parameter in
// context.WithValue: it may not be nil, it must be comparable, and it
// should not be of a built-in type, to avoid collisions between
// different event handlers.
func (e *Exchange) SetValue(key, value interface{}) {
	ctx := e.data
	if ctx == nil {
		ctx = context.Background()
	}

	e.data = context.WithValue(ctx, key, value)
}

// Value returns the data value associated with this exchange for key,
// or nil if there is no value associated with key.
func (e *Exchange) Value(key interface{}) interface{} {
	ctx := e.data
	if ctx == nil {
		return nil
	}

	return ctx.Value(key)
}
