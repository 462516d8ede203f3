// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpadapter

import (
	"context"
	"net/http"
	"net/url"
)

// Client is the interface that wraps the basic Send method.
//
// Send performs one HTTP exchange and returns the response, or an error
// which is always an *Error. Send blocks for the full round trip, up to
// the point where the response status and headers are available;
// the body is read later through Response.Body. Cancelling ctx aborts
// the exchange, including a body that is still being read.
//
// A non-2xx status is not an error: the response is returned as data.
// Send never retries.
//
// Send consumes the request body. Implementations must be safe for
// concurrent use.
type Client interface {
	Send(ctx context.Context, r *Request) (*Response, error)
}

// The ClientFunc type is an adapter to allow the use of ordinary
// functions as clients. If f is a function with the appropriate
// signature, ClientFunc(f) is a Client that calls f.
type ClientFunc func(ctx context.Context, r *Request) (*Response, error)

// Send calls f(ctx, r).
func (f ClientFunc) Send(ctx context.Context, r *Request) (*Response, error) {
	return f(ctx, r)
}

// IdleCloser is the interface that wraps the basic CloseIdleConnections
// method.
//
// If the underlying implementation supports it, CloseIdleConnections
// closes any connections which were previously connected from previous
// requests but are now sitting idle in a "keep-alive" state. It does
// not interrupt any connections currently in use.
type IdleCloser interface {
	CloseIdleConnections()
}

// CloseIdleConnections calls c.CloseIdleConnections if c implements
// IdleCloser, and does nothing otherwise.
func CloseIdleConnections(c Client) {
	if ic, ok := c.(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

// Get uses the specified Client to issue a GET to the specified URL.
//
// To make a request with custom headers, use NewRequest and c.Send.
func Get(ctx context.Context, c Client, url string) (*Response, error) {
	return send(ctx, c, http.MethodGet, url, nil)
}

// Head uses the specified Client to issue a HEAD to the specified URL.
func Head(ctx context.Context, c Client, url string) (*Response, error) {
	return send(ctx, c, http.MethodHead, url, nil)
}

// Delete uses the specified Client to issue a DELETE to the specified
// URL.
func Delete(ctx context.Context, c Client, url string) (*Response, error) {
	return send(ctx, c, http.MethodDelete, url, nil)
}

// Post uses the specified Client to issue a POST to the specified URL.
//
// The body parameter may be nil for an empty body, or may be any of the
// types supported by NewBody, namely: string; []byte; io.Reader;
// io.ReadCloser; and *Body.
func Post(ctx context.Context, c Client, url, contentType string, body interface{}) (*Response, error) {
	r, err := NewRequest(http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	r.Header.Set("Content-Type", contentType)
	return c.Send(ctx, r)
}

// PostForm uses the specified Client to issue a POST to the specified
// URL, with data's keys and values URL-encoded as the request body.
//
// The Content-Type header is set to application/x-www-form-urlencoded.
func PostForm(ctx context.Context, c Client, url string, data url.Values) (*Response, error) {
	return Post(ctx, c, url, "application/x-www-form-urlencoded", data.Encode())
}

func send(ctx context.Context, c Client, method, url string, body interface{}) (*Response, error) {
	r, err := NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}
	return c.Send(ctx, r)
}
