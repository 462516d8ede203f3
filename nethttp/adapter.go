// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package nethttp

import (
	"context"
	"net/http"

	"github.com/gogama/httpadapter"
	"github.com/gogama/httpadapter/internal/transport"
)

// Name is the backend name reported in errors and by Adapter.Name.
const Name = "nethttp"

// An Adapter is an httpadapter.Client over net/http. It is safe for
// concurrent use.
type Adapter struct {
	client *http.Client
}

// New returns a new Adapter configured by opts.
func New(opts ...Option) *Adapter {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Adapter{client: o.httpClient()}
}

// Name returns the backend name.
func (a *Adapter) Name() string {
	return Name
}

// HTTPClient returns the http.Client the adapter sends requests
// through.
func (a *Adapter) HTTPClient() *http.Client {
	return a.client
}

// Send sends r and returns the response. The response body streams
// from the connection. A non-2xx status is returned as a response, not
// as an error.
func (a *Adapter) Send(ctx context.Context, r *httpadapter.Request) (*httpadapter.Response, error) {
	if r == nil {
		panic("httpadapter/nethttp: nil request")
	}
	return transport.Do(ctx, a.client, r, Unify)
}

// CloseIdleConnections closes idle keep-alive connections.
func (a *Adapter) CloseIdleConnections() {
	a.client.CloseIdleConnections()
}
