// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package h2

import (
	"context"
	"net/http"

	"github.com/gogama/httpadapter"
	"github.com/gogama/httpadapter/internal/transport"
	"golang.org/x/net/http2"
)

// Name is the backend name reported in errors and by Adapter.Name.
const Name = "h2"

// An Adapter is an httpadapter.Client over the x/net HTTP/2 transport.
// It is safe for concurrent use.
type Adapter struct {
	client *http.Client
	router *router
}

// New returns a new Adapter configured by opts.
func New(opts ...Option) *Adapter {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	secure, plain := o.transports()
	rt := &router{secure: secure, plain: plain}
	return &Adapter{
		client: &http.Client{Transport: rt},
		router: rt,
	}
}

// Name returns the backend name.
func (a *Adapter) Name() string {
	return Name
}

// Send sends r and returns the response. The response body streams
// from the HTTP/2 stream. A non-2xx status is returned as a response,
// not as an error.
func (a *Adapter) Send(ctx context.Context, r *httpadapter.Request) (*httpadapter.Response, error) {
	if r == nil {
		panic("httpadapter/h2: nil request")
	}
	return transport.Do(ctx, a.client, r, Unify)
}

// CloseIdleConnections closes idle connections of every transport the
// adapter uses.
func (a *Adapter) CloseIdleConnections() {
	a.router.CloseIdleConnections()
}

// router sends http URLs through the cleartext transport, if there is
// one, and everything else through the TLS transport.
type router struct {
	secure *http2.Transport
	plain  *http2.Transport
}

func (rt *router) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme == "http" && rt.plain != nil {
		return rt.plain.RoundTrip(req)
	}
	return rt.secure.RoundTrip(req)
}

func (rt *router) CloseIdleConnections() {
	rt.secure.CloseIdleConnections()
	if rt.plain != nil {
		rt.plain.CloseIdleConnections()
	}
}
