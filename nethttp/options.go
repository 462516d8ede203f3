// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package nethttp

import (
	"net/http"
	"time"
)

// An Option configures an Adapter.
type Option func(*options)

type options struct {
	client    *http.Client
	transport *http.Transport
	tune      []func(*http.Transport)
}

// WithHTTPClient makes the adapter send requests through c, used as is.
// The transport options below are ignored when this option is given.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.client = c
	}
}

// WithTransport makes the adapter use a clone of t instead of a clone
// of http.DefaultTransport.
func WithTransport(t *http.Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}

// WithMaxIdleConnsPerHost sets the maximum number of idle keep-alive
// connections kept per host.
func WithMaxIdleConnsPerHost(n int) Option {
	return tune(func(t *http.Transport) {
		t.MaxIdleConnsPerHost = n
	})
}

// WithIdleConnTimeout sets how long an idle connection is kept before
// it is closed.
func WithIdleConnTimeout(d time.Duration) Option {
	return tune(func(t *http.Transport) {
		t.IdleConnTimeout = d
	})
}

// WithDisableCompression stops the transport from requesting gzip
// compression and transparently decoding gzip responses.
func WithDisableCompression(disable bool) Option {
	return tune(func(t *http.Transport) {
		t.DisableCompression = disable
	})
}

func tune(f func(*http.Transport)) Option {
	return func(o *options) {
		o.tune = append(o.tune, f)
	}
}

func (o *options) httpClient() *http.Client {
	if o.client != nil {
		return o.client
	}
	var t *http.Transport
	if o.transport != nil {
		t = o.transport.Clone()
	} else {
		t = http.DefaultTransport.(*http.Transport).Clone()
	}
	for _, f := range o.tune {
		f(t)
	}
	return &http.Client{Transport: t}
}
