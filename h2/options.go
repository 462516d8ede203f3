// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package h2

import (
	"context"
	"crypto/tls"
	"net"
	"time"

	"golang.org/x/net/http2"
)

// An Option configures an Adapter.
type Option func(*options)

type options struct {
	transport *http2.Transport
	allowHTTP bool
	tune      []func(*http2.Transport)
}

// WithTransport makes the adapter send https requests through t.
//
// Unlike nethttp.WithTransport, t is used as is, not cloned. The tuning
// options WithTLSClientConfig, WithReadIdleTimeout, WithPingTimeout and
// WithDisableCompression set their fields on t itself, so a transport
// shared with other code sees those changes.
func WithTransport(t *http2.Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}

// WithTLSClientConfig sets the TLS configuration used for https URLs.
// The transport adds "h2" to its NextProtos.
func WithTLSClientConfig(cfg *tls.Config) Option {
	return tune(func(t *http2.Transport) {
		t.TLSClientConfig = cfg
	})
}

// WithAllowHTTP enables cleartext HTTP/2 with prior knowledge for http
// URLs. Without it, http URLs fail.
func WithAllowHTTP(allow bool) Option {
	return func(o *options) {
		o.allowHTTP = allow
	}
}

// WithReadIdleTimeout sets how long a connection may receive no frame
// before a health check ping is sent. Zero disables health checks.
func WithReadIdleTimeout(d time.Duration) Option {
	return tune(func(t *http2.Transport) {
		t.ReadIdleTimeout = d
	})
}

// WithPingTimeout sets how long to wait for a health check ping
// response before the connection is closed.
func WithPingTimeout(d time.Duration) Option {
	return tune(func(t *http2.Transport) {
		t.PingTimeout = d
	})
}

// WithDisableCompression stops the transport from requesting gzip
// compression and transparently decoding gzip responses.
func WithDisableCompression(disable bool) Option {
	return tune(func(t *http2.Transport) {
		t.DisableCompression = disable
	})
}

func tune(f func(*http2.Transport)) Option {
	return func(o *options) {
		o.tune = append(o.tune, f)
	}
}

// transports returns the transport for https URLs and, if cleartext is
// allowed, the transport for http URLs.
func (o *options) transports() (secure, plain *http2.Transport) {
	secure = o.transport
	if secure == nil {
		secure = &http2.Transport{}
	}
	for _, f := range o.tune {
		f(secure)
	}
	if !o.allowHTTP {
		return secure, nil
	}
	plain = &http2.Transport{
		AllowHTTP: true,
		DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, network, addr)
		},
	}
	for _, f := range o.tune {
		f(plain)
	}
	return secure, plain
}
