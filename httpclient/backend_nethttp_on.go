// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build httpadapter_nethttp || !httpadapter_h2

package httpclient

import (
	"github.com/gogama/httpadapter/nethttp"
)

const netHTTPCompiled = true

type netHTTPOptions []nethttp.Option

// WithNetHTTPOptions appends options passed to nethttp.New when the
// nethttp backend is selected. It only exists in builds which compile
// the nethttp backend in.
func (b *Builder) WithNetHTTPOptions(opts ...nethttp.Option) *Builder {
	b.netHTTP = append(b.netHTTP, opts...)
	return b
}

func (b *Builder) newNetHTTP() backend {
	return nethttp.New(b.netHTTP...)
}

func (b *Builder) configureNetHTTP(cfg NetHTTPConfig) {
	if cfg.MaxIdleConnsPerHost > 0 {
		b.netHTTP = append(b.netHTTP, nethttp.WithMaxIdleConnsPerHost(cfg.MaxIdleConnsPerHost))
	}
	if cfg.IdleConnTimeout > 0 {
		b.netHTTP = append(b.netHTTP, nethttp.WithIdleConnTimeout(cfg.IdleConnTimeout))
	}
	if cfg.DisableCompression {
		b.netHTTP = append(b.netHTTP, nethttp.WithDisableCompression(true))
	}
}
