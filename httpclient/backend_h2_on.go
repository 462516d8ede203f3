// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build httpadapter_h2

package httpclient

import (
	"github.com/gogama/httpadapter/h2"
)

const h2Compiled = true

type h2Options []h2.Option

// WithH2Options appends options passed to h2.New when the h2 backend is
// selected. It only exists in builds which compile the h2 backend in.
func (b *Builder) WithH2Options(opts ...h2.Option) *Builder {
	b.h2 = append(b.h2, opts...)
	return b
}

func (b *Builder) newH2() backend {
	return h2.New(b.h2...)
}

func (b *Builder) configureH2(cfg H2Config) {
	if cfg.AllowHTTP {
		b.h2 = append(b.h2, h2.WithAllowHTTP(true))
	}
	if cfg.ReadIdleTimeout > 0 {
		b.h2 = append(b.h2, h2.WithReadIdleTimeout(cfg.ReadIdleTimeout))
	}
	if cfg.PingTimeout > 0 {
		b.h2 = append(b.h2, h2.WithPingTimeout(cfg.PingTimeout))
	}
	if cfg.DisableCompression {
		b.h2 = append(b.h2, h2.WithDisableCompression(true))
	}
}
