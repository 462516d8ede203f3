// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build !httpadapter_nethttp && httpadapter_h2

package httpclient

const netHTTPCompiled = false

type netHTTPOptions struct{}

func (b *Builder) newNetHTTP() backend {
	return nil
}

func (b *Builder) configureNetHTTP(NetHTTPConfig) {}
