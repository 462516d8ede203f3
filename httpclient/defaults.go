// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpclient

import (
	"context"
	"net/url"

	"github.com/gogama/httpadapter"
	"github.com/gogama/httpadapter/cause"
	"github.com/gogama/httpadapter/internal/transport"
)

// defaultsClient applies the client-wide request defaults: the base URL
// and the default headers, starting with the client identifier. It
// rejects a request without a URL before any other layer sees it.
type defaultsClient struct {
	next    httpadapter.Client
	header  httpadapter.Header
	baseURL *url.URL
	backend string
}

func (d *defaultsClient) Send(ctx context.Context, r *httpadapter.Request) (*httpadapter.Response, error) {
	if r == nil {
		panic("httpadapter/httpclient: nil request")
	}
	if r.URL == nil {
		return nil, transport.NewError(d.backend, httpadapter.PhaseSend,
			transport.WrapURLError(r.Method, "", transport.ErrNilURL), cause.Unknown)
	}

	r = r.Clone()
	if d.baseURL != nil && !r.URL.IsAbs() {
		r.URL = d.baseURL.ResolveReference(r.URL)
	}
	own := r.Header[:len(r.Header):len(r.Header)]
	for _, f := range d.header {
		if !own.Has(f.Name) {
			r.Header.Add(f.Name, f.Value)
		}
	}

	return d.next.Send(ctx, r)
}
