// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package nethttp adapts the Go standard library HTTP client to the
httpadapter Client contract.

The adapter sends each request through an http.Client backed by an
http.Transport, so it speaks HTTP/1.1 and, over TLS, negotiates HTTP/2
through ALPN. Redirects are followed the way http.Client follows them.
No timeout is set by default.

	a := nethttp.New(
		nethttp.WithMaxIdleConnsPerHost(8),
		nethttp.WithIdleConnTimeout(30*time.Second),
	)
	resp, err := a.Send(ctx, req)

Every error the adapter returns is produced by Unify.
*/
package nethttp
