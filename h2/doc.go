// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package h2 adapts the golang.org/x/net/http2 client transport to the
httpadapter Client contract.

The adapter speaks HTTP/2 only. Over TLS it requires the server to
negotiate "h2" through ALPN. With WithAllowHTTP, plain http URLs are
sent as cleartext HTTP/2 with prior knowledge (h2c), which needs a
server that accepts h2c, such as one wrapped by package
golang.org/x/net/http2/h2c.

	a := h2.New(
		h2.WithAllowHTTP(true),
		h2.WithReadIdleTimeout(30*time.Second),
	)
	resp, err := a.Send(ctx, req)

Every error the adapter returns is produced by Unify.
*/
package h2
