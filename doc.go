// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package httpadapter defines a backend-neutral HTTP client contract.

A Client sends a Request and returns a Response. Any HTTP transport can
sit behind the contract by implementing Client; packages nethttp and h2
provide adapters over the net/http transport and the golang.org/x/net
HTTP/2 transport respectively, and package httpclient builds a ready to
use client on top of one of them.

	resp, err := client.Send(ctx, req)
	if err != nil {
		switch httpadapter.KindOf(err) {
		case httpadapter.KindTransport:
			... // no response was received
		case httpadapter.KindIo:
			... // a body could not be read or written
		}
	}
	defer resp.Body.Close()
	text, err := resp.Text(ctx)

Request and response payloads are Body values. A Body is empty, an
in-memory byte slice, or a stream, and it can be consumed exactly once,
either all at once with ReadAll or incrementally with CopyTo.

Every error produced by the contract is an *Error whose Kind is one of
KindConfiguration, KindTransport, KindIo, and KindStatus. The native
error of the backend stays reachable through errors.Is and errors.As.
*/
package httpadapter
