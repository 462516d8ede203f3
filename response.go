// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpadapter

import (
	"context"

	"github.com/gogama/httpadapter/cause"
)

// A Response is a backend-neutral HTTP response. The caller owns it
// exclusively and is responsible for consuming or closing its Body.
type Response struct {
	// StatusCode is the HTTP status code, e.g. 200.
	StatusCode int

	// Proto is the protocol the response was received over, for
	// example "HTTP/1.1" or "HTTP/2.0".
	Proto string

	// Header contains the response header fields, sorted by name.
	Header Header

	// Body is the response payload. It is never nil.
	Body *Body
}

// Success reports whether the status code is in the 2xx range.
func (r *Response) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// CheckStatus returns nil if the status code is in the 2xx range and a
// KindStatus error carrying the status code otherwise. The body is
// left untouched either way.
func (r *Response) CheckStatus() error {
	if r.Success() {
		return nil
	}
	return &Error{
		Kind:       KindStatus,
		StatusCode: r.StatusCode,
		Category:   cause.Unknown,
	}
}

// Text reads the whole body as a UTF-8 string.
func (r *Response) Text(ctx context.Context) (string, error) {
	return r.Body.Text(ctx)
}

// Consume drains and discards the body.
func (r *Response) Consume(ctx context.Context) error {
	return r.Body.Consume(ctx)
}
