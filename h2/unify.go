// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package h2

import (
	"errors"
	"strings"

	"github.com/gogama/httpadapter"
	"github.com/gogama/httpadapter/cause"
	"github.com/gogama/httpadapter/internal/transport"
	"golang.org/x/net/http2"
)

// Unify maps a native HTTP/2 transport error raised in the given phase
// to the unified error taxonomy. It returns nil for a nil error.
//
// On top of cause.Categorize, Unify recognizes HTTP/2 stream resets,
// GOAWAY frames and connection errors.
func Unify(phase httpadapter.Phase, err error) *httpadapter.Error {
	if err == nil {
		return nil
	}
	return transport.NewError(Name, phase, err, categorize(err))
}

func categorize(err error) cause.Category {
	c := cause.Categorize(err)
	if c == cause.Timeout || c == cause.Canceled {
		return c
	}

	var streamErr http2.StreamError
	if errors.As(err, &streamErr) {
		return streamErrorCategory(streamErr.Code)
	}
	var goAway http2.GoAwayError
	if errors.As(err, &goAway) {
		return cause.ConnReset
	}
	var connErr http2.ConnectionError
	if errors.As(err, &connErr) {
		return cause.Protocol
	}

	if c != cause.Unknown {
		return c
	}
	msg := err.Error()
	if strings.Contains(msg, "unencrypted HTTP/2 not enabled") || strings.Contains(msg, "unsupported scheme") {
		return cause.Protocol
	}
	return cause.Unknown
}

func streamErrorCategory(code http2.ErrCode) cause.Category {
	switch code {
	case http2.ErrCodeProtocol, http2.ErrCodeFrameSize, http2.ErrCodeCompression:
		return cause.Protocol
	case http2.ErrCodeCancel:
		return cause.Canceled
	case http2.ErrCodeRefusedStream:
		return cause.ConnRefused
	default:
		return cause.ConnReset
	}
}
