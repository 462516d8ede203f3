// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package nethttp

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gogama/httpadapter"
	"github.com/gogama/httpadapter/cause"
	"github.com/gogama/httpadapter/internal/transport"
)

// Unify maps a native net/http error raised in the given phase to the
// unified error taxonomy. It returns nil for a nil error.
//
// On top of cause.Categorize, Unify reports malformed responses, scheme
// mismatches and unsupported URL schemes as cause.Protocol, and stream
// resets from HTTP/2 negotiated over ALPN as cause.ConnReset.
func Unify(phase httpadapter.Phase, err error) *httpadapter.Error {
	if err == nil {
		return nil
	}
	return transport.NewError(Name, phase, err, categorize(err))
}

func categorize(err error) cause.Category {
	if c := cause.Categorize(err); c != cause.Unknown {
		return c
	}
	if errors.Is(err, http.ErrSchemeMismatch) {
		return cause.Protocol
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "malformed HTTP"), strings.Contains(msg, "unsupported protocol scheme"):
		return cause.Protocol
	case strings.Contains(msg, "stream error"):
		return cause.ConnReset
	}
	return cause.Unknown
}
