// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpclient

import (
	"net/url"

	"github.com/gogama/httpadapter"
	"github.com/rs/zerolog"
)

// LogHandler returns a Handler which logs each exchange to logger when
// it ends. Successful exchanges are logged at debug level, failed ones
// at warn level with the error kind and category. Errors are logged,
// never swallowed: the exchange still returns them to the caller.
//
// Install the handler on the AfterSend event. Builder.WithLogger does
// this automatically.
func LogHandler(logger zerolog.Logger) Handler {
	return HandlerFunc(func(evt Event, e *Exchange) {
		if evt != AfterSend {
			return
		}

		if e.Err != nil {
			logger.Warn().
				Err(e.Err).
				Str("method", e.Request.Method).
				Str("url", urlString(e.Request.URL)).
				Str("backend", e.Backend).
				Str("kind", httpadapter.KindOf(e.Err).String()).
				Str("category", httpadapter.CategoryOf(e.Err).String()).
				Dur("duration", e.Duration()).
				Msg("exchange failed")
			return
		}

		logger.Debug().
			Str("method", e.Request.Method).
			Str("url", urlString(e.Request.URL)).
			Str("backend", e.Backend).
			Int("status", e.StatusCode()).
			Dur("duration", e.Duration()).
			Msg("exchange completed")
	})
}

func urlString(u *url.URL) string {
	if u == nil {
		return ""
	}
	return u.String()
}
