// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package httpclient builds an httpadapter.Client over exactly one
backend, selected at compile time by build tags or explicitly at run
time, and applies request defaults shared by every backend.

Build a client with a Builder:

	cl, err := httpclient.NewBuilder().
		WithBaseURL("https://media.example.com:32400").
		WithHeader("X-Plex-Product", "Example").
		WithLogger(logger).
		Build()
	if err != nil {
		// err is a KindConfiguration *httpadapter.Error.
	}
	resp, err := cl.Get(ctx, "/library/sections")

or from a file and the environment:

	cfg, err := httpclient.LoadConfig("httpadapter.yaml")
	...
	cl, err := httpclient.FromConfig(cfg).Build()

# Backend selection

The build tags httpadapter_nethttp and httpadapter_h2 choose which
backends are compiled in. With no tags, only nethttp is compiled in.
CompiledFeatures reports the result. Build fails with ErrNoBackend when
no backend is selected and with ErrMultipleBackends when more than one
is; when both tags are given, select one with WithFeatures or
Config.Backends. A client injected with WithClient takes precedence over
every switch.

# Defaults

Every request gets a client identifier header, X-Plex-Client-Identifier
unless renamed, carrying a random UUID unless set explicitly, plus any
headers added with WithHeader. A default never replaces a header the
request already carries. Relative request URLs are resolved against the
base URL.

# Events

A Client fires the events BeforeSend, then AfterResponse or AfterError,
then AfterSend, for every exchange. Install handlers with a HandlerGroup
passed to WithHandlers.
*/
package httpclient
