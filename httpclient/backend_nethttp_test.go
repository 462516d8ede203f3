// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build httpadapter_nethttp || !httpadapter_h2

package httpclient

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/gogama/httpadapter"
	"github.com/gogama/httpadapter/internal/testserver"
	"github.com/gogama/httpadapter/nethttp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetHTTPBackend(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, nethttp.Name, NetHTTP)

	cl, err := NewBuilder().
		WithFeatures(Features{NetHTTP: true}).
		WithNetHTTPOptions(nethttp.WithIdleConnTimeout(time.Second)).
		WithBaseURL(server.Plain.URL).
		WithClientIdentifier("device-1").
		WithHeader("X-Plex-Product", "Example").
		Build()
	require.NoError(t, err)
	defer cl.CloseIdleConnections()
	assert.Equal(t, NetHTTP, cl.Backend())

	r, err := httpadapter.NewRequest("POST", "/library?x=1", "payload")
	require.NoError(t, err)
	resp, err := cl.Send(ctx, (&testserver.Instruction{Echo: true}).Apply(r))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	b, err := resp.Body.ReadAll(ctx)
	require.NoError(t, err)
	var echo testserver.Echo
	require.NoError(t, json.Unmarshal(b, &echo))
	assert.Equal(t, "POST", echo.Method)
	assert.Equal(t, "/library", echo.Path)
	assert.Equal(t, "x=1", echo.RawQuery)
	assert.Equal(t, "device-1", echo.Header.Get("X-Plex-Client-Identifier"))
	assert.Equal(t, "Example", echo.Header.Get("X-Plex-Product"))
	assert.Equal(t, "payload", string(echo.Body))
}

func TestNetHTTPBackend_TransportError(t *testing.T) {
	cl, err := NewBuilder().WithFeatures(Features{NetHTTP: true}).Build()
	require.NoError(t, err)

	_, err = cl.Get(context.Background(), "http://127.0.0.1:1/")
	var e *httpadapter.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, httpadapter.KindTransport, e.Kind)
	assert.Equal(t, NetHTTP, e.Backend)
}

func TestFromConfig_NetHTTPOptions(t *testing.T) {
	b := FromConfig(Config{NetHTTP: NetHTTPConfig{
		MaxIdleConnsPerHost: 3,
		IdleConnTimeout:     time.Second,
		DisableCompression:  true,
	}})
	assert.Len(t, b.netHTTP, 3)

	b = FromConfig(Config{})
	assert.Empty(t, b.netHTTP)
}
