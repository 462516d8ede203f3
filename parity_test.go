// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpadapter_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gogama/httpadapter"
	"github.com/gogama/httpadapter/h2"
	"github.com/gogama/httpadapter/internal/testserver"
	"github.com/gogama/httpadapter/nethttp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// transportHeaders differ between HTTP/1.1 and HTTP/2 or between runs.
var transportHeaders = []string{"Date", "Connection", "Keep-Alive", "Transfer-Encoding"}

type observed struct {
	status int
	header httpadapter.Header
	body   []byte
}

func TestBackendParity(t *testing.T) {
	server := testserver.New()
	defer server.Close()

	tlsConfig := server.TLS.Client().Transport.(*http.Transport).TLSClientConfig
	backends := map[string]httpadapter.Client{
		nethttp.Name: nethttp.New(nethttp.WithTransport(server.TLS.Client().Transport.(*http.Transport))),
		h2.Name:      h2.New(h2.WithTLSClientConfig(tlsConfig.Clone())),
	}

	instructions := map[string]*testserver.Instruction{
		"plain 200": {
			Header: map[string][]string{"X-Plex-Protocol": {"1.0"}, "X-Multi": {"a", "b"}},
			Body:   []testserver.Chunk{{Data: []byte("<MediaContainer size=\"0\"/>")}},
		},
		"404 with body": {
			StatusCode: 404,
			Body:       []testserver.Chunk{{Data: []byte("not found")}},
		},
		"204": {StatusCode: 204},
		"unsized": {
			ContentLength: -1,
			Body:          []testserver.Chunk{{Data: []byte("abc")}, {Data: []byte("def")}},
		},
	}

	for name, i := range instructions {
		t.Run(name, func(t *testing.T) {
			results := map[string]observed{}
			for backend, c := range backends {
				r, err := httpadapter.NewRequest("GET", server.TLS.URL+"/library", nil)
				require.NoError(t, err)
				resp, err := c.Send(context.Background(), i.Apply(r))
				require.NoError(t, err, backend)
				body, err := resp.Body.ReadAll(context.Background())
				require.NoError(t, err, backend)
				results[backend] = observed{
					status: resp.StatusCode,
					header: stripTransportHeaders(resp.Header),
					body:   body,
				}
			}
			a, b := results[nethttp.Name], results[h2.Name]
			assert.Equal(t, a.status, b.status)
			assert.Equal(t, a.header, b.header)
			assert.Equal(t, a.body, b.body)
		})
	}
}

func stripTransportHeaders(h httpadapter.Header) httpadapter.Header {
	h = h.Clone()
	for _, name := range transportHeaders {
		h.Del(name)
	}
	return h
}
