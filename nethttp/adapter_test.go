// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package nethttp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gogama/httpadapter"
	"github.com/gogama/httpadapter/cause"
	"github.com/gogama/httpadapter/internal/testserver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var server *testserver.Server

func TestMain(m *testing.M) {
	server = testserver.New()
	code := m.Run()
	server.Close()
	os.Exit(code)
}

func newRequest(t *testing.T, method, url string, body interface{}, i *testserver.Instruction) *httpadapter.Request {
	r, err := httpadapter.NewRequest(method, url, body)
	require.NoError(t, err)
	return i.Apply(r)
}

func tlsAdapter() *Adapter {
	return New(WithTransport(server.TLS.Client().Transport.(*http.Transport)))
}

func TestAdapter_Name(t *testing.T) {
	assert.Equal(t, "nethttp", New().Name())
}

func TestAdapter_Send(t *testing.T) {
	ctx := context.Background()
	a := New()

	t.Run("stream body", func(t *testing.T) {
		r := newRequest(t, "GET", server.Plain.URL, nil, &testserver.Instruction{
			StatusCode: 200,
			Header:     map[string][]string{"X-Multi": {"1", "2"}},
			Body:       []testserver.Chunk{{Data: []byte("hello")}},
		})
		resp, err := a.Send(ctx, r)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "HTTP/1.1", resp.Proto)
		assert.Equal(t, []string{"1", "2"}, resp.Header.Values("X-Multi"))
		assert.Equal(t, httpadapter.StreamKind, resp.Body.Kind())
		assert.Equal(t, int64(5), resp.Body.Len())
		s, err := resp.Text(ctx)
		require.NoError(t, err)
		assert.Equal(t, "hello", s)
	})
	t.Run("non-2xx is data", func(t *testing.T) {
		r := newRequest(t, "GET", server.Plain.URL, nil, &testserver.Instruction{
			StatusCode: 404,
			Body:       []testserver.Chunk{{Data: []byte("not found")}},
		})
		resp, err := a.Send(ctx, r)
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)
		assert.True(t, httpadapter.IsStatus(resp.CheckStatus()))
		assert.NoError(t, resp.Consume(ctx))
	})
	for _, testCase := range []struct {
		name   string
		method string
		status int
	}{
		{"HEAD", "HEAD", 200},
		{"204", "GET", 204},
		{"304", "GET", 304},
		{"zero length", "GET", 200},
	} {
		t.Run("empty body "+testCase.name, func(t *testing.T) {
			r := newRequest(t, testCase.method, server.Plain.URL, nil, &testserver.Instruction{
				StatusCode: testCase.status,
			})
			resp, err := a.Send(ctx, r)
			require.NoError(t, err)
			assert.Equal(t, testCase.status, resp.StatusCode)
			assert.Equal(t, httpadapter.EmptyKind, resp.Body.Kind())
			data, err := resp.Body.ReadAll(ctx)
			assert.NoError(t, err)
			assert.Equal(t, []byte{}, data)
		})
	}
	t.Run("chunked response", func(t *testing.T) {
		r := newRequest(t, "GET", server.Plain.URL, nil, &testserver.Instruction{
			ContentLength: -1,
			Body:          []testserver.Chunk{{Data: []byte("abc")}, {Data: []byte("def")}},
		})
		resp, err := a.Send(ctx, r)
		require.NoError(t, err)
		assert.Equal(t, httpadapter.StreamKind, resp.Body.Kind())
		assert.Equal(t, int64(-1), resp.Body.Len())
		data, err := resp.Body.ReadAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, "abcdef", string(data))
	})
	t.Run("TLS negotiates HTTP/2", func(t *testing.T) {
		r := newRequest(t, "GET", server.TLS.URL, nil, &testserver.Instruction{
			Body: []testserver.Chunk{{Data: []byte("secure")}},
		})
		resp, err := tlsAdapter().Send(ctx, r)
		require.NoError(t, err)
		assert.Equal(t, "HTTP/2.0", resp.Proto)
		s, err := resp.Text(ctx)
		require.NoError(t, err)
		assert.Equal(t, "secure", s)
	})
}

func TestAdapter_Send_Request(t *testing.T) {
	ctx := context.Background()
	a := New()
	echo := &testserver.Instruction{Echo: true}

	t.Run("bytes body and headers", func(t *testing.T) {
		r := newRequest(t, "PUT", server.Plain.URL+"/widgets/1?x=y", "payload", echo)
		r.Header.Add("X-Multi", "a")
		r.Header.Add("Accept", "text/plain")
		r.Header.Add("x-multi", "b")
		e := sendEcho(t, a, r)
		assert.Equal(t, "PUT", e.Method)
		assert.Equal(t, "/widgets/1", e.Path)
		assert.Equal(t, "x=y", e.RawQuery)
		assert.Equal(t, []string{"a", "b"}, e.Header.Values("X-Multi"))
		assert.Equal(t, "text/plain", e.Header.Get("Accept"))
		assert.Equal(t, int64(7), e.ContentLength)
		assert.Equal(t, "payload", string(e.Body))
	})
	t.Run("stream body of unknown size", func(t *testing.T) {
		r := newRequest(t, "POST", server.Plain.URL, strings.NewReader("streamed"), echo)
		e := sendEcho(t, a, r)
		assert.Equal(t, int64(-1), e.ContentLength)
		assert.Equal(t, "streamed", string(e.Body))
	})
	t.Run("stream body of known size", func(t *testing.T) {
		body := httpadapter.StreamBody(io.NopCloser(strings.NewReader("sized")), 5)
		r := newRequest(t, "POST", server.Plain.URL, body, echo)
		e := sendEcho(t, a, r)
		assert.Equal(t, int64(5), e.ContentLength)
		assert.Equal(t, "sized", string(e.Body))
	})
	t.Run("body is moved out", func(t *testing.T) {
		r := newRequest(t, "POST", server.Plain.URL, "once", echo)
		_ = sendEcho(t, a, r)
		assert.True(t, r.Body.Consumed())
		resp, err := a.Send(ctx, r)
		assert.Nil(t, resp)
		assert.True(t, httpadapter.IsIo(err))
		assert.ErrorIs(t, err, httpadapter.ErrBodyConsumed)
	})
	t.Run("request body reader fails", func(t *testing.T) {
		readErr := errors.New("source failed")
		body := io.MultiReader(strings.NewReader("start"), &failingReader{err: readErr})
		r := newRequest(t, "POST", server.Plain.URL, body, echo)
		resp, err := a.Send(ctx, r)
		assert.Nil(t, resp)
		assert.True(t, httpadapter.IsIo(err))
		assert.ErrorIs(t, err, readErr)
		var e *httpadapter.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, Name, e.Backend)
		assert.Equal(t, httpadapter.OpWriteBody, e.Op)
	})
}

func TestAdapter_Send_Errors(t *testing.T) {
	ctx := context.Background()
	a := New()

	t.Run("nil request", func(t *testing.T) {
		assert.PanicsWithValue(t, "httpadapter/nethttp: nil request", func() {
			_, _ = a.Send(ctx, nil)
		})
	})
	t.Run("connection refused", func(t *testing.T) {
		l, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		addr := l.Addr().String()
		require.NoError(t, l.Close())
		resp, err := a.Send(ctx, newRequest(t, "GET", "http://"+addr, nil, nil))
		assert.Nil(t, resp)
		assert.True(t, httpadapter.IsTransport(err))
		assert.Equal(t, cause.ConnRefused, httpadapter.CategoryOf(err))
		var e *httpadapter.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, "http://"+addr, e.URL)
	})
	t.Run("untrusted certificate", func(t *testing.T) {
		resp, err := a.Send(ctx, newRequest(t, "GET", server.TLS.URL, nil, nil))
		assert.Nil(t, resp)
		assert.True(t, httpadapter.IsTransport(err))
		assert.Equal(t, cause.TLS, httpadapter.CategoryOf(err))
	})
	t.Run("unsupported scheme", func(t *testing.T) {
		resp, err := a.Send(ctx, newRequest(t, "GET", "ftp://foo.com", nil, nil))
		assert.Nil(t, resp)
		assert.True(t, httpadapter.IsTransport(err))
		assert.Equal(t, cause.Protocol, httpadapter.CategoryOf(err))
	})
	t.Run("cancelled while waiting for headers", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(50*time.Millisecond, cancel)
		r := newRequest(t, "GET", server.Plain.URL, nil, &testserver.Instruction{HeaderPause: 10 * time.Second})
		resp, err := a.Send(ctx, r)
		assert.Nil(t, resp)
		assert.True(t, httpadapter.IsTransport(err))
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, cause.Canceled, httpadapter.CategoryOf(err))
	})
	t.Run("deadline while waiting for headers", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		r := newRequest(t, "GET", server.Plain.URL, nil, &testserver.Instruction{HeaderPause: 10 * time.Second})
		resp, err := a.Send(ctx, r)
		assert.Nil(t, resp)
		assert.True(t, httpadapter.IsTransport(err))
		var e *httpadapter.Error
		require.ErrorAs(t, err, &e)
		assert.True(t, e.Timeout())
	})
	t.Run("connection lost mid-body", func(t *testing.T) {
		r := newRequest(t, "GET", server.Plain.URL, nil, &testserver.Instruction{
			ContentLength: 100,
			Body:          []testserver.Chunk{{Data: []byte("0123456789")}},
			Abort:         true,
		})
		resp, err := a.Send(ctx, r)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		var sink strings.Builder
		n, err := resp.Body.CopyTo(ctx, &sink)
		assert.Equal(t, int64(10), n)
		assert.Equal(t, "0123456789", sink.String())
		assert.True(t, httpadapter.IsIo(err))
		assert.Equal(t, cause.UnexpectedEOF, httpadapter.CategoryOf(err))
		var e *httpadapter.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, Name, e.Backend)
		assert.Equal(t, httpadapter.OpReadBody, e.Op)
	})
	t.Run("cancelled while reading body", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		r := newRequest(t, "GET", server.Plain.URL, nil, &testserver.Instruction{
			Body: []testserver.Chunk{{Data: []byte("ab")}, {Pause: 10 * time.Second, Data: []byte("cd")}},
		})
		resp, err := a.Send(ctx, r)
		require.NoError(t, err)
		time.AfterFunc(50*time.Millisecond, cancel)
		_, err = resp.Body.ReadAll(ctx)
		assert.True(t, httpadapter.IsIo(err))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestAdapter_Redirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/from", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/to", http.StatusFound)
	})
	mux.HandleFunc("/to", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "arrived")
	})
	s := httptest.NewServer(mux)
	defer s.Close()

	resp, err := New().Send(context.Background(), newRequest(t, "GET", s.URL+"/from", nil, nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	text, err := resp.Text(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "arrived", text)
}

func TestAdapter_CloseIdleConnections(t *testing.T) {
	a := New(WithMaxIdleConnsPerHost(1))
	resp, err := a.Send(context.Background(), newRequest(t, "GET", server.Plain.URL, nil, nil))
	require.NoError(t, err)
	require.NoError(t, resp.Consume(context.Background()))
	assert.NotPanics(t, a.CloseIdleConnections)
	var _ httpadapter.IdleCloser = a
}

func sendEcho(t *testing.T, a httpadapter.Client, r *httpadapter.Request) *testserver.Echo {
	resp, err := a.Send(context.Background(), r)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	data, err := resp.Body.ReadAll(context.Background())
	require.NoError(t, err)
	var e testserver.Echo
	require.NoError(t, json.Unmarshal(data, &e))
	return &e
}

type failingReader struct {
	err error
}

func (r *failingReader) Read(_ []byte) (int, error) {
	return 0, r.err
}
