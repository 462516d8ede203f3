// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transport translates between the backend-neutral request and
// response types and their net/http equivalents. Both backend adapters
// share it, since both drive the native transport through an
// http.Client.
package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gogama/httpadapter"
	"github.com/gogama/httpadapter/cause"
)

// ErrNilURL is the cause of the error returned for a request without
// a URL.
var ErrNilURL = errors.New("httpadapter: nil request URL")

// UnifyFunc maps a native error from the given phase to a unified
// error.
type UnifyFunc func(phase httpadapter.Phase, err error) *httpadapter.Error

// ToHTTPRequest translates r into a native request bound to ctx. It
// takes the request body, so r cannot be sent again.
//
// The returned RequestBody records failures of the request body's own
// reader, so the caller can tell them apart from transport failures. It
// is nil if the request has no streamed body.
func ToHTTPRequest(ctx context.Context, r *httpadapter.Request) (*http.Request, *RequestBody, error) {
	if r.URL == nil {
		return nil, nil, ErrNilURL
	}
	body := r.Body
	if body == nil {
		body = httpadapter.EmptyBody()
	}
	payload, size, err := body.Take()
	if err != nil {
		return nil, nil, err
	}

	var tracked *RequestBody
	var native io.Reader
	switch x := payload.(type) {
	case nil:
	case *bytes.Reader:
		// net/http sets ContentLength and GetBody for in-memory readers.
		native = x
	default:
		if size == 0 {
			closeReader(x)
			native = http.NoBody
			break
		}
		tracked = &RequestBody{r: x}
		native = tracked
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, r.URL.String(), native)
	if err != nil {
		if tracked != nil {
			_ = tracked.Close()
		}
		return nil, nil, err
	}
	if tracked != nil && size > 0 {
		req.ContentLength = size
	}
	req.Header = r.Header.HTTP()
	if host := req.Header.Get("Host"); host != "" {
		req.Host = host
		req.Header.Del("Host")
	}
	return req, tracked, nil
}

// FromHTTPResponse translates the native response to req into a
// unified one. Responses which cannot carry content get an empty body,
// and their native body is closed at once so the connection can be
// reused. Otherwise the body streams from the native one, with read
// errors wrapped in a *url.Error and mapped through unify.
func FromHTTPResponse(req *http.Request, resp *http.Response, unify UnifyFunc) *httpadapter.Response {
	out := &httpadapter.Response{
		StatusCode: resp.StatusCode,
		Proto:      resp.Proto,
		Header:     httpadapter.HeaderFromHTTP(resp.Header),
	}
	if !hasBody(req.Method, resp) {
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
		out.Body = httpadapter.EmptyBody()
		return out
	}
	out.Body = httpadapter.StreamBody(&responseBody{
		rc:     resp.Body,
		method: req.Method,
		url:    req.URL.String(),
		unify:  unify,
	}, resp.ContentLength)
	return out
}

func hasBody(method string, resp *http.Response) bool {
	switch {
	case resp.Body == nil || resp.Body == http.NoBody:
		return false
	case method == http.MethodHead:
		return false
	case resp.StatusCode >= 100 && resp.StatusCode < 200:
		return false
	case resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusNotModified:
		return false
	case resp.ContentLength == 0:
		return false
	}
	return true
}

// A RequestBody wraps a streamed request body. Errors from its reader
// are returned as KindIo errors, so they stay recognizable after the
// native transport has wrapped them, and the first one is remembered.
type RequestBody struct {
	r   io.Reader
	mu  sync.Mutex
	err error
}

// Read implements io.Reader.
func (b *RequestBody) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	if err != nil && err != io.EOF {
		err = &httpadapter.Error{
			Kind:     httpadapter.KindIo,
			Op:       httpadapter.OpWriteBody,
			Category: cause.Categorize(err),
			Err:      err,
		}
		b.mu.Lock()
		if b.err == nil {
			b.err = err
		}
		b.mu.Unlock()
	}
	return n, err
}

// Close closes the wrapped reader if it is an io.Closer.
func (b *RequestBody) Close() error {
	return closeReader(b.r)
}

// Err returns the first error the wrapped reader returned, as a
// KindIo error, or nil.
func (b *RequestBody) Err() error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

func closeReader(r io.Reader) error {
	if c, ok := r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

type responseBody struct {
	rc        io.ReadCloser
	method    string
	url       string
	unify     UnifyFunc
	closeOnce sync.Once
	closeErr  error
}

func (b *responseBody) Read(p []byte) (int, error) {
	n, err := b.rc.Read(p)
	if err != nil && err != io.EOF {
		return n, b.unify(httpadapter.PhaseBody, WrapURLError(b.method, b.url, err))
	}
	return n, err
}

func (b *responseBody) Close() error {
	b.closeOnce.Do(func() {
		if err := b.rc.Close(); err != nil {
			b.closeErr = b.unify(httpadapter.PhaseBody, WrapURLError(b.method, b.url, err))
		}
	})
	return b.closeErr
}

// WrapURLError wraps err in a *url.Error naming the method and URL,
// unless err already contains one.
func WrapURLError(method, rawURL string, err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return err
	}
	return &url.Error{
		Op:  URLErrorOp(method),
		URL: rawURL,
		Err: err,
	}
}

// URLErrorOp returns the *url.Error Op for method, as net/http does.
func URLErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}

// NewError builds the unified error for a native error err raised by
// backend in the given phase, with the category already decided by the
// backend.
//
// PhaseSend errors have kind KindTransport, except when err carries a
// KindIo error from the request body's reader. PhaseBody errors have
// kind KindIo.
func NewError(backend string, phase httpadapter.Phase, err error, category cause.Category) *httpadapter.Error {
	e := &httpadapter.Error{
		Kind:     httpadapter.KindTransport,
		Backend:  backend,
		Op:       httpadapter.OpSend,
		Category: category,
		Err:      err,
	}
	if phase == httpadapter.PhaseBody {
		e.Kind = httpadapter.KindIo
		e.Op = httpadapter.OpReadBody
	} else if inner := requestBodyError(err); inner != nil {
		e.Kind = httpadapter.KindIo
		e.Op = inner.Op
		if inner.Category != cause.Unknown {
			e.Category = inner.Category
		}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		e.URL = urlErr.URL
	}
	return e
}

func requestBodyError(err error) *httpadapter.Error {
	var inner *httpadapter.Error
	if errors.As(err, &inner) && inner.Kind == httpadapter.KindIo {
		return inner
	}
	return nil
}

// JoinRequestBodyError makes sure the send error err carries the error
// recorded by body, in case the native transport dropped it.
func JoinRequestBodyError(err error, body *RequestBody) error {
	bodyErr := body.Err()
	if bodyErr == nil || errors.Is(err, bodyErr) {
		return err
	}
	return errors.Join(err, bodyErr)
}

// Do performs one exchange of r through client and unifies every error
// with unify. Only the details of the native transport differ between
// backends, so both adapters send through Do.
func Do(ctx context.Context, client *http.Client, r *httpadapter.Request, unify UnifyFunc) (*httpadapter.Response, error) {
	req, body, err := ToHTTPRequest(ctx, r)
	if err != nil {
		var e *httpadapter.Error
		if errors.As(err, &e) {
			return nil, err
		}
		rawURL := ""
		if r.URL != nil {
			rawURL = r.URL.String()
		}
		return nil, unify(httpadapter.PhaseSend, WrapURLError(r.Method, rawURL, err))
	}

	resp, err := client.Do(req)
	if err != nil {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		err = JoinRequestBodyError(err, body)
		return nil, unify(httpadapter.PhaseSend, WrapURLError(req.Method, req.URL.String(), err))
	}

	return FromHTTPResponse(req, resp, unify), nil
}
