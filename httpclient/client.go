// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpclient

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/gogama/httpadapter"
	"github.com/gogama/httpadapter/cause"
)

// A Client sends requests through exactly one backend, applying the
// defaults, handlers, logging and tracing it was built with.
//
// A Client is immutable once built and is safe for concurrent use by
// multiple goroutines.
type Client struct {
	sender     httpadapter.Client
	backend    backend
	identifier string
}

// Send sends a request through the client's backend and returns the
// response, or an *httpadapter.Error.
//
// Send never modifies r: defaults are applied to a clone. A non-2xx
// response is returned as data, not as an error.
func (c *Client) Send(ctx context.Context, r *httpadapter.Request) (*httpadapter.Response, error) {
	return c.sender.Send(ctx, r)
}

// Get issues a GET to the specified URL.
func (c *Client) Get(ctx context.Context, url string) (*httpadapter.Response, error) {
	return httpadapter.Get(ctx, c, url)
}

// Head issues a HEAD to the specified URL.
func (c *Client) Head(ctx context.Context, url string) (*httpadapter.Response, error) {
	return httpadapter.Head(ctx, c, url)
}

// Delete issues a DELETE to the specified URL.
func (c *Client) Delete(ctx context.Context, url string) (*httpadapter.Response, error) {
	return httpadapter.Delete(ctx, c, url)
}

// Post issues a POST to the specified URL. See httpadapter.Post for the
// body types accepted.
func (c *Client) Post(ctx context.Context, url, contentType string, body interface{}) (*httpadapter.Response, error) {
	return httpadapter.Post(ctx, c, url, contentType, body)
}

// PostForm issues a POST to the specified URL, with data's keys and
// values URL-encoded as the request body.
func (c *Client) PostForm(ctx context.Context, url string, data url.Values) (*httpadapter.Response, error) {
	return httpadapter.PostForm(ctx, c, url, data)
}

// Backend returns the name of the active backend.
func (c *Client) Backend() string {
	return c.backend.Name()
}

// ClientIdentifier returns the value sent in the client identifier
// header.
func (c *Client) ClientIdentifier() string {
	return c.identifier
}

// CloseIdleConnections closes idle connections held by the backend.
func (c *Client) CloseIdleConnections() {
	c.backend.CloseIdleConnections()
}

// handlerClient runs the event handler chains around an exchange.
type handlerClient struct {
	next     httpadapter.Client
	handlers *HandlerGroup
	backend  string
}

func (hc *handlerClient) Send(ctx context.Context, r *httpadapter.Request) (*httpadapter.Response, error) {
	e := &Exchange{
		Request: r,
		Backend: hc.backend,
		Start:   time.Now(),
	}
	hc.handlers.run(BeforeSend, e)

	e.Response, e.Err = hc.next.Send(ctx, e.Request)
	if e.Err != nil {
		e.Response = nil
		hc.handlers.run(AfterError, e)
	} else {
		hc.handlers.run(AfterResponse, e)
	}

	e.End = time.Now()
	hc.handlers.run(AfterSend, e)
	return e.Response, e.Err
}

// injected adapts a caller-supplied Client to the backend interface.
type injected struct {
	client httpadapter.Client
	name   string
}

type namer interface {
	Name() string
}

func newInjected(c httpadapter.Client) *injected {
	name := Injected
	if n, ok := c.(namer); ok && n.Name() != "" {
		name = n.Name()
	}
	return &injected{client: c, name: name}
}

func (i *injected) Send(ctx context.Context, r *httpadapter.Request) (*httpadapter.Response, error) {
	resp, err := i.client.Send(ctx, r)
	if err == nil {
		return resp, nil
	}
	var e *httpadapter.Error
	if errors.As(err, &e) {
		return resp, err
	}
	return nil, &httpadapter.Error{
		Kind:     httpadapter.KindTransport,
		Backend:  i.name,
		Op:       httpadapter.OpSend,
		URL:      urlString(r.URL),
		Category: cause.Categorize(err),
		Err:      err,
	}
}

func (i *injected) Name() string {
	return i.name
}

func (i *injected) CloseIdleConnections() {
	httpadapter.CloseIdleConnections(i.client)
}
