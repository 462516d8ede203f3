// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpadapter

import (
	"encoding/base64"
	"fmt"
	"net/http"
	urlpkg "net/url"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// A Request is a backend-neutral HTTP request.
//
// A Request must not be modified once it has been passed to a Client.
// Sending a request consumes its Body, so a Request can be sent once.
// Code that needs to alter a request on its way to a backend, such as
// a decorator adding default headers, must work on a Clone.
type Request struct {
	// Method specifies the HTTP method (GET, POST, PUT, etc.).
	Method string

	// URL specifies the URL to access. It may be relative if the
	// request is sent through a client with a base URL.
	URL *urlpkg.URL

	// Header contains the request header fields. The values of each
	// name are sent in order; the order across names is up to the
	// backend.
	Header Header

	// Body is the request payload. A nil Body is treated as empty.
	Body *Body
}

// NewRequest returns a new Request given a method, URL, and optional
// body.
//
// An empty method means GET. Parameter body may be nil (empty body), or
// it may be a string, []byte, io.Reader, io.ReadCloser, or *Body, with
// the conversion rules of NewBody. Unlike the net/http equivalent,
// readers are not buffered: they are streamed to the server when the
// request is sent.
func NewRequest(method, url string, body interface{}) (*Request, error) {
	if method == "" {
		method = http.MethodGet
	}
	if !validMethod(method) {
		return nil, fmt.Errorf("httpadapter: invalid method %q", method)
	}
	u, err := urlpkg.Parse(url)
	if err != nil {
		return nil, err
	}
	u.Host = removeEmptyPort(u.Host)
	b, err := NewBody(body)
	if err != nil {
		return nil, err
	}
	return &Request{
		Method: method,
		URL:    u,
		Body:   b,
	}, nil
}

// Clone returns a copy of r with its own URL and Header, so the copy's
// URL and headers can be changed without affecting r. The body is
// shared: whichever of r and the copy is sent first consumes it.
func (r *Request) Clone() *Request {
	r2 := new(Request)
	*r2 = *r
	if r.URL != nil {
		u := *r.URL
		if r.URL.User != nil {
			user := *r.URL.User
			u.User = &user
		}
		r2.URL = &u
	}
	r2.Header = r.Header.Clone()
	return r2
}

// AddCookie adds a cookie to the request. Per RFC 6265 section 5.4,
// AddCookie does not attach more than one Cookie header field. That
// means all cookies, if any, are written into the same line,
// separated by semicolons.
func (r *Request) AddCookie(c *http.Cookie) {
	c2 := &http.Cookie{Name: c.Name, Value: c.Value}
	s := c2.String()
	if h := r.Header.Get("Cookie"); h != "" {
		r.Header.Set("Cookie", h+"; "+s)
	} else {
		r.Header.Set("Cookie", s)
	}
}

// SetBasicAuth sets the request's Authorization header to use HTTP
// Basic Authentication with the provided username and password.
func (r *Request) SetBasicAuth(username, password string) {
	auth := username + ":" + password
	r.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(auth)))
}

// validMethod reports whether method is an RFC 7230 token. The empty
// string is never checked because it always means GET.
func validMethod(method string) bool {
	return strings.IndexFunc(method, isNotToken) == -1
}

func isNotToken(r rune) bool {
	return !httpguts.IsTokenRune(r)
}

// hasPort reports whether s, of the form "host", "host:port", or
// "[ipv6::address]:port", includes a port.
func hasPort(s string) bool { return strings.LastIndex(s, ":") > strings.LastIndex(s, "]") }

// removeEmptyPort strips the empty port in ":port" to "" as mandated
// by RFC 3986 Section 6.2.3.
func removeEmptyPort(host string) string {
	if hasPort(host) {
		return strings.TrimSuffix(host, ":")
	}
	return host
}
