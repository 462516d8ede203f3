// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package testserver provides an instruction-driven HTTP test server
// shared by the backend adapter tests.
//
// The client describes the response it wants in an Instruction, which
// travels in the InstructionHeader request header, so the request body
// stays free for the test itself. One server speaks HTTP/1.1 and
// cleartext HTTP/2 with prior knowledge; another speaks HTTP/1.1 and
// HTTP/2 over TLS.
package testserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"time"

	"github.com/gogama/httpadapter"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// InstructionHeader is the request header carrying the JSON encoded
// Instruction.
const InstructionHeader = "X-Test-Instruction"

// A Chunk is a piece of response body written after a pause.
type Chunk struct {
	Pause time.Duration
	Data  []byte
}

// An Instruction tells the server how to respond.
type Instruction struct {
	// HeaderPause delays the response status and headers.
	HeaderPause time.Duration
	// StatusCode is the response status. Zero means 200.
	StatusCode int
	// Header holds extra response header fields.
	Header map[string][]string
	// Body is written in order, flushing after every byte.
	Body []Chunk
	// ContentLength overrides the declared length of Body when
	// positive. A value of -1 omits Content-Length so the body is
	// sent chunked (HTTP/1.1) or unsized (HTTP/2).
	ContentLength int
	// Abort aborts the response after Body has been written.
	Abort bool
	// Echo responds with an Echo of the request instead of Body.
	Echo bool
}

// Echo describes the request the server received.
type Echo struct {
	Method        string
	Path          string
	RawQuery      string
	Proto         string
	Host          string
	Header        http.Header
	ContentLength int64
	Body          []byte
}

// Apply encodes i into r's InstructionHeader. A nil instruction leaves
// r untouched, which yields a plain 200 response.
func (i *Instruction) Apply(r *httpadapter.Request) *httpadapter.Request {
	if i == nil {
		return r
	}
	b, err := json.Marshal(i)
	if err != nil {
		panic(err)
	}
	r.Header.Set(InstructionHeader, string(b))
	return r
}

// A Server is a pair of running test servers sharing one Handler.
type Server struct {
	// Plain serves HTTP/1.1 and h2c over cleartext TCP.
	Plain *httptest.Server
	// TLS serves HTTP/1.1 and HTTP/2 over TLS with a self-signed
	// certificate trusted by TLS.Client().
	TLS *httptest.Server
}

// New starts a Server.
func New() *Server {
	handler := http.HandlerFunc(Handler)
	plain := httptest.NewUnstartedServer(h2c.NewHandler(handler, &http2.Server{}))
	plain.Start()
	secure := httptest.NewUnstartedServer(handler)
	secure.EnableHTTP2 = true
	secure.StartTLS()
	return &Server{Plain: plain, TLS: secure}
}

// Close shuts down both servers.
func (s *Server) Close() {
	s.Plain.Close()
	s.TLS.Close()
}

// Handler serves one request according to its instruction.
func Handler(w http.ResponseWriter, req *http.Request) {
	var i Instruction
	if s := req.Header.Get(InstructionHeader); s != "" {
		if err := json.Unmarshal([]byte(s), &i); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, fmt.Sprintf("bad instruction: %s", err.Error()))
			return
		}
	}
	if i.StatusCode == 0 {
		i.StatusCode = http.StatusOK
	}

	f, ok := w.(http.Flusher)
	if !ok {
		panic("w does not implement Flusher")
	}

	if i.Echo {
		echo(w, req, &i)
		return
	}
	_, _ = io.Copy(io.Discard, req.Body)

	header := w.Header()
	for name, values := range i.Header {
		for _, value := range values {
			header.Add(name, value)
		}
	}
	contentLength := 0
	for _, chunk := range i.Body {
		contentLength += len(chunk.Data)
	}
	if i.ContentLength > 0 {
		contentLength = i.ContentLength
	}
	if i.ContentLength >= 0 && bodyAllowed(req.Method, i.StatusCode) {
		header.Set("Content-Length", strconv.Itoa(contentLength))
	}

	if !pause(req, i.HeaderPause) {
		return
	}
	w.WriteHeader(i.StatusCode)
	f.Flush()

	for _, chunk := range i.Body {
		if len(chunk.Data) == 0 {
			if !pause(req, chunk.Pause) {
				return
			}
			continue
		}
		ppb := chunk.Pause / time.Duration(len(chunk.Data))
		for j := range chunk.Data {
			if _, err := w.Write(chunk.Data[j : j+1]); err != nil {
				return
			}
			f.Flush()
			if !pause(req, ppb) {
				return
			}
		}
	}

	if i.Abort {
		panic(http.ErrAbortHandler)
	}
}

func echo(w http.ResponseWriter, req *http.Request, i *Instruction) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	header := req.Header.Clone()
	header.Del(InstructionHeader)
	b, err := json.Marshal(&Echo{
		Method:        req.Method,
		Path:          req.URL.Path,
		RawQuery:      req.URL.RawQuery,
		Proto:         req.Proto,
		Host:          req.Host,
		Header:        header,
		ContentLength: req.ContentLength,
		Body:          body,
	})
	if err != nil {
		panic(err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.WriteHeader(i.StatusCode)
	_, _ = w.Write(b)
}

func bodyAllowed(method string, status int) bool {
	return method != http.MethodHead &&
		(status < 100 || status >= 200) &&
		status != http.StatusNoContent &&
		status != http.StatusNotModified
}

func pause(req *http.Request, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-req.Context().Done():
		return false
	}
}
