// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpclient

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/gogama/httpadapter"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/http/httpguts"
)

// DefaultIdentifierHeader is the name of the header carrying the client
// identifier, unless changed with Builder.WithIdentifierHeader.
const DefaultIdentifierHeader = "X-Plex-Client-Identifier"

// A backend is a first-party adapter or a wrapped injected client.
type backend interface {
	httpadapter.Client
	httpadapter.IdleCloser
	Name() string
}

// A Builder configures and builds a Client.
//
// Setters return the Builder so calls can be chained. The first invalid
// argument passed to a setter is recorded and returned by Build, and
// later setters on the same Builder are then ignored. A Builder should
// not be used from more than one goroutine.
type Builder struct {
	identifier       string
	identifierHeader string
	header           httpadapter.Header
	baseURL          *url.URL
	injected         httpadapter.Client
	features         *Features
	logger           zerolog.Logger
	tracing          bool
	tracerProvider   trace.TracerProvider
	propagator       propagation.TextMapPropagator
	handlers         *HandlerGroup
	netHTTP          netHTTPOptions
	h2               h2Options
	err              error
}

// NewBuilder returns a Builder with no backend options, a random client
// identifier, and logging disabled.
func NewBuilder() *Builder {
	return &Builder{
		identifierHeader: DefaultIdentifierHeader,
		logger:           zerolog.Nop(),
	}
}

// WithClientIdentifier sets the value of the client identifier header.
// An empty value restores the default random identifier.
func (b *Builder) WithClientIdentifier(id string) *Builder {
	if b.err == nil && !httpguts.ValidHeaderFieldValue(id) {
		b.err = fmt.Errorf("httpadapter/httpclient: invalid client identifier %q", id)
	}
	b.identifier = id
	return b
}

// WithIdentifierHeader sets the name of the client identifier header.
func (b *Builder) WithIdentifierHeader(name string) *Builder {
	if b.err == nil && !httpguts.ValidHeaderFieldName(name) {
		b.err = fmt.Errorf("httpadapter/httpclient: invalid header name %q", name)
		return b
	}
	b.identifierHeader = name
	return b
}

// WithHeader adds a default header. Default headers are added to every
// request which does not already carry a header with the same name.
// Setting the same name twice replaces the earlier value.
func (b *Builder) WithHeader(name, value string) *Builder {
	if b.err != nil {
		return b
	}
	if !httpguts.ValidHeaderFieldName(name) {
		b.err = fmt.Errorf("httpadapter/httpclient: invalid header name %q", name)
		return b
	}
	if !httpguts.ValidHeaderFieldValue(value) {
		b.err = fmt.Errorf("httpadapter/httpclient: invalid value for header %q", name)
		return b
	}
	b.header.Set(name, value)
	return b
}

// WithBaseURL sets the URL against which relative request URLs are
// resolved. The base must be an absolute http or https URL.
func (b *Builder) WithBaseURL(rawURL string) *Builder {
	if b.err != nil {
		return b
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		b.err = fmt.Errorf("httpadapter/httpclient: invalid base URL: %w", err)
		return b
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		b.err = fmt.Errorf("httpadapter/httpclient: base URL %q is not an absolute http or https URL", rawURL)
		return b
	}
	b.baseURL = u
	return b
}

// WithClient injects a custom Client implementation. An injected client
// takes precedence over every backend switch. It still gets the client
// defaults, handlers, logging and tracing.
//
// If c has a method Name() string, its result is reported as the
// backend name. Errors returned by c which are not already an
// *httpadapter.Error are wrapped as KindTransport errors.
func (b *Builder) WithClient(c httpadapter.Client) *Builder {
	if b.err == nil && c == nil {
		b.err = errors.New("httpadapter/httpclient: nil client")
		return b
	}
	b.injected = c
	return b
}

// WithFeatures selects the backend explicitly. Without it, the Builder
// uses CompiledFeatures.
func (b *Builder) WithFeatures(f Features) *Builder {
	b.features = &f
	return b
}

// WithLogger installs a handler logging every completed exchange to
// logger. See LogHandler.
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithTracing wraps the client in a span per exchange, created by tp,
// with the span context injected into the request headers by p. A nil
// tp or p means the global provider or propagator from package otel.
func (b *Builder) WithTracing(tp trace.TracerProvider, p propagation.TextMapPropagator) *Builder {
	b.tracing = true
	b.tracerProvider = tp
	b.propagator = p
	return b
}

// WithHandlers installs the event handlers in g. The Client keeps its
// own copy, so changes made to g after Build do not affect the Client.
func (b *Builder) WithHandlers(g *HandlerGroup) *Builder {
	b.handlers = g
	return b
}

// Build validates the configuration and returns a new Client.
//
// Every error returned by Build is a KindConfiguration
// *httpadapter.Error. Build performs no network activity.
func (b *Builder) Build() (*Client, error) {
	if b.err != nil {
		return nil, configurationError(b.err)
	}

	inner, err := b.backend()
	if err != nil {
		return nil, configurationError(err)
	}

	identifier := b.identifier
	if identifier == "" {
		identifier = uuid.NewString()
	}
	header := make(httpadapter.Header, 0, len(b.header)+1)
	header.Add(b.identifierHeader, identifier)
	for _, f := range b.header {
		if !header.Has(f.Name) {
			header.Add(f.Name, f.Value)
		}
	}

	handlers := b.handlers.clone()
	if b.logger.GetLevel() != zerolog.Disabled {
		handlers.PushBack(AfterSend, LogHandler(b.logger))
	}

	var next httpadapter.Client = inner
	if !handlers.empty() {
		next = &handlerClient{next: next, handlers: handlers, backend: inner.Name()}
	}
	if b.tracing {
		tp := b.tracerProvider
		if tp == nil {
			tp = otel.GetTracerProvider()
		}
		p := b.propagator
		if p == nil {
			p = otel.GetTextMapPropagator()
		}
		next = newTracingClient(next, tp, p, inner.Name())
	}
	next = &defaultsClient{next: next, header: header, baseURL: b.baseURL, backend: inner.Name()}

	return &Client{
		sender:     next,
		backend:    inner,
		identifier: identifier,
	}, nil
}

func (b *Builder) backend() (backend, error) {
	if b.injected != nil {
		return newInjected(b.injected), nil
	}

	f := CompiledFeatures()
	if b.features != nil {
		f = *b.features
	}
	name, err := selectBackend(f)
	if err != nil {
		return nil, err
	}
	if name == NetHTTP {
		return b.newNetHTTP(), nil
	}
	return b.newH2(), nil
}

func configurationError(err error) error {
	var e *httpadapter.Error
	if errors.As(err, &e) && e.Kind == httpadapter.KindConfiguration {
		return e
	}
	return httpadapter.ConfigurationError(err)
}
