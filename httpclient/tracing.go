// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpclient

import (
	"context"
	"net/http"

	"github.com/gogama/httpadapter"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/gogama/httpadapter/httpclient"

// tracingClient starts a client span per exchange and injects the span
// context into the request header. The request must already be a copy
// owned by the client.
type tracingClient struct {
	next       httpadapter.Client
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
	backend    string
}

func newTracingClient(next httpadapter.Client, tp trace.TracerProvider, p propagation.TextMapPropagator, backend string) *tracingClient {
	return &tracingClient{
		next:       next,
		tracer:     tp.Tracer(tracerName),
		propagator: p,
		backend:    backend,
	}
}

func (tc *tracingClient) Send(ctx context.Context, r *httpadapter.Request) (*httpadapter.Response, error) {
	ctx, span := tc.tracer.Start(ctx, "HTTP "+r.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", r.Method),
			attribute.String("url.full", urlString(r.URL)),
			attribute.String("httpadapter.backend", tc.backend),
		),
	)
	defer span.End()

	tc.propagator.Inject(ctx, &r.Header)

	resp, err := tc.next.Send(ctx, r)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("error.type", httpadapter.KindOf(err).String()))
		return resp, err
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
	}
	return resp, nil
}
