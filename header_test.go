// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpadapter

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/propagation"
)

func TestHeader(t *testing.T) {
	t.Run("zero value", func(t *testing.T) {
		var h Header
		assert.Equal(t, 0, h.Len())
		assert.Equal(t, "", h.Get("foo"))
		assert.Nil(t, h.Values("foo"))
		assert.False(t, h.Has("foo"))
		assert.Empty(t, h.Keys())
		assert.Nil(t, h.Clone())
	})
	t.Run("Add preserves order", func(t *testing.T) {
		var h Header
		h.Add("B", "1")
		h.Add("a", "2")
		h.Add("b", "3")
		assert.Equal(t, Header{{"B", "1"}, {"a", "2"}, {"b", "3"}}, h)
		assert.Equal(t, []string{"1", "3"}, h.Values("B"))
		assert.Equal(t, []string{"B", "a"}, h.Keys())
		assert.Equal(t, 3, h.Len())
	})
	t.Run("case-insensitive lookup", func(t *testing.T) {
		h := Header{{"Content-Type", "text/plain"}}
		assert.Equal(t, "text/plain", h.Get("content-type"))
		assert.True(t, h.Has("CONTENT-TYPE"))
	})
	t.Run("Set", func(t *testing.T) {
		t.Run("absent name appended", func(t *testing.T) {
			h := Header{{"A", "1"}}
			h.Set("B", "2")
			assert.Equal(t, Header{{"A", "1"}, {"B", "2"}}, h)
		})
		t.Run("present name keeps first position", func(t *testing.T) {
			h := Header{{"X", "1"}, {"A", "2"}, {"x", "3"}}
			h.Set("X", "new")
			assert.Equal(t, Header{{"X", "new"}, {"A", "2"}}, h)
		})
	})
	t.Run("Del", func(t *testing.T) {
		h := Header{{"X", "1"}, {"A", "2"}, {"x", "3"}}
		h.Del("X")
		assert.Equal(t, Header{{"A", "2"}}, h)
		h.Del("missing")
		assert.Equal(t, Header{{"A", "2"}}, h)
	})
	t.Run("Clone shares no storage", func(t *testing.T) {
		h := Header{{"A", "1"}}
		c := h.Clone()
		c.Set("A", "2")
		c.Add("B", "3")
		assert.Equal(t, Header{{"A", "1"}}, h)
		assert.Equal(t, Header{{"A", "2"}, {"B", "3"}}, c)
	})
}

func TestHeader_HTTP(t *testing.T) {
	h := Header{{"x-foo", "1"}, {"Accept", "a"}, {"X-Foo", "2"}}
	hh := h.HTTP()
	assert.Equal(t, http.Header{
		"X-Foo":  {"1", "2"},
		"Accept": {"a"},
	}, hh)
}

func TestHeaderFromHTTP(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		h := HeaderFromHTTP(nil)
		assert.Equal(t, 0, h.Len())
	})
	t.Run("sorted by name", func(t *testing.T) {
		h := HeaderFromHTTP(http.Header{
			"Zeta":  {"z"},
			"Alpha": {"a1", "a2"},
			"Mid":   {"m"},
		})
		assert.Equal(t, Header{
			{"Alpha", "a1"},
			{"Alpha", "a2"},
			{"Mid", "m"},
			{"Zeta", "z"},
		}, h)
	})
}

func TestHeader_TextMapCarrier(t *testing.T) {
	var h Header
	var carrier propagation.TextMapCarrier = &h
	carrier.Set("traceparent", "00-abc-def-01")
	assert.Equal(t, "00-abc-def-01", carrier.Get("Traceparent"))
	assert.Equal(t, []string{"traceparent"}, carrier.Keys())
}
