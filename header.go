// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpadapter

import (
	"net/http"
	"sort"
	"strings"
)

// A Field is a single header field, one name and one value.
type Field struct {
	Name  string
	Value string
}

// A Header is an ordered HTTP header multimap.
//
// Names are matched case-insensitively, but are stored exactly as they
// were added. Fields keep their insertion order, both across names and
// among the values of a single name. The zero value is an empty header
// ready to use.
type Header []Field

// Add appends a field to the header.
func (h *Header) Add(name, value string) {
	*h = append(*h, Field{Name: name, Value: value})
}

// Set replaces any existing values for name with value. If name is
// already present, the first field keeps its position and the remaining
// fields with that name are removed. Otherwise the field is appended.
func (h *Header) Set(name, value string) {
	fields := *h
	out := fields[:0]
	found := false
	for _, f := range fields {
		if !strings.EqualFold(f.Name, name) {
			out = append(out, f)
		} else if !found {
			out = append(out, Field{Name: f.Name, Value: value})
			found = true
		}
	}
	if !found {
		out = append(out, Field{Name: name, Value: value})
	}
	*h = out
}

// Del removes every field with the given name.
func (h *Header) Del(name string) {
	fields := *h
	out := fields[:0]
	for _, f := range fields {
		if !strings.EqualFold(f.Name, name) {
			out = append(out, f)
		}
	}
	*h = out
}

// Get returns the first value associated with name, or the empty string
// if there is none.
func (h Header) Get(name string) string {
	for _, f := range h {
		if strings.EqualFold(f.Name, name) {
			return f.Value
		}
	}
	return ""
}

// Values returns all values associated with name, in order.
func (h Header) Values(name string) []string {
	var values []string
	for _, f := range h {
		if strings.EqualFold(f.Name, name) {
			values = append(values, f.Value)
		}
	}
	return values
}

// Has reports whether at least one field with the given name exists.
func (h Header) Has(name string) bool {
	for _, f := range h {
		if strings.EqualFold(f.Name, name) {
			return true
		}
	}
	return false
}

// Keys returns the distinct field names in order of first appearance.
func (h Header) Keys() []string {
	keys := make([]string, 0, len(h))
	for i, f := range h {
		if !Header(h[:i]).Has(f.Name) {
			keys = append(keys, f.Name)
		}
	}
	return keys
}

// Len returns the number of fields, counting repeated names.
func (h Header) Len() int {
	return len(h)
}

// Clone returns a copy of h which shares no storage with it. The clone
// of a nil header is nil.
func (h Header) Clone() Header {
	if h == nil {
		return nil
	}
	h2 := make(Header, len(h))
	copy(h2, h)
	return h2
}

// HTTP converts h into a net/http header. Names are canonicalized by
// http.Header.Add; the relative order of values for each name is kept.
func (h Header) HTTP() http.Header {
	hh := make(http.Header, len(h))
	for _, f := range h {
		hh.Add(f.Name, f.Value)
	}
	return hh
}

// HeaderFromHTTP converts a net/http header into a Header. Since
// http.Header has no order across names, names are emitted in sorted
// order, which makes the result deterministic for a given input.
func HeaderFromHTTP(hh http.Header) Header {
	names := make([]string, 0, len(hh))
	n := 0
	for name, values := range hh {
		names = append(names, name)
		n += len(values)
	}
	sort.Strings(names)
	h := make(Header, 0, n)
	for _, name := range names {
		for _, value := range hh[name] {
			h = append(h, Field{Name: name, Value: value})
		}
	}
	return h
}
