// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpclient

// A HandlerGroup is a group of event handler chains which can be
// installed in a Client.
type HandlerGroup struct {
	handlers [][]Handler
}

// PushBack adds an event handler to the back of the event handler chain
// for a specific event type.
func (g *HandlerGroup) PushBack(evt Event, h Handler) {
	if h == nil {
		panic("httpadapter/httpclient: nil handler")
	}

	if g.handlers == nil {
		g.handlers = make([][]Handler, numEvents)
	}

	g.handlers[evt] = append(g.handlers[evt], h)
}

// clone returns a copy of g which can be extended without changing g.
func (g *HandlerGroup) clone() *HandlerGroup {
	c := &HandlerGroup{}
	if g == nil || g.handlers == nil {
		return c
	}
	c.handlers = make([][]Handler, numEvents)
	for i, chain := range g.handlers {
		c.handlers[i] = append([]Handler(nil), chain...)
	}
	return c
}

func (g *HandlerGroup) empty() bool {
	for _, chain := range g.handlers {
		if len(chain) > 0 {
			return false
		}
	}
	return true
}

func (g *HandlerGroup) run(evt Event, e *Exchange) {
	i := int(evt)
	if i < len(g.handlers) {
		run(g.handlers[i], evt, e)
	}
}

func run(chain []Handler, evt Event, e *Exchange) {
	for _, h := range chain {
		h.Handle(evt, e)
	}
}

// A Handler handles the occurrence of an event during an exchange.
type Handler interface {
	Handle(Event, *Exchange)
}

// The HandlerFunc type is an adapter to allow the use of ordinary
// functions as event handlers. If f is a function with appropriate
// signature, then HandlerFunc(f) is a Handler that calls f.
type HandlerFunc func(Event, *Exchange)

// Handle calls f(evt, e).
func (f HandlerFunc) Handle(evt Event, e *Exchange) {
	f(evt, e)
}
