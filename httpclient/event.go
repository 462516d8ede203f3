// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpclient

// An Event identifies the event type when installing or running a
// Handler. Install event handlers in a Client to extend it with custom
// functionality.
type Event int

const (
	// BeforeSend identifies the event that occurs before the request is
	// handed to the backend.
	//
	// When Client fires BeforeSend, the exchange's request field is set
	// to the request that WILL BE sent after all BeforeSend handlers
	// have finished, with the client defaults already applied. Handlers
	// may change the request's Header, for example to sign it.
	BeforeSend Event = iota
	// AfterResponse identifies the event that occurs after the backend
	// delivered a response status and headers.
	//
	// When Client fires AfterResponse, the exchange's response field is
	// set and its body has not been read yet. AfterResponse fires for
	// every status code, including non-2xx.
	AfterResponse
	// AfterError identifies the event that occurs after the backend
	// returned an error instead of a response.
	//
	// When Client fires AfterError, the exchange's error field is set to
	// an *httpadapter.Error and its response field is nil.
	AfterError
	// AfterSend identifies the event that occurs after the exchange
	// ends, regardless of whether it concluded successfully or not.
	//
	// When Client fires AfterSend, the end time is set and the exchange
	// will not change further.
	AfterSend
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events types as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeSend",
	"AfterResponse",
	"AfterError",
	"AfterSend",
}

// Events returns a slice containing all events which can occur in an
// exchange, in the order in which they would occur. AfterResponse and
// AfterError are mutually exclusive.
func Events() []Event {
	return []Event{
		BeforeSend,
		AfterResponse,
		AfterError,
		AfterSend,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
