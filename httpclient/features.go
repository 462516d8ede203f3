// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpclient

import (
	"errors"
	"fmt"
	"strings"
)

// Backend names, as accepted in Config.Backends and reported by
// Client.Backend.
const (
	NetHTTP = "nethttp"
	H2      = "h2"
	// Injected is reported by Client.Backend for a client built with
	// Builder.WithClient, unless the injected client has a Name method.
	Injected = "injected"
)

var (
	// ErrNoBackend is wrapped by the configuration error Build returns
	// when no backend is selected.
	ErrNoBackend = errors.New("httpadapter/httpclient: no backend selected")
	// ErrMultipleBackends is wrapped by the configuration error Build
	// returns when more than one backend is selected.
	ErrMultipleBackends = errors.New("httpadapter/httpclient: more than one backend selected")
	// ErrBackendNotCompiled is wrapped by the configuration error Build
	// returns when the selected backend was left out of the build.
	ErrBackendNotCompiled = errors.New("httpadapter/httpclient: backend not compiled in")
	// ErrUnknownBackend is wrapped by the configuration error returned
	// for a backend name which is not NetHTTP or H2.
	ErrUnknownBackend = errors.New("httpadapter/httpclient: unknown backend")
)

// Features is a set of backend switches.
//
// At compile time the switches are set by build tags. Without tags, the
// nethttp backend is compiled in. The tag httpadapter_h2 compiles in
// the h2 backend instead, and adding httpadapter_nethttp as well
// compiles in both. A client can only be built over exactly one active
// backend, so a build with both tags must select one explicitly.
type Features struct {
	NetHTTP bool
	H2      bool
}

// CompiledFeatures returns the backends compiled into this build.
func CompiledFeatures() Features {
	return Features{
		NetHTTP: netHTTPCompiled,
		H2:      h2Compiled,
	}
}

// FeaturesFromNames returns the features named by names.
func FeaturesFromNames(names []string) (Features, error) {
	var f Features
	for _, name := range names {
		switch normalizeName(name) {
		case NetHTTP:
			f.NetHTTP = true
		case H2:
			f.H2 = true
		default:
			return Features{}, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
		}
	}
	return f, nil
}

// normalizeName returns the canonical spelling of a backend name.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Count returns the number of active switches.
func (f Features) Count() int {
	n := 0
	if f.NetHTTP {
		n++
	}
	if f.H2 {
		n++
	}
	return n
}

// Names returns the names of the active switches.
func (f Features) Names() []string {
	var names []string
	if f.NetHTTP {
		names = append(names, NetHTTP)
	}
	if f.H2 {
		names = append(names, H2)
	}
	return names
}

// String returns the active switch names joined by commas.
func (f Features) String() string {
	return strings.Join(f.Names(), ",")
}

// selectBackend returns the single backend name f selects, checking it
// against the compiled features.
func selectBackend(f Features) (string, error) {
	switch f.Count() {
	case 0:
		return "", ErrNoBackend
	case 1:
	default:
		return "", fmt.Errorf("%w: %s", ErrMultipleBackends, f)
	}
	compiled := CompiledFeatures()
	switch {
	case f.NetHTTP && !compiled.NetHTTP:
		return "", fmt.Errorf("%w: %s", ErrBackendNotCompiled, NetHTTP)
	case f.H2 && !compiled.H2:
		return "", fmt.Errorf("%w: %s", ErrBackendNotCompiled, H2)
	case f.NetHTTP:
		return NetHTTP, nil
	default:
		return H2, nil
	}
}
