// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build !httpadapter_nethttp && !httpadapter_h2

package httpclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompiledFeatures_Default(t *testing.T) {
	assert.Equal(t, Features{NetHTTP: true}, CompiledFeatures())

	cl, err := NewBuilder().Build()
	require.NoError(t, err)
	assert.Equal(t, NetHTTP, cl.Backend())

	_, err = NewBuilder().WithFeatures(Features{H2: true}).Build()
	requireConfigurationError(t, err, ErrBackendNotCompiled)
}
