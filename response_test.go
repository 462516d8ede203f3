// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpadapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponse_CheckStatus(t *testing.T) {
	for _, code := range []int{200, 201, 204, 299} {
		r := &Response{StatusCode: code, Body: EmptyBody()}
		assert.True(t, r.Success(), code)
		assert.NoError(t, r.CheckStatus(), code)
	}
	for _, code := range []int{100, 199, 301, 404, 500} {
		r := &Response{StatusCode: code, Body: EmptyBody()}
		assert.False(t, r.Success(), code)
		err := r.CheckStatus()
		require.Error(t, err, code)
		assert.True(t, IsStatus(err))
		var e *Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, code, e.StatusCode)
	}
	t.Run("body untouched", func(t *testing.T) {
		r := &Response{StatusCode: 404, Body: BytesBody([]byte("not found"))}
		require.Error(t, r.CheckStatus())
		assert.False(t, r.Body.Consumed())
	})
}

func TestResponse_Text(t *testing.T) {
	r := &Response{StatusCode: 200, Body: BytesBody([]byte("hello"))}
	s, err := r.Text(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "hello", s)
	assert.ErrorIs(t, r.Consume(context.Background()), ErrBodyConsumed)
}
