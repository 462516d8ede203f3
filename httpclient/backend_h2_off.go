// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build !httpadapter_h2

package httpclient

const h2Compiled = false

type h2Options struct{}

func (b *Builder) newH2() backend {
	return nil
}

func (b *Builder) configureH2(H2Config) {}
