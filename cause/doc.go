// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package cause classifies the native errors produced while sending an
// HTTP request or reading its response body. Backend adapters use it to
// attach a diagnostic category to every unified error, and callers can
// use it for bucketing error metrics or for writing their own retry
// logic outside the adapter layer.
//
// Package cause depends only on the standard library.
package cause
