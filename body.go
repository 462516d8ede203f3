// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpadapter

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync/atomic"
	"unicode/utf8"

	"github.com/gogama/httpadapter/cause"
)

// ChunkSize is the largest number of bytes a Body holds in memory at
// once while copying a stream to a sink.
const ChunkSize = 32 * 1024

// maxPrealloc caps the buffer ReadAll allocates up front from a
// declared stream size, so that a hostile Content-Length cannot force
// a huge allocation before any data arrives.
const maxPrealloc = 4 << 20

const badBodyTypeMsg = "httpadapter: invalid type (for body use nil, " +
	"string, []byte, io.Reader, io.ReadCloser or *Body)"

// ErrBodyConsumed is wrapped by the error returned when a body is
// consumed a second time.
var ErrBodyConsumed = errors.New("httpadapter: body already consumed")

// A BodyKind identifies which variant a Body holds.
type BodyKind int

const (
	// EmptyKind identifies a body with no content.
	EmptyKind BodyKind = iota
	// BytesKind identifies a body whose content is fully buffered in
	// memory.
	BytesKind
	// StreamKind identifies a body whose content is read lazily from
	// a finite, non-restartable source such as a network connection.
	StreamKind
)

var bodyKindNames = []string{"Empty", "Bytes", "Stream"}

// String returns the name of the body kind.
func (k BodyKind) String() string {
	if k < 0 || int(k) >= len(bodyKindNames) {
		return "Unknown"
	}
	return bodyKindNames[k]
}

// A Body is a request or response payload.
//
// A Body may be consumed at most once. Each of ReadAll, CopyTo, Text,
// Consume, Close and Take consumes the body, whether it succeeds or
// fails, and every later consumption attempt fails with an error of
// kind KindIo wrapping ErrBodyConsumed. Close is the one exception: it
// is a no-op on an already consumed body.
//
// A Body is safe to hand between goroutines, and concurrent
// consumption attempts are resolved so that exactly one of them wins.
type Body struct {
	kind     BodyKind
	data     []byte
	stream   io.ReadCloser
	size     int64
	consumed atomic.Bool
}

// EmptyBody returns a new body with no content.
func EmptyBody() *Body {
	return &Body{kind: EmptyKind}
}

// BytesBody returns a new body holding b. The body takes ownership of
// b, so the caller must not modify b afterwards.
func BytesBody(b []byte) *Body {
	return &Body{kind: BytesKind, data: b, size: int64(len(b))}
}

// StreamBody returns a new body which reads its content from rc. The
// size parameter is the number of bytes rc is expected to yield, or -1
// if unknown. If rc is nil, StreamBody returns an empty body.
func StreamBody(rc io.ReadCloser, size int64) *Body {
	if rc == nil {
		return EmptyBody()
	}
	if size < 0 {
		size = -1
	}
	return &Body{kind: StreamKind, stream: rc, size: size}
}

// NewBody converts a generic body parameter to a Body.
//
// The body parameter may be nil, or it may be a string, []byte,
// io.Reader, io.ReadCloser, or *Body. The conversion logic is:
//
// • If body is nil, an empty body is returned.
//
// • If body is a string or []byte, a bytes body is returned. A []byte
// is not copied.
//
// • If body is an io.ReadCloser, a stream body of unknown size is
// returned. An io.Reader which is not a Closer is wrapped with a no-op
// Close method first.
//
// • If body is a *Body, it is returned unchanged.
//
// • If body is any other type than those listed above, a nil body and
// an error is returned.
func NewBody(body interface{}) (*Body, error) {
	switch x := body.(type) {
	case nil:
		return EmptyBody(), nil
	case *Body:
		if x == nil {
			return EmptyBody(), nil
		}
		return x, nil
	case string:
		return BytesBody([]byte(x)), nil
	case []byte:
		return BytesBody(x), nil
	case io.ReadCloser:
		return StreamBody(x, -1), nil
	case io.Reader:
		return StreamBody(io.NopCloser(x), -1), nil
	default:
		return nil, errors.New(badBodyTypeMsg)
	}
}

// Kind returns the variant the body holds.
func (b *Body) Kind() BodyKind {
	return b.kind
}

// Len returns the number of bytes in the body, or -1 if the body is a
// stream of unknown size.
func (b *Body) Len() int64 {
	return b.size
}

// Consumed reports whether the body has already been consumed.
func (b *Body) Consumed() bool {
	return b.consumed.Load()
}

// ReadAll reads the whole body into memory and returns it. An empty
// body yields an empty, non-nil slice.
//
// If ctx is cancelled while a stream is being read, the stream is
// closed and the error wraps ctx.Err(). On a read failure the bytes
// read before the failure are returned together with the error.
func (b *Body) ReadAll(ctx context.Context) ([]byte, error) {
	if err := b.claim(); err != nil {
		return nil, err
	}

	switch b.kind {
	case EmptyKind:
		return []byte{}, nil
	case BytesKind:
		data := b.data
		b.data = nil
		if data == nil {
			data = []byte{}
		}
		return data, nil
	}

	var buf bytes.Buffer
	if b.size > 0 && b.size <= maxPrealloc {
		buf.Grow(int(b.size))
	}
	_, err := b.copyStream(ctx, &buf)
	if data := buf.Bytes(); data != nil {
		return data, err
	}
	return []byte{}, err
}

// CopyTo writes the body to w, never holding more than ChunkSize bytes
// of it in memory at once, and returns the number of bytes written.
//
// The count is returned even when an error occurs, so a caller can
// tell how much of a partially transferred body reached w. Errors from
// either side of the copy have kind KindIo.
func (b *Body) CopyTo(ctx context.Context, w io.Writer) (int64, error) {
	if err := b.claim(); err != nil {
		return 0, err
	}

	switch b.kind {
	case EmptyKind:
		return 0, nil
	case BytesKind:
		data := b.data
		b.data = nil
		return copyBytes(w, data)
	}

	return b.copyStream(ctx, w)
}

// Text reads the whole body and returns it as a string. The body must
// be valid UTF-8.
func (b *Body) Text(ctx context.Context) (string, error) {
	data, err := b.ReadAll(ctx)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", &Error{Kind: KindIo, Op: OpReadBody, Err: errors.New("httpadapter: body is not valid UTF-8")}
	}
	return string(data), nil
}

// Consume reads the body to the end and discards it. Draining a
// response body lets the backend reuse the underlying connection.
func (b *Body) Consume(ctx context.Context) error {
	_, err := b.CopyTo(ctx, io.Discard)
	return err
}

// Close releases the body without reading it. Close on an already
// consumed body does nothing and returns nil.
func (b *Body) Close() error {
	if !b.consumed.CompareAndSwap(false, true) {
		return nil
	}
	b.data = nil
	if b.stream != nil {
		rc := b.stream
		b.stream = nil
		if err := rc.Close(); err != nil {
			return ioError(OpCloseBody, err)
		}
	}
	return nil
}

// Take moves the payload out of the body for sending and returns it
// together with the body length (-1 if unknown). The reader is nil for
// an empty body, a *bytes.Reader for a bytes body, and the original
// io.ReadCloser for a stream body; the caller is responsible for
// closing a reader that implements io.Closer.
//
// Take consumes the body. Backend adapters use it to translate a
// request body into a native one.
func (b *Body) Take() (io.Reader, int64, error) {
	if err := b.claim(); err != nil {
		return nil, 0, err
	}

	switch b.kind {
	case EmptyKind:
		return nil, 0, nil
	case BytesKind:
		data := b.data
		b.data = nil
		return bytes.NewReader(data), int64(len(data)), nil
	}

	rc := b.stream
	b.stream = nil
	return rc, b.size, nil
}

func (b *Body) claim() error {
	if !b.consumed.CompareAndSwap(false, true) {
		return &Error{Kind: KindIo, Op: OpReadBody, Err: ErrBodyConsumed}
	}
	return nil
}

func (b *Body) copyStream(ctx context.Context, w io.Writer) (n int64, err error) {
	rc := b.stream
	b.stream = nil
	stop := context.AfterFunc(ctx, func() {
		_ = rc.Close()
	})
	defer func() {
		stop()
		if cerr := rc.Close(); cerr != nil && err == nil {
			err = ioError(OpCloseBody, cerr)
		}
	}()

	buf := make([]byte, ChunkSize)
	for {
		nr, rerr := rc.Read(buf)
		if nr > 0 {
			nw, werr := w.Write(buf[:nr])
			if nw > 0 {
				n += int64(nw)
			}
			if werr != nil {
				return n, ioError(OpWriteBody, werr)
			}
			if nw != nr {
				return n, ioError(OpWriteBody, io.ErrShortWrite)
			}
		}
		if rerr == io.EOF {
			return n, nil
		}
		if rerr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return n, &Error{Kind: KindIo, Op: OpReadBody, Category: cause.Categorize(ctxErr), Err: ctxErr}
			}
			return n, ioError(OpReadBody, rerr)
		}
	}
}

func copyBytes(w io.Writer, data []byte) (n int64, err error) {
	for len(data) > 0 {
		chunk := data
		if len(chunk) > ChunkSize {
			chunk = chunk[:ChunkSize]
		}
		nw, werr := w.Write(chunk)
		if nw > 0 {
			n += int64(nw)
		}
		if werr != nil {
			return n, ioError(OpWriteBody, werr)
		}
		if nw != len(chunk) {
			return n, ioError(OpWriteBody, io.ErrShortWrite)
		}
		data = data[nw:]
	}
	return n, nil
}

func ioError(op string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: KindIo, Op: op, Category: cause.Categorize(err), Err: err}
}
