// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cause

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"syscall"
)

// A Category is the diagnostic category of a particular error, as
// reported by function Categorize().
//
// The category Unknown means the error did not match any of the
// recognised conditions. It does not mean the error is benign.
type Category int

const (
	// Unknown indicates an error that matches no other category.
	Unknown Category = iota
	// Timeout indicates a client-side timeout, including an exceeded
	// context deadline.
	//
	// Function Categorize() will return Timeout if the error or any of
	// its wrapped causes has a Timeout() function that reports true.
	Timeout
	// Canceled indicates the caller abandoned the operation by
	// cancelling its context.
	Canceled
	// ConnRefused indicates the remote host refused the connection, and
	// corresponds to the POSIX error code ECONNREFUSED.
	ConnRefused
	// ConnReset indicates the remote host returned an RST packet on a
	// previously active TCP connection, and corresponds to the POSIX
	// error code ECONNRESET. Adapters also use it for protocol-level
	// resets such as an HTTP/2 GOAWAY.
	ConnReset
	// DNS indicates the host name could not be resolved.
	DNS
	// TLS indicates a failed TLS handshake or certificate verification.
	TLS
	// Protocol indicates the peer sent a malformed or otherwise
	// unintelligible HTTP message.
	Protocol
	// UnexpectedEOF indicates the connection ended before a complete
	// message was received.
	UnexpectedEOF
	// categorySentinel provides the total number of categories.
	categorySentinel
)

var categoryNames = []string{
	"unknown",
	"timeout",
	"canceled",
	"conn_refused",
	"conn_reset",
	"dns",
	"tls",
	"protocol",
	"unexpected_eof",
}

// String returns the name of the category.
func (c Category) String() string {
	if c < 0 || c >= categorySentinel {
		return "unknown"
	}
	return categoryNames[c]
}

// Categorize returns the category of the given error. A nil error, and
// an error that matches none of the recognised conditions, both produce
// the return value Unknown.
//
// Categorize looks at wrapped cause errors contained within err, not
// just err itself. The checks run in the order the categories are
// declared, so an error that is both a timeout and a DNS failure is
// reported as Timeout.
func Categorize(err error) Category {
	if err == nil {
		return Unknown
	}

	var hasTimeout hasTimeout
	if errors.As(err, &hasTimeout) && hasTimeout.Timeout() {
		return Timeout
	}

	if errors.Is(err, context.Canceled) {
		return Canceled
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		if errno == syscall.ECONNRESET {
			return ConnReset
		} else if errno == syscall.ECONNREFUSED {
			return ConnRefused
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return DNS
	}

	if isTLS(err) {
		return TLS
	}

	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return UnexpectedEOF
	}

	return Unknown
}

func isTLS(err error) bool {
	var (
		verifyErr  *tls.CertificateVerificationError
		recordErr  tls.RecordHeaderError
		alertErr   tls.AlertError
		authErr    x509.UnknownAuthorityError
		hostErr    x509.HostnameError
		invalidErr x509.CertificateInvalidError
	)
	return errors.As(err, &verifyErr) ||
		errors.As(err, &recordErr) ||
		errors.As(err, &alertErr) ||
		errors.As(err, &authErr) ||
		errors.As(err, &hostErr) ||
		errors.As(err, &invalidErr)
}

type hasTimeout interface {
	Timeout() bool
}
