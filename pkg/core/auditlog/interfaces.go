//
//  Copyright © PortalGuard Authors. All rights reserved.
//

// Package auditlog provides interfaces and implementations for audit
// logging of route authorization decisions.
//
// Audit logs record every decision made by the route guard, creating a
// trail for compliance review, debugging, and security monitoring. Each
// record includes the principal, the requested path, and the verdict.
//
// # Built-in Implementations
//
// The package provides several stream implementations:
//   - [NewStdoutFactory]: Writes JSON records to stdout (default)
//   - [NewIoWriterFactory]: Writes JSON records to any io.Writer
//   - [NewNullFactory]: Discards all records (useful for testing)
//
// # Custom Implementations
//
// To implement a custom audit log (e.g., for a message broker or a
// database):
//
//  1. Implement the [Factory] interface to create stream instances
//  2. Implement the [Stream] interface to handle record delivery
//  3. Use [options.WithAuditLog] when creating the guard
package auditlog

import (
	"github.com/balaipom/portalguard/pkg/core/types"
)

// Factory creates audit log [Stream] instances.
//
// The factory pattern enables deferred initialization of streaming
// resources. Early initialization (setting Viper defaults, validating
// configuration) should happen during factory construction. Late
// initialization (opening connections, allocating buffers) should
// happen in [NewStream].
//
// The guard framework guarantees that configuration is fully loaded
// before [NewStream] is called.
type Factory interface {
	// NewStream creates a new audit log stream.
	//
	// The returned stream should be ready to receive records via
	// [Stream.Send]. Returns an error if the stream cannot be
	// initialized.
	NewStream() (Stream, error)
}

// Stream is the interface for sending access records to an audit
// destination.
//
// Implementations must be safe for concurrent use by multiple
// goroutines; the guard may call Send from several goroutines
// simultaneously.
type Stream interface {
	// Send delivers an access record to the audit destination.
	//
	// Send should not modify the record. Returns an error if the
	// record cannot be delivered; the guard logs send errors but does
	// not retry.
	Send(record *types.AccessRecord) error

	// Close releases any resources held by the stream, flushing any
	// buffered records first. After Close the stream should not be
	// used again.
	Close()
}
