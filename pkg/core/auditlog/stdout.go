//
//  Copyright © PortalGuard Authors. All rights reserved.
//

package auditlog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/balaipom/portalguard/pkg/core/types"
)

// AuditLogOptions configures the behavior of audit log output.
type AuditLogOptions struct {
	// PrettyPrint enables indented multi-line JSON output.
	// When false (default), output is compact single-line JSON.
	PrettyPrint bool
}

// IoWriterFactory creates [Stream] instances that write to an
// [io.Writer].
//
// Use [NewStdoutFactory] to create a factory for stdout, or
// [NewIoWriterFactory] for a custom writer.
type IoWriterFactory struct {
	writer  io.Writer
	options AuditLogOptions
}

// IoWriterStream writes access records as JSON to an [io.Writer].
//
// Each record is written as a single line of JSON followed by a
// newline, a format suitable for log aggregation systems and
// command-line tools.
//
// IoWriterStream is safe for concurrent use; writes are atomic at the
// line level.
type IoWriterStream struct {
	writer  io.Writer
	options AuditLogOptions
}

// NewStdoutFactory creates a [Factory] that writes access records to
// stdout.
//
// This is the default factory used by the guard if no audit log is
// explicitly configured. It's suitable for development and debugging,
// or for production environments where stdout is captured by a log
// aggregator.
//
// Example:
//
//	guard, _ := core.NewGuard(
//	    options.WithAuditLog(auditlog.NewStdoutFactory()),
//	)
func NewStdoutFactory() Factory {
	return NewIoWriterFactory(os.Stdout)
}

// NewIoWriterFactory creates a [Factory] that writes access records to
// the specified [io.Writer].
//
// This is useful for writing to files, buffers, or other destinations:
//
//	file, _ := os.Create("audit.log")
//	factory := auditlog.NewIoWriterFactory(file)
//	guard, _ := core.NewGuard(options.WithAuditLog(factory))
func NewIoWriterFactory(w io.Writer) Factory {
	return NewIoWriterFactoryWithOptions(w, AuditLogOptions{})
}

// NewIoWriterFactoryWithOptions creates a [Factory] that writes access
// records to the specified [io.Writer] with the given options.
//
// Use this when you need to customize output formatting:
//
//	factory := auditlog.NewIoWriterFactoryWithOptions(os.Stdout, auditlog.AuditLogOptions{
//	    PrettyPrint: true,
//	})
func NewIoWriterFactoryWithOptions(w io.Writer, opts AuditLogOptions) Factory {
	return &IoWriterFactory{
		writer:  w,
		options: opts,
	}
}

// NewStream creates a new [IoWriterStream] that writes to the
// configured writer.
func (f *IoWriterFactory) NewStream() (Stream, error) {
	return newStream(f.writer, f.options), nil
}

func newStream(w io.Writer, opts AuditLogOptions) Stream {
	return &IoWriterStream{
		writer:  w,
		options: opts,
	}
}

// Send marshals the access record to JSON and writes it to the
// configured writer, followed by a newline. Output format is controlled
// by AuditLogOptions.
//
// Write errors are silently ignored as stdout writes rarely fail, and
// the guard should not fail route decisions due to logging issues.
func (s *IoWriterStream) Send(record *types.AccessRecord) error {
	var output []byte
	var err error
	if s.options.PrettyPrint {
		output, err = json.MarshalIndent(record, "", "  ")
	} else {
		output, err = json.Marshal(record)
	}
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(s.writer, string(output))
	return nil
}

// Close is a no-op for IoWriterStream.
//
// The underlying writer is not closed by this method; the caller is
// responsible for closing the writer if needed (except for stdout,
// which should not be closed).
func (s *IoWriterStream) Close() {}
