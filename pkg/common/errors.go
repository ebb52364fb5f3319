//
//  Copyright © PortalGuard Authors. All rights reserved.
//

// Package common provides shared types and utilities used across the
// portal guard packages.
//
// # Error Handling
//
// The [GuardError] type provides structured error information for
// failures in the decision path, including reason codes suitable for
// audit records.
package common

import "fmt"

// ReasonCode classifies a GuardError for audit records and logs.
type ReasonCode int

// Reason codes reported in audit records.
const (
	// ReasonUnknown is an unexpected error condition.
	ReasonUnknown ReasonCode = iota
	// ReasonNotFound indicates an entity was not found in the backend.
	ReasonNotFound
	// ReasonConfig indicates an invalid catalog or configuration.
	ReasonConfig
	// ReasonStorage indicates a storage-layer failure.
	ReasonStorage
	// ReasonNetwork indicates a transport failure to a collaborator.
	ReasonNetwork
	// ReasonInvalidParam indicates a malformed input.
	ReasonInvalidParam
)

var reasonNames = map[ReasonCode]string{
	ReasonUnknown:      "UNKNOWN",
	ReasonNotFound:     "NOTFOUND",
	ReasonConfig:       "CONFIG",
	ReasonStorage:      "STORAGE",
	ReasonNetwork:      "NETWORK",
	ReasonInvalidParam: "INVALPARAM",
}

// String returns the machine-readable name of the reason code.
func (c ReasonCode) String() string {
	if name, ok := reasonNames[c]; ok {
		return name
	}
	return reasonNames[ReasonUnknown]
}

// GuardError represents an error encountered while serving a guard
// decision or loading catalog data.
//
// GuardError provides structured error information that can be included
// in audit records. It includes both a machine-readable reason code and
// a human-readable message.
//
// GuardError is returned by backend methods instead of the standard
// error interface to ensure audit trail completeness. Note that
// unauthenticated and unauthorized outcomes are never errors; they are
// ordinary [types.Decision] values.
type GuardError struct {
	// ReasonCode is the machine-readable error classification.
	ReasonCode ReasonCode
	// Reason is a human-readable description of the error.
	Reason string
}

// Error implements the error interface, returning a formatted string
// containing both the reason message and the reason code.
func (e *GuardError) Error() string {
	return fmt.Sprintf("%s(code-%s)", e.Reason, e.ReasonCode)
}

// NewError creates a new [GuardError] with the specified reason code and message.
func NewError(code ReasonCode, msg string) *GuardError {
	return &GuardError{ReasonCode: code, Reason: msg}
}

// NewErrorf creates a new [GuardError] with a formatted message.
func NewErrorf(code ReasonCode, format string, args ...interface{}) *GuardError {
	return &GuardError{ReasonCode: code, Reason: fmt.Sprintf(format, args...)}
}
