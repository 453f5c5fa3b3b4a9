// pn532-badgereader
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of pn532-badgereader.
//
// pn532-badgereader is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// pn532-badgereader is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with pn532-badgereader; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package pn532

import (
	"errors"
	"fmt"
)

// Transport errors
var (
	// ErrTimedOut is returned when the ACK or response is not observed in time.
	// This is the expected outcome of a poll with no tag in the field.
	ErrTimedOut = errors.New("timed out waiting for PN532")

	// ErrBusIO is returned when the byte transport fails. The session is
	// closed and must be reopened before further use.
	ErrBusIO = errors.New("bus I/O failure")

	ErrNoACK            = errors.New("no ACK received")
	ErrFrameCorrupted   = errors.New("frame corrupted")
	ErrSessionClosed    = errors.New("session is not open")
	ErrDataTooLarge     = errors.New("payload too large for frame")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Protocol errors: the device answered but the content failed validation
var (
	ErrUnexpectedSignature = errors.New("unexpected firmware signature")
	ErrConfigRejected      = errors.New("configuration rejected")
	ErrNoTagPresent        = errors.New("no tag present")
	ErrMalformedUID        = errors.New("malformed UID length")
)

// ErrorType classifies transport errors for callers deciding how to react
type ErrorType int

const (
	// ErrorTypePermanent errors will not go away by trying again
	ErrorTypePermanent ErrorType = iota
	// ErrorTypeTransient errors may succeed on the next attempt
	ErrorTypeTransient
	// ErrorTypeTimeout errors mean the device did not answer in time
	ErrorTypeTimeout
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeTransient:
		return "transient"
	case ErrorTypeTimeout:
		return "timeout"
	default:
		return "permanent"
	}
}

// TransportError describes a failed exchange with the bus
type TransportError struct {
	Err       error
	Op        string
	Port      string
	Type      ErrorType
	Retryable bool
}

func (e *TransportError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("%s on %s: %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a transport error; everything but permanent
// errors is considered retryable
func NewTransportError(op, port string, err error, errType ErrorType) *TransportError {
	return &TransportError{
		Op:        op,
		Port:      port,
		Err:       err,
		Type:      errType,
		Retryable: errType != ErrorTypePermanent,
	}
}

// NewTimeoutError creates a timeout error
func NewTimeoutError(op, port string) *TransportError {
	return NewTransportError(op, port, ErrTimedOut, ErrorTypeTimeout)
}

// NewNoACKError creates an error for a missing or malformed ACK frame
func NewNoACKError(op, port string) *TransportError {
	return NewTransportError(op, port, ErrNoACK, ErrorTypeTransient)
}

// NewFrameCorruptedError creates an error for a frame that failed validation
func NewFrameCorruptedError(op, port string) *TransportError {
	return NewTransportError(op, port, ErrFrameCorrupted, ErrorTypeTransient)
}

// NewDataTooLargeError creates an error for a payload that does not fit a frame
func NewDataTooLargeError(op, port string) *TransportError {
	return NewTransportError(op, port, ErrDataTooLarge, ErrorTypePermanent)
}

// NewBusError wraps a byte transport failure. Bus errors are fatal to the
// session, so they are never retryable at this layer.
func NewBusError(op, port string, cause error) *TransportError {
	return NewTransportError(op, port, fmt.Errorf("%w: %w", ErrBusIO, cause), ErrorTypePermanent)
}

// ProtocolError reports a response whose content failed validation
type ProtocolError struct {
	Err     error
	Command string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

func newProtocolError(command string, err error) *ProtocolError {
	return &ProtocolError{Command: command, Err: err}
}

// IsRetryable reports whether trying the operation again could succeed
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Retryable
	}

	switch {
	case errors.Is(err, ErrTimedOut),
		errors.Is(err, ErrNoACK),
		errors.Is(err, ErrFrameCorrupted):
		return true
	default:
		return false
	}
}

// GetErrorType returns the classification of err
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ErrorTypePermanent
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Type
	}

	switch {
	case errors.Is(err, ErrTimedOut):
		return ErrorTypeTimeout
	case errors.Is(err, ErrNoACK), errors.Is(err, ErrFrameCorrupted):
		return ErrorTypeTransient
	default:
		return ErrorTypePermanent
	}
}

// IsTimeout reports whether err is a bounded wait that expired
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimedOut)
}

// IsBusError reports whether err closed the session
func IsBusError(err error) bool {
	return errors.Is(err, ErrBusIO)
}

// IsNoTag reports whether err means the field was empty. Both an explicit
// zero-target answer and a timed out poll count.
func IsNoTag(err error) bool {
	return errors.Is(err, ErrNoTagPresent) || IsTimeout(err)
}
