// MIT License
//
// Copyright (c) 2026 Arsene Tochemey Gandote
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package errors defines the sentinel errors shared across the runtime and
// the helpers used to classify failures at the service and transport layers.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned when an operation carries a payload
	// that violates an entity invariant. The entity state is left untouched.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned when the addressed entity or record has no
	// persisted state and the operation requires one.
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable indicates the persistent store could not serve a
	// load or save. The triggering operation may be retried once the store
	// recovers.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrVersionConflict indicates an optimistic concurrency conflict: the
	// record version in the store no longer matches the version the writer
	// observed.
	ErrVersionConflict = errors.New("version conflict")

	// ErrRequestTimeout indicates the caller deadline elapsed before the
	// operation completed. Operations that have not started executing are
	// abandoned; operations already executing run to completion.
	ErrRequestTimeout = errors.New("request timed out")

	// ErrEngineNotStarted is returned when invoking an engine that has not
	// been started yet.
	ErrEngineNotStarted = errors.New("engine is not started")

	// ErrEngineAlreadyStarted is returned when starting an engine twice.
	ErrEngineAlreadyStarted = errors.New("engine is already started")

	// ErrEngineStopped is returned when invoking an engine that has been
	// shut down.
	ErrEngineStopped = errors.New("engine is stopped")

	// ErrEntityNotActive is returned when an operation reaches an entity
	// that is deactivating or already gone. Callers reactivate by retrying.
	ErrEntityNotActive = errors.New("entity is not active")

	// ErrSchedulerNotStarted is returned when scheduling against a stopped
	// scheduler.
	ErrSchedulerNotStarted = errors.New("scheduler is not started")

	// ErrMailboxFull is returned when a bounded mailbox has reached its
	// capacity.
	ErrMailboxFull = errors.New("mailbox is full")

	// ErrEntityNotRegistered is returned when no factory has been
	// registered for the identity kind.
	ErrEntityNotRegistered = errors.New("entity kind is not registered")

	// ErrInvalidIdentity is returned when an identity fails validation.
	ErrInvalidIdentity = errors.New("invalid entity identity")

	// ErrActivationFailure is returned when an entity could not be
	// activated from its snapshot.
	ErrActivationFailure = errors.New("entity activation failed")

	// ErrDeactivationFailure is returned when an entity could not be
	// deactivated cleanly.
	ErrDeactivationFailure = errors.New("entity deactivation failed")

	// ErrInvalidOperation is returned when an entity receives an operation
	// it does not know how to handle.
	ErrInvalidOperation = errors.New("invalid operation")
)

// NewErrActivationFailure wraps a base error with ErrActivationFailure.
func NewErrActivationFailure(err error) error {
	return errors.Join(ErrActivationFailure, err)
}

// NewErrDeactivationFailure wraps a base error with ErrDeactivationFailure.
func NewErrDeactivationFailure(err error) error {
	return errors.Join(ErrDeactivationFailure, err)
}

// NewErrStoreUnavailable wraps a base error with ErrStoreUnavailable.
func NewErrStoreUnavailable(err error) error {
	return errors.Join(ErrStoreUnavailable, err)
}

// NewErrVersionConflict wraps a base error with ErrVersionConflict.
func NewErrVersionConflict(err error) error {
	return errors.Join(ErrVersionConflict, err)
}

// NewErrInvalidIdentity wraps a base error with ErrInvalidIdentity.
func NewErrInvalidIdentity(err error) error {
	return errors.Join(ErrInvalidIdentity, err)
}

// NewErrInvalidOperation formats an ErrInvalidOperation for the given
// operation name.
func NewErrInvalidOperation(name string) error {
	return fmt.Errorf("operation=(%s) %w", name, ErrInvalidOperation)
}

// NewErrNotFound formats an ErrNotFound for the given identity string.
func NewErrNotFound(id string) error {
	return fmt.Errorf("entity=(%s) %w", id, ErrNotFound)
}

// NewErrEntityNotRegistered formats an ErrEntityNotRegistered for the given
// kind.
func NewErrEntityNotRegistered(kind string) error {
	return fmt.Errorf("kind=(%s) %w", kind, ErrEntityNotRegistered)
}

// ValidationError reports an invariant violation on a specific field.
// It wraps ErrInvalidArgument so callers can classify it with errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

// enforce compilation error
var _ error = (*ValidationError)(nil)

// NewValidationError creates an instance of ValidationError.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// Error implements the standard error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidArgument.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidArgument
}

// PanicError wraps a panic recovered from an entity handler, enriched with
// the location it was caught at.
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError
func NewPanicError(err error) *PanicError {
	return &PanicError{err}
}

// Error implements the standard error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}

func (e *PanicError) Unwrap() error {
	return e.err
}

// InternalError defines an error that is internal to the runtime.
type InternalError struct {
	err error
}

// enforce compilation error
var _ error = (*InternalError)(nil)

// NewInternalError returns an instance of InternalError
func NewInternalError(err error) *InternalError {
	return &InternalError{
		err: fmt.Errorf("internal error: %w", err),
	}
}

// Error implements the standard error interface
func (i *InternalError) Error() string {
	return i.err.Error()
}

func (i *InternalError) Unwrap() error {
	return i.err
}
