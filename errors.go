// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cq

import (
	"errors"
	"fmt"

	"code.hybscloud.com/iox"
)

// ErrFull indicates a bounded queue was at capacity. It wraps
// [iox.ErrWouldBlock]: the condition is transient and the caller should
// retry, not treat it as a failure.
var ErrFull = fmt.Errorf("cq: full: %w", iox.ErrWouldBlock)

// ErrEmpty indicates a queue was momentarily empty. It wraps
// [iox.ErrWouldBlock] for the same reason as ErrFull.
var ErrEmpty = fmt.Errorf("cq: empty: %w", iox.ErrWouldBlock)

// ErrClosed indicates the queue has been closed. Unlike ErrFull and
// ErrEmpty, this is terminal: it does not wrap [iox.ErrWouldBlock], and
// retrying will never succeed.
var ErrClosed = errors.New("cq: closed")

// PushError is returned by [Queue.Push] when the value could not be
// enqueued. Value holds the value that was rejected, unchanged, so the
// caller may reuse or re-enqueue it.
type PushError[T any] struct {
	Value T
	err   error
}

func newFullPushError[T any](value T) *PushError[T] {
	return &PushError[T]{Value: value, err: ErrFull}
}

func newClosedPushError[T any](value T) *PushError[T] {
	return &PushError[T]{Value: value, err: ErrClosed}
}

func (e *PushError[T]) Error() string {
	return e.err.Error()
}

// Unwrap lets errors.Is(err, cq.ErrFull), errors.Is(err, cq.ErrClosed),
// and errors.Is(err, iox.ErrWouldBlock) all classify a *PushError[T]
// correctly.
func (e *PushError[T]) Unwrap() error {
	return e.err
}

// PopError is returned by [Queue.Pop] when no value could be dequeued.
// Unlike PushError it carries no payload: there is nothing to return to
// the caller beyond the zero value already returned alongside it.
type PopError struct {
	err error
}

var (
	errEmptyPop  = &PopError{err: ErrEmpty}
	errClosedPop = &PopError{err: ErrClosed}
)

func (e *PopError) Error() string {
	return e.err.Error()
}

// Unwrap lets errors.Is(err, cq.ErrEmpty), errors.Is(err, cq.ErrClosed),
// and errors.Is(err, iox.ErrWouldBlock) all classify a *PopError
// correctly.
func (e *PopError) Unwrap() error {
	return e.err
}

// IsFull reports whether err indicates a bounded queue was at capacity.
func IsFull(err error) bool {
	return errors.Is(err, ErrFull)
}

// IsEmptyErr reports whether err indicates a queue was momentarily empty.
// Named with the Err suffix to avoid colliding with [Queue.IsEmpty].
func IsEmptyErr(err error) bool {
	return errors.Is(err, ErrEmpty)
}

// IsClosedErr reports whether err indicates the queue has been closed.
// Named with the Err suffix to avoid colliding with [Queue.IsClosed].
func IsClosedErr(err error) bool {
	return errors.Is(err, ErrClosed)
}

// IsWouldBlock reports whether err is a transient condition the caller
// should retry (ErrFull or ErrEmpty), as opposed to the terminal
// ErrClosed. Delegates to [iox.IsWouldBlock] for wrapped-error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}
