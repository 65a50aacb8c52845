// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cq

import "code.hybscloud.com/atomix"

// zeroSizedCountMask and zeroSizedClosed split the single state word a
// zeroQueue keeps: bit 0 is the closed flag, the remaining bits are the
// item count. A zero-sized type carries no data, so every Push and Pop
// reduces to incrementing or decrementing this one counter; there is no
// slot, no buffer, and no value ever copied.
const (
	zeroSizedClosed    = uint64(1)
	zeroSizedCountUnit = uint64(1) << 1
	zeroSizedCountMask = ^uint64(0) &^ zeroSizedClosed
	zeroSizedMaxCount  = zeroSizedCountMask >> 1
)

// zeroQueue is the backend selected automatically whenever T is a
// zero-sized type, for both Bounded and Unbounded construction. It
// replaces a ring or block list with a single atomic word, since there
// is nothing to store: presence of an item is fully described by how
// many have been pushed and not yet popped.
type zeroQueue[T any] struct {
	_           pad
	state       atomix.Uint64
	capacity    uint64
	hasCapacity bool
}

func newBoundedZeroQueue[T any](capacity uint64) *zeroQueue[T] {
	return &zeroQueue[T]{capacity: capacity, hasCapacity: true}
}

func newUnboundedZeroQueue[T any]() *zeroQueue[T] {
	return &zeroQueue[T]{}
}

// Push records one more item. Returns *PushError[T] wrapping ErrFull if
// the queue has a capacity and is already at it, or wrapping ErrClosed
// if the queue has been closed. value is always T's zero value, carried
// through only so the error type stays consistent with the other two
// backends.
func (q *zeroQueue[T]) Push(value T) error {
	for {
		state := q.state.LoadAcquire()
		if state&zeroSizedClosed != 0 {
			return newClosedPushError(value)
		}
		count := state >> 1
		if count == zeroSizedMaxCount {
			return newFullPushError(value)
		}
		if q.hasCapacity && count >= q.capacity {
			return newFullPushError(value)
		}
		if q.state.CompareAndSwapAcqRel(state, state+zeroSizedCountUnit) {
			return nil
		}
	}
}

// Pop removes one item, returning T's zero value alongside nil on
// success. Returns ErrEmpty if the queue is momentarily empty, or
// ErrClosed if the queue has been closed and fully drained.
func (q *zeroQueue[T]) Pop() (T, error) {
	var zero T
	for {
		state := q.state.LoadAcquire()
		count := state >> 1
		if count == 0 {
			if state&zeroSizedClosed != 0 {
				return zero, errClosedPop
			}
			return zero, errEmptyPop
		}
		if q.state.CompareAndSwapAcqRel(state, state-zeroSizedCountUnit) {
			return zero, nil
		}
	}
}

// Len reports the number of items currently in the queue.
func (q *zeroQueue[T]) Len() int {
	return int(q.state.LoadAcquire() >> 1)
}

// Capacity returns the queue's fixed capacity and true, or (0, false)
// if the queue is unbounded.
func (q *zeroQueue[T]) Capacity() (int, bool) {
	if !q.hasCapacity {
		return 0, false
	}
	return int(q.capacity), true
}

// Close transitions the queue to closed. Returns true iff this call
// performed the transition.
func (q *zeroQueue[T]) Close() bool {
	for {
		state := q.state.LoadAcquire()
		if state&zeroSizedClosed != 0 {
			return false
		}
		if q.state.CompareAndSwapAcqRel(state, state|zeroSizedClosed) {
			return true
		}
	}
}

// IsClosed reports whether Close has been called.
func (q *zeroQueue[T]) IsClosed() bool {
	return q.state.LoadAcquire()&zeroSizedClosed != 0
}
