// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cq

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// closeMark is a reserved high bit of the tail cursor. Position counters
// realistically never approach it, so it can be packed into the same
// word without a separate atomic.
const closeMark = uint64(1) << 63

// boundedQueue is a CAS-based multi-producer multi-consumer ring buffer.
//
// Head and tail are each a single atomic word holding a monotonically
// increasing position counter (the counter's own magnitude doubles as
// the lap: position/capacity). Every slot carries a stamp that is ready
// for a producer when it equals twice the slot's position, and ready for
// a consumer when it equals twice the position plus one; any other value
// means another producer or consumer is still mid-operation on that
// slot, or the queue is full/empty. Stamps count in steps of two so the
// two states stay distinct even at capacity 1, where position+1 is also
// the next lap's position. This is the same scheme as
// [code.hybscloud.com/lfq]'s CAS-based ("Seq") MPMC variant, generalized
// to arbitrary (non-power-of-two) capacities and a closeable tail.
type boundedQueue[T any] struct {
	_        pad
	tail     atomix.Uint64
	_        pad
	head     atomix.Uint64
	_        pad
	buffer   []boundedSlot[T]
	capacity uint64
}

type boundedSlot[T any] struct {
	stamp atomix.Uint64
	value T
}

func newBoundedQueue[T any](capacity uint64) *boundedQueue[T] {
	q := &boundedQueue[T]{
		buffer:   make([]boundedSlot[T], capacity),
		capacity: capacity,
	}
	for i := uint64(0); i < capacity; i++ {
		q.buffer[i].stamp.StoreRelaxed(2 * i)
	}
	return q
}

// Push adds value to the queue. Returns ErrFull if the queue is at
// capacity, or ErrClosed if the queue has been closed.
func (q *boundedQueue[T]) Push(value T) error {
	sw := spin.Wait{}
	for {
		tail := q.tail.LoadAcquire()
		if tail&closeMark != 0 {
			return newClosedPushError(value)
		}

		idx := tail % q.capacity
		slot := &q.buffer[idx]
		stamp := slot.stamp.LoadAcquire()
		diff := int64(stamp) - int64(2*tail)

		switch {
		case diff == 0:
			if q.tail.CompareAndSwapAcqRel(tail, tail+1) {
				slot.value = value
				slot.stamp.StoreRelease(2*tail + 1)
				return nil
			}
		case diff < 0:
			if q.tail.LoadAcquire() == tail {
				return newFullPushError(value)
			}
		}
		sw.Once()
	}
}

// Pop removes and returns the oldest value in the queue. Returns
// ErrEmpty if the queue is momentarily empty, or ErrClosed if the queue
// has been closed and fully drained.
func (q *boundedQueue[T]) Pop() (T, error) {
	var zero T
	sw := spin.Wait{}
	for {
		head := q.head.LoadAcquire()
		idx := head % q.capacity
		slot := &q.buffer[idx]
		stamp := slot.stamp.LoadAcquire()
		diff := int64(stamp) - int64(2*head+1)

		switch {
		case diff == 0:
			if q.head.CompareAndSwapAcqRel(head, head+1) {
				val := slot.value
				slot.value = zero
				slot.stamp.StoreRelease(2 * (head + q.capacity))
				return val, nil
			}
		case diff < 0:
			tail := q.tail.LoadAcquire()
			if tail&closeMark != 0 && tail&^closeMark == head {
				return zero, errClosedPop
			}
			if q.head.LoadAcquire() == head {
				return zero, errEmptyPop
			}
		}
		sw.Once()
	}
}

// Len reports the number of items currently in the queue.
func (q *boundedQueue[T]) Len() int {
	for {
		head := q.head.LoadAcquire()
		tail := q.tail.LoadAcquire() &^ closeMark
		head2 := q.head.LoadAcquire()
		if head == head2 {
			if tail < head {
				return 0
			}
			return int(tail - head)
		}
	}
}

// Capacity returns the queue's fixed capacity.
func (q *boundedQueue[T]) Capacity() int {
	return int(q.capacity)
}

// Close transitions the queue to closed. Returns true iff this call
// performed the transition.
func (q *boundedQueue[T]) Close() bool {
	for {
		tail := q.tail.LoadAcquire()
		if tail&closeMark != 0 {
			return false
		}
		if q.tail.CompareAndSwapAcqRel(tail, tail|closeMark) {
			return true
		}
	}
}

// IsClosed reports whether Close has been called.
func (q *boundedQueue[T]) IsClosed() bool {
	return q.tail.LoadAcquire()&closeMark != 0
}
