// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cq

import (
	"sync/atomic"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// unboundedBlockLen is the number of slots per block. A small power of
// two, matching the block size the spec names as typical; growing it
// trades allocation frequency for per-block memory footprint.
const unboundedBlockLen = 32

// unboundedQueue is a multi-producer multi-consumer FIFO backed by a
// singly linked list of fixed-size blocks, allocated on demand as
// producers overrun the current tail block.
//
// Head and tail are each a single monotonically increasing position
// counter (never reset, never wrapped in practice), exactly as in
// [boundedQueue], with the same reserved close-mark bit on tail. Unlike
// the ring, a position is not mapped to a slot by modulo alone: it is
// first split into a block index (position/unboundedBlockLen) and an
// in-block slot index (position%unboundedBlockLen), and the block
// holding that slot is located (allocating it if necessary) by walking
// a shared, best-effort starting hint forward along each block's next
// pointer.
//
// unboundedQueue keeps one genuine pointer-typed atomic — the per-block
// next link and the shared walk hint — on sync/atomic's generic
// atomic.Pointer rather than atomix: atomix's demonstrated surface
// (Uint64/Int32/Int64/Bool/Uintptr/Uint128) has no pointer-atomic type,
// and packing a live Go pointer into a Uintptr atomic would hide it
// from the garbage collector. Every other atomic here (cursors,
// per-slot state words, the per-block drain counter) stays on atomix.
type unboundedQueue[T any] struct {
	_    pad
	tail atomix.Uint64
	_    pad
	head atomix.Uint64
	_    pad
	hint atomic.Pointer[unboundedBlock[T]]
}

type unboundedBlock[T any] struct {
	index     uint64
	slots     [unboundedBlockLen]unboundedSlot[T]
	next      atomic.Pointer[unboundedBlock[T]]
	remaining atomix.Int32
}

type unboundedSlot[T any] struct {
	state atomix.Int32
	value T
}

const (
	unboundedWrite = int32(1)
	unboundedRead  = int32(2)
)

func newUnboundedBlock[T any](index uint64) *unboundedBlock[T] {
	b := &unboundedBlock[T]{index: index}
	b.remaining.StoreRelaxed(unboundedBlockLen)
	return b
}

func newUnboundedQueue[T any]() *unboundedQueue[T] {
	q := &unboundedQueue[T]{}
	q.hint.Store(newUnboundedBlock[T](0))
	return q
}

// blockFor locates the block holding pos, allocating blocks along the
// way as needed. Positions are claimed on tail/head via
// compare-and-swap, so claiming pos implies every smaller position has
// already been claimed too — the block for pos therefore either already
// exists or is this call's responsibility to create, and at most one
// caller ever wins the installing compare-and-swap for a given block.
func (q *unboundedQueue[T]) blockFor(pos uint64) *unboundedBlock[T] {
	blockIdx := pos / unboundedBlockLen
	b := q.hint.Load()
	for b.index < blockIdx {
		next := b.next.Load()
		if next == nil {
			candidate := newUnboundedBlock[T](b.index + 1)
			if b.next.CompareAndSwap(nil, candidate) {
				next = candidate
			} else {
				next = b.next.Load()
			}
		}
		b = next
	}
	return b
}

// Push adds value to the queue. Returns ErrClosed if the queue has been
// closed; never returns ErrFull.
func (q *unboundedQueue[T]) Push(value T) error {
	sw := spin.Wait{}
	for {
		tail := q.tail.LoadAcquire()
		if tail&closeMark != 0 {
			return newClosedPushError(value)
		}
		if q.tail.CompareAndSwapAcqRel(tail, tail+1) {
			b := q.blockFor(tail)
			slot := &b.slots[tail%unboundedBlockLen]
			slot.value = value
			slot.state.StoreRelease(unboundedWrite)
			return nil
		}
		sw.Once()
	}
}

// Pop removes and returns the oldest value in the queue. Returns
// ErrEmpty if the queue is momentarily empty, or ErrClosed if the queue
// has been closed and fully drained.
func (q *unboundedQueue[T]) Pop() (T, error) {
	var zero T
	sw := spin.Wait{}
	for {
		head := q.head.LoadAcquire()
		tail := q.tail.LoadAcquire()
		tailPos := tail &^ closeMark
		if head >= tailPos {
			if tail&closeMark != 0 {
				return zero, errClosedPop
			}
			return zero, errEmptyPop
		}
		if q.head.CompareAndSwapAcqRel(head, head+1) {
			b := q.blockFor(head)
			slot := &b.slots[head%unboundedBlockLen]
			for slot.state.LoadAcquire()&unboundedWrite == 0 {
				sw.Once()
			}
			val := slot.value
			slot.value = zero
			slot.state.StoreRelease(unboundedWrite | unboundedRead)

			if b.remaining.AddAcqRel(-1) == 0 {
				q.retire()
			}
			return val, nil
		}
		sw.Once()
	}
}

// retire advances the shared walk hint past fully drained blocks so
// later callers of blockFor no longer need to step through them. A
// block itself is not explicitly freed: once no cursor or in-flight
// walk references it, the garbage collector reclaims it, which is the
// Go-idiomatic analogue of the two-party DESTROY turnstile the spec
// describes for languages without a collector. A single consumer-side
// countdown is sufficient here because a producer can never still be
// writing into a block whose every slot has already been read.
//
// Blocks can drain out of index order: a consumer may claim the last
// position of one block and read it only after every slot of the
// following block has been read. retire therefore never jumps from the
// block that just drained; it starts from the current hint and steps it,
// by compare-and-swap, from a fully drained block to that block's next,
// one block at a time. Every block behind the hint is thus fully
// drained, and a block that drained early is passed over once the
// blocks before it have drained too.
//
// next is allocated lazily by whichever Push or Pop first claims a
// position inside it, so it may still be nil when the last slot of the
// hint's block is read (nothing has claimed a position past it yet). In
// that case there is nothing to retire onto: blockFor will install next
// itself the moment some caller needs it, and the hint stays where it is
// until then. retire never spins waiting for next to appear.
func (q *unboundedQueue[T]) retire() {
	for {
		cur := q.hint.Load()
		next := cur.next.Load()
		if cur.remaining.LoadAcquire() != 0 || next == nil {
			return
		}
		q.hint.CompareAndSwap(cur, next)
	}
}

// Len reports the number of items currently in the queue.
func (q *unboundedQueue[T]) Len() int {
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

// Close transitions the queue to closed. Returns true iff this call
// performed the transition.
func (q *unboundedQueue[T]) Close() bool {
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
func (q *unboundedQueue[T]) IsClosed() bool {
	return q.tail.LoadAcquire()&closeMark != 0
}
