// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package cq provides a concurrent FIFO queue for multiple producers and
// multiple consumers.
//
// # Quick Start
//
//	q := cq.Bounded[Event](1024)
//	q := cq.Unbounded[*Request]()
//
// # Basic Usage
//
//	q := cq.Bounded[int](1024)
//
//	// Push (non-blocking)
//	if err := q.Push(42); err != nil {
//	    if cq.IsFull(err) {
//	        // queue is at capacity, handle backpressure
//	    }
//	}
//
//	// Pop (non-blocking)
//	v, err := q.Pop()
//	if cq.IsEmptyErr(err) {
//	    // queue is momentarily empty, try again later
//	}
//
// # Backend Selection
//
// Bounded and Unbounded each choose their backend once, at construction,
// and never revisit the choice:
//
//	cq.Bounded[T](n)   → fixed-capacity ring buffer
//	cq.Unbounded[T]()  → growable block list, no fixed capacity
//
// If T is a zero-sized type (struct{}, or any type with no fields that
// hold data), both constructors select a counter-only backend instead:
// there is nothing to store, so presence of an item is represented
// purely by a count.
//
//	done := cq.Unbounded[struct{}]()
//	done.Push(struct{}{})
//	_, err := done.Pop()
//
// # Common Patterns
//
// Worker pool (MPMC):
//
//	q := cq.Bounded[Job](4096)
//
//	for range numWorkers {
//	    go func() {
//	        backoff := iox.Backoff{}
//	        for {
//	            job, err := q.Pop()
//	            if err != nil {
//	                if cq.IsClosedErr(err) {
//	                    return
//	                }
//	                backoff.Wait()
//	                continue
//	            }
//	            backoff.Reset()
//	            job.Run()
//	        }
//	    }()
//	}
//
//	func Submit(j Job) error {
//	    return q.Push(j)
//	}
//
// Graceful shutdown:
//
//	// Stop accepting new work.
//	q.Close()
//
//	// Consumers keep draining whatever was already enqueued; once the
//	// queue is empty, Pop starts returning ErrClosed instead of ErrEmpty.
//
// # Error Handling
//
// Push returns a *[PushError][T] and Pop returns a *[PopError] when an
// operation cannot proceed. Both wrap either [ErrFull] (Push only),
// [ErrEmpty] (Pop only), or [ErrClosed], and [ErrFull]/[ErrEmpty] in turn
// wrap [code.hybscloud.com/iox]'s ErrWouldBlock for ecosystem-consistent
// retry classification:
//
//	cq.IsWouldBlock(err)  // true if transient: caller should retry
//	cq.IsFull(err)        // true if a bounded queue was at capacity
//	cq.IsEmptyErr(err)    // true if the queue was momentarily empty
//	cq.IsClosedErr(err)   // true if the queue has been closed
//
// A failed Push never loses the value: *PushError[T].Value holds it
// unchanged, so the caller may retry or redirect it.
//
// # Thread Safety
//
// Push and Pop may be called concurrently from any number of goroutines,
// in any mix of producer and consumer roles. There is no priority
// ordering and no fairness guarantee beyond FIFO order within what a
// single goroutine pushed.
//
// # Race Detection
//
// Go's race detector tracks explicit synchronization primitives (mutex,
// channel, WaitGroup) but cannot observe the happens-before relationships
// established purely through atomic acquire-release orderings on
// separate variables. This package's bounded and unbounded backends rely
// on exactly that: a bounded slot's stamp, or an unbounded slot's state
// word, synchronizes access to a value field the race detector does not
// know is protected. Tests that would trip false positives for this
// reason skip themselves at run time when [RaceEnabled] is true.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit memory
// ordering, and [code.hybscloud.com/spin] for CPU pause instructions
// during compare-and-swap retry loops.
package cq
