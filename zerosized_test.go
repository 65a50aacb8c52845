// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cq_test

import (
	"sync"
	"testing"

	"code.hybscloud.com/cq"
)

func TestZeroSizedSelectedAutomatically(t *testing.T) {
	bounded := cq.Bounded[struct{}](3)
	if n, ok := bounded.Capacity(); !ok || n != 3 {
		t.Fatalf("Capacity: got (%d, %v), want (3, true)", n, ok)
	}

	unbounded := cq.Unbounded[struct{}]()
	if _, ok := unbounded.Capacity(); ok {
		t.Fatalf("Capacity: got ok=true, want false")
	}
}

func TestZeroSizedBoundedBasic(t *testing.T) {
	q := cq.Bounded[struct{}](2)

	if err := q.Push(struct{}{}); err != nil {
		t.Fatalf("Push(0): %v", err)
	}
	if err := q.Push(struct{}{}); err != nil {
		t.Fatalf("Push(1): %v", err)
	}
	if err := q.Push(struct{}{}); !cq.IsFull(err) {
		t.Fatalf("Push on full: got %v, want ErrFull", err)
	}

	if q.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", q.Len())
	}

	for i := range 2 {
		if _, err := q.Pop(); err != nil {
			t.Fatalf("Pop(%d): %v", i, err)
		}
	}
	if _, err := q.Pop(); !cq.IsEmptyErr(err) {
		t.Fatalf("Pop on empty: got %v, want ErrEmpty", err)
	}
}

func TestZeroSizedUnboundedClose(t *testing.T) {
	q := cq.Unbounded[struct{}]()
	_ = q.Push(struct{}{})

	if !q.Close() {
		t.Fatalf("Close: got false, want true")
	}
	if err := q.Push(struct{}{}); !cq.IsClosedErr(err) {
		t.Fatalf("Push after Close: got %v, want ErrClosed", err)
	}
	if _, err := q.Pop(); err != nil {
		t.Fatalf("Pop after Close (drain): %v", err)
	}
	if _, err := q.Pop(); !cq.IsClosedErr(err) {
		t.Fatalf("Pop after drain: got %v, want ErrClosed", err)
	}
}

// TestZeroSizedConcurrentCount checks that the counter-only backend
// tracks exactly as many pushes as pops under concurrent access, since
// there are no per-item values to cross-check against.
func TestZeroSizedConcurrentCount(t *testing.T) {
	if cq.RaceEnabled {
		t.Skip("counter CAS ordering is not observable to the race detector")
	}

	const producers, perProducer = 8, 5000
	q := cq.Unbounded[struct{}]()

	var wg sync.WaitGroup
	wg.Add(producers)
	for range producers {
		go func() {
			defer wg.Done()
			for range perProducer {
				_ = q.Push(struct{}{})
			}
		}()
	}
	wg.Wait()

	if q.Len() != producers*perProducer {
		t.Fatalf("Len: got %d, want %d", q.Len(), producers*perProducer)
	}

	popped := 0
	for {
		if _, err := q.Pop(); err != nil {
			break
		}
		popped++
	}
	if popped != producers*perProducer {
		t.Fatalf("popped: got %d, want %d", popped, producers*perProducer)
	}
}
