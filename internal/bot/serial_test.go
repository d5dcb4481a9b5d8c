package bot

import (
	"sync"
	"testing"
	"time"
)

func TestSerializer_FIFOPerKey(t *testing.T) {
	s := newSerializer()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup

	const n = 200
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		s.do(7, func() {
			defer wg.Done()
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
	}
	wg.Wait()

	for i, got := range order {
		if got != i {
			t.Fatalf("position %d ran task %d, want strict arrival order", i, got)
		}
	}
}

func TestSerializer_KeysRunIndependently(t *testing.T) {
	s := newSerializer()

	block := make(chan struct{})
	s.do(1, func() { <-block })

	done := make(chan struct{})
	s.do(2, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task for key 2 stuck behind a blocked key 1")
	}
	close(block)
}

func TestSerializer_TailCleanup(t *testing.T) {
	s := newSerializer()

	var wg sync.WaitGroup
	wg.Add(3)
	for i := 0; i < 3; i++ {
		s.do(9, func() { wg.Done() })
	}
	wg.Wait()

	// The map entry is removed once the chain drains; give the deferred
	// cleanup a moment to run.
	deadline := time.Now().Add(time.Second)
	for {
		s.mu.Lock()
		n := len(s.tails)
		s.mu.Unlock()
		if n == 0 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("%d stale serializer entries left behind", n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
