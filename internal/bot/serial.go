package bot

import "sync"

// serializer runs functions FIFO per key while letting different keys run
// concurrently. Updates from one user must be handled in arrival order or a
// fast "message, /next" sequence could relay into the wrong pairing.
type serializer struct {
	mu    sync.Mutex
	tails map[int64]chan struct{}
}

func newSerializer() *serializer {
	return &serializer{tails: make(map[int64]chan struct{})}
}

// do schedules fn after all previously scheduled functions for the same key.
// It returns immediately; fn runs on its own goroutine.
func (s *serializer) do(key int64, fn func()) {
	done := make(chan struct{})

	s.mu.Lock()
	prev := s.tails[key]
	s.tails[key] = done
	s.mu.Unlock()

	go func() {
		if prev != nil {
			<-prev
		}
		defer func() {
			close(done)
			s.mu.Lock()
			if s.tails[key] == done {
				delete(s.tails, key)
			}
			s.mu.Unlock()
		}()
		fn()
	}()
}
