package bot

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// serializer runs submitted functions one at a time per key, in submission
// order. Updates for one chat must never interleave: two callbacks for the
// same prompt would otherwise mutate it concurrently.
type serializer struct {
	mu    sync.Mutex
	lanes map[int64][]func()
}

func newSerializer() *serializer {
	return &serializer{lanes: map[int64][]func(){}}
}

// Do schedules fn after everything previously submitted for key. Keys run
// independently of each other.
func (s *serializer) Do(key int64, fn func()) {
	s.mu.Lock()
	_, active := s.lanes[key]
	s.lanes[key] = append(s.lanes[key], fn)
	s.mu.Unlock()

	if !active {
		go s.drain(key)
	}
}

// drain works the key's queue until it is empty. A lane entry exists exactly
// while its drainer is alive, so at most one drainer runs per key.
func (s *serializer) drain(key int64) {
	for {
		s.mu.Lock()
		queue := s.lanes[key]
		if len(queue) == 0 {
			delete(s.lanes, key)
			s.mu.Unlock()
			return
		}
		fn := queue[0]
		s.lanes[key] = queue[1:]
		s.mu.Unlock()

		runRecovered(fn)
	}
}

// runRecovered keeps one panicking handler from wedging its chat's lane.
func runRecovered(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("panic in chat worker: %v", r)
		}
	}()
	fn()
}
