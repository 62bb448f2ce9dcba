package commands

import (
	"errors"
	"sync"
)

// ErrAlreadyRunning is returned by RunClient when a child process is
// already running; exactly one instance runs at a time (spec.md §1).
var ErrAlreadyRunning = errors.New("a client is already running")

// runner guards the single in-flight child process with a mutex, matching
// the teacher's Manager.mu guarded-state pattern generalized to an
// optional termination sender instead of a progress struct.
type runner struct {
	mu        sync.Mutex
	terminate chan struct{}
}

// start registers a new run, failing with ErrAlreadyRunning if one is
// already in flight. release must be called exactly once when the run
// ends, regardless of outcome.
func (r *runner) start() (terminate <-chan struct{}, release func(), err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.terminate != nil {
		return nil, nil, ErrAlreadyRunning
	}
	ch := make(chan struct{})
	r.terminate = ch

	return ch, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.terminate == ch {
			r.terminate = nil
		}
	}, nil
}

// terminate signals the in-flight run, if any, to stop. No-op otherwise.
func (r *runner) terminate() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.terminate == nil {
		return nil
	}
	close(r.terminate)
	r.terminate = nil
	return nil
}
