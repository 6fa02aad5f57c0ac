package service

import "sync"

// reactor runs submitted events one at a time on a single goroutine, in submission order. The queue is
// unbounded so submitting never blocks, which lets socket reader goroutines and callbacks submit freely.
type reactor struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	stopped bool
	done    chan struct{}
}

func newReactor() *reactor {
	r := &reactor{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go r.run()
	return r
}

// submit queues fn. After stop, fn runs on its own goroutine so no callback is ever lost.
func (r *reactor) submit(fn func()) {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		go fn()
		return
	}
	r.queue = append(r.queue, fn)
	r.mu.Unlock()
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// stop lets the reactor drain what is already queued and exit. Idempotent; does not wait.
func (r *reactor) stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	r.mu.Unlock()
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *reactor) run() {
	defer close(r.done)
	for {
		r.mu.Lock()
		batch := r.queue
		r.queue = nil
		stopped := r.stopped
		r.mu.Unlock()

		for _, fn := range batch {
			fn()
		}
		if len(batch) > 0 {
			continue
		}
		if stopped {
			return
		}
		<-r.wake
	}
}
