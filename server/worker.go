package server

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shawwn/ylang/runtime"
)

// ErrWorkerStopped is returned by Do after Stop.
var ErrWorkerStopped = errors.New("server: worker stopped")

type request struct {
	fn   func(*runtime.Runtime) (any, error)
	done chan result
}

type result struct {
	value any
	err   error
}

// Worker serializes all runtime access through a single goroutine.
// Compound operations such as reading then updating a shared list are not
// safe across goroutines, so every handler goes through the worker.
type Worker struct {
	rt       *runtime.Runtime
	requests chan request
	quit     chan struct{}
	stopOnce sync.Once
}

// NewWorker creates a Worker and starts the processing goroutine.
func NewWorker(rt *runtime.Runtime) *Worker {
	w := &Worker{
		rt:       rt,
		requests: make(chan request, 64),
		quit:     make(chan struct{}),
	}
	go w.loop()
	return w
}

func (w *Worker) loop() {
	for {
		select {
		case req := <-w.requests:
			req.done <- w.execute(req.fn)
		case <-w.quit:
			return
		}
	}
}

// execute runs fn on the runtime, recovering from panics.
func (w *Worker) execute(fn func(*runtime.Runtime) (any, error)) (res result) {
	defer func() {
		if r := recover(); r != nil {
			res.err = fmt.Errorf("server: panic: %v", r)
		}
	}()
	res.value, res.err = fn(w.rt)
	return res
}

// Do submits fn for execution on the worker goroutine and blocks until it
// completes.
func (w *Worker) Do(fn func(*runtime.Runtime) (any, error)) (any, error) {
	select {
	case <-w.quit:
		return nil, ErrWorkerStopped
	default:
	}

	req := request{fn: fn, done: make(chan result, 1)}
	select {
	case w.requests <- req:
	case <-w.quit:
		return nil, ErrWorkerStopped
	}
	select {
	case res := <-req.done:
		return res.value, res.err
	case <-w.quit:
		return nil, ErrWorkerStopped
	}
}

// Stop shuts down the worker goroutine. It is safe to call more than once.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.quit) })
}

// Runtime returns the underlying runtime.
func (w *Worker) Runtime() *runtime.Runtime {
	return w.rt
}
