// Package service enforces the business rules the schema cannot: input
// validation, status-transition legality and deletion guards. Every
// operation exists in a blocking form and an asynchronous form resolving on
// the service's bounded worker pool.
package service

import "sync"

const (
	// DefaultWorkers is the pool size each service starts unless told otherwise.
	DefaultWorkers = 5
	// DefaultQueueSize bounds pending asynchronous submissions per service.
	DefaultQueueSize = 64
)

// Result carries the outcome of an asynchronous operation. Exactly one
// Result is delivered per Async call.
type Result[T any] struct {
	Value T
	Err   error
}

// pool is a fixed set of workers draining a buffered job queue, FIFO.
type pool struct {
	jobs chan func()
	wg   sync.WaitGroup
}

func newPool(workers, queueSize int) *pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	p := &pool{jobs: make(chan func(), queueSize)}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				job()
			}
		}()
	}
	return p
}

// submit blocks once the queue is full; dispatched work always runs.
func (p *pool) submit(job func()) {
	p.jobs <- job
}

// close stops accepting work and waits for in-flight jobs to finish.
func (p *pool) close() {
	close(p.jobs)
	p.wg.Wait()
}

// runAsync executes fn on the pool and delivers its outcome on a buffered
// channel, so the worker never blocks on an unread result.
func runAsync[T any](p *pool, fn func() (T, error)) <-chan Result[T] {
	out := make(chan Result[T], 1)
	p.submit(func() {
		v, err := fn()
		out <- Result[T]{Value: v, Err: err}
	})
	return out
}
