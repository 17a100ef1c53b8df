// Package jobs runs fire-and-forget work (welcome mail, geocoding) off the
// request path. Jobs are attempted at most once; there is no retry and no
// completion reporting beyond the log.
package jobs

import (
	"context"
	"log"
	"sync"
)

type Job func(ctx context.Context)

type Dispatcher struct {
	queue   chan Job
	workers int
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu      sync.Mutex
	started bool
}

func NewDispatcher(workers, buffer int) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())

	return &Dispatcher{
		queue:   make(chan Job, buffer),
		workers: workers,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the worker goroutines. Calling Start twice is a no-op.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started {
		return
	}
	d.started = true

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.run()
	}

	log.Printf("Job dispatcher started with %d workers", d.workers)
}

// Enqueue hands a job to the dispatcher without blocking. When the queue is
// full or the dispatcher is stopped the job is dropped, which is the intended
// at-most-once behavior for side effects the core never awaits.
func (d *Dispatcher) Enqueue(job Job) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started {
		return false
	}

	select {
	case d.queue <- job:
		return true
	default:
		log.Println("Job queue full, dropping job")
		return false
	}
}

// Stop cancels in-flight contexts and waits for the workers to drain.
func (d *Dispatcher) Stop() {
	d.cancel()

	d.mu.Lock()
	if d.started {
		close(d.queue)
		d.started = false
	}
	d.mu.Unlock()

	d.wg.Wait()
	log.Println("Job dispatcher stopped")
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for job := range d.queue {
		job(d.ctx)
	}
}

// Global dispatcher instance, mirroring the process lifecycle.
var globalDispatcher *Dispatcher

func Initialize() {
	globalDispatcher = NewDispatcher(4, 64)
	globalDispatcher.Start()
}

func Shutdown() {
	if globalDispatcher != nil {
		globalDispatcher.Stop()
	}
}

func Enqueue(job Job) bool {
	if globalDispatcher == nil {
		return false
	}

	return globalDispatcher.Enqueue(job)
}
