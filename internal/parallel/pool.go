// Package parallel provides the bounded work-stealing pool that backs the
// measure phase of the layout engine.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// idleBackoff is how long a joining caller sleeps when neither its join
// condition is met nor any queued work is available to help with.
const idleBackoff = 20 * time.Microsecond

// Pool is a pool of goroutines for parallel subtree measurement.
//
// The pool distributes tasks across per-worker queues. Workers primarily
// pull from their own queue and steal from others when idle. Unlike a flat
// pool, Pool supports nested fork/join: a task that blocks waiting for
// subtasks helps execute queued work via Join, so a bounded pool never
// deadlocks on recursive submission.
//
// Thread safety: Pool is safe for concurrent use.
type Pool struct {
	// workers is the number of worker goroutines.
	workers int

	// queues holds per-worker task queues.
	queues []chan func()

	// done signals workers to stop.
	done chan struct{}

	// wg waits for all workers to finish.
	wg sync.WaitGroup

	// running indicates whether the pool is accepting work.
	running atomic.Bool

	// next selects the submission queue round-robin.
	next atomic.Uint32
}

// New creates a pool with the specified number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
// The pool starts immediately and workers begin waiting for tasks.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// Short queues keep tasks visible to stealing; overflow runs inline
	// at the submission site instead of blocking.
	queueSize := workers * 4
	if queueSize < 8 {
		queueSize = 8
	}

	p := &Pool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan func(), queueSize)
	}

	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

// worker is the main loop for each worker goroutine.
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	myQueue := p.queues[id]
	for {
		select {
		case <-p.done:
			p.drain(myQueue)
			return

		case task := <-myQueue:
			if task != nil {
				task()
			}

		default:
			if stolen := p.steal(id); stolen != nil {
				stolen()
				continue
			}
			// Nothing anywhere, block on own queue.
			select {
			case <-p.done:
				p.drain(myQueue)
				return
			case task := <-myQueue:
				if task != nil {
					task()
				}
			}
		}
	}
}

// drain executes all remaining tasks in a queue.
func (p *Pool) drain(queue chan func()) {
	for {
		select {
		case task := <-queue:
			if task != nil {
				task()
			}
		default:
			return
		}
	}
}

// steal attempts to take a task from another worker's queue.
// Returns nil if no task is available.
func (p *Pool) steal(myID int) func() {
	for i := range p.workers {
		if i == myID {
			continue
		}
		select {
		case task := <-p.queues[i]:
			return task
		default:
		}
	}
	return nil
}

// TrySubmit queues a task without blocking. It returns false when every
// queue is full or the pool is closed; the caller then runs the task
// inline.
func (p *Pool) TrySubmit(task func()) bool {
	if task == nil || !p.running.Load() {
		return false
	}

	start := int(p.next.Add(1)) % p.workers
	for i := range p.workers {
		idx := (start + i) % p.workers
		select {
		case p.queues[idx] <- task:
			return true
		default:
		}
	}
	return false
}

// tryRun steals and executes one queued task from any worker.
// Returns false if no task was available.
func (p *Pool) tryRun() bool {
	for i := range p.workers {
		select {
		case task := <-p.queues[i]:
			if task != nil {
				task()
			}
			return true
		default:
		}
	}
	return false
}

// Fork runs the given tasks, distributing them across the pool, and
// returns once every task has completed. The calling goroutine helps
// execute queued work while it waits, so Fork may be called from inside
// a pool task without risk of deadlock.
//
// Tasks have no ordering guarantee among themselves.
func (p *Pool) Fork(tasks []func()) {
	switch len(tasks) {
	case 0:
		return
	case 1:
		tasks[0]()
		return
	}

	var pending atomic.Int32
	pending.Store(int32(len(tasks)))
	joined := make(chan struct{})

	for _, task := range tasks {
		fn := task
		wrapped := func() {
			fn()
			if pending.Add(-1) == 0 {
				close(joined)
			}
		}
		if !p.TrySubmit(wrapped) {
			wrapped()
		}
	}

	p.join(joined)
}

// join blocks until ch closes, executing queued tasks while waiting.
func (p *Pool) join(ch <-chan struct{}) {
	for {
		select {
		case <-ch:
			return
		default:
		}
		if p.tryRun() {
			continue
		}
		select {
		case <-ch:
			return
		case <-time.After(idleBackoff):
		}
	}
}

// Close gracefully shuts down the pool. It stops accepting new tasks,
// lets queued work finish, and stops all workers.
// Close is safe to call multiple times.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int {
	return p.workers
}

// Running reports whether the pool is still accepting work.
func (p *Pool) Running() bool {
	return p.running.Load()
}
