// Package worker runs queued protocol tasks on a fixed set of goroutines.
// The queue is unbounded FIFO; shutdown drains it before the workers exit.
package worker

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/lcx/extdb/log"
)

// Task is one unit of queued work.
type Task func()

// Pool drains a FIFO task queue with a fixed number of workers. Enqueue order
// is preserved into the pool; completion order across tasks is not.
type Pool struct {
	mu       sync.Mutex
	cond     *sync.Cond
	queue    []Task
	stopping bool
	wg       sync.WaitGroup
	size     int
}

// New starts a pool of max(1, threads) workers. A non-positive thread count
// falls back to the machine's logical CPU count.
func New(threads int) *Pool {
	if threads < 1 {
		threads = runtime.NumCPU()
	}
	if threads < 1 {
		threads = 1
	}

	p := &Pool{size: threads}
	p.cond = sync.NewCond(&p.mu)
	for i := 0; i < threads; i++ {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

// Size returns the worker count.
func (p *Pool) Size() int {
	return p.size
}

// QueueLen reports the number of tasks waiting for a worker.
func (p *Pool) QueueLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Submit appends a task to the queue. It reports false once Stop has begun;
// the task is dropped in that case.
func (p *Pool) Submit(t Task) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopping {
		return false
	}
	p.queue = append(p.queue, t)
	p.cond.Signal()
	return true
}

// Stop drains the queue and joins the workers. No task runs after Stop
// returns. Stopping twice is safe.
func (p *Pool) Stop() {
	p.mu.Lock()
	p.stopping = true
	p.cond.Broadcast()
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Pool) run() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.stopping {
			p.cond.Wait()
		}
		// Workers leave only once the queue is empty and the stop flag is
		// set, so queued work survives shutdown.
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}
		t := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()

		p.invoke(t)
	}
}

// invoke runs one task, containing panics so a bad handler never takes a
// worker down with it.
func (p *Pool) invoke(t Task) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			buf = buf[:runtime.Stack(buf, false)]
			log.Error().
				Str("panic", fmt.Sprint(r)).
				Str("stack", string(buf)).
				Msg("worker task panicked")
		}
	}()
	t()
}
