package reactive

import (
	"context"
	"fmt"
	"log/slog"
)

// Scheduler is the execution context subscriber callbacks run on.
type Scheduler interface {
	// Schedule arranges for fn to run. Returns false if the scheduler no
	// longer accepts work; fn is then dropped.
	Schedule(fn func()) bool
}

type immediate struct{}

func (immediate) Schedule(fn func()) bool {
	fn()
	return true
}

// Immediate runs callbacks inline on the calling goroutine.
var Immediate Scheduler = immediate{}

// Loop is a single-consumer task loop standing in for a UI/main context.
//
// Thread-safety model:
//   - Schedule(): safe from any goroutine
//   - Run() or Drain(): must be called from exactly one goroutine
//
// Tasks run strictly one at a time in FIFO order, so everything delivered
// through a Loop observes the single-threaded cooperative model.
type Loop struct {
	queue *taskQueue
}

// NewLoop creates a loop with an empty queue.
func NewLoop() *Loop {
	return &Loop{queue: newTaskQueue()}
}

// Schedule enqueues fn. Returns false once the loop has been stopped.
func (l *Loop) Schedule(fn func()) bool {
	return l.queue.Enqueue(fn)
}

// Run drains tasks until ctx is cancelled or Stop is called.
//
// A panicking task is logged and the loop continues; one faulty subscriber
// must not stop delivery to the others.
func (l *Loop) Run(ctx context.Context) error {
	slog.Debug("loop starting")

	for {
		if fn, ok := l.queue.TryDequeue(); ok {
			runTask(fn)
			continue
		}

		select {
		case <-ctx.Done():
			slog.Debug("loop stopping: context cancelled")
			l.queue.Close()
			return ctx.Err()

		case <-l.queue.Wait():
			// The signal channel is closed on Stop, which makes this case
			// fire immediately; exit once nothing is left.
			if l.queue.Len() == 0 && l.stopped() {
				slog.Debug("loop stopping: queue closed")
				return nil
			}
		}
	}
}

// Drain runs every pending task on the calling goroutine, including tasks
// scheduled by the tasks it runs, and returns how many ran.
func (l *Loop) Drain() int {
	n := 0
	for {
		fn, ok := l.queue.TryDequeue()
		if !ok {
			return n
		}
		runTask(fn)
		n++
	}
}

// Stop closes the queue. Run returns once the remaining tasks have run.
func (l *Loop) Stop() {
	l.queue.Close()
}

// Len returns the number of pending tasks.
func (l *Loop) Len() int {
	return l.queue.Len()
}

func (l *Loop) stopped() bool {
	l.queue.mu.Lock()
	defer l.queue.mu.Unlock()
	return l.queue.closed
}

func runTask(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("scheduled task panicked", "error", fmt.Sprint(r))
		}
	}()
	fn()
}
