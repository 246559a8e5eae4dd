// Package eventloop runs every session mutation on one goroutine. Blocking
// work is started with Go and its continuation is posted back to the loop.
package eventloop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Loop is a FIFO of tasks executed one at a time by Run or RunUntilIdle
type Loop struct {
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}
	// queued tasks + armed timers + background jobs that have not posted back yet
	pending int
}

func New() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post queues task to run on the loop
func (l *Loop) Post(task func()) {
	l.mu.Lock()
	l.queue = append(l.queue, task)
	l.pending++
	l.mu.Unlock()
	l.signal()
}

// After queues task once d has elapsed. The returned func cancels it; a
// cancelled task never runs, even when its timer has already fired.
func (l *Loop) After(d time.Duration, task func()) (cancel func()) {
	l.mu.Lock()
	l.pending++
	l.mu.Unlock()

	var cancelled atomic.Bool
	timer := time.AfterFunc(d, func() {
		l.Post(func() {
			if !cancelled.Load() {
				task()
			}
		})
		l.release()
	})

	return func() {
		cancelled.Store(true)
		if timer.Stop() {
			l.release()
		}
	}
}

// Go runs work off the loop and posts the continuation it returns back onto it
func (l *Loop) Go(work func() func()) {
	l.mu.Lock()
	l.pending++
	l.mu.Unlock()

	go func() {
		continuation := work()
		if continuation != nil {
			l.Post(continuation)
		}
		l.release()
	}()
}

// Run executes tasks until ctx is done
func (l *Loop) Run(ctx context.Context) error {
	return l.run(ctx, false)
}

// RunUntilIdle executes tasks until nothing is queued, armed or in flight
func (l *Loop) RunUntilIdle(ctx context.Context) error {
	return l.run(ctx, true)
}

func (l *Loop) run(ctx context.Context, untilIdle bool) error {
	for {
		l.mu.Lock()
		if len(l.queue) > 0 {
			task := l.queue[0]
			l.queue[0] = nil
			l.queue = l.queue[1:]
			l.mu.Unlock()

			task()
			l.release()
			continue
		}
		idle := l.pending == 0
		l.mu.Unlock()

		if untilIdle && idle {
			return nil
		}

		select {
		case <-l.wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (l *Loop) release() {
	l.mu.Lock()
	l.pending--
	l.mu.Unlock()
	l.signal()
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}
