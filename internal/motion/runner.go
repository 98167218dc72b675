package motion

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrRunnerStopped is returned when work is posted to a stopped runner.
var ErrRunnerStopped = errors.New("runner stopped")

// Runner drives a Loop in real time from a single goroutine. Every access to
// the loop, and to anything scheduled on it, must go through Post or Do.
type Runner struct {
	loop     *Loop
	interval time.Duration
	logger   *zap.Logger

	tasks chan func()
	quit  chan struct{}
	done  chan struct{}

	startOnce sync.Once
	stopOnce  sync.Once
}

// NewRunner returns a runner ticking loop at fps frames per second.
func NewRunner(loop *Loop, fps int, logger *zap.Logger) *Runner {
	if fps <= 0 {
		fps = 60
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		loop:     loop,
		interval: time.Second / time.Duration(fps),
		logger:   logger,
		tasks:    make(chan func(), 64),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the frame goroutine. Calling it again has no effect.
func (r *Runner) Start() {
	r.startOnce.Do(func() {
		go r.run()
	})
}

func (r *Runner) run() {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Debug("frame runner started", zap.Duration("interval", r.interval))
	last := time.Now()
	for {
		select {
		case <-r.quit:
			r.logger.Debug("frame runner stopped", zap.Uint64("frames", r.loop.Frame()))
			return
		case fn := <-r.tasks:
			fn()
		case now := <-ticker.C:
			r.loop.Advance(now.Sub(last).Seconds())
			last = now
		}
	}
}

// Post queues fn to run on the loop goroutine between frames. It reports
// false if the runner has stopped.
func (r *Runner) Post(fn func()) bool {
	select {
	case <-r.quit:
		return false
	default:
	}
	select {
	case r.tasks <- fn:
		return true
	case <-r.quit:
		return false
	}
}

// Do runs fn on the loop goroutine and waits for it to return.
func (r *Runner) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !r.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrRunnerStopped
	}
	select {
	case <-finished:
		return nil
	case <-r.done:
		return ErrRunnerStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop ends the frame goroutine and waits for it to exit. Queued tasks that
// have not run are dropped.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() {
		close(r.quit)
	})
	r.startOnce.Do(func() {
		close(r.done)
	})
	<-r.done
}
