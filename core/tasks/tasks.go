package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/restful/core/logger"
)

var (
	ErrInvalidInterval = errors.New("interval must be positive")
	ErrNilFunc         = errors.New("task function is nil")
	ErrAlreadyStarted  = errors.New("task already started")
	ErrPanic           = errors.New("task panicked")
)

// Func is the work repeated by a Repeater.
type Func func(ctx context.Context) error

// Repeater runs a function every interval until its context ends, it reaches
// the maximum number of repetitions, or it fails with RaiseErrors set.
// Each run is followed by a pause of one interval, including the last one.
type Repeater struct {
	interval time.Duration
	fn       Func
	opts     options

	started     atomic.Bool
	repetitions atomic.Int64
	failures    atomic.Int64

	done chan struct{}
	mu   sync.Mutex
	err  error
}

// Stats reports progress of a Repeater.
type Stats struct {
	Repetitions int64
	Failures    int64
	Running     bool
}

// RepeatEvery prepares fn to run every interval. Nothing runs until Run or Start.
func RepeatEvery(interval time.Duration, fn Func, opts ...Option) *Repeater {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Repeater{
		interval: interval,
		fn:       fn,
		opts:     o,
		done:     make(chan struct{}),
	}
}

// Run blocks until the loop ends. It returns nil after the last repetition,
// ctx.Err() on cancellation, or the first error of fn when RaiseErrors is set.
// OnComplete runs whenever the loop ends without a raised error.
func (r *Repeater) Run(ctx context.Context) error {
	if r.interval <= 0 {
		return ErrInvalidInterval
	}
	if r.fn == nil {
		return ErrNilFunc
	}
	if !r.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	err := r.loop(ctx)

	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
	close(r.done)
	return err
}

// Start runs the loop in a goroutine. Use Done and Err to observe it.
func (r *Repeater) Start(ctx context.Context) error {
	if r.interval <= 0 {
		return ErrInvalidInterval
	}
	if r.fn == nil {
		return ErrNilFunc
	}
	if r.started.Load() {
		return ErrAlreadyStarted
	}
	go func() { _ = r.Run(ctx) }()
	return nil
}

// Done is closed when the loop has ended.
func (r *Repeater) Done() <-chan struct{} { return r.done }

// Err returns the result of Run once Done is closed.
func (r *Repeater) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Stats returns a snapshot of the counters.
func (r *Repeater) Stats() Stats {
	running := r.started.Load()
	select {
	case <-r.done:
		running = false
	default:
	}
	return Stats{
		Repetitions: r.repetitions.Load(),
		Failures:    r.failures.Load(),
		Running:     running,
	}
}

func (r *Repeater) loop(ctx context.Context) error {
	log := r.opts.logger.With(logger.Component("tasks"), logger.Task(r.opts.name))
	log.DebugContext(ctx, "task started", slog.Duration("interval", r.interval))

	if r.opts.waitFirst > 0 {
		if err := sleep(ctx, r.opts.waitFirst); err != nil {
			r.complete(ctx, log)
			return err
		}
	}

	for r.opts.maxRepetitions <= 0 || r.repetitions.Load() < int64(r.opts.maxRepetitions) {
		err := r.call(ctx)
		r.repetitions.Add(1)
		if err != nil {
			r.failures.Add(1)
			log.ErrorContext(ctx, "task failed", logger.Error(err), logger.Count("repetition", int(r.repetitions.Load())))
			if r.opts.onError != nil {
				r.opts.onError(err)
			}
			if r.opts.raiseErrors {
				return err
			}
		}

		// Every run, the last included, is followed by a full interval.
		if err := sleep(ctx, r.interval); err != nil {
			r.complete(ctx, log)
			return err
		}
	}

	r.complete(ctx, log)
	return nil
}

func (r *Repeater) complete(ctx context.Context, log *slog.Logger) {
	log.DebugContext(ctx, "task finished", logger.Count("repetitions", int(r.repetitions.Load())))
	if r.opts.onComplete != nil {
		r.opts.onComplete()
	}
}

// call runs fn once, turning a panic into an error.
func (r *Repeater) call(ctx context.Context) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v\n%s", ErrPanic, p, debug.Stack())
		}
	}()
	return r.fn(ctx)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
