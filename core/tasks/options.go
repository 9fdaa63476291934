package tasks

import (
	"io"
	"log/slog"
	"time"
)

type options struct {
	name           string
	waitFirst      time.Duration
	maxRepetitions int
	raiseErrors    bool
	onComplete     func()
	onError        func(error)
	logger         *slog.Logger
}

func defaultOptions() options {
	return options{
		name:   "task",
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Option configures a Repeater.
type Option func(*options)

// WithName names the task in logs.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WaitFirst delays the first run by d. Zero or less runs immediately.
func WaitFirst(d time.Duration) Option {
	return func(o *options) { o.waitFirst = d }
}

// MaxRepetitions stops the loop after n runs. Zero or less means no limit.
func MaxRepetitions(n int) Option {
	return func(o *options) { o.maxRepetitions = n }
}

// RaiseErrors stops the loop at the first failure and returns it from Run.
// Without it failures are logged and the loop continues.
func RaiseErrors() Option {
	return func(o *options) { o.raiseErrors = true }
}

// OnComplete is called once when the loop ends without a raised error.
func OnComplete(fn func()) Option {
	return func(o *options) { o.onComplete = fn }
}

// OnError is called with every failure, before RaiseErrors is considered.
func OnError(fn func(error)) Option {
	return func(o *options) { o.onError = fn }
}

// WithLogger sets the logger. Failures log at error level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
