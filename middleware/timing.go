package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/restful/core/handler"
	"github.com/dmitrymomot/restful/core/logger"
	"github.com/dmitrymomot/restful/core/router"
)

// ErrNoTimer is returned by RecordTiming when the request was not served
// through the timing middleware.
var ErrNoTimer = errors.New("no timer present on request")

// TimingConfig configures the timing middleware.
type TimingConfig struct {
	// Skip disables timing for matching requests.
	Skip func(ctx handler.Context) bool

	// Logger receives timing lines at info level (default: slog.Default()).
	Logger *slog.Logger

	// Record replaces Logger as the sink for timing lines.
	Record func(msg string)

	// Prefix is prepended to route names as "prefix.name".
	Prefix string

	// Exclude silences every timer whose name contains it.
	Exclude string

	// Histogram, when set, observes wall time in seconds with the
	// labels "route" and "method". See NewTimingHistogram.
	Histogram *prometheus.HistogramVec
}

type timerKey struct{}

// timer measures one request. The name is resolved at emit time because
// some hosts only know the matched route after routing.
type timer struct {
	cfg      *TimingConfig
	name     func() string
	start    time.Time
	startCPU time.Duration
}

func newTimer(cfg *TimingConfig, name func() string) *timer {
	return &timer{cfg: cfg, name: name, start: time.Now(), startCPU: cpuTime()}
}

// emit writes one line with the wall and CPU time since the timer started.
func (t *timer) emit(note string) time.Duration {
	wall := time.Since(t.start)
	name := t.name()
	if t.cfg.Exclude != "" && strings.Contains(name, t.cfg.Exclude) {
		return wall
	}
	cpu := cpuTime() - t.startCPU

	msg := fmt.Sprintf("TIMING: Wall: %6.1fms | CPU: %6.1fms | %s", ms(wall), ms(cpu), name)
	if note != "" {
		msg += " (" + note + ")"
	}
	if t.cfg.Record != nil {
		t.cfg.Record(msg)
		return wall
	}
	t.cfg.Logger.Info(msg,
		logger.Component("timing"),
		logger.Duration(wall),
		slog.Duration("cpu", cpu),
	)
	return wall
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// RecordTiming emits an intermediate split for the current request with an
// optional note. It fails with ErrNoTimer outside the timing middleware.
func RecordTiming(ctx context.Context, note string) error {
	t, ok := ctx.Value(timerKey{}).(*timer)
	if !ok || t == nil {
		return ErrNoTimer
	}
	t.emit(note)
	return nil
}

// Timing creates a timing middleware that logs through slog.Default().
func Timing[C handler.Context]() handler.Middleware[C] {
	return TimingWithConfig[C](TimingConfig{})
}

// TimingWithConfig creates a middleware that reports wall and CPU time of
// every request under the matched route name, or "<Path: /p>" when no route
// matched.
func TimingWithConfig[C handler.Context](cfg TimingConfig) handler.Middleware[C] {
	cfg = timingDefaults(cfg)

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			req := ctx.Request()
			t := newTimer(&cfg, func() string { return metricName(&cfg, req) })
			ctx.SetValue(timerKey{}, t)

			resp := next(ctx)

			return func(w http.ResponseWriter, r *http.Request) error {
				var err error
				if resp != nil {
					err = resp(w, r)
				}
				observe(&cfg, req, t.emit(""))
				return err
			}
		}
	}
}

// TimingHandler is the net/http form of the timing middleware, for hosts
// that are not a router.Router. It tracks the route the host records with
// router.SetRoute while serving.
func TimingHandler(cfg TimingConfig) func(http.Handler) http.Handler {
	cfg = timingDefaults(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r, routed := router.TrackRoute(r)
			path := r.URL.Path
			t := newTimer(&cfg, func() string {
				rt, ok := routed()
				return nameFor(&cfg, rt, ok, path)
			})
			r = r.WithContext(context.WithValue(r.Context(), timerKey{}, t))

			next.ServeHTTP(w, r)

			observe(&cfg, r, t.emit(""))
		})
	}
}

// NewTimingHistogram creates and registers the histogram used by TimingConfig.
// A nil registerer uses prometheus.DefaultRegisterer.
func NewTimingHistogram(reg prometheus.Registerer, namespace string) (*prometheus.HistogramVec, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Wall time of HTTP requests by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
	if err := reg.Register(h); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return h, nil
}

func timingDefaults(cfg TimingConfig) TimingConfig {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return cfg
}

func metricName(cfg *TimingConfig, r *http.Request) string {
	rt, ok := router.RouteFrom(r.Context())
	return nameFor(cfg, rt, ok, r.URL.Path)
}

func nameFor(cfg *TimingConfig, rt router.Route, ok bool, path string) string {
	if !ok {
		return "<Path: " + path + ">"
	}
	name := rt.Name
	if name == "" {
		name = rt.Method + " " + rt.Pattern
	}
	if cfg.Prefix != "" {
		name = cfg.Prefix + "." + name
	}
	return name
}

func observe(cfg *TimingConfig, r *http.Request, wall time.Duration) {
	if cfg.Histogram == nil {
		return
	}
	label := "unmatched"
	if rt, ok := router.RouteFrom(r.Context()); ok {
		label = rt.Name
		if label == "" {
			label = rt.Pattern
		}
	}
	cfg.Histogram.WithLabelValues(label, r.Method).Observe(wall.Seconds())
}
