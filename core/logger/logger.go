package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format selects the slog handler.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ContextExtractor pulls an attribute out of a context.
// It reports false when the context carries nothing of interest.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

type options struct {
	level       slog.Level
	format      Format
	output      io.Writer
	attrs       []slog.Attr
	handlerOpts *slog.HandlerOptions
	extractors  []ContextExtractor
}

// Option configures New.
type Option func(*options)

// WithLevel sets the minimum level.
func WithLevel(level slog.Level) Option {
	return func(o *options) { o.level = level }
}

// WithJSONFormatter switches output to JSON.
func WithJSONFormatter() Option {
	return func(o *options) { o.format = FormatJSON }
}

// WithTextFormatter switches output to logfmt-style text.
func WithTextFormatter() Option {
	return func(o *options) { o.format = FormatText }
}

// WithFormat sets the output format by name. Unknown names fall back to text.
func WithFormat(f Format) Option {
	return func(o *options) {
		if f == FormatJSON {
			o.format = FormatJSON
			return
		}
		o.format = FormatText
	}
}

// WithOutput sets the destination. Nil is ignored.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// WithAttr adds attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(o *options) { o.attrs = append(o.attrs, attrs...) }
}

// WithHandlerOptions replaces the handler options. Its Level wins over WithLevel.
func WithHandlerOptions(ho *slog.HandlerOptions) Option {
	return func(o *options) { o.handlerOpts = ho }
}

// WithContextExtractors adds extractors run on every record.
func WithContextExtractors(ex ...ContextExtractor) Option {
	return func(o *options) { o.extractors = append(o.extractors, ex...) }
}

// WithContextValue logs ctx.Value(key) under name when present.
func WithContextValue(name string, key any) Option {
	return WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
		v := ctx.Value(key)
		if v == nil {
			return slog.Attr{}, false
		}
		return slog.Any(name, v), true
	})
}

// WithDevelopment is text output at debug level tagged with the service name.
func WithDevelopment(service string) Option {
	return func(o *options) {
		o.level = slog.LevelDebug
		o.format = FormatText
		o.attrs = append(o.attrs, slog.String("service", service), slog.String("env", "development"))
	}
}

// WithStaging is JSON output at info level tagged with the service name.
func WithStaging(service string) Option {
	return func(o *options) {
		o.level = slog.LevelInfo
		o.format = FormatJSON
		o.attrs = append(o.attrs, slog.String("service", service), slog.String("env", "staging"))
	}
}

// WithProduction is JSON output at info level tagged with the service name.
func WithProduction(service string) Option {
	return func(o *options) {
		o.level = slog.LevelInfo
		o.format = FormatJSON
		o.attrs = append(o.attrs, slog.String("service", service), slog.String("env", "production"))
	}
}

// New builds a logger. The default is text at info level on stdout.
func New(opts ...Option) *slog.Logger {
	o := &options{level: slog.LevelInfo, format: FormatText, output: os.Stdout}
	for _, opt := range opts {
		opt(o)
	}

	ho := o.handlerOpts
	if ho == nil {
		ho = &slog.HandlerOptions{Level: o.level}
	}

	var h slog.Handler
	if o.format == FormatJSON {
		h = slog.NewJSONHandler(o.output, ho)
	} else {
		h = slog.NewTextHandler(o.output, ho)
	}
	if len(o.attrs) > 0 {
		h = h.WithAttrs(o.attrs)
	}
	if len(o.extractors) > 0 {
		h = &contextHandler{Handler: h, extractors: o.extractors}
	}
	return slog.New(h)
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SetAsDefault installs l as the slog default.
func SetAsDefault(l *slog.Logger) {
	slog.SetDefault(l)
}

// ParseLevel maps debug, info, warn and error to a level. Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// contextHandler decorates records with attributes taken from the context.
type contextHandler struct {
	slog.Handler
	extractors []ContextExtractor
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		for _, ex := range h.extractors {
			if a, ok := ex(ctx); ok {
				r.AddAttrs(a)
			}
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs), extractors: h.extractors}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name), extractors: h.extractors}
}
