package chihost

import (
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/restful/core/handler"
	"github.com/dmitrymomot/restful/core/logger"
	"github.com/dmitrymomot/restful/core/response"
	"github.com/dmitrymomot/restful/core/router"
)

// Host serves an ordered route table in front of a chi router. Table entries
// are matched first, in insertion order; everything else falls through to
// chi. Routes matched by either side are recorded with router.SetRoute.
type Host struct {
	mux          chi.Router
	table        *router.Table[*router.Context]
	envelope     handler.Envelope
	errorHandler handler.ErrorHandler[*router.Context]
	middlewares  []handler.Middleware[*router.Context]
	logger       *slog.Logger
}

// Option configures a Host.
type Option func(*Host)

// WithRouter uses r instead of a new chi.Mux. Chi middlewares must be added
// to r before New is called, because New registers one of its own.
func WithRouter(r chi.Router) Option {
	return func(h *Host) {
		if r != nil {
			h.mux = r
		}
	}
}

// WithEnvelope sets the envelope for entries that do not carry one.
func WithEnvelope(env handler.Envelope) Option {
	return func(h *Host) {
		if env != nil {
			h.envelope = env
		}
	}
}

// WithErrorHandler handles errors of table entries.
func WithErrorHandler(eh handler.ErrorHandler[*router.Context]) Option {
	return func(h *Host) {
		if eh != nil {
			h.errorHandler = eh
		}
	}
}

// WithMiddleware wraps every table entry.
func WithMiddleware(mw ...handler.Middleware[*router.Context]) Option {
	return func(h *Host) { h.middlewares = append(h.middlewares, mw...) }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

// New creates a Host.
func New(opts ...Option) *Host {
	h := &Host{
		envelope:     response.JSONEnvelope,
		errorHandler: response.ErrorHandler[*router.Context],
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.mux == nil {
		h.mux = chi.NewRouter()
	}
	h.mux.Use(recordChiRoute)
	h.table = router.NewTable[*router.Context](h.logger)
	return h
}

// Chi returns the underlying chi router for plain chi routes.
func (h *Host) Chi() chi.Router { return h.mux }

// Supports reports whether method can be registered.
func (h *Host) Supports(method string) bool { return h.table.Supports(method) }

// Len returns the number of table entries.
func (h *Host) Len() int { return h.table.Len() }

// Insert places e at pos in the table.
func (h *Host) Insert(pos int, e router.Entry[*router.Context]) error {
	return h.table.Insert(pos, e)
}

// Routes lists table entries followed by chi routes.
func (h *Host) Routes() []router.Route {
	routes := h.table.Routes()
	_ = chi.Walk(h.mux, func(method, pattern string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, router.Route{Method: method, Pattern: pattern})
		return nil
	})
	return routes
}

// Handle registers fn on chi for method and pattern. fn runs behind the
// host's middlewares and error handler, with chi URL params as route params.
func (h *Host) Handle(method, pattern string, fn handler.HandlerFunc[*router.Context]) {
	h.mux.MethodFunc(method, pattern, func(w http.ResponseWriter, r *http.Request) {
		var params map[string]string
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			params = make(map[string]string, len(rctx.URLParams.Keys))
			for i, key := range rctx.URLParams.Keys {
				params[key] = rctx.URLParams.Values[i]
			}
		}
		h.serve(w, router.NewContext(w, r, params), fn)
	})
}

func (h *Host) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r, _ = router.TrackRoute(r)

	path := r.URL.Path
	if r.URL.RawPath != "" {
		path = r.URL.RawPath
	}

	entry, params, allowed := h.table.Match(r.Method, path)
	if entry != nil {
		router.SetRoute(r.Context(), entry.Route())
		h.serve(w, router.NewContext(w, r, params), entry.Handler(h.envelope))
		return
	}

	if len(allowed) > 0 && !h.chiMatches(r.Method, path) {
		slices.Sort(allowed)
		w.Header().Set("Allow", strings.Join(allowed, ", "))
		h.errorHandler(router.NewContext(w, r, nil), response.ErrMethodNotAllowed)
		return
	}

	h.mux.ServeHTTP(w, r)
}

func (h *Host) chiMatches(method, path string) bool {
	return h.mux.Match(chi.NewRouteContext(), method, path)
}

func (h *Host) serve(w http.ResponseWriter, ctx *router.Context, fn handler.HandlerFunc[*router.Context]) {
	defer func() {
		if p := recover(); p != nil {
			h.logger.Error("panic in table entry",
				logger.Component("chihost"),
				slog.Any("value", p),
				slog.String("stack", string(debug.Stack())),
				logger.Path(ctx.Request().URL.Path),
			)
			h.errorHandler(ctx, response.ErrInternalServerError)
		}
	}()

	for i := len(h.middlewares) - 1; i >= 0; i-- {
		fn = h.middlewares[i](fn)
	}

	resp := fn(ctx)
	if resp == nil {
		h.errorHandler(ctx, router.ErrNilResponse)
		return
	}
	if err := resp(w, ctx.Request()); err != nil {
		h.errorHandler(ctx, err)
	}
}

// recordChiRoute records the chi pattern once chi has routed the request.
func recordChiRoute(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				router.SetRoute(r.Context(), router.Route{Method: r.Method, Pattern: pattern})
			}
		}
	})
}
