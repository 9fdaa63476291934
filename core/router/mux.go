package router

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"strings"

	"github.com/dmitrymomot/restful/core/handler"
	"github.com/dmitrymomot/restful/core/logger"
	"github.com/dmitrymomot/restful/core/response"
)

// mux is the private implementation of Router interface.
type mux[C handler.Context] struct {
	tree         *node[C]
	table        *Table[C]
	envelope     handler.Envelope
	middlewares  []handler.Middleware[C]
	errorHandler handler.ErrorHandler[C]
	newContext   func(http.ResponseWriter, *http.Request, map[string]string) C
	logger       *slog.Logger
	parent       *mux[C] // for inline groups
	inline       bool
	handler      handler.HandlerFunc[C]
}

// newMux creates a new router instance.
func newMux[C handler.Context](opts ...Option[C]) *mux[C] {
	m := &mux[C]{
		tree:         &node[C]{},
		envelope:     response.JSONEnvelope,
		errorHandler: defaultErrorHandler[C],
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)), // No-op logger by default
	}

	for _, opt := range opts {
		opt(m)
	}
	m.table = NewTable[C](m.logger)

	// If no context factory provided, require it for non-default contexts
	if m.newContext == nil {
		m.newContext = func(w http.ResponseWriter, r *http.Request, params map[string]string) C {
			// Only support default *Context type without factory
			// For custom contexts, user must provide a factory
			var zero C
			if _, ok := any(zero).(*Context); ok {
				return any(NewContext(w, r, params)).(C)
			}
			panic(ErrNoContextFactory)
		}
	}

	return m
}

// ServeHTTP implements http.Handler interface.
func (m *mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ww := newResponseWriter(w)
	r, slot := withRouteSlot(r)

	// Use RawPath if available to preserve URL encoding
	path := r.URL.Path
	if r.URL.RawPath != "" {
		path = r.URL.RawPath
	}
	if path == "" {
		path = "/"
	}

	method, ok := methodMap[r.Method]
	if !ok {
		// Create context with empty params for error handling
		ctx := m.newContext(ww, r, nil)
		m.errorHandler(ctx, ErrMethodNotAllowed)
		return
	}

	// Ordered table entries take precedence over the tree
	entry, tableParams, allowed := m.table.Match(r.Method, path)
	if entry != nil {
		slot.route = entry.Route()
		slot.matched = true
		m.serve(ww, r, m.newContext(ww, r, tableParams), entry.Handler(m.envelope))
		return
	}

	eps, fn, params := m.tree.findRoute(method, path)

	// Build params map
	var paramsMap map[string]string
	if len(params.Keys) > 0 {
		paramsMap = make(map[string]string, len(params.Keys))
		for i, key := range params.Keys {
			if i < len(params.Values) {
				paramsMap[key] = params.Values[i]
			}
		}
	}

	// Create context with params
	ctx := m.newContext(ww, r, paramsMap)

	if fn == nil {
		for mt := range eps {
			if mt == mALL {
				continue
			}
			if eps[mt] != nil && eps[mt].handler != nil && !slices.Contains(allowed, reverseMethodMap[mt]) {
				allowed = append(allowed, reverseMethodMap[mt])
			}
		}

		if len(allowed) > 0 {
			// Set Allow header per RFC 7231 before responding with 405
			if !ww.Written() {
				ww.Header().Set("Allow", strings.Join(allowed, ", "))
			}
			m.errorHandler(ctx, ErrMethodNotAllowed)
		} else {
			m.errorHandler(ctx, ErrNotFound)
		}
		return
	}

	if ep := eps[method]; ep != nil {
		slot.route = Route{Method: r.Method, Pattern: ep.pattern}
		slot.matched = true
	}
	m.serve(ww, r, ctx, fn)
}

// serve runs fn behind the router middlewares and renders its response.
func (m *mux[C]) serve(ww *responseWriter, r *http.Request, ctx C, fn handler.HandlerFunc[C]) {
	// Recover from panics to prevent server crashes
	defer func() {
		if p := recover(); p != nil {
			// Wrap panic in error with stack trace
			panicErr := &panicError{
				value: p,
				stack: debug.Stack(),
			}

			// Check if response has already been written
			if ww.Written() {
				// Can't send error response, just log the panic
				m.logger.Error("panic after response written",
					logger.Component("router"),
					slog.Any("value", panicErr.value),
					slog.String("stack", string(panicErr.stack)),
					logger.Path(r.URL.Path),
					logger.Method(r.Method),
					logger.StatusCode(ww.Status()),
				)
			} else {
				// Response not written, can use error handler
				m.errorHandler(ctx, panicErr)
			}
		}
	}()

	if len(m.middlewares) > 0 {
		fn = chain(m.middlewares, fn)
	}

	response := fn(ctx)
	if response == nil {
		m.errorHandler(ctx, ErrNilResponse)
		return
	}

	// Handlers may have replaced the request through ctx.SetValue
	if err := response(ww, ctx.Request()); err != nil {
		m.errorHandler(ctx, err)
		return
	}
}

// Get registers a handler for GET requests.
func (m *mux[C]) Get(pattern string, handler handler.HandlerFunc[C]) {
	m.handle(mGET, pattern, handler)
}

// Post registers a handler for POST requests.
func (m *mux[C]) Post(pattern string, handler handler.HandlerFunc[C]) {
	m.handle(mPOST, pattern, handler)
}

// Put registers a handler for PUT requests.
func (m *mux[C]) Put(pattern string, handler handler.HandlerFunc[C]) {
	m.handle(mPUT, pattern, handler)
}

// Delete registers a handler for DELETE requests.
func (m *mux[C]) Delete(pattern string, handler handler.HandlerFunc[C]) {
	m.handle(mDELETE, pattern, handler)
}

// Patch registers a handler for PATCH requests.
func (m *mux[C]) Patch(pattern string, handler handler.HandlerFunc[C]) {
	m.handle(mPATCH, pattern, handler)
}

// Head registers a handler for HEAD requests.
func (m *mux[C]) Head(pattern string, handler handler.HandlerFunc[C]) {
	m.handle(mHEAD, pattern, handler)
}

// Options registers a handler for OPTIONS requests.
func (m *mux[C]) Options(pattern string, handler handler.HandlerFunc[C]) {
	m.handle(mOPTIONS, pattern, handler)
}

// Connect registers a handler for CONNECT requests.
func (m *mux[C]) Connect(pattern string, handler handler.HandlerFunc[C]) {
	m.handle(mCONNECT, pattern, handler)
}

// Trace registers a handler for TRACE requests.
func (m *mux[C]) Trace(pattern string, handler handler.HandlerFunc[C]) {
	m.handle(mTRACE, pattern, handler)
}

// Handle registers a handler for all HTTP methods.
func (m *mux[C]) Handle(pattern string, handler handler.HandlerFunc[C]) {
	m.handle(mALL, pattern, handler)
}

// Method registers a handler for one or more specific HTTP methods.
func (m *mux[C]) Method(pattern string, handler handler.HandlerFunc[C], methods ...string) {
	if len(methods) == 0 {
		panic(fmt.Errorf("%w: no methods provided", ErrInvalidMethod))
	}

	seen := make(map[methodTyp]bool)
	for _, method := range methods {
		mt, ok := methodMap[strings.ToUpper(method)]
		if !ok {
			panic(fmt.Errorf("%w: %s", ErrInvalidMethod, method))
		}
		if seen[mt] {
			continue
		}
		seen[mt] = true
		m.handle(mt, pattern, handler)
	}
}

// Use appends middleware to the router.
func (m *mux[C]) Use(middlewares ...handler.Middleware[C]) {
	if m.handler != nil {
		panic("restful: all middlewares must be defined before routes on a mux")
	}
	m.middlewares = append(m.middlewares, middlewares...)
}

// With creates a new inline router with additional middleware.
func (m *mux[C]) With(middlewares ...handler.Middleware[C]) Router[C] {
	// Only store the additional middlewares, not parent ones
	// They will be chained at registration time
	im := &mux[C]{
		inline:       true,
		parent:       m,
		tree:         m.tree,
		middlewares:  middlewares,
		errorHandler: m.errorHandler,
		newContext:   m.newContext,
		logger:       m.logger,
		envelope:     m.envelope,
		table:        m.table,
	}

	return im
}

// Group creates a new inline router for grouping routes.
func (m *mux[C]) Group(fn func(r Router[C])) Router[C] {
	im := m.With()
	if fn != nil {
		fn(im)
	}
	return im
}

// Routes returns all registered routes: table entries in match order, then tree routes.
func (m *mux[C]) Routes() []Route {
	return append(m.table.Routes(), m.tree.routes()...)
}

// Supports reports whether the router can serve the given HTTP method.
func (m *mux[C]) Supports(method string) bool {
	return m.table.Supports(method)
}

// Len returns the number of ordered table entries.
func (m *mux[C]) Len() int {
	return m.table.Len()
}

// Insert adds e to the ordered table at position pos.
// Entries inserted through With or Group carry the inline middlewares.
func (m *mux[C]) Insert(pos int, e Entry[C]) error {
	if !m.inline && m.handler == nil {
		m.handler = func(C) handler.Response { return nil }
	}
	if m.inline {
		e.middlewares = m.inlineMiddlewares()
	}
	if err := m.table.Insert(pos, e); err != nil {
		return err
	}
	m.logger.Debug("route inserted",
		logger.Component("router"),
		logger.Method(e.Method),
		slog.String("pattern", e.Pattern),
		slog.Int("position", pos),
		slog.String("name", e.Meta.Name),
	)
	return nil
}

// inlineMiddlewares collects middlewares from the chain of inline routers, outermost first.
func (m *mux[C]) inlineMiddlewares() []handler.Middleware[C] {
	var all []handler.Middleware[C]
	for curr := m; curr != nil && curr.inline; curr = curr.parent {
		if len(curr.middlewares) > 0 {
			all = append(slices.Clone(curr.middlewares), all...)
		}
	}
	return all
}

// handle registers a handler in the routing tree.
func (m *mux[C]) handle(method methodTyp, pattern string, fn handler.HandlerFunc[C]) {
	if len(pattern) == 0 || pattern[0] != '/' {
		panic(fmt.Errorf("%w: '%s'", ErrInvalidPattern, pattern))
	}

	// Mark that routes have been added (for middleware validation)
	if !m.inline && m.handler == nil {
		m.handler = fn // Just use as a flag that routes exist
	}

	// For inline routers, collect all middlewares from parent chain
	h := fn
	if m.inline {
		if mws := m.inlineMiddlewares(); len(mws) > 0 {
			h = chain(mws, fn)
		}
	}

	m.tree.insertRoute(method, pattern, h)
}
