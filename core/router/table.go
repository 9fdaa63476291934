package router

import (
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"slices"
	"strings"

	"github.com/dmitrymomot/restful/core/handler"
	"github.com/dmitrymomot/restful/core/logger"
	"github.com/dmitrymomot/restful/core/response"
)

// Meta is the response metadata attached to a table entry.
// Zero values mean "use the router defaults".
type Meta struct {
	// Name identifies the route in logs and metrics, e.g. "ItemView.List".
	Name string
	// Schema is the declared response type, used for introspection only.
	Schema reflect.Type
	// Envelope encodes the endpoint result. Nil selects the router's default envelope.
	Envelope handler.Envelope
	// Status is passed to the envelope. Zero lets the envelope decide.
	Status int
}

// Entry is a single route of the ordered table.
type Entry[C handler.Context] struct {
	Method   string
	Pattern  string
	Endpoint handler.Endpoint[C]
	Meta     Meta

	// middlewares are inline middlewares captured when the entry was inserted through With or Group.
	middlewares []handler.Middleware[C]
}

// Route describes the entry for introspection.
func (e Entry[C]) Route() Route {
	rt := Route{
		Method:  e.Method,
		Pattern: e.Pattern,
		Name:    e.Meta.Name,
		Schema:  e.Meta.Schema,
	}
	if e.Meta.Envelope != nil {
		rt.Envelope = e.Meta.Envelope.Name()
	}
	return rt
}

// Handler adapts the endpoint to a HandlerFunc. The result is encoded with the
// entry's envelope, or with fallback when the entry has none. Endpoint errors
// are returned from the Response untouched so the error handler sees them as-is.
func (e Entry[C]) Handler(fallback handler.Envelope) handler.HandlerFunc[C] {
	env := e.Meta.Envelope
	if env == nil {
		env = fallback
	}
	status := e.Meta.Status
	endpoint := e.Endpoint

	fn := func(ctx C) handler.Response {
		v, err := endpoint(ctx)
		if err != nil {
			return response.Error(err)
		}
		return env.Encode(status, v)
	}
	if len(e.middlewares) > 0 {
		return chain(e.middlewares, fn)
	}
	return fn
}

type tableEntry[C handler.Context] struct {
	Entry[C]
	m *matcher
}

// Table is an ordered route table. Entries are matched linearly in table order
// and the first entry whose method and pattern match wins, regardless of how
// specific later entries are.
//
// Table is not safe for concurrent modification. Build it before serving.
type Table[C handler.Context] struct {
	entries []tableEntry[C]
	logger  *slog.Logger
}

// NewTable creates an empty table. A nil logger discards output.
func NewTable[C handler.Context](log *slog.Logger) *Table[C] {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Table[C]{logger: log}
}

// Supports reports whether the table can route the given HTTP method.
func (t *Table[C]) Supports(method string) bool {
	_, ok := methodMap[strings.ToUpper(method)]
	return ok
}

// Len returns the number of entries.
func (t *Table[C]) Len() int {
	return len(t.entries)
}

// Insert places e at position pos, shifting later entries back.
// An existing entry with the same method and pattern is replaced: it is removed
// and the new entry takes position pos.
func (t *Table[C]) Insert(pos int, e Entry[C]) error {
	e.Method = strings.ToUpper(e.Method)
	if !t.Supports(e.Method) {
		return fmt.Errorf("%w: %s", ErrInvalidMethod, e.Method)
	}
	if e.Endpoint == nil {
		return fmt.Errorf("%w: %s %s", ErrNilEndpoint, e.Method, e.Pattern)
	}
	if pos < 0 || pos > len(t.entries) {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidPosition, pos, len(t.entries))
	}

	m, err := compilePattern(e.Pattern)
	if err != nil {
		return err
	}

	if i := t.index(e.Method, e.Pattern); i >= 0 {
		t.logger.Warn("route replaced",
			logger.Component("router"),
			slog.String("method", e.Method),
			slog.String("pattern", e.Pattern),
			slog.String("previous", t.entries[i].Meta.Name),
			slog.String("name", e.Meta.Name),
		)
		t.entries = slices.Delete(t.entries, i, i+1)
		if i < pos {
			pos--
		}
	}

	t.entries = slices.Insert(t.entries, pos, tableEntry[C]{Entry: e, m: m})
	return nil
}

// Match finds the first entry matching method and path.
// When no entry matches but the path matches entries of other methods,
// their methods are returned in allowed.
func (t *Table[C]) Match(method, path string) (e *Entry[C], params map[string]string, allowed []string) {
	for i := range t.entries {
		te := &t.entries[i]
		p, ok := te.m.match(path)
		if !ok {
			continue
		}
		if te.Method == method {
			return &te.Entry, p, nil
		}
		if !slices.Contains(allowed, te.Method) {
			allowed = append(allowed, te.Method)
		}
	}
	return nil, nil, allowed
}

// Entries returns a copy of the table in match order.
func (t *Table[C]) Entries() []Entry[C] {
	out := make([]Entry[C], len(t.entries))
	for i := range t.entries {
		out[i] = t.entries[i].Entry
	}
	return out
}

// Routes lists the table entries in match order.
func (t *Table[C]) Routes() []Route {
	rts := make([]Route, 0, len(t.entries))
	for i := range t.entries {
		rts = append(rts, t.entries[i].Route())
	}
	return rts
}

func (t *Table[C]) index(method, pattern string) int {
	for i := range t.entries {
		if t.entries[i].Method == method && t.entries[i].Pattern == pattern {
			return i
		}
	}
	return -1
}
