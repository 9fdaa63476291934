package view

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/dmitrymomot/restful/core/handler"
)

// ResponseShape is the response metadata of a method: the declared schema,
// the envelope that encodes results and the success status.
// Zero fields fall back to the method's Out type, the router envelope and
// the envelope's default status.
type ResponseShape struct {
	Schema   reflect.Type
	Envelope handler.Envelope
	Status   int
}

// RouteSpec is one route of a method, with its shape applied.
type RouteSpec struct {
	Method   string
	Pattern  string
	Name     string
	Schema   reflect.Type
	Envelope handler.Envelope
	Status   int

	// Seq is the class-wide declaration position of the route.
	Seq int
}

// MethodBinding lists the routes of one method in declaration order.
type MethodBinding struct {
	Name   string
	Routes []RouteSpec
}

type routeDecl struct {
	method  string
	pattern string
}

type methodConfig struct {
	routes []routeDecl
	shape  Opt[ResponseShape]
	status Opt[int]
}

// MethodOption configures a routed method.
type MethodOption func(*methodConfig)

// Route attaches a route to the method. Routes keep the order of the options.
func Route(method, pattern string) MethodOption {
	return func(mc *methodConfig) {
		mc.routes = append(mc.routes, routeDecl{method: strings.ToUpper(method), pattern: pattern})
	}
}

// Get attaches a GET route.
func Get(pattern string) MethodOption { return Route(http.MethodGet, pattern) }

// Post attaches a POST route.
func Post(pattern string) MethodOption { return Route(http.MethodPost, pattern) }

// Put attaches a PUT route.
func Put(pattern string) MethodOption { return Route(http.MethodPut, pattern) }

// Patch attaches a PATCH route.
func Patch(pattern string) MethodOption { return Route(http.MethodPatch, pattern) }

// Delete attaches a DELETE route.
func Delete(pattern string) MethodOption { return Route(http.MethodDelete, pattern) }

// Head attaches a HEAD route.
func Head(pattern string) MethodOption { return Route(http.MethodHead, pattern) }

// Options attaches an OPTIONS route.
func Options(pattern string) MethodOption { return Route(http.MethodOptions, pattern) }

// Shape sets the response shape of every route of the method.
func Shape(s ResponseShape) MethodOption {
	return func(mc *methodConfig) {
		mc.shape = Some(s)
	}
}

// ShapeOf sets the response schema to S and the envelope to env.
func ShapeOf[S any](env handler.Envelope) MethodOption {
	return Shape(ResponseShape{Schema: reflect.TypeFor[S](), Envelope: env})
}

// Status sets the success status of every route of the method.
func Status(code int) MethodOption {
	return func(mc *methodConfig) {
		mc.status = Some(code)
	}
}

// invokeFunc runs a method on a resolved instance.
type invokeFunc[T any] func(ctx handler.Context, inst *T) (any, error)

type method[T any] struct {
	name   string
	out    reflect.Type
	routes []RouteSpec
	invoke invokeFunc[T]
}

// Method declares a routed method without request input.
func Method[T, Out any](c *Class[T], name string, fn func(*T, context.Context) (Out, error), opts ...MethodOption) {
	if fn == nil {
		c.fail(fmt.Errorf("%w: %s.%s is nil", ErrMalformedMethod, c.name, name))
		return
	}
	c.addMethod(name, reflect.TypeFor[Out](), func(ctx handler.Context, inst *T) (any, error) {
		return fn(inst, ctx)
	}, opts)
}

// MethodWith declares a routed method whose input In is bound from the request:
// path parameters, then the query string, then the body chosen by
// Content-Type, then validated with `validate` tags. In must be a struct.
// Binding failures answer 422.
func MethodWith[T, In, Out any](c *Class[T], name string, fn func(*T, context.Context, In) (Out, error), opts ...MethodOption) {
	if fn == nil {
		c.fail(fmt.Errorf("%w: %s.%s is nil", ErrMalformedMethod, c.name, name))
		return
	}
	if reflect.TypeFor[In]().Kind() != reflect.Struct {
		c.fail(fmt.Errorf("%w: %s.%s input must be a struct, got %s", ErrMalformedMethod, c.name, name, reflect.TypeFor[In]()))
		return
	}
	c.addMethod(name, reflect.TypeFor[Out](), func(ctx handler.Context, inst *T) (any, error) {
		var in In
		if err := bindInput(ctx, &in); err != nil {
			return nil, err
		}
		return fn(inst, ctx, in)
	}, opts)
}

func (c *Class[T]) addMethod(name string, out reflect.Type, invoke invokeFunc[T], opts []MethodOption) {
	if name == "" {
		c.fail(fmt.Errorf("%w: %s has a method without a name", ErrMalformedMethod, c.name))
		return
	}
	for _, m := range c.methods {
		if m.name == name {
			c.fail(fmt.Errorf("%w: %s.%s declared twice", ErrMalformedMethod, c.name, name))
			return
		}
	}

	var mc methodConfig
	for _, opt := range opts {
		opt(&mc)
	}

	shape := mc.shape.Or(ResponseShape{})
	if shape.Schema == nil {
		shape.Schema = out
	}
	if code, ok := mc.status.Get(); ok {
		shape.Status = code
	}

	m := &method[T]{name: name, out: out, invoke: invoke}
	for _, rd := range mc.routes {
		m.routes = append(m.routes, RouteSpec{
			Method:   rd.method,
			Pattern:  rd.pattern,
			Name:     c.name + "." + name,
			Schema:   shape.Schema,
			Envelope: shape.Envelope,
			Status:   shape.Status,
			Seq:      c.seq,
		})
		c.seq++
	}
	c.methods = append(c.methods, m)
}
