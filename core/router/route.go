package router

import (
	"context"
	"net/http"
	"reflect"
)

// Route describes a single route in the router.
type Route struct {
	Method  string
	Pattern string

	// Name, Schema and Envelope are set for ordered table entries only.
	Name     string
	Schema   reflect.Type
	Envelope string
}

type routeSlotKey struct{}

type routeSlot struct {
	route   Route
	matched bool
}

// TrackRoute returns a copy of r that records the route matched while serving it.
// Call the returned function after the router returns to read that route.
// Outer http middlewares use it to learn which route handled a request.
func TrackRoute(r *http.Request) (*http.Request, func() (Route, bool)) {
	r, slot := withRouteSlot(r)
	return r, func() (Route, bool) { return slot.route, slot.matched }
}

// SetRoute records rt as the matched route of the request behind ctx.
// It is a no-op when the request is not tracked.
func SetRoute(ctx context.Context, rt Route) {
	if slot, ok := ctx.Value(routeSlotKey{}).(*routeSlot); ok {
		slot.route = rt
		slot.matched = true
	}
}

// RouteFrom returns the route matched for the request behind ctx.
func RouteFrom(ctx context.Context) (Route, bool) {
	slot, ok := ctx.Value(routeSlotKey{}).(*routeSlot)
	if !ok || !slot.matched {
		return Route{}, false
	}
	return slot.route, true
}

func withRouteSlot(r *http.Request) (*http.Request, *routeSlot) {
	if slot, ok := r.Context().Value(routeSlotKey{}).(*routeSlot); ok {
		return r, slot
	}
	slot := &routeSlot{}
	return r.WithContext(context.WithValue(r.Context(), routeSlotKey{}, slot)), slot
}
