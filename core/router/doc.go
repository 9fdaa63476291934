// Package router provides an HTTP router with middleware support, context
// management and two matching strategies: a radix tree for hand-written
// routes and an ordered table for routes whose match order matters.
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/restful/core/router"
//
//	r := router.New[*router.Context]()
//	r.Get("/users/{id}", func(ctx *router.Context) handler.Response {
//		return response.JSON(map[string]string{"id": ctx.Param("id")})
//	})
//	http.ListenAndServe(":8080", r)
//
// Tree routes are matched by specificity: static segments win over params,
// params over catch-alls.
//
// # Ordered Table
//
// Entries inserted with Insert are matched before any tree route, linearly and
// in table order. The first entry whose method and pattern match wins, even if
// a later entry is more specific:
//
//	r.Insert(r.Len(), router.Entry[*router.Context]{
//		Method:  http.MethodGet,
//		Pattern: "/items/{id}",
//		Endpoint: func(ctx *router.Context) (any, error) {
//			return store.Get(ctx, ctx.Param("id"))
//		},
//		Meta: router.Meta{Name: "items.get"},
//	})
//
// Table endpoints return raw results. The router encodes them with the
// entry's envelope (Meta.Envelope) or the router default set by WithEnvelope,
// which is response.JSONEnvelope. Endpoint errors reach the error handler
// unchanged.
//
// Table patterns accept the tree syntax plus {name:path}, which matches the
// rest of the path including slashes, and a trailing "/?" for an optional
// final slash. Inserting a method and pattern that already exist replaces the
// earlier entry and logs a warning.
//
// The table is not locked. Insert routes before the router starts serving.
//
// # Route Tracking
//
// The matched route is recorded on the request. Handlers read it with
// RouteFrom; outer http middlewares wrap the request with TrackRoute and read
// the route after the router returns:
//
//	r2, matched := router.TrackRoute(req)
//	next.ServeHTTP(w, r2)
//	if rt, ok := matched(); ok {
//		log.Println(rt.Name)
//	}
//
// # Middleware and Groups
//
// Use adds router-wide middlewares; they must be registered before routes.
// With and Group create inline routers whose middlewares apply to the routes
// and table entries registered through them. Prefixes belong to the table
// patterns themselves, see view.WithPrefix.
//
// # Error Handling
//
// Errors returned by responses and endpoints, unmatched routes (ErrNotFound),
// disallowed methods (ErrMethodNotAllowed, with the Allow header set) and
// recovered panics (PanicError) go to the error handler. The default handler
// honours errors implementing StatusCode() int, also when wrapped.
package router
