// Package handler holds the contracts shared by the router, the view engine
// and the middlewares.
//
// A HandlerFunc receives a Context and returns a Response. The Response runs
// after the middleware chain has seen it, and a non-nil error from it goes
// to the router's ErrorHandler:
//
//	func hello(ctx *router.Context) handler.Response {
//		return response.String("hello " + ctx.Param("name"))
//	}
//
// An Endpoint returns a plain value instead, and the router encodes it with
// an Envelope. Class-based views compile every method to an Endpoint, which
// is what lets the same method be served as JSON, text or HTML.
//
// Middlewares wrap HandlerFuncs. Values stored with Context.SetValue are
// visible to later middlewares, the handler and its Response.
package handler
