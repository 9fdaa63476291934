// Package response builds handler.Response values and renders errors.
//
// Handlers return a Response, a func(http.ResponseWriter, *http.Request)
// error that runs after the middleware chain has wrapped it. A non-nil error
// goes to the router's error handler:
//
//	func show(ctx *router.Context) handler.Response {
//		item, err := store.Get(ctx, ctx.Param("id"))
//		if err != nil {
//			return response.Error(err)
//		}
//		return response.JSON(item)
//	}
//
// # Envelopes
//
// Endpoints that return plain values are encoded by an envelope:
// JSONEnvelope (the router default), TextEnvelope, HTMLEnvelope and
// NoContentEnvelope. NewEnvelope wraps any encode function. A value that is
// already a handler.Response is written as is by every envelope.
//
// # Errors
//
// HTTPError carries a status, a machine-readable code and optional details.
// ErrorHandler and JSONErrorHandler accept any error: HTTPError values are
// rendered directly, errors with a StatusCode method keep that status, and
// the rest become a bare 500 without leaking their message.
package response
