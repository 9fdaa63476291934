// Package middleware provides request middlewares for handler.Context routers.
//
// Every middleware has a default constructor and a WithConfig variant, and
// every config carries a Skip hook:
//
//	r := router.New[*router.Context](
//		router.WithMiddleware(
//			middleware.RequestID[*router.Context](),
//			middleware.LoggingWithLogger[*router.Context](log),
//			middleware.Timing[*router.Context](),
//			middleware.BodyLimit[*router.Context](middleware.MB),
//		),
//	)
//
// # Timing
//
// Timing logs the wall and CPU time of each request under the matched route
// name:
//
//	TIMING: Wall:   12.3ms | CPU:    4.1ms | Items.Show
//
// Handlers may emit intermediate splits with RecordTiming. TimingConfig
// accepts a name prefix, an exclusion substring and an optional Prometheus
// histogram built with NewTimingHistogram. For hosts that are plain
// http.Handlers, wrap them with TimingHandler instead.
//
// # Logging
//
// Logging writes one record per request after the response is rendered,
// including the route name recorded by the router. Pair it with RequestID
// and logger.WithContextExtractors(middleware.RequestIDExtractor) so that
// records logged during the request carry the same ID.
package middleware
