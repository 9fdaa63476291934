// Package logger builds slog loggers and provides attribute helpers with
// consistent key names.
//
// # Basic Usage
//
//	log := logger.New(
//		logger.WithDevelopment("restful"),
//		logger.WithLevel(slog.LevelDebug),
//	)
//
//	log.Info("route registered",
//		logger.Component("view"),
//		logger.Method(http.MethodGet),
//		logger.Pattern("/items/{id}"),
//	)
//
// Production and staging presets write JSON at info level:
//
//	log := logger.New(logger.WithProduction("restful"))
//
// # Context Values
//
// Extractors copy request-scoped values into every record logged with a
// context:
//
//	log := logger.New(
//		logger.WithJSONFormatter(),
//		logger.WithContextValue("request_id", requestIDKey{}),
//	)
//	log.InfoContext(ctx, "served")
//
// # Attribute Helpers
//
// Helpers such as Error, RequestID and Route return an empty attribute for
// absent values, which slog omits. Pass them unconditionally.
package logger
