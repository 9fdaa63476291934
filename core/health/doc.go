// Package health provides liveness and readiness handlers.
//
//	r.Get("/health/live", health.Liveness[*router.Context])
//	r.Get("/health/ready", health.Readiness[*router.Context](log, map[string]health.Check{
//		"tasks": tasksRunning,
//	}))
package health
