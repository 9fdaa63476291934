// Package di is a small request-scoped dependency resolver.
//
// A Container holds factories; a Scope builds each value once and caches it
// for the rest of the unit of work, usually one HTTP request. Factories are
// plain functions that resolve their own dependencies through the scope, so
// no reflection is involved:
//
//	c := di.New()
//	db := di.Value(c, "db", pool)
//	repo := di.Provide(c, "repo", func(ctx context.Context, s *di.Scope) (*Repo, error) {
//		conn, err := di.Resolve(ctx, s, db)
//		if err != nil {
//			return nil, err
//		}
//		return NewRepo(conn), nil
//	})
//
// Request handlers obtain the scope with RequestScope, which attaches a new
// scope to the request on first use. Middleware and Handler open it up front.
//
// Resolution errors are returned unwrapped so callers can match the factory's
// own sentinel errors. Lookups of keys the container never issued fail with
// ErrUnknownProvider, and a factory that needs itself, directly or not,
// fails with ErrCircularDependency.
package di
