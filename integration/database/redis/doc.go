// Package redis connects to Redis with go-redis and exposes a readiness
// check.
//
//	client, err := redis.Connect(ctx, cfg, log)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	checks["redis"] = redis.Healthcheck(client)
//
// Connect accepts redis:// and rediss:// URLs. It retries the initial ping
// RetryAttempts times with a doubling interval, bounded by ConnectTimeout.
// Failures wrap ErrFailedToParseRedisConnString, ErrRedisNotReady or
// ErrEmptyConnectionURL; use errors.Is to tell them apart.
package redis
