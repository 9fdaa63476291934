// Package tasks repeats background work at a fixed interval.
//
//	r := tasks.RepeatEvery(time.Minute, cleanup,
//		tasks.WithName("cleanup"),
//		tasks.WaitFirst(10*time.Second),
//		tasks.WithLogger(log),
//	)
//	if err := r.Start(ctx); err != nil {
//		return err
//	}
//	<-r.Done()
//
// Failures are logged and the loop continues unless RaiseErrors is set.
// Panics in the task become errors wrapping ErrPanic.
package tasks
