// Package server runs an http.Handler with production timeouts and graceful
// shutdown.
//
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	return srv.Run(ctx, handler)
//
// Run returns once the server has drained after ctx ends. Use an address
// such as "127.0.0.1:0" to bind a free port and read it back with Addr.
package server
