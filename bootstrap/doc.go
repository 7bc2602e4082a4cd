// Package bootstrap runs a service through a fixed lifecycle.
//
// Components registered before Run are started first. Configure callbacks
// then build the application layer and may register more components, such
// as the HTTP server once its routes are mounted; those start next. A ready
// check and the startup summary follow. On SIGINT or SIGTERM hooks run and
// components stop in reverse registration order.
//
//	app, err := bootstrap.NewApp(cfg)
//	if err != nil {
//	    return err
//	}
//	app.RegisterComponent(store)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*Config]) error {
//	    return a.RegisterComponent(server.NewComponent(srv))
//	})
//	return app.Run(context.Background())
package bootstrap
