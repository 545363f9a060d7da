// Package app wires the dashboard together and runs it.
//
// # Initialization Flow
//
//	1. Load configuration from .env, the YAML file and the environment
//	2. Initialize logging and OpenTelemetry
//	3. Build the dataset loader, the watcher and the WebSocket hub
//	4. Build the dashboard, snapshot and health services
//	5. Mount handlers and middleware on the chi router
//	6. Start the HTTP server
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    slog.Error("init failed", slog.String("error", err.Error()))
//	    os.Exit(1)
//	}
//	if err := application.Run(); err != nil {
//	    ...
//	}
//
// New accepts an explicit configuration and logger for tests and for the
// snapshot command, which serves the router on a loopback port.
//
// # Graceful Shutdown
//
// Run waits for SIGINT or SIGTERM, then stops the watcher, closes WebSocket
// clients, drains in-flight requests within Server.ShutdownTimeout and
// flushes telemetry. Errors are returned; the package never calls os.Exit.
package app
