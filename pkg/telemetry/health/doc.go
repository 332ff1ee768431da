// Package health provides health check endpoints for huntquery watch mode.
//
// # Endpoints
//
//   - /health: Liveness probe - the process is running
//   - /ready: Readiness probe - every registered check passes
//   - /version: Build information
//
// # Usage
//
//	checker := health.New(time.Second)
//	checker.RegisterCheck("pack", func(ctx context.Context) error {
//	    return session.LastError()
//	})
//
//	mux := http.NewServeMux()
//	health.Register(mux, checker, Version, GitCommit, BuildDate)
//
// Readiness returns 503 while any check fails, so an orchestrator can hold
// traffic until the hunt pack renders cleanly.
package health
