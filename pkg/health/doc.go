// Package health serves liveness and readiness probes for Waypoint
// applications.
//
// Liveness always answers OK while the process runs. Readiness runs a set of
// named checks in parallel and answers 503 when any of them fails:
//
//	mux.Get("/health/live", health.LivenessHandler())
//	mux.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "postgres": db.Healthcheck(pool),
//	    "redis":    redis.Healthcheck(client),
//	}, health.WithTimeout(3*time.Second)))
//
// Probes get plain "OK" or "Service Unavailable" bodies. Clients sending
// Accept: application/json, or ?format=json, get the full Report:
//
//	{"status":"unhealthy","checks":{"redis":{"status":"unhealthy","error":"dial tcp: connection refused","duration_ms":3}}}
//
// Run executes the same checks without HTTP, for CLI commands.
package health
