// Package healthcheck provides named, toggleable health probes.
//
// Healthchecks are indicators of an application behaving well. Users
// implement a check as a [CheckFunc] closure returning a [Health] status
// and, optionally, an error describing the condition:
//
//	hc := healthcheck.New("database", "connection pool usage", func() (healthcheck.Health, error) {
//	    if !db.Connected() {
//	        return healthcheck.HealthCritical, errors.New("not connected to db")
//	    }
//	    if usage := db.PoolUsage(); usage > 0.85 {
//	        if usage > 0.95 {
//	            return healthcheck.HealthCritical, errors.New("pool exhausted")
//	        }
//	        return healthcheck.HealthWarning, errors.New("pool nearly exhausted")
//	    }
//	    return healthcheck.HealthOK, nil
//	})
//
// The closure must be safe for concurrent use; it will usually run on a
// different goroutine than the one that created it. A good rule is to only
// read atomically inside the closure.
//
// # Lifecycle integration
//
// A check can follow a component's lifecycle so that it is only polled
// while the component is meant to be up:
//
//	hc.BindLifecycle(lfc)
//
// This enables the check when the lifecycle enters STARTING and disables it
// on STOPPING or FAILED.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package healthcheck
