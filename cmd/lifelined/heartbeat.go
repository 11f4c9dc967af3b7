package main

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bft-labs/lifeline/pkg/healthcheck"
)

// heartbeat is the demo workload: it ticks at a fixed interval and records
// the time of the last tick so the healthcheck can detect stalls.
type heartbeat struct {
	interval time.Duration
	lastBeat atomic.Int64
}

func newHeartbeat(interval time.Duration) *heartbeat {
	return &heartbeat{interval: interval}
}

func (h *heartbeat) Name() string { return "heartbeat" }

func (h *heartbeat) Run(ctx context.Context) error {
	h.lastBeat.Store(time.Now().Unix())

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			h.lastBeat.Store(time.Now().Unix())
		}
	}
}

// Healthcheck reports on the age of the last heartbeat tick. A beat older
// than two intervals is a warning, older than three is critical.
func (h *heartbeat) Healthcheck() *healthcheck.Healthcheck {
	return healthcheck.New("heartbeat", "time since the last heartbeat tick", func() (healthcheck.Health, error) {
		last := h.lastBeat.Load()
		if last == 0 {
			return healthcheck.HealthUnknown, errors.New("no heartbeat recorded yet")
		}
		age := time.Since(time.Unix(last, 0))
		switch {
		case age > 3*h.interval:
			return healthcheck.HealthCritical, fmt.Errorf("last heartbeat %s ago", age.Truncate(time.Millisecond))
		case age > 2*h.interval:
			return healthcheck.HealthWarning, fmt.Errorf("last heartbeat %s ago", age.Truncate(time.Millisecond))
		default:
			return healthcheck.HealthOK, nil
		}
	})
}
