package healthcheck

import (
	"errors"
	"sync/atomic"

	"github.com/bft-labs/lifeline/pkg/lifecycle"
)

// ErrDisabled is returned by Poll when the healthcheck is disabled.
var ErrDisabled = errors.New("healthcheck: disabled")

// Health is the status reported by a healthcheck probe.
type Health int32

const (
	// HealthUnknown means the check is in an unknown state, probably due to
	// an internal error.
	HealthUnknown Health = iota
	// HealthOK means the check is healthy.
	HealthOK
	// HealthWarning means the check is approaching unhealthy levels; action
	// should be taken.
	HealthWarning
	// HealthCritical means the check is unhealthy; action must be taken
	// immediately.
	HealthCritical
)

// String returns a human-readable representation of the health status.
func (h Health) String() string {
	switch h {
	case HealthUnknown:
		return "unknown"
	case HealthOK:
		return "ok"
	case HealthWarning:
		return "warning"
	case HealthCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// CheckFunc implements a healthcheck probe. It returns the health status
// and, for degraded statuses, an error describing the condition.
//
// The function must be safe for concurrent use: there is no guarantee on
// which goroutine polls the check, and it will usually not be the one that
// created it.
type CheckFunc func() (Health, error)

// Healthcheck is a named, enable/disable-able probe.
type Healthcheck struct {
	name        string
	description string
	enabled     atomic.Bool
	check       CheckFunc
}

// New creates an enabled healthcheck with the given name and description.
func New(name, description string, check CheckFunc) *Healthcheck {
	h := &Healthcheck{
		name:        name,
		description: description,
		check:       check,
	}
	h.enabled.Store(true)
	return h
}

// Name returns the name of the healthcheck.
func (h *Healthcheck) Name() string { return h.name }

// Description returns the description of the healthcheck.
func (h *Healthcheck) Description() string { return h.description }

// Enable marks the healthcheck as pollable.
func (h *Healthcheck) Enable() { h.enabled.Store(true) }

// Disable marks the healthcheck as not pollable. Poll returns ErrDisabled
// until the check is enabled again.
func (h *Healthcheck) Disable() { h.enabled.Store(false) }

// Enabled reports whether the healthcheck is currently enabled.
func (h *Healthcheck) Enabled() bool { return h.enabled.Load() }

// Poll invokes the probe and returns its status. A disabled check reports
// HealthUnknown with ErrDisabled without invoking the probe.
//
// The probe itself may return an error alongside a degraded status; callers
// interested in the cause should inspect both.
func (h *Healthcheck) Poll() (Health, error) {
	if !h.enabled.Load() {
		return HealthUnknown, ErrDisabled
	}
	return h.check()
}

// BindLifecycle subscribes the healthcheck to a lifecycle so that it is
// enabled when the component starts and disabled when it stops: the check
// turns on at StateStarting and off at StateStopping or StateFailed.
// The returned handle can be passed to lfc.Unsubscribe to detach.
func (h *Healthcheck) BindLifecycle(lfc *lifecycle.Lifecycle) *lifecycle.Listener {
	return lfc.Subscribe(h.name, func(s lifecycle.State, _ int64) {
		switch s {
		case lifecycle.StateStarting:
			h.Enable()
		case lifecycle.StateStopping, lifecycle.StateFailed:
			h.Disable()
		}
	})
}
