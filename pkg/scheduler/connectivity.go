package scheduler

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/followme/attendance-cli/pkg/api"
	"github.com/followme/attendance-cli/pkg/logger"
)

// ProbeFunc reports whether the network currently looks reachable.
type ProbeFunc func() bool

// HTTPProbe returns a probe that issues a GET against the configured base
// URL. Any HTTP response at all counts as online; only a transport failure
// reads as offline.
func HTTPProbe(baseURL func() string, timeout time.Duration) ProbeFunc {
	client := resty.New().SetTimeout(timeout)
	return func() bool {
		base := baseURL()
		if base == "" {
			return false
		}
		_, err := client.R().Get(api.NormalizeBaseURL(base))
		return err == nil
	}
}

// Monitor polls a connectivity probe and feeds edge transitions into the
// scheduler.
type Monitor struct {
	probe    ProbeFunc
	interval time.Duration
	sched    *Scheduler
}

// NewMonitor creates a connectivity monitor for the given scheduler.
func NewMonitor(probe ProbeFunc, interval time.Duration, sched *Scheduler) *Monitor {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Monitor{probe: probe, interval: interval, sched: sched}
}

// Run polls until the context is cancelled. The first probe runs
// immediately so the scheduler starts with a real connectivity reading.
func (m *Monitor) Run(ctx context.Context) {
	m.observe()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.observe()
		}
	}
}

func (m *Monitor) observe() {
	online := m.probe()
	if online != m.sched.IsOnline() {
		logger.Debug("Connectivity changed", "online", online)
	}
	m.sched.SetOnline(online)
}
