// Package scheduler runs the periodic active-window monitor: once per tick it
// re-evaluates which panchang windows contain the current instant for the
// default location and logs the windows that opened or closed.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/zapponejosh/panchang-api/internal/panchang"
)

// DefaultSpec re-evaluates once a minute.
const DefaultSpec = "@every 1m"

// Status is the monitor's view after its last tick.
type Status struct {
	LastTick time.Time               `json:"last_tick"`
	Date     string                  `json:"date,omitempty"`
	Active   []panchang.ActiveWindow `json:"active"`
	LastErr  string                  `json:"last_error,omitempty"`
}

// Monitor tracks the active windows of one location.
type Monitor struct {
	location panchang.Location
	opts     []panchang.Option
	logger   *slog.Logger
	now      func() time.Time

	cron *cron.Cron

	mu       sync.RWMutex
	snapshot *panchang.Snapshot
	active   map[string]panchang.ActiveWindow
	status   Status
}

// NewMonitor creates a monitor for loc. spec is a robfig/cron schedule such
// as "@every 1m" or "* * * * *"; empty means DefaultSpec.
func NewMonitor(spec string, loc panchang.Location, logger *slog.Logger, opts ...panchang.Option) (*Monitor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if spec == "" {
		spec = DefaultSpec
	}
	if err := loc.Validate(); err != nil {
		return nil, err
	}

	m := &Monitor{
		location: loc,
		opts:     opts,
		logger:   logger.With("component", "monitor"),
		now:      time.Now,
		active:   make(map[string]panchang.ActiveWindow),
	}

	cl := cronLogger{m.logger}
	m.cron = cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := m.cron.AddFunc(spec, func() { m.Tick(m.now()) }); err != nil {
		return nil, fmt.Errorf("invalid monitor schedule %q: %w", spec, err)
	}
	return m, nil
}

// Start runs one tick immediately and then follows the schedule.
func (m *Monitor) Start() {
	m.Tick(m.now())
	m.cron.Start()
	m.logger.Info("monitor started",
		"latitude", m.location.Latitude,
		"longitude", m.location.Longitude,
	)
}

// Stop halts the schedule and waits for a running tick, or for ctx.
func (m *Monitor) Stop(ctx context.Context) {
	done := m.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	m.logger.Info("monitor stopped")
}

// Tick recomputes the snapshot when the civil date changed and logs windows
// that opened or closed since the previous tick.
func (m *Monitor) Tick(now time.Time) {
	zone := panchang.EstimateZone(m.location)
	local := now.In(zone)
	date := local.Format(time.DateOnly)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.status.LastTick = now
	if m.snapshot == nil || m.snapshot.Date != date {
		s, err := panchang.Calculate(local, m.location, m.opts...)
		if err != nil {
			m.status.LastErr = err.Error()
			m.logger.Error("compute panchang", "date", date, "error", err)
			m.closeAll()
			m.snapshot = nil
			m.status.Date = date
			m.status.Active = nil
			return
		}
		m.snapshot = s
		m.logger.Info("panchang computed",
			"date", date,
			"tithi", s.Tithi.Name,
			"nakshatra", s.Nakshatra.Name,
			"sunrise", panchang.FormatTime(s.Sunrise),
			"sunset", panchang.FormatTime(s.Sunset),
		)
	}
	m.status.LastErr = ""
	m.status.Date = date

	current := panchang.ActiveWindows(m.snapshot, now)
	seen := make(map[string]bool, len(current))
	for _, w := range current {
		id := w.Kind + "/" + w.Key
		seen[id] = true
		if _, ok := m.active[id]; !ok {
			m.active[id] = w
			m.logger.Info("window started",
				"window", w.Key,
				"kind", w.Kind,
				"ends", panchang.FormatTime(w.End),
			)
		}
	}
	for id, w := range m.active {
		if !seen[id] {
			delete(m.active, id)
			m.logger.Info("window ended", "window", w.Key, "kind", w.Kind)
		}
	}
	m.status.Active = current
}

func (m *Monitor) closeAll() {
	for id, w := range m.active {
		delete(m.active, id)
		m.logger.Info("window ended", "window", w.Key, "kind", w.Kind)
	}
}

// Status returns a copy of the state after the last tick.
func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.status
	s.Active = append([]panchang.ActiveWindow{}, m.status.Active...)
	return s
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
