// Package monitor is the polling core of the stack monitor: it probes a
// fixed set of compose services every cycle, aggregates state, log-error
// and port-reachability signals, and renders one table frame per cycle.
package monitor

import (
	"context"
	"log/slog"
	"net"

	"golang.org/x/sync/errgroup"

	"stackmon"
	"stackmon/config"
	"stackmon/internal/check"
)

const defaultParallelism = 8

// Config fixes the monitor's per-cycle behavior. Toggles are resolved to
// concrete booleans before the first cycle and never re-evaluated.
type Config struct {
	Project     string
	ProbePorts  bool
	Parallelism int // concurrent targets per cycle; 0 means default
}

// Monitor probes all targets once per cycle. The only cross-cycle state
// it holds is the log-signal cache.
type Monitor struct {
	targets []stackmon.Target
	runtime Runtime
	dialer  Dialer
	cache   *LogCache
	cfg     Config
}

// New assembles a monitor. A nil dialer gets a TCP dialer with the probe
// timeout.
func New(targets []stackmon.Target, runtime Runtime, dialer Dialer, cache *LogCache, cfg Config) *Monitor {
	if dialer == nil {
		dialer = &net.Dialer{Timeout: ProbeTimeout}
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = defaultParallelism
	}
	return &Monitor{targets: targets, runtime: runtime, dialer: dialer, cache: cache, cfg: cfg}
}

// Targets returns the resolved working set, in resolver order.
func (m *Monitor) Targets() []stackmon.Target {
	return m.targets
}

// Cycle probes every target and returns exactly one row per target, in
// resolver order. Targets are probed concurrently since the dominant cost
// is external latency; a target's failure degrades its own row only and
// never aborts the cycle.
func (m *Monitor) Cycle(ctx context.Context) []stackmon.Row {
	rows := make([]stackmon.Row, len(m.targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.Parallelism)
	for i, target := range m.targets {
		g.Go(func() error {
			rows[i] = m.collect(gctx, target)
			return nil
		})
	}
	_ = g.Wait()

	check.Assertf(len(rows) == len(m.targets), "cycle produced %d rows for %d targets", len(rows), len(m.targets))
	return rows
}

func (m *Monitor) collect(ctx context.Context, target stackmon.Target) stackmon.Row {
	row := stackmon.Row{
		Service: target.Service,
		Logs:    stackmon.LogSignal{Kind: stackmon.LogDisabled},
	}

	id, err := m.runtime.ContainerID(ctx, m.cfg.Project, target.Service)
	if err != nil {
		slog.Debug("resolve container", "service", target.Service, "err", err)
	}
	if id == "" {
		row.State = stackmon.Down()
	} else {
		row.ContainerID = id
		snap, err := m.runtime.Inspect(ctx, id)
		if err != nil {
			slog.Debug("inspect container", "service", target.Service, "err", err)
			snap = stackmon.Unknown()
		}
		row.State = snap
		row.Logs = m.cache.GetOrRefresh(ctx, id)
	}

	// Ports are probed even for down targets: a published port with no
	// container behind it must read FAIL, not "-".
	if m.cfg.ProbePorts {
		row.Ports = ProbePorts(ctx, m.dialer, target.Ports)
	} else {
		row.Ports = stackmon.ReachVerdict{Kind: stackmon.ReachNotApplicable}
	}
	return row
}

// ResolveProbePorts fixes the three-valued port-probing toggle at startup:
// "auto" enables probing only when at least one target publishes ports.
// Ports added by a config change mid-run are not noticed until restart.
func ResolveProbePorts(toggle config.Toggle, targets []stackmon.Target) bool {
	switch toggle {
	case config.Off:
		return false
	case config.On:
		return true
	default:
		for _, t := range targets {
			if len(t.Ports) > 0 {
				return true
			}
		}
		return false
	}
}
