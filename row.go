package stackmon

import (
	"fmt"
	"strconv"
	"time"
)

// Placeholder values for targets whose container cannot be observed.
const (
	StatusDown    = "down"
	StatusUnknown = "unknown"
	HealthNone    = "n/a"
	HealthDown    = "-"
)

// StateSnapshot is a container's runtime state at one point in time.
// Fetched fresh every cycle, never cached.
type StateSnapshot struct {
	Status    string
	Health    string
	StartedAt time.Time
}

// Down returns the snapshot used when a target has no running container.
func Down() StateSnapshot {
	return StateSnapshot{Status: StatusDown, Health: HealthDown}
}

// Unknown returns the snapshot used when container inspection failed.
func Unknown() StateSnapshot {
	return StateSnapshot{Status: StatusUnknown, Health: HealthNone}
}

// Uptime renders how long the container has been up, or "-" when unknown.
func (s StateSnapshot) Uptime(now time.Time) string {
	if s.StartedAt.IsZero() || now.Before(s.StartedAt) {
		return "-"
	}
	return now.Sub(s.StartedAt).Truncate(time.Second).String()
}

// LogSignalKind distinguishes a real error count from its sentinels.
type LogSignalKind uint8

const (
	LogCounted     LogSignalKind = iota // Count holds recent error lines
	LogUnavailable                      // log fetch failed
	LogDisabled                         // sampling turned off
)

// LogSignal is a time-windowed judgment of recent error volume in one
// container's logs.
type LogSignal struct {
	Kind  LogSignalKind
	Count int
}

func (s LogSignal) String() string {
	switch s.Kind {
	case LogDisabled:
		return "-"
	case LogUnavailable:
		return "n/a"
	default:
		return strconv.Itoa(s.Count)
	}
}

// ReachKind classifies how many of a target's published ports accept a
// TCP connection.
type ReachKind uint8

const (
	ReachNotApplicable ReachKind = iota // no published ports, or probing off
	ReachFull
	ReachNone
	ReachPartial
)

// ReachVerdict is the outcome of probing one target's published ports.
type ReachVerdict struct {
	Kind  ReachKind
	OK    int
	Total int
}

// ClassifyReach maps probe counts to a verdict.
func ClassifyReach(ok, total int) ReachVerdict {
	switch {
	case total == 0:
		return ReachVerdict{Kind: ReachNotApplicable}
	case ok == total:
		return ReachVerdict{Kind: ReachFull, OK: ok, Total: total}
	case ok == 0:
		return ReachVerdict{Kind: ReachNone, OK: 0, Total: total}
	default:
		return ReachVerdict{Kind: ReachPartial, OK: ok, Total: total}
	}
}

func (v ReachVerdict) String() string {
	switch v.Kind {
	case ReachFull:
		return fmt.Sprintf("OK(%d/%d)", v.OK, v.Total)
	case ReachNone:
		return "FAIL"
	case ReachPartial:
		return fmt.Sprintf("PART(%d/%d)", v.OK, v.Total)
	default:
		return "-"
	}
}

// Row is the per-service view model assembled once per cycle.
type Row struct {
	Service     string
	ContainerID string // empty when no container backs the service
	State       StateSnapshot
	Logs        LogSignal
	Ports       ReachVerdict
}

// ShortID returns the 12-character container id, or "-" when down.
func (r Row) ShortID() string {
	if r.ContainerID == "" {
		return "-"
	}
	if len(r.ContainerID) > 12 {
		return r.ContainerID[:12]
	}
	return r.ContainerID
}
