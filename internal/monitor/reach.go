package monitor

import (
	"context"
	"net"
	"strconv"
	"time"

	"stackmon"
)

// ProbeTimeout bounds each connection attempt, so one unreachable port
// cannot stall a whole cycle.
const ProbeTimeout = 500 * time.Millisecond

// ProbePorts attempts one short TCP connection per published binding and
// classifies the outcome. Probing runs fresh every cycle; it is cheap and
// its result is too perishable to cache.
func ProbePorts(ctx context.Context, dialer Dialer, ports []stackmon.HostPort) stackmon.ReachVerdict {
	if len(ports) == 0 {
		return stackmon.ReachVerdict{Kind: stackmon.ReachNotApplicable}
	}

	ok := 0
	for _, hp := range ports {
		dialCtx, cancel := context.WithTimeout(ctx, ProbeTimeout)
		conn, err := dialer.DialContext(dialCtx, "tcp", net.JoinHostPort(hp.Host, strconv.Itoa(hp.Port)))
		cancel()
		if err != nil {
			continue
		}
		_ = conn.Close()
		ok++
	}
	return stackmon.ClassifyReach(ok, len(ports))
}
