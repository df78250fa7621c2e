package monitor

import (
	"context"
	"net"
	"time"

	"stackmon"
)

// Runtime is the narrow container-runtime capability the monitor needs.
// The polling, caching and rendering logic is tested against fakes of
// this interface; infra/docker provides the real one.
type Runtime interface {
	// ContainerID resolves the container currently backing a compose
	// service, or "" when the service is down.
	ContainerID(ctx context.Context, project, service string) (string, error)
	// Inspect fetches the container's lifecycle status, health verdict
	// and start time.
	Inspect(ctx context.Context, id string) (stackmon.StateSnapshot, error)
	// LogTail fetches up to tail recent log lines no older than maxAge.
	LogTail(ctx context.Context, id string, tail int, maxAge time.Duration) (string, error)
}

// Dialer abstracts TCP connection attempts for port probing.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}
