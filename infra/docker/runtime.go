// Package docker observes compose-managed containers through the Docker
// Engine API. It is strictly read-only: the monitor never mutates
// container or compose state.
package docker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	dockerfilters "github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"stackmon"
)

// Labels the compose CLI stamps on every container it manages.
const (
	labelProject = "com.docker.compose.project"
	labelService = "com.docker.compose.service"
)

// Runtime reads container state from the Docker Engine API.
type Runtime struct {
	cli *client.Client
}

// Detect connects to the Docker daemon and verifies it responds. Failure
// here is fatal for the monitor: with no runtime there is nothing to show.
func Detect(ctx context.Context) (*Runtime, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}
	if _, err := cli.Ping(ctx); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("docker daemon unreachable: %w", err)
	}
	return &Runtime{cli: cli}, nil
}

// NewFromClient wraps an existing Docker client.
func NewFromClient(cli *client.Client) *Runtime {
	return &Runtime{cli: cli}
}

func (r *Runtime) Close() error {
	return r.cli.Close()
}

// ContainerID resolves the container currently backing a compose service,
// or "" when the service is down. When a recreated service leaves exited
// predecessors behind, the running one wins, then the newest.
func (r *Runtime) ContainerID(ctx context.Context, project, service string) (string, error) {
	filters := dockerfilters.NewArgs()
	filters.Add("label", labelProject+"="+project)
	filters.Add("label", labelService+"="+service)

	containers, err := r.cli.ContainerList(ctx, container.ListOptions{All: true, Filters: filters})
	if err != nil {
		return "", fmt.Errorf("list containers for %s: %w", service, err)
	}
	if len(containers) == 0 {
		return "", nil
	}

	sort.Slice(containers, func(i, j int) bool {
		return containers[i].Created > containers[j].Created
	})
	for _, c := range containers {
		if c.State == "running" {
			return c.ID, nil
		}
	}
	return containers[0].ID, nil
}

// Inspect fetches a container's lifecycle status, health verdict and start
// time. A container removed between lookup and inspect reads as down, not
// as an error.
func (r *Runtime) Inspect(ctx context.Context, id string) (stackmon.StateSnapshot, error) {
	info, err := r.cli.ContainerInspect(ctx, id)
	if err != nil {
		if errdefs.IsNotFound(err) {
			return stackmon.Down(), nil
		}
		return stackmon.StateSnapshot{}, fmt.Errorf("inspect container %s: %w", shortID(id), err)
	}

	snap := stackmon.Unknown()
	if info.State == nil {
		return snap, nil
	}
	if info.State.Status != "" {
		snap.Status = info.State.Status
	}
	if info.State.Health != nil && info.State.Health.Status != "" {
		snap.Health = info.State.Health.Status
	}
	if started, err := time.Parse(time.RFC3339Nano, info.State.StartedAt); err == nil && started.Unix() > 0 {
		snap.StartedAt = started
	}
	return snap, nil
}

// LogTail fetches up to tail recent log lines no older than maxAge.
func (r *Runtime) LogTail(ctx context.Context, id string, tail int, maxAge time.Duration) (string, error) {
	opts := container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Tail:       strconv.Itoa(tail),
		Since:      maxAge.String(),
	}
	rc, err := r.cli.ContainerLogs(ctx, id, opts)
	if err != nil {
		return "", fmt.Errorf("container logs %s: %w", shortID(id), err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read container logs %s: %w", shortID(id), err)
	}

	// Non-TTY containers multiplex stdout/stderr with stream framing;
	// TTY containers emit a raw stream that stdcopy rejects.
	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, bytes.NewReader(data)); err != nil {
		return string(data), nil
	}
	stdout.Write(stderr.Bytes())
	return stdout.String(), nil
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
