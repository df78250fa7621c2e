package monitor

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"stackmon"
)

// errPattern matches log lines that look like errors. Case variants are
// spelled out rather than matched case-insensitively so that words like
// "Terror" in payloads still count the same way the stack tooling counts.
var errPattern = regexp.MustCompile(`(ERROR|Error|error|CRIT|FATAL)`)

type cacheEntry struct {
	signal     stackmon.LogSignal
	capturedAt time.Time
}

// LogCacheConfig bounds what one log sample costs and how long it lives.
type LogCacheConfig struct {
	Enabled bool
	Window  time.Duration // TTL of a cached judgment
	Tail    int           // max lines fetched per sample
	MaxAge  time.Duration // oldest log line considered
}

// LogCache keeps a per-container rolling judgment of recent error volume.
// Entries are keyed by container id and reused while younger than Window,
// amortizing log fetches across fast refresh intervals. Failed fetches are
// cached too, so a dead container is not re-queried every cycle.
//
// Container ids are never reused by the runtime, so entries are not
// evicted; memory is bounded by the number of distinct containers seen.
type LogCache struct {
	runtime Runtime
	cfg     LogCacheConfig
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewLogCache builds a cache around runtime. now is injected so TTL
// behavior is testable with a fake clock; nil means time.Now.
func NewLogCache(runtime Runtime, cfg LogCacheConfig, now func() time.Time) *LogCache {
	if now == nil {
		now = time.Now
	}
	return &LogCache{
		runtime: runtime,
		cfg:     cfg,
		now:     now,
		entries: make(map[string]cacheEntry),
	}
}

// GetOrRefresh returns the cached judgment for id while it is fresh,
// sampling the container's logs otherwise.
func (c *LogCache) GetOrRefresh(ctx context.Context, id string) stackmon.LogSignal {
	if !c.cfg.Enabled {
		return stackmon.LogSignal{Kind: stackmon.LogDisabled}
	}

	now := c.now()
	c.mu.Lock()
	if e, ok := c.entries[id]; ok && now.Sub(e.capturedAt) < c.cfg.Window {
		c.mu.Unlock()
		return e.signal
	}
	c.mu.Unlock()

	// Sampling happens outside the lock; two goroutines racing on the
	// same id recompute the same judgment, which is harmless.
	sig := c.sample(ctx, id)

	c.mu.Lock()
	c.entries[id] = cacheEntry{signal: sig, capturedAt: now}
	c.mu.Unlock()
	return sig
}

func (c *LogCache) sample(ctx context.Context, id string) stackmon.LogSignal {
	out, err := c.runtime.LogTail(ctx, id, c.cfg.Tail, c.cfg.MaxAge)
	if err != nil {
		slog.Debug("log sample failed", "container", id, "err", err)
		return stackmon.LogSignal{Kind: stackmon.LogUnavailable}
	}
	return stackmon.LogSignal{Kind: stackmon.LogCounted, Count: countErrorLines(out)}
}

func countErrorLines(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		if errPattern.MatchString(line) {
			count++
		}
	}
	return count
}
