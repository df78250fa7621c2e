package monitor

import (
	"context"
	"fmt"
	"io"
	"time"
)

// clearFrame homes the cursor and erases the previous frame.
const clearFrame = "\x1b[H\x1b[J"

// Loop drives the monitor: cycle, render, sleep, repeat. Non-interactive
// output produces exactly one frame.
type Loop struct {
	Monitor     *Monitor
	Presenter   *Presenter
	Out         io.Writer
	Interval    time.Duration
	Interactive bool
}

// Run renders frames until ctx is cancelled. Cancellation during the
// inter-cycle sleep is the normal way to stop and is not an error;
// in-flight probes are abandoned, which is safe since they are read-only.
func (l *Loop) Run(ctx context.Context) error {
	timer := time.NewTimer(l.Interval)
	defer timer.Stop()

	for {
		rows := l.Monitor.Cycle(ctx)
		frame := l.Presenter.Frame(rows)
		if l.Interactive {
			frame = clearFrame + frame
		}
		if _, err := fmt.Fprint(l.Out, frame); err != nil {
			return fmt.Errorf("write frame: %w", err)
		}
		if !l.Interactive {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
			timer.Reset(l.Interval)
		}
	}
}
