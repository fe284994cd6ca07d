package gallery

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// LoopConfig controls a ticker driven loop.
type LoopConfig struct {
	Hz     int
	Frames uint64 // 0 runs until stopped
}

// Loop drives a frame function either one step at a time from a host's own
// frame callback or on a ticker. Once stopped it never runs another frame.
type Loop struct {
	frame  func()
	done   chan struct{}
	once   sync.Once
	frames atomic.Uint64
}

// NewLoop creates a loop calling frame once per tick.
func NewLoop(frame func()) *Loop {
	return &Loop{frame: frame, done: make(chan struct{})}
}

// Step runs a single frame and reports false, without running it, once the
// loop is stopped.
func (l *Loop) Step() bool {
	if l.Stopped() {
		return false
	}
	l.frame()
	l.frames.Add(1)
	return true
}

// Run ticks at cfg.Hz until ctx is cancelled, Stop is called or cfg.Frames
// frames have run. The ticker is released on return.
func (l *Loop) Run(ctx context.Context, cfg LoopConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid loop hz: %d", cfg.Hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	var n uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case <-t.C:
			if !l.Step() {
				return nil
			}
			n++
			if cfg.Frames > 0 && n >= cfg.Frames {
				return nil
			}
		}
	}
}

// Stop ends the loop. It is safe to call more than once.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.done) })
}

// Stopped reports whether Stop has been called.
func (l *Loop) Stopped() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// Done is closed when the loop stops.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Frames returns how many frames have run.
func (l *Loop) Frames() uint64 {
	return l.frames.Load()
}
