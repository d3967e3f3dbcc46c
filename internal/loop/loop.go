// Package loop runs a single logical UI thread. Every registry and window
// operation posted to a Loop executes on its goroutine, one at a time, and
// frame callbacks are flushed on a fixed tick.
package loop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/Gaurav-Gosain/webdesk/internal/frame"
)

// ErrStopped is returned when work is posted to a loop that is not running.
var ErrStopped = errors.New("loop stopped")

// Config configures the loop.
type Config struct {
	// TargetFPS is the frame rate of the tick (default: 60).
	TargetFPS int
	// QueueSize bounds the number of posted tasks waiting to run.
	QueueSize int
	Logger    *zerolog.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{TargetFPS: 60, QueueSize: 256}
}

// Loop is a single-goroutine task and frame runner.
type Loop struct {
	cfg   Config
	log   zerolog.Logger
	tasks chan func()

	// frames and onFrame are only touched from the loop goroutine.
	frames  frame.Queue
	onFrame []func(n uint64)
	number  uint64

	running  atomic.Bool
	stopOnce sync.Once
	done     chan struct{}
}

// New creates a loop. Call Run to start it.
func New(cfg Config) *Loop {
	def := DefaultConfig()
	if cfg.TargetFPS <= 0 {
		cfg.TargetFPS = def.TargetFPS
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	return &Loop{
		cfg:   cfg,
		log:   log,
		tasks: make(chan func(), cfg.QueueSize),
		done:  make(chan struct{}),
	}
}

// FrameInterval is the time between ticks.
func (l *Loop) FrameInterval() time.Duration {
	return time.Second / time.Duration(l.cfg.TargetFPS)
}

// OnFrame registers fn to run after each tick's deferred callbacks. It
// must be called before Run or from the loop goroutine.
func (l *Loop) OnFrame(fn func(n uint64)) {
	l.onFrame = append(l.onFrame, fn)
}

// NextFrame defers fn to the next tick. It must be called from the loop
// goroutine, which is where registry and window code runs.
func (l *Loop) NextFrame(fn func()) {
	l.frames.NextFrame(fn)
}

// Run processes tasks and ticks until ctx is cancelled. Tasks still queued
// when it returns are discarded.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return errors.New("loop already running")
	}
	defer l.stop()

	ticker := time.NewTicker(l.FrameInterval())
	defer ticker.Stop()

	l.log.Debug().Int("fps", l.cfg.TargetFPS).Msg("loop started")
	for {
		select {
		case <-ctx.Done():
			l.log.Debug().Msg("loop stopped")
			return ctx.Err()
		case fn := <-l.tasks:
			l.run(fn)
		case <-ticker.C:
			l.tick()
		}
	}
}

func (l *Loop) stop() {
	l.stopOnce.Do(func() {
		l.running.Store(false)
		close(l.done)
	})
}

func (l *Loop) tick() {
	l.number++
	l.frames.Flush()
	for _, fn := range l.onFrame {
		fn(l.number)
	}
}

func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error().Interface("panic", r).Msg("loop task panicked")
		}
	}()
	fn()
}

// Done is closed once the loop has stopped.
func (l *Loop) Done() <-chan struct{} { return l.done }

// IsRunning reports whether Run is active.
func (l *Loop) IsRunning() bool { return l.running.Load() }

// Post queues fn without waiting for it to run.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.done:
		return ErrStopped
	default:
	}
	select {
	case l.tasks <- fn:
		return nil
	case <-l.done:
		return ErrStopped
	}
}

// Do runs fn on the loop goroutine and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	task := func() {
		defer close(finished)
		fn()
	}

	select {
	case <-l.done:
		return ErrStopped
	default:
	}
	select {
	case l.tasks <- task:
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrStopped
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrStopped
	}
}
