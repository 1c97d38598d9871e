// Package engine implements the ClockEngine: a self-rescheduling frame loop
// that advances the displayed instant and keeps an exponentially smoothed
// estimate of frame-timing drift.
//
// The engine has two states. Start moves it from Idle to Running and
// schedules the first frame; every frame reschedules the next one only after
// it has finished, so at most one frame callback is ever in flight. Stop
// cancels the pending callback and returns to Idle. The engine may be
// restarted indefinitely.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/aelexs/atomic-clock/internal/domain"
)

// ClockState is the engine's only mutable state. Readers get copies.
type ClockState struct {
	CurrentInstant time.Time
	DriftEstimate  float64 // milliseconds
}

// Config holds the dependencies for an Engine. Nil fields get production
// defaults.
type Config struct {
	Clock     domain.Clock
	Timer     domain.HighResTimer
	Scheduler FrameScheduler
	Interval  time.Duration // frame scheduling interval; defaults to domain.FrameInterval
	Logger    *slog.Logger
}

// Engine is the ClockEngine. It is safe for concurrent use: the frame loop
// mutates state while renderers read snapshots from other goroutines.
type Engine struct {
	id        domain.EngineID
	clock     domain.Clock
	timer     domain.HighResTimer
	scheduler FrameScheduler
	interval  time.Duration
	logger    *slog.Logger
	attrs     metric.MeasurementOption

	mu         sync.Mutex
	state      ClockState
	lastFrame  float64
	running    bool
	generation uint64
	pending    Handle
	frames     uint64
	gaugeReg   metric.Registration
}

// New creates an Idle engine with zero drift and the current instant.
func New(cfg Config) *Engine {
	if cfg.Clock == nil {
		cfg.Clock = domain.RealClock{}
	}
	if cfg.Timer == nil {
		cfg.Timer = domain.NewMonotonicTimer()
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = TimerScheduler{}
	}
	if cfg.Interval <= 0 {
		cfg.Interval = domain.FrameInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	id := domain.GenerateEngineID()
	return &Engine{
		id:        id,
		clock:     cfg.Clock,
		timer:     cfg.Timer,
		scheduler: cfg.Scheduler,
		interval:  cfg.Interval,
		logger:    cfg.Logger.With(slog.String("engine_id", id.String())),
		attrs:     metric.WithAttributes(attribute.String("engine.id", id.String())),
		state:     ClockState{CurrentInstant: cfg.Clock.Now()},
		lastFrame: cfg.Timer.NowMillis(),
	}
}

// ID returns the engine's identifier.
func (e *Engine) ID() domain.EngineID {
	return e.id
}

// Start moves the engine to Running and schedules the first frame.
// It returns domain.ErrEngineRunning if the engine is already running.
func (e *Engine) Start() error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return domain.ErrEngineRunning
	}
	e.running = true
	e.generation++
	generation := e.generation
	e.lastFrame = e.timer.NowMillis()
	e.scheduleLocked(generation)
	e.mu.Unlock()

	// Registered outside e.mu: collection invokes observeDrift while holding
	// the SDK's pipeline lock.
	reg, err := meter.RegisterCallback(e.observeDrift, driftGauge)
	if err != nil {
		e.logger.Warn("drift gauge registration failed", slog.String("error", err.Error()))
	} else {
		e.mu.Lock()
		stale := !e.running || e.generation != generation
		if !stale {
			e.gaugeReg = reg
		}
		e.mu.Unlock()
		if stale {
			_ = reg.Unregister()
		}
	}

	restartsTotal.Add(context.Background(), 1, e.attrs)
	e.logger.Debug("clock engine started", slog.Duration("interval", e.interval))
	return nil
}

// Stop cancels the pending frame and moves the engine to Idle. A frame that
// is already executing is not interrupted; a callback that fires after Stop
// returns does nothing. Stop on an Idle engine is a no-op.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	e.generation++
	if e.pending != nil {
		e.pending.Cancel()
		e.pending = nil
	}
	reg := e.gaugeReg
	e.gaugeReg = nil
	frames := e.frames
	drift := e.state.DriftEstimate
	e.mu.Unlock()

	if reg != nil {
		if err := reg.Unregister(); err != nil {
			e.logger.Warn("drift gauge unregister failed", slog.String("error", err.Error()))
		}
	}
	e.logger.Debug("clock engine stopped",
		slog.Uint64("frames", frames),
		slog.Float64("drift_ms", drift),
	)
}

// Running reports whether the engine is in the Running state.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// State returns a copy of the current ClockState.
func (e *Engine) State() ClockState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Frames returns the number of frames processed since construction.
func (e *Engine) Frames() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames
}

// OnFrame applies one frame step for a high-resolution reading in
// fractional milliseconds:
//
//	drift = drift*0.99 + ((highResNow - lastFrame) - 16.67)*0.01
//	lastFrame = highResNow
//	CurrentInstant = wall-clock now
//
// The running loop calls it once per frame and then reschedules itself.
// Calling OnFrame directly applies the step without scheduling anything.
func (e *Engine) OnFrame(highResNow float64) {
	e.mu.Lock()
	delta := e.advanceLocked(highResNow)
	e.mu.Unlock()

	e.record(delta)
}

// tick is the scheduled frame callback for one run generation.
func (e *Engine) tick(generation uint64) {
	e.mu.Lock()
	if !e.running || generation != e.generation {
		e.mu.Unlock()
		return
	}
	delta := e.advanceLocked(e.timer.NowMillis())
	e.scheduleLocked(generation)
	e.mu.Unlock()

	e.record(delta)
}

func (e *Engine) advanceLocked(highResNow float64) float64 {
	delta := highResNow - e.lastFrame
	e.state.DriftEstimate = e.state.DriftEstimate*domain.DriftDecay +
		(delta-domain.ExpectedFrameIntervalMillis)*domain.DriftGain
	e.lastFrame = highResNow
	e.state.CurrentInstant = e.clock.Now()
	e.frames++
	return delta
}

func (e *Engine) scheduleLocked(generation uint64) {
	e.pending = e.scheduler.Schedule(e.interval, func() { e.tick(generation) })
}

func (e *Engine) record(delta float64) {
	ctx := context.Background()
	framesTotal.Add(ctx, 1, e.attrs)
	frameInterval.Record(ctx, delta, e.attrs)
}

func (e *Engine) observeDrift(_ context.Context, o metric.Observer) error {
	o.ObserveFloat64(driftGauge, e.State().DriftEstimate, e.attrs)
	return nil
}
