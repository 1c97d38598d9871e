package engine_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/goleak"

	"github.com/aelexs/atomic-clock/internal/domain"
	"github.com/aelexs/atomic-clock/internal/domain/domaintest"
	"github.com/aelexs/atomic-clock/internal/engine"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testStart = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

// manualScheduler queues callbacks until the test fires them.
type manualScheduler struct {
	mu      sync.Mutex
	pending []*manualHandle
	delays  []time.Duration
}

type manualHandle struct {
	mu        sync.Mutex
	f         func()
	fired     bool
	cancelled bool
}

func (h *manualHandle) Cancel() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.fired || h.cancelled {
		return false
	}
	h.cancelled = true
	return true
}

func (s *manualScheduler) Schedule(d time.Duration, f func()) engine.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := &manualHandle{f: f}
	s.pending = append(s.pending, h)
	s.delays = append(s.delays, d)
	return h
}

// fireNext runs the oldest live callback. It reports whether one ran.
func (s *manualScheduler) fireNext() bool {
	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.mu.Unlock()
			return false
		}
		h := s.pending[0]
		s.pending = s.pending[1:]
		s.mu.Unlock()

		h.mu.Lock()
		live := !h.fired && !h.cancelled
		h.fired = true
		h.mu.Unlock()
		if live {
			h.f()
			return true
		}
	}
}

// last returns the most recently scheduled handle.
func (s *manualScheduler) last() *manualHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return nil
	}
	return s.pending[len(s.pending)-1]
}

type fixture struct {
	clock     *domaintest.FakeClock
	timer     *domaintest.FakeHighResTimer
	scheduler *manualScheduler
	engine    *engine.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		clock:     domaintest.NewFakeClock(testStart),
		timer:     domaintest.NewFakeHighResTimer(0),
		scheduler: &manualScheduler{},
	}
	f.engine = engine.New(engine.Config{
		Clock:     f.clock,
		Timer:     f.timer,
		Scheduler: f.scheduler,
	})
	t.Cleanup(f.engine.Stop)
	return f
}

// frame advances both clocks by ms and fires the pending callback.
func (f *fixture) frame(t *testing.T, ms float64) {
	t.Helper()
	f.timer.Advance(ms)
	f.clock.Advance(domain.MillisDuration(ms))
	require.True(t, f.scheduler.fireNext(), "expected a pending frame")
}

func TestNew_InitialState(t *testing.T) {
	f := newFixture(t)

	state := f.engine.State()
	assert.True(t, state.CurrentInstant.Equal(testStart))
	assert.Equal(t, 0.0, state.DriftEstimate)
	assert.False(t, f.engine.Running())
	assert.False(t, f.engine.ID().IsZero())
	assert.Equal(t, uint64(0), f.engine.Frames())
}

func TestOnFrame_NominalDeltaLeavesDriftUnchanged(t *testing.T) {
	f := newFixture(t)

	f.engine.OnFrame(16.67)

	assert.Equal(t, 0.0, f.engine.State().DriftEstimate)
}

func TestOnFrame_NominalDeltaFromArbitraryBase(t *testing.T) {
	f := newFixture(t)
	f.engine.OnFrame(1000)
	before := f.engine.State().DriftEstimate

	f.engine.OnFrame(1000 + 16.67)

	assert.InDelta(t, before*0.99, f.engine.State().DriftEstimate, 1e-9)
}

func TestOnFrame_ExponentialSmoothing(t *testing.T) {
	f := newFixture(t)

	f.engine.OnFrame(26.67) // 10 ms late
	assert.InDelta(t, 0.1, f.engine.State().DriftEstimate, 1e-9)

	f.engine.OnFrame(26.67 + 6.67) // 10 ms early
	assert.InDelta(t, 0.1*0.99-0.1, f.engine.State().DriftEstimate, 1e-9)
}

func TestOnFrame_ConvergesToSteadyOffset(t *testing.T) {
	f := newFixture(t)

	now := 0.0
	for range 2000 {
		now += 20.67 // constantly 4 ms late
		f.engine.OnFrame(now)
	}

	assert.InDelta(t, 4.0, f.engine.State().DriftEstimate, 1e-6)
}

func TestOnFrame_UpdatesInstantFromWallClock(t *testing.T) {
	f := newFixture(t)
	f.clock.Advance(1500 * time.Millisecond)

	f.engine.OnFrame(16.67)

	assert.True(t, f.engine.State().CurrentInstant.Equal(testStart.Add(1500*time.Millisecond)))
}

func TestOnFrame_DirectCallDoesNotSchedule(t *testing.T) {
	f := newFixture(t)

	f.engine.OnFrame(16.67)

	assert.False(t, f.scheduler.fireNext())
	assert.Equal(t, uint64(1), f.engine.Frames())
}

func TestStart_SchedulesFrames(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.engine.Start())
	assert.True(t, f.engine.Running())
	require.Len(t, f.scheduler.delays, 1)
	assert.Equal(t, domain.FrameInterval, f.scheduler.delays[0])

	for range 5 {
		f.frame(t, 16.67)
	}

	assert.Equal(t, uint64(5), f.engine.Frames())
	assert.InDelta(t, 0.0, f.engine.State().DriftEstimate, 1e-9)
	assert.True(t, f.engine.State().CurrentInstant.Equal(testStart.Add(5*domain.MillisDuration(16.67))))
	assert.Len(t, f.scheduler.delays, 6, "each frame schedules exactly one successor")
}

func TestStart_MeasuresFromStartReading(t *testing.T) {
	f := newFixture(t)
	f.timer.Set(5000)

	require.NoError(t, f.engine.Start())
	f.frame(t, 26.67)

	assert.InDelta(t, 0.1, f.engine.State().DriftEstimate, 1e-9)
}

func TestStart_WhileRunningFails(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.engine.Start())

	err := f.engine.Start()

	require.ErrorIs(t, err, domain.ErrEngineRunning)
	assert.Len(t, f.scheduler.delays, 1, "second start must not schedule another loop")
}

func TestStop_CancelsPendingFrame(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.engine.Start())
	f.frame(t, 16.67)
	pending := f.scheduler.last()
	require.NotNil(t, pending)

	f.engine.Stop()

	assert.False(t, f.engine.Running())
	assert.False(t, pending.Cancel(), "stop should already have cancelled the handle")
	assert.False(t, f.scheduler.fireNext())
}

func TestStop_LateCallbackDoesNotMutate(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.engine.Start())
	pending := f.scheduler.last()
	require.NotNil(t, pending)

	f.engine.Stop()
	before := f.engine.State()

	// Simulate a timer that fired concurrently with Stop.
	f.clock.Advance(time.Second)
	f.timer.Advance(1000)
	pending.f()

	assert.Equal(t, before, f.engine.State())
	assert.Equal(t, uint64(0), f.engine.Frames())
}

func TestStop_IdleIsNoop(t *testing.T) {
	f := newFixture(t)

	assert.NotPanics(t, f.engine.Stop)
	assert.False(t, f.engine.Running())
}

func TestRestart(t *testing.T) {
	f := newFixture(t)

	for cycle := range 3 {
		require.NoError(t, f.engine.Start(), "cycle %d", cycle)
		f.frame(t, 16.67)
		f.engine.Stop()
		assert.False(t, f.scheduler.fireNext(), "cycle %d", cycle)
	}

	assert.Equal(t, uint64(3), f.engine.Frames())
}

func TestRestart_IgnoresPreviousGeneration(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.engine.Start())
	stale := f.scheduler.last()
	f.engine.Stop()
	require.NoError(t, f.engine.Start())

	stale.f()

	assert.Equal(t, uint64(0), f.engine.Frames())
	assert.True(t, f.scheduler.fireNext())
	assert.Equal(t, uint64(1), f.engine.Frames())
}

func TestEngine_RealSchedulerRunsAndStops(t *testing.T) {
	e := engine.New(engine.Config{Interval: time.Millisecond})

	require.NoError(t, e.Start())
	assert.Eventually(t, func() bool { return e.Frames() >= 5 }, 2*time.Second, time.Millisecond)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range 100 {
			_ = e.State()
		}
	}()
	wg.Wait()

	e.Stop()
	frames := e.Frames()
	time.Sleep(20 * time.Millisecond)

	assert.LessOrEqual(t, e.Frames(), frames+1, "at most the in-flight frame may complete after stop")
	assert.False(t, e.Running())
}

func TestEngine_RecordsMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	f := newFixture(t)
	require.NoError(t, f.engine.Start())
	f.frame(t, 26.67)
	f.frame(t, 16.67)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	names := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names[m.Name] = m.Data
		}
	}

	require.Contains(t, names, "clock_frames_total")
	require.Contains(t, names, "clock_frame_interval_ms")
	require.Contains(t, names, "clock_drift_ms")

	frames, ok := names["clock_frames_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range frames.DataPoints {
		total += dp.Value
	}
	assert.GreaterOrEqual(t, total, int64(2))

	drift, ok := names["clock_drift_ms"].(metricdata.Gauge[float64])
	require.True(t, ok)
	require.NotEmpty(t, drift.DataPoints)
}
