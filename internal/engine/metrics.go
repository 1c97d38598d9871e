package engine

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "atomic-clock/engine"

var meter = otel.Meter(instrumentationName)

var (
	framesTotal   metric.Int64Counter
	frameInterval metric.Float64Histogram
	driftGauge    metric.Float64ObservableGauge
	restartsTotal metric.Int64Counter
)

func init() {
	framesTotal, _ = meter.Int64Counter("clock_frames_total",
		metric.WithDescription("Total frames processed by the clock engine"))
	frameInterval, _ = meter.Float64Histogram("clock_frame_interval_ms",
		metric.WithDescription("Observed interval between consecutive frames"),
		metric.WithUnit("ms"))
	driftGauge, _ = meter.Float64ObservableGauge("clock_drift_ms",
		metric.WithDescription("Smoothed deviation of the frame interval from nominal"),
		metric.WithUnit("ms"))
	restartsTotal, _ = meter.Int64Counter("clock_engine_starts_total",
		metric.WithDescription("Total Idle to Running transitions"))
}
