package observability

import (
	"context"
	"errors"
	"fmt"
)

// TelemetryConfig configures both OpenTelemetry providers.
type TelemetryConfig struct {
	Service      ServiceInfo
	OTLPEndpoint string
}

// Telemetry owns the tracer and meter providers for one process.
type Telemetry struct {
	Tracer  *TracerProvider
	Metrics *MetricsProvider
}

// InitTelemetry starts the tracer, then the meter provider. If the second
// step fails the first is shut down before returning.
func InitTelemetry(ctx context.Context, cfg TelemetryConfig) (*Telemetry, error) {
	tp, err := InitTracer(ctx, TracerConfig{Service: cfg.Service, OTLPEndpoint: cfg.OTLPEndpoint})
	if err != nil {
		return nil, fmt.Errorf("initialize tracer: %w", err)
	}

	mp, err := InitMetrics(ctx, MetricsConfig{Service: cfg.Service, OTLPEndpoint: cfg.OTLPEndpoint})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("initialize metrics: %w", err), tp.Shutdown(ctx))
	}

	return &Telemetry{Tracer: tp, Metrics: mp}, nil
}

// Shutdown flushes in reverse order of startup: metrics first, then tracer.
// Both are attempted even if the first fails.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	var errs []error
	if err := t.Metrics.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown metrics: %w", err))
	}
	if err := t.Tracer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown tracer: %w", err))
	}
	return errors.Join(errs...)
}
