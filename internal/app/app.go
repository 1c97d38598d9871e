// Package app provides the process lifecycle runner for the clock.
// cmd/atomicclock delegates to app.Run for signal handling, config loading,
// observability init, the engine and display, and graceful shutdown.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/aelexs/atomic-clock/internal/config"
	"github.com/aelexs/atomic-clock/internal/domain"
	"github.com/aelexs/atomic-clock/internal/engine"
	"github.com/aelexs/atomic-clock/internal/observability"
	"github.com/aelexs/atomic-clock/internal/panel"
)

// Params configures the lifecycle runner.
type Params struct {
	// Name identifies the process in logs and telemetry. Overridden by
	// otel.service_name when that is set.
	Name    string
	Version string

	// Stdin and Stdout are the terminal streams. Nil means os.Stdin and
	// os.Stdout.
	Stdin  io.Reader
	Stdout io.Writer
}

// Run executes the full lifecycle: signal handling, config loading,
// observability initialization, the clock engine, the display, and graceful
// shutdown. It returns when the user quits the TUI or ctx is cancelled.
func Run(ctx context.Context, p Params) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if p.Stdin == nil {
		p.Stdin = os.Stdin
	}
	if p.Stdout == nil {
		p.Stdout = os.Stdout
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	service := p.Name
	if cfg.OTEL.ServiceName != "" {
		service = cfg.OTEL.ServiceName
	}

	logOut, closeLog, err := observability.OpenLogOutput(cfg.Log.File)
	if err != nil {
		return err
	}
	defer closeLog() //nolint:errcheck // nothing useful to do at exit

	logger := observability.InitLogger(observability.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		ServiceName: service,
		Environment: cfg.Environment,
		Output:      logOut,
	})

	// --- Startup order: telemetry -> engine -> display ---

	telemetry, err := observability.InitTelemetry(ctx, observability.TelemetryConfig{
		Service: observability.ServiceInfo{
			Name:        service,
			Version:     p.Version,
			Environment: cfg.Environment,
		},
		OTLPEndpoint: cfg.OTEL.Endpoint,
	})
	if err != nil {
		return fmt.Errorf("initialize telemetry: %w", err)
	}

	eng := engine.New(engine.Config{
		Interval: cfg.Display.FrameInterval,
		Logger:   logger,
	})
	if err := startEngine(ctx, eng); err != nil {
		flushTelemetry(logger, telemetry)
		return err
	}

	mode := resolveMode(cfg.Mode(), p.Stdout)
	renderer := panel.NewRenderer(panel.RendererConfig{
		Color:  cfg.Display.Color && mode == domain.DisplayModeTUI,
		Output: p.Stdout,
	})
	timer := domain.NewMonotonicTimer()

	uiCtx, cancelUI := context.WithCancel(ctx)
	defer cancelUI()
	uiDone := make(chan struct{})

	g, gctx := errgroup.WithContext(uiCtx)

	// Goroutine 1: the display. Quitting the TUI ends the whole process.
	g.Go(func() error {
		defer close(uiDone)
		defer cancelUI()

		logger.Info("starting display",
			slog.String("mode", string(mode)),
			slog.String("timezone", loc.String()),
			slog.String("engine_id", eng.ID().String()),
		)

		if mode == domain.DisplayModeTUI {
			m := panel.NewModel(panel.ModelConfig{
				Source:   eng,
				Timer:    timer,
				Location: loc,
				Renderer: renderer,
				Interval: cfg.Display.FrameInterval,
			})
			return panel.RunTUI(gctx, m, p.Stdin, p.Stdout)
		}
		return panel.RunPlain(gctx, p.Stdout, panel.PlainConfig{
			Source:   eng,
			Timer:    timer,
			Location: loc,
			Renderer: renderer,
			Interval: cfg.Display.PlainInterval,
		})
	})

	// Goroutine 2: shutdown in reverse order of startup: display -> engine -> telemetry.
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("starting graceful shutdown")

		select {
		case <-uiDone:
		case <-time.After(domain.ShutdownUITimeout):
			logger.Warn("display did not stop in time", slog.Duration("timeout", domain.ShutdownUITimeout))
		}

		eng.Stop()
		logger.Info("engine stopped", slog.Uint64("frames", eng.Frames()))

		flushTelemetry(logger, telemetry)
		logger.Info("shutdown complete")
		return nil
	})

	return g.Wait()
}

func startEngine(ctx context.Context, eng *engine.Engine) error {
	_, span := observability.Tracer("atomic-clock/app").Start(ctx, "engine.start")
	defer span.End()
	span.SetAttributes(attribute.String("engine.id", eng.ID().String()))

	if err := eng.Start(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("start engine: %w", err)
	}
	return nil
}

func flushTelemetry(logger *slog.Logger, t *observability.Telemetry) {
	ctx, cancel := context.WithTimeout(context.Background(), domain.ShutdownOTELTimeout)
	defer cancel()
	if err := t.Shutdown(ctx); err != nil {
		logger.Error("failed to flush telemetry", slog.String("error", err.Error()))
	}
}

// resolveMode picks the concrete display for auto mode: the TUI on a
// terminal, plain lines otherwise.
func resolveMode(mode domain.DisplayMode, out io.Writer) domain.DisplayMode {
	if mode != domain.DisplayModeAuto {
		return mode
	}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return domain.DisplayModeTUI
	}
	return domain.DisplayModePlain
}
