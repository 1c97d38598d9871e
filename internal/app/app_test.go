package app_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/aelexs/atomic-clock/internal/app"
	"github.com/aelexs/atomic-clock/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func plainEnv(t *testing.T) string {
	t.Helper()
	logFile := filepath.Join(t.TempDir(), "clock.log")
	t.Setenv("CLOCK_DISPLAY_MODE", "plain")
	t.Setenv("CLOCK_DISPLAY_TIMEZONE", "UTC")
	t.Setenv("CLOCK_DISPLAY_PLAIN_INTERVAL", "10ms")
	t.Setenv("CLOCK_LOG_FILE", logFile)
	return logFile
}

func testParams(out *syncBuffer) app.Params {
	return app.Params{
		Name:    "atomicclock-test",
		Version: "test",
		Stdin:   strings.NewReader(""),
		Stdout:  out,
	}
}

func TestRunPlainGracefulShutdown(t *testing.T) {
	logFile := plainEnv(t)
	ctx, cancel := context.WithCancel(context.Background())

	var out syncBuffer
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Run(ctx, testParams(&out))
	}()

	require.Eventually(t, func() bool {
		return strings.Count(out.String(), "\n") >= 2
	}, 5*time.Second, 5*time.Millisecond)

	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(domain.ShutdownUITimeout + domain.ShutdownOTELTimeout + time.Second):
		t.Fatal("shutdown did not complete within budget")
	}

	first := strings.SplitN(out.String(), "\n", 2)[0]
	assert.Contains(t, first, " UTC ")
	assert.Contains(t, first, "TAI +37s")

	logs, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(logs), "starting display")
	assert.Contains(t, string(logs), "shutdown complete")
	assert.NotContains(t, out.String(), "starting display", "logs must not reach the display stream")
}

func TestRunInvalidConfig(t *testing.T) {
	t.Setenv("CLOCK_DISPLAY_MODE", "hologram")

	var out syncBuffer
	err := app.Run(context.Background(), testParams(&out))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.Empty(t, out.String())
}

func TestRunUnknownTimezone(t *testing.T) {
	t.Setenv("CLOCK_DISPLAY_TIMEZONE", "Mars/Olympus_Mons")

	var out syncBuffer
	err := app.Run(context.Background(), testParams(&out))

	require.Error(t, err)
	assert.True(t, domain.IsConfigError(err))
}

// syncBuffer is a bytes.Buffer safe for the display goroutine and the test
// to share.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
