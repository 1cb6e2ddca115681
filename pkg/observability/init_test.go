package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitNoExporters(t *testing.T) {
	providers, err := Init(DefaultConfig())
	require.NoError(t, err)

	require.NotNil(t, providers.Tracer)
	require.NotNil(t, providers.Meter)
	require.NotNil(t, providers.Logger)

	// No-op providers still hand out usable instruments.
	ctx, span := providers.Tracer.Start(context.Background(), "noop")
	span.End()

	metrics, err := NewEngineMetrics(providers.Meter)
	require.NoError(t, err)
	metrics.RecordRun(ctx, StatusOK, time.Millisecond)

	assert.NoError(t, providers.Shutdown(context.Background()))
}
