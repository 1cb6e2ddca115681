package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "trackfang.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfigFile(t, "")

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.InDelta(t, 1.0/3.0, config.Quality.Weights.Rework, 0.0001)
	assert.InDelta(t, 1.0/3.0, config.Quality.Weights.Review, 0.0001)
	assert.InDelta(t, 1.0/3.0, config.Quality.Weights.Defect, 0.0001)
	assert.Contains(t, config.Classifier.Patterns, "fix")
	assert.Contains(t, config.Classifier.Patterns, "revert")
	assert.InDelta(t, 80.0, config.Thresholds.CorrelationExcellent, 0.0001)
	assert.InDelta(t, 0.5, config.Thresholds.DeploymentFreqLow, 0.0001)
	assert.Equal(t, 0, config.Engine.MaxParallel)
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, "text", config.Logging.Format)
	assert.Empty(t, config.Observability.OTLPEndpoint)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfigFile(t, `
quality:
  weights:
    rework: 0.5
    review: 0.3
    defect: 0.2
classifier:
  patterns:
    - fixup
    - revert
thresholds:
  cycle_time_long_days: 21
engine:
  max_parallel: 4
logging:
  level: debug
  format: json
observability:
  prometheus_addr: "localhost:9464"
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, config.Quality.Weights.Rework, 0.0001)
	assert.InDelta(t, 0.3, config.Quality.Weights.Review, 0.0001)
	assert.InDelta(t, 0.2, config.Quality.Weights.Defect, 0.0001)
	assert.Equal(t, []string{"fixup", "revert"}, config.Classifier.Patterns)
	assert.InDelta(t, 21.0, config.Thresholds.CycleTimeLongDays, 0.0001)

	// Unset thresholds keep their defaults.
	assert.InDelta(t, 60.0, config.Thresholds.CorrelationLow, 0.0001)

	assert.Equal(t, 4, config.Engine.MaxParallel)
	assert.Equal(t, "debug", config.Logging.Level)
	assert.Equal(t, "json", config.Logging.Format)
	assert.Equal(t, "localhost:9464", config.Observability.PrometheusAddr)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("TRACKFANG_LOGGING_LEVEL", "warn")

	config, err := LoadConfig(writeConfigFile(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Logging.Level)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name: "bad_weights",
			content: `
quality:
  weights:
    rework: 0.9
    review: 0.9
    defect: 0.9
`,
		},
		{
			name: "empty_patterns",
			content: `
classifier:
  patterns: []
`,
			wantErr: ErrNoPatterns,
		},
		{
			name: "negative_parallelism",
			content: `
engine:
  max_parallel: -2
`,
			wantErr: ErrInvalidParallel,
		},
		{
			name: "bad_log_level",
			content: `
logging:
  level: verbose
`,
			wantErr: ErrInvalidLogLevel,
		},
		{
			name: "negative_threshold",
			content: `
thresholds:
  defect_rate_high: -0.1
`,
			wantErr: ErrInvalidThreshold,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfigFile(t, tt.content))
			require.Error(t, err)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
