// Package config provides configuration loading and validation for the
// trackfang CLI and MCP server.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/trackfang/pkg/metrics"
	"github.com/Sumatoshi-tech/trackfang/pkg/report"
)

// Sentinel validation errors.
var (
	ErrNoPatterns       = errors.New("classifier pattern list must not be empty")
	ErrInvalidParallel  = errors.New("max parallelism must be positive")
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrInvalidThreshold = errors.New("insight thresholds must be non-negative")
)

// Default configuration values.
const (
	defaultMaxParallel = 0 // 0 means runtime.NumCPU at engine construction
)

// Config holds all configuration for trackfang.
type Config struct {
	Quality       QualityConfig       `mapstructure:"quality"`
	Classifier    ClassifierConfig    `mapstructure:"classifier"`
	Thresholds    report.Thresholds   `mapstructure:"thresholds"`
	Engine        EngineConfig        `mapstructure:"engine"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// QualityConfig holds the quality score weights.
type QualityConfig struct {
	Weights metrics.Weights `mapstructure:"weights"`
}

// ClassifierConfig holds the rework/defect heuristic settings.
type ClassifierConfig struct {
	Patterns []string `mapstructure:"patterns"`
}

// EngineConfig holds engine execution settings.
type EngineConfig struct {
	// MaxParallel bounds the reference-extraction worker pool. Zero uses
	// the CPU count.
	MaxParallel int `mapstructure:"max_parallel"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ObservabilityConfig holds telemetry export settings.
type ObservabilityConfig struct {
	// OTLPEndpoint enables OTLP gRPC export when non-empty.
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// PrometheusAddr serves a /metrics endpoint when non-empty, e.g.
	// "localhost:9464". Used when no OTLP endpoint is configured.
	PrometheusAddr string `mapstructure:"prometheus_addr"`

	Environment string `mapstructure:"environment"`
}

// LoadConfig loads configuration from file and environment variables.
// An empty path searches the working directory and /etc/trackfang.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("trackfang")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("/etc/trackfang")
	}

	viperCfg.SetEnvPrefix("TRACKFANG")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

func setDefaults(viperCfg *viper.Viper) {
	weights := metrics.DefaultWeights()
	viperCfg.SetDefault("quality.weights.rework", weights.Rework)
	viperCfg.SetDefault("quality.weights.review", weights.Review)
	viperCfg.SetDefault("quality.weights.defect", weights.Defect)

	viperCfg.SetDefault("classifier.patterns", metrics.DefaultPatterns())

	thresholds := report.DefaultThresholds()
	viperCfg.SetDefault("thresholds.correlation_excellent", thresholds.CorrelationExcellent)
	viperCfg.SetDefault("thresholds.correlation_low", thresholds.CorrelationLow)
	viperCfg.SetDefault("thresholds.review_coverage_high", thresholds.ReviewCoverageHigh)
	viperCfg.SetDefault("thresholds.review_coverage_low", thresholds.ReviewCoverageLow)
	viperCfg.SetDefault("thresholds.first_time_quality_high", thresholds.FirstTimeQualityHigh)
	viperCfg.SetDefault("thresholds.defect_rate_high", thresholds.DefectRateHigh)
	viperCfg.SetDefault("thresholds.cycle_time_long_days", thresholds.CycleTimeLongDays)
	viperCfg.SetDefault("thresholds.cycle_time_split_days", thresholds.CycleTimeSplitDays)
	viperCfg.SetDefault("thresholds.deployment_frequency_low", thresholds.DeploymentFreqLow)

	viperCfg.SetDefault("engine.max_parallel", defaultMaxParallel)

	viperCfg.SetDefault("logging.level", "info")
	viperCfg.SetDefault("logging.format", "text")

	viperCfg.SetDefault("observability.otlp_endpoint", "")
	viperCfg.SetDefault("observability.prometheus_addr", "")
	viperCfg.SetDefault("observability.environment", "")
}

func validateConfig(config *Config) error {
	weightsErr := config.Quality.Weights.Validate()
	if weightsErr != nil {
		return weightsErr
	}

	if len(config.Classifier.Patterns) == 0 {
		return ErrNoPatterns
	}

	if config.Engine.MaxParallel < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidParallel, config.Engine.MaxParallel)
	}

	switch strings.ToLower(config.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	if config.Thresholds.DefectRateHigh < 0 || config.Thresholds.CycleTimeLongDays < 0 {
		return ErrInvalidThreshold
	}

	return nil
}
