package commands

import (
	"context"
	"os"

	"github.com/Sumatoshi-tech/trackfang/pkg/config"
	"github.com/Sumatoshi-tech/trackfang/pkg/observability"
	"github.com/Sumatoshi-tech/trackfang/pkg/version"
)

// initObservability builds observability providers from the application
// config. Environment variables override empty config values so standard
// OTel deployment setups work without a config file.
func initObservability(cfg *config.Config, mode observability.AppMode) (observability.Providers, error) {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = mode
	obsCfg.Environment = cfg.Observability.Environment
	obsCfg.PrometheusAddr = cfg.Observability.PrometheusAddr
	obsCfg.LogLevel = observability.ParseLogLevel(cfg.Logging.Level)
	obsCfg.LogJSON = cfg.Logging.Format == "json"

	obsCfg.OTLPEndpoint = cfg.Observability.OTLPEndpoint
	if obsCfg.OTLPEndpoint == "" {
		obsCfg.OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	}

	obsCfg.OTLPInsecure = os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true"

	return observability.Init(obsCfg)
}

// shutdownObservability flushes telemetry, logging failures instead of
// propagating them.
func shutdownObservability(providers observability.Providers) {
	err := providers.Shutdown(context.Background())
	if err != nil {
		providers.Logger.Warn("observability shutdown failed", "error", err)
	}
}
