package pubsub

import (
	"os"
	"strconv"
)

// LoadTracingConfigFromEnv reads PUBSUB_TRACING_ENABLED,
// PUBSUB_TRACING_SERVICE_NAME and PUBSUB_TRACING_ZIPKIN_URL.
func LoadTracingConfigFromEnv() TracingConfig {
	config := DefaultTracingConfig()
	if v := os.Getenv("PUBSUB_TRACING_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			config.Enabled = enabled
		}
	}
	if v := os.Getenv("PUBSUB_TRACING_SERVICE_NAME"); v != "" {
		config.ServiceName = v
	}
	if v := os.Getenv("PUBSUB_TRACING_ZIPKIN_URL"); v != "" {
		config.ZipkinURL = v
	}
	return config
}
