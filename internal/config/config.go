package config

import "fmt"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		Gateway: GatewayConfig{
			Port: 17017,
			Bind: "loopback",
		},
		Directory: DirectoryConfig{
			TTLMinutes: 15,
		},
		Runtime: RuntimeConfig{
			URL: "ws://127.0.0.1:18789/runtime",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
