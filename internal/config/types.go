package config

// Config is the root configuration for the bridge.
type Config struct {
	Gateway   GatewayConfig   `yaml:"gateway,omitempty"`
	Platform  PlatformConfig  `yaml:"platform,omitempty"`
	Directory DirectoryConfig `yaml:"directory,omitempty"`
	Runtime   RuntimeConfig   `yaml:"runtime,omitempty"`
	Logging   LoggingConfig   `yaml:"logging,omitempty"`
}

// GatewayConfig controls the bridge's inbound HTTP server.
type GatewayConfig struct {
	Port           int      `yaml:"port,omitempty"`
	Bind           string   `yaml:"bind,omitempty"` // "loopback" | "lan" | "custom"
	CustomBindHost string   `yaml:"customBindHost,omitempty"`
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty"`
}

// PlatformConfig holds the chat platform's trust material and behavior
// gates.
type PlatformConfig struct {
	// PublicKey is the platform's PEM-encoded public key, used to verify
	// command JWTs and signed notification envelopes.
	PublicKey string `yaml:"publicKey,omitempty"`

	// DefaultAPIGateway backs requests that arrive without a gateway URL.
	DefaultAPIGateway string `yaml:"defaultApiGateway,omitempty"`

	WelcomeOnInstall  bool `yaml:"welcomeOnInstall,omitempty"`
	WelcomeNewMembers bool `yaml:"welcomeNewMembers,omitempty"`
}

// DirectoryConfig controls the remote user directory lookup.
type DirectoryConfig struct {
	Host       string `yaml:"host,omitempty"`
	TTLMinutes int    `yaml:"ttlMinutes,omitempty"`
}

// RuntimeConfig points at the agent runtime endpoint.
type RuntimeConfig struct {
	URL string `yaml:"url,omitempty"` // websocket URL, ws:// or wss://
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"` // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
}
