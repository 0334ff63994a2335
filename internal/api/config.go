package api

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port the server listens on.
	Port string `mapstructure:"port" default:"8080"`
	// APIKey, when set, must be sent as X-API-Key on prediction routes.
	APIKey string `mapstructure:"api_key" default:""`
	// Mode is the gin mode: debug, release or test.
	Mode string `mapstructure:"mode" default:"release"`
	// ShutdownSeconds bounds the graceful shutdown.
	ShutdownSeconds int `mapstructure:"shutdown_seconds" default:"10"`
}
