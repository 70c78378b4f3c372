// Package constants holds process-wide values shared across commands and
// packages.
package constants

const (
	// AppName is the service identity used in logs, token issuance and
	// telemetry resources.
	AppName = "hamyar_backend"

	// ConfigName and ConfigFormat describe the config file viper looks for
	// (config.yaml in the configured search path).
	ConfigName   = "config"
	ConfigFormat = "yaml"

	EnvProduction  = "production"
	EnvDevelopment = "development"
)
