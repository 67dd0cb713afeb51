package config

// DefaultPath is the config file read when --config is not given.
const DefaultPath = "gut-check.yml"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Transport:       TransportHTTP,
			Host:            "0.0.0.0",
			Port:            8080,
			AllowAllOrigins: true,
		},
		Storage: StorageConfig{
			DBPath: "./data/gut-check.db",
		},
		Analysis: AnalysisConfig{
			Timezone:           "UTC",
			WindowDays:         7,
			FiberNormalization: "fixed_week",
		},
		Schedule: ScheduleConfig{
			Enabled: false,
			// Mondays at 06:00.
			Expr: "0 6 * * 1",
		},
	}
}
