package config

// Transport selects how the tool server is exposed.
type Transport string

const (
	TransportHTTP  Transport = "http"
	TransportStdio Transport = "stdio"
)

// Config is the top-level gut-check configuration, corresponding to gut-check.yml.
type Config struct {
	Server   ServerConfig   `yaml:"server" koanf:"server"`
	Storage  StorageConfig  `yaml:"storage" koanf:"storage"`
	Analysis AnalysisConfig `yaml:"analysis" koanf:"analysis"`
	Schedule ScheduleConfig `yaml:"schedule" koanf:"schedule"`
}

// ServerConfig holds the tool server settings.
type ServerConfig struct {
	Transport       Transport `yaml:"transport" koanf:"transport"`
	Host            string    `yaml:"host" koanf:"host"`
	Port            int       `yaml:"port" koanf:"port"`
	AllowAllOrigins bool      `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

type StorageConfig struct {
	DBPath string `yaml:"db_path" koanf:"db_path"`
}

// AnalysisConfig controls how the insight engine buckets and normalizes data.
type AnalysisConfig struct {
	Timezone           string `yaml:"timezone" koanf:"timezone"`
	WindowDays         int    `yaml:"window_days" koanf:"window_days"`
	FiberNormalization string `yaml:"fiber_normalization" koanf:"fiber_normalization"`
}

// ScheduleConfig controls periodic report generation.
type ScheduleConfig struct {
	Enabled bool   `yaml:"enabled" koanf:"enabled"`
	Expr    string `yaml:"expr" koanf:"expr"`
}
