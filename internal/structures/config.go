package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
	// zstd encoder level: fastest, default, better or best.
	Compression string `yaml:"compression" validate:"in:fastest,default,better,best"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type InjectorConfig struct {
	Asset         string        `yaml:"asset" validate:"required|address"`
	Self          string        `yaml:"self" validate:"required|address"`
	Owner         string        `yaml:"owner" validate:"required|address"`
	Keeper        string        `yaml:"keeper" validate:"required|address"`
	MinWaitPeriod time.Duration `yaml:"minWaitPeriod"`
}

type ChainConfig struct {
	Mode       string        `yaml:"mode" validate:"required|in:memory,gateway"`
	GatewayURL string        `yaml:"gatewayURL"`
	Retries    int           `yaml:"retries"`
	Timeout    time.Duration `yaml:"timeout"`
	// Memory mode simulation: gauges created at startup, their epoch length
	// and the initial asset balance credited to the injector.
	EpochDuration time.Duration `yaml:"epochDuration"`
	Receivers     []string      `yaml:"receivers"`
	Funding       string        `yaml:"funding"`
}

type KeeperConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

type AuthConfig struct {
	Enabled bool   `yaml:"enabled"`
	Secret  string `yaml:"secret"`
	Issuer  string `yaml:"issuer"`
}

type HistoryConfig struct {
	Path string `yaml:"path"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Injector    InjectorConfig `yaml:"injector"`
	Chain       ChainConfig    `yaml:"chain"`
	Keeper      KeeperConfig   `yaml:"keeper"`
	Auth        AuthConfig     `yaml:"auth"`
	History     HistoryConfig  `yaml:"history"`
	WebServer   Server         `yaml:"webServer"`
	Persistence Persistence    `yaml:"persistence"`
	Logger      LoggerConfig   `yaml:"logger"`
	Cache       CacheConfig    `yaml:"cache"`
	Metrics     MetricsConfig  `yaml:"metrics"`
}
