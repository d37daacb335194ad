package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
	ArchiveDir   string        `yaml:"archiveDir"`
	ArchiveTTL   time.Duration `yaml:"archiveTTL"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type FeedConfig struct {
	UpstreamURL  string        `yaml:"upstreamUrl" validate:"required|fullUrl"`
	PollInterval time.Duration `yaml:"pollInterval" validate:"required|min:1"`
	FetchTimeout time.Duration `yaml:"fetchTimeout"`
}

type TimelineConfig struct {
	DefaultZoom          string        `yaml:"defaultZoom" validate:"required|in:hour,day,week,month,quarter"`
	ContainerWidth       int           `yaml:"containerWidth"`
	RowHeight            int           `yaml:"rowHeight"`
	HeaderHeight         int           `yaml:"headerHeight"`
	MaxConcurrentSprints int           `yaml:"maxConcurrentSprints"`
	ToleranceHours       int           `yaml:"toleranceHours"`
	PaddingDays          int           `yaml:"paddingDays"`
	Horizon              time.Duration `yaml:"horizon"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Feed        FeedConfig     `yaml:"feed"`
	Timeline    TimelineConfig `yaml:"timeline"`
	WebServer   Server         `yaml:"webServer"`
	Persistence Persistence    `yaml:"persistence"`
	Logger      LoggerConfig   `yaml:"logger"`
	Cache       CacheConfig    `yaml:"cache"`
	Metrics     MetricsConfig  `yaml:"metrics"`
}
