package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Upstream struct {
	Url     string        `yaml:"url" validate:"required|fullUrl"`
	Timeout time.Duration `yaml:"timeout" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type StatisticConfig struct {
	Dir             string        `yaml:"dir" validate:"required|unixPath"`
	RetentionDays   int           `yaml:"retentionDays" validate:"required|min:1"`
	ArchiveInterval time.Duration `yaml:"archiveInterval" validate:"required|min:1"`
	GaugeInterval   time.Duration `yaml:"gaugeInterval" validate:"required|min:1"`
}

type ThresholdConfig struct {
	GroupDailyQuota   int     `yaml:"groupDailyQuota" validate:"required|min:1"`
	GroupDenseGlobal  int     `yaml:"groupDenseGlobal" validate:"required|min:1"`
	GroupDenseChannel int     `yaml:"groupDenseChannel" validate:"required|min:1"`
	GroupCoarse       int     `yaml:"groupCoarse" validate:"required|min:1"`
	PrivateEvery      int     `yaml:"privateEvery" validate:"required|min:1"`
	LoadExtreme       float64 `yaml:"loadExtreme" validate:"required|min:1"`
	LoadHigh          float64 `yaml:"loadHigh" validate:"required|min:1"`
}

type InterceptorConfig struct {
	BanPrefixes []string `yaml:"banPrefixes"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
	TTL     int  `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server            `yaml:"webServer"`
	Upstream    Upstream          `yaml:"upstream"`
	Statistic   StatisticConfig   `yaml:"statistic"`
	Thresholds  ThresholdConfig   `yaml:"thresholds"`
	Interceptor InterceptorConfig `yaml:"interceptor"`
	Logger      LoggerConfig      `yaml:"logger"`
	Cache       CacheConfig       `yaml:"cache"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}
