package providers

import (
	"fmt"
	"path/filepath"
	"scd/internal/structures"
	"strings"

	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "SCD_LOG_LEVEL")
	viper.BindEnv("statistic.dir", "SCD_STATS_DIR")
	viper.BindEnv("upstream.url", "SCD_UPSTREAM_URL")
	viper.BindEnv("cache.enabled", "SCD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "SCD_CACHE_SIZE")

	// Contract threshold values; a config file may override them.
	viper.SetDefault("thresholds.groupDailyQuota", 3000)
	viper.SetDefault("thresholds.groupDenseGlobal", 25)
	viper.SetDefault("thresholds.groupDenseChannel", 10)
	viper.SetDefault("thresholds.groupCoarse", 100)
	viper.SetDefault("thresholds.privateEvery", 20)
	viper.SetDefault("thresholds.loadExtreme", 90)
	viper.SetDefault("thresholds.loadHigh", 80)
	viper.SetDefault("statistic.retentionDays", 14)
	viper.SetDefault("statistic.archiveInterval", "1h")
	viper.SetDefault("statistic.gaugeInterval", "30s")
	viper.SetDefault("upstream.timeout", "10s")
	viper.SetDefault("cache.ttl", 10)

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "SendCountDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
