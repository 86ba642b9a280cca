package providers

import (
	"scd/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *structures.Config {
	return &structures.Config{
		WebServer: structures.Server{Host: "0.0.0.0", Port: 8087},
		Upstream:  structures.Upstream{Url: "http://127.0.0.1:5700", Timeout: 10 * time.Second},
		Statistic: structures.StatisticConfig{
			Dir:             "data/msg_stats",
			RetentionDays:   14,
			ArchiveInterval: time.Hour,
			GaugeInterval:   30 * time.Second,
		},
		Thresholds: structures.ThresholdConfig{
			GroupDailyQuota:   3000,
			GroupDenseGlobal:  25,
			GroupDenseChannel: 10,
			GroupCoarse:       100,
			PrivateEvery:      20,
			LoadExtreme:       90,
			LoadHigh:          80,
		},
		Logger: structures.LoggerConfig{Level: "info", Mode: 420, Dir: "data/logs"},
	}
}

func TestCnfValidator_Valid(t *testing.T) {
	assert.NoError(t, NewCnfValidator(validConfig()).Validate())
}

func TestCnfValidator_MissingPort(t *testing.T) {
	conf := validConfig()
	conf.WebServer.Port = 0
	assert.Error(t, NewCnfValidator(conf).Validate())
}

func TestCnfValidator_BadLogLevel(t *testing.T) {
	conf := validConfig()
	conf.Logger.Level = "verbose"
	assert.Error(t, NewCnfValidator(conf).Validate())
}

func TestCnfValidator_BadUpstreamUrl(t *testing.T) {
	conf := validConfig()
	conf.Upstream.Url = "not-a-url"
	assert.Error(t, NewCnfValidator(conf).Validate())
}
