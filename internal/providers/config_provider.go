package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"sprintd/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "SPRINTD_LOG_LEVEL")
	viper.BindEnv("feed.upstreamUrl", "SPRINTD_UPSTREAM_URL")
	viper.BindEnv("feed.pollInterval", "SPRINTD_POLL_INTERVAL")
	viper.BindEnv("persistence.saveInterval", "SPRINTD_SAVE_INTERVAL")
	viper.BindEnv("cache.enabled", "SPRINTD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "SPRINTD_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	applyTimelineDefaults(&conf.Timeline)
	if conf.Feed.FetchTimeout <= 0 {
		conf.Feed.FetchTimeout = 10 * time.Second
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "SprintTimelineDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}

func applyTimelineDefaults(t *structures.TimelineConfig) {
	if t.DefaultZoom == "" {
		t.DefaultZoom = "week"
	}
	if t.ContainerWidth <= 0 {
		t.ContainerWidth = 1200
	}
	if t.RowHeight <= 0 {
		t.RowHeight = 60
	}
	if t.HeaderHeight <= 0 {
		t.HeaderHeight = 40
	}
	if t.MaxConcurrentSprints <= 0 {
		t.MaxConcurrentSprints = 3
	}
	if t.PaddingDays <= 0 {
		t.PaddingDays = 7
	}
	if t.Horizon <= 0 {
		t.Horizon = 30 * 24 * time.Hour
	}
}
