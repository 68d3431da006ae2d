package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/yobol/go-micrortu/runner"
)

// config holds the settings shared by all commands.
type config struct {
	LogLevel         logrus.Level
	ControlPeriod    time.Duration
	MemoryLimitPages uint32
	Steps            int
	Parallelism      int
	AllowOverwrite   bool
}

func defaultConfig() config {
	return config{
		LogLevel:         logrus.InfoLevel,
		ControlPeriod:    runner.DefaultControlPeriod,
		MemoryLimitPages: runner.DefaultMemoryLimitPages,
		Steps:            1,
		Parallelism:      4,
	}
}

// micrortu config.toml key mapping. control_period accepts "250ms" or a number of milliseconds.
type fileConfig struct {
	LogLevel         string `toml:"log_level"`
	ControlPeriod    any    `toml:"control_period"`
	MemoryLimitPages uint32 `toml:"memory_limit_pages"`
	Steps            int    `toml:"steps"`
	Parallelism      int    `toml:"parallelism"`
	AllowOverwrite   bool   `toml:"allow_overwrite"`
}

// loadConfig reads path over the defaults. Keys missing from the file keep their default.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("log_level") {
		lvl, err := logrus.ParseLevel(strings.TrimSpace(raw.LogLevel))
		if err != nil {
			return config{}, fmt.Errorf("load config: %w", err)
		}
		cfg.LogLevel = lvl
	}
	if meta.IsDefined("control_period") {
		period, err := parsePeriod(raw.ControlPeriod)
		if err != nil {
			return config{}, fmt.Errorf("load config: control_period: %w", err)
		}
		cfg.ControlPeriod = period
	}
	if meta.IsDefined("memory_limit_pages") {
		cfg.MemoryLimitPages = raw.MemoryLimitPages
	}
	if meta.IsDefined("steps") {
		cfg.Steps = raw.Steps
	}
	if meta.IsDefined("parallelism") {
		cfg.Parallelism = raw.Parallelism
	}
	if meta.IsDefined("allow_overwrite") {
		cfg.AllowOverwrite = raw.AllowOverwrite
	}

	if cfg.Steps < 0 || cfg.Parallelism < 1 {
		return config{}, fmt.Errorf("load config: steps must be >= 0 and parallelism >= 1")
	}
	return cfg, nil
}

// parsePeriod accepts a duration string or a number of milliseconds.
func parsePeriod(v any) (time.Duration, error) {
	if s, ok := v.(string); ok {
		return cast.ToDurationE(s)
	}
	ms, err := cast.ToInt64E(v)
	if err != nil {
		return 0, err
	}
	if ms <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", ms)
	}
	return time.Duration(ms) * time.Millisecond, nil
}
