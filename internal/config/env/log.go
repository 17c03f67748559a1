package env

import (
	"fmt"
	"os"

	"cluster_slots/internal/config"
)

const (
	logLevelEnvName = "LOG_LEVEL"
)

type logConfig struct {
	level string
}

func NewLogConfig() (config.LogConfig, error) {
	level := os.Getenv(logLevelEnvName)
	switch level {
	case "":
		level = "info"
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	return &logConfig{level: level}, nil
}

func (cfg *logConfig) Level() string {
	return cfg.level
}
