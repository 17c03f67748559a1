package env

import (
	"fmt"
	"os"
	"strconv"

	"cluster_slots/internal/config"
)

const (
	storeDriverEnvName = "STORE_DRIVER"
	statsWindowEnvName = "STATS_WINDOW"

	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"

	defaultStatsWindow = 500
)

type storeConfig struct {
	driver string
	window int
}

func NewStoreConfig() (config.StoreConfig, error) {
	driver := os.Getenv(storeDriverEnvName)
	switch driver {
	case "":
		driver = DriverMemory
	case DriverMemory, DriverPostgres, DriverRedis:
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}

	window := defaultStatsWindow
	if raw := os.Getenv(statsWindowEnvName); len(raw) > 0 {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid stats window %q", raw)
		}
		window = n
	}

	return &storeConfig{driver: driver, window: window}, nil
}

func (cfg *storeConfig) Driver() string {
	return cfg.driver
}

func (cfg *storeConfig) StatsWindow() int {
	return cfg.window
}
