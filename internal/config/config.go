package config

import (
	"cluster_slots/internal/engine"

	"github.com/joho/godotenv"
)

func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil {
		return err
	}
	return nil
}

type HTTPConfig interface {
	Address() string
	AllowedOrigins() []string
}

type PGConfig interface {
	DSN() string
}

type RedisConfig interface {
	Addr() string
	Password() string
	DB() int
}

// StoreConfig selects the session persistence driver.
type StoreConfig interface {
	Driver() string
	StatsWindow() int
}

type LogConfig interface {
	Level() string
}

type GameConfig interface {
	Rules() engine.Rules
}
