package env

import (
	"net"
	"os"
	"strings"

	"cluster_slots/internal/config"
)

const (
	httpHostEnvName    = "HTTP_HOST"
	httpPortEnvName    = "HTTP_PORT"
	corsOriginsEnvName = "CORS_ORIGINS"

	defaultHTTPPort = "8080"
)

type httpConfig struct {
	host    string
	port    string
	origins []string
}

func NewHTTPConfig() (config.HTTPConfig, error) {
	port := os.Getenv(httpPortEnvName)
	if len(port) == 0 {
		port = defaultHTTPPort
	}

	origins := []string{"*"}
	if raw := os.Getenv(corsOriginsEnvName); len(raw) > 0 {
		origins = origins[:0]
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	return &httpConfig{
		host:    os.Getenv(httpHostEnvName),
		port:    port,
		origins: origins,
	}, nil
}

func (cfg *httpConfig) Address() string {
	return net.JoinHostPort(cfg.host, cfg.port)
}

func (cfg *httpConfig) AllowedOrigins() []string {
	return cfg.origins
}
