package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServerHost     string        `mapstructure:"server_host"`
	ServerPort     int           `mapstructure:"server_port"`
	DownloadsDir   string        `mapstructure:"downloads_dir"`
	ScraperURL     string        `mapstructure:"scraper_url"`
	ScraperTimeout time.Duration `mapstructure:"scraper_timeout"`
}

// Load reads configuration from the environment (SERVER_HOST, SERVER_PORT,
// DOWNLOADS_DIR, SCRAPER_URL, SCRAPER_TIMEOUT) and optionally from a config
// file when path is non-empty.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("server_port", 3000)
	v.SetDefault("downloads_dir", "./downloads")
	v.SetDefault("scraper_url", "http://localhost:8800")
	v.SetDefault("scraper_timeout", "5m")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Addr returns the host:port the web server binds to.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.ServerHost, strconv.Itoa(c.ServerPort))
}
