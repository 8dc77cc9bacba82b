package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	HostTerminal = "terminal"
	HostHTTP     = "http"
)

type Config struct {
	LogLevel string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	Host     string `yaml:"host" env:"HOST_MODE" env-default:"terminal"`
	HTTPPort string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Redis    Redis  `yaml:"redis"`
	Oracle   Oracle `yaml:"oracle"`
	Bot      Bot    `yaml:"bot"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Oracle struct {
	Cache    bool          `yaml:"cache" env:"ORACLE_CACHE" env-default:"false"`
	CacheTTL time.Duration `yaml:"cache-ttl" env:"ORACLE_CACHE_TTL" env-default:"0s"`
}

type Bot struct {
	Enabled bool   `yaml:"enabled" env:"BOT_ENABLED" env-default:"false"`
	Mark    string `yaml:"mark" env:"BOT_MARK" env-default:"O"`
	Level   string `yaml:"level" env:"BOT_LEVEL" env-default:"optimal"`
	Seed    uint64 `yaml:"seed" env:"BOT_SEED" env-default:"0"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if config.Host != HostTerminal && config.Host != HostHTTP {
		return nil, fmt.Errorf("unknown host %q, expected %q or %q", config.Host, HostTerminal, HostHTTP)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
