package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v2"
)

type RateLimitRule struct {
	Limit    int   `yaml:"limit"`
	WindowMs int64 `yaml:"window_ms"`
}

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Address string `yaml:"address"`
	} `yaml:"server"`
	Database struct {
		URL                string `yaml:"url"`
		MaxOpenConns       int    `yaml:"max_open_conns"`
		StatementTimeoutMs int    `yaml:"statement_timeout_ms"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Search struct {
		FullTextEnabled  bool `yaml:"fulltext_enabled"`
		SubstringEnabled bool `yaml:"substring_enabled"`
		TrigramEnabled   bool `yaml:"trigram_enabled"`
		CountCacheTTLSec int  `yaml:"count_cache_ttl_sec"`
	} `yaml:"search"`
	RateLimit struct {
		Search  RateLimitRule `yaml:"search"`
		Count   RateLimitRule `yaml:"count"`
		Suggest RateLimitRule `yaml:"suggest"`
	} `yaml:"rate_limit"`
}

func LoadConfig() Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}

	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("Failed to unmarshal config data: %v", err)
	}

	// Secrets and deploy-specific values come from the environment.
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.Database.URL = url
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if pass := os.Getenv("REDIS_PASSWORD"); pass != "" {
		cfg.Redis.Password = pass
	}
	if env := os.Getenv("APP_ENV"); env != "" {
		cfg.Environment = env
	}

	applyDefaults(&cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":4001"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.StatementTimeoutMs == 0 {
		cfg.Database.StatementTimeoutMs = 5000
	}
	if cfg.Search.CountCacheTTLSec == 0 {
		cfg.Search.CountCacheTTLSec = 300
	}
	if cfg.RateLimit.Search.Limit == 0 {
		cfg.RateLimit.Search = RateLimitRule{Limit: 60, WindowMs: 60000}
	}
	if cfg.RateLimit.Count.Limit == 0 {
		cfg.RateLimit.Count = RateLimitRule{Limit: 10, WindowMs: 60000}
	}
	if cfg.RateLimit.Suggest.Limit == 0 {
		cfg.RateLimit.Suggest = RateLimitRule{Limit: 60, WindowMs: 60000}
	}
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}
