package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Printers  PrintersConfig  `yaml:"printers"`
	Webhooks  []WebhookConfig `yaml:"webhooks"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type DatabaseConfig struct {
	Path      string `yaml:"path"`
	UploadDir string `yaml:"upload_dir"`
}

// SchedulerConfig controls queue classification and assignment policy.
// StrictCapabilityMatch disables the relaxed fallback that hands a job to a
// printer missing a required capability when no capable printer is available.
type SchedulerConfig struct {
	ConfigCacheTTL        time.Duration `yaml:"config_cache_ttl"`
	StrictCapabilityMatch bool          `yaml:"strict_capability_match"`
}

type PrintersConfig struct {
	ConnectionTimeout time.Duration     `yaml:"connection_timeout"`
	Addresses         map[string]string `yaml:"addresses"`
	SimulateProgress  bool              `yaml:"simulate_progress"`
	ProgressInterval  time.Duration     `yaml:"progress_interval"`
}

type WebhookConfig struct {
	URL    string   `yaml:"url"`
	Secret string   `yaml:"secret"`
	Events []string `yaml:"events"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Path:      "./data/printhub.db",
			UploadDir: "./data/orders",
		},
		Scheduler: SchedulerConfig{
			ConfigCacheTTL:        60 * time.Second,
			StrictCapabilityMatch: false,
		},
		Printers: PrintersConfig{
			ConnectionTimeout: 10 * time.Second,
			SimulateProgress:  true,
			ProgressInterval:  2 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func Load(configPath string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PRINTHUB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("PRINTHUB_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}

	if v := os.Getenv("PRINTHUB_UPLOAD_DIR"); v != "" {
		cfg.Database.UploadDir = v
	}

	if v := os.Getenv("PRINTHUB_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ReadTimeout < 0 {
		return fmt.Errorf("server read timeout must be non-negative")
	}

	if c.Server.WriteTimeout < 0 {
		return fmt.Errorf("server write timeout must be non-negative")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	if c.Scheduler.ConfigCacheTTL < 0 {
		return fmt.Errorf("config cache ttl must be non-negative")
	}

	if c.Printers.ConnectionTimeout < 0 {
		return fmt.Errorf("printer connection timeout must be non-negative")
	}

	if c.Printers.ProgressInterval < 0 {
		return fmt.Errorf("progress interval must be non-negative")
	}

	for i, w := range c.Webhooks {
		if w.URL == "" {
			return fmt.Errorf("webhook %d: url is required", i)
		}
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", c.Logging.Level)
	}

	return nil
}
