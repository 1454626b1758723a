package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode           string        `mapstructure:"mode"`
	Port           int           `mapstructure:"port"`
	StaticPath     string        `mapstructure:"static_path"`
	ReadLimit      int64         `mapstructure:"read_limit"`
	PingPeriod     time.Duration `mapstructure:"ping_period"`
	PongWait       time.Duration `mapstructure:"pong_wait"`
	WriteWait      time.Duration `mapstructure:"write_wait"`
	SendBuffer     int           `mapstructure:"send_buffer"`
	RateLimit      float64       `mapstructure:"rate_limit"`
	RateBurst      int           `mapstructure:"rate_burst"`
	SlowConsumer   string        `mapstructure:"slow_consumer"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	Secret         string        `mapstructure:"secret"`
	LogLevel       string        `mapstructure:"log_level"`
}

// Load reads config/config.<CONFIG_ENV>.yaml relative to the working directory.
func Load() (*Config, error) {
	return LoadFrom("config")
}

// LoadFrom reads config.<CONFIG_ENV>.yaml from dir. A missing file is not an
// error; defaults and the PORT env variable still apply.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := filepath.Join(dir, fmt.Sprintf("config.%s.yaml", env))
	v.SetConfigFile(fileName)

	v.SetDefault("mode", "release")
	v.SetDefault("port", 5500)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 65536)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("pong_wait", "60s")
	v.SetDefault("write_wait", "5s")
	v.SetDefault("send_buffer", 64)
	v.SetDefault("rate_limit", 50.0)
	v.SetDefault("rate_burst", 100)
	v.SetDefault("slow_consumer", "drop")
	v.SetDefault("allowed_origins", []string{})
	v.SetDefault("secret", "change-me")
	v.SetDefault("log_level", "info")

	if err := v.BindEnv("port", "PORT"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config %s: %w", fileName, err)
		}
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("static", cfg.StaticPath).Msg("config ready")
	return &cfg, nil
}

var ErrInvalid = errors.New("invalid config")

func (c *Config) Validate() error {
	switch c.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("%w: mode %q", ErrInvalid, c.Mode)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d", ErrInvalid, c.Port)
	}
	if c.ReadLimit <= 0 {
		return fmt.Errorf("%w: read_limit must be positive", ErrInvalid)
	}
	if c.PongWait <= 0 || c.PingPeriod <= 0 || c.PingPeriod >= c.PongWait {
		return fmt.Errorf("%w: ping_period %s must be below pong_wait %s", ErrInvalid, c.PingPeriod, c.PongWait)
	}
	if c.WriteWait <= 0 {
		return fmt.Errorf("%w: write_wait must be positive", ErrInvalid)
	}
	if c.SendBuffer <= 0 {
		return fmt.Errorf("%w: send_buffer must be positive", ErrInvalid)
	}
	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		return fmt.Errorf("%w: rate_limit and rate_burst must be positive", ErrInvalid)
	}
	switch c.SlowConsumer {
	case "drop", "kick":
	default:
		return fmt.Errorf("%w: slow_consumer %q", ErrInvalid, c.SlowConsumer)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	return nil
}
