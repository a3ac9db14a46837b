package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Channel   ChannelConfig   `mapstructure:"channel"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Occupancy OccupancyConfig `mapstructure:"occupancy"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// ChannelConfig configures the push channel, both the client dialing
// side and the name the hub serves under.
type ChannelConfig struct {
	URL                  string        `mapstructure:"url"`
	ReconnectInterval    time.Duration `mapstructure:"reconnect_interval"`
	MaxReconnectAttempts int           `mapstructure:"max_reconnect_attempts" split_words:"true"`
	HandshakeTimeout     time.Duration `mapstructure:"handshake_timeout" split_words:"true"`
}

type RedisConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	Channel string `mapstructure:"channel"`
}

// OccupancyConfig bounds how long a viewer heartbeat counts toward a
// room's live occupancy.
type OccupancyConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads config.yaml (if present), applies defaults, then lets
// ROOMBOARD_* environment variables override individual fields.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 15*time.Second)
	viper.SetDefault("server.write_timeout", 15*time.Second)
	viper.SetDefault("channel.url", "ws://localhost:8080/ws")
	viper.SetDefault("channel.reconnect_interval", 3*time.Second)
	viper.SetDefault("channel.max_reconnect_attempts", 5)
	viper.SetDefault("channel.handshake_timeout", 5*time.Second)
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.url", "redis://localhost:6379/0")
	viper.SetDefault("redis.channel", "roomboard:bookings")
	viper.SetDefault("occupancy.ttl", 30*time.Second)
	viper.SetDefault("log.level", "info")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("roomboard", &config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	return &config, nil
}
