package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Ranking       RankingConfig       `mapstructure:"ranking"`
	ResponseCache ResponseCacheConfig `mapstructure:"response_cache"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout int `mapstructure:"write_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RankingConfig holds settings for the external ranking origin and its
// tiered cache. The short TTL keeps scores fresh; the long TTL serves as a
// stale fallback when the origin is down.
type RankingConfig struct {
	OriginURL string `mapstructure:"origin_url"`
	Timeout   int    `mapstructure:"timeout"`   // milliseconds
	ShortTTL  int    `mapstructure:"short_ttl"` // seconds
	LongTTL   int    `mapstructure:"long_ttl"`  // seconds
}

func (r RankingConfig) OriginTimeout() time.Duration {
	return time.Duration(r.Timeout) * time.Millisecond
}

func (r RankingConfig) ShortTTLDuration() time.Duration {
	return time.Duration(r.ShortTTL) * time.Second
}

func (r RankingConfig) LongTTLDuration() time.Duration {
	return time.Duration(r.LongTTL) * time.Second
}

// ResponseCacheConfig holds settings for the filter-keyed response cache.
type ResponseCacheConfig struct {
	TTL int `mapstructure:"ttl"` // seconds
}

func (c ResponseCacheConfig) TTLDuration() time.Duration {
	return time.Duration(c.TTL) * time.Second
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
