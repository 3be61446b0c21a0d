package main

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds everything the app needs to start. Values come from a
// config.yml in the working directory, with environment variables (prefix
// WEDFEST_) overriding the file, which in turn overrides the dev defaults.
type Config struct {
	Port      int    `mapstructure:"port"`
	Env       string `mapstructure:"env"`
	ClientURL string `mapstructure:"client_url"`

	// Bcrypt hash of the single shared admin password.
	AdminPasswordHash string `mapstructure:"admin_password_hash"`
	JWTSecret         string `mapstructure:"jwt_secret"`

	Database PostgresConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	AI       AIConfig       `mapstructure:"ai"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

// RedisConfig configures the optional like leaderboard mirror. An empty Addr
// disables it and the leaderboard falls back to the database counters.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AIConfig configures the optional AI features. An empty APIKey disables
// them and every AI endpoint serves its canned fallback.
type AIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

func (c Config) IsProd() bool {
	return c.Env == "prod"
}

func (pc PostgresConfig) ConnectionInfo() string {
	if pc.Password == "" {
		return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable", pc.Host, pc.Port, pc.User, pc.Name)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", pc.Host, pc.Port, pc.User, pc.Password, pc.Name)
}

// LoadConfig reads config.yml if present, otherwise falls back to the dev
// defaults. In production a config file is required, since the defaults carry
// placeholder secrets.
func LoadConfig(prodRequired bool) (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("wedfest")
	v.AutomaticEnv()

	v.SetDefault("port", 1111)
	v.SetDefault("env", "dev")
	v.SetDefault("client_url", "http://localhost:3000")
	// "wedding" hashed, dev only.
	v.SetDefault("admin_password_hash", "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")
	v.SetDefault("jwt_secret", "secret-jwt-key")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "wedfest")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.model", "")

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound || prodRequired {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
