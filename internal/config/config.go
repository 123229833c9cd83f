package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the full application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Chat     ChatConfig     `yaml:"chat"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port           int    `yaml:"port"`
	AllowedOrigins string `yaml:"allowed_origins"`
}

// DatabaseConfig MySQL settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// RedisConfig Redis settings
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// JWTConfig token settings
type JWTConfig struct {
	Secret     string        `yaml:"secret"`
	AccessTTL  time.Duration `yaml:"-"`
	RefreshTTL time.Duration `yaml:"-"`
}

// UnmarshalYAML parses TTL fields from duration strings ("15m").
// Absent fields keep their defaults.
func (c *JWTConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Secret     string `yaml:"secret"`
		AccessTTL  string `yaml:"access_ttl"`
		RefreshTTL string `yaml:"refresh_ttl"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Secret != "" {
		c.Secret = raw.Secret
	}
	if raw.AccessTTL != "" {
		d, err := time.ParseDuration(raw.AccessTTL)
		if err != nil {
			return fmt.Errorf("jwt.access_ttl: %w", err)
		}
		c.AccessTTL = d
	}
	if raw.RefreshTTL != "" {
		d, err := time.ParseDuration(raw.RefreshTTL)
		if err != nil {
			return fmt.Errorf("jwt.refresh_ttl: %w", err)
		}
		c.RefreshTTL = d
	}
	return nil
}

// ChatConfig messaging core knobs
type ChatConfig struct {
	// EditWindow bounds how long a sender may edit or delete their own
	// message. Admins are not subject to the window.
	EditWindow time.Duration `yaml:"-"`
	// GroupMaxMembers is enforced at join/add time.
	GroupMaxMembers int `yaml:"group_max_members"`
	// ForbiddenWords drive the default content policy.
	ForbiddenWords []string `yaml:"forbidden_words"`
	// RejectForbidden selects reject-vs-flag behavior on a policy match.
	RejectForbidden bool `yaml:"reject_forbidden"`
	// LoginCodeTTL bounds SMS one-time-code validity.
	LoginCodeTTL time.Duration `yaml:"-"`
}

// UnmarshalYAML parses duration fields from strings ("5m"). Absent
// fields keep their defaults.
func (c *ChatConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		EditWindow      string   `yaml:"edit_window"`
		GroupMaxMembers *int     `yaml:"group_max_members"`
		ForbiddenWords  []string `yaml:"forbidden_words"`
		RejectForbidden *bool    `yaml:"reject_forbidden"`
		LoginCodeTTL    string   `yaml:"login_code_ttl"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.EditWindow != "" {
		d, err := time.ParseDuration(raw.EditWindow)
		if err != nil {
			return fmt.Errorf("chat.edit_window: %w", err)
		}
		c.EditWindow = d
	}
	if raw.GroupMaxMembers != nil {
		c.GroupMaxMembers = *raw.GroupMaxMembers
	}
	if raw.ForbiddenWords != nil {
		c.ForbiddenWords = raw.ForbiddenWords
	}
	if raw.RejectForbidden != nil {
		c.RejectForbidden = *raw.RejectForbidden
	}
	if raw.LoginCodeTTL != "" {
		d, err := time.ParseDuration(raw.LoginCodeTTL)
		if err != nil {
			return fmt.Errorf("chat.login_code_ttl: %w", err)
		}
		c.LoginCodeTTL = d
	}
	return nil
}

// Load reads a yaml config file and applies env var overrides
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required (JWT_SECRET)")
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Database: DatabaseConfig{
			Host: "127.0.0.1",
			Port: 3306,
			User: "worktalk",
			Name: "worktalk",
		},
		Redis: RedisConfig{Host: "127.0.0.1", Port: 6379, PoolSize: 10},
		JWT: JWTConfig{
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 7 * 24 * time.Hour,
		},
		Chat: ChatConfig{
			EditWindow:      5 * time.Minute,
			GroupMaxMembers: 200,
			RejectForbidden: true,
			LoginCodeTTL:    3 * time.Minute,
		},
	}
}

// applyEnvOverrides lets deployment env vars win over yaml values
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = p
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		cfg.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Redis.Port = p
		}
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
}

// DSN builds the MySQL connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User, d.Password, d.Host, d.Port, d.Name)
}
