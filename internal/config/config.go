// Package config loads portal configuration from config.yaml with
// PORTAL_* environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full portal configuration, threaded explicitly into the
// component constructors.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	DB      DBConfig      `mapstructure:"db"`
	UniFi   UniFiConfig   `mapstructure:"unifi"`
	Portal  PortalConfig  `mapstructure:"portal"`
	Webhook WebhookConfig `mapstructure:"webhook"`
	Admin   AdminConfig   `mapstructure:"admin"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

// UniFiConfig points the portal at one wireless controller. An empty
// host disables controller calls (noop mode).
type UniFiConfig struct {
	Host               string `mapstructure:"host"`
	Username           string `mapstructure:"username"`
	Password           string `mapstructure:"password"`
	Site               string `mapstructure:"site"`
	Style              string `mapstructure:"style"` // "unifi-os" or "legacy"
	TimeoutSeconds     int    `mapstructure:"timeout_seconds"`
	InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify"`
	UpKbps             int    `mapstructure:"up_kbps"`   // 0 = unlimited
	DownKbps           int    `mapstructure:"down_kbps"` // 0 = unlimited
	QuotaMB            int    `mapstructure:"quota_mb"`  // 0 = unlimited
}

// Timeout returns the controller call timeout as a duration.
func (c UniFiConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type PortalConfig struct {
	DefaultRedirect string `mapstructure:"default_redirect"`
	SessionMinutes  int    `mapstructure:"session_minutes"`
}

type WebhookConfig struct {
	URL            string `mapstructure:"url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Timeout returns the webhook delivery timeout as a duration.
func (c WebhookConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type AdminConfig struct {
	PasswordHash  string `mapstructure:"password_hash"` // bcrypt; empty disables the admin API
	KeysDir       string `mapstructure:"keys_dir"`
	TokenIssuer   string `mapstructure:"token_issuer"`
	TokenTTLHours int    `mapstructure:"token_ttl_hours"`
}

// TokenTTL returns the admin token lifetime as a duration.
func (c AdminConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

// Load reads config.yaml from dir (missing file is fine, defaults and
// environment apply) and returns the resolved configuration.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir == "" {
		dir = "./config"
	}
	v.AddConfigPath(dir)

	v.SetEnvPrefix("PORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("db.path", "./portal.db")

	v.SetDefault("unifi.host", "")
	v.SetDefault("unifi.username", "")
	v.SetDefault("unifi.password", "")
	v.SetDefault("unifi.site", "default")
	v.SetDefault("unifi.style", "unifi-os")
	v.SetDefault("unifi.timeout_seconds", 30)
	v.SetDefault("unifi.insecure_skip_verify", false)
	v.SetDefault("unifi.up_kbps", 0)
	v.SetDefault("unifi.down_kbps", 0)
	v.SetDefault("unifi.quota_mb", 0)

	v.SetDefault("portal.default_redirect", "https://www.google.com")
	v.SetDefault("portal.session_minutes", 480)

	v.SetDefault("webhook.url", "")
	v.SetDefault("webhook.timeout_seconds", 5)

	v.SetDefault("admin.password_hash", "")
	v.SetDefault("admin.keys_dir", "./keys")
	v.SetDefault("admin.token_issuer", "portal-backend")
	v.SetDefault("admin.token_ttl_hours", 24)
}
