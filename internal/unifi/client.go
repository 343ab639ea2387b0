package unifi

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Style selects the controller API flavor.
type Style string

const (
	// StyleUniFiOS targets UDM/UDM-Pro style controllers, which proxy the
	// network application under /proxy/network.
	StyleUniFiOS Style = "unifi-os"
	// StyleLegacy targets standalone software controllers (v4/v5).
	StyleLegacy Style = "legacy"
)

// DefaultSessionMinutes is the access duration granted when the caller
// does not specify one (8 hours).
const DefaultSessionMinutes = 480

// Config holds the connection settings for a UniFi controller.
type Config struct {
	BaseURL            string // e.g. "https://unifi.example.com:8443"
	Username           string
	Password           string
	Site               string // controller site name, defaults to "default"
	Style              Style  // defaults to StyleUniFiOS
	Timeout            time.Duration
	InsecureSkipVerify bool // controllers commonly run self-signed certs

	// Optional per-device limits attached to every authorization. Zero
	// means unlimited.
	UpKbps   int // upload rate limit
	DownKbps int // download rate limit
	QuotaMB  int // transfer quota
}

// Client is a session factory for one configured controller. The client
// itself holds no connection state; every authorization attempt gets its
// own Session with its own cookie jar.
type Client struct {
	cfg    Config
	logger *zap.Logger
}

// NewClient validates the configuration and returns a controller client.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("controller base URL is required")
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("controller credentials are required")
	}
	if cfg.Site == "" {
		cfg.Site = "default"
	}
	if cfg.Style == "" {
		cfg.Style = StyleUniFiOS
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{cfg: cfg, logger: logger}, nil
}

// NewSession creates a fresh, unauthenticated controller session.
func (c *Client) NewSession() Session {
	return newSession(c.cfg, c.logger)
}

func loginURL(cfg Config) string {
	if cfg.Style == StyleUniFiOS {
		return cfg.BaseURL + "/api/auth/login"
	}
	return cfg.BaseURL + "/api/login"
}

func logoutURL(cfg Config) string {
	if cfg.Style == StyleUniFiOS {
		return cfg.BaseURL + "/api/auth/logout"
	}
	return cfg.BaseURL + "/logout"
}

func commandURL(cfg Config) string {
	if cfg.Style == StyleUniFiOS {
		return cfg.BaseURL + "/proxy/network/api/s/" + cfg.Site + "/cmd/stamgr"
	}
	return cfg.BaseURL + "/api/s/" + cfg.Site + "/cmd/stamgr"
}
