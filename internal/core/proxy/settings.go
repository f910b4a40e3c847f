package proxy

import (
	"net"
	"net/url"

	"parts-checkout/internal/core/config"
)

// Settings describes the upstream egress proxy used by headless browser sessions.
type Settings struct {
	Enabled  bool
	Host     string
	Port     string
	Username string
	Password string
}

// SettingsFrom maps the PROXY_* configuration block.
func SettingsFrom(cfg config.ProxyConfig) Settings {
	return Settings{
		Enabled:  cfg.Enabled,
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
	}
}

func (s Settings) HasProxy() bool {
	return s.Enabled && s.Host != "" && s.Port != ""
}

// NeedsAuth reports whether Chromium must go through a local forwarder,
// since it cannot take proxy credentials on the command line.
func (s Settings) NeedsAuth() bool {
	return s.HasProxy() && s.Username != ""
}

// Addr returns "http://host:port" without credentials.
func (s Settings) Addr() string {
	if !s.HasProxy() {
		return ""
	}
	return (&url.URL{Scheme: "http", Host: net.JoinHostPort(s.Host, s.Port)}).String()
}

// URL returns the upstream URL including credentials when set.
func (s Settings) URL() *url.URL {
	if !s.HasProxy() {
		return nil
	}
	u := &url.URL{Scheme: "http", Host: net.JoinHostPort(s.Host, s.Port)}
	if s.Username != "" {
		u.User = url.UserPassword(s.Username, s.Password)
	}
	return u
}
