package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/omegaclient/internal/omega"
	"github.com/danmuck/omegaclient/internal/ops"
	"github.com/danmuck/omegaclient/internal/protocol"
)

// omegad config.toml key mapping onto the runtime service config.
type fileConfig struct {
	Name              string                        `toml:"name"`
	ClientID          int64                         `toml:"client_id"`
	SenderSessionID   string                        `toml:"sender_session_id"`
	HeartbeatInterval string                        `toml:"heartbeat_interval"`
	AutoLogon         bool                          `toml:"auto_logon"`
	Gateway           gatewayConfig                 `toml:"gateway"`
	Session           sessionConfig                 `toml:"session"`
	Ops               ops.Config                    `toml:"ops"`
	Accounts          []protocol.AccountCredentials `toml:"accounts"`
}

type gatewayConfig struct {
	Address     string               `toml:"address"`
	Identity    string               `toml:"identity"`
	PollTimeout string               `toml:"poll_timeout"`
	SendHWM     int                  `toml:"send_hwm"`
	DialRetry   string               `toml:"dial_retry"`
	DequeueWait string               `toml:"dequeue_wait"`
	Security    omega.SecurityConfig `toml:"security"`
}

type sessionConfig struct {
	RefreshMargin string `toml:"refresh_margin"`
}

// omegad loader for TOML config with default overlay. Keys the file
// leaves out keep the runtime defaults.
func loadServiceConfig(path string) (omega.ServiceConfig, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return omega.ServiceConfig{}, fmt.Errorf("load omegad config: %w", err)
	}
	if raw.ClientID == 0 {
		return omega.ServiceConfig{}, fmt.Errorf("omegad config missing client_id")
	}
	if strings.TrimSpace(raw.Gateway.Address) == "" {
		return omega.ServiceConfig{}, fmt.Errorf("omegad config missing gateway address")
	}

	cfg := omega.DefaultServiceConfig(strings.TrimSpace(raw.Gateway.Address), raw.ClientID)

	if meta.IsDefined("name") {
		if name := strings.TrimSpace(raw.Name); name != "" {
			cfg.Name = name
		}
	}
	if meta.IsDefined("auto_logon") {
		cfg.AutoLogon = raw.AutoLogon
	}
	if err := overlayDuration(meta, raw.HeartbeatInterval, &cfg.HeartbeatInterval, "heartbeat_interval"); err != nil {
		return omega.ServiceConfig{}, err
	}

	if meta.IsDefined("sender_session_id") {
		if id := strings.TrimSpace(raw.SenderSessionID); id != "" {
			cfg.Client.SenderSessionID = id
		}
	}
	cfg.Client.Credentials = raw.Accounts
	if err := overlayDuration(meta, raw.Gateway.DequeueWait, &cfg.Client.DequeueWait, "gateway", "dequeue_wait"); err != nil {
		return omega.ServiceConfig{}, err
	}
	if err := overlayDuration(meta, raw.Session.RefreshMargin, &cfg.Client.Session.Margin, "session", "refresh_margin"); err != nil {
		return omega.ServiceConfig{}, err
	}

	if meta.IsDefined("gateway", "identity") {
		cfg.Client.Connection.Identity = strings.TrimSpace(raw.Gateway.Identity)
	}
	if err := overlayDuration(meta, raw.Gateway.PollTimeout, &cfg.Client.Connection.PollTimeout, "gateway", "poll_timeout"); err != nil {
		return omega.ServiceConfig{}, err
	}
	if meta.IsDefined("gateway", "send_hwm") {
		cfg.Client.Connection.SendHWM = raw.Gateway.SendHWM
	}
	if err := overlayDuration(meta, raw.Gateway.DialRetry, &cfg.Client.Connection.DialRetry, "gateway", "dial_retry"); err != nil {
		return omega.ServiceConfig{}, err
	}
	if meta.IsDefined("gateway", "security") {
		cfg.Client.Connection.Security = raw.Gateway.Security
	}

	if meta.IsDefined("ops") {
		cfg.Ops = raw.Ops
		if cfg.Ops.Name == "" {
			cfg.Ops.Name = cfg.Name
		}
	}

	return cfg, nil
}

func overlayDuration(meta toml.MetaData, raw string, out *time.Duration, key ...string) error {
	if !meta.IsDefined(key...) {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("parse %s: %w", strings.Join(key, "."), err)
	}
	*out = d
	return nil
}
