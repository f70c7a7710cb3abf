package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/danmuck/omegaclient/internal/omega"
	"github.com/danmuck/omegaclient/internal/ops"
	"github.com/danmuck/omegaclient/internal/protocol"
)

// ServiceConfig maps the on-disk config onto the runtime config. Fields
// the file omits keep the generated defaults, so a minimal file with a
// name, client id, gateway address, and one account is enough to run.
func ServiceConfig(cfg ClientConfig) (omega.ServiceConfig, error) {
	svc := omega.DefaultServiceConfig(cfg.Gateway.Address, cfg.ClientID)
	svc.Name = cfg.Name
	svc.AutoLogon = cfg.AutoLogon

	var err error
	if svc.HeartbeatInterval, err = parseDuration("heartbeat_interval", cfg.HeartbeatInterval, svc.HeartbeatInterval); err != nil {
		return omega.ServiceConfig{}, err
	}

	client := &svc.Client
	if cfg.SenderSessionID != "" {
		client.SenderSessionID = cfg.SenderSessionID
	}
	client.Credentials = Credentials(cfg.Accounts)
	if client.DequeueWait, err = parseDuration("dequeue_wait", cfg.Gateway.DequeueWait, client.DequeueWait); err != nil {
		return omega.ServiceConfig{}, err
	}
	if client.Session.Margin, err = parseDuration("refresh_margin", cfg.Session.RefreshMargin, client.Session.Margin); err != nil {
		return omega.ServiceConfig{}, err
	}

	conn := &client.Connection
	if cfg.Gateway.Identity != "" {
		conn.Identity = cfg.Gateway.Identity
	}
	if conn.PollTimeout, err = parseDuration("poll_timeout", cfg.Gateway.PollTimeout, conn.PollTimeout); err != nil {
		return omega.ServiceConfig{}, err
	}
	if cfg.Gateway.SendHWM > 0 {
		conn.SendHWM = cfg.Gateway.SendHWM
	}
	if conn.DialRetry, err = parseDuration("dial_retry", cfg.Gateway.DialRetry, conn.DialRetry); err != nil {
		return omega.ServiceConfig{}, err
	}
	conn.Security = omega.SecurityConfig{
		Mechanism: cfg.Gateway.Security.Mechanism,
		Username:  cfg.Gateway.Security.Username,
		Password:  cfg.Gateway.Security.Password,
	}

	svc.Ops = ops.Config{
		ListenAddr:  cfg.Ops.ListenAddr,
		Name:        cfg.Name,
		CorsOrigins: cfg.Ops.CorsOrigins,
	}
	return svc, nil
}

// Credentials maps account entries onto wire credentials.
func Credentials(entries []AccountConfig) []protocol.AccountCredentials {
	creds := make([]protocol.AccountCredentials, 0, len(entries))
	for _, entry := range entries {
		creds = append(creds, protocol.AccountCredentials{
			AccountID:  entry.AccountID,
			APIKey:     entry.APIKey,
			SecretKey:  entry.SecretKey,
			Passphrase: entry.Passphrase,
		})
	}
	return creds
}

func parseDuration(field, raw string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config %s invalid: %w", field, err)
	}
	return d, nil
}
