package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadServiceConfigOverrides(t *testing.T) {
	path := writeConfig(t, `name = "desk-7"
client_id = 7
sender_session_id = "session-7"
heartbeat_interval = "5s"
auto_logon = false

[gateway]
address = "tcp://gateway:9999"
identity = "desk-7-a"
poll_timeout = "500ms"
send_hwm = 2000
dial_retry = "100ms"
dequeue_wait = "250ms"

[gateway.security]
mechanism = "plain"
username = "desk"
password = "secret"

[session]
refresh_margin = "10s"

[ops]
listen_addr = "127.0.0.1:9700"

[[accounts]]
account_id = 11
api_key = "key"
secret_key = "secret"
`)

	cfg, err := loadServiceConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Name != "desk-7" {
		t.Fatalf("unexpected name: %q", cfg.Name)
	}
	if cfg.AutoLogon {
		t.Fatalf("expected auto logon disabled")
	}
	if cfg.HeartbeatInterval != 5*time.Second {
		t.Fatalf("unexpected heartbeat: %v", cfg.HeartbeatInterval)
	}
	if cfg.Client.ClientID != 7 {
		t.Fatalf("unexpected client id: %d", cfg.Client.ClientID)
	}
	if cfg.Client.SenderSessionID != "session-7" {
		t.Fatalf("unexpected session id: %q", cfg.Client.SenderSessionID)
	}
	if cfg.Client.DequeueWait != 250*time.Millisecond {
		t.Fatalf("unexpected dequeue wait: %v", cfg.Client.DequeueWait)
	}
	if cfg.Client.Session.Margin != 10*time.Second {
		t.Fatalf("unexpected refresh margin: %v", cfg.Client.Session.Margin)
	}
	if cfg.Client.Connection.GatewayAddr != "tcp://gateway:9999" {
		t.Fatalf("unexpected gateway: %q", cfg.Client.Connection.GatewayAddr)
	}
	if cfg.Client.Connection.Identity != "desk-7-a" {
		t.Fatalf("unexpected identity: %q", cfg.Client.Connection.Identity)
	}
	if cfg.Client.Connection.PollTimeout != 500*time.Millisecond {
		t.Fatalf("unexpected poll timeout: %v", cfg.Client.Connection.PollTimeout)
	}
	if cfg.Client.Connection.SendHWM != 2000 {
		t.Fatalf("unexpected hwm: %d", cfg.Client.Connection.SendHWM)
	}
	if cfg.Client.Connection.Security.Mechanism != "plain" {
		t.Fatalf("unexpected security mechanism: %q", cfg.Client.Connection.Security.Mechanism)
	}
	if cfg.Ops.ListenAddr != "127.0.0.1:9700" {
		t.Fatalf("unexpected ops listen: %q", cfg.Ops.ListenAddr)
	}
	if cfg.Ops.Name != "desk-7" {
		t.Fatalf("unexpected ops name: %q", cfg.Ops.Name)
	}
	if len(cfg.Client.Credentials) != 1 || cfg.Client.Credentials[0].AccountID != 11 {
		t.Fatalf("unexpected credentials: %+v", cfg.Client.Credentials)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoadServiceConfigDefaults(t *testing.T) {
	path := writeConfig(t, `client_id = 3

[gateway]
address = "tcp://127.0.0.1:9999"
`)

	cfg, err := loadServiceConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Name != "omega.client" {
		t.Fatalf("unexpected default name: %q", cfg.Name)
	}
	if !cfg.AutoLogon {
		t.Fatalf("expected default auto logon")
	}
	if cfg.HeartbeatInterval != 30*time.Second {
		t.Fatalf("unexpected default heartbeat: %v", cfg.HeartbeatInterval)
	}
	if cfg.Client.Connection.PollTimeout != time.Second {
		t.Fatalf("unexpected default poll timeout: %v", cfg.Client.Connection.PollTimeout)
	}
	if cfg.Client.SenderSessionID == "" {
		t.Fatalf("expected generated session id")
	}
	if cfg.Ops.ListenAddr != "" {
		t.Fatalf("expected ops disabled by default")
	}
}

func TestLoadServiceConfigMissingRequired(t *testing.T) {
	path := writeConfig(t, `name = "incomplete"

[gateway]
address = "tcp://127.0.0.1:9999"
`)
	if _, err := loadServiceConfig(path); err == nil {
		t.Fatalf("expected missing client_id error")
	}

	path = writeConfig(t, `client_id = 2`)
	if _, err := loadServiceConfig(path); err == nil {
		t.Fatalf("expected missing gateway address error")
	}
}

func TestLoadServiceConfigBadDuration(t *testing.T) {
	path := writeConfig(t, `client_id = 2
heartbeat_interval = "soon"

[gateway]
address = "tcp://127.0.0.1:9999"
`)
	if _, err := loadServiceConfig(path); err == nil {
		t.Fatalf("expected duration parse error")
	}
}
