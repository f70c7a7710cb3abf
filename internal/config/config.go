package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ClientConfig is the on-disk shape of one client deployment. Durations
// are strings in Go syntax ("30s", "250ms") so the file stays readable;
// zero values fall back to the runtime defaults.
type ClientConfig struct {
	Name              string          `toml:"name"`
	ClientID          int64           `toml:"client_id"`
	SenderSessionID   string          `toml:"sender_session_id"`
	HeartbeatInterval string          `toml:"heartbeat_interval"`
	AutoLogon         bool            `toml:"auto_logon"`
	Gateway           GatewayConfig   `toml:"gateway"`
	Session           SessionConfig   `toml:"session"`
	Ops               OpsConfig       `toml:"ops"`
	Accounts          []AccountConfig `toml:"accounts"`
}

type GatewayConfig struct {
	Address     string         `toml:"address"`
	Identity    string         `toml:"identity"`
	PollTimeout string         `toml:"poll_timeout"`
	SendHWM     int            `toml:"send_hwm"`
	DialRetry   string         `toml:"dial_retry"`
	DequeueWait string         `toml:"dequeue_wait"`
	Security    SecurityConfig `toml:"security"`
}

type SecurityConfig struct {
	Mechanism string `toml:"mechanism"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

type SessionConfig struct {
	RefreshMargin string `toml:"refresh_margin"`
}

type OpsConfig struct {
	ListenAddr  string   `toml:"listen_addr"`
	CorsOrigins []string `toml:"cors_origins"`
}

type AccountConfig struct {
	AccountID  int64  `toml:"account_id"`
	APIKey     string `toml:"api_key"`
	SecretKey  string `toml:"secret_key"`
	Passphrase string `toml:"passphrase"`
}

func LoadClientConfig(path string) (ClientConfig, error) {
	var cfg ClientConfig
	if err := loadToml(path, &cfg); err != nil {
		return ClientConfig{}, err
	}
	if cfg.Name == "" {
		cfg.Name = "omega.client"
	}
	if err := ValidateClientConfig(cfg); err != nil {
		return ClientConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateClientConfig(cfg ClientConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("client config missing name")
	}
	if cfg.ClientID == 0 {
		return fmt.Errorf("client config missing client_id")
	}
	if strings.TrimSpace(cfg.Gateway.Address) == "" {
		return fmt.Errorf("client config missing gateway address")
	}
	for i, account := range cfg.Accounts {
		if err := ValidateAccountEntry(account); err != nil {
			return fmt.Errorf("account[%d] invalid: %w", i, err)
		}
	}
	return nil
}

func ValidateAccountEntry(cfg AccountConfig) error {
	if cfg.AccountID == 0 {
		return fmt.Errorf("account_id is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return fmt.Errorf("api_key is required")
	}
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return fmt.Errorf("secret_key is required")
	}
	return nil
}
