package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "client":
		return clientTemplate, nil
	case "minimal":
		return minimalTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const clientTemplate = `name = "omega.client"
client_id = 1
heartbeat_interval = "30s"
auto_logon = true

[gateway]
address = "tcp://127.0.0.1:9999"
poll_timeout = "1s"
send_hwm = 1000
dial_retry = "250ms"
dequeue_wait = "1s"

[gateway.security]
mechanism = "plain"
username = "omega"
password = "change-me"

[session]
refresh_margin = "30s"

[ops]
listen_addr = "127.0.0.1:9600"
cors_origins = ["http://localhost:3000"]

[[accounts]]
account_id = 1
api_key = "venue-api-key"
secret_key = "venue-secret-key"
passphrase = ""
`

const minimalTemplate = `name = "omega.client"
client_id = 1
auto_logon = true

[gateway]
address = "tcp://127.0.0.1:9999"

[[accounts]]
account_id = 1
api_key = "venue-api-key"
secret_key = "venue-secret-key"
`
