package omega

import (
	"fmt"

	"github.com/go-zeromq/zmq4"
	"github.com/go-zeromq/zmq4/security/null"
	"github.com/go-zeromq/zmq4/security/plain"
)

// Socket security mechanisms accepted in configs. Empty means null.
const (
	SecurityNull  = "null"
	SecurityPlain = "plain"
)

// SecurityConfig selects the gateway socket's security mechanism.
type SecurityConfig struct {
	Mechanism string `json:"mechanism" toml:"mechanism"`
	Username  string `json:"username"  toml:"username"`
	Password  string `json:"password"  toml:"password"`
}

func (c SecurityConfig) Validate() error {
	switch c.Mechanism {
	case "", SecurityNull:
		return nil
	case SecurityPlain:
		if c.Username == "" {
			return ErrMissingUsername
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSecurity, c.Mechanism)
	}
}

// build maps the config onto a zmq4 security implementation.
func (c SecurityConfig) build() (zmq4.Security, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	switch c.Mechanism {
	case SecurityPlain:
		return plain.Security(c.Username, c.Password), nil
	default:
		return null.Security(), nil
	}
}
