package session

import (
	"errors"
	"time"
)

var ErrInvalidRefreshMargin = errors.New("session: invalid refresh margin")

// Config defines token renewal behavior.
type Config struct {
	// Margin is how long before token expiry the refresh request goes
	// out. Too small risks an expired token on a slow gateway, too
	// large refreshes more often than needed.
	Margin time.Duration
}

// DefaultConfig returns a margin wide enough for one slow round trip.
func DefaultConfig() Config {
	return Config{Margin: 30 * time.Second}
}

func (c Config) Validate() error {
	if c.Margin <= 0 {
		return ErrInvalidRefreshMargin
	}
	return nil
}
