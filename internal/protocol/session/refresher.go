package session

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/danmuck/omegaclient/internal/protocol"
)

// RefreshPhase is the renewal loop position.
type RefreshPhase string

const (
	RefreshIdle      RefreshPhase = "idle"
	RefreshWaiting   RefreshPhase = "waiting"
	RefreshRequested RefreshPhase = "requested"
	RefreshStopped   RefreshPhase = "stopped"
)

// RefreshRequester queues an authorization refresh request. Satisfied by
// the request sender.
type RefreshRequester interface {
	RequestAuthorizationRefresh() (protocol.AuthorizationRefresh, error)
}

// Refresher keeps the access token alive by scheduling a refresh request
// one margin ahead of every granted expiry.
//
// The loop is Idle -> Waiting -> Requested and back to Waiting when the
// next grant lands. A denied grant or Stop parks it at Stopped for the
// rest of the session.
type Refresher struct {
	cfg    Config
	state  *State
	sender RefreshRequester
	log    zerolog.Logger

	mu    sync.Mutex
	phase RefreshPhase
	timer *time.Timer
}

func NewRefresher(state *State, sender RefreshRequester, cfg Config, log zerolog.Logger) (*Refresher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Refresher{
		cfg:    cfg,
		state:  state,
		sender: sender,
		log:    log,
		phase:  RefreshIdle,
	}, nil
}

// HandleGrant applies one grant outcome. A successful grant updates the
// ledger and re-arms the timer, a denial ends renewal for the session.
func (r *Refresher) HandleGrant(grant protocol.AuthorizationGrant) {
	if !grant.Success {
		r.log.Warn().Str("reason", grant.Message).Msg("session.Refresher.grant denied, renewal ended")
		r.Stop()
		return
	}
	r.state.ApplyGrant(grant)
	r.Schedule(grant.ExpireAt)
}

// Schedule arms the refresh timer margin ahead of expireAt. Re-arming
// while a timer is pending replaces it.
func (r *Refresher) Schedule(expireAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase == RefreshStopped {
		return
	}
	if r.timer != nil {
		r.timer.Stop()
	}
	wait := refreshWait(expireAt, time.Now(), r.cfg.Margin)
	r.phase = RefreshWaiting
	r.timer = time.AfterFunc(wait, r.fire)
	r.log.Debug().Time("expire_at", expireAt).Dur("wait", wait).Msg("session.Refresher.schedule armed")
}

func (r *Refresher) fire() {
	r.mu.Lock()
	if r.phase != RefreshWaiting {
		r.mu.Unlock()
		return
	}
	r.phase = RefreshRequested
	r.mu.Unlock()

	if _, err := r.sender.RequestAuthorizationRefresh(); err != nil {
		r.log.Error().Err(err).Msg("session.Refresher.fire refresh request failed, renewal ended")
		r.Stop()
		return
	}
	r.log.Debug().Msg("session.Refresher.fire refresh requested")
}

// Stop ends renewal. Safe to call repeatedly and from any goroutine.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase == RefreshStopped {
		return
	}
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.phase = RefreshStopped
}

// Phase returns the current renewal loop position.
func (r *Refresher) Phase() RefreshPhase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// refreshWait is the sleep before the next refresh: time to expiry minus
// the margin, clamped at zero so an already-stale grant refreshes
// immediately instead of scheduling in the past.
func refreshWait(expireAt, now time.Time, margin time.Duration) time.Duration {
	wait := expireAt.Sub(now) - margin
	if wait < 0 {
		return 0
	}
	return wait
}
