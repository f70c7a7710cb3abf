package session

import (
	"sync"
	"time"

	"github.com/danmuck/omegaclient/internal/protocol"
)

// State is the session ledger shared across runtime goroutines. The
// response path writes to it as acks and grants arrive, the request
// path reads the access token while stamping headers.
type State struct {
	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	expireAt     time.Time
	accounts     []protocol.AccountInfo
}

func NewState() *State {
	return &State{}
}

// ApplyGrant stores the tokens from a successful grant. Callers decide
// what a denied grant means, the ledger never interprets one.
func (s *State) ApplyGrant(grant protocol.AuthorizationGrant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = grant.AccessToken
	s.refreshToken = grant.RefreshToken
	s.expireAt = grant.ExpireAt
}

// SetAccounts records the accounts the gateway granted at logon.
func (s *State) SetAccounts(accounts []protocol.AccountInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = append([]protocol.AccountInfo(nil), accounts...)
}

// Clear wipes tokens and accounts at logoff or session loss.
func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = ""
	s.refreshToken = ""
	s.expireAt = time.Time{}
	s.accounts = nil
}

// AccessToken returns the current token, empty before logon.
func (s *State) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the token traded in for the next grant.
func (s *State) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// ExpireAt returns when the access token lapses.
func (s *State) ExpireAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expireAt
}

// Authorized reports whether a usable access token is on hand.
func (s *State) Authorized() bool {
	return s.AccessToken() != ""
}

// Accounts returns a copy of the granted accounts.
func (s *State) Accounts() []protocol.AccountInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]protocol.AccountInfo(nil), s.accounts...)
}
