package protocol

import (
	"fmt"
	"time"
)

// Logon opens a trading session for a set of venue accounts.
type Logon struct {
	Credentials []AccountCredentials `json:"credentials"`
}

func (Logon) RequestKind() RequestKind { return RequestLogon }

func (l Logon) Validate() error {
	if len(l.Credentials) == 0 {
		return ErrMissingCredentials
	}
	for i, c := range l.Credentials {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("credential %d: %w", i, err)
		}
	}
	return nil
}

// Logoff closes the trading session.
type Logoff struct{}

func (Logoff) RequestKind() RequestKind { return RequestLogoff }

// Heartbeat is the keepalive exchanged in both directions.
type Heartbeat struct{}

func (Heartbeat) RequestKind() RequestKind   { return RequestHeartbeat }
func (Heartbeat) ResponseKind() ResponseKind { return KindHeartbeat }

// TestMessage is an echo payload, the same shape travels both directions.
type TestMessage struct {
	Message string `json:"message"`
}

func (TestMessage) RequestKind() RequestKind   { return RequestTest }
func (TestMessage) ResponseKind() ResponseKind { return KindTest }

// GetServerTime asks the gateway for its clock.
type GetServerTime struct{}

func (GetServerTime) RequestKind() RequestKind { return RequestServerTime }

// GetAccountData asks for the full account snapshot: balances, positions,
// and working orders in one report.
type GetAccountData struct {
	AccountID int64 `json:"account_id"`
}

func (GetAccountData) RequestKind() RequestKind { return RequestAccountData }

func (g GetAccountData) Validate() error { return requireAccount(g.AccountID) }

// GetAccountBalances asks for per-currency balances.
type GetAccountBalances struct {
	AccountID int64 `json:"account_id"`
}

func (GetAccountBalances) RequestKind() RequestKind { return RequestAccountBalances }

func (g GetAccountBalances) Validate() error { return requireAccount(g.AccountID) }

// GetOpenPositions asks for open margin positions.
type GetOpenPositions struct {
	AccountID int64 `json:"account_id"`
}

func (GetOpenPositions) RequestKind() RequestKind { return RequestOpenPositions }

func (g GetOpenPositions) Validate() error { return requireAccount(g.AccountID) }

// GetWorkingOrders asks for all live orders on an account.
type GetWorkingOrders struct {
	AccountID int64 `json:"account_id"`
}

func (GetWorkingOrders) RequestKind() RequestKind { return RequestWorkingOrders }

func (g GetWorkingOrders) Validate() error { return requireAccount(g.AccountID) }

// GetOrderStatus asks for the current state of one order.
type GetOrderStatus struct {
	AccountID int64  `json:"account_id"`
	OrderID   string `json:"order_id"`
}

func (GetOrderStatus) RequestKind() RequestKind { return RequestOrderStatus }

func (g GetOrderStatus) Validate() error {
	if err := requireAccount(g.AccountID); err != nil {
		return err
	}
	if g.OrderID == "" {
		return ErrMissingOrderID
	}
	return nil
}

// GetCompletedOrders asks for terminal orders, newest first. Count and
// Since both zero means the gateway default window.
type GetCompletedOrders struct {
	AccountID int64     `json:"account_id"`
	Count     int       `json:"count,omitempty"`
	Since     time.Time `json:"since,omitzero"`
}

func (GetCompletedOrders) RequestKind() RequestKind { return RequestCompletedOrders }

func (g GetCompletedOrders) Validate() error { return requireAccount(g.AccountID) }

// OrderRef identifies one order inside a mass status query.
type OrderRef struct {
	OrderID       string `json:"order_id"`
	ClientOrderID string `json:"client_order_id,omitempty"`
}

// GetOrderMassStatus asks for the state of several orders at once.
type GetOrderMassStatus struct {
	AccountID int64      `json:"account_id"`
	Orders    []OrderRef `json:"orders"`
}

func (GetOrderMassStatus) RequestKind() RequestKind { return RequestOrderMassStatus }

func (g GetOrderMassStatus) Validate() error {
	if err := requireAccount(g.AccountID); err != nil {
		return err
	}
	if len(g.Orders) == 0 {
		return ErrMissingOrderID
	}
	for i, ref := range g.Orders {
		if ref.OrderID == "" {
			return fmt.Errorf("order %d: %w", i, ErrMissingOrderID)
		}
	}
	return nil
}

// GetExchangeProperties asks for venue trading rules and symbol limits.
type GetExchangeProperties struct {
	Exchange Exchange `json:"exchange"`
}

func (GetExchangeProperties) RequestKind() RequestKind { return RequestExchangeProperties }

func (g GetExchangeProperties) Validate() error { return g.Exchange.Validate() }

// AuthorizationRefresh trades the refresh token for a new access token
// before the current one expires.
type AuthorizationRefresh struct {
	RefreshToken string `json:"refresh_token"`
}

func (AuthorizationRefresh) RequestKind() RequestKind { return RequestAuthorizationRefresh }

func (a AuthorizationRefresh) Validate() error {
	if a.RefreshToken == "" {
		return ErrMissingRefreshToken
	}
	return nil
}

func requireAccount(id int64) error {
	if id == 0 {
		return ErrMissingAccountID
	}
	return nil
}
