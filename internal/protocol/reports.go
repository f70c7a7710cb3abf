package protocol

import "time"

// ServerTime carries the gateway clock.
type ServerTime struct {
	Time time.Time `json:"time"`
}

func (ServerTime) ResponseKind() ResponseKind { return KindServerTime }

// SystemMessage is an out-of-band gateway notice, usually an error.
type SystemMessage struct {
	AccountID int64  `json:"account_id,omitempty"`
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
}

func (SystemMessage) ResponseKind() ResponseKind { return KindSystem }

// AccountInfo describes one venue account the session can trade on.
type AccountInfo struct {
	AccountID int64       `json:"account_id"`
	Exchange  Exchange    `json:"exchange"`
	Type      AccountType `json:"type,omitempty"`
	Label     string      `json:"label,omitempty"`
}

// AuthorizationGrant carries session tokens. Success false denies the
// refresh and ends automatic renewal.
type AuthorizationGrant struct {
	Success      bool      `json:"success"`
	Message      string    `json:"message,omitempty"`
	AccessToken  string    `json:"access_token,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpireAt     time.Time `json:"expire_at,omitzero"`
}

func (AuthorizationGrant) ResponseKind() ResponseKind { return KindAuthorizationGrant }

// LogonAck answers a logon with the granted accounts and first tokens.
type LogonAck struct {
	Success  bool               `json:"success"`
	Message  string             `json:"message,omitempty"`
	Accounts []AccountInfo      `json:"accounts,omitempty"`
	Grant    AuthorizationGrant `json:"grant"`
}

func (LogonAck) ResponseKind() ResponseKind { return KindLogonAck }

// LogoffAck confirms session teardown.
type LogoffAck struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func (LogoffAck) ResponseKind() ResponseKind { return KindLogoffAck }

// ExecutionReport is the gateway's statement of one order's state after
// an event named by Type.
type ExecutionReport struct {
	OrderID           string              `json:"order_id"`
	ClientOrderID     string              `json:"client_order_id,omitempty"`
	ClientOrderLinkID string              `json:"client_order_link_id,omitempty"`
	AccountID         int64               `json:"account_id"`
	Symbol            string              `json:"symbol"`
	Side              Side                `json:"side"`
	OrderType         OrderType           `json:"order_type"`
	Quantity          float64             `json:"quantity"`
	Price             float64             `json:"price,omitempty"`
	StopPrice         float64             `json:"stop_price,omitempty"`
	TimeInForce       TimeInForce         `json:"time_in_force,omitempty"`
	Status            OrderStatus         `json:"status"`
	FilledQuantity    float64             `json:"filled_quantity"`
	AvgFillPrice      float64             `json:"avg_fill_price,omitempty"`
	Type              ExecutionReportType `json:"type"`
	RejectionReason   string              `json:"rejection_reason,omitempty"`
	SubmittedAt       time.Time           `json:"submitted_at,omitzero"`
	CompletedAt       time.Time           `json:"completed_at,omitzero"`
}

func (ExecutionReport) ResponseKind() ResponseKind { return KindExecutionReport }

// Balance is one currency's funds on an account.
type Balance struct {
	Currency  string  `json:"currency"`
	Full      float64 `json:"full"`
	Available float64 `json:"available"`
}

// OpenPosition is one live margin position.
type OpenPosition struct {
	Symbol       string  `json:"symbol"`
	Side         Side    `json:"side"`
	Quantity     float64 `json:"quantity"`
	InitialPrice float64 `json:"initial_price"`
	UnrealizedPL float64 `json:"unrealized_pl"`
}

// AccountBalancesReport answers GetAccountBalances.
type AccountBalancesReport struct {
	Account  AccountInfo `json:"account"`
	Balances []Balance   `json:"balances"`
}

func (AccountBalancesReport) ResponseKind() ResponseKind { return KindAccountBalancesReport }

// OpenPositionsReport answers GetOpenPositions.
type OpenPositionsReport struct {
	Account   AccountInfo    `json:"account"`
	Positions []OpenPosition `json:"positions"`
}

func (OpenPositionsReport) ResponseKind() ResponseKind { return KindOpenPositionsReport }

// WorkingOrdersReport answers GetWorkingOrders with one report per live
// order.
type WorkingOrdersReport struct {
	Account AccountInfo       `json:"account"`
	Orders  []ExecutionReport `json:"orders"`
}

func (WorkingOrdersReport) ResponseKind() ResponseKind { return KindWorkingOrdersReport }

// CompletedOrdersReport answers GetCompletedOrders.
type CompletedOrdersReport struct {
	Account AccountInfo       `json:"account"`
	Orders  []ExecutionReport `json:"orders"`
}

func (CompletedOrdersReport) ResponseKind() ResponseKind { return KindCompletedOrdersReport }

// AccountDataReport answers GetAccountData with the full snapshot.
type AccountDataReport struct {
	Account   AccountInfo       `json:"account"`
	Balances  []Balance         `json:"balances"`
	Positions []OpenPosition    `json:"positions"`
	Orders    []ExecutionReport `json:"orders"`
}

func (AccountDataReport) ResponseKind() ResponseKind { return KindAccountDataReport }

// SymbolProperties holds one symbol's trading limits on a venue.
type SymbolProperties struct {
	Symbol            string    `json:"symbol"`
	PriceIncrement    float64   `json:"price_increment"`
	QuantityIncrement float64   `json:"quantity_increment"`
	MinQuantity       float64   `json:"min_quantity"`
	MaxQuantity       float64   `json:"max_quantity"`
	MarginSupported   bool      `json:"margin_supported"`
	LeverageAllowed   []float64 `json:"leverage_allowed,omitempty"`
}

// ExchangePropertiesReport answers GetExchangeProperties.
type ExchangePropertiesReport struct {
	Exchange   Exchange           `json:"exchange"`
	Currencies []string           `json:"currencies,omitempty"`
	Symbols    []SymbolProperties `json:"symbols,omitempty"`
}

func (ExchangePropertiesReport) ResponseKind() ResponseKind { return KindExchangePropertiesReport }
