package protocol

import (
	"fmt"
	"time"
)

// AccountCredentials authenticate one venue account during logon.
type AccountCredentials struct {
	AccountID  int64  `json:"account_id" toml:"account_id"`
	APIKey     string `json:"api_key" toml:"api_key"`
	SecretKey  string `json:"secret_key" toml:"secret_key"`
	Passphrase string `json:"passphrase,omitempty" toml:"passphrase"`
}

// Validate checks the fields every venue requires. Passphrase stays
// optional, only some venues issue one.
func (c AccountCredentials) Validate() error {
	if c.AccountID == 0 {
		return ErrMissingAccountID
	}
	if c.APIKey == "" {
		return fmt.Errorf("%w: account %d", ErrMissingAPIKey, c.AccountID)
	}
	if c.SecretKey == "" {
		return fmt.Errorf("%w: account %d", ErrMissingSecretKey, c.AccountID)
	}
	return nil
}

// Order is a single new-order instruction.
type Order struct {
	AccountID         int64        `json:"account_id"`
	ClientOrderID     string       `json:"client_order_id"`
	ClientOrderLinkID string       `json:"client_order_link_id,omitempty"`
	Symbol            string       `json:"symbol"`
	Side              Side         `json:"side"`
	OrderType         OrderType    `json:"order_type"`
	Quantity          float64      `json:"quantity"`
	Price             float64      `json:"price,omitempty"`
	StopPrice         float64      `json:"stop_price,omitempty"`
	TimeInForce       TimeInForce  `json:"time_in_force"`
	ExpireAt          time.Time    `json:"expire_at,omitzero"`
	LeverageType      LeverageType `json:"leverage_type"`
	Leverage          float64      `json:"leverage,omitempty"`
}

func (Order) RequestKind() RequestKind { return RequestPlaceOrder }

// Validate enforces the per-field rules the gateway rejects orders over.
// Price fields are conditional on order type, expiry on time in force.
func (o Order) Validate() error {
	if o.AccountID == 0 {
		return ErrMissingAccountID
	}
	if o.Symbol == "" {
		return ErrMissingSymbol
	}
	if err := o.Side.Validate(); err != nil {
		return err
	}
	if err := o.OrderType.Validate(); err != nil {
		return err
	}
	if o.Quantity <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidQuantity, o.Quantity)
	}
	switch o.OrderType {
	case OrderTypeLimit, OrderTypeStopLimit:
		if o.Price <= 0 {
			return fmt.Errorf("%w: %v", ErrInvalidPrice, o.Price)
		}
	}
	switch o.OrderType {
	case OrderTypeStopLoss, OrderTypeStopLimit:
		if o.StopPrice <= 0 {
			return fmt.Errorf("%w: stop %v", ErrInvalidPrice, o.StopPrice)
		}
	}
	if err := o.TimeInForce.Validate(); err != nil {
		return err
	}
	if o.TimeInForce == TimeInForceGTT && o.ExpireAt.IsZero() {
		return ErrMissingExpireTime
	}
	if err := o.LeverageType.Validate(); err != nil {
		return err
	}
	if o.LeverageType == LeverageCustom && o.Leverage <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidLeverage, o.Leverage)
	}
	return nil
}

// ContingentOrder links several orders under one batch, OCO, or OPO rule.
type ContingentOrder struct {
	Type   ContingentType `json:"type"`
	Orders []Order        `json:"orders"`
}

func (ContingentOrder) RequestKind() RequestKind { return RequestPlaceContingentOrder }

// Validate checks the linkage rule and every member order. OCO and OPO
// pair exactly two orders, a batch needs at least two.
func (c ContingentOrder) Validate() error {
	if err := c.Type.Validate(); err != nil {
		return err
	}
	switch c.Type {
	case ContingentOCO, ContingentOPO:
		if len(c.Orders) != 2 {
			return fmt.Errorf("%w: %s wants 2 orders, got %d", ErrInvalidContingent, c.Type, len(c.Orders))
		}
	default:
		if len(c.Orders) < 2 {
			return fmt.Errorf("%w: batch wants at least 2 orders, got %d", ErrInvalidContingent, len(c.Orders))
		}
	}
	for i, order := range c.Orders {
		if err := order.Validate(); err != nil {
			return fmt.Errorf("order %d: %w", i, err)
		}
	}
	return nil
}

// ReplaceOrder restates the mutable fields of a working order.
type ReplaceOrder struct {
	AccountID   int64       `json:"account_id"`
	OrderID     string      `json:"order_id"`
	OrderType   OrderType   `json:"order_type"`
	Quantity    float64     `json:"quantity"`
	Price       float64     `json:"price,omitempty"`
	StopPrice   float64     `json:"stop_price,omitempty"`
	TimeInForce TimeInForce `json:"time_in_force"`
	ExpireAt    time.Time   `json:"expire_at,omitzero"`
}

func (ReplaceOrder) RequestKind() RequestKind { return RequestReplaceOrder }

func (r ReplaceOrder) Validate() error {
	if r.AccountID == 0 {
		return ErrMissingAccountID
	}
	if r.OrderID == "" {
		return ErrMissingOrderID
	}
	if err := r.OrderType.Validate(); err != nil {
		return err
	}
	if r.Quantity <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidQuantity, r.Quantity)
	}
	switch r.OrderType {
	case OrderTypeLimit, OrderTypeStopLimit:
		if r.Price <= 0 {
			return fmt.Errorf("%w: %v", ErrInvalidPrice, r.Price)
		}
	}
	if err := r.TimeInForce.Validate(); err != nil {
		return err
	}
	if r.TimeInForce == TimeInForceGTT && r.ExpireAt.IsZero() {
		return ErrMissingExpireTime
	}
	return nil
}

// CancelOrder asks the gateway to pull one working order.
type CancelOrder struct {
	AccountID int64  `json:"account_id"`
	OrderID   string `json:"order_id"`
}

func (CancelOrder) RequestKind() RequestKind { return RequestCancelOrder }

func (c CancelOrder) Validate() error {
	if c.AccountID == 0 {
		return ErrMissingAccountID
	}
	if c.OrderID == "" {
		return ErrMissingOrderID
	}
	return nil
}

// CancelAllOrders pulls every working order on an account, optionally
// narrowed to a symbol or side.
type CancelAllOrders struct {
	AccountID int64  `json:"account_id"`
	Symbol    string `json:"symbol,omitempty"`
	Side      Side   `json:"side,omitempty"`
}

func (CancelAllOrders) RequestKind() RequestKind { return RequestCancelAllOrders }

func (c CancelAllOrders) Validate() error {
	if c.AccountID == 0 {
		return ErrMissingAccountID
	}
	if c.Side != "" {
		return c.Side.Validate()
	}
	return nil
}
