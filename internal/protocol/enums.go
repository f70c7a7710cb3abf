package protocol

import "fmt"

// Exchange names a venue the gateway routes orders to.
type Exchange string

const (
	ExchangeUndefined     Exchange = "undefined"
	ExchangeKraken        Exchange = "kraken"
	ExchangeGemini        Exchange = "gemini"
	ExchangeBitfinex      Exchange = "bitfinex"
	ExchangeBinance       Exchange = "binance"
	ExchangeCoinbasePrime Exchange = "coinbasePrime"
	ExchangeBitstamp      Exchange = "bitstamp"
	ExchangeItBit         Exchange = "itBit"
)

// Validate rejects the undefined venue and unknown names.
func (e Exchange) Validate() error {
	switch e {
	case ExchangeKraken, ExchangeGemini, ExchangeBitfinex, ExchangeBinance,
		ExchangeCoinbasePrime, ExchangeBitstamp, ExchangeItBit:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidExchange, string(e))
	}
}

// Side is the buy/sell direction of an order.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

func (s Side) Validate() error {
	switch s {
	case SideBuy, SideSell:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSide, string(s))
	}
}

// OrderType selects the execution style of an order.
type OrderType string

const (
	OrderTypeMarket    OrderType = "market"
	OrderTypeLimit     OrderType = "limit"
	OrderTypeStopLoss  OrderType = "stopLoss"
	OrderTypeStopLimit OrderType = "stopLimit"
)

func (t OrderType) Validate() error {
	switch t {
	case OrderTypeMarket, OrderTypeLimit, OrderTypeStopLoss, OrderTypeStopLimit:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrderType, string(t))
	}
}

// TimeInForce bounds how long a working order stays live.
type TimeInForce string

const (
	TimeInForceGTC TimeInForce = "gtc"
	TimeInForceGTT TimeInForce = "gtt"
	TimeInForceDay TimeInForce = "day"
	TimeInForceIOC TimeInForce = "ioc"
	TimeInForceFOK TimeInForce = "fok"
)

func (t TimeInForce) Validate() error {
	switch t {
	case TimeInForceGTC, TimeInForceGTT, TimeInForceDay, TimeInForceIOC, TimeInForceFOK:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTimeInForce, string(t))
	}
}

// LeverageType distinguishes spot, venue-default margin, and custom margin.
type LeverageType string

const (
	LeverageNone            LeverageType = "none"
	LeverageExchangeDefault LeverageType = "exchangeDefault"
	LeverageCustom          LeverageType = "custom"
)

func (l LeverageType) Validate() error {
	switch l {
	case LeverageNone, LeverageExchangeDefault, LeverageCustom:
		return nil
	default:
		return fmt.Errorf("%w: leverage type %q", ErrInvalidLeverage, string(l))
	}
}

// AccountType classifies a venue account.
type AccountType string

const (
	AccountTypeUndefined AccountType = "undefined"
	AccountTypeExchange  AccountType = "exchange"
	AccountTypeMargin    AccountType = "margin"
)

// ContingentType selects the linkage between orders in a contingent batch.
type ContingentType string

const (
	ContingentBatch ContingentType = "batch"
	ContingentOCO   ContingentType = "oco"
	ContingentOPO   ContingentType = "opo"
)

func (c ContingentType) Validate() error {
	switch c {
	case ContingentBatch, ContingentOCO, ContingentOPO:
		return nil
	default:
		return fmt.Errorf("%w: type %q", ErrInvalidContingent, string(c))
	}
}

// OrderStatus is the gateway's view of an order lifecycle stage.
type OrderStatus string

const (
	StatusUndefined       OrderStatus = "undefined"
	StatusReceived        OrderStatus = "received"
	StatusAdopted         OrderStatus = "adopted"
	StatusWorking         OrderStatus = "working"
	StatusPartiallyFilled OrderStatus = "partiallyFilled"
	StatusFilled          OrderStatus = "filled"
	StatusPendingReplace  OrderStatus = "pendingReplace"
	StatusReplaced        OrderStatus = "replaced"
	StatusPendingCancel   OrderStatus = "pendingCancel"
	StatusCanceled        OrderStatus = "canceled"
	StatusRejected        OrderStatus = "rejected"
	StatusExpired         OrderStatus = "expired"
)

// ExecutionReportType names the event an execution report describes.
type ExecutionReportType string

const (
	ExecOrderAccepted   ExecutionReportType = "orderAccepted"
	ExecOrderRejected   ExecutionReportType = "orderRejected"
	ExecOrderReplaced   ExecutionReportType = "orderReplaced"
	ExecReplaceRejected ExecutionReportType = "replaceRejected"
	ExecOrderCanceled   ExecutionReportType = "orderCanceled"
	ExecCancelRejected  ExecutionReportType = "cancelRejected"
	ExecOrderFilled     ExecutionReportType = "orderFilled"
	ExecStatusUpdate    ExecutionReportType = "statusUpdate"
)
