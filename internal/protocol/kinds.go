package protocol

// RequestKind tags an outbound request payload.
type RequestKind string

const (
	RequestHeartbeat            RequestKind = "heartbeat"
	RequestTest                 RequestKind = "test"
	RequestServerTime           RequestKind = "getServerTime"
	RequestLogon                RequestKind = "logon"
	RequestLogoff               RequestKind = "logoff"
	RequestPlaceOrder           RequestKind = "placeSingleOrder"
	RequestPlaceContingentOrder RequestKind = "placeContingentOrder"
	RequestReplaceOrder         RequestKind = "replaceOrder"
	RequestCancelOrder          RequestKind = "cancelOrder"
	RequestCancelAllOrders      RequestKind = "cancelAllOrders"
	RequestAccountData          RequestKind = "getAccountData"
	RequestAccountBalances      RequestKind = "getAccountBalances"
	RequestOpenPositions        RequestKind = "getOpenPositions"
	RequestWorkingOrders        RequestKind = "getWorkingOrders"
	RequestOrderStatus          RequestKind = "getOrderStatus"
	RequestCompletedOrders      RequestKind = "getCompletedOrders"
	RequestOrderMassStatus      RequestKind = "getOrderMassStatus"
	RequestExchangeProperties   RequestKind = "getExchangeProperties"
	RequestAuthorizationRefresh RequestKind = "authorizationRefresh"
)

// ResponseKind tags an inbound response payload.
type ResponseKind string

const (
	KindHeartbeat                ResponseKind = "heartbeat"
	KindTest                     ResponseKind = "test"
	KindServerTime               ResponseKind = "serverTime"
	KindSystem                   ResponseKind = "system"
	KindLogonAck                 ResponseKind = "logonAck"
	KindLogoffAck                ResponseKind = "logoffAck"
	KindExecutionReport          ResponseKind = "executionReport"
	KindAccountDataReport        ResponseKind = "accountDataReport"
	KindAccountBalancesReport    ResponseKind = "accountBalancesReport"
	KindOpenPositionsReport      ResponseKind = "openPositionsReport"
	KindWorkingOrdersReport      ResponseKind = "workingOrdersReport"
	KindCompletedOrdersReport    ResponseKind = "completedOrdersReport"
	KindExchangePropertiesReport ResponseKind = "exchangePropertiesReport"
	KindAuthorizationGrant       ResponseKind = "authorizationGrant"
)

// responseKinds is the closed registry of kinds the receiver dispatches.
var responseKinds = map[ResponseKind]struct{}{
	KindHeartbeat:                {},
	KindTest:                     {},
	KindServerTime:               {},
	KindSystem:                   {},
	KindLogonAck:                 {},
	KindLogoffAck:                {},
	KindExecutionReport:          {},
	KindAccountDataReport:        {},
	KindAccountBalancesReport:    {},
	KindOpenPositionsReport:      {},
	KindWorkingOrdersReport:      {},
	KindCompletedOrdersReport:    {},
	KindExchangePropertiesReport: {},
	KindAuthorizationGrant:       {},
}

// KnownResponseKind reports whether kind belongs to the dispatch registry.
func KnownResponseKind(kind ResponseKind) bool {
	_, ok := responseKinds[kind]
	return ok
}

func (k RequestKind) String() string { return string(k) }

func (k ResponseKind) String() string { return string(k) }

// Request is an outbound payload carried under a stamped header.
type Request interface {
	RequestKind() RequestKind
}

// Response is an inbound payload carried inside a ResponseEnvelope.
type Response interface {
	ResponseKind() ResponseKind
}
