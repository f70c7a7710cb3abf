package omega

import "github.com/danmuck/omegaclient/internal/protocol"

// ResponseMeta carries the envelope identity fields alongside every
// dispatched payload.
type ResponseMeta struct {
	ClientID        int64
	SenderSessionID string
	RequestID       uint64
}

// ResponseHandler receives dispatched responses, one method per kind.
// Callbacks run on the receiver goroutine; anything slow belongs on the
// far side of a channel.
type ResponseHandler interface {
	OnHeartbeat(hb protocol.Heartbeat, meta ResponseMeta)
	OnTestMessage(msg protocol.TestMessage, meta ResponseMeta)
	OnServerTime(report protocol.ServerTime, meta ResponseMeta)
	OnSystemMessage(msg protocol.SystemMessage, meta ResponseMeta)
	OnLogonAck(ack protocol.LogonAck, meta ResponseMeta)
	OnLogoffAck(ack protocol.LogoffAck, meta ResponseMeta)
	OnExecutionReport(report protocol.ExecutionReport, meta ResponseMeta)
	OnAccountDataReport(report protocol.AccountDataReport, meta ResponseMeta)
	OnAccountBalancesReport(report protocol.AccountBalancesReport, meta ResponseMeta)
	OnOpenPositionsReport(report protocol.OpenPositionsReport, meta ResponseMeta)
	OnWorkingOrdersReport(report protocol.WorkingOrdersReport, meta ResponseMeta)
	OnCompletedOrdersReport(report protocol.CompletedOrdersReport, meta ResponseMeta)
	OnExchangePropertiesReport(report protocol.ExchangePropertiesReport, meta ResponseMeta)
	OnAuthorizationGrant(grant protocol.AuthorizationGrant, meta ResponseMeta)
}

// NoopHandler ignores every response. Embed it and override only the
// callbacks a client cares about.
type NoopHandler struct{}

var _ ResponseHandler = NoopHandler{}

func (NoopHandler) OnHeartbeat(protocol.Heartbeat, ResponseMeta)                               {}
func (NoopHandler) OnTestMessage(protocol.TestMessage, ResponseMeta)                           {}
func (NoopHandler) OnServerTime(protocol.ServerTime, ResponseMeta)                             {}
func (NoopHandler) OnSystemMessage(protocol.SystemMessage, ResponseMeta)                       {}
func (NoopHandler) OnLogonAck(protocol.LogonAck, ResponseMeta)                                 {}
func (NoopHandler) OnLogoffAck(protocol.LogoffAck, ResponseMeta)                               {}
func (NoopHandler) OnExecutionReport(protocol.ExecutionReport, ResponseMeta)                   {}
func (NoopHandler) OnAccountDataReport(protocol.AccountDataReport, ResponseMeta)               {}
func (NoopHandler) OnAccountBalancesReport(protocol.AccountBalancesReport, ResponseMeta)       {}
func (NoopHandler) OnOpenPositionsReport(protocol.OpenPositionsReport, ResponseMeta)           {}
func (NoopHandler) OnWorkingOrdersReport(protocol.WorkingOrdersReport, ResponseMeta)           {}
func (NoopHandler) OnCompletedOrdersReport(protocol.CompletedOrdersReport, ResponseMeta)       {}
func (NoopHandler) OnExchangePropertiesReport(protocol.ExchangePropertiesReport, ResponseMeta) {}
func (NoopHandler) OnAuthorizationGrant(protocol.AuthorizationGrant, ResponseMeta)             {}
