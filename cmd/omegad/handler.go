package main

import (
	"github.com/rs/zerolog"

	"github.com/danmuck/omegaclient/internal/omega"
	"github.com/danmuck/omegaclient/internal/protocol"
)

// reportHandler logs every response the daemon receives. It is the
// daemon's stand-in for an application handler; embedders override the
// callbacks they act on.
type reportHandler struct {
	omega.NoopHandler
	log zerolog.Logger
}

func (h *reportHandler) OnLogonAck(ack protocol.LogonAck, meta omega.ResponseMeta) {
	event := h.log.Info()
	if !ack.Success {
		event = h.log.Error()
	}
	event.Bool("success", ack.Success).Str("message", ack.Message).Int("accounts", len(ack.Accounts)).Msg("omegad logon ack")
}

func (h *reportHandler) OnLogoffAck(ack protocol.LogoffAck, meta omega.ResponseMeta) {
	h.log.Info().Bool("success", ack.Success).Str("message", ack.Message).Msg("omegad logoff ack")
}

func (h *reportHandler) OnSystemMessage(msg protocol.SystemMessage, meta omega.ResponseMeta) {
	h.log.Warn().Int("error_code", msg.ErrorCode).Str("message", msg.Message).Int64("account_id", msg.AccountID).Msg("omegad system message")
}

func (h *reportHandler) OnServerTime(st protocol.ServerTime, meta omega.ResponseMeta) {
	h.log.Info().Time("server_time", st.Time).Msg("omegad server time")
}

func (h *reportHandler) OnExecutionReport(report protocol.ExecutionReport, meta omega.ResponseMeta) {
	h.log.Info().
		Str("order_id", report.OrderID).
		Str("symbol", report.Symbol).
		Str("status", string(report.Status)).
		Str("type", string(report.Type)).
		Float64("filled", report.FilledQuantity).
		Str("rejection", report.RejectionReason).
		Msg("omegad execution report")
}

func (h *reportHandler) OnAccountBalancesReport(report protocol.AccountBalancesReport, meta omega.ResponseMeta) {
	h.log.Info().Int64("account_id", report.Account.AccountID).Int("balances", len(report.Balances)).Msg("omegad account balances")
}

func (h *reportHandler) OnOpenPositionsReport(report protocol.OpenPositionsReport, meta omega.ResponseMeta) {
	h.log.Info().Int64("account_id", report.Account.AccountID).Int("positions", len(report.Positions)).Msg("omegad open positions")
}

func (h *reportHandler) OnWorkingOrdersReport(report protocol.WorkingOrdersReport, meta omega.ResponseMeta) {
	h.log.Info().Int64("account_id", report.Account.AccountID).Int("orders", len(report.Orders)).Msg("omegad working orders")
}

func (h *reportHandler) OnCompletedOrdersReport(report protocol.CompletedOrdersReport, meta omega.ResponseMeta) {
	h.log.Info().Int64("account_id", report.Account.AccountID).Int("orders", len(report.Orders)).Msg("omegad completed orders")
}

func (h *reportHandler) OnAccountDataReport(report protocol.AccountDataReport, meta omega.ResponseMeta) {
	h.log.Info().
		Int64("account_id", report.Account.AccountID).
		Int("balances", len(report.Balances)).
		Int("positions", len(report.Positions)).
		Int("orders", len(report.Orders)).
		Msg("omegad account data")
}

func (h *reportHandler) OnExchangePropertiesReport(report protocol.ExchangePropertiesReport, meta omega.ResponseMeta) {
	h.log.Info().Str("exchange", string(report.Exchange)).Int("symbols", len(report.Symbols)).Msg("omegad exchange properties")
}

func (h *reportHandler) OnAuthorizationGrant(grant protocol.AuthorizationGrant, meta omega.ResponseMeta) {
	event := h.log.Info()
	if !grant.Success {
		event = h.log.Error()
	}
	event.Bool("success", grant.Success).Time("expire_at", grant.ExpireAt).Msg("omegad authorization grant")
}
