// Package jsoncodec is a JSON rendering of the gateway frame contract.
//
// It exists for local gateways and tests. Production deployments plug in
// the venue's own codec behind protocol.Codec; nothing in the runtime
// assumes JSON.
package jsoncodec

import (
	"encoding/json"
	"fmt"

	"github.com/danmuck/omegaclient/internal/protocol"
)

type frame struct {
	Header header          `json:"header"`
	Kind   string          `json:"kind"`
	Body   json.RawMessage `json:"body,omitempty"`
}

type header struct {
	ClientID        int64  `json:"client_id"`
	SenderSessionID string `json:"sender_session_id"`
	AccessToken     string `json:"access_token,omitempty"`
	RequestID       uint64 `json:"request_id"`
}

// Codec implements protocol.Codec plus the gateway-side halves, so one
// type can serve both ends of a loopback setup.
type Codec struct{}

// New returns the codec. It is stateless and safe for concurrent use.
func New() Codec { return Codec{} }

// EncodeRequest renders one outbound frame.
func (Codec) EncodeRequest(h protocol.RequestHeader, request protocol.Request) ([]byte, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("jsoncodec: encode %s body: %w", request.RequestKind(), err)
	}
	return json.Marshal(frame{
		Header: header{
			ClientID:        h.ClientID,
			SenderSessionID: h.SenderSessionID,
			AccessToken:     h.AccessToken,
			RequestID:       h.RequestID,
		},
		Kind: request.RequestKind().String(),
		Body: body,
	})
}

// DecodeResponse parses one inbound frame into a typed envelope.
func (Codec) DecodeResponse(data []byte) (protocol.ResponseEnvelope, error) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return protocol.ResponseEnvelope{}, fmt.Errorf("jsoncodec: decode frame: %w", err)
	}
	kind := protocol.ResponseKind(f.Kind)
	env := protocol.ResponseEnvelope{
		ClientID:        f.Header.ClientID,
		SenderSessionID: f.Header.SenderSessionID,
		RequestID:       f.Header.RequestID,
		Kind:            kind,
	}
	body, err := decodeResponseBody(kind, f.Body)
	if err != nil {
		return protocol.ResponseEnvelope{}, err
	}
	env.Body = body
	return env, nil
}

// DecodeRequest parses one outbound frame, the gateway-side mirror of
// EncodeRequest.
func (Codec) DecodeRequest(data []byte) (protocol.RequestHeader, protocol.Request, error) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return protocol.RequestHeader{}, nil, fmt.Errorf("jsoncodec: decode frame: %w", err)
	}
	h := protocol.RequestHeader{
		ClientID:        f.Header.ClientID,
		SenderSessionID: f.Header.SenderSessionID,
		AccessToken:     f.Header.AccessToken,
		RequestID:       f.Header.RequestID,
	}
	request, err := decodeRequestBody(protocol.RequestKind(f.Kind), f.Body)
	if err != nil {
		return protocol.RequestHeader{}, nil, err
	}
	return h, request, nil
}

// EncodeResponse renders one inbound frame, the gateway-side mirror of
// DecodeResponse.
func (Codec) EncodeResponse(env protocol.ResponseEnvelope) ([]byte, error) {
	if env.Body != nil && env.Body.ResponseKind() != env.Kind {
		return nil, fmt.Errorf("%w: envelope %q body %q", protocol.ErrBodyKindMismatch, env.Kind, env.Body.ResponseKind())
	}
	body, err := json.Marshal(env.Body)
	if err != nil {
		return nil, fmt.Errorf("jsoncodec: encode %s body: %w", env.Kind, err)
	}
	return json.Marshal(frame{
		Header: header{
			ClientID:        env.ClientID,
			SenderSessionID: env.SenderSessionID,
			RequestID:       env.RequestID,
		},
		Kind: env.Kind.String(),
		Body: body,
	})
}

func decodeResponseBody(kind protocol.ResponseKind, raw json.RawMessage) (protocol.Response, error) {
	switch kind {
	case protocol.KindHeartbeat:
		return unmarshalBody[protocol.Heartbeat](kind, raw)
	case protocol.KindTest:
		return unmarshalBody[protocol.TestMessage](kind, raw)
	case protocol.KindServerTime:
		return unmarshalBody[protocol.ServerTime](kind, raw)
	case protocol.KindSystem:
		return unmarshalBody[protocol.SystemMessage](kind, raw)
	case protocol.KindLogonAck:
		return unmarshalBody[protocol.LogonAck](kind, raw)
	case protocol.KindLogoffAck:
		return unmarshalBody[protocol.LogoffAck](kind, raw)
	case protocol.KindExecutionReport:
		return unmarshalBody[protocol.ExecutionReport](kind, raw)
	case protocol.KindAccountDataReport:
		return unmarshalBody[protocol.AccountDataReport](kind, raw)
	case protocol.KindAccountBalancesReport:
		return unmarshalBody[protocol.AccountBalancesReport](kind, raw)
	case protocol.KindOpenPositionsReport:
		return unmarshalBody[protocol.OpenPositionsReport](kind, raw)
	case protocol.KindWorkingOrdersReport:
		return unmarshalBody[protocol.WorkingOrdersReport](kind, raw)
	case protocol.KindCompletedOrdersReport:
		return unmarshalBody[protocol.CompletedOrdersReport](kind, raw)
	case protocol.KindExchangePropertiesReport:
		return unmarshalBody[protocol.ExchangePropertiesReport](kind, raw)
	case protocol.KindAuthorizationGrant:
		return unmarshalBody[protocol.AuthorizationGrant](kind, raw)
	default:
		return nil, fmt.Errorf("%w: %q", protocol.ErrUnknownKind, string(kind))
	}
}

func decodeRequestBody(kind protocol.RequestKind, raw json.RawMessage) (protocol.Request, error) {
	switch kind {
	case protocol.RequestHeartbeat:
		return unmarshalBody[protocol.Heartbeat](kind, raw)
	case protocol.RequestTest:
		return unmarshalBody[protocol.TestMessage](kind, raw)
	case protocol.RequestServerTime:
		return unmarshalBody[protocol.GetServerTime](kind, raw)
	case protocol.RequestLogon:
		return unmarshalBody[protocol.Logon](kind, raw)
	case protocol.RequestLogoff:
		return unmarshalBody[protocol.Logoff](kind, raw)
	case protocol.RequestPlaceOrder:
		return unmarshalBody[protocol.Order](kind, raw)
	case protocol.RequestPlaceContingentOrder:
		return unmarshalBody[protocol.ContingentOrder](kind, raw)
	case protocol.RequestReplaceOrder:
		return unmarshalBody[protocol.ReplaceOrder](kind, raw)
	case protocol.RequestCancelOrder:
		return unmarshalBody[protocol.CancelOrder](kind, raw)
	case protocol.RequestCancelAllOrders:
		return unmarshalBody[protocol.CancelAllOrders](kind, raw)
	case protocol.RequestAccountData:
		return unmarshalBody[protocol.GetAccountData](kind, raw)
	case protocol.RequestAccountBalances:
		return unmarshalBody[protocol.GetAccountBalances](kind, raw)
	case protocol.RequestOpenPositions:
		return unmarshalBody[protocol.GetOpenPositions](kind, raw)
	case protocol.RequestWorkingOrders:
		return unmarshalBody[protocol.GetWorkingOrders](kind, raw)
	case protocol.RequestOrderStatus:
		return unmarshalBody[protocol.GetOrderStatus](kind, raw)
	case protocol.RequestCompletedOrders:
		return unmarshalBody[protocol.GetCompletedOrders](kind, raw)
	case protocol.RequestOrderMassStatus:
		return unmarshalBody[protocol.GetOrderMassStatus](kind, raw)
	case protocol.RequestExchangeProperties:
		return unmarshalBody[protocol.GetExchangeProperties](kind, raw)
	case protocol.RequestAuthorizationRefresh:
		return unmarshalBody[protocol.AuthorizationRefresh](kind, raw)
	default:
		return nil, fmt.Errorf("%w: request %q", protocol.ErrUnknownKind, string(kind))
	}
}

func unmarshalBody[T any](kind fmt.Stringer, raw json.RawMessage) (T, error) {
	var body T
	if len(raw) == 0 {
		return body, nil
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return body, fmt.Errorf("jsoncodec: decode %s body: %w", kind.String(), err)
	}
	return body, nil
}
