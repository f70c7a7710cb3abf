package omega

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/danmuck/omegaclient/internal/observability"
	"github.com/danmuck/omegaclient/internal/protocol"
	"github.com/danmuck/omegaclient/internal/protocol/session"
)

// ClientConfig assembles one gateway client.
type ClientConfig struct {
	// ClientID is the gateway-assigned participant id stamped into
	// every request header.
	ClientID int64
	// SenderSessionID distinguishes this process from other senders
	// sharing the client id. Defaults to a fresh uuid.
	SenderSessionID string
	// Credentials are the venue accounts Logon signs in with.
	Credentials []protocol.AccountCredentials
	// DequeueWait bounds the send worker's queue waits.
	DequeueWait time.Duration
	Connection  ConnectionConfig
	Session     session.Config
}

func DefaultClientConfig(gatewayAddr string, clientID int64) ClientConfig {
	return ClientConfig{
		ClientID:        clientID,
		SenderSessionID: uuid.NewString(),
		DequeueWait:     time.Second,
		Connection:      DefaultConnectionConfig(gatewayAddr),
		Session:         session.DefaultConfig(),
	}
}

func (c ClientConfig) Validate() error {
	if c.ClientID == 0 {
		return ErrInvalidClientID
	}
	if c.SenderSessionID == "" {
		return ErrMissingSessionID
	}
	if c.DequeueWait <= 0 {
		return ErrInvalidDequeueWait
	}
	if err := c.Connection.Validate(); err != nil {
		return err
	}
	return c.Session.Validate()
}

// Status is a point-in-time client snapshot for the ops surface.
type Status struct {
	Phase         Phase                  `json:"phase"`
	Authorized    bool                   `json:"authorized"`
	QueueDepth    int                    `json:"queue_depth"`
	LastRequestID uint64                 `json:"last_request_id"`
	RefreshPhase  session.RefreshPhase   `json:"refresh_phase"`
	ExpireAt      time.Time              `json:"expire_at,omitzero"`
	Accounts      []protocol.AccountInfo `json:"accounts,omitempty"`
}

// Client is the gateway-facing facade. It owns the connection, both
// workers, the session ledger, and the token refresher, and keeps them
// consistent as responses land.
type Client struct {
	cfg       ClientConfig
	log       zerolog.Logger
	state     *session.State
	sender    *RequestSender
	receiver  *ResponseReceiver
	conn      *Connection
	refresher *session.Refresher
}

// NewClient wires a client from config. The handler receives every
// response after the client's own session bookkeeping has run; nil
// means responses are consumed silently.
func NewClient(cfg ClientConfig, codec protocol.Codec, handler ResponseHandler, log zerolog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if codec == nil {
		return nil, ErrMissingCodec
	}

	state := session.NewState()
	sender, err := NewRequestSender(SenderConfig{
		Endpoint:        cfg.Connection.SenderEndpoint,
		ClientID:        cfg.ClientID,
		SenderSessionID: cfg.SenderSessionID,
		DequeueWait:     cfg.DequeueWait,
	}, codec, state, log)
	if err != nil {
		return nil, err
	}
	refresher, err := session.NewRefresher(state, sender, cfg.Session, log)
	if err != nil {
		return nil, err
	}

	c := &Client{
		cfg:       cfg,
		log:       log,
		state:     state,
		sender:    sender,
		refresher: refresher,
	}
	receiver, err := NewResponseReceiver(ReceiverConfig{
		Endpoint: cfg.Connection.ReceiverEndpoint,
	}, codec, c.wrap(handler), log)
	if err != nil {
		return nil, err
	}
	c.receiver = receiver

	conn, err := NewConnection(cfg.Connection, sender, receiver, log)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return c, nil
}

// Start brings the connection up. It returns with the client running
// and ready to queue requests.
func (c *Client) Start(ctx context.Context) error {
	return c.conn.Start(ctx)
}

// Stop ends token renewal and tears the connection down.
func (c *Client) Stop() {
	c.refresher.Stop()
	c.conn.Stop()
}

func (c *Client) WaitUntilRunning(ctx context.Context) error {
	return c.conn.WaitUntilRunning(ctx)
}

// SetHandler swaps the response handler. Session bookkeeping stays in
// front of the new handler.
func (c *Client) SetHandler(handler ResponseHandler) {
	c.receiver.SetHandler(c.wrap(handler))
}

// Logon signs in with the configured credentials.
func (c *Client) Logon() (protocol.Logon, error) {
	return c.sender.Logon(c.cfg.Credentials)
}

// Logoff signs the session out. The gateway's ack clears the ledger.
func (c *Client) Logoff() (protocol.Logoff, error) {
	return c.sender.Logoff()
}

// Sender exposes the request builders.
func (c *Client) Sender() *RequestSender {
	return c.sender
}

// State exposes the session ledger.
func (c *Client) State() *session.State {
	return c.state
}

// Status snapshots the client for the ops surface.
func (c *Client) Status() Status {
	return Status{
		Phase:         c.conn.Phase(),
		Authorized:    c.state.Authorized(),
		QueueDepth:    c.sender.QueueDepth(),
		LastRequestID: c.sender.LastRequestID(),
		RefreshPhase:  c.refresher.Phase(),
		ExpireAt:      c.state.ExpireAt(),
		Accounts:      c.state.Accounts(),
	}
}

func (c *Client) wrap(handler ResponseHandler) ResponseHandler {
	if handler == nil {
		handler = NoopHandler{}
	}
	return sessionHandler{client: c, next: handler}
}

func (c *Client) applyLogonAck(ack protocol.LogonAck) {
	if !ack.Success {
		c.log.Warn().Str("reason", ack.Message).Msg("omega.Client logon rejected")
		return
	}
	c.state.SetAccounts(ack.Accounts)
	c.refresher.HandleGrant(ack.Grant)
	c.log.Info().Int("accounts", len(ack.Accounts)).Time("expire_at", ack.Grant.ExpireAt).Msg("omega.Client logon accepted")
}

func (c *Client) applyGrant(grant protocol.AuthorizationGrant) {
	if grant.Success {
		observability.RecordRefresh(observability.RefreshGranted)
	} else {
		observability.RecordRefresh(observability.RefreshDenied)
	}
	c.refresher.HandleGrant(grant)
}

func (c *Client) applyLogoffAck(ack protocol.LogoffAck) {
	c.refresher.Stop()
	c.state.Clear()
	c.log.Info().Str("message", ack.Message).Msg("omega.Client logged off")
}

// sessionHandler runs the client's session bookkeeping ahead of the
// caller's handler so the ledger is already current when callbacks see
// a response.
type sessionHandler struct {
	client *Client
	next   ResponseHandler
}

func (h sessionHandler) OnHeartbeat(hb protocol.Heartbeat, meta ResponseMeta) {
	h.next.OnHeartbeat(hb, meta)
}

func (h sessionHandler) OnTestMessage(msg protocol.TestMessage, meta ResponseMeta) {
	h.next.OnTestMessage(msg, meta)
}

func (h sessionHandler) OnServerTime(st protocol.ServerTime, meta ResponseMeta) {
	h.next.OnServerTime(st, meta)
}

func (h sessionHandler) OnSystemMessage(msg protocol.SystemMessage, meta ResponseMeta) {
	h.next.OnSystemMessage(msg, meta)
}

func (h sessionHandler) OnLogonAck(ack protocol.LogonAck, meta ResponseMeta) {
	h.client.applyLogonAck(ack)
	h.next.OnLogonAck(ack, meta)
}

func (h sessionHandler) OnLogoffAck(ack protocol.LogoffAck, meta ResponseMeta) {
	h.client.applyLogoffAck(ack)
	h.next.OnLogoffAck(ack, meta)
}

func (h sessionHandler) OnExecutionReport(report protocol.ExecutionReport, meta ResponseMeta) {
	h.next.OnExecutionReport(report, meta)
}

func (h sessionHandler) OnAccountDataReport(report protocol.AccountDataReport, meta ResponseMeta) {
	h.next.OnAccountDataReport(report, meta)
}

func (h sessionHandler) OnAccountBalancesReport(report protocol.AccountBalancesReport, meta ResponseMeta) {
	h.next.OnAccountBalancesReport(report, meta)
}

func (h sessionHandler) OnOpenPositionsReport(report protocol.OpenPositionsReport, meta ResponseMeta) {
	h.next.OnOpenPositionsReport(report, meta)
}

func (h sessionHandler) OnWorkingOrdersReport(report protocol.WorkingOrdersReport, meta ResponseMeta) {
	h.next.OnWorkingOrdersReport(report, meta)
}

func (h sessionHandler) OnCompletedOrdersReport(report protocol.CompletedOrdersReport, meta ResponseMeta) {
	h.next.OnCompletedOrdersReport(report, meta)
}

func (h sessionHandler) OnExchangePropertiesReport(report protocol.ExchangePropertiesReport, meta ResponseMeta) {
	h.next.OnExchangePropertiesReport(report, meta)
}

func (h sessionHandler) OnAuthorizationGrant(grant protocol.AuthorizationGrant, meta ResponseMeta) {
	h.client.applyGrant(grant)
	h.next.OnAuthorizationGrant(grant, meta)
}
