package omega

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-zeromq/zmq4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/danmuck/omegaclient/internal/observability"
	"github.com/danmuck/omegaclient/internal/protocol"
	"github.com/danmuck/omegaclient/internal/protocol/session"
)

// SenderConfig shapes the request sender worker.
type SenderConfig struct {
	// Endpoint is the loopback the worker dials, normally taken from
	// the connection config.
	Endpoint string
	// ClientID and SenderSessionID go into every stamped header.
	ClientID        int64
	SenderSessionID string
	// DequeueWait bounds each queue wait, and with it how fast the
	// worker notices a stop signal.
	DequeueWait time.Duration
}

func DefaultSenderConfig() SenderConfig {
	return SenderConfig{DequeueWait: time.Second}
}

func (c SenderConfig) Validate() error {
	if c.Endpoint == "" {
		return ErrMissingLoopback
	}
	if c.ClientID == 0 {
		return ErrInvalidClientID
	}
	if c.SenderSessionID == "" {
		return ErrMissingSessionID
	}
	if c.DequeueWait <= 0 {
		return ErrInvalidDequeueWait
	}
	return nil
}

// RequestSender builds, stamps, and ships outbound requests. Builders
// are safe to call from any goroutine; only the worker touches the
// socket.
type RequestSender struct {
	cfg   SenderConfig
	codec protocol.Codec
	state *session.State
	queue *OutboundQueue
	log   zerolog.Logger

	requestID atomic.Uint64

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewRequestSender(cfg SenderConfig, codec protocol.Codec, state *session.State, log zerolog.Logger) (*RequestSender, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if codec == nil {
		return nil, ErrMissingCodec
	}
	if state == nil {
		state = session.NewState()
	}
	return &RequestSender{
		cfg:    cfg,
		codec:  codec,
		state:  state,
		queue:  NewOutboundQueue(),
		log:    log,
		stopCh: make(chan struct{}),
	}, nil
}

// Start launches the send worker and returns once it has dialed the
// loopback and is draining the queue.
func (s *RequestSender) Start(ctx context.Context) error {
	ready := make(chan error, 1)
	s.wg.Add(1)
	go s.run(ctx, ready)
	if err := <-ready; err != nil {
		return fmt.Errorf("sender dial %s: %w", s.cfg.Endpoint, err)
	}
	return nil
}

func (s *RequestSender) run(ctx context.Context, ready chan<- error) {
	defer s.wg.Done()

	sock := zmq4.NewPair(ctx)
	if err := sock.Dial(s.cfg.Endpoint); err != nil {
		ready <- err
		return
	}
	defer sock.Close()
	ready <- nil
	s.log.Debug().Str("endpoint", s.cfg.Endpoint).Msg("omega.RequestSender.run started")

	for {
		select {
		case <-s.stopCh:
			if depth := s.queue.Depth(); depth > 0 {
				s.log.Warn().Int("abandoned", depth).Msg("omega.RequestSender.run stopping with queued requests")
			}
			return
		default:
		}

		item, ok := s.queue.Dequeue(s.cfg.DequeueWait)
		if !ok {
			continue
		}
		frame, err := item.encode()
		if err != nil {
			observability.RecordEncodeFailure()
			s.log.Error().Err(err).Str("kind", item.Kind.String()).Msg("omega.RequestSender.run encode failed, request dropped")
			continue
		}
		if err := sock.Send(zmq4.NewMsg(frame)); err != nil {
			if s.stopping() {
				return
			}
			s.log.Error().Err(err).Str("kind", item.Kind.String()).Msg("omega.RequestSender.run send failed, request dropped")
			continue
		}
		s.log.Trace().Str("kind", item.Kind.String()).Int("bytes", len(frame)).Msg("omega.RequestSender.run sent")
	}
}

// Stop signals the worker, closes the queue, and joins.
func (s *RequestSender) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		s.queue.Close()
	})
	s.wg.Wait()
}

func (s *RequestSender) stopping() bool {
	select {
	case <-s.stopCh:
		return true
	default:
		return false
	}
}

// Enqueue accepts a pre-built item. Builders are the normal entry;
// this is the escape hatch for callers bringing their own frames.
func (s *RequestSender) Enqueue(item OutboundItem) error {
	return s.queue.Enqueue(item)
}

// QueueDepth reports the outbound backlog.
func (s *RequestSender) QueueDepth() int {
	return s.queue.Depth()
}

// LastRequestID reports the most recently stamped request id.
func (s *RequestSender) LastRequestID() uint64 {
	return s.requestID.Load()
}

// nextHeader stamps the identity header for one request. The counter
// increments exactly once per build, interleaved builders included, so
// ids never duplicate or skip.
func (s *RequestSender) nextHeader() protocol.RequestHeader {
	return protocol.RequestHeader{
		ClientID:        s.cfg.ClientID,
		SenderSessionID: s.cfg.SenderSessionID,
		AccessToken:     s.state.AccessToken(),
		RequestID:       s.requestID.Add(1),
	}
}

// submit stamps and queues one validated request. Encoding happens on
// the send worker, off the caller's goroutine.
func (s *RequestSender) submit(request protocol.Request) error {
	header := s.nextHeader()
	item := OutboundItem{
		Kind: request.RequestKind(),
		Encode: func() ([]byte, error) {
			return s.codec.EncodeRequest(header, request)
		},
	}
	if err := s.queue.Enqueue(item); err != nil {
		return err
	}
	observability.RecordRequestEnqueued(request.RequestKind().String())
	s.log.Debug().Str("kind", request.RequestKind().String()).Uint64("request_id", header.RequestID).Msg("omega.RequestSender.submit queued")
	return nil
}

// Logon queues a session logon for the given venue accounts.
func (s *RequestSender) Logon(credentials []protocol.AccountCredentials) (protocol.Logon, error) {
	request := protocol.Logon{Credentials: credentials}
	if err := request.Validate(); err != nil {
		return protocol.Logon{}, err
	}
	if err := s.submit(request); err != nil {
		return protocol.Logon{}, err
	}
	return request, nil
}

func (s *RequestSender) Logoff() (protocol.Logoff, error) {
	request := protocol.Logoff{}
	if err := s.submit(request); err != nil {
		return protocol.Logoff{}, err
	}
	return request, nil
}

func (s *RequestSender) SendHeartbeat() (protocol.Heartbeat, error) {
	request := protocol.Heartbeat{}
	if err := s.submit(request); err != nil {
		return protocol.Heartbeat{}, err
	}
	return request, nil
}

func (s *RequestSender) SendTestMessage(message string) (protocol.TestMessage, error) {
	request := protocol.TestMessage{Message: message}
	if err := s.submit(request); err != nil {
		return protocol.TestMessage{}, err
	}
	return request, nil
}

func (s *RequestSender) RequestServerTime() (protocol.GetServerTime, error) {
	request := protocol.GetServerTime{}
	if err := s.submit(request); err != nil {
		return protocol.GetServerTime{}, err
	}
	return request, nil
}

// fillOrderDefaults stamps the wire defaults a caller may leave blank:
// a generated ClientOrderID so fills can always be correlated back,
// good-til-cancel, and no leverage.
func fillOrderDefaults(order protocol.Order) protocol.Order {
	if order.ClientOrderID == "" {
		order.ClientOrderID = uuid.NewString()
	}
	if order.TimeInForce == "" {
		order.TimeInForce = protocol.TimeInForceGTC
	}
	if order.LeverageType == "" {
		order.LeverageType = protocol.LeverageNone
	}
	return order
}

// PlaceOrder queues a new-order request.
func (s *RequestSender) PlaceOrder(order protocol.Order) (protocol.Order, error) {
	order = fillOrderDefaults(order)
	if err := order.Validate(); err != nil {
		return protocol.Order{}, err
	}
	if err := s.submit(order); err != nil {
		return protocol.Order{}, err
	}
	return order, nil
}

// PlaceContingentOrder queues a linked order set. Member orders get the
// same defaults single orders do.
func (s *RequestSender) PlaceContingentOrder(contingent protocol.ContingentOrder) (protocol.ContingentOrder, error) {
	orders := append([]protocol.Order(nil), contingent.Orders...)
	for i := range orders {
		orders[i] = fillOrderDefaults(orders[i])
	}
	contingent.Orders = orders
	if err := contingent.Validate(); err != nil {
		return protocol.ContingentOrder{}, err
	}
	if err := s.submit(contingent); err != nil {
		return protocol.ContingentOrder{}, err
	}
	return contingent, nil
}

func (s *RequestSender) ReplaceOrder(replace protocol.ReplaceOrder) (protocol.ReplaceOrder, error) {
	if replace.TimeInForce == "" {
		replace.TimeInForce = protocol.TimeInForceGTC
	}
	if err := replace.Validate(); err != nil {
		return protocol.ReplaceOrder{}, err
	}
	if err := s.submit(replace); err != nil {
		return protocol.ReplaceOrder{}, err
	}
	return replace, nil
}

func (s *RequestSender) CancelOrder(cancel protocol.CancelOrder) (protocol.CancelOrder, error) {
	if err := cancel.Validate(); err != nil {
		return protocol.CancelOrder{}, err
	}
	if err := s.submit(cancel); err != nil {
		return protocol.CancelOrder{}, err
	}
	return cancel, nil
}

func (s *RequestSender) CancelAllOrders(cancel protocol.CancelAllOrders) (protocol.CancelAllOrders, error) {
	if err := cancel.Validate(); err != nil {
		return protocol.CancelAllOrders{}, err
	}
	if err := s.submit(cancel); err != nil {
		return protocol.CancelAllOrders{}, err
	}
	return cancel, nil
}

func (s *RequestSender) RequestAccountData(accountID int64) (protocol.GetAccountData, error) {
	request := protocol.GetAccountData{AccountID: accountID}
	if err := request.Validate(); err != nil {
		return protocol.GetAccountData{}, err
	}
	if err := s.submit(request); err != nil {
		return protocol.GetAccountData{}, err
	}
	return request, nil
}

func (s *RequestSender) RequestAccountBalances(accountID int64) (protocol.GetAccountBalances, error) {
	request := protocol.GetAccountBalances{AccountID: accountID}
	if err := request.Validate(); err != nil {
		return protocol.GetAccountBalances{}, err
	}
	if err := s.submit(request); err != nil {
		return protocol.GetAccountBalances{}, err
	}
	return request, nil
}

func (s *RequestSender) RequestOpenPositions(accountID int64) (protocol.GetOpenPositions, error) {
	request := protocol.GetOpenPositions{AccountID: accountID}
	if err := request.Validate(); err != nil {
		return protocol.GetOpenPositions{}, err
	}
	if err := s.submit(request); err != nil {
		return protocol.GetOpenPositions{}, err
	}
	return request, nil
}

func (s *RequestSender) RequestWorkingOrders(accountID int64) (protocol.GetWorkingOrders, error) {
	request := protocol.GetWorkingOrders{AccountID: accountID}
	if err := request.Validate(); err != nil {
		return protocol.GetWorkingOrders{}, err
	}
	if err := s.submit(request); err != nil {
		return protocol.GetWorkingOrders{}, err
	}
	return request, nil
}

func (s *RequestSender) RequestOrderStatus(accountID int64, orderID string) (protocol.GetOrderStatus, error) {
	request := protocol.GetOrderStatus{AccountID: accountID, OrderID: orderID}
	if err := request.Validate(); err != nil {
		return protocol.GetOrderStatus{}, err
	}
	if err := s.submit(request); err != nil {
		return protocol.GetOrderStatus{}, err
	}
	return request, nil
}

// RequestCompletedOrders asks for terminal orders. Zero count and zero
// since leave the window to the gateway.
func (s *RequestSender) RequestCompletedOrders(accountID int64, count int, since time.Time) (protocol.GetCompletedOrders, error) {
	request := protocol.GetCompletedOrders{AccountID: accountID, Count: count, Since: since}
	if err := request.Validate(); err != nil {
		return protocol.GetCompletedOrders{}, err
	}
	if err := s.submit(request); err != nil {
		return protocol.GetCompletedOrders{}, err
	}
	return request, nil
}

func (s *RequestSender) RequestOrderMassStatus(accountID int64, refs []protocol.OrderRef) (protocol.GetOrderMassStatus, error) {
	request := protocol.GetOrderMassStatus{AccountID: accountID, Orders: refs}
	if err := request.Validate(); err != nil {
		return protocol.GetOrderMassStatus{}, err
	}
	if err := s.submit(request); err != nil {
		return protocol.GetOrderMassStatus{}, err
	}
	return request, nil
}

func (s *RequestSender) RequestExchangeProperties(exchange protocol.Exchange) (protocol.GetExchangeProperties, error) {
	request := protocol.GetExchangeProperties{Exchange: exchange}
	if err := request.Validate(); err != nil {
		return protocol.GetExchangeProperties{}, err
	}
	if err := s.submit(request); err != nil {
		return protocol.GetExchangeProperties{}, err
	}
	return request, nil
}

// RequestAuthorizationRefresh trades the stored refresh token for a new
// grant. Satisfies session.RefreshRequester.
func (s *RequestSender) RequestAuthorizationRefresh() (protocol.AuthorizationRefresh, error) {
	request := protocol.AuthorizationRefresh{RefreshToken: s.state.RefreshToken()}
	if err := request.Validate(); err != nil {
		return protocol.AuthorizationRefresh{}, err
	}
	if err := s.submit(request); err != nil {
		return protocol.AuthorizationRefresh{}, err
	}
	return request, nil
}
