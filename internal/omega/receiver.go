package omega

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-zeromq/zmq4"
	"github.com/rs/zerolog"

	"github.com/danmuck/omegaclient/internal/observability"
	"github.com/danmuck/omegaclient/internal/protocol"
)

// ReceiverConfig shapes the response receiver worker.
type ReceiverConfig struct {
	// Endpoint is the loopback the worker dials, normally taken from
	// the connection config.
	Endpoint string
}

func (c ReceiverConfig) Validate() error {
	if c.Endpoint == "" {
		return ErrMissingLoopback
	}
	return nil
}

// ResponseReceiver drains inbound frames, decodes them, and dispatches
// each response to the installed handler. Only the worker touches the
// socket; the handler can be swapped at any time.
type ResponseReceiver struct {
	cfg   ReceiverConfig
	codec protocol.Codec
	log   zerolog.Logger

	mu      sync.RWMutex
	handler ResponseHandler

	sock     zmq4.Socket
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewResponseReceiver(cfg ReceiverConfig, codec protocol.Codec, handler ResponseHandler, log zerolog.Logger) (*ResponseReceiver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if codec == nil {
		return nil, ErrMissingCodec
	}
	if handler == nil {
		handler = NoopHandler{}
	}
	return &ResponseReceiver{
		cfg:     cfg,
		codec:   codec,
		handler: handler,
		log:     log,
	}, nil
}

// SetHandler swaps the dispatch target. The next response lands on the
// new handler; in-flight dispatches finish on the old one.
func (r *ResponseReceiver) SetHandler(handler ResponseHandler) {
	if handler == nil {
		handler = NoopHandler{}
	}
	r.mu.Lock()
	r.handler = handler
	r.mu.Unlock()
}

func (r *ResponseReceiver) currentHandler() ResponseHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.handler
}

// Start launches the receive worker and returns once it has dialed the
// loopback and is draining frames.
func (r *ResponseReceiver) Start(ctx context.Context) error {
	ready := make(chan error, 1)
	r.wg.Add(1)
	go r.run(ctx, ready)
	if err := <-ready; err != nil {
		return fmt.Errorf("receiver dial %s: %w", r.cfg.Endpoint, err)
	}
	return nil
}

func (r *ResponseReceiver) run(ctx context.Context, ready chan<- error) {
	defer r.wg.Done()

	sock := zmq4.NewPair(ctx)
	if err := sock.Dial(r.cfg.Endpoint); err != nil {
		ready <- err
		return
	}
	r.sock = sock
	ready <- nil
	r.log.Debug().Str("endpoint", r.cfg.Endpoint).Msg("omega.ResponseReceiver.run started")

	// Recv blocks until a frame arrives or Stop closes the socket.
	for {
		msg, err := sock.Recv()
		if err != nil {
			r.log.Debug().Err(err).Msg("omega.ResponseReceiver.run recv ended")
			return
		}
		for _, frame := range msg.Frames {
			r.handle(frame)
		}
	}
}

// handle decodes and dispatches one frame. Decode failures and unknown
// kinds are logged and dropped so one bad frame never stalls the loop.
func (r *ResponseReceiver) handle(frame []byte) {
	envelope, err := r.codec.DecodeResponse(frame)
	if err != nil {
		if errors.Is(err, protocol.ErrUnknownKind) {
			observability.RecordUnknownKind()
			r.log.Warn().Err(err).Int("bytes", len(frame)).Msg("omega.ResponseReceiver.handle unknown kind, frame dropped")
			return
		}
		observability.RecordDecodeFailure()
		r.log.Error().Err(err).Int("bytes", len(frame)).Msg("omega.ResponseReceiver.handle decode failed, frame dropped")
		return
	}
	r.dispatch(envelope)
}

func (r *ResponseReceiver) dispatch(envelope protocol.ResponseEnvelope) {
	handler := r.currentHandler()
	meta := ResponseMeta{
		ClientID:        envelope.ClientID,
		SenderSessionID: envelope.SenderSessionID,
		RequestID:       envelope.RequestID,
	}

	switch body := envelope.Body.(type) {
	case protocol.Heartbeat:
		handler.OnHeartbeat(body, meta)
	case protocol.TestMessage:
		handler.OnTestMessage(body, meta)
	case protocol.ServerTime:
		handler.OnServerTime(body, meta)
	case protocol.SystemMessage:
		handler.OnSystemMessage(body, meta)
	case protocol.LogonAck:
		handler.OnLogonAck(body, meta)
	case protocol.LogoffAck:
		handler.OnLogoffAck(body, meta)
	case protocol.ExecutionReport:
		handler.OnExecutionReport(body, meta)
	case protocol.AccountDataReport:
		handler.OnAccountDataReport(body, meta)
	case protocol.AccountBalancesReport:
		handler.OnAccountBalancesReport(body, meta)
	case protocol.OpenPositionsReport:
		handler.OnOpenPositionsReport(body, meta)
	case protocol.WorkingOrdersReport:
		handler.OnWorkingOrdersReport(body, meta)
	case protocol.CompletedOrdersReport:
		handler.OnCompletedOrdersReport(body, meta)
	case protocol.ExchangePropertiesReport:
		handler.OnExchangePropertiesReport(body, meta)
	case protocol.AuthorizationGrant:
		handler.OnAuthorizationGrant(body, meta)
	default:
		// A codec returning a kind it never registered is a codec bug.
		observability.RecordUnknownKind()
		r.log.Warn().Str("kind", envelope.Kind.String()).Msg("omega.ResponseReceiver.dispatch unmapped body, frame dropped")
		return
	}
	observability.RecordDispatch(envelope.Kind.String())
	r.log.Trace().Str("kind", envelope.Kind.String()).Uint64("request_id", envelope.RequestID).Msg("omega.ResponseReceiver.dispatch delivered")
}

// Stop closes the socket, unblocking the worker, and joins it.
func (r *ResponseReceiver) Stop() {
	r.stopOnce.Do(func() {
		if r.sock != nil {
			r.sock.Close()
		}
	})
	r.wg.Wait()
}
