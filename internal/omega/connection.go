package omega

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-zeromq/zmq4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/danmuck/omegaclient/internal/observability"
)

// Phase is the connection lifecycle stage, observable for tests and
// the ops surface.
type Phase string

const (
	PhaseCreated        Phase = "created"
	PhaseSocketsOpen    Phase = "sockets_open"
	PhaseWorkersStarted Phase = "workers_started"
	PhaseRunning        Phase = "running"
	PhaseStopping       Phase = "stopping"
	PhaseStopped        Phase = "stopped"
)

// ConnectionConfig shapes the gateway bridge.
type ConnectionConfig struct {
	// GatewayAddr is the gateway's router endpoint, e.g.
	// tcp://gateway.example.com:9999.
	GatewayAddr string
	// Identity is the dealer identity the gateway routes replies to.
	// Empty lets the transport assign one.
	Identity string
	// SenderEndpoint and ReceiverEndpoint are the loopback pair
	// endpoints the workers dial. Defaults are per-connection inproc
	// names so two connections in one process never cross wires.
	SenderEndpoint   string
	ReceiverEndpoint string
	// PollTimeout bounds each relay wait. Stop joins the pumps within
	// three of these.
	PollTimeout time.Duration
	// SendHWM caps frames buffered toward the gateway. Zero means
	// unlimited.
	SendHWM int
	// DialRetry is the interval between gateway dial attempts. Zero
	// leaves the transport default.
	DialRetry time.Duration
	Security  SecurityConfig
}

func DefaultConnectionConfig(gatewayAddr string) ConnectionConfig {
	tag := uuid.NewString()
	return ConnectionConfig{
		GatewayAddr:      gatewayAddr,
		Identity:         "omega-" + tag[:8],
		SenderEndpoint:   "inproc://omega-sender-" + tag,
		ReceiverEndpoint: "inproc://omega-receiver-" + tag,
		PollTimeout:      time.Second,
		SendHWM:          1000,
		DialRetry:        250 * time.Millisecond,
	}
}

func (c ConnectionConfig) Validate() error {
	if c.GatewayAddr == "" {
		return ErrMissingGateway
	}
	if c.SenderEndpoint == "" || c.ReceiverEndpoint == "" {
		return ErrMissingLoopback
	}
	if c.PollTimeout <= 0 {
		return ErrInvalidPollTimeout
	}
	return c.Security.Validate()
}

// Connection bridges the worker loopbacks and the gateway socket. It
// owns three sockets: the dealer facing the gateway and one pair
// listener per worker. Two relay pumps move frames between them
// without touching their contents.
type Connection struct {
	cfg      ConnectionConfig
	sender   *RequestSender
	receiver *ResponseReceiver
	log      zerolog.Logger

	external     zmq4.Socket
	senderSide   zmq4.Socket
	receiverSide zmq4.Socket

	mu    sync.RWMutex
	phase Phase

	runningCh chan struct{}
	stopCh    chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

func NewConnection(cfg ConnectionConfig, sender *RequestSender, receiver *ResponseReceiver, log zerolog.Logger) (*Connection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sender == nil || receiver == nil {
		return nil, ErrMissingWorker
	}
	return &Connection{
		cfg:       cfg,
		sender:    sender,
		receiver:  receiver,
		log:       log,
		phase:     PhaseCreated,
		runningCh: make(chan struct{}),
		stopCh:    make(chan struct{}),
	}, nil
}

// Start opens the sockets, starts both workers, and launches the relay
// pumps. It returns with the connection running; each stage must
// succeed before the next begins, and a failed stage tears down the
// ones before it.
func (c *Connection) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.phase != PhaseCreated {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.mu.Unlock()

	if err := c.openSockets(ctx); err != nil {
		return err
	}
	c.setPhase(PhaseSocketsOpen)

	if err := c.sender.Start(ctx); err != nil {
		c.closeSockets()
		return err
	}
	if err := c.receiver.Start(ctx); err != nil {
		c.sender.Stop()
		c.closeSockets()
		return err
	}
	c.setPhase(PhaseWorkersStarted)

	c.wg.Add(2)
	go c.relayOutbound()
	go c.relayInbound()
	c.setPhase(PhaseRunning)
	close(c.runningCh)
	c.log.Info().Str("gateway", c.cfg.GatewayAddr).Str("identity", c.cfg.Identity).Msg("omega.Connection.Start running")
	return nil
}

// openSockets brings up the gateway dealer and both loopback listeners.
// Listeners come up before the workers dial them, so inproc endpoints
// always have a peer to land on.
func (c *Connection) openSockets(ctx context.Context) error {
	sec, err := c.cfg.Security.build()
	if err != nil {
		return err
	}
	opts := []zmq4.Option{
		zmq4.WithID(zmq4.SocketIdentity(c.cfg.Identity)),
		zmq4.WithAutomaticReconnect(true),
		zmq4.WithSecurity(sec),
	}
	if c.cfg.DialRetry > 0 {
		opts = append(opts, zmq4.WithDialerRetry(c.cfg.DialRetry))
	}

	external := zmq4.NewDealer(ctx, opts...)
	if c.cfg.SendHWM > 0 {
		if err := external.SetOption(zmq4.OptionHWM, c.cfg.SendHWM); err != nil {
			external.Close()
			return fmt.Errorf("set send hwm: %w", err)
		}
	}
	if err := external.Dial(c.cfg.GatewayAddr); err != nil {
		external.Close()
		return fmt.Errorf("dial gateway %s: %w", c.cfg.GatewayAddr, err)
	}

	senderSide := zmq4.NewPair(ctx)
	if err := senderSide.Listen(c.cfg.SenderEndpoint); err != nil {
		external.Close()
		return fmt.Errorf("listen %s: %w", c.cfg.SenderEndpoint, err)
	}
	receiverSide := zmq4.NewPair(ctx)
	if err := receiverSide.Listen(c.cfg.ReceiverEndpoint); err != nil {
		senderSide.Close()
		external.Close()
		return fmt.Errorf("listen %s: %w", c.cfg.ReceiverEndpoint, err)
	}

	c.external = external
	c.senderSide = senderSide
	c.receiverSide = receiverSide
	return nil
}

// closeSockets tears the bridge down in send-path order: the sender
// loopback first so outbound frames stop flowing, then the receiver
// loopback, then the gateway socket.
func (c *Connection) closeSockets() {
	if c.senderSide != nil {
		c.senderSide.Close()
	}
	if c.receiverSide != nil {
		c.receiverSide.Close()
	}
	if c.external != nil {
		c.external.Close()
	}
}

// relayOutbound moves frames from the sender loopback to the gateway.
func (c *Connection) relayOutbound() {
	defer c.wg.Done()
	for {
		msg, err := c.senderSide.Recv()
		if err != nil {
			c.log.Debug().Err(err).Msg("omega.Connection.relayOutbound ended")
			return
		}
		if err := c.external.Send(msg); err != nil {
			if c.stopping() {
				return
			}
			c.log.Error().Err(err).Msg("omega.Connection.relayOutbound send failed, frame dropped")
			continue
		}
		for _, frame := range msg.Frames {
			observability.RecordRelayFrame(observability.DirectionOutbound, len(frame))
		}
	}
}

// relayInbound moves frames from the gateway to the receiver loopback.
func (c *Connection) relayInbound() {
	defer c.wg.Done()
	for {
		msg, err := c.external.Recv()
		if err != nil {
			c.log.Debug().Err(err).Msg("omega.Connection.relayInbound ended")
			return
		}
		if err := c.receiverSide.Send(msg); err != nil {
			if c.stopping() {
				return
			}
			c.log.Error().Err(err).Msg("omega.Connection.relayInbound send failed, frame dropped")
			continue
		}
		for _, frame := range msg.Frames {
			observability.RecordRelayFrame(observability.DirectionInbound, len(frame))
		}
	}
}

// Stop closes the bridge sockets, stops both workers, and joins the
// pumps. The join is bounded by three poll intervals; a pump that
// outlives that is logged and abandoned. Safe to call more than once.
func (c *Connection) Stop() {
	c.stopOnce.Do(func() {
		c.setPhase(PhaseStopping)
		close(c.stopCh)
		c.closeSockets()
		c.sender.Stop()
		c.receiver.Stop()

		done := make(chan struct{})
		go func() {
			c.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(3 * c.cfg.PollTimeout):
			c.log.Warn().Msg("omega.Connection.Stop relay join timed out")
		}
		c.setPhase(PhaseStopped)
		c.log.Info().Msg("omega.Connection.Stop stopped")
	})
}

// WaitUntilRunning blocks until Start has reached the running phase or
// the context ends.
func (c *Connection) WaitUntilRunning(ctx context.Context) error {
	select {
	case <-c.runningCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Connection) Phase() Phase {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.phase
}

func (c *Connection) setPhase(phase Phase) {
	c.mu.Lock()
	c.phase = phase
	c.mu.Unlock()
	c.log.Debug().Str("phase", string(phase)).Msg("omega.Connection phase")
}

func (c *Connection) stopping() bool {
	select {
	case <-c.stopCh:
		return true
	default:
		return false
	}
}
