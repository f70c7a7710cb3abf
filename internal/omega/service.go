package omega

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/danmuck/omegaclient/internal/ops"
	"github.com/danmuck/omegaclient/internal/protocol"
)

// ServiceConfig configures the standalone client runtime.
type ServiceConfig struct {
	// Name labels logs, metrics, and the ops surface.
	Name string
	// HeartbeatInterval paces the keepalive sent to the gateway.
	HeartbeatInterval time.Duration
	// AutoLogon signs in with the configured credentials as soon as
	// the connection is running.
	AutoLogon bool
	Client    ClientConfig
	Ops       ops.Config
}

func DefaultServiceConfig(gatewayAddr string, clientID int64) ServiceConfig {
	return ServiceConfig{
		Name:              "omega.client",
		HeartbeatInterval: 30 * time.Second,
		AutoLogon:         true,
		Client:            DefaultClientConfig(gatewayAddr, clientID),
	}
}

func (c ServiceConfig) Validate() error {
	if c.Name == "" {
		return ErrMissingServiceName
	}
	if c.HeartbeatInterval <= 0 {
		return ErrInvalidHeartbeat
	}
	return c.Client.Validate()
}

// Service runs one client as a long-lived process: connection up,
// optional logon, heartbeats on a ticker, ops surface on the side, and
// a graceful logoff on shutdown.
type Service struct {
	cfg    ServiceConfig
	client *Client
	ops    *ops.Server
	log    zerolog.Logger
}

func NewService(cfg ServiceConfig, codec protocol.Codec, handler ResponseHandler, log zerolog.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := NewClient(cfg.Client, codec, handler, log)
	if err != nil {
		return nil, err
	}
	opsCfg := cfg.Ops
	if opsCfg.Name == "" {
		opsCfg.Name = cfg.Name
	}
	svc := &Service{cfg: cfg, client: client, log: log}
	svc.ops = ops.New(opsCfg,
		func() any { return client.Status() },
		func() bool { return client.Status().Phase == PhaseRunning },
		log,
	)
	return svc, nil
}

// Client exposes the wrapped client for request building.
func (s *Service) Client() *Client {
	return s.client
}

// Run serves until SIGINT or SIGTERM.
func (s *Service) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return s.RunContext(ctx)
}

// RunContext serves until ctx ends.
func (s *Service) RunContext(ctx context.Context) error {
	if err := s.bootstrap(ctx); err != nil {
		return err
	}
	return s.serve(ctx)
}

func (s *Service) bootstrap(ctx context.Context) error {
	if err := s.client.Start(ctx); err != nil {
		return err
	}
	if s.cfg.AutoLogon {
		if _, err := s.client.Logon(); err != nil {
			s.client.Stop()
			return err
		}
	}
	s.log.Info().Str("name", s.cfg.Name).Str("gateway", s.cfg.Client.Connection.GatewayAddr).Msg("omega.Service.bootstrap ready")
	return nil
}

func (s *Service) serve(ctx context.Context) error {
	defer s.shutdown()

	ticker := time.NewTicker(s.cfg.HeartbeatInterval)
	defer ticker.Stop()

	opsErr := make(chan error, 1)
	go func() {
		opsErr <- s.ops.Run(ctx)
	}()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("omega.Service.serve shutdown")
			return nil
		case err := <-opsErr:
			if err != nil {
				return err
			}
		case <-ticker.C:
			if _, err := s.client.Sender().SendHeartbeat(); err != nil {
				s.log.Error().Err(err).Msg("omega.Service.serve heartbeat failed")
				continue
			}
			status := s.client.Status()
			s.log.Info().Str("phase", string(status.Phase)).Bool("authorized", status.Authorized).Int("queue_depth", status.QueueDepth).Uint64("last_request_id", status.LastRequestID).Msg("omega.Service.heartbeat")
		}
	}
}

// shutdown signs off if a session is live, gives the worker a bounded
// window to ship it, then tears the connection down.
func (s *Service) shutdown() {
	if s.client.State().Authorized() {
		if _, err := s.client.Logoff(); err != nil {
			s.log.Warn().Err(err).Msg("omega.Service.shutdown logoff failed")
		} else {
			s.drainOutbound(2 * s.cfg.Client.DequeueWait)
		}
	}
	s.client.Stop()
}

func (s *Service) drainOutbound(window time.Duration) {
	deadline := time.Now().Add(window)
	for time.Now().Before(deadline) {
		if s.client.Sender().QueueDepth() == 0 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	s.log.Warn().Int("queued", s.client.Sender().QueueDepth()).Msg("omega.Service.shutdown drain window elapsed")
}
