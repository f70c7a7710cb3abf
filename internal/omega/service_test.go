package omega

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/danmuck/omegaclient/internal/protocol"
	"github.com/danmuck/omegaclient/internal/protocol/jsoncodec"
	"github.com/danmuck/omegaclient/internal/testutil/testlog"
)

func TestServiceConfigValidate(t *testing.T) {
	testlog.Start(t)

	cases := []struct {
		name   string
		mutate func(*ServiceConfig)
		want   error
	}{
		{"valid", func(*ServiceConfig) {}, nil},
		{"missing name", func(c *ServiceConfig) { c.Name = "" }, ErrMissingServiceName},
		{"zero heartbeat", func(c *ServiceConfig) { c.HeartbeatInterval = 0 }, ErrInvalidHeartbeat},
		{"bad client", func(c *ServiceConfig) { c.Client.ClientID = 0 }, ErrInvalidClientID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultServiceConfig("tcp://gateway:9999", 7)
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("validate = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestServiceRunContextLifecycle(t *testing.T) {
	testlog.Start(t)

	gw := startFakeGateway(t, func(header protocol.RequestHeader, request protocol.Request) []protocol.ResponseEnvelope {
		switch request.(type) {
		case protocol.Logon:
			return []protocol.ResponseEnvelope{
				echoEnvelope(header, protocol.KindLogonAck, protocol.LogonAck{
					Success:  true,
					Accounts: []protocol.AccountInfo{{AccountID: 11, Exchange: protocol.ExchangeKraken}},
					Grant: protocol.AuthorizationGrant{
						Success:      true,
						AccessToken:  "access-1",
						RefreshToken: "refresh-1",
						ExpireAt:     time.Now().Add(time.Hour),
					},
				}),
			}
		case protocol.Heartbeat:
			return []protocol.ResponseEnvelope{
				echoEnvelope(header, protocol.KindHeartbeat, protocol.Heartbeat{}),
			}
		case protocol.Logoff:
			return []protocol.ResponseEnvelope{
				echoEnvelope(header, protocol.KindLogoffAck, protocol.LogoffAck{Success: true}),
			}
		}
		return nil
	})

	cfg := ServiceConfig{
		Name:              "omega-test",
		HeartbeatInterval: 100 * time.Millisecond,
		AutoLogon:         true,
		Client:            testClientConfig(gw.addr(), "service"),
	}
	handler := newCaptureHandler("service")
	svc, err := NewService(cfg, jsoncodec.New(), handler, zerolog.Nop())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	runErr := make(chan error, 1)
	go func() { runErr <- svc.RunContext(ctx) }()

	if ev := waitEvent(t, handler); ev.kind != protocol.KindLogonAck {
		t.Fatalf("first event = %s, want %s", ev.kind, protocol.KindLogonAck)
	}
	if !svc.Client().State().Authorized() {
		t.Fatal("expected authorized session after logon ack")
	}
	if ev := waitEvent(t, handler); ev.kind != protocol.KindHeartbeat {
		t.Fatalf("second event = %s, want %s", ev.kind, protocol.KindHeartbeat)
	}

	cancel()
	select {
	case err := <-runErr:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("service did not stop")
	}
	if got := svc.Client().Status().Phase; got != PhaseStopped {
		t.Fatalf("phase = %s, want %s", got, PhaseStopped)
	}
}
