package omega

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/danmuck/omegaclient/internal/protocol"
	"github.com/danmuck/omegaclient/internal/protocol/jsoncodec"
	"github.com/danmuck/omegaclient/internal/protocol/session"
	"github.com/danmuck/omegaclient/internal/testutil/testlog"
)

func testClientConfig(gatewayAddr, tag string) ClientConfig {
	cfg := DefaultClientConfig(gatewayAddr, 7)
	cfg.SenderSessionID = "session-" + tag
	cfg.Credentials = []protocol.AccountCredentials{{AccountID: 11, APIKey: "key", SecretKey: "secret"}}
	cfg.DequeueWait = 50 * time.Millisecond
	cfg.Connection.Identity = "omega-test-" + tag
	cfg.Connection.PollTimeout = 200 * time.Millisecond
	return cfg
}

func TestClientConfigValidate(t *testing.T) {
	testlog.Start(t)

	cases := []struct {
		name   string
		mutate func(*ClientConfig)
		want   error
	}{
		{"valid", func(*ClientConfig) {}, nil},
		{"zero client id", func(c *ClientConfig) { c.ClientID = 0 }, ErrInvalidClientID},
		{"missing session id", func(c *ClientConfig) { c.SenderSessionID = "" }, ErrMissingSessionID},
		{"zero dequeue wait", func(c *ClientConfig) { c.DequeueWait = 0 }, ErrInvalidDequeueWait},
		{"missing gateway", func(c *ClientConfig) { c.Connection.GatewayAddr = "" }, ErrMissingGateway},
		{"bad margin", func(c *ClientConfig) { c.Session.Margin = -time.Second }, session.ErrInvalidRefreshMargin},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testClientConfig("tcp://gateway:9999", "validate")
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("validate = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestClientLogonLifecycle(t *testing.T) {
	testlog.Start(t)

	expireAt := time.Now().Add(time.Hour).UTC()
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
						ExpireAt:     expireAt,
					},
				}),
			}
		case protocol.Logoff:
			return []protocol.ResponseEnvelope{
				echoEnvelope(header, protocol.KindLogoffAck, protocol.LogoffAck{Success: true, Message: "goodbye"}),
			}
		}
		return nil
	})

	handler := newCaptureHandler("logon-lifecycle")
	client, err := NewClient(testClientConfig(gw.addr(), "logon"), jsoncodec.New(), handler, zerolog.Nop())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := client.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(client.Stop)

	if client.State().Authorized() {
		t.Fatal("authorized before logon")
	}

	if _, err := client.Logon(); err != nil {
		t.Fatalf("logon: %v", err)
	}
	ev := waitEvent(t, handler)
	ack, ok := ev.body.(protocol.LogonAck)
	if !ok {
		t.Fatalf("body type = %T, want protocol.LogonAck", ev.body)
	}
	if !ack.Success {
		t.Fatalf("ack = %+v", ack)
	}

	state := client.State()
	if !state.Authorized() {
		t.Fatal("ledger not authorized after logon ack")
	}
	if got := state.AccessToken(); got != "access-1" {
		t.Fatalf("access token = %q, want access-1", got)
	}
	if accounts := state.Accounts(); len(accounts) != 1 || accounts[0].AccountID != 11 {
		t.Fatalf("accounts = %+v", accounts)
	}

	status := client.Status()
	if status.Phase != PhaseRunning || !status.Authorized {
		t.Fatalf("status = %+v", status)
	}
	if status.RefreshPhase != session.RefreshWaiting {
		t.Fatalf("refresh phase = %s, want %s", status.RefreshPhase, session.RefreshWaiting)
	}

	if _, err := client.Logoff(); err != nil {
		t.Fatalf("logoff: %v", err)
	}
	ev = waitEvent(t, handler)
	if _, ok := ev.body.(protocol.LogoffAck); !ok {
		t.Fatalf("body type = %T, want protocol.LogoffAck", ev.body)
	}
	if client.State().Authorized() {
		t.Fatal("ledger still authorized after logoff ack")
	}
	if got := client.Status().RefreshPhase; got != session.RefreshStopped {
		t.Fatalf("refresh phase = %s, want %s", got, session.RefreshStopped)
	}
}

func TestClientTokenRefreshFlow(t *testing.T) {
	testlog.Start(t)

	var refreshes atomic.Int64
	gw := startFakeGateway(t, func(header protocol.RequestHeader, request protocol.Request) []protocol.ResponseEnvelope {
		switch req := request.(type) {
		case protocol.Logon:
			return []protocol.ResponseEnvelope{
				echoEnvelope(header, protocol.KindLogonAck, protocol.LogonAck{
					Success: true,
					Grant: protocol.AuthorizationGrant{
						Success:      true,
						AccessToken:  "access-1",
						RefreshToken: "refresh-1",
						ExpireAt:     time.Now().Add(80 * time.Millisecond),
					},
				}),
			}
		case protocol.AuthorizationRefresh:
			if req.RefreshToken != "refresh-1" {
				return nil
			}
			n := refreshes.Add(1)
			return []protocol.ResponseEnvelope{
				echoEnvelope(header, protocol.KindAuthorizationGrant, protocol.AuthorizationGrant{
					Success:      true,
					AccessToken:  fmt.Sprintf("access-%d", n+1),
					RefreshToken: fmt.Sprintf("refresh-%d", n+1),
					ExpireAt:     time.Now().Add(time.Hour),
				}),
			}
		}
		return nil
	})

	cfg := testClientConfig(gw.addr(), "refresh")
	cfg.Session.Margin = 10 * time.Millisecond

	handler := newCaptureHandler("token-refresh")
	client, err := NewClient(cfg, jsoncodec.New(), handler, zerolog.Nop())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := client.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(client.Stop)

	if _, err := client.Logon(); err != nil {
		t.Fatalf("logon: %v", err)
	}
	if ev := waitEvent(t, handler); ev.kind != protocol.KindLogonAck {
		t.Fatalf("kind = %s, want %s", ev.kind, protocol.KindLogonAck)
	}

	// The refresher fires margin ahead of the 80ms expiry and the
	// gateway rotates the tokens.
	ev := waitEvent(t, handler)
	grant, ok := ev.body.(protocol.AuthorizationGrant)
	if !ok {
		t.Fatalf("body type = %T, want protocol.AuthorizationGrant", ev.body)
	}
	if grant.AccessToken != "access-2" {
		t.Fatalf("access token = %q, want access-2", grant.AccessToken)
	}
	if got := client.State().AccessToken(); got != "access-2" {
		t.Fatalf("ledger access token = %q, want access-2", got)
	}
	if got := client.Status().RefreshPhase; got != session.RefreshWaiting {
		t.Fatalf("refresh phase = %s, want %s", got, session.RefreshWaiting)
	}
}
