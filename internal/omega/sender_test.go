package omega

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-zeromq/zmq4"
	"github.com/rs/zerolog"

	"github.com/danmuck/omegaclient/internal/protocol"
	"github.com/danmuck/omegaclient/internal/protocol/jsoncodec"
	"github.com/danmuck/omegaclient/internal/protocol/session"
	"github.com/danmuck/omegaclient/internal/testutil/testlog"
)

func testSenderConfig(endpoint string) SenderConfig {
	return SenderConfig{
		Endpoint:        endpoint,
		ClientID:        7,
		SenderSessionID: "session-7",
		DequeueWait:     50 * time.Millisecond,
	}
}

func testOrder() protocol.Order {
	return protocol.Order{
		AccountID: 11,
		Symbol:    "BTC/USD",
		Side:      protocol.SideBuy,
		OrderType: protocol.OrderTypeLimit,
		Quantity:  1.5,
		Price:     30000,
	}
}

// drainHeaders pops everything queued and decodes each frame back into
// its stamped header.
func drainHeaders(t *testing.T, s *RequestSender) []protocol.RequestHeader {
	t.Helper()
	codec := jsoncodec.New()
	var headers []protocol.RequestHeader
	for {
		item, ok := s.queue.Dequeue(10 * time.Millisecond)
		if !ok {
			return headers
		}
		frame, err := item.encode()
		if err != nil {
			t.Fatalf("encode %s: %v", item.Kind, err)
		}
		header, _, err := codec.DecodeRequest(frame)
		if err != nil {
			t.Fatalf("decode %s: %v", item.Kind, err)
		}
		headers = append(headers, header)
	}
}

func TestSenderConfigValidate(t *testing.T) {
	testlog.Start(t)

	cases := []struct {
		name   string
		mutate func(*SenderConfig)
		want   error
	}{
		{"valid", func(*SenderConfig) {}, nil},
		{"missing endpoint", func(c *SenderConfig) { c.Endpoint = "" }, ErrMissingLoopback},
		{"zero client id", func(c *SenderConfig) { c.ClientID = 0 }, ErrInvalidClientID},
		{"missing session id", func(c *SenderConfig) { c.SenderSessionID = "" }, ErrMissingSessionID},
		{"zero dequeue wait", func(c *SenderConfig) { c.DequeueWait = 0 }, ErrInvalidDequeueWait},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testSenderConfig("inproc://sender-validate")
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("validate = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestRequestSenderStampsSequentialIDs(t *testing.T) {
	testlog.Start(t)

	s, err := NewRequestSender(testSenderConfig("inproc://sender-ids"), jsoncodec.New(), nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("new sender: %v", err)
	}

	if _, err := s.SendHeartbeat(); err != nil {
		t.Fatalf("heartbeat: %v", err)
	}
	if _, err := s.PlaceOrder(testOrder()); err != nil {
		t.Fatalf("place order: %v", err)
	}
	if _, err := s.RequestServerTime(); err != nil {
		t.Fatalf("server time: %v", err)
	}

	headers := drainHeaders(t, s)
	if len(headers) != 3 {
		t.Fatalf("queued %d requests, want 3", len(headers))
	}
	for i, header := range headers {
		if want := uint64(i + 1); header.RequestID != want {
			t.Fatalf("request %d id = %d, want %d", i, header.RequestID, want)
		}
		if header.ClientID != 7 || header.SenderSessionID != "session-7" {
			t.Fatalf("request %d header = %+v", i, header)
		}
	}
	if got := s.LastRequestID(); got != 3 {
		t.Fatalf("last request id = %d, want 3", got)
	}
}

func TestRequestSenderRejectedBuildDoesNotStamp(t *testing.T) {
	testlog.Start(t)

	s, err := NewRequestSender(testSenderConfig("inproc://sender-reject"), jsoncodec.New(), nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("new sender: %v", err)
	}

	bad := testOrder()
	bad.Quantity = 0
	if _, err := s.PlaceOrder(bad); !errors.Is(err, protocol.ErrInvalidQuantity) {
		t.Fatalf("place order = %v, want %v", err, protocol.ErrInvalidQuantity)
	}
	if got := s.LastRequestID(); got != 0 {
		t.Fatalf("last request id = %d, want 0 after rejected build", got)
	}
	if got := s.QueueDepth(); got != 0 {
		t.Fatalf("queue depth = %d, want 0 after rejected build", got)
	}

	if _, err := s.SendHeartbeat(); err != nil {
		t.Fatalf("heartbeat: %v", err)
	}
	headers := drainHeaders(t, s)
	if len(headers) != 1 || headers[0].RequestID != 1 {
		t.Fatalf("headers = %+v, want single request with id 1", headers)
	}
}

func TestRequestSenderInterleavedBuilders(t *testing.T) {
	testlog.Start(t)

	s, err := NewRequestSender(testSenderConfig("inproc://sender-interleave"), jsoncodec.New(), nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("new sender: %v", err)
	}

	const callers = 6
	const perCaller = 25
	var wg sync.WaitGroup
	wg.Add(callers)
	for c := 0; c < callers; c++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perCaller; i++ {
				if _, err := s.SendHeartbeat(); err != nil {
					t.Errorf("heartbeat: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	headers := drainHeaders(t, s)
	if len(headers) != callers*perCaller {
		t.Fatalf("queued %d requests, want %d", len(headers), callers*perCaller)
	}
	seen := make(map[uint64]bool, len(headers))
	for _, header := range headers {
		if header.RequestID == 0 || header.RequestID > uint64(callers*perCaller) {
			t.Fatalf("request id %d out of range", header.RequestID)
		}
		if seen[header.RequestID] {
			t.Fatalf("request id %d issued twice", header.RequestID)
		}
		seen[header.RequestID] = true
	}
}

func TestRequestSenderSessionTokens(t *testing.T) {
	testlog.Start(t)

	state := session.NewState()
	s, err := NewRequestSender(testSenderConfig("inproc://sender-tokens"), jsoncodec.New(), state, zerolog.Nop())
	if err != nil {
		t.Fatalf("new sender: %v", err)
	}

	if _, err := s.RequestAuthorizationRefresh(); !errors.Is(err, protocol.ErrMissingRefreshToken) {
		t.Fatalf("refresh without session = %v, want %v", err, protocol.ErrMissingRefreshToken)
	}

	state.ApplyGrant(protocol.AuthorizationGrant{
		Success:      true,
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpireAt:     time.Now().Add(time.Hour),
	})

	refresh, err := s.RequestAuthorizationRefresh()
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refresh.RefreshToken != "refresh-1" {
		t.Fatalf("refresh token = %q, want refresh-1", refresh.RefreshToken)
	}

	headers := drainHeaders(t, s)
	if len(headers) != 1 {
		t.Fatalf("queued %d requests, want 1", len(headers))
	}
	if headers[0].AccessToken != "access-1" {
		t.Fatalf("access token = %q, want access-1", headers[0].AccessToken)
	}
}

func TestPlaceOrderFillsDefaults(t *testing.T) {
	testlog.Start(t)

	s, err := NewRequestSender(testSenderConfig("inproc://sender-defaults"), jsoncodec.New(), nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("new sender: %v", err)
	}

	order, err := s.PlaceOrder(testOrder())
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if order.ClientOrderID == "" {
		t.Fatal("client order id not generated")
	}
	if order.TimeInForce != protocol.TimeInForceGTC {
		t.Fatalf("time in force = %q, want %q", order.TimeInForce, protocol.TimeInForceGTC)
	}
	if order.LeverageType != protocol.LeverageNone {
		t.Fatalf("leverage type = %q, want %q", order.LeverageType, protocol.LeverageNone)
	}

	sell := testOrder()
	sell.Side = protocol.SideSell
	contingent, err := s.PlaceContingentOrder(protocol.ContingentOrder{
		Type:   protocol.ContingentOCO,
		Orders: []protocol.Order{testOrder(), sell},
	})
	if err != nil {
		t.Fatalf("place contingent: %v", err)
	}
	for i, member := range contingent.Orders {
		if member.ClientOrderID == "" {
			t.Fatalf("member %d client order id not generated", i)
		}
	}
}

func TestRequestSenderWorkerShipsFrames(t *testing.T) {
	testlog.Start(t)

	endpoint := "inproc://sender-worker"
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bridge := zmq4.NewPair(ctx)
	if err := bridge.Listen(endpoint); err != nil {
		t.Fatalf("listen %s: %v", endpoint, err)
	}
	defer bridge.Close()

	s, err := NewRequestSender(testSenderConfig(endpoint), jsoncodec.New(), nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("new sender: %v", err)
	}
	if err := s.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop()

	if _, err := s.SendTestMessage("ping"); err != nil {
		t.Fatalf("test message: %v", err)
	}

	msg, err := bridge.Recv()
	if err != nil {
		t.Fatalf("recv: %v", err)
	}
	if len(msg.Frames) == 0 {
		t.Fatal("recv returned no frames")
	}
	header, request, err := jsoncodec.New().DecodeRequest(msg.Frames[0])
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if header.RequestID != 1 {
		t.Fatalf("request id = %d, want 1", header.RequestID)
	}
	tm, ok := request.(protocol.TestMessage)
	if !ok {
		t.Fatalf("request type = %T, want protocol.TestMessage", request)
	}
	if tm.Message != "ping" {
		t.Fatalf("message = %q, want ping", tm.Message)
	}
}

func TestRequestSenderStopWithinDequeueWait(t *testing.T) {
	testlog.Start(t)

	endpoint := "inproc://sender-stop-bound"
	ctx := context.Background()
	bridge := zmq4.NewPair(ctx)
	if err := bridge.Listen(endpoint); err != nil {
		t.Fatalf("listen %s: %v", endpoint, err)
	}
	defer bridge.Close()

	s, err := NewRequestSender(testSenderConfig(endpoint), jsoncodec.New(), nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("new sender: %v", err)
	}
	if err := s.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	start := time.Now()
	s.Stop()
	if elapsed, bound := time.Since(start), s.cfg.DequeueWait; elapsed > bound {
		t.Fatalf("stop took %v, want at most %v", elapsed, bound)
	}
}

func TestRequestSenderStopAbandonsQueue(t *testing.T) {
	testlog.Start(t)

	// The worker never starts, so queued requests stay put.
	s, err := NewRequestSender(testSenderConfig("inproc://sender-abandon"), jsoncodec.New(), nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("new sender: %v", err)
	}
	if _, err := s.SendHeartbeat(); err != nil {
		t.Fatalf("heartbeat: %v", err)
	}
	if _, err := s.SendTestMessage("ping"); err != nil {
		t.Fatalf("test message: %v", err)
	}

	s.Stop()
	if got := s.QueueDepth(); got != 2 {
		t.Fatalf("depth after stop = %d, want the 2 abandoned items", got)
	}
	if _, err := s.SendHeartbeat(); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("build after stop = %v, want %v", err, ErrQueueClosed)
	}
	// The counter still ticked for the rejected build.
	if got := s.LastRequestID(); got != 3 {
		t.Fatalf("last request id = %d, want 3", got)
	}
}
