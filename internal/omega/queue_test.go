package omega

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/danmuck/omegaclient/internal/protocol"
	"github.com/danmuck/omegaclient/internal/testutil/testlog"
)

func TestOutboundQueueFIFO(t *testing.T) {
	testlog.Start(t)

	q := NewOutboundQueue()
	kinds := []protocol.RequestKind{protocol.RequestLogon, protocol.RequestHeartbeat, protocol.RequestPlaceOrder}
	for _, kind := range kinds {
		if err := q.Enqueue(OutboundItem{Kind: kind, Frame: []byte(kind)}); err != nil {
			t.Fatalf("enqueue %s: %v", kind, err)
		}
	}
	if got := q.Depth(); got != len(kinds) {
		t.Fatalf("depth = %d, want %d", got, len(kinds))
	}
	for _, want := range kinds {
		item, ok := q.Dequeue(time.Second)
		if !ok {
			t.Fatalf("dequeue %s: queue empty", want)
		}
		if item.Kind != want {
			t.Fatalf("dequeue kind = %s, want %s", item.Kind, want)
		}
	}
}

func TestOutboundQueueDequeueTimeout(t *testing.T) {
	testlog.Start(t)

	q := NewOutboundQueue()
	start := time.Now()
	if _, ok := q.Dequeue(50 * time.Millisecond); ok {
		t.Fatal("dequeue on empty queue returned an item")
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Fatalf("dequeue returned after %v, want the full wait", elapsed)
	}
}

func TestOutboundQueueClose(t *testing.T) {
	testlog.Start(t)

	q := NewOutboundQueue()
	if err := q.Enqueue(OutboundItem{Kind: protocol.RequestHeartbeat}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	q.Close()

	if err := q.Enqueue(OutboundItem{Kind: protocol.RequestHeartbeat}); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("enqueue after close = %v, want %v", err, ErrQueueClosed)
	}
	if _, ok := q.Dequeue(time.Second); !ok {
		t.Fatal("dequeue after close dropped the queued item")
	}
	if _, ok := q.Dequeue(10 * time.Millisecond); ok {
		t.Fatal("dequeue on drained closed queue returned an item")
	}
	q.Close()
}

func TestOutboundQueueConcurrentEnqueue(t *testing.T) {
	testlog.Start(t)

	q := NewOutboundQueue()
	const producers = 8
	const perProducer = 50

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				if err := q.Enqueue(OutboundItem{Kind: protocol.RequestTest}); err != nil {
					t.Errorf("enqueue: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	got := 0
	for {
		if _, ok := q.Dequeue(10 * time.Millisecond); !ok {
			break
		}
		got++
	}
	if got != producers*perProducer {
		t.Fatalf("drained %d items, want %d", got, producers*perProducer)
	}
}

func TestOutboundItemEncodePrefersThunk(t *testing.T) {
	testlog.Start(t)

	item := OutboundItem{Frame: []byte("raw"), Encode: func() ([]byte, error) { return []byte("thunk"), nil }}
	frame, err := item.encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(frame) != "thunk" {
		t.Fatalf("frame = %q, want thunk", frame)
	}

	item = OutboundItem{Frame: []byte("raw")}
	frame, err = item.encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(frame) != "raw" {
		t.Fatalf("frame = %q, want raw", frame)
	}
}
