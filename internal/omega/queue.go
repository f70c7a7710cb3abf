package omega

import (
	"sync"
	"time"

	"github.com/danmuck/omegaclient/internal/observability"
	"github.com/danmuck/omegaclient/internal/protocol"
)

// OutboundItem is one queued request: a pre-encoded frame, or an Encode
// thunk the send worker runs so header stamping stays cheap on the
// caller's goroutine.
type OutboundItem struct {
	Kind   protocol.RequestKind
	Frame  []byte
	Encode func() ([]byte, error)
}

func (i OutboundItem) encode() ([]byte, error) {
	if i.Encode != nil {
		return i.Encode()
	}
	return i.Frame, nil
}

// OutboundQueue is the FIFO between request builders and the send
// worker. Enqueue never blocks; the queue grows without bound and depth
// is exported as a gauge so backlog shows up in monitoring instead of
// as producer stalls.
type OutboundQueue struct {
	mu     sync.Mutex
	items  []OutboundItem
	wake   chan struct{}
	closed bool
}

func NewOutboundQueue() *OutboundQueue {
	return &OutboundQueue{wake: make(chan struct{}, 1)}
}

// Enqueue appends item in arrival order.
func (q *OutboundQueue) Enqueue(item OutboundItem) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	q.items = append(q.items, item)
	depth := len(q.items)
	q.mu.Unlock()

	observability.SetOutboundQueueDepth(depth)
	select {
	case q.wake <- struct{}{}:
	default:
	}
	return nil
}

// Dequeue pops the oldest item, waiting up to wait for one to arrive.
// ok is false on timeout and once the queue is closed and the pop found
// nothing. The bounded wait doubles as the send worker's stop poll.
func (q *OutboundQueue) Dequeue(wait time.Duration) (OutboundItem, bool) {
	timer := time.NewTimer(wait)
	defer timer.Stop()
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			item := q.items[0]
			q.items = q.items[1:]
			depth := len(q.items)
			q.mu.Unlock()
			observability.SetOutboundQueueDepth(depth)
			return item, true
		}
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return OutboundItem{}, false
		}

		select {
		case <-q.wake:
		case <-timer.C:
			return OutboundItem{}, false
		}
	}
}

// Close rejects further enqueues and wakes the consumer. Items still
// queued are abandoned with the session.
func (q *OutboundQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Depth reports how many items are waiting.
func (q *OutboundQueue) Depth() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
