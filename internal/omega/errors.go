package omega

import "errors"

var (
	ErrAlreadyStarted     = errors.New("omega: connection already started")
	ErrQueueClosed        = errors.New("omega: outbound queue closed")
	ErrMissingGateway     = errors.New("omega: missing gateway address")
	ErrMissingLoopback    = errors.New("omega: missing loopback endpoint")
	ErrInvalidPollTimeout = errors.New("omega: invalid poll timeout")
	ErrInvalidDequeueWait = errors.New("omega: invalid dequeue wait")
	ErrInvalidClientID    = errors.New("omega: invalid client id")
	ErrMissingSessionID   = errors.New("omega: missing sender session id")
	ErrMissingCodec       = errors.New("omega: missing codec")
	ErrMissingWorker      = errors.New("omega: missing worker")
	ErrUnknownSecurity    = errors.New("omega: unknown security mechanism")
	ErrMissingUsername    = errors.New("omega: plain security needs a username")
	ErrInvalidHeartbeat   = errors.New("omega: invalid heartbeat interval")
	ErrMissingServiceName = errors.New("omega: missing service name")
)
