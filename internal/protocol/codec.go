package protocol

// Codec converts between typed payloads and wire frames.
//
// The runtime treats frames as opaque bytes. Implementations own the wire
// schema; DecodeResponse must return ErrUnknownKind (wrapped or bare) for
// kinds outside the registry so the receiver can drop them without
// tearing down the session.
type Codec interface {
	EncodeRequest(header RequestHeader, request Request) ([]byte, error)
	DecodeResponse(frame []byte) (ResponseEnvelope, error)
}
