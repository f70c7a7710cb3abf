package protocol

// RequestHeader identifies the client and session a request belongs to.
//
// The sender stamps one header per built request. RequestID increases by
// exactly one per build, so gaps in a capture point at dropped frames and
// duplicates point at a replay.
type RequestHeader struct {
	ClientID        int64
	SenderSessionID string
	AccessToken     string
	RequestID       uint64
}

// Validate checks the identity fields the gateway refuses requests without.
func (h RequestHeader) Validate() error {
	if h.ClientID == 0 {
		return ErrMissingClientID
	}
	if h.SenderSessionID == "" {
		return ErrMissingSenderSession
	}
	return nil
}

// ResponseEnvelope is one decoded inbound frame: routing identity plus a
// kind-tagged payload.
type ResponseEnvelope struct {
	ClientID        int64
	SenderSessionID string
	RequestID       uint64
	Kind            ResponseKind
	Body            Response
}
