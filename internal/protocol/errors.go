package protocol

import "errors"

var (
	ErrMissingClientID      = errors.New("protocol: missing client id")
	ErrMissingSenderSession = errors.New("protocol: missing sender session id")
	ErrMissingCredentials   = errors.New("protocol: missing account credentials")
	ErrMissingAPIKey        = errors.New("protocol: missing api key")
	ErrMissingSecretKey     = errors.New("protocol: missing secret key")
	ErrMissingAccountID     = errors.New("protocol: missing account id")
	ErrMissingSymbol        = errors.New("protocol: missing symbol")
	ErrMissingOrderID       = errors.New("protocol: missing order id")
	ErrMissingRefreshToken  = errors.New("protocol: missing refresh token")
	ErrInvalidSide          = errors.New("protocol: invalid side")
	ErrInvalidOrderType     = errors.New("protocol: invalid order type")
	ErrInvalidQuantity      = errors.New("protocol: invalid quantity")
	ErrInvalidPrice         = errors.New("protocol: invalid price")
	ErrInvalidTimeInForce   = errors.New("protocol: invalid time in force")
	ErrMissingExpireTime    = errors.New("protocol: missing expire time")
	ErrInvalidLeverage      = errors.New("protocol: invalid leverage")
	ErrInvalidContingent    = errors.New("protocol: invalid contingent order")
	ErrInvalidExchange      = errors.New("protocol: invalid exchange")
	ErrUnknownKind          = errors.New("protocol: unknown response kind")
	ErrBodyKindMismatch     = errors.New("protocol: body does not match envelope kind")
)
