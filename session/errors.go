package session

// SessionErrorKind is the closed set of reasons a pending handler can be
// invoked with something other than success.
type SessionErrorKind uint8

const (
	// Ok is never returned as an error from a failing path. Handlers
	// receive a nil *SessionError on success; IsOk treats Kind Ok the same
	// as nil.
	Ok SessionErrorKind = iota

	// Undefined covers both the specification's informal "InvalidFrame"
	// on-connect failure during the handshake and its "current-state
	// error" result for any API call made against a Failed or Closed
	// session — neither is a literal member of the closed SessionError
	// set, so both collapse to Undefined.
	Undefined

	CouldNotConnectTransport
	CouldNotSendStompFrame
	CouldNotSendSubscribeFrame
	CouldNotCreateValidFrame
	UnexpectedMessageContentType
	SubscriptionMismatch
	TransportDisconnected
	CouldNotCloseTransport

	numSessionErrorKinds
)

var sessionErrorText = [numSessionErrorKinds]string{
	Ok:                           "ok",
	Undefined:                    "undefined session error",
	CouldNotConnectTransport:     "could not connect transport",
	CouldNotSendStompFrame:       "could not send stomp frame",
	CouldNotSendSubscribeFrame:   "could not send subscribe frame",
	CouldNotCreateValidFrame:     "could not create valid frame",
	UnexpectedMessageContentType: "unexpected message content type",
	SubscriptionMismatch:         "subscription mismatch",
	TransportDisconnected:        "transport disconnected",
	CouldNotCloseTransport:       "could not close transport",
}

func (k SessionErrorKind) String() string {
	if k >= numSessionErrorKinds {
		return "unknown session error"
	}
	return sessionErrorText[k]
}

// SessionError is the error type every Session handler callback receives.
// A nil *SessionError (or one with Kind Ok) denotes success.
type SessionError struct {
	Kind SessionErrorKind
}

func (e *SessionError) Error() string {
	return "session: " + e.Kind.String()
}

func (e *SessionError) Is(target error) bool {
	other, ok := target.(*SessionError)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// IsOk reports whether e represents success. A nil e is success.
func IsOk(e *SessionError) bool {
	return e == nil || e.Kind == Ok
}

var (
	ErrUndefined                    = &SessionError{Kind: Undefined}
	ErrCouldNotConnectTransport     = &SessionError{Kind: CouldNotConnectTransport}
	ErrCouldNotSendStompFrame       = &SessionError{Kind: CouldNotSendStompFrame}
	ErrCouldNotSendSubscribeFrame   = &SessionError{Kind: CouldNotSendSubscribeFrame}
	ErrCouldNotCreateValidFrame     = &SessionError{Kind: CouldNotCreateValidFrame}
	ErrUnexpectedMessageContentType = &SessionError{Kind: UnexpectedMessageContentType}
	ErrSubscriptionMismatch         = &SessionError{Kind: SubscriptionMismatch}
	ErrTransportDisconnected        = &SessionError{Kind: TransportDisconnected}
	ErrCouldNotCloseTransport       = &SessionError{Kind: CouldNotCloseTransport}
)
