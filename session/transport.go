package session

// TransportError is the narrow error vocabulary a Transport reports through
// its callbacks. A nil TransportError means success; Session never inspects
// its fields beyond that, mapping any non-nil value to the appropriate
// SessionErrorKind for the operation that was in flight.
type TransportError error

// Transport is the capability a Session requires of its underlying
// WebSocket-over-TLS carrier. The session is polymorphic over this
// interface rather than any concrete transport, per the specification's
// explicit preference for interface abstraction over templated
// inheritance. transport/ws.Client is the concrete production
// implementation; tests supply an in-memory fake.
type Transport interface {
	// Connect establishes the secure WebSocket session. onOpen fires once
	// connected; onMessage fires for every inbound frame payload until the
	// transport closes; onClose fires once, however the transport ends.
	Connect(onOpen func(TransportError), onMessage func([]byte), onClose func(TransportError))

	// Send enqueues a text-mode frame. onSent fires exactly once.
	Send(data []byte, onSent func(TransportError))

	// Close initiates orderly shutdown. onClosed fires exactly once.
	Close(onClosed func(TransportError))
}
