// Package session implements the STOMP session state machine: the layer
// above frame that turns a byte transport into CONNECT/SUBSCRIBE/receipt
// semantics. The package owns no I/O itself; it drives an abstract
// Transport and reports progress and inbound messages through callbacks
// posted to a single-goroutine task queue (see strand.go), so callers never
// observe two callbacks running concurrently for the same Session.
package session

// State is the closed set of states a Session moves through, corresponding
// to the specification's STOMP Session state table.
type State uint8

const (
	Idle State = iota
	WsConnecting
	StompConnecting
	Connected
	Closing
	Closed
	Failed

	numStates
)

var stateNames = [numStates]string{
	Idle:            "idle",
	WsConnecting:    "ws-connecting",
	StompConnecting: "stomp-connecting",
	Connected:       "connected",
	Closing:         "closing",
	Closed:          "closed",
	Failed:          "failed",
}

func (s State) String() string {
	if s >= numStates {
		return "unknown"
	}
	return stateNames[s]
}
