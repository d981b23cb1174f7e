package session

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/transitflow/stomp-client/frame"
)

// OnConnect is invoked exactly once: with a nil SessionError once the
// server's CONNECTED frame arrives, or with the session error describing
// the first fatal step.
type OnConnect func(*SessionError)

// OnDisconnect is invoked at most once, whether the transport closed on
// peer initiative or because of an error.
type OnDisconnect func(*SessionError)

// OnClose is invoked once, reporting the result of a Close request.
type OnClose func(*SessionError)

// Session is the STOMP client session state machine: it owns one
// Transport, drives the CONNECT/CONNECTED handshake, maintains the
// subscription table, and dispatches inbound MESSAGE/RECEIPT frames.
// Every exported field would let a caller observe or mutate state outside
// the strand, so Session has none; it is always used through a *Session,
// and moving that pointer is how ownership of the transport and
// subscription table transfers, matching the specification's "the copy
// operation is forbidden; moving the session transfers ownership".
type Session struct {
	host      string
	transport Transport
	strand    *strand
	logger    *logrus.Entry

	state State
	subs  *subscriptionTable

	pendingConnect func(*SessionError)
	onDisconnect   func(*SessionError)
	pendingClose   func(*SessionError)
}

// New constructs a Session bound to transport, which must not yet be
// connected. host is sent as the CONNECT/STOMP frame's host header. logger
// may be nil, in which case a disabled logger is used.
func New(host string, transport Transport, logger *logrus.Logger) *Session {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Session{
		host:      host,
		transport: transport,
		strand:    newStrand(),
		logger:    logger.WithField("component", "session"),
		state:     Idle,
		subs:      newSubscriptionTable(),
	}
}

// State returns the session's current state. Supplemental to spec.md,
// useful for diagnostics and tests; does not itself trigger any
// transition.
func (s *Session) State() State {
	result := make(chan State, 1)
	s.strand.post(func() { result <- s.state })
	return <-result
}

// Connect initiates the transport connection and, once it succeeds, sends
// a CONNECT frame carrying accept-version 1.2, host, login, and passcode.
func (s *Session) Connect(username, password string, onConnect OnConnect, onDisconnect OnDisconnect) {
	s.strand.post(func() {
		if s.state != Idle {
			invokeConnect(onConnect, ErrUndefined)
			return
		}
		s.pendingConnect = onConnect
		s.onDisconnect = onDisconnect
		s.state = WsConnecting
		s.logger.Debug("connecting transport")

		s.transport.Connect(
			s.onTransportOpen(username, password),
			s.onTransportMessage,
			s.onTransportClose,
		)
	})
}

func (s *Session) onTransportOpen(username, password string) func(TransportError) {
	return func(terr TransportError) {
		s.strand.post(func() {
			if s.state != WsConnecting {
				return
			}
			if terr != nil {
				s.logger.WithError(terr).Warn("transport connect failed")
				s.failConnect(ErrCouldNotConnectTransport)
				return
			}

			s.state = StompConnecting
			s.logger.Debug("transport connected, sending STOMP handshake")

			f := frame.New(frame.CONNECT,
				frame.HeaderEntry{Key: frame.AcceptVersion, Value: "1.2"},
				frame.HeaderEntry{Key: frame.Host, Value: s.host},
				frame.HeaderEntry{Key: frame.Login, Value: username},
				frame.HeaderEntry{Key: frame.Passcode, Value: password},
			)
			if err := f.Validate(); err != nil {
				s.logger.WithError(err).Error("could not build CONNECT frame")
				s.failConnect(ErrCouldNotCreateValidFrame)
				return
			}

			s.transport.Send(f.Encode(), func(terr TransportError) {
				s.strand.post(func() {
					if terr != nil && s.state == StompConnecting {
						s.logger.WithError(terr).Warn("sending STOMP frame failed")
						s.failConnect(ErrCouldNotSendStompFrame)
					}
				})
			})
		})
	}
}

func (s *Session) onTransportMessage(data []byte) {
	s.strand.post(func() {
		f, err := frame.Decode(data)
		if err != nil {
			s.logger.WithError(err).Warn("dropping undecodable frame")
			if s.state == StompConnecting {
				s.failConnect(ErrUndefined)
			}
			return
		}
		s.dispatch(f)
	})
}

func (s *Session) onTransportClose(terr TransportError) {
	s.strand.post(func() {
		s.state = Closed

		// A handshake still pending here, including one interrupted by
		// Close, ends with TransportDisconnected.
		s.succeedConnectWith(ErrTransportDisconnected)

		if s.pendingClose != nil {
			onClose := s.pendingClose
			s.pendingClose = nil
			invokeConnect(onClose, nil)
		}

		if s.onDisconnect != nil {
			onDisconnect := s.onDisconnect
			s.onDisconnect = nil
			if terr != nil {
				invokeConnect(onDisconnect, ErrTransportDisconnected)
			} else {
				invokeConnect(onDisconnect, nil)
			}
		}
	})
}

func (s *Session) dispatch(f *frame.Frame) {
	switch f.Command {
	case frame.CONNECTED:
		s.handleConnected()
	case frame.RECEIPT:
		s.handleReceipt(f)
	case frame.MESSAGE:
		s.handleMessage(f)
	case frame.ERROR:
		s.logger.WithField("body", string(f.Body)).Warn("received ERROR frame")
	default:
		s.logger.WithField("command", f.Command).Warn("unexpected frame from server")
	}
}

func (s *Session) handleConnected() {
	if s.state != StompConnecting {
		return
	}
	s.state = Connected
	s.logger.Debug("STOMP handshake complete")
	s.succeedConnect()
}

func (s *Session) handleReceipt(f *frame.Frame) {
	id, ok := f.Get(frame.ReceiptID)
	if !ok {
		s.logger.Debug("RECEIPT frame missing receipt-id, dropping")
		return
	}
	sub, ok := s.subs.find(id)
	if !ok {
		s.logger.WithField("id", id).Debug("RECEIPT for unknown subscription, dropping")
		return
	}
	if sub.acknowledged {
		return
	}
	sub.acknowledged = true
	invokeSubscribe(sub.OnSubscribe, nil, id)
}

func (s *Session) handleMessage(f *frame.Frame) {
	id, ok := f.Get(frame.ReceiptID)
	if !ok {
		s.logger.Debug("MESSAGE frame missing receipt-id, dropping")
		return
	}
	sub, ok := s.subs.find(id)
	if !ok {
		s.logger.WithField("id", id).Debug("MESSAGE for unknown subscription, dropping")
		return
	}

	dest, _ := f.Get(frame.Destination)
	if dest != sub.Destination {
		invokeMessage(sub.OnMessage, ErrSubscriptionMismatch, "")
		return
	}
	invokeMessage(sub.OnMessage, nil, string(f.Body))
}

// failConnect fires the pending on-connect handler with err, transitions
// to Failed, and clears the pending handler so it can never fire twice.
func (s *Session) failConnect(err *SessionError) {
	s.state = Failed
	s.succeedConnectWith(err)
}

func (s *Session) succeedConnect() {
	s.succeedConnectWith(nil)
}

func (s *Session) succeedConnectWith(err *SessionError) {
	if s.pendingConnect == nil {
		return
	}
	onConnect := s.pendingConnect
	s.pendingConnect = nil
	invokeConnect(onConnect, err)
}

// Subscribe generates a fresh subscription id, builds the SUBSCRIBE frame,
// and hands it to the transport. The id is returned synchronously (empty
// if the frame could not be built), matching §4.2.1.
func (s *Session) Subscribe(destination string, onSubscribe OnSubscribe, onMessage OnMessage) string {
	id := newSubscriptionID()
	f := frame.New(frame.SUBSCRIBE,
		frame.HeaderEntry{Key: frame.ID, Value: id},
		frame.HeaderEntry{Key: frame.Destination, Value: destination},
		frame.HeaderEntry{Key: frame.Ack, Value: "auto"},
		frame.HeaderEntry{Key: frame.Receipt, Value: id},
	)
	if err := f.Validate(); err != nil {
		s.logger.WithError(err).Error("could not build SUBSCRIBE frame")
		return ""
	}

	sub := &Subscription{ID: id, Destination: destination, OnSubscribe: onSubscribe, OnMessage: onMessage}

	s.strand.post(func() {
		if s.state != Connected {
			invokeSubscribe(onSubscribe, ErrUndefined, id)
			return
		}
		s.subs.add(sub)
		s.transport.Send(f.Encode(), func(terr TransportError) {
			s.strand.post(func() {
				if terr == nil {
					return
				}
				s.logger.WithError(terr).Warn("sending SUBSCRIBE frame failed")
				s.subs.remove(id)
				if !sub.acknowledged {
					sub.acknowledged = true
					invokeSubscribe(sub.OnSubscribe, ErrCouldNotSendSubscribeFrame, id)
				}
			})
		})
	})

	return id
}

// Close requests transport shutdown. onClose fires once with the result.
func (s *Session) Close(onClose OnClose) {
	s.strand.post(func() {
		if s.state == Closed || s.state == Failed {
			invokeConnect(onClose, ErrUndefined)
			return
		}
		s.pendingClose = onClose
		s.state = Closing
		s.logger.Debug("closing transport")
		s.transport.Close(func(terr TransportError) {
			s.strand.post(func() {
				if s.pendingClose == nil {
					return
				}
				onClose := s.pendingClose
				s.pendingClose = nil
				if terr != nil {
					invokeConnect(onClose, ErrCouldNotCloseTransport)
				} else {
					invokeConnect(onClose, nil)
				}
			})
		})
	})
}

func invokeConnect(handler func(*SessionError), err *SessionError) {
	if handler == nil {
		return
	}
	handler(err)
}

func invokeSubscribe(handler OnSubscribe, err *SessionError, id string) {
	if handler == nil {
		return
	}
	handler(err, id)
}

func invokeMessage(handler OnMessage, err *SessionError, body string) {
	if handler == nil {
		return
	}
	handler(err, body)
}
