// Package ws is the concrete session.Transport this client dials in
// production: a gorilla/websocket connection, optionally secured by TLS,
// bridging gorilla's blocking ReadMessage/WriteMessage calls into the
// async connect/send/close callback shapes session.Transport requires.
// Grounded on anhhole-bbapp's internal/stomp/client.go dialWebSocket, the
// pack's only example wiring a STOMP client onto a WebSocket dial; unlike
// that example this package speaks STOMP frames directly over plain
// WebSocket text frames (no SockJS envelope), matching spec.md §1's
// "WebSocket session secured by TLS" framing.
package ws

import (
	"crypto/tls"
	"io"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/transitflow/stomp-client/session"
)

// HandshakeTimeout bounds how long the initial WebSocket upgrade may take.
const HandshakeTimeout = 10 * time.Second

// Client is a session.Transport backed by a single gorilla/websocket
// connection. It is not safe for concurrent Connect calls; a Client is
// meant to be used by exactly one Session, matching the "transport is
// exclusively owned by the session" ownership rule.
type Client struct {
	endpoint  string
	tlsConfig *tls.Config
	logger    *logrus.Entry

	conn *websocket.Conn
}

// New constructs a Client dialing endpoint (a ws:// or wss:// URL) when
// Connect is called. tlsConfig is used as-is for wss:// dials; it may be
// nil for ws://. logger may be nil, in which case a disabled logger is
// used.
func New(endpoint string, tlsConfig *tls.Config, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Client{
		endpoint:  endpoint,
		tlsConfig: tlsConfig,
		logger:    logger.WithField("component", "transport/ws"),
	}
}

// Connect dials c.endpoint and, on success, starts a read loop delivering
// every inbound text/binary frame to onMessage until the connection ends,
// at which point onClose fires exactly once.
func (c *Client) Connect(onOpen func(session.TransportError), onMessage func([]byte), onClose func(session.TransportError)) {
	go c.connect(onOpen, onMessage, onClose)
}

func (c *Client) connect(onOpen func(session.TransportError), onMessage func([]byte), onClose func(session.TransportError)) {
	if _, err := url.Parse(c.endpoint); err != nil {
		onOpen(err)
		return
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: HandshakeTimeout,
		TLSClientConfig:  c.tlsConfig,
	}

	conn, _, err := dialer.Dial(c.endpoint, nil)
	if err != nil {
		c.logger.WithError(err).Warn("websocket dial failed")
		onOpen(err)
		return
	}

	c.conn = conn
	onOpen(nil)

	c.readLoop(onMessage, onClose)
}

// readLoop runs on its own goroutine for the life of the connection,
// matching the teacher's readLoop (server/client/conn.go): a dedicated
// goroutine turns blocking reads into a stream of callback invocations,
// leaving serialization to the consumer (here, Session's strand).
func (c *Client) readLoop(onMessage func([]byte), onClose func(session.TransportError)) {
	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			onClose(err)
			return
		}
		if msgType != websocket.TextMessage && msgType != websocket.BinaryMessage {
			continue
		}
		onMessage(data)
	}
}

// Send writes data as a single WebSocket text frame.
func (c *Client) Send(data []byte, onSent func(session.TransportError)) {
	go func() {
		err := c.conn.WriteMessage(websocket.TextMessage, data)
		if err != nil {
			c.logger.WithError(err).Warn("websocket write failed")
		}
		onSent(err)
	}()
}

// Close sends a WebSocket close frame and tears down the connection.
func (c *Client) Close(onClosed func(session.TransportError)) {
	go func() {
		deadline := time.Now().Add(time.Second)
		closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		writeErr := c.conn.WriteControl(websocket.CloseMessage, closeMsg, deadline)
		closeErr := c.conn.Close()

		if writeErr != nil {
			onClosed(writeErr)
			return
		}
		onClosed(closeErr)
	}()
}
