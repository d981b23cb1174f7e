package session_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitflow/stomp-client/session"
)

// fakeTransport is a minimal, goroutine-free session.Transport test double.
// Its methods run synchronously on the calling goroutine, same as the
// teacher's tests exercise Conn against an in-memory net.Conn pipe; here an
// explicit fake plays the same role without needing a real socket.
type fakeTransport struct {
	mu         sync.Mutex
	onOpen     func(session.TransportError)
	onMessage  func([]byte)
	onClose    func(session.TransportError)
	sent       [][]byte
	connectErr error
	sendErr    error
}

func (f *fakeTransport) Connect(onOpen func(session.TransportError), onMessage func([]byte), onClose func(session.TransportError)) {
	f.mu.Lock()
	f.onOpen, f.onMessage, f.onClose = onOpen, onMessage, onClose
	f.mu.Unlock()
	onOpen(f.connectErr)
}

func (f *fakeTransport) Send(data []byte, onSent func(session.TransportError)) {
	f.mu.Lock()
	f.sent = append(f.sent, data)
	f.mu.Unlock()
	onSent(f.sendErr)
}

func (f *fakeTransport) Close(onClosed func(session.TransportError)) {
	onClosed(nil)
	f.mu.Lock()
	onClose := f.onClose
	f.mu.Unlock()
	if onClose != nil {
		onClose(nil)
	}
}

func (f *fakeTransport) deliver(raw string) {
	f.mu.Lock()
	onMessage := f.onMessage
	f.mu.Unlock()
	onMessage([]byte(raw))
}

func waitFor(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for handler")
	}
}

func TestSessionHappyPath(t *testing.T) {
	transport := &fakeTransport{}
	s := session.New("broker.example.com", transport, nil)

	connected := make(chan struct{})
	var connectErr *session.SessionError
	s.Connect("alice", "secret", func(err *session.SessionError) {
		connectErr = err
		close(connected)
	}, nil)

	// State round-trips through the strand, so the Connect task has run and
	// the transport callbacks are registered before the first delivery.
	s.State()
	transport.deliver("CONNECTED\nversion:1.2\n\n\x00")
	waitFor(t, connected)
	assert.Nil(t, connectErr)
	assert.Equal(t, session.Connected, s.State())

	subscribed := make(chan struct{})
	var subErr *session.SessionError
	var subID string
	messages := make(chan string, 1)

	id := s.Subscribe("/d", func(err *session.SessionError, gotID string) {
		subErr = err
		subID = gotID
		close(subscribed)
	}, func(err *session.SessionError, body string) {
		assert.Nil(t, err)
		messages <- body
	})
	require.NotEmpty(t, id)

	transport.deliver("RECEIPT\nreceipt-id:" + id + "\n\n\x00")
	waitFor(t, subscribed)
	assert.Nil(t, subErr)
	assert.Equal(t, id, subID)

	transport.deliver("MESSAGE\nsubscription:anything\nreceipt-id:" + id + "\ndestination:/d\n\nHello\x00")

	select {
	case body := <-messages:
		assert.Equal(t, "Hello", body)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}

	closed := make(chan struct{})
	s.Close(func(err *session.SessionError) {
		assert.Nil(t, err)
		close(closed)
	})
	waitFor(t, closed)
}

func TestSessionConnectFailsWhenTransportConnectFails(t *testing.T) {
	transport := &fakeTransport{connectErr: assertError{"boom"}}
	s := session.New("broker.example.com", transport, nil)

	done := make(chan struct{})
	var gotErr *session.SessionError
	s.Connect("alice", "secret", func(err *session.SessionError) {
		gotErr = err
		close(done)
	}, nil)

	waitFor(t, done)
	require.NotNil(t, gotErr)
	assert.Equal(t, session.CouldNotConnectTransport, gotErr.Kind)
	assert.Equal(t, session.Failed, s.State())
}

func TestSessionConnectFailsWhenStompSendFails(t *testing.T) {
	transport := &fakeTransport{sendErr: assertError{"send failed"}}
	s := session.New("broker.example.com", transport, nil)

	done := make(chan struct{})
	var gotErr *session.SessionError
	s.Connect("alice", "secret", func(err *session.SessionError) {
		gotErr = err
		close(done)
	}, nil)

	waitFor(t, done)
	require.NotNil(t, gotErr)
	assert.Equal(t, session.CouldNotSendStompFrame, gotErr.Kind)
}

func TestSubscribeMismatchedDestination(t *testing.T) {
	transport := &fakeTransport{}
	s := session.New("broker.example.com", transport, nil)

	connected := make(chan struct{})
	s.Connect("alice", "secret", func(err *session.SessionError) { close(connected) }, nil)
	s.State()
	transport.deliver("CONNECTED\nversion:1.2\n\n\x00")
	waitFor(t, connected)

	mismatched := make(chan *session.SessionError, 1)
	id := s.Subscribe("/d", func(err *session.SessionError, gotID string) {}, func(err *session.SessionError, body string) {
		mismatched <- err
	})
	require.NotEmpty(t, id)

	transport.deliver("RECEIPT\nreceipt-id:" + id + "\n\n\x00")
	transport.deliver("MESSAGE\nreceipt-id:" + id + "\ndestination:/other\n\nHello\x00")

	select {
	case err := <-mismatched:
		require.NotNil(t, err)
		assert.Equal(t, session.SubscriptionMismatch, err.Kind)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for mismatch handler")
	}
}

func TestCloseOnFailedSessionReportsUndefined(t *testing.T) {
	transport := &fakeTransport{connectErr: assertError{"boom"}}
	s := session.New("broker.example.com", transport, nil)

	failed := make(chan struct{})
	s.Connect("alice", "secret", func(err *session.SessionError) { close(failed) }, nil)
	waitFor(t, failed)

	done := make(chan struct{})
	var closeErr *session.SessionError
	s.Close(func(err *session.SessionError) {
		closeErr = err
		close(done)
	})
	waitFor(t, done)
	require.NotNil(t, closeErr)
	assert.Equal(t, session.Undefined, closeErr.Kind)
}

type assertError struct{ msg string }

func (e assertError) Error() string { return e.msg }
