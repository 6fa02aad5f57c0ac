package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"mycluster/domain"
	"mycluster/interfaces"
	"mycluster/protocol"

	"github.com/go-kit/log"
	"github.com/go-zeromq/zmq4"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = 3 * time.Second
	tick    = 10 * time.Millisecond
)

var errFakeClosed = errors.New("fake socket closed")

// fakeSocket is an in-memory client socket. Only the methods the pool uses are implemented; the embedded
// interface is nil.
type fakeSocket struct {
	zmq4.Socket

	mu      sync.Mutex
	sent    []zmq4.Msg
	sendErr error

	inbox  chan zmq4.Msg
	errs   chan error
	closed chan struct{}
	once   sync.Once
}

func newFakeSocket() *fakeSocket {
	return &fakeSocket{
		inbox:  make(chan zmq4.Msg, 16),
		errs:   make(chan error, 1),
		closed: make(chan struct{}),
	}
}

func (s *fakeSocket) Send(msg zmq4.Msg) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendErr != nil {
		return s.sendErr
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *fakeSocket) Recv() (zmq4.Msg, error) {
	select {
	case msg := <-s.inbox:
		return msg, nil
	case err := <-s.errs:
		return zmq4.Msg{}, err
	case <-s.closed:
		return zmq4.Msg{}, errFakeClosed
	}
}

func (s *fakeSocket) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}

func (s *fakeSocket) isClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

func (s *fakeSocket) sentMessages() []zmq4.Msg {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]zmq4.Msg(nil), s.sent...)
}

func (s *fakeSocket) failSends(err error) {
	s.mu.Lock()
	s.sendErr = err
	s.mu.Unlock()
}

// fakeDialer hands out fakeSockets and remembers them in dial order.
type fakeDialer struct {
	mu      sync.Mutex
	sockets []*fakeSocket
	err     error
}

func (d *fakeDialer) dial() (zmq4.Socket, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return nil, domain.NewTransportError("dial fake", d.err)
	}
	s := newFakeSocket()
	d.sockets = append(d.sockets, s)
	return s, nil
}

func (d *fakeDialer) socket(i int) *fakeSocket {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sockets[i]
}

func (d *fakeDialer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sockets)
}

func newFakePool(t *testing.T, d *fakeDialer, cfg domain.PoolConfig) *connectionPool {
	t.Helper()
	p, err := newConnectionPool("tcp://fake:1", d.dial, cfg, log.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

type acquired struct {
	conn *connection
	err  error
}

// acquire leases a connection and returns a channel receiving the callback's outcome.
func acquire(p *connectionPool) <-chan acquired {
	ch := make(chan acquired, 1)
	p.AcquireNextAvailableConnection(func(conn interfaces.Connection, err error) {
		c, _ := conn.(*connection)
		ch <- acquired{conn: c, err: err}
	})
	return ch
}

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(waitFor):
		require.FailNow(t, "timed out waiting for callback")
		var zero T
		return zero
	}
}

// nodeReply builds [empty][OK][ResponseHeader][payload] as a node server sends it.
func nodeReply(t *testing.T, part uint32, value any, err error) zmq4.Msg {
	t.Helper()
	codec := NewProtobufCodec()
	kind := protocol.ReplyResult
	var payload []byte
	var encErr error
	if err != nil {
		kind = protocol.ReplyError
		payload, encErr = codec.EncodeError(domain.InvocationErrorFrom(err))
	} else {
		payload, encErr = codec.EncodeResult(domain.InvocationResult{Value: value})
	}
	require.NoError(t, encErr)
	return okReply(nil, protocol.ResponseHeader{Kind: kind, Part: part}.Encode(), payload)
}
