package service

import (
	"errors"
	"sync"

	"mycluster/domain"
	"mycluster/interfaces"

	"github.com/go-kit/log/level"
	"github.com/go-zeromq/zmq4"
)

// ErrConnectionClosed is returned by Subscribe and Send on a closed connection.
var ErrConnectionClosed = errors.New("connection is closed")

// ErrAlreadySubscribed is returned by Subscribe when another handler holds the connection.
var ErrAlreadySubscribed = errors.New("connection already has a subscriber")

type connState int

const (
	connIdle connState = iota
	connLeased
	connClosed
)

// connection implements interfaces.Connection over one dealer socket. A reader goroutine feeds received
// messages and socket errors to the pool's reactor, which dispatches them to the current subscriber.
// A message arriving without a subscriber is a protocol violation and closes the connection.
type connection struct {
	id     string
	pool   *connectionPool
	socket zmq4.Socket

	sendMu sync.Mutex

	mu      sync.Mutex
	state   connState
	broken  bool
	handler interfaces.ConnectionHandler
	sub     *subscription
}

type subscription struct {
	conn *connection
	once sync.Once
}

// Release detaches the handler; no further events reach it. Idempotent.
func (s *subscription) Release() {
	s.once.Do(func() {
		c := s.conn
		c.mu.Lock()
		if c.sub == s {
			c.sub = nil
			c.handler = nil
		}
		c.mu.Unlock()
	})
}

func newConnection(id string, pool *connectionPool, socket zmq4.Socket) *connection {
	return &connection{id: id, pool: pool, socket: socket, state: connLeased}
}

func (c *connection) ID() string {
	return c.id
}

// Subscribe registers h as the only event receiver and schedules OnWrite on the reactor.
//
// Returns: (subscription, nil); (nil, ErrConnectionClosed) when closed; (nil, ErrAlreadySubscribed) when
// another handler is registered.
//
// Called from RemoteInvocation and asyncControlClient inside the acquire callback.
func (c *connection) Subscribe(h interfaces.ConnectionHandler) (interfaces.Subscription, error) {
	c.mu.Lock()
	if c.state == connClosed {
		c.mu.Unlock()
		return nil, ErrConnectionClosed
	}
	if c.handler != nil {
		c.mu.Unlock()
		return nil, ErrAlreadySubscribed
	}
	sub := &subscription{conn: c}
	c.handler = h
	c.sub = sub
	c.mu.Unlock()

	c.pool.reactor.submit(func() {
		if h := c.subscriber(sub); h != nil {
			h.OnWrite(c)
		}
	})
	return sub, nil
}

// subscriber returns the handler if sub is still the active subscription.
func (c *connection) subscriber(sub *subscription) interfaces.ConnectionHandler {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sub != sub {
		return nil
	}
	return c.handler
}

// Send writes msg. A failed send marks the connection broken so it is closed rather than recycled.
func (c *connection) Send(msg zmq4.Msg) error {
	c.mu.Lock()
	closed := c.state == connClosed
	c.mu.Unlock()
	if closed {
		return domain.NewTransportError("send on connection "+c.id, ErrConnectionClosed)
	}
	c.sendMu.Lock()
	err := c.socket.Send(msg)
	c.sendMu.Unlock()
	if err != nil {
		c.markBroken()
		return domain.NewTransportError("send on connection "+c.id, err)
	}
	return nil
}

// Recycle returns a leased connection to the pool, or closes it if it reported an error. A still
// subscribed handler is released and notified with OnRecycle.
func (c *connection) Recycle() {
	c.mu.Lock()
	if c.state != connLeased {
		c.mu.Unlock()
		return
	}
	h := c.handler
	c.handler = nil
	c.sub = nil
	broken := c.broken
	if !broken {
		c.state = connIdle
	}
	c.mu.Unlock()

	if h != nil {
		c.pool.reactor.submit(func() { h.OnRecycle(c) })
	}
	if broken {
		c.Close()
		return
	}
	c.pool.release(c)
}

// Close closes the socket and removes the connection from the pool. A handler still subscribed at that
// point is notified with OnClose; subscribers closing their own connection release first.
func (c *connection) Close() {
	c.mu.Lock()
	if c.state == connClosed {
		c.mu.Unlock()
		return
	}
	c.state = connClosed
	h := c.handler
	c.handler = nil
	c.sub = nil
	c.mu.Unlock()

	_ = c.socket.Close()
	c.pool.forget(c)
	if h != nil {
		c.pool.reactor.submit(func() { h.OnClose(c) })
	}
}

func (c *connection) closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == connClosed
}

func (c *connection) markBroken() {
	c.mu.Lock()
	c.broken = true
	c.mu.Unlock()
}

func (c *connection) lease() {
	c.mu.Lock()
	c.state = connLeased
	c.mu.Unlock()
}

// readLoop runs on its own goroutine until the socket fails or is closed.
func (c *connection) readLoop() {
	for {
		msg, err := c.socket.Recv()
		if err != nil {
			c.pool.reactor.submit(func() { c.dispatchError(err) })
			return
		}
		c.pool.reactor.submit(func() { c.dispatchRead(msg) })
	}
}

func (c *connection) dispatchRead(msg zmq4.Msg) {
	c.mu.Lock()
	h := c.handler
	closed := c.state == connClosed
	c.mu.Unlock()
	if closed {
		return
	}
	if h == nil {
		level.Warn(c.pool.logger).Log("msg", "unsolicited message, closing connection", "conn", c.id, "frames", len(msg.Frames))
		c.Close()
		return
	}
	h.OnRead(c, msg)
}

func (c *connection) dispatchError(err error) {
	c.mu.Lock()
	if c.state == connClosed {
		c.mu.Unlock()
		return
	}
	c.broken = true
	h := c.handler
	idle := c.state == connIdle
	c.mu.Unlock()

	level.Warn(c.pool.logger).Log("msg", "connection socket error", "conn", c.id, "err", err)
	switch {
	case h != nil:
		h.OnError(c, domain.NewTransportError("receive on connection "+c.id, err))
	case idle:
		c.Close()
	}
}
