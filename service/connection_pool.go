package service

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"mycluster/domain"
	"mycluster/helpers"
	"mycluster/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/go-zeromq/zmq4"
)

// ErrPoolClosed is delivered to acquire callbacks once the pool has been closed.
var ErrPoolClosed = errors.New("connection pool is closed")

// connectionPool implements interfaces.ConnectionPool for one peer address. It keeps MinConnections open
// from the start, dials more lazily up to MaxConnections and queues acquisitions FIFO when every connection
// is leased. All callbacks (acquire callbacks and connection events) run on the pool's reactor goroutine.
// Fields: address, config, dial, logger, reactor; under mu: conns (every open connection by id), idle (LIFO
// stack of leasable connections), dialing (dials in flight), waiters (FIFO acquire callbacks), seq, closed.
type connectionPool struct {
	address string
	config  domain.PoolConfig
	dial    dialFunc
	logger  log.Logger
	reactor *reactor

	mu      sync.Mutex
	conns   map[string]*connection
	idle    []*connection
	dialing int
	waiters []func(interfaces.Connection, error)
	seq     int
	closed  bool
}

// NewConnectionPool creates a pool of dealer sockets connected to address, secured by chain, and opens
// cfg.MinConnections eagerly. Panics on empty address, nil chain or nil logger.
//
// Parameters: ctx: lifetime of the sockets; address: peer endpoint (e.g. a route address returned by
// OpenRouteToNode); chain: security chain for the client sockets; cfg: pool bounds; logger.
//
// Returns: (pool, nil); (nil, *domain.ConfigError) for invalid bounds; (nil, transport_error) when an eager
// connection cannot be dialed.
//
// Called from NewRemoteInvokerForRoute, NewAsyncControlClient and cmd/instanced.
func NewConnectionPool(
	ctx context.Context,
	address string,
	chain interfaces.SecurityChain,
	cfg domain.PoolConfig,
	logger log.Logger,
) (interfaces.ConnectionPool, error) {
	helpers.StrPanic(address, "service.connection_pool.go: address is required")
	helpers.NilPanic(chain, "service.connection_pool.go: security chain is required")
	return newConnectionPool(address, dealerDialer(ctx, chain, address), cfg, logger)
}

func newConnectionPool(address string, dial dialFunc, cfg domain.PoolConfig, logger log.Logger) (*connectionPool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &connectionPool{
		address: address,
		config:  cfg,
		dial:    helpers.NilPanic(dial, "service.connection_pool.go: dial is required"),
		logger:  log.With(helpers.NilPanic(logger, "service.connection_pool.go: logger is required"), "component", "connection_pool", "peer", address),
		reactor: newReactor(),
		conns:   make(map[string]*connection),
	}
	for i := 0; i < cfg.MinConnections; i++ {
		sock, err := p.dial()
		if err != nil {
			_ = p.Close()
			return nil, err
		}
		p.mu.Lock()
		c := p.addLocked(sock)
		c.state = connIdle
		p.idle = append(p.idle, c)
		p.mu.Unlock()
		go c.readLoop()
	}
	return p, nil
}

func (p *connectionPool) Address() string {
	return p.address
}

// AcquireNextAvailableConnection leases an idle connection, dials a new one when below MaxConnections, or
// queues callback until a connection is recycled or closed. Never blocks the caller.
//
// Parameter callback: receives (conn, nil) with conn leased to the caller, or (nil, err) with ErrPoolClosed
// or a transport_error from dialing.
//
// Called from RemoteInvocation.start and asyncControlClient.call.
func (p *connectionPool) AcquireNextAvailableConnection(callback func(conn interfaces.Connection, err error)) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.reactor.submit(func() { callback(nil, ErrPoolClosed) })
		return
	}
	if n := len(p.idle); n > 0 {
		c := p.idle[n-1]
		p.idle = p.idle[:n-1]
		c.lease()
		p.mu.Unlock()
		p.reactor.submit(func() { callback(c, nil) })
		return
	}
	if len(p.conns)+p.dialing < p.config.MaxConnections {
		p.dialing++
		p.mu.Unlock()
		go p.dialFor(callback)
		return
	}
	p.waiters = append(p.waiters, callback)
	p.mu.Unlock()
}

// dialFor opens a new connection outside the reactor and leases it to callback.
func (p *connectionPool) dialFor(callback func(interfaces.Connection, error)) {
	sock, err := p.dial()

	p.mu.Lock()
	p.dialing--
	if err != nil {
		p.mu.Unlock()
		level.Warn(p.logger).Log("msg", "dial failed", "err", err)
		p.reactor.submit(func() { callback(nil, err) })
		return
	}
	if p.closed {
		p.mu.Unlock()
		_ = sock.Close()
		p.reactor.submit(func() { callback(nil, ErrPoolClosed) })
		return
	}
	c := p.addLocked(sock)
	p.mu.Unlock()

	level.Debug(p.logger).Log("msg", "connection opened", "conn", c.id)
	go c.readLoop()
	p.reactor.submit(func() { callback(c, nil) })
}

// addLocked registers a new leased connection. Caller must hold p.mu.
func (p *connectionPool) addLocked(sock zmq4.Socket) *connection {
	p.seq++
	c := newConnection(p.address+"#"+strconv.Itoa(p.seq), p, sock)
	p.conns[c.id] = c
	return c
}

// release hands a recycled connection to the oldest waiter or puts it back on the idle stack.
//
// Called from connection.Recycle and replenish.
func (p *connectionPool) release(c *connection) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		c.Close()
		return
	}
	if c.closed() {
		p.mu.Unlock()
		return
	}
	if len(p.waiters) > 0 {
		callback := p.waiters[0]
		p.waiters = p.waiters[1:]
		c.lease()
		p.mu.Unlock()
		p.reactor.submit(func() { callback(c, nil) })
		return
	}
	p.idle = append(p.idle, c)
	p.mu.Unlock()
}

// forget drops a closed connection. If that freed capacity it dials for the oldest waiter; otherwise it
// dials a replacement when the pool fell below MinConnections.
//
// Called only from connection.Close.
func (p *connectionPool) forget(c *connection) {
	p.mu.Lock()
	delete(p.conns, c.id)
	for i, idle := range p.idle {
		if idle == c {
			p.idle = append(p.idle[:i], p.idle[i+1:]...)
			break
		}
	}
	open := len(p.conns) + p.dialing
	switch {
	case p.closed:
		p.mu.Unlock()
	case len(p.waiters) > 0 && open < p.config.MaxConnections:
		callback := p.waiters[0]
		p.waiters = p.waiters[1:]
		p.dialing++
		p.mu.Unlock()
		go p.dialFor(callback)
	case open < p.config.MinConnections:
		p.dialing++
		p.mu.Unlock()
		go p.replenish()
	default:
		p.mu.Unlock()
	}
}

// replenish dials one connection and hands it out like a recycled one. A failed dial is logged and not
// retried; the next closed connection tries again.
func (p *connectionPool) replenish() {
	sock, err := p.dial()

	p.mu.Lock()
	p.dialing--
	if err != nil {
		p.mu.Unlock()
		level.Warn(p.logger).Log("msg", "replacement dial failed", "err", err)
		return
	}
	if p.closed {
		p.mu.Unlock()
		_ = sock.Close()
		return
	}
	c := p.addLocked(sock)
	c.state = connIdle
	p.mu.Unlock()

	level.Debug(p.logger).Log("msg", "connection replaced", "conn", c.id)
	go c.readLoop()
	p.release(c)
}

func (p *connectionPool) Stats() domain.PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return domain.PoolStats{
		Address: p.address,
		Open:    len(p.conns),
		Idle:    len(p.idle),
		Leased:  len(p.conns) - len(p.idle),
		Waiting: len(p.waiters),
		Closed:  p.closed,
	}
}

// Close fails queued acquisitions with ErrPoolClosed, closes every connection (subscribed handlers get
// OnClose) and stops the reactor once queued events are delivered. Idempotent; always returns nil.
//
// Called from RemoteInvoker.Close, asyncControlClient owners and cmd/instanced shutdown.
func (p *connectionPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	waiters := p.waiters
	p.waiters = nil
	conns := make([]*connection, 0, len(p.conns))
	for _, c := range p.conns {
		conns = append(conns, c)
	}
	p.mu.Unlock()

	for _, callback := range waiters {
		callback := callback
		p.reactor.submit(func() { callback(nil, ErrPoolClosed) })
	}
	for _, c := range conns {
		c.Close()
	}
	p.reactor.stop()
	level.Debug(p.logger).Log("msg", "connection pool closed", "connections", len(conns))
	return nil
}
