package service

import (
	"time"

	"mycluster/domain"
	"mycluster/helpers"
	"mycluster/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/go-zeromq/zmq4"
)

// asyncControlClient implements interfaces.AsyncControlClient over a connection pool: every command leases
// its own connection, so many commands may be in flight at once. Callbacks run on the pool's reactor and
// must not block on another command of the same client.
type asyncControlClient struct {
	pool           interfaces.ConnectionPool
	chain          interfaces.SecurityChain
	releaseTimeout time.Duration
	logger         log.Logger
}

// NewAsyncControlClient returns a callback-driven control client for the instance behind pool. chain is
// only handed to the bindings it opens. Panics on nil pool, chain or logger.
//
// Called from cmd/instanced and tests.
func NewAsyncControlClient(pool interfaces.ConnectionPool, chain interfaces.SecurityChain, releaseTimeout time.Duration, logger log.Logger) interfaces.AsyncControlClient {
	return &asyncControlClient{
		pool:           helpers.NilPanic(pool, "service.async_control_client.go: pool is required"),
		chain:          helpers.NilPanic(chain, "service.async_control_client.go: security chain is required"),
		releaseTimeout: helpers.DurationOr(releaseTimeout, domain.DefaultReceiveTimeout),
		logger:         log.With(helpers.NilPanic(logger, "service.async_control_client.go: logger is required"), "component", "async_control_client", "peer", pool.Address()),
	}
}

func (c *asyncControlClient) GetInstanceStatus(callback func(domain.InstanceStatus, error)) {
	c.call(getInstanceStatusRequest(), func(reply zmq4.Msg, err error) error {
		if err != nil {
			callback(domain.InstanceStatus{}, err)
			return err
		}
		status, err := parseInstanceStatusReply(reply)
		callback(status, err)
		return err
	})
}

func (c *asyncControlClient) GetRoutingStatus(callback func(domain.RoutingStatus, error)) {
	c.call(getRoutingStatusRequest(), func(reply zmq4.Msg, err error) error {
		if err != nil {
			callback(domain.RoutingStatus{}, err)
			return err
		}
		status, err := parseRoutingStatusReply(reply)
		callback(status, err)
		return err
	})
}

func (c *asyncControlClient) OpenRouteToNode(node domain.NodeID, instanceConnectAddress string, callback func(string, error)) {
	c.call(openRouteToNodeRequest(node, instanceConnectAddress), addressHandler(callback))
}

func (c *asyncControlClient) CloseRoutesViaInstance(instance domain.InstanceID, instanceConnectAddress string, callback func(error)) {
	c.call(closeRoutesViaInstanceRequest(instance, instanceConnectAddress), emptyHandler(callback))
}

// OpenBinding delivers a binding whose Close sends CLOSE_BINDING_FOR_NODE through this client and waits
// for the reply (bounded by the release timeout). Do not Close it from inside a callback of this client.
func (c *asyncControlClient) OpenBinding(node domain.NodeID, callback func(interfaces.InstanceBinding, error)) {
	c.call(openBindingRequest(node), addressHandler(func(address string, err error) {
		if err != nil {
			callback(nil, err)
			return
		}
		callback(newInstanceBinding(node, address, c.pool.Address(), c.chain, c.releaser(node), c.logger), nil)
	}))
}

func (c *asyncControlClient) CloseBinding(node domain.NodeID, callback func(error)) {
	c.call(closeBindingRequest(node), emptyHandler(callback))
}

func (c *asyncControlClient) HealthCheck(callback func(domain.InstanceID, error)) {
	c.call(healthCheckRequest(), func(reply zmq4.Msg, err error) error {
		if err != nil {
			callback(domain.InstanceID{}, err)
			return err
		}
		id, err := parseHealthCheckReply(reply)
		callback(id, err)
		return err
	})
}

func (c *asyncControlClient) releaser(node domain.NodeID) func() error {
	return func() error {
		done := make(chan error, 1)
		c.CloseBinding(node, func(err error) { done <- err })
		select {
		case err := <-done:
			return err
		case <-time.After(c.releaseTimeout):
			return domain.NewTimeoutError("close binding reply not received", nil)
		}
	}
}

func addressHandler(callback func(string, error)) func(zmq4.Msg, error) error {
	return func(reply zmq4.Msg, err error) error {
		if err != nil {
			callback("", err)
			return err
		}
		address, err := parseAddressReply(reply)
		callback(address, err)
		return err
	}
}

func emptyHandler(callback func(error)) func(zmq4.Msg, error) error {
	return func(reply zmq4.Msg, err error) error {
		if err == nil {
			err = parseEmptyReply(reply)
		}
		callback(err)
		return err
	}
}

// call leases a connection, sends req and hands the reply (or the failure) to handle exactly once.
// handle returns the parse error; protocol and transport errors close the connection, any other outcome
// recycles it.
func (c *asyncControlClient) call(req zmq4.Msg, handle func(reply zmq4.Msg, err error) error) {
	cc := &controlCall{request: req, handle: handle, logger: c.logger}
	c.pool.AcquireNextAvailableConnection(func(conn interfaces.Connection, err error) {
		if err != nil {
			cc.complete(nil, zmq4.Msg{}, err)
			return
		}
		sub, err := conn.Subscribe(cc)
		if err != nil {
			conn.Close()
			cc.complete(nil, zmq4.Msg{}, domain.NewTransportError("subscribe to connection", err))
			return
		}
		cc.sub = sub
	})
}

// controlCall is the ConnectionHandler of one control command. All its methods run on the reactor.
type controlCall struct {
	request zmq4.Msg
	handle  func(zmq4.Msg, error) error
	logger  log.Logger
	sub     interfaces.Subscription
	done    bool
}

func (cc *controlCall) OnWrite(conn interfaces.Connection) {
	if err := conn.Send(cc.request); err != nil {
		cc.complete(conn, zmq4.Msg{}, err)
	}
}

func (cc *controlCall) OnRead(conn interfaces.Connection, msg zmq4.Msg) {
	cc.complete(conn, msg, nil)
}

func (cc *controlCall) OnError(conn interfaces.Connection, err error) {
	cc.complete(conn, zmq4.Msg{}, err)
}

func (cc *controlCall) OnClose(conn interfaces.Connection) {
	cc.complete(nil, zmq4.Msg{}, domain.NewTransportError("connection closed during control call", ErrConnectionClosed))
}

func (cc *controlCall) OnRecycle(conn interfaces.Connection) {
	cc.complete(nil, zmq4.Msg{}, domain.NewTransportError("connection recycled during control call", nil))
}

// complete finishes the call once. conn is nil when there is no connection left to give back.
func (cc *controlCall) complete(conn interfaces.Connection, reply zmq4.Msg, err error) {
	if cc.done {
		return
	}
	cc.done = true
	if cc.sub != nil {
		cc.sub.Release()
	}
	handleErr := cc.handle(reply, err)
	if conn == nil {
		return
	}
	if domain.IsConnectionFatal(handleErr) {
		level.Debug(cc.logger).Log("msg", "closing connection after control call", "conn", conn.ID(), "err", handleErr)
		conn.Close()
		return
	}
	conn.Recycle()
}
