package service

import (
	"context"
	"sync"
	"time"

	"mycluster/domain"
	"mycluster/helpers"
	"mycluster/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/go-zeromq/zmq4"
)

type recvResult struct {
	msg zmq4.Msg
	err error
}

// controlClient implements interfaces.ControlClient with one dealer socket, one request at a time.
// The socket is dialed lazily. After a timeout or a receive error it is discarded and a fresh one is dialed
// by the next call, so a late reply can never be mistaken for the answer to a later request.
// Fields: address, chain, ctx, logger; under mu: socket, replies (fed by the socket's reader goroutine),
// stop (ends that goroutine), timeout.
type controlClient struct {
	ctx     context.Context
	address string
	chain   interfaces.SecurityChain
	logger  log.Logger

	mu      sync.Mutex
	socket  zmq4.Socket
	replies chan recvResult
	stop    chan struct{}
	timeout time.Duration
}

// NewControlClient returns a blocking control client for the instance listening on address. Panics on
// empty address, nil chain or nil logger.
//
// Parameters: ctx: lifetime of the sockets; address: instance connect address; chain: security chain;
// timeout: receive timeout (zero means domain.DefaultReceiveTimeout); logger.
//
// Called from cmd/instanced, InstanceServer (to query remote instances), HealthMonitor and tests.
func NewControlClient(ctx context.Context, address string, chain interfaces.SecurityChain, timeout time.Duration, logger log.Logger) interfaces.ControlClient {
	return &controlClient{
		ctx:     ctx,
		address: helpers.StrPanic(address, "service.control_client.go: address is required"),
		chain:   helpers.NilPanic(chain, "service.control_client.go: security chain is required"),
		logger:  log.With(helpers.NilPanic(logger, "service.control_client.go: logger is required"), "component", "control_client", "peer", address),
		timeout: helpers.DurationOr(timeout, domain.DefaultReceiveTimeout),
	}
}

func (c *controlClient) SetReceiveTimeout(d time.Duration) {
	c.mu.Lock()
	c.timeout = helpers.DurationOr(d, domain.DefaultReceiveTimeout)
	c.mu.Unlock()
}

func (c *controlClient) GetRoutingStatus(ctx context.Context) (domain.RoutingStatus, error) {
	reply, err := c.roundTrip(ctx, getRoutingStatusRequest())
	if err != nil {
		return domain.RoutingStatus{}, err
	}
	return parseRoutingStatusReply(reply)
}

func (c *controlClient) GetInstanceStatus(ctx context.Context) (domain.InstanceStatus, error) {
	reply, err := c.roundTrip(ctx, getInstanceStatusRequest())
	if err != nil {
		return domain.InstanceStatus{}, err
	}
	return parseInstanceStatusReply(reply)
}

func (c *controlClient) OpenRouteToNode(ctx context.Context, node domain.NodeID, instanceConnectAddress string) (string, error) {
	reply, err := c.roundTrip(ctx, openRouteToNodeRequest(node, instanceConnectAddress))
	if err != nil {
		return "", err
	}
	return parseAddressReply(reply)
}

func (c *controlClient) CloseRoutesViaInstance(ctx context.Context, instance domain.InstanceID, instanceConnectAddress string) error {
	reply, err := c.roundTrip(ctx, closeRoutesViaInstanceRequest(instance, instanceConnectAddress))
	if err != nil {
		return err
	}
	return parseEmptyReply(reply)
}

// OpenBinding returns a binding whose Close issues CLOSE_BINDING_FOR_NODE through this client.
func (c *controlClient) OpenBinding(ctx context.Context, node domain.NodeID) (interfaces.InstanceBinding, error) {
	reply, err := c.roundTrip(ctx, openBindingRequest(node))
	if err != nil {
		return nil, err
	}
	address, err := parseAddressReply(reply)
	if err != nil {
		return nil, err
	}
	release := func() error {
		ctx, cancel := context.WithTimeout(c.ctx, c.currentTimeout())
		defer cancel()
		return c.CloseBinding(ctx, node)
	}
	return newInstanceBinding(node, address, c.address, c.chain, release, c.logger), nil
}

func (c *controlClient) CloseBinding(ctx context.Context, node domain.NodeID) error {
	reply, err := c.roundTrip(ctx, closeBindingRequest(node))
	if err != nil {
		return err
	}
	return parseEmptyReply(reply)
}

func (c *controlClient) HealthCheck(ctx context.Context) (domain.InstanceID, error) {
	reply, err := c.roundTrip(ctx, healthCheckRequest())
	if err != nil {
		return domain.InstanceID{}, err
	}
	return parseHealthCheckReply(reply)
}

// Close closes the socket; a later call dials again.
func (c *controlClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
	return nil
}

func (c *controlClient) currentTimeout() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timeout
}

// roundTrip sends req and waits for one reply, at most the receive timeout or until ctx is done.
//
// Returns: (reply, nil); (zero, timeout) on timeout; (zero, canceled) when ctx ends first;
// (zero, transport_error) when dialing, sending or receiving fails.
func (c *controlClient) roundTrip(ctx context.Context, req zmq4.Msg) (zmq4.Msg, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureSocketLocked(); err != nil {
		return zmq4.Msg{}, err
	}
	if err := c.socket.Send(req); err != nil {
		c.resetLocked()
		return zmq4.Msg{}, domain.NewTransportError("send control request", err)
	}

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()
	select {
	case r := <-c.replies:
		if r.err != nil {
			c.resetLocked()
			return zmq4.Msg{}, domain.NewTransportError("receive control reply", r.err)
		}
		return r.msg, nil
	case <-timer.C:
		level.Warn(c.logger).Log("msg", "control reply timed out", "timeout", c.timeout)
		c.resetLocked()
		return zmq4.Msg{}, domain.NewTimeoutError("no control reply within "+c.timeout.String(), nil)
	case <-ctx.Done():
		c.resetLocked()
		if ctx.Err() == context.DeadlineExceeded {
			return zmq4.Msg{}, domain.NewTimeoutError("control request deadline exceeded", ctx.Err())
		}
		return zmq4.Msg{}, domain.NewCanceledError("control request canceled")
	}
}

func (c *controlClient) ensureSocketLocked() error {
	if c.socket != nil {
		return nil
	}
	sock, err := dealerDialer(c.ctx, c.chain, c.address)()
	if err != nil {
		return err
	}
	replies := make(chan recvResult, 1)
	stop := make(chan struct{})
	go func() {
		for {
			msg, err := sock.Recv()
			select {
			case replies <- recvResult{msg: msg, err: err}:
			case <-stop:
				return
			}
			if err != nil {
				return
			}
		}
	}()
	c.socket = sock
	c.replies = replies
	c.stop = stop
	return nil
}

func (c *controlClient) resetLocked() {
	if c.socket == nil {
		return
	}
	close(c.stop)
	_ = c.socket.Close()
	c.socket = nil
	c.replies = nil
	c.stop = nil
}
