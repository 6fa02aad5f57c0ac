package service

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"mycluster/domain"
	"mycluster/helpers"
	"mycluster/interfaces"
	"mycluster/protocol"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/go-zeromq/zmq4"
)

// InstanceServerConfig configures the control server of one instance.
type InstanceServerConfig struct {
	// InstanceID identifies this instance; every hostable node embeds it.
	InstanceID domain.InstanceID
	// ConnectAddress is the control endpoint, e.g. "tcp://0.0.0.0:5555" (port 0 picks a free port).
	ConnectAddress string
	// BindHost is the host used for node bindings and route forwarders.
	BindHost string
	// Chain secures every socket the server opens.
	Chain interfaces.SecurityChain
	// ReceiveTimeout bounds queries to remote instances while opening routes.
	ReceiveTimeout time.Duration
}

// nodeBinding is a bound node: its server plus the relay dealer FORWARD requests travel through.
type nodeBinding struct {
	server  *NodeServer
	relay   zmq4.Socket
	relayMu sync.Mutex
	done    chan struct{}
}

func (b *nodeBinding) close() {
	_ = b.relay.Close()
	<-b.done
	b.server.Close()
}

// InstanceServer answers the control commands of one instance on a router socket: it owns the binding
// registry (node -> NodeServer), the routing table of remote routes and relays FORWARD requests to bound
// nodes. Every request gets exactly one reply; protocol violations are answered with PROTOCOL_ERROR and
// never stop the loop. Implements interfaces.StatusSource.
type InstanceServer struct {
	id       domain.InstanceID
	endpoint string
	bindHost string
	chain    interfaces.SecurityChain
	timeout  time.Duration
	registry *NodeRegistry
	codec    interfaces.PayloadCodec
	logger   log.Logger

	socket  zmq4.Socket
	address string
	sendMu  sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running atomic.Bool
	once    sync.Once

	mu       sync.Mutex
	bindings map[domain.NodeID]*nodeBinding
	routes   *routingTable
}

var _ interfaces.StatusSource = (*InstanceServer)(nil)

// NewInstanceServer creates the server; Start binds it. Panics on a zero instance id, empty connect
// address, nil chain, registry, codec or logger.
//
// Called from cmd/instanced and tests.
func NewInstanceServer(cfg InstanceServerConfig, registry *NodeRegistry, codec interfaces.PayloadCodec, logger log.Logger) *InstanceServer {
	if cfg.InstanceID.IsZero() {
		panic("service.instance_server.go: instance id is required")
	}
	return &InstanceServer{
		id:       cfg.InstanceID,
		endpoint: helpers.StrPanic(cfg.ConnectAddress, "service.instance_server.go: connect address is required"),
		bindHost: cfg.BindHost,
		chain:    helpers.NilPanic(cfg.Chain, "service.instance_server.go: security chain is required"),
		timeout:  helpers.DurationOr(cfg.ReceiveTimeout, domain.DefaultReceiveTimeout),
		registry: helpers.NilPanic(registry, "service.instance_server.go: node registry is required"),
		codec:    helpers.NilPanic(codec, "service.instance_server.go: codec is required"),
		logger:   log.With(helpers.NilPanic(logger, "service.instance_server.go: logger is required"), "component", "instance_server", "instance", cfg.InstanceID),
		bindings: make(map[domain.NodeID]*nodeBinding),
		routes:   newRoutingTable(),
	}
}

// Start binds the control socket and starts serving in the background.
//
// Returns: nil; transport_error when the endpoint cannot be bound.
func (s *InstanceServer) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)
	socket, address, err := listenRouter(s.ctx, s.chain, s.endpoint)
	if err != nil {
		s.cancel()
		return err
	}
	s.socket = socket
	s.address = address
	s.running.Store(true)
	s.wg.Add(1)
	go s.serve()
	level.Info(s.logger).Log("msg", "instance control server listening", "address", address)
	return nil
}

// Close stops the control loop, unbinds every node and closes every route. Idempotent.
func (s *InstanceServer) Close() {
	s.once.Do(func() {
		if s.cancel == nil {
			return
		}
		s.running.Store(false)
		s.cancel()
		_ = s.socket.Close()
		s.wg.Wait()

		s.mu.Lock()
		bindings := s.bindings
		s.bindings = make(map[domain.NodeID]*nodeBinding)
		s.mu.Unlock()
		for _, b := range bindings {
			b.close()
		}
		for _, e := range s.routes.removeAll() {
			e.forwarder.Close()
		}
		level.Info(s.logger).Log("msg", "instance control server stopped")
	})
}

// ID returns the instance id.
func (s *InstanceServer) ID() domain.InstanceID {
	return s.id
}

// Address returns the resolved control address (valid after Start).
func (s *InstanceServer) Address() string {
	return s.address
}

// Running reports whether the control loop is serving.
func (s *InstanceServer) Running() bool {
	return s.running.Load()
}

// InstanceStatus lists the nodes currently bound here, in string order.
func (s *InstanceServer) InstanceStatus() domain.InstanceStatus {
	s.mu.Lock()
	nodes := make([]domain.NodeID, 0, len(s.bindings))
	for n := range s.bindings {
		nodes = append(nodes, n)
	}
	s.mu.Unlock()
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].String() < nodes[j].String() })
	return domain.InstanceStatus{InstanceID: s.id, Nodes: nodes}
}

// RoutingStatus returns the local bindings followed by the remote routes.
func (s *InstanceServer) RoutingStatus() domain.RoutingStatus {
	s.mu.Lock()
	local := make([]domain.Route, 0, len(s.bindings))
	for n, b := range s.bindings {
		local = append(local, domain.Route{NodeID: n, Address: b.server.Address()})
	}
	s.mu.Unlock()
	sortRoutes(local)
	return domain.NewRoutingStatus(s.id, append(local, s.routes.snapshot()...))
}

func (s *InstanceServer) serve() {
	defer s.wg.Done()
	defer s.running.Store(false)
	for {
		msg, err := s.socket.Recv()
		if err != nil {
			if messageDropped(err) {
				level.Warn(s.logger).Log("msg", "dropping unreadable control message", "err", err)
				continue
			}
			if s.ctx.Err() == nil {
				level.Error(s.logger).Log("msg", "control receive failed", "err", err)
			}
			return
		}
		ids, err := protocol.StripIdentity(&msg)
		if err != nil {
			level.Warn(s.logger).Log("msg", "dropping control message without delimiter", "err", err)
			continue
		}
		cmd, err := protocol.DecodeCommand(&msg)
		if err != nil {
			level.Warn(s.logger).Log("msg", "bad control command", "err", err)
			s.send(errorReply(ids, err))
			continue
		}
		if cmd == protocol.CommandForward {
			s.forward(ids, msg)
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.send(s.handle(ids, cmd, msg))
		}()
	}
}

// handle executes one control command and returns its reply.
func (s *InstanceServer) handle(ids [][]byte, cmd protocol.Command, msg zmq4.Msg) zmq4.Msg {
	level.Debug(s.logger).Log("msg", "control command", "command", cmd)
	switch cmd {
	case protocol.CommandGetRoutingStatus:
		return okReply(ids, routingStatusFrames(s.RoutingStatus())...)

	case protocol.CommandGetInstanceStatus:
		return okReply(ids, instanceStatusFrames(s.InstanceStatus())...)

	case protocol.CommandOpenRouteToNode:
		node, err := protocol.PopNodeID(&msg)
		if err != nil {
			return errorReply(ids, err)
		}
		connectAddress, err := protocol.PopString(&msg, "instance connect address")
		if err != nil {
			return errorReply(ids, err)
		}
		address, err := s.openRoute(node, connectAddress)
		if err != nil {
			return errorReply(ids, err)
		}
		return okReply(ids, []byte(address))

	case protocol.CommandCloseRoutesViaInstance:
		instance, err := protocol.PopInstanceID(&msg)
		if err != nil {
			return errorReply(ids, err)
		}
		connectAddress, err := protocol.PopString(&msg, "instance connect address")
		if err != nil {
			return errorReply(ids, err)
		}
		s.closeRoutesVia(instance, connectAddress)
		return okReply(ids)

	case protocol.CommandOpenBindingForNode:
		node, err := protocol.PopNodeID(&msg)
		if err != nil {
			return errorReply(ids, err)
		}
		address, err := s.openBinding(node)
		if err != nil {
			return errorReply(ids, err)
		}
		return okReply(ids, []byte(address))

	case protocol.CommandCloseBindingForNode:
		node, err := protocol.PopNodeID(&msg)
		if err != nil {
			return errorReply(ids, err)
		}
		s.closeBinding(node)
		return okReply(ids)

	case protocol.CommandHealthCheck:
		return okReply(ids, s.id.Bytes())

	default:
		return errorReply(ids, domain.NewProtocolError("unsupported command "+cmd.String(), nil))
	}
}

// openRoute returns the address at which node can be invoked. A node of this instance must be bound here.
// A remote node is verified against the hosting instance's status on every call, then served through a
// forwarder that is reused while it targets the same instance address.
//
// Returns: (address, nil); not_routable when the node is not bound where it should be;
// instance_unreachable when the hosting instance does not answer or the forwarder cannot dial it.
func (s *InstanceServer) openRoute(node domain.NodeID, connectAddress string) (string, error) {
	if node.Instance == s.id || connectAddress == s.address {
		s.mu.Lock()
		b, ok := s.bindings[node]
		s.mu.Unlock()
		if !ok {
			return "", domain.NewNotRoutableError(node)
		}
		return b.server.Address(), nil
	}
	if connectAddress == "" {
		return "", domain.NewBadParameterError("instance connect address is required for remote node "+node.String(), nil)
	}

	status, err := s.queryInstance(connectAddress)
	if err != nil {
		level.Warn(s.logger).Log("msg", "hosting instance unreachable", "node", node, "address", connectAddress, "err", err)
		return "", domain.NewInstanceUnreachableError(node.Instance)
	}
	if status.InstanceID != node.Instance || !status.Hosts(node) {
		if e, ok := s.routes.remove(node, nil); ok {
			e.forwarder.Close()
		}
		return "", domain.NewNotRoutableError(node)
	}
	if e, ok := s.routes.get(node); ok && e.connectAddress == connectAddress {
		return e.address(), nil
	}

	fwd, err := startRouteForwarder(s.ctx, node, connectAddress, s.chain, ephemeralEndpoint(s.bindHost), s.logger)
	if err != nil {
		level.Warn(s.logger).Log("msg", "cannot open route forwarder", "node", node, "err", err)
		return "", domain.NewInstanceUnreachableError(node.Instance)
	}
	current, stored, replaced := s.routes.putIfAbsent(&routeEntry{
		node:           node,
		owner:          node.Instance,
		connectAddress: connectAddress,
		forwarder:      fwd,
	})
	if replaced != nil {
		replaced.forwarder.Close()
	}
	if !stored {
		fwd.Close()
	}
	level.Info(s.logger).Log("msg", "route opened", "node", node, "address", current.address())
	return current.address(), nil
}

func (s *InstanceServer) queryInstance(connectAddress string) (domain.InstanceStatus, error) {
	client := NewControlClient(s.ctx, connectAddress, s.chain, s.timeout, s.logger)
	defer client.Close()
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()
	return client.GetInstanceStatus(ctx)
}

func (s *InstanceServer) closeRoutesVia(instance domain.InstanceID, connectAddress string) {
	removed := s.routes.removeVia(instance, connectAddress)
	for _, e := range removed {
		e.forwarder.Close()
	}
	if len(removed) > 0 {
		level.Info(s.logger).Log("msg", "routes closed", "via", instance, "count", len(removed))
	}
}

// openBinding starts a NodeServer for node and the relay used by FORWARD.
//
// Returns: (bind address, nil); not_routable when node is not registered here; already_bound when it is
// bound; transport_error when listening or dialing the relay fails.
func (s *InstanceServer) openBinding(node domain.NodeID) (string, error) {
	table, ok := s.registry.Lookup(node)
	if !ok || node.Instance != s.id {
		return "", domain.NewNotRoutableError(node)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.bindings[node]; exists {
		return "", domain.NewAlreadyBoundError(node)
	}
	server, err := StartNodeServer(s.ctx, node, table, s.codec, s.chain, ephemeralEndpoint(s.bindHost), s.logger)
	if err != nil {
		return "", err
	}
	relay, err := dealerDialer(s.ctx, s.chain, server.Address())()
	if err != nil {
		server.Close()
		return "", err
	}
	b := &nodeBinding{server: server, relay: relay, done: make(chan struct{})}
	s.bindings[node] = b
	go s.relayReplies(b)
	return server.Address(), nil
}

func (s *InstanceServer) closeBinding(node domain.NodeID) {
	s.mu.Lock()
	b, ok := s.bindings[node]
	delete(s.bindings, node)
	s.mu.Unlock()
	if ok {
		b.close()
	}
}

// forward relays [node][client ids...][empty][request...] from ids to node's binding, keeping every
// identity so the reply finds its way back through the same hops.
func (s *InstanceServer) forward(ids [][]byte, msg zmq4.Msg) {
	node, err := protocol.PopNodeID(&msg)
	if err != nil {
		s.send(errorReply(ids, err))
		return
	}
	inner, err := protocol.StripIdentity(&msg)
	if err != nil {
		s.send(errorReply(ids, err))
		return
	}
	route := append(append(make([][]byte, 0, len(ids)+len(inner)), ids...), inner...)

	s.mu.Lock()
	b, ok := s.bindings[node]
	s.mu.Unlock()
	if !ok {
		s.send(errorReply(route, domain.NewNotRoutableError(node)))
		return
	}
	protocol.PushIdentity(&msg, route)
	b.relayMu.Lock()
	err = b.relay.Send(msg)
	b.relayMu.Unlock()
	if err != nil {
		s.send(errorReply(route, domain.NewTransportError("relay to node", err)))
	}
}

// relayReplies writes node replies ([ids...][empty][reply...]) back to the control socket.
func (s *InstanceServer) relayReplies(b *nodeBinding) {
	defer close(b.done)
	for {
		msg, err := b.relay.Recv()
		if err != nil {
			if messageDropped(err) {
				continue
			}
			return
		}
		s.send(msg)
	}
}

func (s *InstanceServer) send(msg zmq4.Msg) {
	s.sendMu.Lock()
	err := s.socket.Send(msg)
	s.sendMu.Unlock()
	if err != nil && s.ctx.Err() == nil {
		level.Warn(s.logger).Log("msg", "control send failed", "err", err)
	}
}
