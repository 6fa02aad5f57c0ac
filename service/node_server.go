package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"mycluster/domain"
	"mycluster/helpers"
	"mycluster/interfaces"
	"mycluster/protocol"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/go-zeromq/zmq4"
)

// maxAsyncParts bounds RequestHeader.AsyncParts accepted by a node server.
const maxAsyncParts = 1 << 16

// NodeServer listens on a node's bind address and serves invocations from its dispatch table. Each request
// runs on its own goroutine; replies are serialized on the router socket.
type NodeServer struct {
	node    domain.NodeID
	table   *DispatchTable
	codec   interfaces.PayloadCodec
	logger  log.Logger
	socket  zmq4.Socket
	address string

	sendMu sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// StartNodeServer binds a router on endpoint and starts serving node.
//
// Parameters: ctx: parent of the context handed to methods; node: the bound node; table: its methods;
// codec: payload codec; chain: security chain for the listener; endpoint: e.g. "tcp://127.0.0.1:0";
// logger.
//
// Returns: (server, nil); (nil, transport_error) when the endpoint cannot be bound.
//
// Called from InstanceServer when handling OPEN_BINDING_FOR_NODE.
func StartNodeServer(
	ctx context.Context,
	node domain.NodeID,
	table *DispatchTable,
	codec interfaces.PayloadCodec,
	chain interfaces.SecurityChain,
	endpoint string,
	logger log.Logger,
) (*NodeServer, error) {
	helpers.NilPanic(table, "service.node_server.go: dispatch table is required")
	helpers.NilPanic(codec, "service.node_server.go: codec is required")
	helpers.NilPanic(chain, "service.node_server.go: security chain is required")
	helpers.NilPanic(logger, "service.node_server.go: logger is required")

	ctx, cancel := context.WithCancel(ctx)
	socket, address, err := listenRouter(ctx, chain, endpoint)
	if err != nil {
		cancel()
		return nil, err
	}
	s := &NodeServer{
		node:    node,
		table:   table,
		codec:   codec,
		logger:  log.With(logger, "component", "node_server", "node", node),
		socket:  socket,
		address: address,
		ctx:     ctx,
		cancel:  cancel,
	}
	s.wg.Add(1)
	go s.serve()
	level.Info(s.logger).Log("msg", "node bound", "address", address)
	return s, nil
}

// Address returns the resolved bind address.
func (s *NodeServer) Address() string {
	return s.address
}

// Node returns the served node.
func (s *NodeServer) Node() domain.NodeID {
	return s.node
}

// Close stops accepting requests and cancels the context of running methods. Idempotent.
func (s *NodeServer) Close() {
	s.once.Do(func() {
		s.cancel()
		_ = s.socket.Close()
		s.wg.Wait()
		level.Info(s.logger).Log("msg", "node unbound")
	})
}

func (s *NodeServer) serve() {
	defer s.wg.Done()
	for {
		msg, err := s.socket.Recv()
		if err != nil {
			if messageDropped(err) {
				level.Warn(s.logger).Log("msg", "dropping unreadable request", "err", err)
				continue
			}
			if s.ctx.Err() == nil {
				level.Error(s.logger).Log("msg", "node server receive failed", "err", err)
			}
			return
		}
		go s.handle(msg)
	}
}

// handle serves [ids...][empty][RequestHeader][payload].
func (s *NodeServer) handle(msg zmq4.Msg) {
	ids, err := protocol.StripIdentity(&msg)
	if err != nil {
		level.Warn(s.logger).Log("msg", "dropping request without delimiter", "err", err)
		return
	}
	rawHeader, err := protocol.PopFrame(&msg, "request header")
	if err != nil {
		s.send(errorReply(ids, err))
		return
	}
	header, err := protocol.DecodeRequestHeader(rawHeader)
	if err != nil {
		s.send(errorReply(ids, err))
		return
	}
	if header.AsyncParts > maxAsyncParts {
		s.send(errorReply(ids, domain.NewProtocolError("too many async parts: "+strconv.FormatUint(uint64(header.AsyncParts), 10), nil)))
		return
	}
	payload, err := protocol.PopFrame(&msg, "invocation payload")
	if err != nil {
		s.send(errorReply(ids, err))
		return
	}
	inv, err := s.codec.DecodeInvocation(payload)
	if err != nil {
		s.send(errorReply(ids, err))
		return
	}

	sendPart := func(part uint32, value any, err error) {
		s.send(s.partReply(ids, part, value, err))
	}
	call := &Call{Node: s.node, Invocation: inv, async: make([]*AsyncSink, header.AsyncParts)}
	for i := range call.async {
		call.async[i] = &AsyncSink{part: uint32(i + 1), send: sendPart}
	}

	value, err := s.run(inv, call)
	sendPart(0, value, err)
	if err != nil {
		for _, sink := range call.async {
			sink.Fail(err)
		}
	}
}

// run resolves and executes the method, turning a panic into a remote_invocation_error.
func (s *NodeServer) run(inv domain.Invocation, call *Call) (value any, err error) {
	if verr := inv.Validate(); verr != nil {
		return nil, verr
	}
	fn, ok := s.table.Lookup(inv.Key())
	if !ok {
		key := inv.Key()
		return nil, domain.NewRemoteInvocationError(fmt.Sprintf("no method %s.%s/%d on node %s", key.Type, key.Method, key.Arity, s.node), nil)
	}
	defer func() {
		if r := recover(); r != nil {
			level.Error(s.logger).Log("msg", "method panicked", "type", inv.Type, "method", inv.Method, "panic", r)
			value, err = nil, domain.NewRemoteInvocationError(fmt.Sprintf("method %s.%s panicked: %v", inv.Type, inv.Method, r), nil)
		}
	}()
	return fn(s.ctx, call)
}

// partReply builds [ids...][empty][OK][ResponseHeader][payload]. A value the codec cannot encode is
// replaced by its error envelope.
func (s *NodeServer) partReply(ids [][]byte, part uint32, value any, err error) zmq4.Msg {
	kind := protocol.ReplyResult
	var payload []byte
	if err == nil {
		payload, err = s.codec.EncodeResult(domain.InvocationResult{Value: value})
	}
	if err != nil {
		kind = protocol.ReplyError
		var encErr error
		payload, encErr = s.codec.EncodeError(domain.InvocationErrorFrom(err))
		if encErr != nil {
			return errorReply(ids, encErr)
		}
	}
	return okReply(ids, protocol.ResponseHeader{Kind: kind, Part: part}.Encode(), payload)
}

func (s *NodeServer) send(msg zmq4.Msg) {
	s.sendMu.Lock()
	err := s.socket.Send(msg)
	s.sendMu.Unlock()
	if err != nil && s.ctx.Err() == nil {
		level.Warn(s.logger).Log("msg", "node server send failed", "err", err)
	}
}
