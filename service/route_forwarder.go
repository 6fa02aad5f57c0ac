package service

import (
	"context"
	"sync"

	"mycluster/domain"
	"mycluster/interfaces"
	"mycluster/protocol"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/go-zeromq/zmq4"
)

// routeForwarder makes a node hosted by a remote instance reachable at a local address. Requests received
// on the frontend router, [client id][empty][request...], leave the backend dealer as
// [empty][FORWARD][node][client id][empty][request...]; the owning instance answers [client id][empty][reply...]
// which is written back to the frontend unchanged, addressed by the client id.
type routeForwarder struct {
	node     domain.NodeID
	address  string
	frontend zmq4.Socket
	backend  zmq4.Socket
	logger   log.Logger

	frontMu sync.Mutex
	backMu  sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	once    sync.Once
}

// startRouteForwarder binds the frontend on endpoint and dials the backend to the owning instance.
//
// Called from InstanceServer when handling OPEN_ROUTE_TO_NODE for a remote node.
func startRouteForwarder(
	ctx context.Context,
	node domain.NodeID,
	instanceConnectAddress string,
	chain interfaces.SecurityChain,
	endpoint string,
	logger log.Logger,
) (*routeForwarder, error) {
	ctx, cancel := context.WithCancel(ctx)
	backend, err := dealerDialer(ctx, chain, instanceConnectAddress)()
	if err != nil {
		cancel()
		return nil, err
	}
	frontend, address, err := listenRouter(ctx, chain, endpoint)
	if err != nil {
		_ = backend.Close()
		cancel()
		return nil, err
	}
	f := &routeForwarder{
		node:     node,
		address:  address,
		frontend: frontend,
		backend:  backend,
		logger:   log.With(logger, "component", "route_forwarder", "node", node, "via", instanceConnectAddress),
		ctx:      ctx,
		cancel:   cancel,
	}
	f.wg.Add(2)
	go f.pumpRequests()
	go f.pumpReplies()
	level.Debug(f.logger).Log("msg", "route opened", "address", address)
	return f, nil
}

func (f *routeForwarder) Address() string {
	return f.address
}

// Close stops both pumps and closes the sockets. Idempotent.
func (f *routeForwarder) Close() {
	f.once.Do(func() {
		f.cancel()
		_ = f.frontend.Close()
		_ = f.backend.Close()
		f.wg.Wait()
		level.Debug(f.logger).Log("msg", "route closed")
	})
}

func (f *routeForwarder) pumpRequests() {
	defer f.wg.Done()
	for {
		msg, err := f.frontend.Recv()
		if err != nil {
			if messageDropped(err) {
				level.Warn(f.logger).Log("msg", "dropping unreadable request", "err", err)
				continue
			}
			f.stopped("frontend", err)
			return
		}
		if len(msg.Frames) == 0 {
			continue
		}
		frames := make([][]byte, 0, len(msg.Frames)+3)
		frames = append(frames, []byte{}, protocol.EncodeCommand(protocol.CommandForward), f.node.Bytes())
		frames = append(frames, msg.Frames...)
		f.backMu.Lock()
		err = f.backend.Send(zmq4.NewMsgFrom(frames...))
		f.backMu.Unlock()
		if err != nil {
			f.stopped("backend send", err)
			return
		}
	}
}

func (f *routeForwarder) pumpReplies() {
	defer f.wg.Done()
	for {
		msg, err := f.backend.Recv()
		if err != nil {
			if messageDropped(err) {
				level.Warn(f.logger).Log("msg", "dropping unreadable reply", "err", err)
				continue
			}
			f.stopped("backend", err)
			return
		}
		if len(msg.Frames) == 0 || len(msg.Frames[0]) == 0 {
			level.Warn(f.logger).Log("msg", "dropping reply without client identity")
			continue
		}
		f.frontMu.Lock()
		err = f.frontend.Send(msg)
		f.frontMu.Unlock()
		if err != nil && f.ctx.Err() == nil {
			level.Warn(f.logger).Log("msg", "frontend send failed", "err", err)
		}
	}
}

func (f *routeForwarder) stopped(side string, err error) {
	if f.ctx.Err() == nil {
		level.Warn(f.logger).Log("msg", "route forwarder stopped", "side", side, "err", err)
	}
}
