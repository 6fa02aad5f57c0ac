package main

import (
	"context"
	"fmt"

	"mycluster/domain"
	"mycluster/interfaces"
	"mycluster/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// startupBinding is a node the daemon bound itself, with the invoker used to probe it.
type startupBinding struct {
	binding interfaces.InstanceBinding
	invoker *service.RemoteInvoker
}

// close closes the invoker's pool, then releases the binding.
func (b startupBinding) close() {
	_ = b.invoker.Close()
	b.binding.Close()
}

// startupDeps are the collaborators bindStartupNodes needs besides the node list.
type startupDeps struct {
	client          interfaces.AsyncControlClient
	instanceAddress string
	chain           interfaces.SecurityChain
	pool            domain.PoolConfig
	codec           interfaces.PayloadCodec
	tracer          *service.InvocationTracer
	logger          log.Logger
}

// bindStartupNodes opens a binding for every node marked Bind, opens a route to it through the local
// instance and probes nodes serving diagnostics with a "node" invocation.
//
// Returns: the bindings in node order; on the first failure every binding opened so far is released and
// the error is returned.
//
// Called only from run.
func bindStartupNodes(ctx context.Context, deps startupDeps, nodes []domain.HostedNode) ([]startupBinding, error) {
	var out []startupBinding
	for _, n := range nodes {
		if !n.Bind {
			continue
		}
		b, err := bindAndProbe(ctx, deps, n)
		if err != nil {
			for _, opened := range out {
				opened.close()
			}
			return nil, fmt.Errorf("bind node %s: %w", n.NodeID, err)
		}
		level.Info(deps.logger).Log("msg", "node bound at startup", "node", n.NodeID, "address", b.binding.BindAddress())
		out = append(out, b)
	}
	return out, nil
}

func bindAndProbe(ctx context.Context, deps startupDeps, n domain.HostedNode) (startupBinding, error) {
	binding, err := await(ctx, func(cb func(interfaces.InstanceBinding, error)) {
		deps.client.OpenBinding(n.NodeID, cb)
	})
	if err != nil {
		return startupBinding{}, err
	}
	route, err := await(ctx, func(cb func(string, error)) {
		deps.client.OpenRouteToNode(n.NodeID, deps.instanceAddress, cb)
	})
	if err != nil {
		binding.Close()
		return startupBinding{}, err
	}
	invoker, err := service.NewRemoteInvokerForRoute(ctx, route, deps.chain, deps.pool, deps.codec, deps.tracer, deps.logger)
	if err != nil {
		binding.Close()
		return startupBinding{}, err
	}
	b := startupBinding{binding: binding, invoker: invoker}
	if n.Service != serviceDiagnostics {
		return b, nil
	}

	res, err := invoker.InvokeSync(ctx, domain.Invocation{
		Type:   service.DiagnosticsType,
		Method: "node",
		Name:   "startup probe",
	})
	if err != nil {
		b.close()
		return startupBinding{}, fmt.Errorf("probe: %w", err)
	}
	if res.Value != n.NodeID.String() {
		b.close()
		return startupBinding{}, fmt.Errorf("probe answered by %v", res.Value)
	}
	return b, nil
}

type awaited[T any] struct {
	v   T
	err error
}

// await runs start and waits for the callback it was handed, or for ctx.
func await[T any](ctx context.Context, start func(func(T, error))) (T, error) {
	ch := make(chan awaited[T], 1)
	start(func(v T, err error) { ch <- awaited[T]{v: v, err: err} })
	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, domain.NewCanceledError("startup interrupted")
	}
}
