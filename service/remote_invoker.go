package service

import (
	"context"

	"mycluster/domain"
	"mycluster/helpers"
	"mycluster/interfaces"

	"github.com/go-kit/log"
)

// Cancel cancels an invocation started by RemoteInvoker.Invoke. Safe to call from any goroutine, any
// number of times.
type Cancel func()

// RemoteInvoker performs invocations against the node reachable through one route address, sharing one
// connection pool between all calls.
type RemoteInvoker struct {
	pool   interfaces.ConnectionPool
	codec  interfaces.PayloadCodec
	tracer *InvocationTracer
	logger log.Logger
}

// NewRemoteInvoker binds an invoker to pool. tracer may be nil. Panics on nil pool, codec or logger.
//
// Called from NewRemoteInvokerForRoute and tests.
func NewRemoteInvoker(pool interfaces.ConnectionPool, codec interfaces.PayloadCodec, tracer *InvocationTracer, logger log.Logger) *RemoteInvoker {
	return &RemoteInvoker{
		pool:   helpers.NilPanic(pool, "service.remote_invoker.go: pool is required"),
		codec:  helpers.NilPanic(codec, "service.remote_invoker.go: codec is required"),
		tracer: tracer,
		logger: log.With(helpers.NilPanic(logger, "service.remote_invoker.go: logger is required"), "component", "remote_invoker", "target", pool.Address()),
	}
}

// NewRemoteInvokerForRoute opens a pool to routeAddress (as returned by ControlClient.OpenRouteToNode) and
// binds an invoker to it.
//
// Returns: (invoker, nil); (nil, err) when the pool cannot be created (see NewConnectionPool).
func NewRemoteInvokerForRoute(
	ctx context.Context,
	routeAddress string,
	chain interfaces.SecurityChain,
	cfg domain.PoolConfig,
	codec interfaces.PayloadCodec,
	tracer *InvocationTracer,
	logger log.Logger,
) (*RemoteInvoker, error) {
	pool, err := NewConnectionPool(ctx, routeAddress, chain, cfg, logger)
	if err != nil {
		return nil, err
	}
	return NewRemoteInvoker(pool, codec, tracer, logger), nil
}

// Invoke starts inv and returns immediately. sync receives part 0; async[i] receives part i+1. Every
// consumer is called exactly once, on the pool's reactor goroutine, unless inv is invalid: then each
// consumer gets a bad_parameter error before Invoke returns.
//
// Returns: the cancellation handle.
func (ri *RemoteInvoker) Invoke(inv domain.Invocation, sync ResultConsumer, async ...ResultConsumer) Cancel {
	r := ri.prepare(inv, sync, async)
	if r == nil {
		return func() {}
	}
	r.start(ri.pool)
	return func() { r.Cancel() }
}

// start is Invoke returning the RemoteInvocation itself; used by tests to observe the state machine.
func (ri *RemoteInvoker) start(inv domain.Invocation, sync ResultConsumer, async ...ResultConsumer) *RemoteInvocation {
	r := ri.prepare(inv, sync, async)
	if r != nil {
		r.start(ri.pool)
	}
	return r
}

func (ri *RemoteInvoker) prepare(inv domain.Invocation, sync ResultConsumer, async []ResultConsumer) *RemoteInvocation {
	if inv.Dispatch == "" {
		inv.Dispatch = domain.DispatchPositional
	}
	if err := inv.Validate(); err != nil {
		(&consumerSlot{consumer: sync}).deliverError(err)
		for _, c := range async {
			(&consumerSlot{consumer: c}).deliverError(err)
		}
		return nil
	}
	return newRemoteInvocation(inv, ri.codec, ri.tracer, ri.logger, ri.pool.Address(), sync, async)
}

// InvokeSync performs inv without async parts and waits for part 0. Cancelling ctx cancels the invocation.
//
// Returns: (result, nil); (zero, err) with the remote error, a transport/protocol error, or canceled.
func (ri *RemoteInvoker) InvokeSync(ctx context.Context, inv domain.Invocation) (domain.InvocationResult, error) {
	type outcome struct {
		res domain.InvocationResult
		err error
	}
	ch := make(chan outcome, 1)
	cancel := ri.Invoke(inv, ResultConsumer{
		OnResult: func(res domain.InvocationResult) { ch <- outcome{res: res} },
		OnError:  func(err error) { ch <- outcome{err: err} },
	})
	select {
	case o := <-ch:
		return o.res, o.err
	case <-ctx.Done():
		cancel()
		o := <-ch
		if o.err == nil {
			return o.res, nil
		}
		return domain.InvocationResult{}, o.err
	}
}

// Stats returns the underlying pool's counters.
func (ri *RemoteInvoker) Stats() domain.PoolStats {
	return ri.pool.Stats()
}

// Close closes the pool; in-flight invocations complete with a transport error.
func (ri *RemoteInvoker) Close() error {
	return ri.pool.Close()
}
