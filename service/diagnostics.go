package service

import (
	"context"
	"fmt"
	"time"

	"mycluster/domain"
)

// DiagnosticsType is the type name the diagnostics methods are registered under.
const DiagnosticsType = "Diagnostics"

// NewDiagnosticsTable returns the dispatch table of the built-in "diagnostics" service every instance can
// host. Methods:
//
//	ping()          -> "pong"
//	echo(v)         -> v
//	node()          -> the serving node id
//	count()         -> part 0 is the number of async parts; async part i is i
//	fail(message)   -> remote_invocation_error carrying message
//	sleep(ms)       -> waits ms milliseconds (or until the node unbinds) and returns ms
//
// Called from cmd/instanced when a hosted node names the "diagnostics" service, and from tests.
func NewDiagnosticsTable() *DispatchTable {
	return NewDispatchTable().
		Register(DiagnosticsType, "ping", 0, func(context.Context, *Call) (any, error) {
			return "pong", nil
		}).
		Register(DiagnosticsType, "echo", 1, func(_ context.Context, call *Call) (any, error) {
			return call.Args()[0], nil
		}).
		Register(DiagnosticsType, "node", 0, func(_ context.Context, call *Call) (any, error) {
			return call.Node.String(), nil
		}).
		Register(DiagnosticsType, "count", 0, func(_ context.Context, call *Call) (any, error) {
			n := call.AsyncParts()
			go func() {
				for i := n; i >= 1; i-- {
					call.Async(i).Complete(float64(i))
				}
			}()
			return float64(n), nil
		}).
		Register(DiagnosticsType, "fail", 1, func(_ context.Context, call *Call) (any, error) {
			return nil, domain.NewRemoteInvocationError(fmt.Sprint(call.Args()[0]), nil)
		}).
		Register(DiagnosticsType, "sleep", 1, func(ctx context.Context, call *Call) (any, error) {
			ms, ok := call.Args()[0].(float64)
			if !ok {
				return nil, domain.NewBadParameterError(fmt.Sprintf("sleep expects a number, got %T", call.Args()[0]), nil)
			}
			select {
			case <-time.After(time.Duration(ms) * time.Millisecond):
				return ms, nil
			case <-ctx.Done():
				return nil, domain.NewCanceledError("node unbound while sleeping")
			}
		})
}
