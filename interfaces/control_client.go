package interfaces

import (
	"context"
	"time"

	"mycluster/domain"
)

// ControlClient issues control commands one at a time over a dedicated socket and blocks for the reply.
// Each call waits at most the receive timeout (or until ctx is done) and then fails with a timeout error.
// Not for concurrent use from several goroutines.
//
// Implemented by service.controlClient.
//
//go:generate moq -stub -out mock/control_client.go -pkg mock . ControlClient
type ControlClient interface {
	GetInstanceStatus(ctx context.Context) (domain.InstanceStatus, error)
	GetRoutingStatus(ctx context.Context) (domain.RoutingStatus, error)

	// OpenRouteToNode opens (or returns the existing) route to node hosted by the instance at
	// instanceConnectAddress and returns the address to invoke the node at.
	OpenRouteToNode(ctx context.Context, node domain.NodeID, instanceConnectAddress string) (string, error)

	// CloseRoutesViaInstance removes every route through instance; no-op when there are none.
	CloseRoutesViaInstance(ctx context.Context, instance domain.InstanceID, instanceConnectAddress string) error

	// OpenBinding asks the instance to start listening for invocations of node.
	OpenBinding(ctx context.Context, node domain.NodeID) (InstanceBinding, error)

	// CloseBinding releases a binding; idempotent.
	CloseBinding(ctx context.Context, node domain.NodeID) error

	// HealthCheck returns the id of the answering instance.
	HealthCheck(ctx context.Context) (domain.InstanceID, error)

	SetReceiveTimeout(d time.Duration)

	Close() error
}

// AsyncControlClient issues control commands over a connection pool; every method returns immediately and
// the callback runs exactly once on the pool's reactor goroutine.
//
// Implemented by service.asyncControlClient.
type AsyncControlClient interface {
	GetInstanceStatus(callback func(domain.InstanceStatus, error))
	GetRoutingStatus(callback func(domain.RoutingStatus, error))
	OpenRouteToNode(node domain.NodeID, instanceConnectAddress string, callback func(string, error))
	CloseRoutesViaInstance(instance domain.InstanceID, instanceConnectAddress string, callback func(error))
	OpenBinding(node domain.NodeID, callback func(InstanceBinding, error))
	CloseBinding(node domain.NodeID, callback func(error))
	HealthCheck(callback func(domain.InstanceID, error))
}
