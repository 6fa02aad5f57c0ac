package main

import (
	"context"
	"testing"
	"time"

	"mycluster/domain"
	"mycluster/interfaces"
	"mycluster/security"
	"mycluster/service"

	"github.com/go-kit/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startLocalInstance runs an instance control server on loopback with nodes registered, and returns it
// with the startup deps pointing at it.
func startLocalInstance(t *testing.T, nodes []domain.HostedNode) (*service.InstanceServer, startupDeps) {
	t.Helper()
	chain := security.None()
	codec := service.NewProtobufCodec()
	registry := service.NewNodeRegistry()
	for _, n := range nodes {
		registry.Register(n.NodeID, serviceTables[n.Service]())
	}
	var id domain.InstanceID
	if len(nodes) > 0 {
		id = nodes[0].NodeID.Instance
	} else {
		id = domain.NewInstanceID()
	}
	server := service.NewInstanceServer(service.InstanceServerConfig{
		InstanceID:     id,
		ConnectAddress: "tcp://127.0.0.1:0",
		BindHost:       "127.0.0.1",
		Chain:          chain,
		ReceiveTimeout: 5 * time.Second,
	}, registry, codec, log.NewNopLogger())
	require.NoError(t, server.Start(context.Background()))
	t.Cleanup(server.Close)

	pool, err := service.NewConnectionPool(context.Background(), server.Address(), chain, domain.PoolConfig{MinConnections: 1, MaxConnections: 4}, log.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close() })

	return server, startupDeps{
		client:          service.NewAsyncControlClient(pool, chain, 5*time.Second, log.NewNopLogger()),
		instanceAddress: server.Address(),
		chain:           chain,
		pool:            domain.PoolConfig{MinConnections: 1, MaxConnections: 2},
		codec:           codec,
		tracer:          service.NewInvocationTracer(true, nil),
		logger:          log.NewNopLogger(),
	}
}

func boundNodes(s interfaces.StatusSource) []domain.NodeID {
	return s.InstanceStatus().Nodes
}

func TestBindStartupNodes(t *testing.T) {
	instance := domain.NewInstanceID()
	master := domain.HostedNode{NodeID: domain.MasterNodeID(instance), Service: serviceDiagnostics, Bind: true}
	worker := domain.HostedNode{NodeID: domain.NewNodeID(instance, uuid.New()), Service: serviceDiagnostics}
	server, deps := startLocalInstance(t, []domain.HostedNode{master, worker})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	bindings, err := bindStartupNodes(ctx, deps, []domain.HostedNode{master, worker})
	require.NoError(t, err)
	require.Len(t, bindings, 1)

	assert.Equal(t, master.NodeID, bindings[0].binding.NodeID())
	assert.Equal(t, server.Address(), bindings[0].binding.InstanceConnectAddress())
	assert.Equal(t, []domain.NodeID{master.NodeID}, boundNodes(server))
	assert.Eventually(t, func() bool { return len(deps.tracer.InFlight()) == 0 }, 3*time.Second, 10*time.Millisecond)

	res, err := bindings[0].invoker.InvokeSync(ctx, domain.Invocation{Type: service.DiagnosticsType, Method: "ping"})
	require.NoError(t, err)
	assert.Equal(t, "pong", res.Value)

	bindings[0].close()
	assert.Empty(t, boundNodes(server))
}

func TestBindStartupNodes_ReleasesOnFailure(t *testing.T) {
	instance := domain.NewInstanceID()
	master := domain.HostedNode{NodeID: domain.MasterNodeID(instance), Service: serviceDiagnostics, Bind: true}
	unregistered := domain.HostedNode{NodeID: domain.NewNodeID(instance, uuid.New()), Service: serviceDiagnostics, Bind: true}
	server, deps := startLocalInstance(t, []domain.HostedNode{master})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	bindings, err := bindStartupNodes(ctx, deps, []domain.HostedNode{master, unregistered})
	require.Error(t, err)
	assert.Nil(t, bindings)
	node, ok := domain.NotRoutableNode(err)
	require.True(t, ok)
	assert.Equal(t, unregistered.NodeID, node)
	assert.Empty(t, boundNodes(server))
}

func TestAwait_ContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := await(ctx, func(func(string, error)) {})
	assert.True(t, domain.IsCanceledError(err))
}
