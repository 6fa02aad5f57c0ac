package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeID_Bytes_RoundTrip(t *testing.T) {
	instance := NewInstanceID()
	tests := []struct {
		name string
		node NodeID
	}{
		{name: "application", node: NewNodeID(instance, uuid.New())},
		{name: "master", node: MasterNodeID(instance)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.node.Bytes()
			require.Len(t, b, NodeIDLength)
			got, err := NodeIDFromBytes(b)
			require.NoError(t, err)
			assert.Equal(t, tt.node, got)

			parsed, err := ParseNodeID(tt.node.String())
			require.NoError(t, err)
			assert.Equal(t, tt.node, parsed)
		})
	}
}

func TestNodeIDFromBytes_Errors(t *testing.T) {
	_, err := NodeIDFromBytes([]byte{1, 2, 3})
	require.Error(t, err)

	b := MasterNodeID(NewInstanceID()).Bytes()
	b[NodeIDLength-1] = 7
	_, err = NodeIDFromBytes(b)
	require.Error(t, err)

	_, err = ParseNodeID("no-slash")
	require.Error(t, err)
}

func TestInstanceID_JSON(t *testing.T) {
	id := NewInstanceID()
	raw, err := json.Marshal(struct {
		ID InstanceID `json:"id"`
	}{ID: id})
	require.NoError(t, err)
	assert.JSONEq(t, fmt.Sprintf(`{"id":%q}`, id.String()), string(raw))

	var out struct {
		ID InstanceID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, id, out.ID)
	assert.False(t, out.ID.IsZero())
	assert.True(t, InstanceID{}.IsZero())
}

func TestNewRoutingStatus_LocalAndViews(t *testing.T) {
	responder := NewInstanceID()
	other := NewInstanceID()
	localApp := NewNodeID(responder, uuid.New())
	remoteApp := NewNodeID(other, uuid.New())
	remoteMaster := MasterNodeID(other)

	status := NewRoutingStatus(responder, []Route{
		{NodeID: localApp, Address: "tcp://127.0.0.1:1", Local: false},
		{NodeID: remoteApp, Address: "tcp://127.0.0.1:2", Local: true},
		{NodeID: remoteMaster, Address: "tcp://127.0.0.1:3"},
	})

	require.Len(t, status.Routes, 3)
	assert.True(t, status.Routes[0].Local)
	assert.False(t, status.Routes[1].Local)
	assert.False(t, status.Routes[2].Local)

	assert.Equal(t, []Route{status.Routes[2]}, status.MasterRoutes())
	assert.Equal(t, []Route{status.Routes[0], status.Routes[1]}, status.ApplicationRoutes())
}

func TestInvocation_KeyAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		inv     Invocation
		wantKey MethodKey
		wantErr bool
	}{
		{
			name:    "positional",
			inv:     Invocation{Type: "Echo", Method: "echo", Args: []any{"a", 1.0}},
			wantKey: MethodKey{Type: "Echo", Method: "echo", Arity: 2},
		},
		{
			name:    "named",
			inv:     Invocation{Type: "Echo", Method: "echo", Dispatch: DispatchNamed, Args: []any{map[string]any{"a": 1, "b": 2}}},
			wantKey: MethodKey{Type: "Echo", Method: "echo", Arity: 2},
		},
		{
			name:    "named_without_map",
			inv:     Invocation{Type: "Echo", Method: "echo", Dispatch: DispatchNamed, Args: []any{"x"}},
			wantKey: MethodKey{Type: "Echo", Method: "echo", Arity: 1},
			wantErr: true,
		},
		{
			name:    "missing_method",
			inv:     Invocation{Type: "Echo"},
			wantKey: MethodKey{Type: "Echo"},
			wantErr: true,
		},
		{
			name:    "unknown_dispatch",
			inv:     Invocation{Type: "Echo", Method: "echo", Dispatch: "reflective"},
			wantKey: MethodKey{Type: "Echo", Method: "echo"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantKey, tt.inv.Key())
			err := tt.inv.Validate()
			if tt.wantErr {
				assert.True(t, IsClusterError(err, CodeBadParameter))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestInvocationError_Envelope(t *testing.T) {
	node := NewNodeID(NewInstanceID(), uuid.New())

	env := InvocationErrorFrom(NewNotRoutableError(node))
	assert.Equal(t, CodeNotRoutable, env.Kind)
	got, ok := NotRoutableNode(env.Err())
	require.True(t, ok)
	assert.Equal(t, node, got)

	env = InvocationErrorFrom(errors.New("boom"))
	assert.Equal(t, CodeRemoteInvocation, env.Kind)
	assert.True(t, IsRemoteInvocationError(env.Err()))
	assert.Contains(t, env.Err().Error(), "boom")

	assert.True(t, IsRemoteInvocationError(InvocationError{Kind: "weird", Message: "x"}.Err()))
}

func TestClusterError(t *testing.T) {
	inner := errors.New("socket gone")
	err := fmt.Errorf("wrapped: %w", NewTransportError("send failed", inner))

	assert.True(t, IsTransportError(err))
	assert.True(t, IsConnectionFatal(err))
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "transport_error send failed: socket gone", ToClusterError(err).Error())

	same := NewTransportError("outer", err)
	assert.Equal(t, "send failed", same.Message)

	assert.True(t, NewNotRoutableError(NodeID{}).Retryable())
	assert.True(t, NewInstanceUnreachableError(InstanceID{}).Retryable())
	assert.False(t, NewTimeoutError("t", nil).Retryable())
	assert.False(t, IsConnectionFatal(NewCanceledError("c")))
	assert.Equal(t, "", ErrorCode(inner))
}

func TestPoolConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       PoolConfig
		wantField string
	}{
		{name: "default", cfg: DefaultPoolConfig()},
		{name: "min_zero", cfg: PoolConfig{MinConnections: 0, MaxConnections: 1}},
		{name: "max_zero", cfg: PoolConfig{MinConnections: 0, MaxConnections: 0}, wantField: "max_connections"},
		{name: "min_negative", cfg: PoolConfig{MinConnections: -1, MaxConnections: 2}, wantField: "min_connections"},
		{name: "min_above_max", cfg: PoolConfig{MinConnections: 3, MaxConnections: 2}, wantField: "min_connections"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantField, cfgErr.Field)
		})
	}
}

func TestInstanceConfig_Validate(t *testing.T) {
	instance := NewInstanceID()
	app := uuid.New()
	valid := func() InstanceConfig {
		return InstanceConfig{
			InstanceID:     instance,
			ConnectAddress: "tcp://0.0.0.0:5555",
			BindHost:       "127.0.0.1",
			Pool:           DefaultPoolConfig(),
			ReceiveTimeout: DefaultReceiveTimeout,
			Nodes: []HostedNode{
				{NodeID: MasterNodeID(instance), Service: "diagnostics", Bind: true},
				{NodeID: NewNodeID(instance, app), Service: "diagnostics"},
			},
		}
	}

	tests := []struct {
		name      string
		mutate    func(c *InstanceConfig)
		wantField string
	}{
		{name: "valid", mutate: func(c *InstanceConfig) {}},
		{name: "missing_instance", mutate: func(c *InstanceConfig) { c.InstanceID = InstanceID{} }, wantField: "instance_id"},
		{name: "bad_connect_address", mutate: func(c *InstanceConfig) { c.ConnectAddress = "localhost:5555" }, wantField: "connect_address"},
		{name: "bad_advertise_address", mutate: func(c *InstanceConfig) { c.AdvertiseAddress = "10.0.0.1" }, wantField: "advertise_address"},
		{name: "empty_bind_host", mutate: func(c *InstanceConfig) { c.BindHost = " " }, wantField: "bind_host"},
		{name: "bad_pool", mutate: func(c *InstanceConfig) { c.Pool.MinConnections = 200 }, wantField: "min_connections"},
		{name: "zero_timeout", mutate: func(c *InstanceConfig) { c.ReceiveTimeout = 0 }, wantField: "receive_timeout"},
		{
			name:      "foreign_node",
			mutate:    func(c *InstanceConfig) { c.Nodes[1].NodeID = NewNodeID(NewInstanceID(), app) },
			wantField: "nodes",
		},
		{name: "node_without_service", mutate: func(c *InstanceConfig) { c.Nodes[1].Service = "" }, wantField: "nodes"},
		{name: "duplicate_node", mutate: func(c *InstanceConfig) { c.Nodes[1] = c.Nodes[0] }, wantField: "nodes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantField, cfgErr.Field)
		})
	}
}
