package domain

import (
	"strconv"
	"strings"
	"time"
)

const (
	DefaultMinConnections = 1
	DefaultMaxConnections = 100
	DefaultReceiveTimeout = 30 * time.Second
)

// PoolConfig bounds a connection pool to one peer. MinConnections are opened eagerly, further
// connections lazily up to MaxConnections.
type PoolConfig struct {
	MinConnections int
	MaxConnections int
}

// DefaultPoolConfig returns the 1/100 pool bounds.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{MinConnections: DefaultMinConnections, MaxConnections: DefaultMaxConnections}
}

// Validate checks 0 <= MinConnections <= MaxConnections and MaxConnections >= 1.
//
// Returns: nil when valid; *ConfigError naming the field otherwise.
//
// Called from service.NewConnectionPool and cmd/instanced LoadConfig.
func (c PoolConfig) Validate() error {
	if c.MaxConnections < 1 {
		return &ConfigError{Field: "max_connections", Reason: "must be at least 1, got " + strconv.Itoa(c.MaxConnections)}
	}
	if c.MinConnections < 0 {
		return &ConfigError{Field: "min_connections", Reason: "must not be negative, got " + strconv.Itoa(c.MinConnections)}
	}
	if c.MinConnections > c.MaxConnections {
		return &ConfigError{Field: "min_connections", Reason: "must not exceed max_connections"}
	}
	return nil
}

// PoolStats is a snapshot of a connection pool's counters.
type PoolStats struct {
	Address string `json:"address"`
	Open    int    `json:"open"`
	Idle    int    `json:"idle"`
	Leased  int    `json:"leased"`
	Waiting int    `json:"waiting"`
	Closed  bool   `json:"closed"`
}

// HostedNode is a node this instance may bind, as listed in the instance YAML config. Service names the
// built-in dispatch table the node serves; Bind opens the binding at startup instead of waiting for a
// client's OPEN_BINDING_FOR_NODE.
type HostedNode struct {
	NodeID  NodeID
	Service string
	Bind    bool
}

// InstanceConfig is everything an instance daemon needs to serve its control socket and nodes.
type InstanceConfig struct {
	InstanceID InstanceID
	// ConnectAddress is the control endpoint the daemon listens on.
	ConnectAddress string
	// AdvertiseAddress is the endpoint peers dial; empty means the resolved listen address.
	AdvertiseAddress string
	// BindHost is the host of node binding and route forwarder listeners.
	BindHost       string
	Pool           PoolConfig
	ReceiveTimeout time.Duration
	Nodes          []HostedNode
}

// Validate checks the instance id, addresses, pool bounds and that every hosted node belongs to this
// instance exactly once.
//
// Returns: nil when valid; *ConfigError naming the first offending field otherwise.
//
// Called from cmd/instanced LoadConfig.
func (c InstanceConfig) Validate() error {
	if c.InstanceID.IsZero() {
		return &ConfigError{Field: "instance_id", Reason: "is required"}
	}
	if !strings.Contains(c.ConnectAddress, "://") {
		return &ConfigError{Field: "connect_address", Reason: "must be an endpoint like tcp://host:port, got " + strconv.Quote(c.ConnectAddress)}
	}
	if c.AdvertiseAddress != "" && !strings.Contains(c.AdvertiseAddress, "://") {
		return &ConfigError{Field: "advertise_address", Reason: "must be an endpoint like tcp://host:port, got " + strconv.Quote(c.AdvertiseAddress)}
	}
	if strings.TrimSpace(c.BindHost) == "" {
		return &ConfigError{Field: "bind_host", Reason: "is required"}
	}
	if err := c.Pool.Validate(); err != nil {
		return err
	}
	if c.ReceiveTimeout <= 0 {
		return &ConfigError{Field: "receive_timeout", Reason: "must be positive"}
	}
	seen := make(map[NodeID]struct{}, len(c.Nodes))
	for _, n := range c.Nodes {
		if n.NodeID.Instance != c.InstanceID {
			return &ConfigError{Field: "nodes", Reason: "node " + n.NodeID.String() + " belongs to another instance"}
		}
		if n.Service == "" {
			return &ConfigError{Field: "nodes", Reason: "node " + n.NodeID.String() + " has no service"}
		}
		if _, dup := seen[n.NodeID]; dup {
			return &ConfigError{Field: "nodes", Reason: "node " + n.NodeID.String() + " is listed twice"}
		}
		seen[n.NodeID] = struct{}{}
	}
	return nil
}

// DirectoryEntry is what an instance publishes in the instance directory.
type DirectoryEntry struct {
	InstanceID     InstanceID `json:"instance_id"`
	ConnectAddress string     `json:"connect_address"`
	Timestamp      time.Time  `json:"timestamp"`
}

// ConfigError is returned when a configuration value is invalid.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Reason
}
