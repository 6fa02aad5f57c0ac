package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"mycluster/domain"
	"mycluster/security"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Env variable names.
const (
	envInstanceID        = "INSTANCE_ID"
	envConnectAddress    = "INSTANCE_CONNECT_ADDRESS"
	envAdvertiseAddress  = "INSTANCE_ADVERTISE_ADDRESS"
	envBindHost          = "INSTANCE_BIND_HOST"
	envPoolMin           = "POOL_MIN_CONNECTIONS"
	envPoolMax           = "POOL_MAX_CONNECTIONS"
	envReceiveTimeoutMs  = "RECEIVE_TIMEOUT_MS"
	envSecurityChain     = "SECURITY_CHAIN"
	envSecurityChainPath = "SECURITY_CHAIN_PATH"
	envRedisAddr         = "REDIS_ADDR"
	envDirectoryTTLMs    = "DIRECTORY_TTL_MS"
	envHTTPPort          = "SERVICE_PORT_HTTP"
	envGRPCPort          = "SERVICE_PORT_GRPC"
	envInvocationTrace   = "INVOCATION_TRACE"
	envConfigPath        = "CONFIG_PATH"
)

const (
	defaultBindHost     = "127.0.0.1"
	defaultDirectoryTTL = 15 * time.Second
	defaultService      = serviceDiagnostics
)

// Config holds the instance daemon configuration loaded by LoadConfig from environment variables and the
// optional YAML file at CONFIG_PATH. HTTPPort and GRPCPort are 0 when the admin HTTP or gRPC health
// surface is disabled; RedisAddr is empty when the instance directory is disabled.
type Config struct {
	Instance          domain.InstanceConfig
	SecurityChain     string
	SecurityChainPath string
	RedisAddr         string
	DirectoryTTL      time.Duration
	HTTPPort          int
	GRPCPort          int
	InvocationTrace   bool
}

// yamlConfig is the root struct for YAML unmarshalling.
type yamlConfig struct {
	Nodes []yamlNode `yaml:"nodes"`
}

// yamlNode is one hostable node: application uuid (omitted for the master node), master flag, the built-in
// service it serves and whether it is bound at startup.
type yamlNode struct {
	Application string `yaml:"application"`
	Master      bool   `yaml:"master"`
	Service     string `yaml:"service"`
	Bind        bool   `yaml:"bind"`
}

// loadYAMLConfig reads the YAML file at path and unmarshals it into yamlConfig.
//
// Returns: (*yamlConfig, nil) on success; (nil, error) on os.ReadFile or yaml.Unmarshal error.
//
// Called only from LoadConfig.
func loadYAMLConfig(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out yamlConfig
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LoadConfig builds the daemon config. INSTANCE_CONNECT_ADDRESS is required; INSTANCE_ID defaults to a
// fresh random id; POOL_MIN_CONNECTIONS/POOL_MAX_CONNECTIONS default to 1/100; RECEIVE_TIMEOUT_MS to
// 30000; SECURITY_CHAIN to none (configured requires SECURITY_CHAIN_PATH); DIRECTORY_TTL_MS to 15000.
// Nodes come from the YAML at CONFIG_PATH and are built with the instance id. The result is checked with
// domain.InstanceConfig.Validate.
//
// Returns: (*Config, nil) on success; (nil, error) on a malformed or missing value.
//
// Called only from main at startup.
func LoadConfig() (*Config, error) {
	instanceID := domain.NewInstanceID()
	if raw := strings.TrimSpace(os.Getenv(envInstanceID)); raw != "" {
		id, err := domain.ParseInstanceID(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", envInstanceID, err)
		}
		instanceID = id
	}

	connectAddress := strings.TrimSpace(os.Getenv(envConnectAddress))
	if connectAddress == "" {
		return nil, fmt.Errorf("%s is required", envConnectAddress)
	}

	poolMin, err := intEnv(envPoolMin, domain.DefaultMinConnections)
	if err != nil {
		return nil, err
	}
	poolMax, err := intEnv(envPoolMax, domain.DefaultMaxConnections)
	if err != nil {
		return nil, err
	}
	receiveTimeout, err := millisEnv(envReceiveTimeoutMs, domain.DefaultReceiveTimeout)
	if err != nil {
		return nil, err
	}
	directoryTTL, err := millisEnv(envDirectoryTTLMs, defaultDirectoryTTL)
	if err != nil {
		return nil, err
	}
	httpPort, err := portEnv(envHTTPPort)
	if err != nil {
		return nil, err
	}
	grpcPort, err := portEnv(envGRPCPort)
	if err != nil {
		return nil, err
	}
	trace, err := boolEnv(envInvocationTrace)
	if err != nil {
		return nil, err
	}

	chain := strings.ToLower(strings.TrimSpace(os.Getenv(envSecurityChain)))
	chainPath := strings.TrimSpace(os.Getenv(envSecurityChainPath))
	switch chain {
	case "", security.NameNone, security.NameGenerated:
	case security.NameConfigured:
		if chainPath == "" {
			return nil, fmt.Errorf("%s is required when %s=%s", envSecurityChainPath, envSecurityChain, security.NameConfigured)
		}
	default:
		return nil, fmt.Errorf("%s must be %s|%s|%s, got %q", envSecurityChain, security.NameNone, security.NameGenerated, security.NameConfigured, chain)
	}

	bindHost := strings.TrimSpace(os.Getenv(envBindHost))
	if bindHost == "" {
		bindHost = defaultBindHost
	}

	var nodes []domain.HostedNode
	if configPath := strings.TrimSpace(os.Getenv(envConfigPath)); configPath != "" {
		if !filepath.IsAbs(configPath) {
			abs, absErr := filepath.Abs(configPath)
			if absErr != nil {
				return nil, absErr
			}
			configPath = abs
		}
		raw, err := loadYAMLConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", configPath, err)
		}
		nodes, err = hostedNodes(instanceID, raw.Nodes)
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", configPath, err)
		}
	}

	instance := domain.InstanceConfig{
		InstanceID:       instanceID,
		ConnectAddress:   connectAddress,
		AdvertiseAddress: strings.TrimSpace(os.Getenv(envAdvertiseAddress)),
		BindHost:         bindHost,
		Pool:             domain.PoolConfig{MinConnections: poolMin, MaxConnections: poolMax},
		ReceiveTimeout:   receiveTimeout,
		Nodes:            nodes,
	}
	if err := instance.Validate(); err != nil {
		return nil, err
	}

	return &Config{
		Instance:          instance,
		SecurityChain:     chain,
		SecurityChainPath: chainPath,
		RedisAddr:         strings.TrimSpace(os.Getenv(envRedisAddr)),
		DirectoryTTL:      directoryTTL,
		HTTPPort:          httpPort,
		GRPCPort:          grpcPort,
		InvocationTrace:   trace,
	}, nil
}

// hostedNodes converts the YAML node list into node ids of instance. A master entry must not name an
// application; any other entry must name a valid uuid. service defaults to diagnostics.
func hostedNodes(instance domain.InstanceID, raw []yamlNode) ([]domain.HostedNode, error) {
	out := make([]domain.HostedNode, 0, len(raw))
	for i, n := range raw {
		svc := strings.ToLower(strings.TrimSpace(n.Service))
		if svc == "" {
			svc = defaultService
		}
		if _, ok := serviceTables[svc]; !ok {
			return nil, fmt.Errorf("nodes[%d]: unknown service %q", i, n.Service)
		}
		app := strings.TrimSpace(n.Application)
		var node domain.NodeID
		switch {
		case n.Master && app != "":
			return nil, fmt.Errorf("nodes[%d]: master node must not set application", i)
		case n.Master:
			node = domain.MasterNodeID(instance)
		default:
			id, err := uuid.Parse(app)
			if err != nil {
				return nil, fmt.Errorf("nodes[%d]: application must be a uuid: %w", i, err)
			}
			node = domain.NewNodeID(instance, id)
		}
		out = append(out, domain.HostedNode{NodeID: node, Service: svc, Bind: n.Bind})
	}
	return out, nil
}

func intEnv(name string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}

func millisEnv(name string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms <= 0 {
		return 0, fmt.Errorf("%s must be a positive number of milliseconds, got %q", name, raw)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// portEnv returns 0 when name is unset.
func portEnv(name string) (int, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, nil
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port <= 0 || port > 65535 {
		return 0, fmt.Errorf("%s must be 1-65535, got %q", name, raw)
	}
	return port, nil
}

func boolEnv(name string) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}
