package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mycluster/adapters/myredis"
	"mycluster/domain"
	"mycluster/handlers"
	"mycluster/interfaces"
	"mycluster/security"
	"mycluster/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const serviceDiagnostics = "diagnostics"

// serviceTables lists the built-in dispatch tables a hosted node may serve.
var serviceTables = map[string]func() *service.DispatchTable{
	serviceDiagnostics: service.NewDiagnosticsTable,
}

const (
	healthProbeInterval = 5 * time.Second
	healthProbeTimeout  = time.Second
	shutdownTimeout     = 10 * time.Second
)

func main() {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.WithPrefix(logger, "ts", log.DefaultTimestampUTC)
	logger = log.WithPrefix(logger, "caller", log.DefaultCaller)

	level.Info(logger).Log("msg", "Starting instanced")

	config, err := LoadConfig()
	if err != nil {
		level.Error(logger).Log("msg", "Failed to load configuration", "err", err)
		os.Exit(1)
	}
	level.Info(logger).Log(
		"msg", "Configuration loaded",
		"instance_id", config.Instance.InstanceID,
		"connect_address", config.Instance.ConnectAddress,
		"nodes", len(config.Instance.Nodes),
		"security_chain", config.SecurityChain,
		"redis_addr", config.RedisAddr,
		"service_port_http", config.HTTPPort,
		"service_port_grpc", config.GRPCPort,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, config, logger)
	stop()
	if err != nil {
		level.Error(logger).Log("msg", "Instance failed", "err", err)
		os.Exit(1)
	}
	level.Info(logger).Log("msg", "Instance stopped")
}

// run serves until ctx is done. Sockets live on their own context so that bindings can still be
// released over the control socket during shutdown.
func run(ctx context.Context, cfg *Config, logger log.Logger) error {
	sockets, closeSockets := context.WithCancel(context.Background())
	defer closeSockets()

	chain, err := security.FromName(cfg.SecurityChain, cfg.SecurityChainPath)
	if err != nil {
		return fmt.Errorf("security chain: %w", err)
	}
	codec := service.NewProtobufCodec()
	tracer := service.NewInvocationTracer(cfg.InvocationTrace, nil)

	registry := service.NewNodeRegistry()
	for _, n := range cfg.Instance.Nodes {
		registry.Register(n.NodeID, serviceTables[n.Service]())
	}

	var server *service.InstanceServer
	{
		server = service.NewInstanceServer(service.InstanceServerConfig{
			InstanceID:     cfg.Instance.InstanceID,
			ConnectAddress: cfg.Instance.ConnectAddress,
			BindHost:       cfg.Instance.BindHost,
			Chain:          chain,
			ReceiveTimeout: cfg.Instance.ReceiveTimeout,
		}, registry, codec, logger)
		if err := server.Start(sockets); err != nil {
			return err
		}
		defer server.Close()
	}
	advertise := cfg.Instance.AdvertiseAddress
	if advertise == "" {
		advertise = server.Address()
	}

	var controlPool interfaces.ConnectionPool
	{
		controlPool, err = service.NewConnectionPool(sockets, advertise, chain, cfg.Instance.Pool, logger)
		if err != nil {
			return fmt.Errorf("control pool: %w", err)
		}
		defer controlPool.Close()
	}

	var startup []startupBinding
	{
		startCtx, cancel := context.WithTimeout(ctx, cfg.Instance.ReceiveTimeout)
		startup, err = bindStartupNodes(startCtx, startupDeps{
			client:          service.NewAsyncControlClient(controlPool, chain, cfg.Instance.ReceiveTimeout, logger),
			instanceAddress: advertise,
			chain:           chain,
			pool:            cfg.Instance.Pool,
			codec:           codec,
			tracer:          tracer,
			logger:          logger,
		}, cfg.Instance.Nodes)
		cancel()
		if err != nil {
			return err
		}
		defer func() {
			for _, b := range startup {
				b.close()
			}
		}()
	}

	var directory interfaces.Directory
	if cfg.RedisAddr != "" {
		redisClient, err := myredis.NewRedisUniversalClient(cfg.RedisAddr)
		if err != nil {
			return fmt.Errorf("redis client: %w", err)
		}
		defer redisClient.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		level.Info(logger).Log("msg", "Connected to Redis")
		directory = service.NewInstanceDirectory(myredis.NewJSONCache[domain.DirectoryEntry](redisClient, "instance"))
	}

	var grpcListener net.Listener
	if cfg.GRPCPort != 0 {
		grpcListener, err = net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
		if err != nil {
			return fmt.Errorf("grpc listen: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	if directory != nil {
		entry := domain.DirectoryEntry{InstanceID: server.ID(), ConnectAddress: advertise}
		g.Go(func() error {
			return service.RunHeartbeat(gctx, directory, entry, cfg.DirectoryTTL/3, cfg.DirectoryTTL, logger)
		})
	}

	if grpcListener != nil {
		healthServer := health.NewServer()
		grpcServer := grpc.NewServer()
		grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
		reflection.Register(grpcServer)

		probe := service.NewControlClient(sockets, advertise, chain, healthProbeTimeout, logger)
		defer probe.Close()
		monitor := service.NewHealthMonitor(probe, server.ID(), healthServer, "", healthProbeInterval, healthProbeTimeout, logger)

		g.Go(func() error { return monitor.Run(gctx) })
		g.Go(func() error {
			level.Info(logger).Log("msg", "Starting gRPC health server", "addr", grpcListener.Addr())
			return grpcServer.Serve(grpcListener)
		})
		g.Go(func() error {
			<-gctx.Done()
			grpcServer.GracefulStop()
			return nil
		})
	}

	if cfg.HTTPPort != 0 {
		e := echo.New()
		e.HideBanner = true
		e.HidePort = true
		handlers.RegisterErrorHandler(e, logger)
		handlers.RegisterHandlers(e, handlers.NewAdminServer(server, directory, tracer, func() []domain.PoolStats {
			stats := []domain.PoolStats{controlPool.Stats()}
			for _, b := range startup {
				stats = append(stats, b.invoker.Stats())
			}
			return stats
		}, logger))

		g.Go(func() error {
			addr := fmt.Sprintf(":%d", cfg.HTTPPort)
			level.Info(logger).Log("msg", "Starting admin HTTP server", "addr", addr)
			if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		})
	}

	level.Info(logger).Log("msg", "Instance serving", "instance_id", server.ID(), "address", advertise)
	err = g.Wait()
	level.Info(logger).Log("msg", "Shutting down...")
	return err
}
