package service

import (
	"context"
	"time"

	"mycluster/domain"
	"mycluster/helpers"
	"mycluster/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthMonitor probes an instance with HEALTH_CHECK and mirrors the outcome into a gRPC health server.
// The instance is serving when it answers with the expected id.
type HealthMonitor struct {
	client   interfaces.ControlClient
	expected domain.InstanceID
	health   *health.Server
	service  string
	interval time.Duration
	timeout  time.Duration
	logger   log.Logger
	serving  bool
}

// NewHealthMonitor panics on a nil client, health server or logger.
//
// Parameters: service is the gRPC health service name ("" for the server-wide status); interval between
// probes; timeout per probe.
func NewHealthMonitor(
	client interfaces.ControlClient,
	expected domain.InstanceID,
	healthServer *health.Server,
	service string,
	interval time.Duration,
	timeout time.Duration,
	logger log.Logger,
) *HealthMonitor {
	return &HealthMonitor{
		client:   helpers.NilPanic(client, "service.health_monitor.go: control client is required"),
		expected: expected,
		health:   helpers.NilPanic(healthServer, "service.health_monitor.go: health server is required"),
		service:  service,
		interval: helpers.DurationOr(interval, 5*time.Second),
		timeout:  helpers.DurationOr(timeout, time.Second),
		logger:   log.With(helpers.NilPanic(logger, "service.health_monitor.go: logger is required"), "component", "health_monitor"),
	}
}

// Run probes until ctx is done, then reports NOT_SERVING.
func (m *HealthMonitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		m.Check(ctx)
		select {
		case <-ctx.Done():
			m.health.SetServingStatus(m.service, healthpb.HealthCheckResponse_NOT_SERVING)
			return nil
		case <-ticker.C:
		}
	}
}

// Check runs one probe and updates the health server.
//
// Returns: true when the instance answered with the expected id.
func (m *HealthMonitor) Check(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	id, err := m.client.HealthCheck(probeCtx)
	serving := err == nil && id == m.expected

	if serving != m.serving {
		if serving {
			level.Info(m.logger).Log("msg", "instance healthy", "instance", id)
		} else {
			level.Warn(m.logger).Log("msg", "instance unhealthy", "expected", m.expected, "got", id, "err", err)
		}
	}
	m.serving = serving

	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	m.health.SetServingStatus(m.service, status)
	return serving
}
