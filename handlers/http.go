// Package handlers contains the read-only admin HTTP surface of an instance.
package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"mycluster/domain"
	"mycluster/helpers"
	"mycluster/interfaces"
	"mycluster/service"

	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
)

// Route filters accepted by GET /v1/status/routing?kind=.
const (
	routeKindAll         = "all"
	routeKindMaster      = "master"
	routeKindApplication = "application"
)

// AdminServer serves views of the local instance's routing table, bindings, directory and in-flight
// invocations. It never changes cluster state.
type AdminServer struct {
	status    interfaces.StatusSource
	directory interfaces.Directory
	tracer    *service.InvocationTracer
	pools     func() []domain.PoolStats
	logger    log.Logger
}

// NewAdminServer creates an AdminServer.
//
// Parameters: status: the local instance server; directory: nil when no directory is configured;
// tracer: may be nil (debug view then reports disabled); pools: returns stats of the pools this
// process owns, may be nil; logger.
//
// Called from cmd/instanced main and tests.
func NewAdminServer(
	status interfaces.StatusSource,
	directory interfaces.Directory,
	tracer *service.InvocationTracer,
	pools func() []domain.PoolStats,
	logger log.Logger,
) *AdminServer {
	if pools == nil {
		pools = func() []domain.PoolStats { return nil }
	}
	return &AdminServer{
		status:    helpers.NilPanic(status, "handlers.http.go: status source is required"),
		directory: directory,
		tracer:    tracer,
		pools:     pools,
		logger:    log.WithPrefix(helpers.NilPanic(logger, "handlers.http.go: logger is required"), "component", "AdminServer"),
	}
}

// RegisterHandlers mounts the admin routes on e.
func RegisterHandlers(e *echo.Echo, s *AdminServer) {
	e.GET("/v1/status/instance", s.GetInstanceStatus)
	e.GET("/v1/status/routing", s.GetRoutingStatus)
	e.GET("/v1/status/routing/:instance_id/:application", s.GetRoute)
	e.GET("/v1/status/pools", s.GetPoolStats)
	e.GET("/v1/directory", s.GetDirectory)
	e.GET("/v1/debug/invocations", s.GetInvocations)
}

// GetInstanceStatus (GET /v1/status/instance) returns the nodes bound on this instance.
func (s *AdminServer) GetInstanceStatus(ectx echo.Context) error {
	return ectx.JSON(http.StatusOK, toInstanceStatusResponse(s.status.InstanceStatus()))
}

// GetRoutingStatus (GET /v1/status/routing) returns the routing table. The optional kind query
// parameter (all|master|application) filters the routes; anything else is a 400.
func (s *AdminServer) GetRoutingStatus(ectx echo.Context) error {
	kind := strings.ToLower(strings.TrimSpace(ectx.QueryParam("kind")))
	status := s.status.RoutingStatus()
	var routes []domain.Route
	switch kind {
	case "", routeKindAll:
		routes = status.Routes
	case routeKindMaster:
		routes = status.MasterRoutes()
	case routeKindApplication:
		routes = status.ApplicationRoutes()
	default:
		return domain.NewBadParameterError(fmt.Sprintf("kind must be %s, %s or %s", routeKindAll, routeKindMaster, routeKindApplication), nil)
	}
	return ectx.JSON(http.StatusOK, toRoutingStatusResponse(status.InstanceID, routes))
}

// GetRoute (GET /v1/status/routing/{instance_id}/{application}) returns the route of one node; 404 when
// the table has none. application is a uuid or "master".
func (s *AdminServer) GetRoute(ectx echo.Context) error {
	node, err := domain.ParseNodeID(ectx.Param("instance_id") + "/" + ectx.Param("application"))
	if err != nil {
		return domain.NewBadParameterError("invalid node id", err)
	}
	for _, r := range s.status.RoutingStatus().Routes {
		if r.NodeID == node {
			return ectx.JSON(http.StatusOK, toRouteInfo(r))
		}
	}
	return domain.NewNotRoutableError(node)
}

// GetPoolStats (GET /v1/status/pools) returns the counters of every pool this process owns.
func (s *AdminServer) GetPoolStats(ectx echo.Context) error {
	stats := s.pools()
	if stats == nil {
		stats = []domain.PoolStats{}
	}
	return ectx.JSON(http.StatusOK, PoolsResponse{Pools: stats})
}

// GetDirectory (GET /v1/directory) lists live instances from the instance directory.
func (s *AdminServer) GetDirectory(ectx echo.Context) error {
	if s.directory == nil {
		return echo.NewHTTPError(http.StatusNotFound, "instance directory is not configured")
	}
	entries, err := s.directory.List(ectx.Request().Context())
	if err != nil {
		return fmt.Errorf("getDirectory failed to list instances, err: %w", err)
	}
	return ectx.JSON(http.StatusOK, toDirectoryResponse(entries))
}

// GetInvocations (GET /v1/debug/invocations) lists in-flight invocation traces.
func (s *AdminServer) GetInvocations(ectx echo.Context) error {
	return ectx.JSON(http.StatusOK, InvocationsResponse{
		Enabled:     s.tracer.Enabled(),
		Invocations: s.tracer.InFlight(),
	})
}
