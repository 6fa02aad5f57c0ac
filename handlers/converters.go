package handlers

import (
	"sort"
	"time"

	"mycluster/domain"
	"mycluster/service"
)

// InstanceStatusResponse is the body of GET /v1/status/instance.
type InstanceStatusResponse struct {
	InstanceID string   `json:"instance_id"`
	Nodes      []string `json:"nodes"`
}

// RouteInfo is one routing table entry.
type RouteInfo struct {
	NodeID   string `json:"node_id"`
	Instance string `json:"instance_id"`
	Master   bool   `json:"master"`
	Address  string `json:"address"`
	Local    bool   `json:"local"`
}

// RoutingStatusResponse is the body of GET /v1/status/routing.
type RoutingStatusResponse struct {
	InstanceID string      `json:"instance_id"`
	Routes     []RouteInfo `json:"routes"`
}

// DirectoryEntryInfo is one live instance.
type DirectoryEntryInfo struct {
	InstanceID     string    `json:"instance_id"`
	ConnectAddress string    `json:"connect_address"`
	Timestamp      time.Time `json:"timestamp"`
}

// DirectoryResponse is the body of GET /v1/directory.
type DirectoryResponse struct {
	Instances []DirectoryEntryInfo `json:"instances"`
}

// PoolsResponse is the body of GET /v1/status/pools.
type PoolsResponse struct {
	Pools []domain.PoolStats `json:"pools"`
}

// InvocationsResponse is the body of GET /v1/debug/invocations.
type InvocationsResponse struct {
	Enabled     bool                      `json:"enabled"`
	Invocations []service.InvocationTrace `json:"invocations"`
}

func toInstanceStatusResponse(status domain.InstanceStatus) InstanceStatusResponse {
	nodes := make([]string, 0, len(status.Nodes))
	for _, n := range status.Nodes {
		nodes = append(nodes, n.String())
	}
	return InstanceStatusResponse{InstanceID: status.InstanceID.String(), Nodes: nodes}
}

func toRouteInfo(r domain.Route) RouteInfo {
	return RouteInfo{
		NodeID:   r.NodeID.String(),
		Instance: r.NodeID.Instance.String(),
		Master:   r.NodeID.Master,
		Address:  r.Address,
		Local:    r.Local,
	}
}

func toRoutingStatusResponse(instance domain.InstanceID, routes []domain.Route) RoutingStatusResponse {
	out := make([]RouteInfo, 0, len(routes))
	for _, r := range routes {
		out = append(out, toRouteInfo(r))
	}
	return RoutingStatusResponse{InstanceID: instance.String(), Routes: out}
}

// toDirectoryResponse converts directory entries to the API response, newest heartbeat first.
func toDirectoryResponse(entries []domain.DirectoryEntry) DirectoryResponse {
	out := make([]DirectoryEntryInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, DirectoryEntryInfo{
			InstanceID:     e.InstanceID.String(),
			ConnectAddress: e.ConnectAddress,
			Timestamp:      e.Timestamp,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return DirectoryResponse{Instances: out}
}
