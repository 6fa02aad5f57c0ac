package domain

// Route is a resolved physical address at which a node can currently be reached.
// Local is true when the node lives on the instance that answered the routing-status query.
// Routes are only produced by decoding a routing-status reply and are never mutated.
type Route struct {
	NodeID  NodeID `json:"node_id"`
	Address string `json:"address"`
	Local   bool   `json:"local"`
}

// RoutingStatus is one instance's routing table snapshot. MasterRoutes and ApplicationRoutes are
// filters over Routes, not separate storage.
type RoutingStatus struct {
	InstanceID InstanceID `json:"instance_id"`
	Routes     []Route    `json:"routes"`
}

// NewRoutingStatus builds a snapshot for responder and derives Route.Local from it.
//
// Parameters: responder: id of the instance that owns the table; routes: entries as they appear in the
// reply (Local is recomputed).
//
// Called from service.parseRoutingStatusReply when decoding a GET_ROUTING_STATUS reply.
func NewRoutingStatus(responder InstanceID, routes []Route) RoutingStatus {
	out := make([]Route, 0, len(routes))
	for _, r := range routes {
		r.Local = r.NodeID.Instance == responder
		out = append(out, r)
	}
	return RoutingStatus{InstanceID: responder, Routes: out}
}

// MasterRoutes returns the routes whose node is a master node.
func (s RoutingStatus) MasterRoutes() []Route {
	return s.filter(func(r Route) bool { return r.NodeID.Master })
}

// ApplicationRoutes returns the routes whose node is an application (worker) node.
func (s RoutingStatus) ApplicationRoutes() []Route {
	return s.filter(func(r Route) bool { return !r.NodeID.Master })
}

func (s RoutingStatus) filter(keep func(Route) bool) []Route {
	out := make([]Route, 0, len(s.Routes))
	for _, r := range s.Routes {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// InstanceStatus lists the nodes one instance currently hosts. Built once per reply; immutable.
type InstanceStatus struct {
	InstanceID InstanceID `json:"instance_id"`
	Nodes      []NodeID   `json:"nodes"`
}

// Hosts reports whether node is in the status' node list.
//
// Called from service.InstanceServer when verifying a remote instance before opening a route.
func (s InstanceStatus) Hosts(node NodeID) bool {
	for _, n := range s.Nodes {
		if n == node {
			return true
		}
	}
	return false
}
