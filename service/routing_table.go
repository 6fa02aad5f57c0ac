package service

import (
	"sort"
	"sync"

	"mycluster/domain"
)

// routeEntry is one remote route: node reached through a forwarder to the owning instance.
type routeEntry struct {
	node           domain.NodeID
	owner          domain.InstanceID
	connectAddress string
	forwarder      *routeForwarder
}

func (e *routeEntry) address() string {
	return e.forwarder.Address()
}

// routingTable holds the remote routes of an instance. Every method is atomic with respect to the others,
// so each status reply is a consistent snapshot and CLOSE_ROUTES_VIA_INSTANCE removes its routes in one step.
type routingTable struct {
	mu     sync.Mutex
	routes map[domain.NodeID]*routeEntry
}

func newRoutingTable() *routingTable {
	return &routingTable{routes: make(map[domain.NodeID]*routeEntry)}
}

func (t *routingTable) get(node domain.NodeID) (*routeEntry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.routes[node]
	return e, ok
}

// putIfAbsent stores e unless node already has a route to the same connect address. A route to a different
// address is replaced.
//
// Returns: the entry now in the table, whether it is e, and the entry e replaced (nil if none).
func (t *routingTable) putIfAbsent(e *routeEntry) (current *routeEntry, stored bool, replaced *routeEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if old, ok := t.routes[e.node]; ok {
		if old.connectAddress == e.connectAddress {
			return old, false, nil
		}
		replaced = old
	}
	t.routes[e.node] = e
	return e, true, replaced
}

// remove deletes node's route if it is still entry (nil matches any).
func (t *routingTable) remove(node domain.NodeID, entry *routeEntry) (*routeEntry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.routes[node]
	if !ok || (entry != nil && e != entry) {
		return nil, false
	}
	delete(t.routes, node)
	return e, true
}

// removeVia deletes, under one lock, every route owned by instance or forwarding to connectAddress.
func (t *routingTable) removeVia(instance domain.InstanceID, connectAddress string) []*routeEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	var removed []*routeEntry
	for node, e := range t.routes {
		if e.owner == instance || (connectAddress != "" && e.connectAddress == connectAddress) {
			removed = append(removed, e)
			delete(t.routes, node)
		}
	}
	return removed
}

// removeAll empties the table.
func (t *routingTable) removeAll() []*routeEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*routeEntry, 0, len(t.routes))
	for _, e := range t.routes {
		out = append(out, e)
	}
	t.routes = make(map[domain.NodeID]*routeEntry)
	return out
}

// snapshot returns the routes sorted by node.
func (t *routingTable) snapshot() []domain.Route {
	t.mu.Lock()
	out := make([]domain.Route, 0, len(t.routes))
	for _, e := range t.routes {
		out = append(out, domain.Route{NodeID: e.node, Address: e.address()})
	}
	t.mu.Unlock()
	sortRoutes(out)
	return out
}

func sortRoutes(routes []domain.Route) {
	sort.Slice(routes, func(i, j int) bool { return routes[i].NodeID.String() < routes[j].NodeID.String() })
}
