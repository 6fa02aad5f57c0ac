package service

import (
	"sort"
	"sync"

	"mycluster/domain"
)

// NodeRegistry lists the nodes this instance may bind and the dispatch table each one serves.
// OPEN_BINDING_FOR_NODE for a node missing here is answered with NO_SUCH_NODE_ROUTE.
type NodeRegistry struct {
	mu     sync.RWMutex
	tables map[domain.NodeID]*DispatchTable
}

func NewNodeRegistry() *NodeRegistry {
	return &NodeRegistry{tables: make(map[domain.NodeID]*DispatchTable)}
}

// Register makes node bindable with table; a second Register replaces the table for later bindings.
func (r *NodeRegistry) Register(node domain.NodeID, table *DispatchTable) {
	r.mu.Lock()
	r.tables[node] = table
	r.mu.Unlock()
}

// Unregister removes node; existing bindings keep their table.
func (r *NodeRegistry) Unregister(node domain.NodeID) {
	r.mu.Lock()
	delete(r.tables, node)
	r.mu.Unlock()
}

func (r *NodeRegistry) Lookup(node domain.NodeID) (*DispatchTable, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tables[node]
	return t, ok
}

// Nodes returns the registered nodes in string order.
func (r *NodeRegistry) Nodes() []domain.NodeID {
	r.mu.RLock()
	out := make([]domain.NodeID, 0, len(r.tables))
	for n := range r.tables {
		out = append(out, n)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
