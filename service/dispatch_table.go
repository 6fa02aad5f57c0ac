package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"mycluster/domain"
)

// MethodFunc implements one remote method. The returned value is part 0 of the reply; the call's async
// sinks carry parts 1..N and may be completed after MethodFunc returns.
type MethodFunc func(ctx context.Context, call *Call) (any, error)

// DispatchTable maps (type, method, arity) to the function serving it. Resolution is an exact map lookup,
// decided when the node is bound; nothing is resolved by reflection.
type DispatchTable struct {
	mu      sync.RWMutex
	methods map[domain.MethodKey]MethodFunc
}

// NewDispatchTable returns an empty table.
func NewDispatchTable() *DispatchTable {
	return &DispatchTable{methods: make(map[domain.MethodKey]MethodFunc)}
}

// Register adds fn under (typ, method, arity). Registering the same key twice is a programming error.
func (t *DispatchTable) Register(typ, method string, arity int, fn MethodFunc) *DispatchTable {
	key := domain.MethodKey{Type: typ, Method: method, Arity: arity}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.methods[key]; ok {
		panic(fmt.Sprintf("service.dispatch_table.go: %s.%s/%d registered twice", typ, method, arity))
	}
	t.methods[key] = fn
	return t
}

// Lookup resolves key.
func (t *DispatchTable) Lookup(key domain.MethodKey) (MethodFunc, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	fn, ok := t.methods[key]
	return fn, ok
}

// Keys returns the registered keys sorted by type, method, arity.
func (t *DispatchTable) Keys() []domain.MethodKey {
	t.mu.RLock()
	keys := make([]domain.MethodKey, 0, len(t.methods))
	for k := range t.methods {
		keys = append(keys, k)
	}
	t.mu.RUnlock()
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Type != keys[j].Type {
			return keys[i].Type < keys[j].Type
		}
		if keys[i].Method != keys[j].Method {
			return keys[i].Method < keys[j].Method
		}
		return keys[i].Arity < keys[j].Arity
	})
	return keys
}

// Call is what a MethodFunc sees of one invocation.
type Call struct {
	Node       domain.NodeID
	Invocation domain.Invocation
	async      []*AsyncSink
}

// Args returns the positional arguments.
func (c *Call) Args() []any {
	return c.Invocation.Args
}

// Named returns the named parameters of a named-dispatch call, or nil.
func (c *Call) Named() map[string]any {
	if c.Invocation.Dispatch != domain.DispatchNamed || len(c.Invocation.Args) != 1 {
		return nil
	}
	m, _ := c.Invocation.Args[0].(map[string]any)
	return m
}

// AsyncParts returns how many async parts the caller expects.
func (c *Call) AsyncParts() int {
	return len(c.async)
}

// Async returns the sink of part i (1-based), or nil when i is out of range.
func (c *Call) Async(i int) *AsyncSink {
	if i < 1 || i > len(c.async) {
		return nil
	}
	return c.async[i-1]
}

// AsyncSink sends one async reply part. Only the first Complete or Fail has an effect.
type AsyncSink struct {
	part uint32
	send func(part uint32, value any, err error)
	once sync.Once
}

// Complete sends value as this part's result.
//
// Returns: true if this call sent the part.
func (s *AsyncSink) Complete(value any) bool {
	sent := false
	s.once.Do(func() {
		s.send(s.part, value, nil)
		sent = true
	})
	return sent
}

// Fail sends err as this part's error envelope.
//
// Returns: true if this call sent the part.
func (s *AsyncSink) Fail(err error) bool {
	sent := false
	s.once.Do(func() {
		s.send(s.part, nil, err)
		sent = true
	})
	return sent
}
