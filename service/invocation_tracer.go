package service

import (
	"runtime"
	"sort"
	"strconv"
	"sync"
	"time"
)

const maxTraceDepth = 32

// InvocationTrace is the dispatch-time context of one in-flight invocation.
type InvocationTrace struct {
	ID      string    `json:"id"`
	Target  string    `json:"target"`
	Type    string    `json:"type"`
	Method  string    `json:"method"`
	Started time.Time `json:"started"`
	Stack   []string  `json:"stack"`
}

// InvocationTracer records the caller's stack for every invocation dispatched while it is enabled and
// forgets it when the invocation terminates. It only observes; a nil or disabled tracer records nothing.
type InvocationTracer struct {
	enabled bool
	now     func() time.Time

	mu     sync.Mutex
	seq    uint64
	traces map[string]InvocationTrace
}

// NewInvocationTracer returns a tracer; when enabled is false every method is a no-op.
func NewInvocationTracer(enabled bool, now func() time.Time) *InvocationTracer {
	if now == nil {
		now = time.Now
	}
	return &InvocationTracer{enabled: enabled, now: now, traces: make(map[string]InvocationTrace)}
}

// Enabled reports whether traces are recorded.
func (t *InvocationTracer) Enabled() bool {
	return t != nil && t.enabled
}

// Begin records the current goroutine's stack starting at Begin's caller and returns the trace id, or ""
// when disabled. For invocations the first frame is RemoteInvocation.start.
//
// Called from RemoteInvocation.start.
func (t *InvocationTracer) Begin(target, typ, method string) string {
	if !t.Enabled() {
		return ""
	}
	pcs := make([]uintptr, maxTraceDepth)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	stack := make([]string, 0, n)
	for {
		f, more := frames.Next()
		stack = append(stack, f.Function+" "+f.File+":"+strconv.Itoa(f.Line))
		if !more {
			break
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	id := strconv.FormatUint(t.seq, 10)
	t.traces[id] = InvocationTrace{
		ID:      id,
		Target:  target,
		Type:    typ,
		Method:  method,
		Started: t.now(),
		Stack:   stack,
	}
	return id
}

// End forgets the trace. Unknown or empty ids are ignored.
func (t *InvocationTracer) End(id string) {
	if !t.Enabled() || id == "" {
		return
	}
	t.mu.Lock()
	delete(t.traces, id)
	t.mu.Unlock()
}

// InFlight returns the traces of invocations that have not terminated, oldest first.
//
// Called from handlers.AdminServer (GET /v1/debug/invocations).
func (t *InvocationTracer) InFlight() []InvocationTrace {
	if !t.Enabled() {
		return []InvocationTrace{}
	}
	t.mu.Lock()
	out := make([]InvocationTrace, 0, len(t.traces))
	for _, tr := range t.traces {
		out = append(out, tr)
	}
	t.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Started.Equal(out[j].Started) {
			a, _ := strconv.ParseUint(out[i].ID, 10, 64)
			b, _ := strconv.ParseUint(out[j].ID, 10, 64)
			return a < b
		}
		return out[i].Started.Before(out[j].Started)
	})
	return out
}
