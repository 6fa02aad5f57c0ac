package service

import (
	"sync/atomic"

	"mycluster/domain"
	"mycluster/interfaces"
	"mycluster/protocol"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/go-zeromq/zmq4"
)

// InvocationState is the lifecycle state of one RemoteInvocation.
type InvocationState int32

const (
	StateActive InvocationState = iota
	StateFinishPending
	StateCancellationPending
	StateFinished
	StateCanceled
)

var invocationStateNames = [...]string{
	StateActive:              "ACTIVE",
	StateFinishPending:       "FINISH_PENDING",
	StateCancellationPending: "CANCELLATION_PENDING",
	StateFinished:            "FINISHED",
	StateCanceled:            "CANCELED",
}

func (s InvocationState) String() string {
	if s < 0 || int(s) >= len(invocationStateNames) {
		return "UNKNOWN"
	}
	return invocationStateNames[s]
}

// ResultConsumer receives exactly one of OnResult or OnError. Either func may be nil.
type ResultConsumer struct {
	OnResult func(domain.InvocationResult)
	OnError  func(error)
}

type consumerSlot struct {
	consumer  ResultConsumer
	delivered atomic.Bool
}

func (s *consumerSlot) deliverResult(res domain.InvocationResult) bool {
	if !s.delivered.CompareAndSwap(false, true) {
		return false
	}
	if s.consumer.OnResult != nil {
		s.consumer.OnResult(res)
	}
	return true
}

func (s *consumerSlot) deliverError(err error) bool {
	if !s.delivered.CompareAndSwap(false, true) {
		return false
	}
	if s.consumer.OnError != nil {
		s.consumer.OnError(err)
	}
	return true
}

type attachment struct {
	conn interfaces.Connection
	sub  interfaces.Subscription
}

type replyPart struct {
	result domain.InvocationResult
	err    error
}

// RemoteInvocation drives one call over one leased connection: it writes the request on OnWrite, collects
// part 0 and the async parts on OnRead and terminates exactly once. The terminating side (reply
// completion, failure or cancellation) is chosen by a compare-and-swap on pending; consumers are each
// delivered to exactly once through their slot flag, so a loser never double-delivers.
//
// Success recycles the connection. Errors, cancellation and protocol violations close it.
//
// Connection events all arrive on the pool's reactor goroutine, so the read-side fields (syncDone,
// nextPart, remaining, buffered) need no locking. Cancel may run on any goroutine.
type RemoteInvocation struct {
	invocation domain.Invocation
	codec      interfaces.PayloadCodec
	tracer     *InvocationTracer
	logger     log.Logger
	target     string

	sync  *consumerSlot
	async []*consumerSlot

	state    atomic.Int32
	pending  atomic.Bool
	attached atomic.Pointer[attachment]
	traceID  string
	done     chan struct{}

	syncDone  bool
	nextPart  uint32
	remaining int
	buffered  map[uint32]replyPart
}

func newRemoteInvocation(
	inv domain.Invocation,
	codec interfaces.PayloadCodec,
	tracer *InvocationTracer,
	logger log.Logger,
	target string,
	sync ResultConsumer,
	async []ResultConsumer,
) *RemoteInvocation {
	r := &RemoteInvocation{
		invocation: inv,
		codec:      codec,
		tracer:     tracer,
		logger:     logger,
		target:     target,
		sync:       &consumerSlot{consumer: sync},
		async:      make([]*consumerSlot, len(async)),
		done:       make(chan struct{}),
		nextPart:   1,
		remaining:  len(async),
		buffered:   make(map[uint32]replyPart),
	}
	for i, c := range async {
		r.async[i] = &consumerSlot{consumer: c}
	}
	return r
}

// State returns the current lifecycle state.
func (r *RemoteInvocation) State() InvocationState {
	return InvocationState(r.state.Load())
}

// Done is closed when the invocation reaches FINISHED or CANCELED.
func (r *RemoteInvocation) Done() <-chan struct{} {
	return r.done
}

// start acquires a connection from pool and subscribes to it.
//
// Called from RemoteInvoker.Invoke.
func (r *RemoteInvocation) start(pool interfaces.ConnectionPool) {
	r.traceID = r.tracer.Begin(r.target, r.invocation.Type, r.invocation.Method)
	pool.AcquireNextAvailableConnection(r.onAcquired)
}

func (r *RemoteInvocation) onAcquired(conn interfaces.Connection, err error) {
	if err != nil {
		r.fail(err)
		return
	}
	if r.pending.Load() {
		// Canceled before the connection arrived; nothing was written.
		conn.Recycle()
		return
	}
	sub, err := conn.Subscribe(r)
	if err != nil {
		conn.Close()
		r.fail(domain.NewTransportError("subscribe to connection", err))
		return
	}
	a := &attachment{conn: conn, sub: sub}
	r.attached.Store(a)
	if r.pending.Load() && r.attached.CompareAndSwap(a, nil) {
		// Cancel won between the check above and Store and found nothing to detach.
		sub.Release()
		conn.Recycle()
	}
}

// OnWrite sends [empty][RequestHeader][payload].
func (r *RemoteInvocation) OnWrite(conn interfaces.Connection) {
	if r.pending.Load() {
		return
	}
	payload, err := r.codec.EncodeInvocation(r.invocation)
	if err != nil {
		r.fail(err)
		return
	}
	header := protocol.RequestHeader{AsyncParts: uint32(len(r.async))}
	msg := protocol.NewMessage(header.Encode(), payload)
	protocol.PushIdentity(&msg, nil)
	if err := conn.Send(msg); err != nil {
		r.fail(err)
	}
}

// OnRead handles one reply part: [empty][code][ResponseHeader][payload].
func (r *RemoteInvocation) OnRead(_ interfaces.Connection, msg zmq4.Msg) {
	if r.pending.Load() {
		return
	}
	part, header, err := r.decodePart(msg)
	if err != nil {
		r.fail(err)
		return
	}
	if header.Part == 0 {
		if r.syncDone {
			r.fail(domain.NewProtocolError("duplicate synchronous reply part", nil))
			return
		}
		r.syncDone = true
		r.deliver(r.sync, part)
	} else {
		if int(header.Part) > len(r.async) {
			r.fail(domain.NewProtocolError("reply part beyond requested async parts", nil))
			return
		}
		if _, dup := r.buffered[header.Part]; dup || header.Part < r.nextPart {
			r.fail(domain.NewProtocolError("duplicate asynchronous reply part", nil))
			return
		}
		r.buffered[header.Part] = part
		for {
			next, ok := r.buffered[r.nextPart]
			if !ok {
				break
			}
			delete(r.buffered, r.nextPart)
			r.deliver(r.async[r.nextPart-1], next)
			r.nextPart++
			r.remaining--
		}
	}
	if r.syncDone && r.remaining == 0 {
		r.finish()
	}
}

func (r *RemoteInvocation) decodePart(msg zmq4.Msg) (replyPart, protocol.ResponseHeader, error) {
	if len(msg.Frames) == 0 {
		return replyPart{}, protocol.ResponseHeader{}, domain.NewProtocolError("empty reply", nil)
	}
	if _, err := protocol.StripIdentity(&msg); err != nil {
		return replyPart{}, protocol.ResponseHeader{}, err
	}
	code, err := protocol.StripCode(&msg)
	if err != nil {
		return replyPart{}, protocol.ResponseHeader{}, err
	}
	if code != protocol.CodeOK {
		return replyPart{}, protocol.ResponseHeader{}, protocol.ErrorForCode(code, &msg)
	}
	rawHeader, err := protocol.PopFrame(&msg, "response header")
	if err != nil {
		return replyPart{}, protocol.ResponseHeader{}, err
	}
	header, err := protocol.DecodeResponseHeader(rawHeader)
	if err != nil {
		return replyPart{}, protocol.ResponseHeader{}, err
	}
	payload, err := protocol.PopFrame(&msg, "reply payload")
	if err != nil {
		return replyPart{}, protocol.ResponseHeader{}, err
	}
	if header.Kind == protocol.ReplyError {
		envelope, err := r.codec.DecodeError(payload)
		if err != nil {
			return replyPart{}, protocol.ResponseHeader{}, err
		}
		return replyPart{err: envelope.Err()}, header, nil
	}
	result, err := r.codec.DecodeResult(payload)
	if err != nil {
		return replyPart{}, protocol.ResponseHeader{}, err
	}
	return replyPart{result: result}, header, nil
}

func (r *RemoteInvocation) deliver(slot *consumerSlot, part replyPart) {
	if part.err != nil {
		slot.deliverError(part.err)
		return
	}
	slot.deliverResult(part.result)
}

// OnError is a socket failure: the invocation completes as canceled with a transport error.
func (r *RemoteInvocation) OnError(_ interfaces.Connection, err error) {
	r.abort(domain.NewTransportError("connection failed during invocation", err))
}

// OnClose means someone else closed the connection under the invocation.
func (r *RemoteInvocation) OnClose(_ interfaces.Connection) {
	r.abort(domain.NewTransportError("connection closed during invocation", ErrConnectionClosed))
}

// OnRecycle means the connection went back to the pool while the invocation was still reading.
func (r *RemoteInvocation) OnRecycle(_ interfaces.Connection) {
	r.abort(domain.NewTransportError("connection recycled during invocation", nil))
}

// Cancel completes the invocation with a canceled error for every consumer that has not been delivered
// yet and closes the connection. It is a no-op once the invocation terminated or is terminating.
//
// Returns: true if this call won the race and canceled the invocation.
func (r *RemoteInvocation) Cancel() bool {
	return r.terminate(StateCancellationPending, StateCanceled, domain.NewCanceledError("invocation canceled"), false)
}

// finish is the normal completion: every consumer was delivered, the connection is protocol-clean.
func (r *RemoteInvocation) finish() {
	r.terminate(StateFinishPending, StateFinished, nil, true)
}

// fail delivers err to every undelivered consumer and closes the connection.
func (r *RemoteInvocation) fail(err error) {
	if r.terminate(StateFinishPending, StateFinished, err, false) {
		level.Warn(r.logger).Log("msg", "invocation failed", "target", r.target, "type", r.invocation.Type, "method", r.invocation.Method, "err", err)
	}
}

func (r *RemoteInvocation) abort(err error) {
	if r.terminate(StateCancellationPending, StateCanceled, err, false) {
		level.Warn(r.logger).Log("msg", "invocation aborted", "target", r.target, "type", r.invocation.Type, "method", r.invocation.Method, "err", err)
	}
}

// terminate performs the single transition out of ACTIVE. recycle selects Recycle over Close for the
// detached connection.
func (r *RemoteInvocation) terminate(pendingState, finalState InvocationState, err error, recycle bool) bool {
	if !r.pending.CompareAndSwap(false, true) {
		return false
	}
	r.state.Store(int32(pendingState))

	if a := r.attached.Swap(nil); a != nil {
		a.sub.Release()
		if recycle {
			a.conn.Recycle()
		} else {
			a.conn.Close()
		}
	}
	if err != nil {
		r.sync.deliverError(err)
		for _, slot := range r.async {
			slot.deliverError(err)
		}
	}

	r.tracer.End(r.traceID)
	r.state.Store(int32(finalState))
	close(r.done)
	return true
}
