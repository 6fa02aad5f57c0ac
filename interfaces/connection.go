package interfaces

import "github.com/go-zeromq/zmq4"

// Connection is one pooled socket to the pool's peer, leased to exactly one in-flight call at a time.
//
// Subscribe registers the handler that receives readiness events; the returned Subscription is released
// exactly once. Recycle returns a protocol-clean connection to the pool; Close discards it permanently.
// A connection that reported an error is closed even when Recycle is called.
//
//go:generate moq -stub -out mock/connection.go -pkg mock . Connection
type Connection interface {
	// ID returns the pool-unique connection id (used in logs and tests).
	ID() string

	// Subscribe registers h and schedules h.OnWrite. Returns an error when the connection is closed or already subscribed.
	Subscribe(h ConnectionHandler) (Subscription, error)

	// Send writes msg to the socket. Returns transport_error on socket failure.
	Send(msg zmq4.Msg) error

	// Recycle returns the connection to the pool. No-op when it is not leased.
	Recycle()

	// Close closes the socket and forgets the connection. Idempotent.
	Close()
}

// ConnectionHandler receives readiness events of a subscribed connection. Exactly one hook fires per event
// and all hooks run on the pool's reactor goroutine, so they must not block.
//
//go:generate moq -stub -out mock/connection_handler.go -pkg mock . ConnectionHandler
type ConnectionHandler interface {
	// OnWrite fires once after Subscribe: the connection is ready for the request.
	OnWrite(conn Connection)

	// OnRead fires for every message received while subscribed.
	OnRead(conn Connection, msg zmq4.Msg)

	// OnError fires when the socket failed; the connection will not be reused.
	OnError(conn Connection, err error)

	// OnClose fires when the connection was closed by someone other than the subscriber.
	OnClose(conn Connection)

	// OnRecycle fires when the connection was recycled while the handler was still subscribed.
	OnRecycle(conn Connection)
}

// Subscription unregisters a ConnectionHandler. Release is idempotent.
type Subscription interface {
	Release()
}
