package interfaces

import "mycluster/domain"

// ConnectionPool owns a bounded set of connections to one peer address and hands them out one at a time.
//
// AcquireNextAvailableConnection invokes callback (on the reactor goroutine) once a connection is leased,
// or with an error when the pool is closed or a new socket cannot be dialed. When all MaxConnections are
// leased the callback waits for a Recycle or Close.
//
// Implemented by service.connectionPool; used by service.RemoteInvoker and service.asyncControlClient.
//
//go:generate moq -stub -out mock/connection_pool.go -pkg mock . ConnectionPool
type ConnectionPool interface {
	// Address returns the peer endpoint.
	Address() string

	// AcquireNextAvailableConnection leases a connection to callback. Never blocks.
	AcquireNextAvailableConnection(callback func(conn Connection, err error))

	// Stats returns a snapshot of the pool's counters.
	Stats() domain.PoolStats

	// Close closes every connection and fails pending acquisitions with ErrPoolClosed; idempotent.
	Close() error
}
