package interfaces

import "github.com/go-zeromq/zmq4"

// SocketFactory creates an unconnected socket. The security chain decides how the socket it returns is
// secured; the caller then Listen()s or Dial()s it.
type SocketFactory func() zmq4.Socket

// SecurityChain applies transport security uniformly to every socket of an instance. Server wraps
// listening (router) sockets, Client wraps connecting (dealer) sockets. Implementations are interchangeable
// at the call site; one is chosen at startup from configuration.
//
// Implemented by security.None, security.Generated and security.Configured. Used by service.ConnectionPool,
// the control clients, service.InstanceServer, service.NodeServer and the route forwarder.
type SecurityChain interface {
	// Name returns the chain kind for logging (none|generated|configured).
	Name() string

	// Server returns a secured socket built from factory for the accepting side.
	Server(factory SocketFactory) zmq4.Socket

	// Client returns a secured socket built from factory for the connecting side.
	Client(factory SocketFactory) zmq4.Socket
}
