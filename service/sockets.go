package service

import (
	"context"
	"errors"
	"strings"

	"mycluster/domain"
	"mycluster/interfaces"
	"mycluster/security"

	"github.com/go-zeromq/zmq4"
	"github.com/google/uuid"
)

// dialFunc opens one connected client socket to a fixed peer.
type dialFunc func() (zmq4.Socket, error)

// newDealer returns a secured dealer socket with a random identity. The identity must be unique per peer:
// router sockets address replies by it.
func newDealer(ctx context.Context, chain interfaces.SecurityChain) zmq4.Socket {
	return chain.Client(func() zmq4.Socket {
		return zmq4.NewDealer(ctx, zmq4.WithID(zmq4.SocketIdentity(uuid.NewString())))
	})
}

// newRouter returns a secured router socket.
func newRouter(ctx context.Context, chain interfaces.SecurityChain) zmq4.Socket {
	return chain.Server(func() zmq4.Socket {
		return zmq4.NewRouter(ctx)
	})
}

// dealerDialer returns a dialFunc that connects a fresh dealer to address.
func dealerDialer(ctx context.Context, chain interfaces.SecurityChain, address string) dialFunc {
	return func() (zmq4.Socket, error) {
		sock := newDealer(ctx, chain)
		if err := sock.Dial(address); err != nil {
			_ = sock.Close()
			return nil, domain.NewTransportError("dial "+address, err)
		}
		return sock, nil
	}
}

// listenRouter binds a fresh router to endpoint and returns it with its resolved endpoint: a ":0" port is
// replaced with the port the OS picked.
func listenRouter(ctx context.Context, chain interfaces.SecurityChain, endpoint string) (zmq4.Socket, string, error) {
	sock := newRouter(ctx, chain)
	if err := sock.Listen(endpoint); err != nil {
		_ = sock.Close()
		return nil, "", domain.NewTransportError("listen "+endpoint, err)
	}
	return sock, resolvedEndpoint(endpoint, sock), nil
}

func resolvedEndpoint(endpoint string, sock zmq4.Socket) string {
	addr := sock.Addr()
	if addr == nil {
		return endpoint
	}
	scheme := "tcp"
	if i := strings.Index(endpoint, "://"); i > 0 {
		scheme = endpoint[:i]
	}
	return scheme + "://" + addr.String()
}

// ephemeralEndpoint is the endpoint used for listeners whose port does not matter (node bindings and
// route forwarders).
func ephemeralEndpoint(host string) string {
	if host == "" {
		host = "127.0.0.1"
	}
	return "tcp://" + host + ":0"
}

// messageDropped reports whether a receive error concerns a single message only. The socket keeps working
// and the caller must go on receiving.
func messageDropped(err error) bool {
	return errors.Is(err, security.ErrOpenFailed)
}
