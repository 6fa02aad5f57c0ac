// Package security implements the transport security chains applied to every socket of an instance.
// A chain wraps the sockets built by a factory; None passes them through, Generated and Configured seal
// the payload frames of every message with NaCl box authenticated encryption.
package security

import (
	"crypto/rand"
	"fmt"
	"strings"

	"mycluster/interfaces"

	"github.com/go-zeromq/zmq4"
	"golang.org/x/crypto/nacl/box"
)

const (
	NameNone       = "none"
	NameGenerated  = "generated"
	NameConfigured = "configured"
)

// KeyPair is a Curve25519 key pair.
type KeyPair struct {
	Public *[32]byte
	Secret *[32]byte
}

// GenerateKeyPair creates a random key pair.
func GenerateKeyPair() (KeyPair, error) {
	pub, sec, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return KeyPair{}, fmt.Errorf("generate key pair: %w", err)
	}
	return KeyPair{Public: pub, Secret: sec}, nil
}

// none is the pass-through chain.
type none struct{}

// None returns the chain that applies no transport security.
func None() interfaces.SecurityChain {
	return none{}
}

func (none) Name() string { return NameNone }

func (none) Server(factory interfaces.SocketFactory) zmq4.Socket { return factory() }

func (none) Client(factory interfaces.SocketFactory) zmq4.Socket { return factory() }

// sealingChain seals frames with a key shared between the server and the client side. Both sides derive
// the same precomputed key: the server from (client public, server secret), the client from
// (server public, client secret).
type sealingChain struct {
	name      string
	serverKey [32]byte
	clientKey [32]byte
}

func newSealingChain(name string, server, client KeyPair) *sealingChain {
	c := &sealingChain{name: name}
	box.Precompute(&c.serverKey, client.Public, server.Secret)
	box.Precompute(&c.clientKey, server.Public, client.Secret)
	return c
}

func (c *sealingChain) Name() string { return c.name }

func (c *sealingChain) Server(factory interfaces.SocketFactory) zmq4.Socket {
	return &sealedSocket{Socket: factory(), key: &c.serverKey}
}

func (c *sealingChain) Client(factory interfaces.SocketFactory) zmq4.Socket {
	return &sealedSocket{Socket: factory(), key: &c.clientKey}
}

// Generated returns a chain with key pairs generated in-process. Every socket created through the same
// chain value can talk to every other; sockets of different Generated chains cannot. Meant for
// single-process clusters and tests.
func Generated() (interfaces.SecurityChain, error) {
	server, err := GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	client, err := GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	return newSealingChain(NameGenerated, server, client), nil
}

// Configured returns a chain using key pairs loaded from a key-chain file (see LoadChainFile).
// Both sides derive the same box key, so the file is a pre-shared key: there is no per-peer key exchange
// and whoever holds the file can act as either side.
func Configured(server, client KeyPair) (interfaces.SecurityChain, error) {
	if server.Public == nil || server.Secret == nil || client.Public == nil || client.Secret == nil {
		return nil, fmt.Errorf("configured security chain: all four keys are required")
	}
	return newSealingChain(NameConfigured, server, client), nil
}

// FromName builds the chain selected by configuration. path is only read for the configured chain.
//
// Returns: (chain, nil); (nil, error) on an unknown name or an unreadable key-chain file.
//
// Called from cmd/instanced at startup.
func FromName(name string, path string) (interfaces.SecurityChain, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameNone:
		return None(), nil
	case NameGenerated:
		return Generated()
	case NameConfigured:
		server, client, err := LoadChainFile(path)
		if err != nil {
			return nil, err
		}
		return Configured(server, client)
	default:
		return nil, fmt.Errorf("unknown security chain %q (want none, generated or configured)", name)
	}
}
