package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// InstanceIDLength is the size of an InstanceID frame on the wire.
const InstanceIDLength = 16

// NodeIDLength is the size of a NodeID frame on the wire: owning instance, application id, master flag.
const NodeIDLength = 2*InstanceIDLength + 1

// masterToken replaces the application part of a master node's string form.
const masterToken = "master"

// InstanceID identifies one running process of the fleet. It is created once at process start
// (NewInstanceID), never mutated and compared by value.
type InstanceID uuid.UUID

// NewInstanceID returns a random InstanceID.
//
// Called from cmd/instanced at startup and from tests.
func NewInstanceID() InstanceID {
	return InstanceID(uuid.New())
}

// ParseInstanceID parses the canonical UUID text form produced by InstanceID.String.
//
// Returns: (id, nil) on success; (zero, error) when s is not a UUID.
func ParseInstanceID(s string) (InstanceID, error) {
	u, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return InstanceID{}, fmt.Errorf("invalid instance id %q: %w", s, err)
	}
	return InstanceID(u), nil
}

// InstanceIDFromBytes decodes an InstanceID frame. The frame must be exactly InstanceIDLength bytes.
//
// Called from protocol.PopInstanceID and NodeIDFromBytes.
func InstanceIDFromBytes(b []byte) (InstanceID, error) {
	if len(b) != InstanceIDLength {
		return InstanceID{}, fmt.Errorf("instance id must be %d bytes, got %d", InstanceIDLength, len(b))
	}
	var id InstanceID
	copy(id[:], b)
	return id, nil
}

// Bytes returns a fresh copy of the wire form.
func (id InstanceID) Bytes() []byte {
	out := make([]byte, InstanceIDLength)
	copy(out, id[:])
	return out
}

func (id InstanceID) String() string {
	return uuid.UUID(id).String()
}

// IsZero reports whether id is the zero value (no instance).
func (id InstanceID) IsZero() bool {
	return id == InstanceID{}
}

// MarshalText implements encoding.TextMarshaler so ids render as strings in JSON.
func (id InstanceID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *InstanceID) UnmarshalText(text []byte) error {
	parsed, err := ParseInstanceID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// NodeID identifies a logical compute unit. It embeds the owning instance and a master flag;
// several nodes may share an instance. The master/worker distinction is plain data.
// NodeID is comparable and is used directly as a map key by the routing table and binding registry.
type NodeID struct {
	Instance    InstanceID
	Application uuid.UUID
	Master      bool
}

// NewNodeID returns the worker (application) node id for application hosted by instance.
func NewNodeID(instance InstanceID, application uuid.UUID) NodeID {
	return NodeID{Instance: instance, Application: application}
}

// MasterNodeID returns the master node id of instance. Master nodes carry uuid.Nil as application.
func MasterNodeID(instance InstanceID) NodeID {
	return NodeID{Instance: instance, Master: true}
}

// NodeIDFromBytes decodes a NodeID frame (NodeIDLength bytes). The trailing flag byte must be 0 or 1.
//
// Called from protocol.PopNodeID.
func NodeIDFromBytes(b []byte) (NodeID, error) {
	if len(b) != NodeIDLength {
		return NodeID{}, fmt.Errorf("node id must be %d bytes, got %d", NodeIDLength, len(b))
	}
	instance, err := InstanceIDFromBytes(b[:InstanceIDLength])
	if err != nil {
		return NodeID{}, err
	}
	var app uuid.UUID
	copy(app[:], b[InstanceIDLength:2*InstanceIDLength])
	switch b[NodeIDLength-1] {
	case 0:
		return NodeID{Instance: instance, Application: app}, nil
	case 1:
		return NodeID{Instance: instance, Application: app, Master: true}, nil
	default:
		return NodeID{}, fmt.Errorf("node id master flag must be 0 or 1, got %d", b[NodeIDLength-1])
	}
}

// ParseNodeID parses the "<instance>/<application>" or "<instance>/master" form produced by NodeID.String.
func ParseNodeID(s string) (NodeID, error) {
	instancePart, appPart, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return NodeID{}, fmt.Errorf("invalid node id %q: expected <instance>/<application>", s)
	}
	instance, err := ParseInstanceID(instancePart)
	if err != nil {
		return NodeID{}, err
	}
	if appPart == masterToken {
		return MasterNodeID(instance), nil
	}
	app, err := uuid.Parse(appPart)
	if err != nil {
		return NodeID{}, fmt.Errorf("invalid node id %q: %w", s, err)
	}
	return NewNodeID(instance, app), nil
}

// Bytes returns the NodeIDLength-byte wire form.
func (n NodeID) Bytes() []byte {
	out := make([]byte, NodeIDLength)
	copy(out, n.Instance[:])
	copy(out[InstanceIDLength:], n.Application[:])
	if n.Master {
		out[NodeIDLength-1] = 1
	}
	return out
}

func (n NodeID) String() string {
	if n.Master {
		return n.Instance.String() + "/" + masterToken
	}
	return n.Instance.String() + "/" + n.Application.String()
}

// IsZero reports whether n is the zero value.
func (n NodeID) IsZero() bool {
	return n == NodeID{}
}

// MarshalText implements encoding.TextMarshaler.
func (n NodeID) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *NodeID) UnmarshalText(text []byte) error {
	parsed, err := ParseNodeID(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
