// Package protocol is the wire codec of the cluster control and invocation protocol. All functions are
// pure transformations of a zmq4.Msg frame list: no I/O, no blocking.
//
// Control request: [identity frames...][empty][command][args...]
// Control reply:   [empty][response code][reply args...]
// Invocation request: [empty][RequestHeader][payload]
// Invocation reply:   [empty][response code][ResponseHeader][payload]
package protocol

import (
	"encoding/binary"
	"strconv"

	"mycluster/domain"

	"github.com/go-zeromq/zmq4"
)

// ordinalLength is the size of command and response code frames (big-endian int32).
const ordinalLength = 4

// Command is a control command ordinal.
type Command int32

const (
	CommandForward Command = iota
	CommandGetRoutingStatus
	CommandGetInstanceStatus
	CommandOpenRouteToNode
	CommandCloseRoutesViaInstance
	CommandOpenBindingForNode
	CommandCloseBindingForNode
	CommandHealthCheck
	commandCount
)

var commandNames = [...]string{
	CommandForward:                "FORWARD",
	CommandGetRoutingStatus:       "GET_ROUTING_STATUS",
	CommandGetInstanceStatus:      "GET_INSTANCE_STATUS",
	CommandOpenRouteToNode:        "OPEN_ROUTE_TO_NODE",
	CommandCloseRoutesViaInstance: "CLOSE_ROUTES_VIA_INSTANCE",
	CommandOpenBindingForNode:     "OPEN_BINDING_FOR_NODE",
	CommandCloseBindingForNode:    "CLOSE_BINDING_FOR_NODE",
	CommandHealthCheck:            "HEALTH_CHECK",
}

// Commands returns every defined command in ordinal order.
func Commands() []Command {
	out := make([]Command, 0, commandCount)
	for c := Command(0); c < commandCount; c++ {
		out = append(out, c)
	}
	return out
}

// Valid reports whether c is a defined ordinal.
func (c Command) Valid() bool {
	return c >= 0 && c < commandCount
}

func (c Command) String() string {
	if !c.Valid() {
		return "COMMAND(" + strconv.Itoa(int(c)) + ")"
	}
	return commandNames[c]
}

// EncodeCommand returns the 4-byte big-endian frame for c.
func EncodeCommand(c Command) []byte {
	return encodeOrdinal(int32(c))
}

// PushCommand prepends the command frame to msg.
//
// Called from service request builders after the arguments are in place.
func PushCommand(msg *zmq4.Msg, c Command) {
	msg.Frames = append([][]byte{EncodeCommand(c)}, msg.Frames...)
}

// DecodeCommand removes the leading command frame of msg.
//
// Returns: (command, nil); (0, protocol_error) when the frame is missing, not exactly 4 bytes or out of range.
//
// Called from service.InstanceServer after StripIdentity.
func DecodeCommand(msg *zmq4.Msg) (Command, error) {
	frame, err := PopFrame(msg, "command")
	if err != nil {
		return 0, err
	}
	if len(frame) != ordinalLength {
		return 0, domain.NewProtocolError("command frame must be 4 bytes, got "+strconv.Itoa(len(frame)), nil)
	}
	c := Command(int32(binary.BigEndian.Uint32(frame)))
	if !c.Valid() {
		return 0, domain.NewProtocolError("unknown command ordinal "+strconv.Itoa(int(c)), nil)
	}
	return c, nil
}

func encodeOrdinal(v int32) []byte {
	out := make([]byte, ordinalLength)
	binary.BigEndian.PutUint32(out, uint32(v))
	return out
}
