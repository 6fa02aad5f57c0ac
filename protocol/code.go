package protocol

import (
	"encoding/binary"
	"strconv"

	"mycluster/domain"

	"github.com/go-zeromq/zmq4"
)

// ResponseCode is the status frame leading every reply.
type ResponseCode int32

const (
	CodeOK ResponseCode = iota
	CodeNoSuchNodeRoute
	CodeNoSuchInstance
	CodeProtocolError
	CodeSocketError
	CodeUnknownError
	responseCodeCount
)

var responseCodeNames = [...]string{
	CodeOK:              "OK",
	CodeNoSuchNodeRoute: "NO_SUCH_NODE_ROUTE",
	CodeNoSuchInstance:  "NO_SUCH_INSTANCE",
	CodeProtocolError:   "PROTOCOL_ERROR",
	CodeSocketError:     "SOCKET_ERROR",
	CodeUnknownError:    "UNKNOWN_ERROR",
}

func (c ResponseCode) String() string {
	if c < 0 || c >= responseCodeCount {
		return "CODE(" + strconv.Itoa(int(c)) + ")"
	}
	return responseCodeNames[c]
}

// PushCode prepends the code frame to msg.
func PushCode(msg *zmq4.Msg, code ResponseCode) {
	msg.Frames = append([][]byte{encodeOrdinal(int32(code))}, msg.Frames...)
}

// StripCode removes the leading status code frame. Codes that cannot be interpreted (wrong length, out of
// range) normalize to CodeUnknownError.
//
// Returns: (code, nil); (CodeUnknownError, protocol_error) only when the frame is absent.
func StripCode(msg *zmq4.Msg) (ResponseCode, error) {
	frame, err := PopFrame(msg, "response code")
	if err != nil {
		return CodeUnknownError, err
	}
	if len(frame) != ordinalLength {
		return CodeUnknownError, nil
	}
	code := ResponseCode(int32(binary.BigEndian.Uint32(frame)))
	if code < 0 || code >= responseCodeCount {
		return CodeUnknownError, nil
	}
	return code, nil
}

// ErrorForCode converts a non-OK code and its trailing frames into a typed error.
// NO_SUCH_NODE_ROUTE carries a NodeID frame and NO_SUCH_INSTANCE an InstanceID frame; the other codes
// carry an optional message frame.
//
// Returns: nil for CodeOK; otherwise the *domain.ClusterError for the code. A missing or malformed id frame
// yields protocol_error.
//
// Called from service reply parsers (control clients, RemoteInvocation).
func ErrorForCode(code ResponseCode, msg *zmq4.Msg) error {
	switch code {
	case CodeOK:
		return nil
	case CodeNoSuchNodeRoute:
		node, err := PopNodeID(msg)
		if err != nil {
			return err
		}
		return domain.NewNotRoutableError(node)
	case CodeNoSuchInstance:
		instance, err := PopInstanceID(msg)
		if err != nil {
			return err
		}
		return domain.NewInstanceUnreachableError(instance)
	case CodeProtocolError:
		return domain.NewProtocolError(optionalMessage(msg, "peer reported protocol error"), nil)
	case CodeSocketError:
		return domain.NewTransportError(optionalMessage(msg, "peer reported socket error"), nil)
	default:
		ce := domain.NewUnknownError(optionalMessage(msg, "peer reported unknown error"), nil)
		if len(msg.Frames) > 0 && len(msg.Frames[0]) == domain.NodeIDLength {
			if node, err := domain.NodeIDFromBytes(msg.Frames[0]); err == nil {
				msg.Frames = msg.Frames[1:]
				ce.Code = domain.CodeAlreadyBound
				ce.NodeID = node
			}
		}
		return ce
	}
}

// PushError prepends the code and trailing frames describing err; the inverse of ErrorForCode.
// already_bound travels as UNKNOWN_ERROR with a message and the node frame.
//
// Called from service.InstanceServer and service.NodeServer when a request fails.
func PushError(msg *zmq4.Msg, err error) {
	ce := domain.ToClusterError(err)
	if ce == nil {
		ce = domain.NewUnknownError(err.Error(), nil)
	}
	switch ce.Code {
	case domain.CodeNotRoutable:
		msg.Frames = append([][]byte{ce.NodeID.Bytes()}, msg.Frames...)
		PushCode(msg, CodeNoSuchNodeRoute)
	case domain.CodeInstanceUnreachable:
		msg.Frames = append([][]byte{ce.InstanceID.Bytes()}, msg.Frames...)
		PushCode(msg, CodeNoSuchInstance)
	case domain.CodeProtocol:
		msg.Frames = append([][]byte{[]byte(ce.Message)}, msg.Frames...)
		PushCode(msg, CodeProtocolError)
	case domain.CodeTransport:
		msg.Frames = append([][]byte{[]byte(ce.Message)}, msg.Frames...)
		PushCode(msg, CodeSocketError)
	case domain.CodeAlreadyBound:
		msg.Frames = append([][]byte{[]byte(ce.Message), ce.NodeID.Bytes()}, msg.Frames...)
		PushCode(msg, CodeUnknownError)
	default:
		msg.Frames = append([][]byte{[]byte(ce.Message)}, msg.Frames...)
		PushCode(msg, CodeUnknownError)
	}
}

func optionalMessage(msg *zmq4.Msg, fallback string) string {
	if len(msg.Frames) == 0 || len(msg.Frames[0]) == 0 {
		return fallback
	}
	m := string(msg.Frames[0])
	msg.Frames = msg.Frames[1:]
	return m
}
