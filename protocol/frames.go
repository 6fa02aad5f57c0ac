package protocol

import (
	"encoding/binary"
	"strconv"

	"mycluster/domain"

	"github.com/go-zeromq/zmq4"
)

// NewMessage builds a message from frames, copying the outer slice so later pushes never alias the caller's.
func NewMessage(frames ...[]byte) zmq4.Msg {
	out := make([][]byte, len(frames))
	copy(out, frames)
	return zmq4.NewMsgFrom(out...)
}

// StripIdentity removes every frame preceding the first empty delimiter frame, and the delimiter itself.
// Router sockets use the returned frames to address the reply.
//
// Returns: (identity frames in original order, nil); (nil, protocol_error) when msg has no delimiter.
func StripIdentity(msg *zmq4.Msg) ([][]byte, error) {
	for i, frame := range msg.Frames {
		if len(frame) == 0 {
			ids := make([][]byte, i)
			copy(ids, msg.Frames[:i])
			msg.Frames = msg.Frames[i+1:]
			return ids, nil
		}
	}
	return nil, domain.NewProtocolError("missing empty delimiter frame", nil)
}

// PushIdentity prepends the empty delimiter and then the identity frames, restoring
// [ids...][empty][body...]. PushIdentity(msg, nil) only adds the delimiter.
func PushIdentity(msg *zmq4.Msg, ids [][]byte) {
	frames := make([][]byte, 0, len(ids)+1+len(msg.Frames))
	frames = append(frames, ids...)
	frames = append(frames, []byte{})
	frames = append(frames, msg.Frames...)
	msg.Frames = frames
}

// PopFrame removes and returns the leading frame. what names the frame in the protocol error.
func PopFrame(msg *zmq4.Msg, what string) ([]byte, error) {
	if len(msg.Frames) == 0 {
		return nil, domain.NewProtocolError("missing "+what+" frame", nil)
	}
	frame := msg.Frames[0]
	msg.Frames = msg.Frames[1:]
	return frame, nil
}

// PopString removes the leading frame and returns it as a string.
func PopString(msg *zmq4.Msg, what string) (string, error) {
	frame, err := PopFrame(msg, what)
	if err != nil {
		return "", err
	}
	return string(frame), nil
}

// PopNodeID removes and decodes a NodeID frame.
func PopNodeID(msg *zmq4.Msg) (domain.NodeID, error) {
	frame, err := PopFrame(msg, "node id")
	if err != nil {
		return domain.NodeID{}, err
	}
	node, err := domain.NodeIDFromBytes(frame)
	if err != nil {
		return domain.NodeID{}, domain.NewProtocolError("bad node id frame", err)
	}
	return node, nil
}

// PopInstanceID removes and decodes an InstanceID frame.
func PopInstanceID(msg *zmq4.Msg) (domain.InstanceID, error) {
	frame, err := PopFrame(msg, "instance id")
	if err != nil {
		return domain.InstanceID{}, err
	}
	id, err := domain.InstanceIDFromBytes(frame)
	if err != nil {
		return domain.InstanceID{}, domain.NewProtocolError("bad instance id frame", err)
	}
	return id, nil
}

// ReplyKind tells whether an invocation reply part carries a result or an error.
type ReplyKind byte

const (
	ReplyResult ReplyKind = 0
	ReplyError  ReplyKind = 1
)

const (
	requestHeaderLength  = 4
	responseHeaderLength = 5
)

// RequestHeader precedes an invocation payload. AsyncParts is the number of asynchronous reply parts the
// caller expects in addition to part 0.
type RequestHeader struct {
	AsyncParts uint32
}

// Encode returns the 4-byte big-endian frame.
func (h RequestHeader) Encode() []byte {
	out := make([]byte, requestHeaderLength)
	binary.BigEndian.PutUint32(out, h.AsyncParts)
	return out
}

// DecodeRequestHeader parses a RequestHeader frame.
func DecodeRequestHeader(frame []byte) (RequestHeader, error) {
	if len(frame) != requestHeaderLength {
		return RequestHeader{}, domain.NewProtocolError("request header must be 4 bytes, got "+strconv.Itoa(len(frame)), nil)
	}
	return RequestHeader{AsyncParts: binary.BigEndian.Uint32(frame)}, nil
}

// ResponseHeader precedes every invocation reply part. Part 0 is the synchronous part; 1..N are async.
type ResponseHeader struct {
	Kind ReplyKind
	Part uint32
}

// Encode returns the 5-byte frame: kind byte then big-endian part number.
func (h ResponseHeader) Encode() []byte {
	out := make([]byte, responseHeaderLength)
	out[0] = byte(h.Kind)
	binary.BigEndian.PutUint32(out[1:], h.Part)
	return out
}

// DecodeResponseHeader parses a ResponseHeader frame; kinds other than result/error are protocol errors.
func DecodeResponseHeader(frame []byte) (ResponseHeader, error) {
	if len(frame) != responseHeaderLength {
		return ResponseHeader{}, domain.NewProtocolError("response header must be 5 bytes, got "+strconv.Itoa(len(frame)), nil)
	}
	kind := ReplyKind(frame[0])
	if kind != ReplyResult && kind != ReplyError {
		return ResponseHeader{}, domain.NewProtocolError("unknown reply kind "+strconv.Itoa(int(kind)), nil)
	}
	return ResponseHeader{Kind: kind, Part: binary.BigEndian.Uint32(frame[1:])}, nil
}
