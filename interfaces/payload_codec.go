package interfaces

import "mycluster/domain"

// PayloadCodec serializes the opaque payload frames of invocation requests and replies.
//
// Implemented by service.ProtobufCodec.
//
//go:generate moq -stub -out mock/payload_codec.go -pkg mock . PayloadCodec
type PayloadCodec interface {
	EncodeInvocation(inv domain.Invocation) ([]byte, error)
	DecodeInvocation(b []byte) (domain.Invocation, error)
	EncodeResult(res domain.InvocationResult) ([]byte, error)
	DecodeResult(b []byte) (domain.InvocationResult, error)
	EncodeError(e domain.InvocationError) ([]byte, error)
	DecodeError(b []byte) (domain.InvocationError, error)
}
