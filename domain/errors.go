package domain

import (
	"errors"
	"fmt"
)

const (
	// CodeProtocol means a malformed frame count or shape; fatal to the connection.
	CodeProtocol = "protocol_error"
	// CodeTransport means a socket-level failure; fatal to the connection.
	CodeTransport = "transport_error"
	// CodeNotRoutable means no route or binding exists for a node; carries the NodeID.
	CodeNotRoutable = "not_routable"
	// CodeInstanceUnreachable means an instance could not be reached; carries the InstanceID.
	CodeInstanceUnreachable = "instance_unreachable"
	// CodeTimeout means a blocking receive exceeded its bound.
	CodeTimeout = "timeout"
	// CodeCanceled means the caller canceled the operation.
	CodeCanceled = "canceled"
	// CodeRemoteInvocation means the remote method ran and failed.
	CodeRemoteInvocation = "remote_invocation_error"
	// CodeUnknown means the peer reported an error it could not classify.
	CodeUnknown = "unknown_error"
	// CodeAlreadyBound means a binding for the node already exists.
	CodeAlreadyBound = "already_bound"
	// CodeBadParameter means the caller passed an invalid argument.
	CodeBadParameter = "bad_parameter"
)

// ClusterError is the error type of the cluster control and invocation layer.
// NodeID is set for not_routable / already_bound, InstanceID for instance_unreachable.
type ClusterError struct {
	// Code is a machine-readable code (one of the Code* constants).
	Code string `json:"code,omitempty"`
	// Message is a human-readable message.
	Message string `json:"message"`
	// NodeID is the node that could not be routed or bound.
	NodeID NodeID `json:"node_id,omitempty"`
	// InstanceID is the instance that could not be reached.
	InstanceID InstanceID `json:"instance_id,omitempty"`
	// Inner is a wrapped error that is never sent to peers.
	Inner error `json:"-"`
}

func (e *ClusterError) Error() string {
	if e.Inner != nil {
		return fmt.Sprintf("%s %s: %v", e.Code, e.Message, e.Inner)
	}
	return fmt.Sprintf("%s %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause.
func (e *ClusterError) Unwrap() error {
	return e.Inner
}

// Retryable reports whether a caller may retry against a different target (not_routable, instance_unreachable).
func (e *ClusterError) Retryable() bool {
	return e.Code == CodeNotRoutable || e.Code == CodeInstanceUnreachable
}

func newClusterError(code string, message string, inner error) *ClusterError {
	if ce := ToClusterError(inner); ce != nil && ce.Code == code {
		return ce
	}
	return &ClusterError{Code: code, Message: message, Inner: inner}
}

func NewProtocolError(message string, inner error) *ClusterError {
	return newClusterError(CodeProtocol, message, inner)
}

func NewTransportError(message string, inner error) *ClusterError {
	return newClusterError(CodeTransport, message, inner)
}

func NewTimeoutError(message string, inner error) *ClusterError {
	return newClusterError(CodeTimeout, message, inner)
}

func NewCanceledError(message string) *ClusterError {
	return &ClusterError{Code: CodeCanceled, Message: message}
}

func NewRemoteInvocationError(message string, inner error) *ClusterError {
	return newClusterError(CodeRemoteInvocation, message, inner)
}

func NewUnknownError(message string, inner error) *ClusterError {
	return newClusterError(CodeUnknown, message, inner)
}

func NewBadParameterError(message string, inner error) *ClusterError {
	return newClusterError(CodeBadParameter, message, inner)
}

// NewNotRoutableError reports that node has no route or binding.
func NewNotRoutableError(node NodeID) *ClusterError {
	return &ClusterError{Code: CodeNotRoutable, Message: "no route to node " + node.String(), NodeID: node}
}

// NewInstanceUnreachableError reports that instance cannot be reached.
func NewInstanceUnreachableError(instance InstanceID) *ClusterError {
	return &ClusterError{Code: CodeInstanceUnreachable, Message: "instance unreachable " + instance.String(), InstanceID: instance}
}

// NewAlreadyBoundError reports that node is already bound on an instance.
func NewAlreadyBoundError(node NodeID) *ClusterError {
	return &ClusterError{Code: CodeAlreadyBound, Message: "node already bound " + node.String(), NodeID: node}
}

// ToClusterError returns the *ClusterError in err's chain, or nil.
func ToClusterError(err error) *ClusterError {
	var e *ClusterError
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// ErrorCode returns the code of err, or "" when err is not a *ClusterError.
func ErrorCode(err error) string {
	if ce := ToClusterError(err); ce != nil {
		return ce.Code
	}
	return ""
}

func IsClusterError(err error, code string) bool {
	return ErrorCode(err) == code
}

func IsProtocolError(err error) bool { return IsClusterError(err, CodeProtocol) }

func IsTransportError(err error) bool { return IsClusterError(err, CodeTransport) }

func IsNotRoutableError(err error) bool { return IsClusterError(err, CodeNotRoutable) }

func IsInstanceUnreachableError(err error) bool { return IsClusterError(err, CodeInstanceUnreachable) }

func IsTimeoutError(err error) bool { return IsClusterError(err, CodeTimeout) }

func IsCanceledError(err error) bool { return IsClusterError(err, CodeCanceled) }

func IsRemoteInvocationError(err error) bool { return IsClusterError(err, CodeRemoteInvocation) }

func IsAlreadyBoundError(err error) bool { return IsClusterError(err, CodeAlreadyBound) }

// IsConnectionFatal reports whether err leaves a connection in an unknown state (protocol or transport
// failure). Such connections are closed, never recycled.
func IsConnectionFatal(err error) bool {
	return IsProtocolError(err) || IsTransportError(err)
}

// NotRoutableNode returns the node carried by a not_routable error.
func NotRoutableNode(err error) (NodeID, bool) {
	if ce := ToClusterError(err); ce != nil && ce.Code == CodeNotRoutable {
		return ce.NodeID, true
	}
	return NodeID{}, false
}

// UnreachableInstance returns the instance carried by an instance_unreachable error.
func UnreachableInstance(err error) (InstanceID, bool) {
	if ce := ToClusterError(err); ce != nil && ce.Code == CodeInstanceUnreachable {
		return ce.InstanceID, true
	}
	return InstanceID{}, false
}
