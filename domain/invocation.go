package domain

// DispatchType tells the remote side how Invocation.Args are laid out.
type DispatchType string

const (
	// DispatchPositional passes Args as an ordered argument list.
	DispatchPositional DispatchType = "positional"
	// DispatchNamed passes a single map[string]any argument holding named parameters.
	DispatchNamed DispatchType = "named"
)

// Invocation describes one remote call independently of the transport.
// Type and Method select the target; Name is the logical (diagnostic) name of the call.
type Invocation struct {
	Type     string       `json:"type"`
	Method   string       `json:"method"`
	Dispatch DispatchType `json:"dispatch"`
	Args     []any        `json:"args"`
	Name     string       `json:"name"`
}

// Key returns the dispatch-table key for this invocation. For named dispatch the arity is the number of
// named parameters in the single map argument.
//
// Called from service.NodeServer when resolving the method to run.
func (i Invocation) Key() MethodKey {
	arity := len(i.Args)
	if i.Dispatch == DispatchNamed && len(i.Args) == 1 {
		if named, ok := i.Args[0].(map[string]any); ok {
			arity = len(named)
		}
	}
	return MethodKey{Type: i.Type, Method: i.Method, Arity: arity}
}

// Validate checks the fields required to route the call: Type, Method and a known Dispatch.
func (i Invocation) Validate() error {
	if i.Type == "" {
		return NewBadParameterError("invocation type is required", nil)
	}
	if i.Method == "" {
		return NewBadParameterError("invocation method is required", nil)
	}
	switch i.Dispatch {
	case "", DispatchPositional:
	case DispatchNamed:
		if len(i.Args) != 1 {
			return NewBadParameterError("named dispatch takes exactly one map argument", nil)
		}
		if _, ok := i.Args[0].(map[string]any); !ok {
			return NewBadParameterError("named dispatch takes exactly one map argument", nil)
		}
	default:
		return NewBadParameterError("dispatch must be positional|named", nil)
	}
	return nil
}

// MethodKey identifies an entry of a node's dispatch table.
type MethodKey struct {
	Type   string
	Method string
	Arity  int
}

// InvocationResult carries the value returned by a remote method (part 0) or sent through an async sink.
type InvocationResult struct {
	Value any `json:"value"`
}

// InvocationError is the structured error envelope that crosses the wire in place of a result.
// Kind is one of the Code* constants; NodeID/InstanceID are set only for routing failures.
type InvocationError struct {
	Kind       string     `json:"kind"`
	Message    string     `json:"message"`
	NodeID     NodeID     `json:"node_id"`
	InstanceID InstanceID `json:"instance_id"`
}

// Err converts the envelope into a *ClusterError. Unknown kinds become remote_invocation_error.
//
// Called from service.RemoteInvocation when an error part is received.
func (e InvocationError) Err() error {
	switch e.Kind {
	case CodeNotRoutable:
		return NewNotRoutableError(e.NodeID)
	case CodeInstanceUnreachable:
		return NewInstanceUnreachableError(e.InstanceID)
	case CodeProtocol, CodeTransport, CodeTimeout, CodeCanceled, CodeUnknown, CodeAlreadyBound, CodeBadParameter:
		return &ClusterError{Code: e.Kind, Message: e.Message}
	default:
		return NewRemoteInvocationError(e.Message, nil)
	}
}

// InvocationErrorFrom builds the wire envelope for err. Errors that are not *ClusterError are reported as
// remote_invocation_error with err.Error() as the message.
//
// Called from service.NodeServer when a method (or an async sink) fails.
func InvocationErrorFrom(err error) InvocationError {
	ce := ToClusterError(err)
	if ce == nil {
		return InvocationError{Kind: CodeRemoteInvocation, Message: err.Error()}
	}
	return InvocationError{
		Kind:       ce.Code,
		Message:    ce.Message,
		NodeID:     ce.NodeID,
		InstanceID: ce.InstanceID,
	}
}
