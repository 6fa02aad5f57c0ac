package service

import (
	"fmt"

	"mycluster/domain"
	"mycluster/interfaces"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ProtobufCodec implements interfaces.PayloadCodec with google.protobuf.Struct envelopes. Values must be
// representable by structpb: nil, bool, numbers, string, []byte (sent as base64 string), []any and
// map[string]any. Numbers always decode as float64.
type ProtobufCodec struct{}

var _ interfaces.PayloadCodec = ProtobufCodec{}

// NewProtobufCodec returns the codec used by RemoteInvoker and NodeServer.
func NewProtobufCodec() ProtobufCodec {
	return ProtobufCodec{}
}

func (ProtobufCodec) EncodeInvocation(inv domain.Invocation) ([]byte, error) {
	args := inv.Args
	if args == nil {
		args = []any{}
	}
	return marshalStruct("invocation", map[string]any{
		"type":     inv.Type,
		"method":   inv.Method,
		"dispatch": string(inv.Dispatch),
		"name":     inv.Name,
		"args":     args,
	})
}

func (ProtobufCodec) DecodeInvocation(b []byte) (domain.Invocation, error) {
	m, err := unmarshalStruct("invocation", b)
	if err != nil {
		return domain.Invocation{}, err
	}
	inv := domain.Invocation{
		Type:     stringField(m, "type"),
		Method:   stringField(m, "method"),
		Dispatch: domain.DispatchType(stringField(m, "dispatch")),
		Name:     stringField(m, "name"),
	}
	if raw, ok := m["args"]; ok && raw != nil {
		list, ok := raw.([]any)
		if !ok {
			return domain.Invocation{}, domain.NewProtocolError(fmt.Sprintf("invocation args must be a list, got %T", raw), nil)
		}
		inv.Args = list
	}
	return inv, nil
}

func (ProtobufCodec) EncodeResult(res domain.InvocationResult) ([]byte, error) {
	return marshalStruct("result", map[string]any{"value": res.Value})
}

func (ProtobufCodec) DecodeResult(b []byte) (domain.InvocationResult, error) {
	m, err := unmarshalStruct("result", b)
	if err != nil {
		return domain.InvocationResult{}, err
	}
	return domain.InvocationResult{Value: m["value"]}, nil
}

func (ProtobufCodec) EncodeError(e domain.InvocationError) ([]byte, error) {
	fields := map[string]any{
		"kind":    e.Kind,
		"message": e.Message,
	}
	if !e.NodeID.IsZero() {
		fields["node_id"] = e.NodeID.String()
	}
	if !e.InstanceID.IsZero() {
		fields["instance_id"] = e.InstanceID.String()
	}
	return marshalStruct("error", fields)
}

func (ProtobufCodec) DecodeError(b []byte) (domain.InvocationError, error) {
	m, err := unmarshalStruct("error", b)
	if err != nil {
		return domain.InvocationError{}, err
	}
	out := domain.InvocationError{
		Kind:    stringField(m, "kind"),
		Message: stringField(m, "message"),
	}
	if s := stringField(m, "node_id"); s != "" {
		if out.NodeID, err = domain.ParseNodeID(s); err != nil {
			return domain.InvocationError{}, domain.NewProtocolError("bad node_id in error envelope", err)
		}
	}
	if s := stringField(m, "instance_id"); s != "" {
		if out.InstanceID, err = domain.ParseInstanceID(s); err != nil {
			return domain.InvocationError{}, domain.NewProtocolError("bad instance_id in error envelope", err)
		}
	}
	return out, nil
}

func marshalStruct(what string, fields map[string]any) ([]byte, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, domain.NewBadParameterError("cannot encode "+what+" payload", err)
	}
	b, err := proto.Marshal(s)
	if err != nil {
		return nil, domain.NewBadParameterError("cannot marshal "+what+" payload", err)
	}
	return b, nil
}

func unmarshalStruct(what string, b []byte) (map[string]any, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(b, &s); err != nil {
		return nil, domain.NewProtocolError("cannot decode "+what+" payload", err)
	}
	return s.AsMap(), nil
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
