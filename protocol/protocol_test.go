package protocol

import (
	"testing"

	"mycluster/domain"

	"github.com/go-zeromq/zmq4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand_RoundTrip(t *testing.T) {
	require.Len(t, Commands(), 8)
	for _, c := range Commands() {
		t.Run(c.String(), func(t *testing.T) {
			msg := NewMessage([]byte("arg"))
			PushCommand(&msg, c)
			got, err := DecodeCommand(&msg)
			require.NoError(t, err)
			assert.Equal(t, c, got)
			assert.Equal(t, [][]byte{[]byte("arg")}, msg.Frames)
		})
	}
}

func TestDecodeCommand_Errors(t *testing.T) {
	tests := []struct {
		name   string
		frames [][]byte
	}{
		{name: "missing_frame", frames: nil},
		{name: "short_frame", frames: [][]byte{{0, 0, 1}}},
		{name: "long_frame", frames: [][]byte{{0, 0, 0, 0, 1}}},
		{name: "out_of_range", frames: [][]byte{EncodeCommand(Command(8))}},
		{name: "negative", frames: [][]byte{{0xff, 0xff, 0xff, 0xff}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := zmq4.Msg{Frames: tt.frames}
			_, err := DecodeCommand(&msg)
			require.Error(t, err)
			assert.True(t, domain.IsProtocolError(err))
		})
	}
}

func TestIdentity_RoundTrip(t *testing.T) {
	body := [][]byte{EncodeCommand(CommandHealthCheck), []byte("payload")}
	for k := 0; k <= 3; k++ {
		ids := make([][]byte, 0, k)
		for i := 0; i < k; i++ {
			ids = append(ids, []byte{byte('a' + i), 1, 2})
		}
		frames := append(append(append([][]byte{}, ids...), []byte{}), body...)
		original := NewMessage(frames...)

		msg := NewMessage(frames...)
		gotIDs, err := StripIdentity(&msg)
		require.NoError(t, err)
		assert.Equal(t, k, len(gotIDs))
		assert.Equal(t, body, msg.Frames)

		PushIdentity(&msg, gotIDs)
		assert.Equal(t, original.Frames, msg.Frames)
	}
}

func TestStripIdentity_MissingDelimiter(t *testing.T) {
	msg := NewMessage([]byte("id"), []byte("cmd"))
	_, err := StripIdentity(&msg)
	require.Error(t, err)
	assert.True(t, domain.IsProtocolError(err))
}

func TestStripCode(t *testing.T) {
	t.Run("known_codes", func(t *testing.T) {
		for code := CodeOK; code < responseCodeCount; code++ {
			msg := NewMessage()
			PushCode(&msg, code)
			got, err := StripCode(&msg)
			require.NoError(t, err)
			assert.Equal(t, code, got)
		}
	})
	t.Run("unknown_ordinal_normalizes", func(t *testing.T) {
		msg := NewMessage(encodeOrdinal(42))
		got, err := StripCode(&msg)
		require.NoError(t, err)
		assert.Equal(t, CodeUnknownError, got)
	})
	t.Run("bad_length_normalizes", func(t *testing.T) {
		msg := NewMessage([]byte{1})
		got, err := StripCode(&msg)
		require.NoError(t, err)
		assert.Equal(t, CodeUnknownError, got)
	})
	t.Run("missing_frame_is_protocol_error", func(t *testing.T) {
		msg := NewMessage()
		_, err := StripCode(&msg)
		assert.True(t, domain.IsProtocolError(err))
	})
}

func TestPushError_ErrorForCode(t *testing.T) {
	instance := domain.NewInstanceID()
	node := domain.NewNodeID(instance, uuid.New())

	tests := []struct {
		name     string
		err      error
		wantCode ResponseCode
		check    func(t *testing.T, err error)
	}{
		{
			name:     "not_routable_carries_node",
			err:      domain.NewNotRoutableError(node),
			wantCode: CodeNoSuchNodeRoute,
			check: func(t *testing.T, err error) {
				got, ok := domain.NotRoutableNode(err)
				require.True(t, ok)
				assert.Equal(t, node, got)
			},
		},
		{
			name:     "instance_unreachable_carries_instance",
			err:      domain.NewInstanceUnreachableError(instance),
			wantCode: CodeNoSuchInstance,
			check: func(t *testing.T, err error) {
				got, ok := domain.UnreachableInstance(err)
				require.True(t, ok)
				assert.Equal(t, instance, got)
			},
		},
		{
			name:     "already_bound_via_unknown_code",
			err:      domain.NewAlreadyBoundError(node),
			wantCode: CodeUnknownError,
			check: func(t *testing.T, err error) {
				require.True(t, domain.IsAlreadyBoundError(err))
				assert.Equal(t, node, domain.ToClusterError(err).NodeID)
			},
		},
		{
			name:     "protocol_error_message",
			err:      domain.NewProtocolError("bad frame", nil),
			wantCode: CodeProtocolError,
			check: func(t *testing.T, err error) {
				require.True(t, domain.IsProtocolError(err))
				assert.Equal(t, "bad frame", domain.ToClusterError(err).Message)
			},
		},
		{
			name:     "plain_error_is_unknown",
			err:      assert.AnError,
			wantCode: CodeUnknownError,
			check: func(t *testing.T, err error) {
				assert.Equal(t, domain.CodeUnknown, domain.ErrorCode(err))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := NewMessage()
			PushError(&msg, tt.err)
			code, err := StripCode(&msg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, code)
			tt.check(t, ErrorForCode(code, &msg))
			assert.Empty(t, msg.Frames)
		})
	}

	t.Run("ok_is_nil", func(t *testing.T) {
		msg := NewMessage()
		assert.NoError(t, ErrorForCode(CodeOK, &msg))
	})
	t.Run("missing_node_frame_is_protocol_error", func(t *testing.T) {
		msg := NewMessage()
		assert.True(t, domain.IsProtocolError(ErrorForCode(CodeNoSuchNodeRoute, &msg)))
	})
}

func TestHeaders(t *testing.T) {
	t.Run("request_header", func(t *testing.T) {
		got, err := DecodeRequestHeader(RequestHeader{AsyncParts: 7}.Encode())
		require.NoError(t, err)
		assert.Equal(t, uint32(7), got.AsyncParts)

		_, err = DecodeRequestHeader([]byte{1, 2})
		assert.True(t, domain.IsProtocolError(err))
	})
	t.Run("response_header", func(t *testing.T) {
		want := ResponseHeader{Kind: ReplyError, Part: 3}
		got, err := DecodeResponseHeader(want.Encode())
		require.NoError(t, err)
		assert.Equal(t, want, got)

		bad := want.Encode()
		bad[0] = 9
		_, err = DecodeResponseHeader(bad)
		assert.True(t, domain.IsProtocolError(err))
	})
}

func TestPopIDs(t *testing.T) {
	instance := domain.NewInstanceID()
	node := domain.MasterNodeID(instance)
	msg := NewMessage(node.Bytes(), instance.Bytes(), []byte("x"))

	gotNode, err := PopNodeID(&msg)
	require.NoError(t, err)
	assert.Equal(t, node, gotNode)
	gotInstance, err := PopInstanceID(&msg)
	require.NoError(t, err)
	assert.Equal(t, instance, gotInstance)
	_, err = PopInstanceID(&msg)
	assert.True(t, domain.IsProtocolError(err))
}
