package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"mycluster/domain"
	"mycluster/interfaces"
	"mycluster/interfaces/mock"
	"mycluster/protocol"

	"github.com/go-kit/log"
	"github.com/go-zeromq/zmq4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type outcome struct {
	label string
	res   domain.InvocationResult
	err   error
}

// collector records every consumer delivery in order, across all consumers it hands out.
type collector struct {
	mu    sync.Mutex
	seen  []outcome
	calls atomic.Int32
	ch    chan outcome
}

func newCollector() *collector {
	return &collector{ch: make(chan outcome, 16)}
}

func (c *collector) consumer(label string) ResultConsumer {
	record := func(o outcome) {
		c.calls.Add(1)
		c.mu.Lock()
		c.seen = append(c.seen, o)
		c.mu.Unlock()
		c.ch <- o
	}
	return ResultConsumer{
		OnResult: func(res domain.InvocationResult) { record(outcome{label: label, res: res}) },
		OnError:  func(err error) { record(outcome{label: label, err: err}) },
	}
}

func (c *collector) labels() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.seen))
	for _, o := range c.seen {
		out = append(out, o.label)
	}
	return out
}

type subscriptionStub struct {
	released atomic.Int32
}

func (s *subscriptionStub) Release() { s.released.Add(1) }

func newFakeInvoker(t *testing.T) (*RemoteInvoker, *connectionPool, *fakeDialer) {
	t.Helper()
	d := &fakeDialer{}
	p := newFakePool(t, d, domain.PoolConfig{MinConnections: 1, MaxConnections: 1})
	return NewRemoteInvoker(p, NewProtobufCodec(), nil, log.NewNopLogger()), p, d
}

func echoInvocation(v any) domain.Invocation {
	return domain.Invocation{Type: DiagnosticsType, Method: "echo", Args: []any{v}}
}

func waitSent(t *testing.T, s *fakeSocket, n int) zmq4.Msg {
	t.Helper()
	require.Eventually(t, func() bool { return len(s.sentMessages()) >= n }, waitFor, tick)
	return s.sentMessages()[n-1]
}

func TestNewRemoteInvoker_Panics(t *testing.T) {
	pool := &mock.ConnectionPoolMock{AddressFunc: func() string { return "tcp://fake:1" }}
	codec := NewProtobufCodec()
	logger := log.NewNopLogger()

	t.Run("pool_nil", func(t *testing.T) {
		assert.PanicsWithValue(t, "service.remote_invoker.go: pool is required", func() {
			NewRemoteInvoker(nil, codec, nil, logger)
		})
	})
	t.Run("logger_nil", func(t *testing.T) {
		assert.PanicsWithValue(t, "service.remote_invoker.go: logger is required", func() {
			NewRemoteInvoker(pool, codec, nil, nil)
		})
	})
}

func TestRemoteInvoker_Invoke(t *testing.T) {
	t.Run("sync_result_recycles_connection", func(t *testing.T) {
		inv, p, d := newFakeInvoker(t)
		c := newCollector()
		r := inv.start(echoInvocation("hi"), c.consumer("sync"))

		req := waitSent(t, d.socket(0), 1)
		require.Len(t, req.Frames, 3)
		assert.Empty(t, req.Frames[0])
		header, err := protocol.DecodeRequestHeader(req.Frames[1])
		require.NoError(t, err)
		assert.Equal(t, uint32(0), header.AsyncParts)
		sent, err := NewProtobufCodec().DecodeInvocation(req.Frames[2])
		require.NoError(t, err)
		assert.Equal(t, domain.DispatchPositional, sent.Dispatch)
		assert.Equal(t, []any{"hi"}, sent.Args)

		d.socket(0).inbox <- nodeReply(t, 0, "hi", nil)
		got := receive(t, c.ch)
		require.NoError(t, got.err)
		assert.Equal(t, "hi", got.res.Value)

		receive(t, r.Done())
		assert.Equal(t, StateFinished, r.State())
		assert.Equal(t, 1, p.Stats().Idle)
		assert.False(t, d.socket(0).isClosed())
	})

	t.Run("async_parts_are_delivered_in_order", func(t *testing.T) {
		inv, p, d := newFakeInvoker(t)
		c := newCollector()
		r := inv.start(domain.Invocation{Type: DiagnosticsType, Method: "count"}, c.consumer("sync"), c.consumer("a1"), c.consumer("a2"))

		req := waitSent(t, d.socket(0), 1)
		header, err := protocol.DecodeRequestHeader(req.Frames[1])
		require.NoError(t, err)
		assert.Equal(t, uint32(2), header.AsyncParts)

		d.socket(0).inbox <- nodeReply(t, 2, 2.0, nil)
		d.socket(0).inbox <- nodeReply(t, 0, 2.0, nil)
		d.socket(0).inbox <- nodeReply(t, 1, 1.0, nil)

		receive(t, r.Done())
		assert.Equal(t, []string{"sync", "a1", "a2"}, c.labels())
		assert.Equal(t, StateFinished, r.State())
		assert.Equal(t, 1, p.Stats().Idle)
	})

	t.Run("remote_error_part_is_delivered_and_connection_kept", func(t *testing.T) {
		inv, p, d := newFakeInvoker(t)
		c := newCollector()
		r := inv.start(echoInvocation("x"), c.consumer("sync"))
		waitSent(t, d.socket(0), 1)

		d.socket(0).inbox <- nodeReply(t, 0, nil, domain.NewRemoteInvocationError("boom", nil))
		got := receive(t, c.ch)
		assert.True(t, domain.IsRemoteInvocationError(got.err))
		assert.Contains(t, got.err.Error(), "boom")
		receive(t, r.Done())
		assert.Equal(t, 1, p.Stats().Idle)
	})

	t.Run("error_code_fails_and_closes_connection", func(t *testing.T) {
		inv, p, d := newFakeInvoker(t)
		node := domain.NewNodeID(domain.NewInstanceID(), uuid.New())
		c := newCollector()
		r := inv.start(echoInvocation("x"), c.consumer("sync"))
		waitSent(t, d.socket(0), 1)

		d.socket(0).inbox <- errorReply(nil, domain.NewNotRoutableError(node))
		got := receive(t, c.ch)
		gotNode, ok := domain.NotRoutableNode(got.err)
		require.True(t, ok)
		assert.Equal(t, node, gotNode)
		receive(t, r.Done())
		assert.Equal(t, StateFinished, r.State())
		assert.True(t, d.socket(0).isClosed())
		require.Eventually(t, func() bool { return d.count() == 2 && p.Stats().Idle == 1 }, waitFor, tick)
	})

	t.Run("duplicate_sync_part_is_a_protocol_error", func(t *testing.T) {
		inv, _, d := newFakeInvoker(t)
		c := newCollector()
		r := inv.start(echoInvocation("x"), c.consumer("sync"), c.consumer("a1"))
		waitSent(t, d.socket(0), 1)

		d.socket(0).inbox <- nodeReply(t, 0, "x", nil)
		d.socket(0).inbox <- nodeReply(t, 0, "x", nil)
		receive(t, r.Done())

		require.Equal(t, []string{"sync", "a1"}, c.labels())
		assert.NoError(t, c.seen[0].err)
		assert.True(t, domain.IsProtocolError(c.seen[1].err))
		assert.True(t, d.socket(0).isClosed())
	})

	t.Run("part_beyond_requested_is_a_protocol_error", func(t *testing.T) {
		inv, _, d := newFakeInvoker(t)
		c := newCollector()
		r := inv.start(echoInvocation("x"), c.consumer("sync"))
		waitSent(t, d.socket(0), 1)

		d.socket(0).inbox <- nodeReply(t, 1, "x", nil)
		got := receive(t, c.ch)
		assert.True(t, domain.IsProtocolError(got.err))
		receive(t, r.Done())
	})

	t.Run("cancel_delivers_canceled_and_closes_connection", func(t *testing.T) {
		inv, p, d := newFakeInvoker(t)
		c := newCollector()
		r := inv.start(echoInvocation("x"), c.consumer("sync"), c.consumer("a1"))
		waitSent(t, d.socket(0), 1)

		assert.True(t, r.Cancel())
		assert.False(t, r.Cancel())
		receive(t, r.Done())
		assert.Equal(t, StateCanceled, r.State())
		require.Len(t, c.labels(), 2)
		for _, o := range c.seen {
			assert.True(t, domain.IsCanceledError(o.err))
		}
		assert.True(t, d.socket(0).isClosed())
		require.Eventually(t, func() bool { return d.count() == 2 && p.Stats().Idle == 1 }, waitFor, tick)
	})

	t.Run("cancel_after_sync_part_only_fails_async_parts", func(t *testing.T) {
		inv, p, d := newFakeInvoker(t)
		c := newCollector()
		r := inv.start(echoInvocation("x"), c.consumer("sync"), c.consumer("a1"))
		waitSent(t, d.socket(0), 1)

		d.socket(0).inbox <- nodeReply(t, 0, "x", nil)
		got := receive(t, c.ch)
		require.NoError(t, got.err)
		assert.Equal(t, "sync", got.label)

		assert.True(t, r.Cancel())
		got = receive(t, c.ch)
		assert.Equal(t, "a1", got.label)
		assert.True(t, domain.IsCanceledError(got.err))
		receive(t, r.Done())

		assert.Equal(t, StateCanceled, r.State())
		require.Equal(t, []string{"sync", "a1"}, c.labels())
		assert.Equal(t, "x", c.seen[0].res.Value)
		assert.True(t, d.socket(0).isClosed())
		require.Eventually(t, func() bool { return d.count() == 2 && p.Stats().Idle == 1 }, waitFor, tick)
	})

	t.Run("encode_failure_fails_every_consumer_and_closes_connection", func(t *testing.T) {
		d := &fakeDialer{}
		p := newFakePool(t, d, domain.PoolConfig{MinConnections: 1, MaxConnections: 1})
		codec := &mock.PayloadCodecMock{
			EncodeInvocationFunc: func(domain.Invocation) ([]byte, error) {
				return nil, domain.NewBadParameterError("argument is not encodable", nil)
			},
		}
		inv := NewRemoteInvoker(p, codec, nil, log.NewNopLogger())
		c := newCollector()
		r := inv.start(echoInvocation("x"), c.consumer("sync"), c.consumer("a1"))
		receive(t, r.Done())

		assert.Equal(t, StateFinished, r.State())
		require.Equal(t, []string{"sync", "a1"}, c.labels())
		for _, o := range c.seen {
			assert.True(t, domain.IsClusterError(o.err, domain.CodeBadParameter))
		}
		assert.Len(t, codec.EncodeInvocationCalls(), 1)
		assert.Empty(t, d.socket(0).sentMessages())
		assert.True(t, d.socket(0).isClosed())
	})

	t.Run("undecodable_result_fails_invocation", func(t *testing.T) {
		d := &fakeDialer{}
		p := newFakePool(t, d, domain.PoolConfig{MinConnections: 1, MaxConnections: 1})
		protobuf := NewProtobufCodec()
		codec := &mock.PayloadCodecMock{
			EncodeInvocationFunc: protobuf.EncodeInvocation,
			DecodeResultFunc:     func([]byte) (domain.InvocationResult, error) {
				return domain.InvocationResult{}, domain.NewProtocolError("bad result payload", nil)
			},
		}
		inv := NewRemoteInvoker(p, codec, nil, log.NewNopLogger())
		c := newCollector()
		r := inv.start(echoInvocation("x"), c.consumer("sync"))
		waitSent(t, d.socket(0), 1)

		d.socket(0).inbox <- nodeReply(t, 0, "x", nil)
		got := receive(t, c.ch)
		assert.True(t, domain.IsProtocolError(got.err))
		receive(t, r.Done())
		assert.Len(t, codec.DecodeResultCalls(), 1)
		assert.True(t, d.socket(0).isClosed())
	})

	t.Run("socket_error_aborts_as_canceled", func(t *testing.T) {
		inv, _, d := newFakeInvoker(t)
		c := newCollector()
		r := inv.start(echoInvocation("x"), c.consumer("sync"))
		waitSent(t, d.socket(0), 1)

		d.socket(0).errs <- assert.AnError
		got := receive(t, c.ch)
		assert.True(t, domain.IsTransportError(got.err))
		receive(t, r.Done())
		assert.Equal(t, StateCanceled, r.State())
	})

	t.Run("closed_pool_fails_invocation", func(t *testing.T) {
		inv, p, _ := newFakeInvoker(t)
		require.NoError(t, p.Close())
		c := newCollector()
		r := inv.start(echoInvocation("x"), c.consumer("sync"))
		got := receive(t, c.ch)
		assert.ErrorIs(t, got.err, ErrPoolClosed)
		receive(t, r.Done())
		assert.Equal(t, StateFinished, r.State())
	})

	t.Run("invalid_invocation_fails_synchronously", func(t *testing.T) {
		inv, _, d := newFakeInvoker(t)
		c := newCollector()
		cancel := inv.Invoke(domain.Invocation{Type: DiagnosticsType}, c.consumer("sync"), c.consumer("a1"))
		cancel()
		require.Equal(t, int32(2), c.calls.Load())
		for _, o := range c.seen {
			assert.True(t, domain.IsClusterError(o.err, domain.CodeBadParameter))
		}
		assert.Empty(t, d.socket(0).sentMessages())
	})
}

func TestRemoteInvocation_CancelRaces(t *testing.T) {
	logger := log.NewNopLogger()
	codec := NewProtobufCodec()

	t.Run("cancel_before_connection_arrives_recycles_it_unused", func(t *testing.T) {
		var callback func(interfaces.Connection, error)
		pool := &mock.ConnectionPoolMock{
			AcquireNextAvailableConnectionFunc: func(cb func(interfaces.Connection, error)) { callback = cb },
		}
		conn := &mock.ConnectionMock{}
		c := newCollector()
		r := newRemoteInvocation(echoInvocation("x"), codec, nil, logger, "t", c.consumer("sync"), nil)
		r.start(pool)

		require.True(t, r.Cancel())
		callback(conn, nil)

		assert.Len(t, conn.SubscribeCalls(), 0)
		assert.Len(t, conn.RecycleCalls(), 1)
		assert.Len(t, conn.CloseCalls(), 0)
		assert.True(t, domain.IsCanceledError(receive(t, c.ch).err))
	})

	t.Run("cancel_while_subscribing_recycles_once", func(t *testing.T) {
		sub := &subscriptionStub{}
		var r *RemoteInvocation
		conn := &mock.ConnectionMock{
			SubscribeFunc: func(interfaces.ConnectionHandler) (interfaces.Subscription, error) {
				r.Cancel()
				return sub, nil
			},
		}
		pool := &mock.ConnectionPoolMock{
			AcquireNextAvailableConnectionFunc: func(cb func(interfaces.Connection, error)) { cb(conn, nil) },
		}
		c := newCollector()
		r = newRemoteInvocation(echoInvocation("x"), codec, nil, logger, "t", c.consumer("sync"), nil)
		r.start(pool)

		assert.Equal(t, int32(1), sub.released.Load())
		assert.Len(t, conn.RecycleCalls(), 1)
		assert.Len(t, conn.CloseCalls(), 0)
		assert.Equal(t, StateCanceled, r.State())
		assert.Equal(t, int32(1), c.calls.Load())
	})

	t.Run("reply_and_cancel_deliver_exactly_once", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			sub := &subscriptionStub{}
			conn := &mock.ConnectionMock{
				SubscribeFunc: func(interfaces.ConnectionHandler) (interfaces.Subscription, error) { return sub, nil },
			}
			pool := &mock.ConnectionPoolMock{
				AcquireNextAvailableConnectionFunc: func(cb func(interfaces.Connection, error)) { cb(conn, nil) },
			}
			c := newCollector()
			r := newRemoteInvocation(echoInvocation("x"), codec, nil, logger, "t", c.consumer("sync"), nil)
			r.start(pool)
			reply := nodeReply(t, 0, "x", nil)

			var wg sync.WaitGroup
			wg.Add(2)
			go func() { defer wg.Done(); r.OnRead(conn, reply) }()
			go func() { defer wg.Done(); r.Cancel() }()
			wg.Wait()
			receive(t, r.Done())

			require.Equal(t, int32(1), c.calls.Load())
			require.Equal(t, 1, len(conn.RecycleCalls())+len(conn.CloseCalls()))
			require.Equal(t, int32(1), sub.released.Load())
		}
	})
}

func TestRemoteInvoker_InvokeSync(t *testing.T) {
	t.Run("returns_result", func(t *testing.T) {
		inv, _, d := newFakeInvoker(t)
		go func() {
			waitSent(t, d.socket(0), 1)
			d.socket(0).inbox <- nodeReply(t, 0, "pong", nil)
		}()
		res, err := inv.InvokeSync(context.Background(), domain.Invocation{Type: DiagnosticsType, Method: "ping"})
		require.NoError(t, err)
		assert.Equal(t, "pong", res.Value)
	})

	t.Run("context_cancel_cancels_invocation", func(t *testing.T) {
		inv, p, d := newFakeInvoker(t)
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			waitSent(t, d.socket(0), 1)
			cancel()
		}()
		_, err := inv.InvokeSync(ctx, domain.Invocation{Type: DiagnosticsType, Method: "ping"})
		assert.True(t, domain.IsCanceledError(err))
		require.Eventually(t, func() bool { return d.socket(0).isClosed() }, waitFor, tick)
		require.Eventually(t, func() bool { return d.count() == 2 && p.Stats().Idle == 1 }, waitFor, tick)
	})
}
