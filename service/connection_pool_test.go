package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"mycluster/domain"
	"mycluster/interfaces"
	"mycluster/interfaces/mock"
	"mycluster/protocol"

	"github.com/go-kit/log"
	"github.com/go-zeromq/zmq4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnectionPool_Panics(t *testing.T) {
	logger := log.NewNopLogger()

	t.Run("address_empty", func(t *testing.T) {
		assert.PanicsWithValue(t, "service.connection_pool.go: address is required", func() {
			_, _ = NewConnectionPool(t.Context(), "", nil, domain.DefaultPoolConfig(), logger)
		})
	})
	t.Run("dial_nil", func(t *testing.T) {
		assert.PanicsWithValue(t, "service.connection_pool.go: dial is required", func() {
			_, _ = newConnectionPool("tcp://fake:1", nil, domain.DefaultPoolConfig(), logger)
		})
	})
	t.Run("logger_nil", func(t *testing.T) {
		d := &fakeDialer{}
		assert.PanicsWithValue(t, "service.connection_pool.go: logger is required", func() {
			_, _ = newConnectionPool("tcp://fake:1", d.dial, domain.DefaultPoolConfig(), nil)
		})
	})
}

func TestNewConnectionPool_Config(t *testing.T) {
	t.Run("invalid_bounds", func(t *testing.T) {
		d := &fakeDialer{}
		_, err := newConnectionPool("tcp://fake:1", d.dial, domain.PoolConfig{MinConnections: 2, MaxConnections: 1}, log.NewNopLogger())
		var cfgErr *domain.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, 0, d.count())
	})
	t.Run("eager_dial_failure", func(t *testing.T) {
		d := &fakeDialer{err: errors.New("refused")}
		_, err := newConnectionPool("tcp://fake:1", d.dial, domain.PoolConfig{MinConnections: 1, MaxConnections: 2}, log.NewNopLogger())
		assert.True(t, domain.IsTransportError(err))
	})
	t.Run("min_connections_opened_eagerly", func(t *testing.T) {
		d := &fakeDialer{}
		p := newFakePool(t, d, domain.PoolConfig{MinConnections: 2, MaxConnections: 3})
		assert.Equal(t, 2, d.count())
		assert.Equal(t, domain.PoolStats{Address: "tcp://fake:1", Open: 2, Idle: 2}, p.Stats())
	})
}

func TestConnectionPool_Acquire(t *testing.T) {
	t.Run("idle_connections_are_lifo", func(t *testing.T) {
		d := &fakeDialer{}
		p := newFakePool(t, d, domain.PoolConfig{MinConnections: 2, MaxConnections: 2})

		first := receive(t, acquire(p))
		require.NoError(t, first.err)
		assert.Equal(t, "tcp://fake:1#2", first.conn.ID())

		first.conn.Recycle()
		again := receive(t, acquire(p))
		require.NoError(t, again.err)
		assert.Same(t, first.conn, again.conn)
	})

	t.Run("dials_lazily_up_to_max_then_queues_fifo", func(t *testing.T) {
		d := &fakeDialer{}
		p := newFakePool(t, d, domain.PoolConfig{MinConnections: 0, MaxConnections: 1})
		assert.Equal(t, 0, d.count())

		a := receive(t, acquire(p))
		require.NoError(t, a.err)
		assert.Equal(t, 1, d.count())

		b := acquire(p)
		c := acquire(p)
		assert.Equal(t, 2, p.Stats().Waiting)

		a.conn.Recycle()
		gotB := receive(t, b)
		require.NoError(t, gotB.err)
		assert.Same(t, a.conn, gotB.conn)
		assert.Equal(t, 1, p.Stats().Waiting)

		gotB.conn.Recycle()
		gotC := receive(t, c)
		require.NoError(t, gotC.err)
		assert.Same(t, a.conn, gotC.conn)
		assert.Equal(t, 1, d.count())
	})

	t.Run("closing_a_connection_dials_for_the_oldest_waiter", func(t *testing.T) {
		d := &fakeDialer{}
		p := newFakePool(t, d, domain.PoolConfig{MinConnections: 0, MaxConnections: 1})

		a := receive(t, acquire(p))
		require.NoError(t, a.err)
		waiter := acquire(p)

		a.conn.Close()
		got := receive(t, waiter)
		require.NoError(t, got.err)
		assert.NotSame(t, a.conn, got.conn)
		assert.Equal(t, 2, d.count())
		assert.True(t, d.socket(0).isClosed())
	})

	t.Run("dial_failure_reaches_callback", func(t *testing.T) {
		d := &fakeDialer{err: errors.New("refused")}
		p := newFakePool(t, d, domain.PoolConfig{MinConnections: 0, MaxConnections: 1})

		got := receive(t, acquire(p))
		assert.True(t, domain.IsTransportError(got.err))
		assert.Equal(t, 0, p.Stats().Open)
	})

	t.Run("close_fails_waiters_and_later_acquires", func(t *testing.T) {
		d := &fakeDialer{}
		p := newFakePool(t, d, domain.PoolConfig{MinConnections: 0, MaxConnections: 1})

		a := receive(t, acquire(p))
		require.NoError(t, a.err)
		waiter := acquire(p)

		require.NoError(t, p.Close())
		assert.ErrorIs(t, receive(t, waiter).err, ErrPoolClosed)
		assert.ErrorIs(t, receive(t, acquire(p)).err, ErrPoolClosed)
		assert.True(t, d.socket(0).isClosed())
		assert.True(t, p.Stats().Closed)
		assert.NoError(t, p.Close())
	})
}

func TestConnection_Lifecycle(t *testing.T) {
	t.Run("unsolicited_message_closes_idle_connection", func(t *testing.T) {
		d := &fakeDialer{}
		p := newFakePool(t, d, domain.PoolConfig{MinConnections: 1, MaxConnections: 1})

		d.socket(0).inbox <- protocol.NewMessage([]byte{}, []byte("late"))
		require.Eventually(t, func() bool { return d.socket(0).isClosed() }, waitFor, tick)
		require.Eventually(t, func() bool { return d.count() == 2 && p.Stats().Idle == 1 }, waitFor, tick)
		assert.Equal(t, 1, p.Stats().Open)
	})

	t.Run("socket_error_on_idle_connection_closes_it", func(t *testing.T) {
		d := &fakeDialer{}
		p := newFakePool(t, d, domain.PoolConfig{MinConnections: 1, MaxConnections: 1})

		d.socket(0).errs <- errors.New("reset by peer")
		require.Eventually(t, func() bool { return d.socket(0).isClosed() }, waitFor, tick)
		require.Eventually(t, func() bool { return d.count() == 2 && p.Stats().Idle == 1 }, waitFor, tick)
	})

	t.Run("replacement_goes_to_waiter", func(t *testing.T) {
		d := &fakeDialer{}
		p := newFakePool(t, d, domain.PoolConfig{MinConnections: 1, MaxConnections: 1})
		a := receive(t, acquire(p))
		require.NoError(t, a.err)
		next := acquire(p)

		a.conn.Close()
		b := receive(t, next)
		require.NoError(t, b.err)
		assert.Equal(t, 2, d.count())
		assert.Equal(t, domain.PoolStats{Address: "tcp://fake:1", Open: 1, Leased: 1}, p.Stats())
	})

	t.Run("no_replacement_above_minimum", func(t *testing.T) {
		d := &fakeDialer{}
		p := newFakePool(t, d, domain.PoolConfig{MinConnections: 1, MaxConnections: 2})
		a := receive(t, acquire(p))
		b := receive(t, acquire(p))
		require.NoError(t, b.err)
		require.Equal(t, 2, d.count())

		b.conn.Close()
		assert.Never(t, func() bool { return d.count() > 2 }, 100*time.Millisecond, tick)
		assert.Equal(t, 1, p.Stats().Open)
		a.conn.Recycle()
	})

	t.Run("failed_replacement_dial_leaves_pool_short", func(t *testing.T) {
		d := &fakeDialer{}
		p := newFakePool(t, d, domain.PoolConfig{MinConnections: 1, MaxConnections: 1})
		d.mu.Lock()
		d.err = errors.New("connection refused")
		d.mu.Unlock()

		d.socket(0).errs <- errors.New("reset by peer")
		require.Eventually(t, func() bool { return p.Stats().Open == 0 }, waitFor, tick)
		assert.Never(t, func() bool { return p.Stats().Open != 0 }, 100*time.Millisecond, tick)
	})

	t.Run("failed_send_makes_recycle_close", func(t *testing.T) {
		d := &fakeDialer{}
		p := newFakePool(t, d, domain.PoolConfig{MinConnections: 1, MaxConnections: 1})
		a := receive(t, acquire(p))
		require.NoError(t, a.err)

		d.socket(0).failSends(errors.New("broken pipe"))
		err := a.conn.Send(protocol.NewMessage([]byte{}))
		assert.True(t, domain.IsTransportError(err))

		a.conn.Recycle()
		assert.True(t, d.socket(0).isClosed())
		require.Eventually(t, func() bool { return d.count() == 2 && p.Stats().Idle == 1 }, waitFor, tick)
		assert.False(t, d.socket(1).isClosed())
	})

	t.Run("send_after_close_fails", func(t *testing.T) {
		d := &fakeDialer{}
		p := newFakePool(t, d, domain.PoolConfig{MinConnections: 1, MaxConnections: 1})
		a := receive(t, acquire(p))
		a.conn.Close()
		a.conn.Close()
		assert.ErrorIs(t, a.conn.Send(protocol.NewMessage()), ErrConnectionClosed)
		_, err := a.conn.Subscribe(&mock.ConnectionHandlerMock{})
		assert.ErrorIs(t, err, ErrConnectionClosed)
	})
}

func TestConnection_Subscribe(t *testing.T) {
	d := &fakeDialer{}
	p := newFakePool(t, d, domain.PoolConfig{MinConnections: 1, MaxConnections: 1})
	a := receive(t, acquire(p))
	require.NoError(t, a.err)

	var mu sync.Mutex
	var events []string
	record := func(e string) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	}
	seen := func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), events...)
	}
	handler := &mock.ConnectionHandlerMock{
		OnWriteFunc:   func(interfaces.Connection) { record("write") },
		OnReadFunc:    func(_ interfaces.Connection, msg zmq4.Msg) { record("read:" + string(msg.Frames[1])) },
		OnErrorFunc:   func(_ interfaces.Connection, err error) { record("error") },
		OnCloseFunc:   func(interfaces.Connection) { record("close") },
		OnRecycleFunc: func(interfaces.Connection) { record("recycle") },
	}

	sub, err := a.conn.Subscribe(handler)
	require.NoError(t, err)
	_, err = a.conn.Subscribe(&mock.ConnectionHandlerMock{})
	assert.ErrorIs(t, err, ErrAlreadySubscribed)

	d.socket(0).inbox <- protocol.NewMessage([]byte{}, []byte("one"))
	require.Eventually(t, func() bool { return len(seen()) == 2 }, waitFor, tick)
	assert.Equal(t, []string{"write", "read:one"}, seen())

	d.socket(0).errs <- errors.New("reset")
	require.Eventually(t, func() bool { return len(seen()) == 3 }, waitFor, tick)
	assert.Equal(t, "error", seen()[2])

	sub.Release()
	sub.Release()
	a.conn.Close()
	assert.Equal(t, 3, len(seen()), "released handler must not see OnClose")
	assert.Len(t, handler.OnCloseCalls(), 0)
}

func TestConnection_RecycleNotifiesSubscriber(t *testing.T) {
	d := &fakeDialer{}
	p := newFakePool(t, d, domain.PoolConfig{MinConnections: 1, MaxConnections: 1})
	a := receive(t, acquire(p))

	recycled := make(chan struct{}, 1)
	_, err := a.conn.Subscribe(&mock.ConnectionHandlerMock{
		OnRecycleFunc: func(interfaces.Connection) { recycled <- struct{}{} },
	})
	require.NoError(t, err)

	a.conn.Recycle()
	receive(t, recycled)
	assert.Equal(t, 1, p.Stats().Idle)
}
