package service

import (
	"strings"
	"testing"
	"time"

	"mycluster/domain"
	"mycluster/helpers"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvocationTracer(t *testing.T) {
	t.Run("disabled_records_nothing", func(t *testing.T) {
		tracer := NewInvocationTracer(false, nil)
		assert.Equal(t, "", tracer.Begin("tcp://a:1", "T", "m"))
		assert.Empty(t, tracer.InFlight())

		var nilTracer *InvocationTracer
		assert.False(t, nilTracer.Enabled())
		assert.Equal(t, "", nilTracer.Begin("tcp://a:1", "T", "m"))
		nilTracer.End("1")
		assert.Empty(t, nilTracer.InFlight())
	})

	t.Run("records_caller_until_end", func(t *testing.T) {
		now := helpers.TestNow()
		tracer := NewInvocationTracer(true, func() time.Time {
			now = now.Add(time.Second)
			return now
		})

		first := tracer.Begin("tcp://a:1", "T", "first")
		second := tracer.Begin("tcp://a:1", "T", "second")
		inFlight := tracer.InFlight()
		require.Len(t, inFlight, 2)
		assert.Equal(t, "first", inFlight[0].Method)
		assert.Equal(t, "second", inFlight[1].Method)
		assert.Equal(t, helpers.TestNow().Add(time.Second), inFlight[0].Started)
		require.NotEmpty(t, inFlight[0].Stack)
		assert.Contains(t, inFlight[0].Stack[0], "TestInvocationTracer")

		tracer.End(first)
		tracer.End("unknown")
		inFlight = tracer.InFlight()
		require.Len(t, inFlight, 1)
		assert.Equal(t, second, inFlight[0].ID)
	})

	t.Run("invocation_stack_starts_at_invoke", func(t *testing.T) {
		tracer := NewInvocationTracer(true, nil)
		d := &fakeDialer{}
		p := newFakePool(t, d, domain.PoolConfig{MinConnections: 1, MaxConnections: 1})
		inv := NewRemoteInvoker(p, NewProtobufCodec(), tracer, log.NewNopLogger())
		c := newCollector()

		cancel := inv.Invoke(echoInvocation("x"), c.consumer("sync"))
		inFlight := tracer.InFlight()
		require.Len(t, inFlight, 1)
		assert.Equal(t, "echo", inFlight[0].Method)
		require.GreaterOrEqual(t, len(inFlight[0].Stack), 3)
		assert.Contains(t, inFlight[0].Stack[0], "(*RemoteInvocation).start")
		assert.Contains(t, inFlight[0].Stack[1], "(*RemoteInvoker).Invoke")
		assert.True(t, strings.Contains(strings.Join(inFlight[0].Stack, "\n"), "TestInvocationTracer"))

		cancel()
		receive(t, c.ch)
		assert.Eventually(t, func() bool { return len(tracer.InFlight()) == 0 }, waitFor, tick)
	})
}
