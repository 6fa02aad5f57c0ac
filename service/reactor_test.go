package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReactor(t *testing.T) {
	t.Run("runs_in_submission_order", func(t *testing.T) {
		r := newReactor()
		var got []int
		done := make(chan struct{})
		for i := 0; i < 100; i++ {
			i := i
			r.submit(func() { got = append(got, i) })
		}
		r.submit(func() { close(done) })
		receive(t, done)
		r.stop()
		receive(t, r.done)

		want := make([]int, 100)
		for i := range want {
			want[i] = i
		}
		assert.Equal(t, want, got)
	})

	t.Run("submit_after_stop_still_runs", func(t *testing.T) {
		r := newReactor()
		r.stop()
		r.stop()
		var wg sync.WaitGroup
		wg.Add(1)
		r.submit(wg.Done)
		wg.Wait()
	})
}
