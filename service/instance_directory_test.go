package service

import (
	"context"
	"testing"
	"time"

	"mycluster/domain"
	"mycluster/interfaces/mock"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstanceDirectory(t *testing.T) {
	ctx := context.Background()
	entry := domain.DirectoryEntry{InstanceID: domain.NewInstanceID(), ConnectAddress: "tcp://10.0.0.1:5555"}

	t.Run("publish_writes_under_instance_id_with_ttl", func(t *testing.T) {
		cache := &mock.CacheMock[domain.DirectoryEntry]{}
		dir := NewInstanceDirectory(cache)

		require.NoError(t, dir.Publish(ctx, entry, 1500*time.Millisecond))
		calls := cache.WriteValueCalls()
		require.Len(t, calls, 1)
		assert.Equal(t, entry.InstanceID.String(), calls[0].Key)
		assert.Equal(t, entry, calls[0].Item)
		assert.Equal(t, 1500, calls[0].TtlMs)
	})

	t.Run("publish_rejects_incomplete_entry", func(t *testing.T) {
		cache := &mock.CacheMock[domain.DirectoryEntry]{}
		dir := NewInstanceDirectory(cache)

		err := dir.Publish(ctx, domain.DirectoryEntry{InstanceID: entry.InstanceID}, time.Second)
		assert.True(t, domain.IsClusterError(err, domain.CodeBadParameter))
		assert.Empty(t, cache.WriteValueCalls())
	})

	t.Run("list_and_remove_delegate", func(t *testing.T) {
		cache := &mock.CacheMock[domain.DirectoryEntry]{
			ListAllValuesFunc: func(context.Context) ([]domain.DirectoryEntry, error) {
				return []domain.DirectoryEntry{entry}, nil
			},
		}
		dir := NewInstanceDirectory(cache)

		got, err := dir.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []domain.DirectoryEntry{entry}, got)

		require.NoError(t, dir.Remove(ctx, entry.InstanceID))
		require.Len(t, cache.DeleteValueCalls(), 1)
		assert.Equal(t, entry.InstanceID.String(), cache.DeleteValueCalls()[0].Key)
	})

	t.Run("nil_cache_panics", func(t *testing.T) {
		assert.PanicsWithValue(t, "service.instance_directory.go: cache is required", func() {
			NewInstanceDirectory(nil)
		})
	})
}

func TestRunHeartbeat(t *testing.T) {
	entry := domain.DirectoryEntry{InstanceID: domain.NewInstanceID(), ConnectAddress: "tcp://10.0.0.1:5555"}
	dir := &mock.DirectoryMock{
		PublishFunc: func(context.Context, domain.DirectoryEntry, time.Duration) error { return assert.AnError },
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- RunHeartbeat(ctx, dir, entry, 10*time.Millisecond, time.Second, log.NewNopLogger()) }()

	require.Eventually(t, func() bool { return len(dir.PublishCalls()) >= 3 }, waitFor, tick)
	cancel()
	assert.NoError(t, receive(t, done))

	published := dir.PublishCalls()[0]
	assert.Equal(t, entry.InstanceID, published.Entry.InstanceID)
	assert.False(t, published.Entry.Timestamp.IsZero())
	assert.Equal(t, time.Second, published.Ttl)
	require.Len(t, dir.RemoveCalls(), 1)
	assert.Equal(t, entry.InstanceID, dir.RemoveCalls()[0].Instance)
}
