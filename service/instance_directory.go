package service

import (
	"context"
	"time"

	"mycluster/domain"
	"mycluster/helpers"
	"mycluster/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// InstanceDirectory publishes directory entries in a cache keyed by instance id.
type InstanceDirectory struct {
	cache interfaces.Cache[domain.DirectoryEntry]
}

var _ interfaces.Directory = (*InstanceDirectory)(nil)

// NewInstanceDirectory panics on a nil cache.
func NewInstanceDirectory(cache interfaces.Cache[domain.DirectoryEntry]) *InstanceDirectory {
	return &InstanceDirectory{cache: helpers.NilPanic(cache, "service.instance_directory.go: cache is required")}
}

// Publish writes entry for ttl; an entry that is not refreshed disappears.
func (d *InstanceDirectory) Publish(ctx context.Context, entry domain.DirectoryEntry, ttl time.Duration) error {
	if entry.InstanceID.IsZero() || entry.ConnectAddress == "" {
		return domain.NewBadParameterError("directory entry needs an instance id and a connect address", nil)
	}
	return d.cache.WriteValue(ctx, entry.InstanceID.String(), entry, int(ttl/time.Millisecond))
}

// List returns every live entry.
func (d *InstanceDirectory) List(ctx context.Context) ([]domain.DirectoryEntry, error) {
	return d.cache.ListAllValues(ctx)
}

// Remove deletes the entry of instance. Removing an absent entry is not an error.
func (d *InstanceDirectory) Remove(ctx context.Context, instance domain.InstanceID) error {
	return d.cache.DeleteValue(ctx, instance.String())
}

// RunHeartbeat publishes entry every interval with the given ttl until ctx is done, then removes it.
// Publish failures are logged and retried on the next tick.
//
// Called from cmd/instanced inside its errgroup.
func RunHeartbeat(ctx context.Context, dir interfaces.Directory, entry domain.DirectoryEntry, interval, ttl time.Duration, logger log.Logger) error {
	logger = log.With(logger, "component", "directory_heartbeat")
	publish := func() {
		entry.Timestamp = time.Now().UTC()
		if err := dir.Publish(ctx, entry, ttl); err != nil {
			level.Warn(logger).Log("msg", "directory publish failed", "err", err)
		}
	}

	publish()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			removeCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := dir.Remove(removeCtx, entry.InstanceID); err != nil {
				level.Warn(logger).Log("msg", "directory remove failed", "err", err)
			}
			return nil
		case <-ticker.C:
			publish()
		}
	}
}
