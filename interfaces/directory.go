package interfaces

import (
	"context"
	"time"

	"mycluster/domain"
)

// Directory publishes which instances are alive and where their control sockets listen.
//
// Implemented by service.InstanceDirectory over a Cache[domain.DirectoryEntry].
//
//go:generate moq -stub -out mock/directory.go -pkg mock . Directory
type Directory interface {
	Publish(ctx context.Context, entry domain.DirectoryEntry, ttl time.Duration) error
	List(ctx context.Context) ([]domain.DirectoryEntry, error)
	Remove(ctx context.Context, instance domain.InstanceID) error
}
