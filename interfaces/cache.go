package interfaces

import "context"

// Cache stores values under string keys with a TTL.
//
//go:generate moq -stub -out mock/cache.go -pkg mock . Cache
type Cache[T any] interface {
	// WriteValue writes value in cache with the given TTL.
	// Returns:
	// 1) nil on success;
	// 2) unknown_error when marshalling fails or when the storage write fails.
	WriteValue(ctx context.Context, key string, item T, ttlMs int) error

	// ListAllValues returns all values in the cache (lists keys then fetches values for them).
	// Returns:
	// 1) (items, nil), possibly empty;
	// 2) (nil, unknown_error) when listing keys fails (e.g. Redis error).
	ListAllValues(ctx context.Context) ([]T, error)

	// DeleteValue deletes the value for the given key from the cache.
	// Returns:
	// 1) nil on success;
	// 2) unknown_error when the storage delete fails.
	DeleteValue(ctx context.Context, key string) error
}
