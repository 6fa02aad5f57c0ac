package myredis

import (
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ConfigOption adjusts the parsed redis options before the client is built.
type ConfigOption func(*redis.Options)

// WithDialTimeout overrides the dial timeout parsed from the URL.
func WithDialTimeout(d time.Duration) ConfigOption {
	return func(o *redis.Options) { o.DialTimeout = d }
}

// NewRedisUniversalClient creates a universal client from a redis:// URL.
//
// Returns: (client, nil); (nil, error) when the URL cannot be parsed.
//
// Called from cmd/instanced when REDIS_ADDR is set.
func NewRedisUniversalClient(redisAddr string, options ...ConfigOption) (redis.UniversalClient, error) {
	redisOptions, err := redis.ParseURL(redisAddr)
	if err != nil {
		return nil, fmt.Errorf("cant parse redis url: %w", err)
	}
	for _, opt := range options {
		opt(redisOptions)
	}
	return redis.NewUniversalClient(universalOptions(redisOptions)), nil
}

func universalOptions(options *redis.Options) *redis.UniversalOptions {
	return &redis.UniversalOptions{
		Addrs:        []string{options.Addr},
		DB:           options.DB,
		Username:     options.Username,
		Password:     options.Password,
		WriteTimeout: options.WriteTimeout,
		ReadTimeout:  options.ReadTimeout,
		DialTimeout:  options.DialTimeout,
		MaxRetries:   options.MaxRetries,
		PoolSize:     options.PoolSize,
		PoolTimeout:  options.PoolTimeout,
		MinIdleConns: options.MinIdleConns,
		IdleTimeout:  options.IdleTimeout,
	}
}
