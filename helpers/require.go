// Package helpers holds fail-fast constructor checks shared by the service, adapter and cmd packages.
package helpers

import (
	"reflect"
	"time"
)

// StrPanic panics with panicMessage if s is empty; otherwise returns s. Only s == "" is checked.
//
// Called from constructors that take addresses (service.NewConnectionPool, service.NewControlClient,
// service.NewInstanceServer, myredis.NewRedisUniversalClient).
func StrPanic(s string, panicMessage string) string {
	if s == "" {
		panic(panicMessage)
	}
	return s
}

// NilPanic panics with panicMessage if v is nil (nil interface, pointer, slice, map, chan or func); otherwise
// returns v unchanged.
//
// Called from every service constructor when validating required collaborators (logger, codec, pool,
// security chain, registry).
func NilPanic[T any](v T, panicMessage string) T {
	if isNil(v) {
		panic(panicMessage)
	}
	return v
}

// DurationOr returns d when it is positive and fallback otherwise. Used for optional timeouts and
// intervals where zero means "use the default".
func DurationOr(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
