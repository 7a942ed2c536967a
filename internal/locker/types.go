// Package locker serializes work per key, through Redis when configured and
// in process memory otherwise.
package locker

import (
	"context"
	"errors"
	"time"
)

// Default lock timings.
const (
	DefaultTTL         = 30 * time.Second
	DefaultWaitTimeout = 10 * time.Second
	retryInterval      = 25 * time.Millisecond
)

// ErrLockTimeout is returned when a key stays held past the wait timeout.
var ErrLockTimeout = errors.New("locker: wait timeout")

// Backend acquires exclusive ownership of a key.
type Backend interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}
