package outbound

import (
	"context"
	"time"
)

// LockPort provides a lease-based lock shared between instances.
type LockPort interface {
	// Acquire tries to take the lock for ttl. It does not block.
	// When acquired is false, release is nil.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, acquired bool, err error)
}
