package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a previously acquired distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker coordinates session access across multiple replicas.
// A single process serializes access with the in-process session manager;
// deployments running several instances against a shared store plug in a
// distributed implementation (e.g. Redis).
type DistributedLocker interface {
	// Lock acquires a lock for the given key (usually a session ID),
	// blocking until the lock is held or the context is canceled. The
	// lock self-expires after ttl. The returned UnlockFunc MUST be
	// called to release the lock early.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
