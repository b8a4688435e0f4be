package db

import (
	"context"
	"fmt"
)

// Advisory lock namespaces. The namespace occupies the high 32 bits of the
// lock key so ids from different tables never collide.
const (
	LockNamespaceAthlete int64 = 1
)

const (
	advisoryLockQuery     = `SELECT pg_advisory_xact_lock($1)`
	advisoryTextLockQuery = `SELECT pg_advisory_xact_lock(hashtext($1))`
)

// LockKey combines a namespace and a row id into one advisory lock key.
func LockKey(namespace, id int64) int64 {
	return namespace<<32 | (id & 0xffffffff)
}

// AdvisoryXactLock blocks until the transaction-scoped lock for key is held.
// It is released automatically at commit or rollback.
func AdvisoryXactLock(ctx context.Context, q Queryer, key int64) error {
	if _, err := q.ExecContext(ctx, advisoryLockQuery, key); err != nil {
		return fmt.Errorf("acquire advisory lock %d: %w", key, err)
	}
	return nil
}

// AdvisoryXactLockText is AdvisoryXactLock keyed by the hash of an arbitrary string.
func AdvisoryXactLockText(ctx context.Context, q Queryer, key string) error {
	if _, err := q.ExecContext(ctx, advisoryTextLockQuery, key); err != nil {
		return fmt.Errorf("acquire advisory lock %q: %w", key, err)
	}
	return nil
}
