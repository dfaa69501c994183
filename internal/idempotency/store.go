// Package idempotency replays the stored response of a request retried with
// the same Idempotency-Key header.
package idempotency

import (
	"context"
	"time"
)

const (
	statePending = "pending"
	stateDone    = "done"
)

type Record struct {
	State       string `json:"state"`
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

func (r *Record) Done() bool {
	return r != nil && r.State == stateDone
}

type Store interface {
	// Reserve claims key for one in-flight request. It reports false when the
	// key is already claimed or completed.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Load returns nil when key is unknown.
	Load(ctx context.Context, key string) (*Record, error)
	Save(ctx context.Context, key string, rec Record, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}
