package idempotency

import "context"

// Store remembers which invoice an Idempotency-Key produced.
type Store interface {
	// Claim reserves key for a new request. When the key was already
	// claimed it returns claimed=false and the stored invoiceId, which is
	// empty while the first request is still in flight.
	Claim(ctx context.Context, key string) (invoiceID string, claimed bool, err error)
	// Complete records the invoice produced under key.
	Complete(ctx context.Context, key, invoiceID string) error
	// Release drops a claim whose request failed before anything was
	// persisted, so the client may retry with the same key.
	Release(ctx context.Context, key string) error
}

// Noop accepts every key as new. Used when Redis is not configured.
type Noop struct{}

func (Noop) Claim(context.Context, string) (string, bool, error) { return "", true, nil }

func (Noop) Complete(context.Context, string, string) error { return nil }

func (Noop) Release(context.Context, string) error { return nil }
