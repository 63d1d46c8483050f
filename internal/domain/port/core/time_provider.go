package core

import (
	"context"
	"time"
)

// TimeProvider abstracts time operations so they can be controlled in tests.
// The Daraja password derivation depends on wall-clock timestamps, which
// makes an injectable clock a requirement rather than a convenience.
type TimeProvider interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc)
}
