package daraja

import (
	"context"
	"sync"
	"time"

	coreport "github.com/kmwangi/mpesa-gateway/internal/domain/port/core"
)

// tokenSource caches the OAuth bearer token behind a mutex so concurrent
// vendor calls share one authentication round-trip instead of each
// re-authenticating.
type tokenSource struct {
	fetch        func(ctx context.Context) (token string, ttl time.Duration, err error)
	margin       time.Duration
	timeProvider coreport.TimeProvider

	mu     sync.Mutex
	token  string
	expiry time.Time
}

func newTokenSource(
	fetch func(ctx context.Context) (string, time.Duration, error),
	margin time.Duration,
	timeProvider coreport.TimeProvider,
) *tokenSource {
	return &tokenSource{
		fetch:        fetch,
		margin:       margin,
		timeProvider: timeProvider,
	}
}

// Token returns a valid bearer token, refreshing it when the cached one is
// within the safety margin of its expiry.
func (t *tokenSource) Token(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.timeProvider.Now()
	if t.token != "" && now.Before(t.expiry) {
		return t.token, nil
	}

	token, ttl, err := t.fetch(ctx)
	if err != nil {
		return "", err
	}

	t.token = token
	t.expiry = now.Add(ttl - t.margin)
	return token, nil
}

// Invalidate drops the cached token so the next call re-authenticates.
func (t *tokenSource) Invalidate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = ""
	t.expiry = time.Time{}
}
