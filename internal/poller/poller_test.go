package poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmwangi/mpesa-gateway/internal/domain/entity"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]any) {}
func (nopLogger) Info(string, map[string]any)  {}
func (nopLogger) Warn(string, map[string]any)  {}
func (nopLogger) Error(string, map[string]any) {}
func (nopLogger) Flush() error                 { return nil }

func fastConfig() Config {
	return Config{
		Base:        time.Millisecond,
		Pending:     2 * time.Millisecond,
		RateLimited: 5 * time.Millisecond,
	}
}

func TestRunSettles(t *testing.T) {
	answers := []entity.TransactionStatus{
		entity.StatusPending,
		entity.StatusPending,
		entity.StatusSuccess,
	}
	calls := 0
	check := func(ctx context.Context) (entity.TransactionStatus, bool, error) {
		status := answers[calls]
		calls++
		return status, false, nil
	}

	p := New(check, fastConfig(), nopLogger{})
	status, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.StatusSuccess, status)
	assert.Equal(t, 3, calls)

	snap := p.Snapshot()
	assert.Equal(t, PhaseSettled, snap.Phase)
	assert.Equal(t, entity.StatusSuccess, snap.Status)
	assert.Equal(t, 3, snap.Checks)
}

func TestRunWidensWhilePending(t *testing.T) {
	cfg := fastConfig()
	calls := 0
	p := New(func(ctx context.Context) (entity.TransactionStatus, bool, error) {
		calls++
		if calls >= 3 {
			return entity.StatusSuccess, false, nil
		}
		return entity.StatusPending, false, nil
	}, cfg, nopLogger{})

	var intervals []time.Duration
	done := make(chan struct{})
	go func() {
		defer close(done)
		for snap := range p.Updates() {
			intervals = append(intervals, snap.Interval)
		}
	}()

	_, err := p.Run(context.Background())
	require.NoError(t, err)
	<-done

	require.NotEmpty(t, intervals)
	for i := 1; i < len(intervals); i++ {
		assert.GreaterOrEqual(t, intervals[i], intervals[i-1])
	}
	assert.Equal(t, cfg.Pending, intervals[len(intervals)-2])
}

func TestRunWidensUnderThrottling(t *testing.T) {
	cfg := fastConfig()
	calls := 0
	p := New(func(ctx context.Context) (entity.TransactionStatus, bool, error) {
		calls++
		switch calls {
		case 1:
			return entity.StatusPending, true, nil
		case 2:
			// Throttling cleared; the interval must not narrow again.
			return entity.StatusPending, false, nil
		default:
			return entity.StatusSuccess, false, nil
		}
	}, cfg, nopLogger{})

	var intervals []time.Duration
	done := make(chan struct{})
	go func() {
		defer close(done)
		for snap := range p.Updates() {
			intervals = append(intervals, snap.Interval)
		}
	}()

	_, err := p.Run(context.Background())
	require.NoError(t, err)
	<-done

	require.GreaterOrEqual(t, len(intervals), 2)
	assert.Equal(t, cfg.RateLimited, intervals[0])
	assert.Equal(t, cfg.RateLimited, intervals[1])
}

func TestRunSurfacesCheckFailure(t *testing.T) {
	wantErr := errors.New("status check failed")
	p := New(func(ctx context.Context) (entity.TransactionStatus, bool, error) {
		return "", false, wantErr
	}, fastConfig(), nopLogger{})

	_, err := p.Run(context.Background())
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, PhaseErrored, p.Snapshot().Phase)
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := New(func(ctx context.Context) (entity.TransactionStatus, bool, error) {
		return entity.StatusPending, false, nil
	}, Config{Base: time.Hour, Pending: time.Hour, RateLimited: time.Hour}, nopLogger{})

	errCh := make(chan error, 1)
	go func() {
		_, err := p.Run(ctx)
		errCh <- err
	}()

	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop on cancellation")
	}
}

func TestUpdatesChannelCloses(t *testing.T) {
	p := New(func(ctx context.Context) (entity.TransactionStatus, bool, error) {
		return entity.StatusSuccess, false, nil
	}, fastConfig(), nopLogger{})

	_, err := p.Run(context.Background())
	require.NoError(t, err)

	_, open := <-p.Updates()
	for open {
		_, open = <-p.Updates()
	}
}
