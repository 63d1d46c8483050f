package poller

import (
	"context"
	"sync"
	"time"

	"github.com/kmwangi/mpesa-gateway/internal/domain/entity"
	coreport "github.com/kmwangi/mpesa-gateway/internal/domain/port/core"
)

// Phase is the observable state of a polling session.
type Phase string

const (
	PhaseChecking Phase = "checking"
	PhaseSettled  Phase = "settled"
	PhaseErrored  Phase = "errored"
)

// CheckFunc performs one status check. rateLimited reports that the
// gateway (or the vendor behind it) throttled the check; that is not an
// error, it just means the caller should slow down.
type CheckFunc func(ctx context.Context) (status entity.TransactionStatus, rateLimited bool, err error)

// Config holds the polling interval tiers. The interval starts at Base,
// widens to Pending while the transaction stays PENDING, and widens again
// to RateLimited under vendor throttling. It never narrows within a
// session.
type Config struct {
	Base        time.Duration
	Pending     time.Duration
	RateLimited time.Duration
}

// DefaultConfig mirrors the tiers the payment frontend uses: 5s to start,
// 10s while pending, 30s when rate limited.
func DefaultConfig() Config {
	return Config{
		Base:        5 * time.Second,
		Pending:     10 * time.Second,
		RateLimited: 30 * time.Second,
	}
}

// Snapshot is a point-in-time view of a polling session.
type Snapshot struct {
	Phase    Phase
	Status   entity.TransactionStatus
	Interval time.Duration
	Checks   int
}

// Poller re-queries a transaction's status until a terminal state is
// observed or the context is cancelled. One Poller serves one session; it
// never outlives its context, so no timers survive the caller going away.
type Poller struct {
	check  CheckFunc
	config Config
	logger coreport.Logger

	mu       sync.Mutex
	snapshot Snapshot
	updates  chan Snapshot
}

// New creates a poller for a single status view.
func New(check CheckFunc, config Config, logger coreport.Logger) *Poller {
	return &Poller{
		check:   check,
		config:  config,
		logger:  logger,
		updates: make(chan Snapshot, 8),
		snapshot: Snapshot{
			Phase:    PhaseChecking,
			Interval: config.Base,
		},
	}
}

// Snapshot returns the current session state. Safe for concurrent use.
func (p *Poller) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot
}

// Updates exposes a stream of snapshots, one per check. A slow observer
// misses intermediate snapshots rather than stalling the poll loop. The
// channel closes when Run returns.
func (p *Poller) Updates() <-chan Snapshot {
	return p.updates
}

// Run polls until the status settles, the check fails, or ctx is
// cancelled. The first check happens immediately; later checks follow the
// widening interval tiers.
func (p *Poller) Run(ctx context.Context) (entity.TransactionStatus, error) {
	timer := time.NewTimer(0)
	defer timer.Stop()
	defer close(p.updates)

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}

		status, rateLimited, err := p.check(ctx)
		if err != nil {
			p.transition(PhaseErrored, status, 0)
			return "", err
		}

		if status.IsTerminal() {
			p.transition(PhaseSettled, status, 0)
			p.logger.Info("Polling settled", map[string]any{
				"status": status,
				"checks": p.Snapshot().Checks,
			})
			return status, nil
		}

		interval := p.nextInterval(rateLimited)
		p.transition(PhaseChecking, status, interval)
		timer.Reset(interval)
	}
}

// nextInterval widens the re-query interval per the backoff contract and
// never narrows it again within this session.
func (p *Poller) nextInterval(rateLimited bool) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	current := p.snapshot.Interval
	if rateLimited && current < p.config.RateLimited {
		return p.config.RateLimited
	}
	if !rateLimited && current < p.config.Pending {
		return p.config.Pending
	}
	return current
}

func (p *Poller) transition(phase Phase, status entity.TransactionStatus, interval time.Duration) {
	p.mu.Lock()
	p.snapshot.Phase = phase
	p.snapshot.Status = status
	p.snapshot.Checks++
	if interval > 0 {
		p.snapshot.Interval = interval
	}
	snapshot := p.snapshot
	p.mu.Unlock()

	select {
	case p.updates <- snapshot:
	default:
	}
}
