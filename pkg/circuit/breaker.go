// Package circuit implements a small circuit breaker used to guard the
// pluggable match scorer. An open breaker short-circuits straight into the
// caller's fallback, which for the dedup engine means algorithmic-only
// scoring instead of a stalled batch.
package circuit

import (
	"context"
	"errors"
	"sync"
	"time"

	"business-dedup/pkg/logging"
	"business-dedup/pkg/metrics"
)

// State represents the circuit breaker state.
// Closed: normal operation; HalfOpen: probing; Open: fail fast.
type State int

const (
	Closed State = iota
	Open
	HalfOpen
)

// Config tunes a circuit breaker instance.
type Config struct {
	Name string

	OperationTimeout  time.Duration // per-call timeout
	OpenFor           time.Duration // how long to stay open before probing
	MaxConsecFailures int           // consecutive failures to open
	WindowSize        int           // sliding window of recent calls
	FailureRate       float64       // 0..1 fraction in window to open
	SlowCallThreshold time.Duration // duration over which a call counts as slow
	SlowCallRate      float64       // 0..1 fraction in window to open
}

// ErrOpen indicates the breaker is open and calls are short-circuited.
var ErrOpen = errors.New("circuit open")

type sample struct {
	success bool
	slow    bool
}

type Breaker struct {
	cfg        Config
	mu         sync.Mutex
	st         State
	nextProbe  time.Time
	consecFail int

	win  []sample
	idx  int
	used int

	log      *logging.Logger
	mState   *metrics.Gauge
	mOpens   *metrics.Counter
	mSuccess *metrics.Counter
	mFailure *metrics.Counter
	mLatency *metrics.Histogram
}

func New(cfg Config, log *logging.Logger) *Breaker {
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = 20
	}
	if log == nil {
		log = logging.Discard()
	}
	b := &Breaker{
		cfg:      cfg,
		st:       Closed,
		win:      make([]sample, cfg.WindowSize),
		log:      log.WithComponent("circuit"),
		mState:   metrics.Default.Gauge("cb_"+cfg.Name+"_state", "Circuit breaker state (0=closed,1=open,2=half-open)"),
		mOpens:   metrics.Default.Counter("cb_"+cfg.Name+"_opens", "Circuit opened events"),
		mSuccess: metrics.Default.Counter("cb_"+cfg.Name+"_success", "Successful calls through circuit"),
		mFailure: metrics.Default.Counter("cb_"+cfg.Name+"_failure", "Failed calls through circuit"),
		mLatency: metrics.Default.Histogram("cb_"+cfg.Name+"_latency_ms", "Latency of calls (ms)", []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000}),
	}
	b.mState.Set(0)
	return b
}

func (b *Breaker) setStateLocked(st State) {
	if b.st == st {
		return
	}
	b.st = st
	switch st {
	case Open:
		b.mOpens.Inc()
		b.mState.Set(1)
	case HalfOpen:
		b.mState.Set(2)
	case Closed:
		b.mState.Set(0)
	}
	b.log.Info("breaker state change",
		logging.String("name", b.cfg.Name), logging.Int("state", int(st)))
}

// record adds a sample into the ring and opens on threshold breach.
func (b *Breaker) record(success, slow bool) {
	b.win[b.idx] = sample{success: success, slow: slow}
	if b.used < len(b.win) {
		b.used++
	}
	b.idx = (b.idx + 1) % len(b.win)

	fail, slowN := 0, 0
	for i := 0; i < b.used; i++ {
		if !b.win[i].success {
			fail++
		}
		if b.win[i].slow {
			slowN++
		}
	}
	failRate := float64(fail) / float64(b.used)
	slowRate := float64(slowN) / float64(b.used)

	if b.st != Closed {
		return
	}
	open := (b.cfg.MaxConsecFailures > 0 && b.consecFail >= b.cfg.MaxConsecFailures) ||
		(b.cfg.FailureRate > 0 && failRate >= b.cfg.FailureRate) ||
		(b.cfg.SlowCallRate > 0 && slowRate >= b.cfg.SlowCallRate)
	if open {
		b.setStateLocked(Open)
		b.nextProbe = time.Now().Add(b.cfg.OpenFor)
	}
}

// State reports the current breaker state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.st
}

// Do runs op under the breaker. If open, runs fallback if provided, otherwise
// returns ErrOpen. op returns error only; outputs are captured via closures.
func (b *Breaker) Do(ctx context.Context, op func(ctx context.Context) error, fallback func(ctx context.Context, cause error) error) error {
	b.mu.Lock()
	if b.st == Open {
		if time.Now().Before(b.nextProbe) {
			b.mu.Unlock()
			if fallback != nil {
				return fallback(ctx, ErrOpen)
			}
			return ErrOpen
		}
		b.setStateLocked(HalfOpen)
	}
	b.mu.Unlock()

	if b.cfg.OperationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.cfg.OperationTimeout)
		defer cancel()
	}

	start := time.Now()
	err := op(ctx)
	dur := time.Since(start)
	b.mLatency.Observe(float64(dur / time.Millisecond))
	slow := b.cfg.SlowCallThreshold > 0 && dur > b.cfg.SlowCallThreshold

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.consecFail++
		b.mFailure.Inc()
		b.record(false, slow)
		if b.st == HalfOpen {
			// probe failed, back to open
			b.setStateLocked(Open)
			b.nextProbe = time.Now().Add(b.cfg.OpenFor)
		}
		if fallback != nil {
			return fallback(ctx, err)
		}
		return err
	}

	b.consecFail = 0
	b.mSuccess.Inc()
	b.record(true, slow)
	if b.st == HalfOpen {
		b.setStateLocked(Closed)
	}
	return nil
}
