package circuit

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errBoom = errors.New("boom")

func failing(_ context.Context) error  { return errBoom }
func succeeds(_ context.Context) error { return nil }

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	b := New(Config{Name: "t1", MaxConsecFailures: 3, OpenFor: time.Minute}, nil)

	for i := 0; i < 3; i++ {
		if err := b.Do(context.Background(), failing, nil); !errors.Is(err, errBoom) {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if b.State() != Open {
		t.Fatalf("state = %v, want open", b.State())
	}
	if err := b.Do(context.Background(), succeeds, nil); !errors.Is(err, ErrOpen) {
		t.Fatalf("open breaker let a call through: %v", err)
	}
}

func TestOpenBreakerUsesFallback(t *testing.T) {
	b := New(Config{Name: "t2", MaxConsecFailures: 1, OpenFor: time.Minute}, nil)
	b.Do(context.Background(), failing, nil)

	fallbackRan := false
	err := b.Do(context.Background(), succeeds, func(_ context.Context, cause error) error {
		fallbackRan = true
		if !errors.Is(cause, ErrOpen) {
			t.Errorf("cause = %v, want ErrOpen", cause)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("fallback result not returned: %v", err)
	}
	if !fallbackRan {
		t.Fatal("fallback never ran")
	}
}

func TestHalfOpenProbeClosesOnSuccess(t *testing.T) {
	b := New(Config{Name: "t3", MaxConsecFailures: 1, OpenFor: 10 * time.Millisecond}, nil)
	b.Do(context.Background(), failing, nil)
	if b.State() != Open {
		t.Fatal("breaker did not open")
	}

	time.Sleep(20 * time.Millisecond)
	if err := b.Do(context.Background(), succeeds, nil); err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if b.State() != Closed {
		t.Fatalf("state = %v after successful probe, want closed", b.State())
	}
}

func TestOperationTimeout(t *testing.T) {
	b := New(Config{Name: "t4", OperationTimeout: 10 * time.Millisecond}, nil)

	err := b.Do(context.Background(), func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	}, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}

func TestFailureRateOpens(t *testing.T) {
	b := New(Config{Name: "t5", WindowSize: 4, FailureRate: 0.5, OpenFor: time.Minute}, nil)

	b.Do(context.Background(), succeeds, nil)
	b.Do(context.Background(), failing, nil)

	if b.State() != Open {
		t.Fatalf("state = %v, want open at 1/2 failure rate", b.State())
	}
}
