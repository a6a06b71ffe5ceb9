package metrics

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestCounterConcurrent(t *testing.T) {
	r := NewRegistry()
	c := r.Counter("comparisons_total", "test counter")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Inc()
			}
		}()
	}
	wg.Wait()

	if got := c.Get(); got != 5000 {
		t.Fatalf("counter = %d, want 5000", got)
	}
}

func TestRegistryReturnsSameInstrument(t *testing.T) {
	r := NewRegistry()
	a := r.Counter("x_total", "x")
	b := r.Counter("x_total", "x")
	if a != b {
		t.Fatal("same name produced different counters")
	}
}

func TestGaugeSetAndAdd(t *testing.T) {
	r := NewRegistry()
	g := r.Gauge("threshold", "test gauge")
	g.Set(0.8)
	g.Add(0.1)

	if got := g.Get(); got < 0.89 || got > 0.91 {
		t.Fatalf("gauge = %v, want 0.9", got)
	}
}

func TestHistogramBuckets(t *testing.T) {
	r := NewRegistry()
	h := r.Histogram("batch_seconds", "test histogram", []float64{1, 5, 10})
	h.Observe(0.5)
	h.Observe(3)
	h.Observe(100)

	var buf bytes.Buffer
	r.WriteTo(&buf)
	out := buf.String()

	for _, want := range []string{
		`batch_seconds_bucket{le="1"} 1`,
		`batch_seconds_bucket{le="5"} 2`,
		`batch_seconds_bucket{le="+Inf"} 3`,
		`batch_seconds_count 3`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("exposition missing %q:\n%s", want, out)
		}
	}
}

func TestExpositionFormat(t *testing.T) {
	r := NewRegistry()
	r.Counter("dedup_comparisons_total", "Pairwise record comparisons").Add(7)

	var buf bytes.Buffer
	r.WriteTo(&buf)
	out := buf.String()

	if !strings.Contains(out, "# HELP dedup_comparisons_total Pairwise record comparisons") {
		t.Errorf("missing HELP line:\n%s", out)
	}
	if !strings.Contains(out, "# TYPE dedup_comparisons_total counter") {
		t.Errorf("missing TYPE line:\n%s", out)
	}
	if !strings.Contains(out, "dedup_comparisons_total 7") {
		t.Errorf("missing sample line:\n%s", out)
	}
}
