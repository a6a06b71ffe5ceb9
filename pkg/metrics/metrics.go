// Package metrics implements simple, dependency-free metrics with Prometheus
// text exposition. Atomic values, mutex-protected registry; the surrounding
// application decides whether and where to mount the handler.
package metrics

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Counter is a monotonically increasing number.
type Counter struct {
	name string
	help string
	val  atomic.Int64
}

func (c *Counter) Inc()             { c.val.Add(1) }
func (c *Counter) Add(delta int64)  { c.val.Add(delta) }
func (c *Counter) Get() int64       { return c.val.Load() }

// Gauge is an arbitrary float64 that can go up and down.
type Gauge struct {
	name string
	help string
	bits atomic.Uint64 // float64 bits
}

func (g *Gauge) Set(v float64) { g.bits.Store(math.Float64bits(v)) }
func (g *Gauge) Get() float64  { return math.Float64frombits(g.bits.Load()) }
func (g *Gauge) Add(delta float64) {
	for {
		old := g.bits.Load()
		nv := math.Float64frombits(old) + delta
		if g.bits.CompareAndSwap(old, math.Float64bits(nv)) {
			return
		}
	}
}

// Histogram tracks observations against fixed, sorted upper bounds. The last
// bucket is always +Inf.
type Histogram struct {
	name    string
	help    string
	buckets []float64
	counts  []atomic.Uint64
	sum     atomic.Uint64 // float64 bits
	count   atomic.Uint64
}

func (h *Histogram) Observe(v float64) {
	idx := len(h.buckets) - 1
	for i, ub := range h.buckets {
		if v <= ub {
			idx = i
			break
		}
	}
	h.counts[idx].Add(1)
	h.count.Add(1)
	for {
		old := h.sum.Load()
		nv := math.Float64frombits(old) + v
		if h.sum.CompareAndSwap(old, math.Float64bits(nv)) {
			return
		}
	}
}

// Timer is a minimal helper for observing durations in seconds.
type Timer struct {
	h     *Histogram
	start time.Time
}

func (h *Histogram) Start() Timer { return Timer{h: h, start: time.Now()} }
func (t Timer) Observe() {
	if t.h != nil {
		t.h.Observe(time.Since(t.start).Seconds())
	}
}

// Registry holds all metrics.
type Registry struct {
	mu         sync.RWMutex
	counters   map[string]*Counter
	gauges     map[string]*Gauge
	histograms map[string]*Histogram
}

func NewRegistry() *Registry {
	return &Registry{
		counters:   make(map[string]*Counter),
		gauges:     make(map[string]*Gauge),
		histograms: make(map[string]*Histogram),
	}
}

var Default = NewRegistry()

func (r *Registry) Counter(name, help string) *Counter {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.counters[name]; ok {
		return c
	}
	c := &Counter{name: sanitize(name), help: help}
	r.counters[name] = c
	return c
}

func (r *Registry) Gauge(name, help string) *Gauge {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.gauges[name]; ok {
		return g
	}
	g := &Gauge{name: sanitize(name), help: help}
	r.gauges[name] = g
	return g
}

func (r *Registry) Histogram(name, help string, buckets []float64) *Histogram {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.histograms[name]; ok {
		return h
	}
	sorted := append([]float64{}, buckets...)
	sort.Float64s(sorted)
	if len(sorted) == 0 || !math.IsInf(sorted[len(sorted)-1], 1) {
		sorted = append(sorted, math.Inf(1))
	}
	h := &Histogram{
		name:    sanitize(name),
		help:    help,
		buckets: sorted,
		counts:  make([]atomic.Uint64, len(sorted)),
	}
	r.histograms[name] = h
	return h
}

// WriteTo renders the registry in Prometheus text format with stable metric
// ordering for deterministic tests.
func (r *Registry) WriteTo(w io.Writer) {
	r.mu.RLock()
	cn := keys(r.counters)
	gn := keys(r.gauges)
	hn := keys(r.histograms)
	counters := r.counters
	gauges := r.gauges
	histograms := r.histograms
	r.mu.RUnlock()

	for _, name := range cn {
		c := counters[name]
		fmt.Fprintf(w, "# HELP %s %s\n", c.name, escapeHelp(c.help))
		fmt.Fprintf(w, "# TYPE %s counter\n", c.name)
		fmt.Fprintf(w, "%s %d\n", c.name, c.Get())
	}
	for _, name := range gn {
		g := gauges[name]
		fmt.Fprintf(w, "# HELP %s %s\n", g.name, escapeHelp(g.help))
		fmt.Fprintf(w, "# TYPE %s gauge\n", g.name)
		fmt.Fprintf(w, "%s %g\n", g.name, g.Get())
	}
	for _, name := range hn {
		h := histograms[name]
		fmt.Fprintf(w, "# HELP %s %s\n", h.name, escapeHelp(h.help))
		fmt.Fprintf(w, "# TYPE %s histogram\n", h.name)
		var cum uint64
		for i, ub := range h.buckets {
			cum += h.counts[i].Load()
			label := fmt.Sprintf("%g", ub)
			if math.IsInf(ub, 1) {
				label = "+Inf"
			}
			fmt.Fprintf(w, "%s_bucket{le=%q} %d\n", h.name, label, cum)
		}
		fmt.Fprintf(w, "%s_sum %g\n", h.name, math.Float64frombits(h.sum.Load()))
		fmt.Fprintf(w, "%s_count %d\n", h.name, h.count.Load())
	}
}

// Handler exposes the registry over HTTP for callers that want scraping; the
// engine itself never starts a server.
func (r *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		r.WriteTo(w)
	})
}

func sanitize(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

func escapeHelp(s string) string { return strings.ReplaceAll(s, "\n", " ") }

func keys[T any](m map[string]T) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}
