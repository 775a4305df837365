package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Counter is a bound, observable counter handle. It is immutable and safe for
// concurrent use; the backend child carries its own synchronization and this
// layer adds none.
//
// A Counter is either family-level (created by Provider.NewCounter, no
// labels) or narrowed (created by CounterFamily.Label). Only family-level
// handles can surrender their backend collector through Collector.
type Counter struct {
	name      string
	runner    Runner
	counter   prometheus.Counter
	collector prometheus.Collector // family-level collector; nil once narrowed
}

// Inc increments the counter by 1.
func (c Counter) Inc(ctx context.Context) {
	c.runner(ctx, func(context.Context) { c.counter.Inc() })
}

// Add adds the given value to the counter. The value must be >= 0.
func (c Counter) Add(ctx context.Context, delta float64) {
	c.runner(ctx, func(context.Context) { c.counter.Add(delta) })
}

// Value reads the current value back from the backend.
func (c Counter) Value() float64 {
	metric := &dto.Metric{}
	if err := c.counter.Write(metric); err != nil {
		return 0
	}
	return metric.GetCounter().GetValue()
}

// WithRunner returns a copy of the handle recording through the transformed
// Runner. The binding and registration are untouched: the copy addresses the
// same backend child and Collector resolves identically.
func (c Counter) WithRunner(m Middleware) Counter {
	c.runner = m(c.runner)
	return c
}

// Collector returns the family-level backend collector, or a NarrowedError if
// the handle is already bound to specific label values. The backend has no
// object representing a single label combination apart from its family, so a
// narrowed handle has nothing safe to surrender here.
func (c Counter) Collector() (prometheus.Collector, error) {
	if c.collector == nil {
		return nil, &NarrowedError{Name: c.name}
	}
	return c.collector, nil
}

// Gauge is a bound, observable gauge handle. Same lifecycle and concurrency
// contract as Counter.
type Gauge struct {
	name      string
	runner    Runner
	gauge     prometheus.Gauge
	collector prometheus.Collector
}

// Set sets the gauge to the given value.
func (g Gauge) Set(ctx context.Context, value float64) {
	g.runner(ctx, func(context.Context) { g.gauge.Set(value) })
}

// Inc increments the gauge by 1.
func (g Gauge) Inc(ctx context.Context) {
	g.runner(ctx, func(context.Context) { g.gauge.Inc() })
}

// Dec decrements the gauge by 1.
func (g Gauge) Dec(ctx context.Context) {
	g.runner(ctx, func(context.Context) { g.gauge.Dec() })
}

// Add adds the given value to the gauge.
func (g Gauge) Add(ctx context.Context, delta float64) {
	g.runner(ctx, func(context.Context) { g.gauge.Add(delta) })
}

// Sub subtracts the given value from the gauge.
func (g Gauge) Sub(ctx context.Context, delta float64) {
	g.runner(ctx, func(context.Context) { g.gauge.Sub(delta) })
}

// SetToCurrentTime sets the gauge to the current Unix time in seconds.
func (g Gauge) SetToCurrentTime(ctx context.Context) {
	g.runner(ctx, func(context.Context) { g.gauge.SetToCurrentTime() })
}

// Value reads the current value back from the backend.
func (g Gauge) Value() float64 {
	metric := &dto.Metric{}
	if err := g.gauge.Write(metric); err != nil {
		return 0
	}
	return metric.GetGauge().GetValue()
}

// WithRunner returns a copy of the handle recording through the transformed
// Runner.
func (g Gauge) WithRunner(m Middleware) Gauge {
	g.runner = m(g.runner)
	return g
}

// Collector returns the family-level backend collector, or a NarrowedError if
// the handle is already bound to specific label values.
func (g Gauge) Collector() (prometheus.Collector, error) {
	if g.collector == nil {
		return nil, &NarrowedError{Name: g.name}
	}
	return g.collector, nil
}

// Histogram is a bound, observable histogram handle.
type Histogram struct {
	name      string
	runner    Runner
	observer  prometheus.Observer
	collector prometheus.Collector
}

// Observe adds a single observation to the histogram.
func (h Histogram) Observe(ctx context.Context, value float64) {
	h.runner(ctx, func(context.Context) { h.observer.Observe(value) })
}

// Time measures the monotonic duration of fn and records it in the requested
// unit, e.g. Time(ctx, time.Millisecond, fn) records milliseconds. The sample
// is recorded in a deferred finalizer, so it lands whether fn returns
// normally, returns an error, panics, or quits early on context cancellation;
// fn's outcome is passed through unchanged.
func (h Histogram) Time(ctx context.Context, unit time.Duration, fn func(context.Context) error) error {
	start := time.Now()
	defer func() {
		h.Observe(ctx, float64(time.Since(start))/float64(unit))
	}()
	return fn(ctx)
}

// Count reads the total number of observations back from the backend.
func (h Histogram) Count() uint64 {
	metric, ok := writeMetric(h.observer)
	if !ok {
		return 0
	}
	return metric.GetHistogram().GetSampleCount()
}

// Sum reads the sum of all observed values back from the backend.
func (h Histogram) Sum() float64 {
	metric, ok := writeMetric(h.observer)
	if !ok {
		return 0
	}
	return metric.GetHistogram().GetSampleSum()
}

// WithRunner returns a copy of the handle recording through the transformed
// Runner.
func (h Histogram) WithRunner(m Middleware) Histogram {
	h.runner = m(h.runner)
	return h
}

// Collector returns the family-level backend collector, or a NarrowedError if
// the handle is already bound to specific label values.
func (h Histogram) Collector() (prometheus.Collector, error) {
	if h.collector == nil {
		return nil, &NarrowedError{Name: h.name}
	}
	return h.collector, nil
}

// Summary is a bound, observable summary handle.
type Summary struct {
	name      string
	runner    Runner
	observer  prometheus.Observer
	collector prometheus.Collector
}

// Observe adds a single observation to the summary.
func (s Summary) Observe(ctx context.Context, value float64) {
	s.runner(ctx, func(context.Context) { s.observer.Observe(value) })
}

// Time measures the monotonic duration of fn and records it in the requested
// unit. See Histogram.Time for the finalizer contract.
func (s Summary) Time(ctx context.Context, unit time.Duration, fn func(context.Context) error) error {
	start := time.Now()
	defer func() {
		s.Observe(ctx, float64(time.Since(start))/float64(unit))
	}()
	return fn(ctx)
}

// Count reads the total number of observations back from the backend.
func (s Summary) Count() uint64 {
	metric, ok := writeMetric(s.observer)
	if !ok {
		return 0
	}
	return metric.GetSummary().GetSampleCount()
}

// Sum reads the sum of all observed values back from the backend.
func (s Summary) Sum() float64 {
	metric, ok := writeMetric(s.observer)
	if !ok {
		return 0
	}
	return metric.GetSummary().GetSampleSum()
}

// WithRunner returns a copy of the handle recording through the transformed
// Runner.
func (s Summary) WithRunner(m Middleware) Summary {
	s.runner = m(s.runner)
	return s
}

// Collector returns the family-level backend collector, or a NarrowedError if
// the handle is already bound to specific label values.
func (s Summary) Collector() (prometheus.Collector, error) {
	if s.collector == nil {
		return nil, &NarrowedError{Name: s.name}
	}
	return s.collector, nil
}

// writeMetric snapshots an observer into the backend's wire representation.
// Vec children and plain histograms/summaries both implement
// prometheus.Metric; the fallback covers exotic observers that do not.
func writeMetric(o prometheus.Observer) (*dto.Metric, bool) {
	m, ok := o.(prometheus.Metric)
	if !ok {
		return nil, false
	}
	metric := &dto.Metric{}
	if err := m.Write(metric); err != nil {
		return nil, false
	}
	return metric, true
}
