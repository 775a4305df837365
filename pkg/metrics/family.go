package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Extractor derives the positional label values for a domain value. Position
// i of the returned slice pairs with position i of the family's label names;
// the order is never re-sorted. The returned length must equal the family's
// declared arity for every input. Go has no length-indexed slice type, so
// the contract is asserted once per Label call and violations fail fast with
// an ArityError instead of reaching the backend.
type Extractor[A any] func(A) []string

// CounterFamily is a registered counter descriptor not yet bound to label
// values. It is created once at setup time, lives for the process lifetime,
// and is stateless with respect to individual observations. Label resolves a
// domain value into a bound Counter; equal extractions address the same
// backend child, which the backend memoizes.
type CounterFamily[A any] struct {
	name    string
	labels  []Name
	extract Extractor[A]
	vec     *prometheus.CounterVec
	runner  Runner
}

// NewCounterFamily registers a counter family with len(labels) label
// dimensions, extracting label values from A. Registration failures,
// name collisions included, surface as a RegistrationError.
func NewCounterFamily[A any](p *Provider, opts CounterOpts, extract Extractor[A], labels ...Name) (*CounterFamily[A], error) {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   p.namespace,
		Subsystem:   p.subsystem,
		Name:        opts.Name.String(),
		Help:        opts.Help,
		ConstLabels: p.constLabels,
	}, nameStrings(labels))

	fqName := p.fqName(opts.Name)
	if err := p.register(fqName, vec); err != nil {
		return nil, err
	}

	return &CounterFamily[A]{
		name:    fqName,
		labels:  labels,
		extract: extract,
		vec:     vec,
		runner:  p.runner,
	}, nil
}

// Label binds a domain value to a Counter handle. The extraction is checked
// against the declared arity, then the child is resolved positionally.
func (f *CounterFamily[A]) Label(a A) (Counter, error) {
	values := f.extract(a)
	if len(values) != len(f.labels) {
		return Counter{}, &ArityError{Name: f.name, Want: len(f.labels), Got: len(values)}
	}
	child, err := f.vec.GetMetricWithLabelValues(values...)
	if err != nil {
		return Counter{}, fmt.Errorf("bind labels for %s: %w", f.name, err)
	}
	return Counter{name: f.name, runner: f.runner, counter: child}, nil
}

// MustLabel binds like Label and panics on error.
func (f *CounterFamily[A]) MustLabel(a A) Counter {
	c, err := f.Label(a)
	if err != nil {
		panic(fmt.Sprintf("failed to bind counter %s: %v", f.name, err))
	}
	return c
}

// Collector returns the family-level backend collector.
func (f *CounterFamily[A]) Collector() prometheus.Collector {
	return f.vec
}

// WithRunner returns a copy of the family whose handles record through the
// transformed Runner. Nothing is re-registered; handles already produced by
// the original family are unaffected.
func (f *CounterFamily[A]) WithRunner(m Middleware) *CounterFamily[A] {
	clone := *f
	clone.runner = m(f.runner)
	return &clone
}

// GaugeFamily is a registered gauge descriptor not yet bound to label values.
type GaugeFamily[A any] struct {
	name    string
	labels  []Name
	extract Extractor[A]
	vec     *prometheus.GaugeVec
	runner  Runner
}

// NewGaugeFamily registers a gauge family with len(labels) label dimensions.
func NewGaugeFamily[A any](p *Provider, opts GaugeOpts, extract Extractor[A], labels ...Name) (*GaugeFamily[A], error) {
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   p.namespace,
		Subsystem:   p.subsystem,
		Name:        opts.Name.String(),
		Help:        opts.Help,
		ConstLabels: p.constLabels,
	}, nameStrings(labels))

	fqName := p.fqName(opts.Name)
	if err := p.register(fqName, vec); err != nil {
		return nil, err
	}

	return &GaugeFamily[A]{
		name:    fqName,
		labels:  labels,
		extract: extract,
		vec:     vec,
		runner:  p.runner,
	}, nil
}

// Label binds a domain value to a Gauge handle.
func (f *GaugeFamily[A]) Label(a A) (Gauge, error) {
	values := f.extract(a)
	if len(values) != len(f.labels) {
		return Gauge{}, &ArityError{Name: f.name, Want: len(f.labels), Got: len(values)}
	}
	child, err := f.vec.GetMetricWithLabelValues(values...)
	if err != nil {
		return Gauge{}, fmt.Errorf("bind labels for %s: %w", f.name, err)
	}
	return Gauge{name: f.name, runner: f.runner, gauge: child}, nil
}

// MustLabel binds like Label and panics on error.
func (f *GaugeFamily[A]) MustLabel(a A) Gauge {
	g, err := f.Label(a)
	if err != nil {
		panic(fmt.Sprintf("failed to bind gauge %s: %v", f.name, err))
	}
	return g
}

// Collector returns the family-level backend collector.
func (f *GaugeFamily[A]) Collector() prometheus.Collector {
	return f.vec
}

// WithRunner returns a copy of the family whose handles record through the
// transformed Runner.
func (f *GaugeFamily[A]) WithRunner(m Middleware) *GaugeFamily[A] {
	clone := *f
	clone.runner = m(f.runner)
	return &clone
}

// HistogramFamily is a registered histogram descriptor not yet bound to label
// values.
type HistogramFamily[A any] struct {
	name    string
	labels  []Name
	extract Extractor[A]
	vec     *prometheus.HistogramVec
	runner  Runner
}

// NewHistogramFamily registers a histogram family with len(labels) label
// dimensions. Empty buckets fall back to DefaultBuckets; buckets must be
// sorted in increasing order.
func NewHistogramFamily[A any](p *Provider, opts HistogramOpts, extract Extractor[A], labels ...Name) (*HistogramFamily[A], error) {
	buckets := opts.Buckets
	if len(buckets) == 0 {
		buckets = DefaultBuckets
	}
	if err := ValidateBuckets(buckets); err != nil {
		return nil, err
	}

	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   p.namespace,
		Subsystem:   p.subsystem,
		Name:        opts.Name.String(),
		Help:        opts.Help,
		ConstLabels: p.constLabels,
		Buckets:     buckets,
	}, nameStrings(labels))

	fqName := p.fqName(opts.Name)
	if err := p.register(fqName, vec); err != nil {
		return nil, err
	}

	return &HistogramFamily[A]{
		name:    fqName,
		labels:  labels,
		extract: extract,
		vec:     vec,
		runner:  p.runner,
	}, nil
}

// Label binds a domain value to a Histogram handle.
func (f *HistogramFamily[A]) Label(a A) (Histogram, error) {
	values := f.extract(a)
	if len(values) != len(f.labels) {
		return Histogram{}, &ArityError{Name: f.name, Want: len(f.labels), Got: len(values)}
	}
	child, err := f.vec.GetMetricWithLabelValues(values...)
	if err != nil {
		return Histogram{}, fmt.Errorf("bind labels for %s: %w", f.name, err)
	}
	return Histogram{name: f.name, runner: f.runner, observer: child}, nil
}

// MustLabel binds like Label and panics on error.
func (f *HistogramFamily[A]) MustLabel(a A) Histogram {
	h, err := f.Label(a)
	if err != nil {
		panic(fmt.Sprintf("failed to bind histogram %s: %v", f.name, err))
	}
	return h
}

// Collector returns the family-level backend collector.
func (f *HistogramFamily[A]) Collector() prometheus.Collector {
	return f.vec
}

// WithRunner returns a copy of the family whose handles record through the
// transformed Runner.
func (f *HistogramFamily[A]) WithRunner(m Middleware) *HistogramFamily[A] {
	clone := *f
	clone.runner = m(f.runner)
	return &clone
}

// SummaryFamily is a registered summary descriptor not yet bound to label
// values.
type SummaryFamily[A any] struct {
	name    string
	labels  []Name
	extract Extractor[A]
	vec     *prometheus.SummaryVec
	runner  Runner
}

// NewSummaryFamily registers a summary family with len(labels) label
// dimensions. Empty objectives fall back to DefaultObjectives.
func NewSummaryFamily[A any](p *Provider, opts SummaryOpts, extract Extractor[A], labels ...Name) (*SummaryFamily[A], error) {
	objectives := opts.Objectives
	if len(objectives) == 0 {
		objectives = DefaultObjectives
	}
	if err := objectives.Validate(); err != nil {
		return nil, err
	}

	summaryOpts := prometheus.SummaryOpts{
		Namespace:   p.namespace,
		Subsystem:   p.subsystem,
		Name:        opts.Name.String(),
		Help:        opts.Help,
		ConstLabels: p.constLabels,
		Objectives:  objectives.toMap(),
	}
	if opts.MaxAge > 0 {
		summaryOpts.MaxAge = opts.MaxAge
	}
	if opts.AgeBuckets > 0 {
		summaryOpts.AgeBuckets = opts.AgeBuckets
	}

	vec := prometheus.NewSummaryVec(summaryOpts, nameStrings(labels))

	fqName := p.fqName(opts.Name)
	if err := p.register(fqName, vec); err != nil {
		return nil, err
	}

	return &SummaryFamily[A]{
		name:    fqName,
		labels:  labels,
		extract: extract,
		vec:     vec,
		runner:  p.runner,
	}, nil
}

// Label binds a domain value to a Summary handle.
func (f *SummaryFamily[A]) Label(a A) (Summary, error) {
	values := f.extract(a)
	if len(values) != len(f.labels) {
		return Summary{}, &ArityError{Name: f.name, Want: len(f.labels), Got: len(values)}
	}
	child, err := f.vec.GetMetricWithLabelValues(values...)
	if err != nil {
		return Summary{}, fmt.Errorf("bind labels for %s: %w", f.name, err)
	}
	return Summary{name: f.name, runner: f.runner, observer: child}, nil
}

// MustLabel binds like Label and panics on error.
func (f *SummaryFamily[A]) MustLabel(a A) Summary {
	s, err := f.Label(a)
	if err != nil {
		panic(fmt.Sprintf("failed to bind summary %s: %v", f.name, err))
	}
	return s
}

// Collector returns the family-level backend collector.
func (f *SummaryFamily[A]) Collector() prometheus.Collector {
	return f.vec
}

// WithRunner returns a copy of the family whose handles record through the
// transformed Runner.
func (f *SummaryFamily[A]) WithRunner(m Middleware) *SummaryFamily[A] {
	clone := *f
	clone.runner = m(f.runner)
	return &clone
}
