package metrics

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Provider owns the backend registry handle and the construction defaults
// shared by every family built through it. The registry is always an
// explicitly passed collaborator, never ambient global state, so tests can
// construct isolated registries per test case.
//
// A Provider performs no locking of its own: registration and per-family
// observation storage are synchronized inside the backend.
type Provider struct {
	registerer  prometheus.Registerer
	gatherer    prometheus.Gatherer
	namespace   string
	subsystem   string
	constLabels prometheus.Labels
	logger      *zap.Logger
	runner      Runner
}

// Options for creating a Provider
type Options struct {
	// Registry is the backend registry to register against. A nil Registry
	// gets a fresh isolated one.
	Registry *prometheus.Registry

	// Gatherer overrides where Gather and Handler read from. Defaults to the
	// registry.
	Gatherer prometheus.Gatherer

	// Namespace and Subsystem prefix every family name. The zero Name means
	// no prefix.
	Namespace Name
	Subsystem Name

	// ConstLabels are attached to every family. Keys are validated against
	// the name grammar.
	ConstLabels map[string]string

	// Logger receives registration events. Defaults to a no-op logger.
	Logger *zap.Logger

	// Middleware is applied, first entry outermost, to the Runner every
	// handle built through this provider records with.
	Middleware []Middleware
}

// NewProvider creates a Provider from the given options.
func NewProvider(opts Options) (*Provider, error) {
	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = registry
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	constLabels := make(prometheus.Labels, len(opts.ConstLabels))
	for k, v := range opts.ConstLabels {
		if _, err := NewName(k); err != nil {
			return nil, err
		}
		constLabels[k] = v
	}

	runner := SyncRunner()
	if len(opts.Middleware) > 0 {
		runner = Chain(opts.Middleware...)(runner)
	}

	return &Provider{
		registerer:  registry,
		gatherer:    gatherer,
		namespace:   opts.Namespace.String(),
		subsystem:   opts.Subsystem.String(),
		constLabels: constLabels,
		logger:      logger,
		runner:      runner,
	}, nil
}

// fqName builds the fully qualified family name.
func (p *Provider) fqName(name Name) string {
	return prometheus.BuildFQName(p.namespace, p.subsystem, name.String())
}

// register registers a collector and wraps every failure, collisions
// included, as a RegistrationError. A second family under a name already
// taken must fail and must not touch the first registration, so the
// backend's already-registered escape is deliberately not taken.
func (p *Provider) register(fqName string, collector prometheus.Collector) error {
	if err := p.registerer.Register(collector); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			p.logger.Error("metric family name collision",
				zap.String("name", fqName))
			return &RegistrationError{
				Name: fqName,
				Err:  fmt.Errorf("%w: %v", ErrAlreadyRegistered, err),
			}
		}
		p.logger.Error("metric family registration failed",
			zap.String("name", fqName),
			zap.Error(err))
		return &RegistrationError{Name: fqName, Err: err}
	}
	p.logger.Debug("registered metric family", zap.String("name", fqName))
	return nil
}

// NewCounter registers a zero-arity counter family and returns its directly
// observable handle.
func (p *Provider) NewCounter(opts CounterOpts) (Counter, error) {
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   p.namespace,
		Subsystem:   p.subsystem,
		Name:        opts.Name.String(),
		Help:        opts.Help,
		ConstLabels: p.constLabels,
	})

	fqName := p.fqName(opts.Name)
	if err := p.register(fqName, counter); err != nil {
		return Counter{}, err
	}

	return Counter{name: fqName, runner: p.runner, counter: counter, collector: counter}, nil
}

// MustNewCounter registers like NewCounter and panics on error.
func (p *Provider) MustNewCounter(opts CounterOpts) Counter {
	c, err := p.NewCounter(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create counter %s: %v", opts.Name.String(), err))
	}
	return c
}

// NewGauge registers a zero-arity gauge family and returns its directly
// observable handle.
func (p *Provider) NewGauge(opts GaugeOpts) (Gauge, error) {
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   p.namespace,
		Subsystem:   p.subsystem,
		Name:        opts.Name.String(),
		Help:        opts.Help,
		ConstLabels: p.constLabels,
	})

	fqName := p.fqName(opts.Name)
	if err := p.register(fqName, gauge); err != nil {
		return Gauge{}, err
	}

	return Gauge{name: fqName, runner: p.runner, gauge: gauge, collector: gauge}, nil
}

// MustNewGauge registers like NewGauge and panics on error.
func (p *Provider) MustNewGauge(opts GaugeOpts) Gauge {
	g, err := p.NewGauge(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create gauge %s: %v", opts.Name.String(), err))
	}
	return g
}

// NewHistogram registers a zero-arity histogram family and returns its
// directly observable handle. Empty buckets fall back to DefaultBuckets.
func (p *Provider) NewHistogram(opts HistogramOpts) (Histogram, error) {
	buckets := opts.Buckets
	if len(buckets) == 0 {
		buckets = DefaultBuckets
	}
	if err := ValidateBuckets(buckets); err != nil {
		return Histogram{}, err
	}

	histogram := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace:   p.namespace,
		Subsystem:   p.subsystem,
		Name:        opts.Name.String(),
		Help:        opts.Help,
		ConstLabels: p.constLabels,
		Buckets:     buckets,
	})

	fqName := p.fqName(opts.Name)
	if err := p.register(fqName, histogram); err != nil {
		return Histogram{}, err
	}

	return Histogram{name: fqName, runner: p.runner, observer: histogram, collector: histogram}, nil
}

// MustNewHistogram registers like NewHistogram and panics on error.
func (p *Provider) MustNewHistogram(opts HistogramOpts) Histogram {
	h, err := p.NewHistogram(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create histogram %s: %v", opts.Name.String(), err))
	}
	return h
}

// NewSummary registers a zero-arity summary family and returns its directly
// observable handle. Empty objectives fall back to DefaultObjectives.
func (p *Provider) NewSummary(opts SummaryOpts) (Summary, error) {
	objectives := opts.Objectives
	if len(objectives) == 0 {
		objectives = DefaultObjectives
	}
	if err := objectives.Validate(); err != nil {
		return Summary{}, err
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

	summary := prometheus.NewSummary(summaryOpts)

	fqName := p.fqName(opts.Name)
	if err := p.register(fqName, summary); err != nil {
		return Summary{}, err
	}

	return Summary{name: fqName, runner: p.runner, observer: summary, collector: summary}, nil
}

// MustNewSummary registers like NewSummary and panics on error.
func (p *Provider) MustNewSummary(opts SummaryOpts) Summary {
	s, err := p.NewSummary(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create summary %s: %v", opts.Name.String(), err))
	}
	return s
}

// Handler returns an HTTP handler for the metrics endpoint. Exposition
// format is entirely the backend's.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}
