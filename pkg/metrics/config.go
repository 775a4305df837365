package metrics

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// MetricSpec declares one counter or gauge family in a manifest.
type MetricSpec struct {
	Name   string   `yaml:"name" json:"name"`
	Help   string   `yaml:"help" json:"help"`
	Labels []string `yaml:"labels,omitempty" json:"labels,omitempty"`
}

// HistogramSpec declares one histogram family in a manifest.
type HistogramSpec struct {
	MetricSpec `yaml:",inline"`
	Buckets    []float64 `yaml:"buckets,omitempty" json:"buckets,omitempty"`
}

// ObjectiveSpec declares one summary objective in a manifest.
type ObjectiveSpec struct {
	Quantile float64 `yaml:"quantile" json:"quantile"`
	Error    float64 `yaml:"error" json:"error"`
}

// SummarySpec declares one summary family in a manifest.
type SummarySpec struct {
	MetricSpec `yaml:",inline"`
	Objectives []ObjectiveSpec `yaml:"objectives,omitempty" json:"objectives,omitempty"`
}

// Manifest is a declarative set of metric families, typically loaded from a
// YAML document shipped with the application. Every name and label passes
// through the same validation as the programmatic constructors, so a
// malformed manifest is rejected at load time, before anything reaches the
// backend.
type Manifest struct {
	Counters   []MetricSpec    `yaml:"counters,omitempty" json:"counters,omitempty"`
	Gauges     []MetricSpec    `yaml:"gauges,omitempty" json:"gauges,omitempty"`
	Histograms []HistogramSpec `yaml:"histograms,omitempty" json:"histograms,omitempty"`
	Summaries  []SummarySpec   `yaml:"summaries,omitempty" json:"summaries,omitempty"`
}

// LoadManifest parses and validates a YAML manifest.
func LoadManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks every declared name, label, bucket list, and objective.
func (m *Manifest) Validate() error {
	for _, spec := range m.Counters {
		if err := spec.validate(); err != nil {
			return err
		}
	}
	for _, spec := range m.Gauges {
		if err := spec.validate(); err != nil {
			return err
		}
	}
	for _, spec := range m.Histograms {
		if err := spec.validate(); err != nil {
			return err
		}
		if err := ValidateBuckets(spec.Buckets); err != nil {
			return fmt.Errorf("histogram %s: %w", spec.Name, err)
		}
	}
	for _, spec := range m.Summaries {
		if err := spec.validate(); err != nil {
			return err
		}
		for _, o := range spec.Objectives {
			if _, err := NewObjective(o.Quantile, o.Error); err != nil {
				return fmt.Errorf("summary %s: %w", spec.Name, err)
			}
		}
	}
	return nil
}

func (s MetricSpec) validate() error {
	if _, err := NewName(s.Name); err != nil {
		return err
	}
	for _, label := range s.Labels {
		if _, err := NewName(label); err != nil {
			return fmt.Errorf("metric %s: %w", s.Name, err)
		}
	}
	return nil
}

// Set holds the families and handles a manifest produced. Labelled families
// are keyed by declared name and bind positionally: the extractor is the
// identity on the label-value slice, so Label asserts the declared arity at
// bind time like any other family.
type Set struct {
	Counters      map[string]Counter
	CounterVecs   map[string]*CounterFamily[[]string]
	Gauges        map[string]Gauge
	GaugeVecs     map[string]*GaugeFamily[[]string]
	Histograms    map[string]Histogram
	HistogramVecs map[string]*HistogramFamily[[]string]
	Summaries     map[string]Summary
	SummaryVecs   map[string]*SummaryFamily[[]string]
}

// identityValues is the extractor for manifest-declared families.
func identityValues(values []string) []string { return values }

// Apply registers every declared family through the provider. The first
// registration failure aborts; families registered before the failure stay
// registered, mirroring the programmatic path.
func (m *Manifest) Apply(p *Provider) (*Set, error) {
	set := &Set{
		Counters:      make(map[string]Counter),
		CounterVecs:   make(map[string]*CounterFamily[[]string]),
		Gauges:        make(map[string]Gauge),
		GaugeVecs:     make(map[string]*GaugeFamily[[]string]),
		Histograms:    make(map[string]Histogram),
		HistogramVecs: make(map[string]*HistogramFamily[[]string]),
		Summaries:     make(map[string]Summary),
		SummaryVecs:   make(map[string]*SummaryFamily[[]string]),
	}

	for _, spec := range m.Counters {
		name, labels, err := spec.names()
		if err != nil {
			return nil, err
		}
		opts := CounterOpts{Name: name, Help: spec.Help}
		if len(labels) == 0 {
			handle, err := p.NewCounter(opts)
			if err != nil {
				return nil, err
			}
			set.Counters[spec.Name] = handle
			continue
		}
		family, err := NewCounterFamily(p, opts, identityValues, labels...)
		if err != nil {
			return nil, err
		}
		set.CounterVecs[spec.Name] = family
	}

	for _, spec := range m.Gauges {
		name, labels, err := spec.names()
		if err != nil {
			return nil, err
		}
		opts := GaugeOpts{Name: name, Help: spec.Help}
		if len(labels) == 0 {
			handle, err := p.NewGauge(opts)
			if err != nil {
				return nil, err
			}
			set.Gauges[spec.Name] = handle
			continue
		}
		family, err := NewGaugeFamily(p, opts, identityValues, labels...)
		if err != nil {
			return nil, err
		}
		set.GaugeVecs[spec.Name] = family
	}

	for _, spec := range m.Histograms {
		name, labels, err := spec.names()
		if err != nil {
			return nil, err
		}
		opts := HistogramOpts{Name: name, Help: spec.Help, Buckets: spec.Buckets}
		if len(labels) == 0 {
			handle, err := p.NewHistogram(opts)
			if err != nil {
				return nil, err
			}
			set.Histograms[spec.Name] = handle
			continue
		}
		family, err := NewHistogramFamily(p, opts, identityValues, labels...)
		if err != nil {
			return nil, err
		}
		set.HistogramVecs[spec.Name] = family
	}

	for _, spec := range m.Summaries {
		name, labels, err := spec.names()
		if err != nil {
			return nil, err
		}
		objectives := make(Objectives, 0, len(spec.Objectives))
		for _, o := range spec.Objectives {
			objective, err := NewObjective(o.Quantile, o.Error)
			if err != nil {
				return nil, err
			}
			objectives = append(objectives, objective)
		}
		opts := SummaryOpts{Name: name, Help: spec.Help, Objectives: objectives}
		if len(labels) == 0 {
			handle, err := p.NewSummary(opts)
			if err != nil {
				return nil, err
			}
			set.Summaries[spec.Name] = handle
			continue
		}
		family, err := NewSummaryFamily(p, opts, identityValues, labels...)
		if err != nil {
			return nil, err
		}
		set.SummaryVecs[spec.Name] = family
	}

	return set, nil
}

// names validates and converts the spec's name and labels.
func (s MetricSpec) names() (Name, []Name, error) {
	name, err := NewName(s.Name)
	if err != nil {
		return Name{}, nil, err
	}
	labels := make([]Name, len(s.Labels))
	for i, label := range s.Labels {
		labels[i], err = NewName(label)
		if err != nil {
			return Name{}, nil, fmt.Errorf("metric %s: %w", s.Name, err)
		}
	}
	return name, labels, nil
}
