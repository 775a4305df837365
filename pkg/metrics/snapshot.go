package metrics

import (
	"fmt"
	"strings"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// MetricType represents the kind of a metric family
type MetricType int

const (
	// CounterType represents a counter metric
	CounterType MetricType = iota
	// GaugeType represents a gauge metric
	GaugeType
	// HistogramType represents a histogram metric
	HistogramType
	// SummaryType represents a summary metric
	SummaryType
)

// String returns the string representation of MetricType
func (mt MetricType) String() string {
	switch mt {
	case CounterType:
		return "counter"
	case GaugeType:
		return "gauge"
	case HistogramType:
		return "histogram"
	case SummaryType:
		return "summary"
	default:
		return "unknown"
	}
}

// LabelPair represents a key-value pair for metric labels
type LabelPair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Bucket represents a histogram bucket
type Bucket struct {
	UpperBound float64 `json:"upper_bound"`
	Count      uint64  `json:"count"`
}

// QuantileValue represents an observed summary quantile
type QuantileValue struct {
	Quantile float64 `json:"quantile"`
	Value    float64 `json:"value"`
}

// Metric is one label combination of a family, as gathered from the backend
type Metric struct {
	Labels    []LabelPair     `json:"labels,omitempty"`
	Value     float64         `json:"value"`
	Count     uint64          `json:"count,omitempty"`     // histograms, summaries
	Sum       float64         `json:"sum,omitempty"`       // histograms, summaries
	Buckets   []Bucket        `json:"buckets,omitempty"`   // histograms
	Quantiles []QuantileValue `json:"quantiles,omitempty"` // summaries
}

// MetricFamily groups the gathered metrics sharing one name
type MetricFamily struct {
	Name    string     `json:"name"`
	Help    string     `json:"help"`
	Type    MetricType `json:"type"`
	Metrics []Metric   `json:"metrics"`
}

// Gather collects all registered families from the backend into the domain
// snapshot form.
func (p *Provider) Gather() ([]*MetricFamily, error) {
	promFamilies, err := p.gatherer.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}

	families := make([]*MetricFamily, len(promFamilies))
	for i, promFamily := range promFamilies {
		families[i] = convertMetricFamily(promFamily)
	}
	return families, nil
}

// TextSnapshot renders the current state of the registry in the text
// exposition format. Diagnostic convenience; serving metrics goes through
// Handler.
func (p *Provider) TextSnapshot() (string, error) {
	promFamilies, err := p.gatherer.Gather()
	if err != nil {
		return "", fmt.Errorf("failed to gather metrics: %w", err)
	}

	var sb strings.Builder
	enc := expfmt.NewEncoder(&sb, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, promFamily := range promFamilies {
		if err := enc.Encode(promFamily); err != nil {
			return "", fmt.Errorf("failed to encode %s: %w", promFamily.GetName(), err)
		}
	}
	return sb.String(), nil
}

// convertMetricFamily converts a backend MetricFamily into the domain form
func convertMetricFamily(promFamily *dto.MetricFamily) *MetricFamily {
	family := &MetricFamily{
		Name:    promFamily.GetName(),
		Help:    promFamily.GetHelp(),
		Type:    convertMetricType(promFamily.GetType()),
		Metrics: make([]Metric, len(promFamily.GetMetric())),
	}
	for i, promMetric := range promFamily.GetMetric() {
		family.Metrics[i] = convertMetric(promMetric, family.Type)
	}
	return family
}

// convertMetricType converts a backend MetricType into the domain form
func convertMetricType(promType dto.MetricType) MetricType {
	switch promType {
	case dto.MetricType_COUNTER:
		return CounterType
	case dto.MetricType_GAUGE:
		return GaugeType
	case dto.MetricType_HISTOGRAM:
		return HistogramType
	case dto.MetricType_SUMMARY:
		return SummaryType
	default:
		return CounterType
	}
}

// convertMetric converts one backend metric into the domain form
func convertMetric(promMetric *dto.Metric, metricType MetricType) Metric {
	metric := Metric{
		Labels: convertLabelPairs(promMetric.GetLabel()),
	}

	switch metricType {
	case CounterType:
		if counter := promMetric.GetCounter(); counter != nil {
			metric.Value = counter.GetValue()
		}
	case GaugeType:
		if gauge := promMetric.GetGauge(); gauge != nil {
			metric.Value = gauge.GetValue()
		}
	case HistogramType:
		if histogram := promMetric.GetHistogram(); histogram != nil {
			metric.Count = histogram.GetSampleCount()
			metric.Sum = histogram.GetSampleSum()
			promBuckets := histogram.GetBucket()
			metric.Buckets = make([]Bucket, len(promBuckets))
			for i, promBucket := range promBuckets {
				metric.Buckets[i] = Bucket{
					UpperBound: promBucket.GetUpperBound(),
					Count:      promBucket.GetCumulativeCount(),
				}
			}
		}
	case SummaryType:
		if summary := promMetric.GetSummary(); summary != nil {
			metric.Count = summary.GetSampleCount()
			metric.Sum = summary.GetSampleSum()
			promQuantiles := summary.GetQuantile()
			metric.Quantiles = make([]QuantileValue, len(promQuantiles))
			for i, promQuantile := range promQuantiles {
				metric.Quantiles[i] = QuantileValue{
					Quantile: promQuantile.GetQuantile(),
					Value:    promQuantile.GetValue(),
				}
			}
		}
	}
	return metric
}

// convertLabelPairs converts backend label pairs into the domain form
func convertLabelPairs(promPairs []*dto.LabelPair) []LabelPair {
	if len(promPairs) == 0 {
		return nil
	}
	pairs := make([]LabelPair, len(promPairs))
	for i, promPair := range promPairs {
		pairs[i] = LabelPair{
			Name:  promPair.GetName(),
			Value: promPair.GetValue(),
		}
	}
	return pairs
}
