package metrics

import "fmt"

// Objective is a validated (quantile, tolerated error) pair for a summary.
// Both components are constrained to [0.0, 1.0] at construction; an Objective
// obtained from NewObjective or MustObjective never violates the range.
type Objective struct {
	Quantile float64
	Error    float64
}

// NewObjective validates the pair and identifies the offending component on
// failure. This is the runtime validation path.
func NewObjective(quantile, tolerated float64) (Objective, error) {
	if quantile < 0 || quantile > 1 {
		return Objective{}, &ValidationError{
			Field: "quantile",
			Value: quantile,
			Err:   fmt.Errorf("%w: quantile %g must be within [0.0, 1.0]", ErrInvalidObjective, quantile),
		}
	}
	if tolerated < 0 || tolerated > 1 {
		return Objective{}, &ValidationError{
			Field: "error",
			Value: tolerated,
			Err:   fmt.Errorf("%w: error %g must be within [0.0, 1.0]", ErrInvalidObjective, tolerated),
		}
	}
	return Objective{Quantile: quantile, Error: tolerated}, nil
}

// MustObjective validates like NewObjective and panics on failure. Intended
// for objectives known at build time.
func MustObjective(quantile, tolerated float64) Objective {
	o, err := NewObjective(quantile, tolerated)
	if err != nil {
		panic(fmt.Sprintf("metrics: invalid objective (%g, %g): %v", quantile, tolerated, err))
	}
	return o
}

// Objectives is an ordered set of summary objectives.
type Objectives []Objective

// DefaultObjectives provides default summary objectives
var DefaultObjectives = Objectives{
	{Quantile: 0.5, Error: 0.05},
	{Quantile: 0.9, Error: 0.01},
	{Quantile: 0.99, Error: 0.001},
}

// Validate re-checks every pair against the range invariants. Objectives
// built through NewObjective always pass; this catches struct literals that
// bypassed the constructor.
func (os Objectives) Validate() error {
	for _, o := range os {
		if _, err := NewObjective(o.Quantile, o.Error); err != nil {
			return err
		}
	}
	return nil
}

// toMap converts to the backend's objective form.
func (os Objectives) toMap() map[float64]float64 {
	m := make(map[float64]float64, len(os))
	for _, o := range os {
		m[o.Quantile] = o.Error
	}
	return m
}
