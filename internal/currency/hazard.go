package currency

import (
	"fmt"
	"math"
)

// Hazard gives the probability that a value resets at a given age.
type Hazard interface {
	Probability(age int) float64
}

// HazardFunc adapts a function to Hazard.
type HazardFunc func(age int) float64

func (f HazardFunc) Probability(age int) float64 { return clamp01(f(age)) }

// ConstantHazard is the memoryless (geometric) hazard.
type ConstantHazard float64

// NewConstantHazard validates p in [0,1].
func NewConstantHazard(p float64) (ConstantHazard, error) {
	if p < 0 || p > 1 || math.IsNaN(p) {
		return 0, fmt.Errorf("%w: hazard %v outside [0,1]", ErrConfiguration, p)
	}
	return ConstantHazard(p), nil
}

func (h ConstantHazard) Probability(int) float64 { return float64(h) }

// WeibullHazard is the discrete Weibull hazard: the probability of a reset at
// age given survival up to it, for a lifetime with the given scale and shape.
// Shape below 1 gives a decreasing hazard, above 1 an increasing one.
type WeibullHazard struct {
	Scale float64
	Shape float64
}

// NewWeibullHazard validates strictly positive scale and shape.
func NewWeibullHazard(scale, shape float64) (WeibullHazard, error) {
	if !(scale > 0) || !(shape > 0) {
		return WeibullHazard{}, fmt.Errorf("%w: weibull scale %v and shape %v must be positive",
			ErrConfiguration, scale, shape)
	}
	return WeibullHazard{Scale: scale, Shape: shape}, nil
}

func (h WeibullHazard) Probability(age int) float64 {
	if age < 0 {
		return 0
	}
	lo := math.Pow(float64(age)/h.Scale, h.Shape)
	hi := math.Pow(float64(age+1)/h.Scale, h.Shape)
	return clamp01(1 - math.Exp(lo-hi))
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
