package currency

import (
	"fmt"
	"math"
)

// LikelihoodModel scores an observation as the log-likelihood ratio of the
// alternative ("changed") over the ground ("unchanged") hypothesis. elapsed
// is the number of unit intervals since the previous real observation.
type LikelihoodModel interface {
	LogLikelihoodRatio(k float64, elapsed int) (float64, error)
}

// PoissonModel compares two event rates per unit time.
type PoissonModel struct {
	GroundRate      float64
	AlternativeRate float64
}

// NewPoissonModel validates strictly positive rates.
func NewPoissonModel(ground, alternative float64) (PoissonModel, error) {
	if !(ground > 0) || !(alternative > 0) {
		return PoissonModel{}, fmt.Errorf("%w: poisson rates %v and %v must be positive",
			ErrConfiguration, ground, alternative)
	}
	return PoissonModel{GroundRate: ground, AlternativeRate: alternative}, nil
}

func (m PoissonModel) LogLikelihoodRatio(k float64, elapsed int) (float64, error) {
	if k < 0 || math.IsNaN(k) || math.IsInf(k, 0) {
		return 0, fmt.Errorf("%w: poisson count %v", ErrNumericDomain, k)
	}
	dt := float64(elapsed)
	ground, alt := dt*m.GroundRate, dt*m.AlternativeRate
	if !(ground > 0) || !(alt > 0) {
		return 0, fmt.Errorf("%w: poisson interval %d", ErrNumericDomain, elapsed)
	}
	return k*math.Log(alt) + ground - k*math.Log(ground) - alt, nil
}

// NormalModel compares two normal distributions with unequal variances.
type NormalModel struct {
	GroundMean      float64
	GroundStd       float64
	AlternativeMean float64
	AlternativeStd  float64
}

// NewNormalModel validates strictly positive standard deviations.
func NewNormalModel(groundMean, groundStd, altMean, altStd float64) (NormalModel, error) {
	if !(groundStd > 0) || !(altStd > 0) {
		return NormalModel{}, fmt.Errorf("%w: normal standard deviations %v and %v must be positive",
			ErrConfiguration, groundStd, altStd)
	}
	return NormalModel{
		GroundMean:      groundMean,
		GroundStd:       groundStd,
		AlternativeMean: altMean,
		AlternativeStd:  altStd,
	}, nil
}

func (m NormalModel) LogLikelihoodRatio(k float64, _ int) (float64, error) {
	if math.IsNaN(k) || math.IsInf(k, 0) {
		return 0, fmt.Errorf("%w: normal observation %v", ErrNumericDomain, k)
	}
	gv := m.GroundStd * m.GroundStd
	av := m.AlternativeStd * m.AlternativeStd
	dg := k - m.GroundMean
	da := k - m.AlternativeMean
	return 0.5*math.Log(gv/av) + dg*dg/(2*gv) - da*da/(2*av), nil
}
