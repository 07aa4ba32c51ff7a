package currency

import (
	"fmt"
	"math"

	"github.com/Harshitk-cp/currency/internal/domain"
)

// Squash maps the CUSUM statistic to a change probability as
// tanh(cusum^A / B).
type Squash struct {
	A float64
	B float64
}

// DefaultSquash is tanh(cusum).
var DefaultSquash = Squash{A: 1, B: 1}

func (s Squash) validate() error {
	if !(s.A > 0) || !(s.B > 0) {
		return fmt.Errorf("%w: squash exponent %v and scale %v must be positive", ErrConfiguration, s.A, s.B)
	}
	return nil
}

func (s Squash) apply(cusum float64) float64 {
	return math.Tanh(math.Pow(cusum, s.A) / s.B)
}

// CUSUM accumulates log-likelihood ratios of a numeric attribute and turns
// the statistic into a belief that the stream has changed.
type CUSUM struct {
	ageTracking
	kind   Kind
	model  LikelihoodModel
	squash Squash

	cusum   float64
	ground  float64
	elapsed int
}

func newCUSUM(attribute string, kind Kind, model LikelihoodModel, squash Squash) (*CUSUM, error) {
	if err := squash.validate(); err != nil {
		return nil, fmt.Errorf("cusum %q: %w", attribute, err)
	}
	n := &CUSUM{kind: kind, model: model, squash: squash, ground: 1, elapsed: 1}
	n.state.attribute = attribute
	return n, nil
}

// NewPoissonCUSUM returns a CUSUM over event counts.
func NewPoissonCUSUM(attribute string, model PoissonModel, squash Squash) (*CUSUM, error) {
	if _, err := NewPoissonModel(model.GroundRate, model.AlternativeRate); err != nil {
		return nil, fmt.Errorf("cusum %q: %w", attribute, err)
	}
	return newCUSUM(attribute, KindCUSUMPoisson, model, squash)
}

// NewNormalCUSUM returns a CUSUM over a normally distributed measurement.
func NewNormalCUSUM(attribute string, model NormalModel, squash Squash) (*CUSUM, error) {
	if _, err := NewNormalModel(model.GroundMean, model.GroundStd, model.AlternativeMean, model.AlternativeStd); err != nil {
		return nil, fmt.Errorf("cusum %q: %w", attribute, err)
	}
	return newCUSUM(attribute, KindCUSUMNormal, model, squash)
}

func (n *CUSUM) Kind() Kind { return n.kind }

func (n *CUSUM) String() string {
	return fmt.Sprintf("%s node for attribute %q", n.kind, n.state.attribute)
}

// Statistic returns the cumulative log-likelihood ratio.
func (n *CUSUM) Statistic() float64 {
	return n.cusum
}

// GroundBelief returns the probability that the stream has not changed.
func (n *CUSUM) GroundBelief() float64 {
	return n.ground
}

// Belief returns the ground/alternative belief as a categorical distribution.
func (n *CUSUM) Belief() map[string]float64 {
	return map[string]float64{
		"ground":      n.ground,
		"alternative": 1 - n.ground,
	}
}

// UpdateState adds the log-likelihood ratio of a real observation to the
// statistic. Without one, the waiting interval grows by one unit.
func (n *CUSUM) UpdateState(obs domain.Observation) error {
	n.state.observe(obs)

	v, ok := obs.Value(n.state.attribute)
	if !ok {
		n.elapsed++
		return nil
	}
	k, ok := domain.Number(v)
	if !ok {
		return fmt.Errorf("%w: %q value %v is not numeric", ErrNumericDomain, n.state.attribute, v)
	}
	llr, err := n.model.LogLikelihoodRatio(k, n.elapsed)
	if err != nil {
		return fmt.Errorf("cusum %q: %w", n.state.attribute, err)
	}
	n.cusum = math.Max(0, n.cusum+llr)
	n.elapsed = 1
	return nil
}

func (n *CUSUM) UpdateBelief(_ []Node) error {
	alt := n.squash.apply(n.cusum)
	n.ground = 1 - alt
	n.state.redistribute(alt)
	return nil
}

func (n *CUSUM) Clear() {
	n.state.clear()
	n.cusum = 0
	n.ground = 1
	n.elapsed = 1
}

func (n *CUSUM) checkParents(parents []Node) error {
	return noParents(n, parents)
}
