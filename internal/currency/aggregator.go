package currency

import (
	"fmt"

	"github.com/Harshitk-cp/currency/internal/domain"
)

// Aggregation combines independent change probabilities into a single degree
// of change in [0,1].
type Aggregation interface {
	Aggregate(probs []float64) float64
}

// ExpectedQuantity is the expected value of a quantifier applied to the
// fraction of changed sources, where each source changed independently.
type ExpectedQuantity struct {
	Quantifier Quantifier
}

// Aggregate runs a dynamic program over the distribution of the number of
// changed sources, which is O(n²) rather than enumerating all 2ⁿ outcomes.
// With no sources there is no evidence of change.
func (e ExpectedQuantity) Aggregate(probs []float64) float64 {
	n := len(probs)
	if n == 0 {
		return 0
	}

	dist := make([]float64, n+1)
	dist[0] = 1
	for i, p := range probs {
		p = clamp01(p)
		for k := i + 1; k > 0; k-- {
			dist[k] = dist[k]*(1-p) + dist[k-1]*p
		}
		dist[0] *= 1 - p
	}

	var out float64
	for k, m := range dist {
		out += m * e.Quantifier.Apply(float64(k)/float64(n))
	}
	return out
}

// Aggregator derives the age belief of an attribute from the change
// probabilities of its age-tracking parents.
type Aggregator struct {
	ageTracking
	aggregation Aggregation
}

// NewAggregator returns an aggregator using ExpectedQuantity with q.
func NewAggregator(attribute string, q Quantifier) (*Aggregator, error) {
	if _, ok := quantifiers[q]; !ok {
		return nil, fmt.Errorf("%w: aggregator %q unknown quantifier %q", ErrConfiguration, attribute, q)
	}
	return NewCustomAggregator(attribute, ExpectedQuantity{Quantifier: q})
}

// NewCustomAggregator returns an aggregator using aggregation. A nil
// aggregation defaults to ExpectedQuantity with All.
func NewCustomAggregator(attribute string, aggregation Aggregation) (*Aggregator, error) {
	if aggregation == nil {
		aggregation = ExpectedQuantity{Quantifier: All}
	}
	n := &Aggregator{aggregation: aggregation}
	n.state.attribute = attribute
	return n, nil
}

func (n *Aggregator) Kind() Kind { return KindAggregator }

func (n *Aggregator) String() string {
	return fmt.Sprintf("aggregator node for attribute %q", n.state.attribute)
}

func (n *Aggregator) UpdateState(obs domain.Observation) error {
	n.state.observe(obs)
	return nil
}

func (n *Aggregator) UpdateBelief(parents []Node) error {
	probs := make([]float64, 0, len(parents))
	for _, p := range parents {
		t, ok := p.(AgeTracker)
		if !ok {
			return fmt.Errorf("%w: parent %q of aggregator %q does not track age", ErrDependency, p.Attribute(), n.state.attribute)
		}
		probs = append(probs, 1-t.Currency())
	}
	n.state.redistribute(n.aggregation.Aggregate(probs))
	return nil
}

func (n *Aggregator) Clear() {
	n.state.clear()
}

func (n *Aggregator) checkParents(parents []Node) error {
	for _, p := range parents {
		if _, ok := p.(AgeTracker); !ok {
			return fmt.Errorf("%w: parent %q of aggregator %q does not track age", ErrDependency, p.Attribute(), n.state.attribute)
		}
	}
	return nil
}
