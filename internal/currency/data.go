package currency

import (
	"fmt"
	"math"

	"github.com/Harshitk-cp/currency/internal/domain"
)

const priorTolerance = 1e-6

// DataNode holds the last observed categorical state of an attribute. It does
// not track age and is typically a parent of a ConditionalShelfLife.
type DataNode struct {
	attribute string
	prior     map[string]float64

	state    string
	hasState bool
	belief   map[string]float64
}

// NewDataNode returns a DataNode whose belief is prior until a value is
// observed. prior may be empty; otherwise its masses must sum to one. Its
// keys are canonicalized.
func NewDataNode(attribute string, prior map[string]float64) (*DataNode, error) {
	var p map[string]float64
	if len(prior) > 0 {
		p = make(map[string]float64, len(prior))
		var total float64
		for k, v := range prior {
			if v < 0 || v > 1 || math.IsNaN(v) {
				return nil, fmt.Errorf("%w: prior probability %v for %q of %q outside [0,1]",
					ErrConfiguration, v, k, attribute)
			}
			p[domain.Canonical(k)] += v
			total += v
		}
		if math.Abs(total-1) > priorTolerance {
			return nil, fmt.Errorf("%w: prior of %q sums to %v, not 1", ErrConfiguration, attribute, total)
		}
	}
	return &DataNode{attribute: attribute, prior: p}, nil
}

func (n *DataNode) Attribute() string { return n.attribute }

func (n *DataNode) Kind() Kind { return KindData }

func (n *DataNode) String() string {
	return fmt.Sprintf("data node for attribute %q", n.attribute)
}

// State returns the last observed value key.
func (n *DataNode) State() (string, bool) {
	return n.state, n.hasState
}

func (n *DataNode) UpdateState(obs domain.Observation) error {
	if v, ok := obs.Value(n.attribute); ok {
		n.state = domain.Canonical(v)
		n.hasState = true
	}
	return nil
}

func (n *DataNode) UpdateBelief(_ []Node) error {
	if !n.hasState {
		n.belief = n.prior
		return nil
	}
	n.belief = map[string]float64{n.state: 1.0}
	return nil
}

// Belief returns the current categorical belief, nil when neither a prior
// nor an observation is available.
func (n *DataNode) Belief() map[string]float64 {
	return n.belief
}

func (n *DataNode) Clear() {
	n.state = ""
	n.hasState = false
	n.belief = nil
}
