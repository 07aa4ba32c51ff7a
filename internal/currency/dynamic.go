package currency

import (
	"fmt"

	"github.com/Harshitk-cp/currency/internal/domain"
)

// DynamicShelfLife is a geometric shelf life whose parameter adapts to the
// observed intervals between value changes by exponential smoothing.
type DynamicShelfLife struct {
	ageTracking
	p         float64
	initialP  float64
	smoothing float64
}

// NewDynamicShelfLife returns a node starting at hazard p in (0,1] with
// smoothing factor in [0,1].
func NewDynamicShelfLife(attribute string, p, smoothing float64) (*DynamicShelfLife, error) {
	if !(p > 0) || p > 1 {
		return nil, fmt.Errorf("%w: dynamic shelf life %q hazard %v outside (0,1]", ErrConfiguration, attribute, p)
	}
	if smoothing < 0 || smoothing > 1 {
		return nil, fmt.Errorf("%w: dynamic shelf life %q smoothing %v outside [0,1]", ErrConfiguration, attribute, smoothing)
	}
	n := &DynamicShelfLife{p: p, initialP: p, smoothing: smoothing}
	n.state.attribute = attribute
	return n, nil
}

func (n *DynamicShelfLife) Kind() Kind { return KindDynamicShelfLife }

func (n *DynamicShelfLife) String() string {
	return fmt.Sprintf("dynamic shelf life node for attribute %q", n.state.attribute)
}

// Hazard returns the current geometric parameter.
func (n *DynamicShelfLife) Hazard() float64 {
	return n.p
}

// UpdateState re-estimates the expected lifetime from the age reached when a
// genuine change arrives, then applies the usual age accounting.
func (n *DynamicShelfLife) UpdateState(obs domain.Observation) error {
	if _, changed := n.state.change(obs); changed && n.state.hasPrevious {
		estimate := n.smoothing*float64(n.state.age) + (1-n.smoothing)*(1/n.p)
		if estimate < 1 {
			estimate = 1
		}
		n.p = 1 / estimate
	}
	n.state.observe(obs)
	return nil
}

func (n *DynamicShelfLife) UpdateBelief(_ []Node) error {
	n.state.dist = survive(n.state.dist, n.state.age, n.p)
	return nil
}

func (n *DynamicShelfLife) Clear() {
	n.state.clear()
	n.p = n.initialP
}

func (n *DynamicShelfLife) checkParents(parents []Node) error {
	return noParents(n, parents)
}
