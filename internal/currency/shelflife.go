package currency

import (
	"fmt"

	"github.com/Harshitk-cp/currency/internal/domain"
)

// ShelfLife is a survival model: at every step without an observed change the
// hazard at the tracked age decides how much belief moves to a fresh reset.
type ShelfLife struct {
	ageTracking
	hazard Hazard
}

// NewShelfLife returns a ShelfLife node for attribute driven by hazard.
func NewShelfLife(attribute string, hazard Hazard) (*ShelfLife, error) {
	if hazard == nil {
		return nil, fmt.Errorf("%w: shelf life %q needs a hazard", ErrConfiguration, attribute)
	}
	n := &ShelfLife{hazard: hazard}
	n.state.attribute = attribute
	return n, nil
}

func (n *ShelfLife) Kind() Kind { return KindShelfLife }

func (n *ShelfLife) String() string {
	return fmt.Sprintf("shelf life node for attribute %q", n.state.attribute)
}

// Hazard returns the reset probability at the current age.
func (n *ShelfLife) Hazard() float64 {
	return n.hazard.Probability(n.state.age)
}

func (n *ShelfLife) UpdateState(obs domain.Observation) error {
	n.state.observe(obs)
	return nil
}

func (n *ShelfLife) UpdateBelief(_ []Node) error {
	n.state.dist = survive(n.state.dist, n.state.age, n.hazard.Probability(n.state.age))
	return nil
}

func (n *ShelfLife) Clear() {
	n.state.clear()
}

func (n *ShelfLife) checkParents(parents []Node) error {
	return noParents(n, parents)
}

// survive applies one step of the hazard recursion in the storage of dist.
// An observed reset (age 0) restarts from certainty.
func survive(dist AgeDistribution, age int, h float64) AgeDistribution {
	if age == 0 || len(dist) == 0 {
		return dist.reset(0)
	}
	dist = append(dist, 0)
	for k := len(dist) - 1; k > 0; k-- {
		dist[k] = dist[k-1] * (1 - h)
	}
	dist[0] = h
	return dist
}

func noParents(n Node, parents []Node) error {
	if len(parents) > 0 {
		return fmt.Errorf("%w: %s node %q does not accept parents", ErrDependency, n.Kind(), n.Attribute())
	}
	return nil
}
