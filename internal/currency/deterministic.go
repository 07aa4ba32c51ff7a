package currency

import (
	"fmt"

	"github.com/Harshitk-cp/currency/internal/domain"
)

// AgeNode tracks the age of an attribute purely from observed value changes.
// Its belief puts all mass on the tracked age, so its currency stays at 1.
type AgeNode struct {
	ageTracking
}

// NewAgeNode returns an AgeNode for attribute.
func NewAgeNode(attribute string) *AgeNode {
	n := &AgeNode{}
	n.state.attribute = attribute
	return n
}

func (n *AgeNode) Kind() Kind { return KindAge }

func (n *AgeNode) String() string {
	return fmt.Sprintf("age node for attribute %q", n.state.attribute)
}

func (n *AgeNode) UpdateState(obs domain.Observation) error {
	n.state.observe(obs)
	return nil
}

func (n *AgeNode) UpdateBelief(_ []Node) error {
	n.state.dist = n.state.dist.reset(n.state.age)
	return nil
}

func (n *AgeNode) Clear() {
	n.state.clear()
}
