package currency

import (
	"github.com/Harshitk-cp/currency/internal/domain"
)

// Kind discriminates node variants.
type Kind string

const (
	KindAge                  Kind = "age"
	KindData                 Kind = "data"
	KindShelfLife            Kind = "shelf_life"
	KindDynamicShelfLife     Kind = "dynamic_shelf_life"
	KindConditionalShelfLife Kind = "conditional_shelf_life"
	KindCUSUMPoisson         Kind = "cusum_poisson"
	KindCUSUMNormal          Kind = "cusum_normal"
	KindAggregator           Kind = "aggregator"
)

// AllKinds lists every node kind.
func AllKinds() []Kind {
	return []Kind{
		KindAge, KindData, KindShelfLife, KindDynamicShelfLife,
		KindConditionalShelfLife, KindCUSUMPoisson, KindCUSUMNormal, KindAggregator,
	}
}

// ValidKind reports whether k names a known node kind.
func ValidKind(k string) bool {
	for _, known := range AllKinds() {
		if Kind(k) == known {
			return true
		}
	}
	return false
}

// Node is one stateful participant of a Network.
//
// UpdateState must be called before UpdateBelief within a step. parents holds
// the node's parents ordered by attribute name, already advanced to the
// current step.
type Node interface {
	Attribute() string
	Kind() Kind
	UpdateState(obs domain.Observation) error
	UpdateBelief(parents []Node) error
	// Clear resets mutable state and keeps configuration.
	Clear()
}

// AgeTracker is a node that maintains an age distribution.
type AgeTracker interface {
	Node
	// Age returns the tracked age; ok is false before the first step.
	Age() (age int, ok bool)
	AgeDistribution() AgeDistribution
	Currency() float64
}

// BeliefSource is a node exposing a categorical belief over its values.
// Keys are canonical value strings (see domain.Canonical).
type BeliefSource interface {
	Node
	Belief() map[string]float64
}

// parentChecker is implemented by nodes that constrain their parents.
type parentChecker interface {
	checkParents(parents []Node) error
}
