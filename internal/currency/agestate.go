package currency

import (
	"github.com/Harshitk-cp/currency/internal/domain"
)

// ageState is the deterministic age accounting shared by every age-tracking
// node. The zero value is the pristine state.
type ageState struct {
	attribute string

	age     int
	started bool

	previous    any
	previousKey string
	hasPrevious bool

	dist AgeDistribution
}

// change reports whether obs carries a value that differs from the previous
// one, along with the value.
func (s *ageState) change(obs domain.Observation) (any, bool) {
	v, ok := obs.Value(s.attribute)
	if !ok {
		return nil, false
	}
	if s.hasPrevious && domain.Canonical(v) == s.previousKey {
		return v, false
	}
	return v, true
}

// observe advances the age by one step. A changed value resets it to 0.
func (s *ageState) observe(obs domain.Observation) {
	if v, changed := s.change(obs); changed {
		s.age = 0
		s.started = true
		s.previous = v
		s.previousKey = domain.Canonical(v)
		s.hasPrevious = true
		return
	}
	if !s.started {
		s.age = 0
		s.started = true
		return
	}
	s.age++
}

func (s *ageState) currency() float64 {
	if !s.started {
		return 0
	}
	return s.dist.Mass(s.age)
}

// redistribute folds next into the distribution, starting from certainty on
// the very first belief update.
func (s *ageState) redistribute(next float64) {
	if len(s.dist) == 0 {
		s.dist = certain()
		return
	}
	s.dist = redistribute(s.dist, s.age, next)
}

func (s *ageState) clear() {
	*s = ageState{attribute: s.attribute}
}

// ageTracking implements the read side of AgeTracker for embedding types.
type ageTracking struct {
	state ageState
}

func (a *ageTracking) Attribute() string {
	return a.state.attribute
}

func (a *ageTracking) Age() (int, bool) {
	return a.state.age, a.state.started
}

// PreviousValue returns the last distinct observed value.
func (a *ageTracking) PreviousValue() (any, bool) {
	return a.state.previous, a.state.hasPrevious
}

func (a *ageTracking) AgeDistribution() AgeDistribution {
	return a.state.dist.Clone()
}

func (a *ageTracking) Currency() float64 {
	return a.state.currency()
}
