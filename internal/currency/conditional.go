package currency

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Harshitk-cp/currency/internal/domain"
)

// Generator maps a joint assignment of parent values to the parameter of a
// geometric lifetime.
type Generator func(Assignment) (float64, error)

// HazardTable is an explicit generator: one geometric parameter per joint
// assignment of parent values.
type HazardTable struct {
	attributes []string
	entries    map[string]float64
}

// NewHazardTable returns an empty table over the given parent attributes.
func NewHazardTable(attributes ...string) *HazardTable {
	attrs := append([]string(nil), attributes...)
	sort.Strings(attrs)
	return &HazardTable{attributes: attrs, entries: make(map[string]float64)}
}

// Set records p for the assignment. Values are canonicalized.
func (t *HazardTable) Set(values map[string]any, p float64) error {
	if p < 0 || p > 1 || math.IsNaN(p) {
		return fmt.Errorf("%w: hazard table parameter %v outside [0,1]", ErrConfiguration, p)
	}
	key, err := t.key(func(attr string) (string, bool) {
		v, ok := values[attr]
		if !ok {
			return "", false
		}
		return domain.Canonical(v), true
	})
	if err != nil {
		return err
	}
	t.entries[key] = p
	return nil
}

// Generator returns a Generator backed by the table. A missing assignment is
// a configuration error.
func (t *HazardTable) Generator() Generator {
	return func(a Assignment) (float64, error) {
		key, err := t.key(func(attr string) (string, bool) {
			v, ok := a[attr]
			return v, ok
		})
		if err != nil {
			return 0, err
		}
		p, ok := t.entries[key]
		if !ok {
			return 0, fmt.Errorf("%w: no hazard for assignment %v", ErrConfiguration, a)
		}
		return p, nil
	}
}

func (t *HazardTable) key(lookup func(string) (string, bool)) (string, error) {
	parts := make([]string, len(t.attributes))
	for i, attr := range t.attributes {
		v, ok := lookup(attr)
		if !ok {
			return "", fmt.Errorf("%w: hazard table assignment lacks %q", ErrConfiguration, attr)
		}
		parts[i] = v
	}
	return strings.Join(parts, "\x1f"), nil
}

// ConditionalShelfLife is a geometric shelf life whose parameter depends on
// the categorical beliefs of its parents.
//
// Each belief update enumerates the full cross product of the parents'
// belief tables, so its cost grows with the product of their sizes.
type ConditionalShelfLife struct {
	ageTracking
	generator Generator
}

// NewConditionalShelfLife returns a node for attribute using generator.
func NewConditionalShelfLife(attribute string, generator Generator) (*ConditionalShelfLife, error) {
	if generator == nil {
		return nil, fmt.Errorf("%w: conditional shelf life %q needs a generator", ErrConfiguration, attribute)
	}
	n := &ConditionalShelfLife{generator: generator}
	n.state.attribute = attribute
	return n, nil
}

// NewConditionalShelfLifeFromTable returns a node whose generator is table.
func NewConditionalShelfLifeFromTable(attribute string, table *HazardTable) (*ConditionalShelfLife, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: conditional shelf life %q needs a hazard table", ErrConfiguration, attribute)
	}
	return NewConditionalShelfLife(attribute, table.Generator())
}

func (n *ConditionalShelfLife) Kind() Kind { return KindConditionalShelfLife }

func (n *ConditionalShelfLife) String() string {
	return fmt.Sprintf("conditional shelf life node for attribute %q", n.state.attribute)
}

func (n *ConditionalShelfLife) UpdateState(obs domain.Observation) error {
	n.state.observe(obs)
	return nil
}

func (n *ConditionalShelfLife) UpdateBelief(parents []Node) error {
	age := n.state.age
	if age == 0 || len(n.state.dist) == 0 {
		n.state.dist = n.state.dist.reset(0)
		return nil
	}

	beliefs := make(map[string]map[string]float64, len(parents))
	for _, p := range parents {
		src, ok := p.(BeliefSource)
		if !ok {
			return fmt.Errorf("%w: parent %q of %q has no categorical belief", ErrDependency, p.Attribute(), n.state.attribute)
		}
		beliefs[src.Attribute()] = src.Belief()
	}

	joint := newJointBelief(beliefs)
	var reset float64
	for {
		a, prior, ok := joint.next()
		if !ok {
			break
		}
		p, err := n.generator(a)
		if err != nil {
			return fmt.Errorf("conditional shelf life %q: %w", n.state.attribute, err)
		}
		p = clamp01(p)
		reset += prior * p * math.Pow(1-p, float64(age))
	}
	out := n.state.dist.shift().grow(age)
	out.moveToZero(age, reset)
	n.state.dist = out
	return nil
}

func (n *ConditionalShelfLife) Clear() {
	n.state.clear()
}

func (n *ConditionalShelfLife) checkParents(parents []Node) error {
	for _, p := range parents {
		if _, ok := p.(BeliefSource); !ok {
			return fmt.Errorf("%w: parent %q of %q has no categorical belief", ErrDependency, p.Attribute(), n.state.attribute)
		}
	}
	return nil
}
