// Package definition turns declarative network documents into runnable
// currency networks.
package definition

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Harshitk-cp/currency/internal/currency"
	"github.com/Harshitk-cp/currency/internal/domain"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidDefinition = errors.New("invalid network definition")
	ErrInvalidSource     = errors.New("invalid observation source")
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	if err := validate.RegisterValidation("node_kind", validateNodeKind); err != nil {
		panic(err)
	}
}

func validateNodeKind(fl validator.FieldLevel) bool {
	return currency.ValidKind(fl.Field().String())
}

// Parse decodes a YAML or JSON document. Unknown fields are rejected.
func Parse(data []byte) (*domain.NetworkDefinition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var def domain.NetworkDefinition
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}
	return &def, nil
}

// ValidateSource checks the field constraints of a stored table reference.
func ValidateSource(src *domain.TableSource) error {
	if src == nil {
		return fmt.Errorf("%w: empty source", ErrInvalidSource)
	}
	if err := validate.Struct(src); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSource, describe(err))
	}
	return nil
}

// Validate checks field constraints and the per-kind requirements of every
// node. Cycles are left to the network builder.
func Validate(def *domain.NetworkDefinition) error {
	if def == nil {
		return fmt.Errorf("%w: empty definition", ErrInvalidDefinition)
	}
	if err := validate.Struct(def); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDefinition, describe(err))
	}

	seen := make(map[string]bool, len(def.Nodes))
	for _, n := range def.Nodes {
		if n.Attribute == def.TimeColumn {
			return fmt.Errorf("%w: node %q uses the time column", ErrInvalidDefinition, n.Attribute)
		}
		if seen[n.Attribute] {
			return fmt.Errorf("%w: duplicate attribute %q", ErrInvalidDefinition, n.Attribute)
		}
		seen[n.Attribute] = true
	}

	for _, n := range def.Nodes {
		for _, p := range n.Parents {
			if !seen[p] {
				return fmt.Errorf("%w: parent %q of %q is not declared", ErrInvalidDefinition, p, n.Attribute)
			}
		}
		if err := validateNode(n); err != nil {
			return fmt.Errorf("%w: node %q: %v", ErrInvalidDefinition, n.Attribute, err)
		}
	}
	return nil
}

func validateNode(n domain.NodeDefinition) error {
	kind := currency.Kind(n.Kind)
	switch kind {
	case currency.KindAggregator, currency.KindConditionalShelfLife:
		if len(n.Parents) == 0 {
			return fmt.Errorf("%s needs parents", kind)
		}
	default:
		if len(n.Parents) > 0 {
			return fmt.Errorf("%s takes no parents", kind)
		}
	}

	switch kind {
	case currency.KindShelfLife:
		if n.Hazard == nil {
			return errors.New("hazard is required")
		}
		if n.Hazard.Type == "weibull" && (n.Hazard.Scale == 0 || n.Hazard.Shape == 0) {
			return errors.New("weibull hazard needs scale and shape")
		}
	case currency.KindDynamicShelfLife:
		if n.InitialHazard == 0 {
			return errors.New("initial_hazard is required")
		}
	case currency.KindConditionalShelfLife:
		if len(n.HazardTable) == 0 {
			return errors.New("hazard_table is required")
		}
		for i, e := range n.HazardTable {
			if len(e.When) != len(uniq(n.Parents)) {
				return fmt.Errorf("hazard_table[%d] must assign exactly the parents %v", i, n.Parents)
			}
			for attr := range e.When {
				if !contains(n.Parents, attr) {
					return fmt.Errorf("hazard_table[%d] assigns %q which is not a parent", i, attr)
				}
			}
		}
	case currency.KindCUSUMPoisson, currency.KindCUSUMNormal:
		if n.CUSUM == nil {
			return errors.New("cusum is required")
		}
	case currency.KindAggregator:
		if n.Quantifier != "" {
			if _, err := currency.ParseQuantifier(n.Quantifier); err != nil {
				return err
			}
		}
	}
	return nil
}

// Build validates def and assembles its network. Node construction errors
// keep their currency sentinel.
func Build(def *domain.NetworkDefinition, logger *zap.Logger) (*currency.Network, error) {
	if err := Validate(def); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	members := make([]currency.Member, 0, len(def.Nodes))
	for _, n := range def.Nodes {
		node, err := buildNode(n)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", n.Attribute, err)
		}
		members = append(members, currency.Member{Node: node, Parents: n.Parents})
	}

	return currency.NewNetwork(members,
		currency.Options{SkipNullObjects: def.SkipNullObjects},
		logger.With(zap.String("network", def.Name)))
}

func buildNode(n domain.NodeDefinition) (currency.Node, error) {
	switch currency.Kind(n.Kind) {
	case currency.KindAge:
		return currency.NewAgeNode(n.Attribute), nil

	case currency.KindData:
		return currency.NewDataNode(n.Attribute, n.Prior)

	case currency.KindShelfLife:
		var (
			hazard currency.Hazard
			err    error
		)
		switch n.Hazard.Type {
		case "weibull":
			hazard, err = currency.NewWeibullHazard(n.Hazard.Scale, n.Hazard.Shape)
		default:
			hazard, err = currency.NewConstantHazard(n.Hazard.Probability)
		}
		if err != nil {
			return nil, err
		}
		return currency.NewShelfLife(n.Attribute, hazard)

	case currency.KindDynamicShelfLife:
		return currency.NewDynamicShelfLife(n.Attribute, n.InitialHazard, n.Smoothing)

	case currency.KindConditionalShelfLife:
		table := currency.NewHazardTable(uniq(n.Parents)...)
		for _, e := range n.HazardTable {
			if err := table.Set(e.When, e.Hazard); err != nil {
				return nil, err
			}
		}
		return currency.NewConditionalShelfLifeFromTable(n.Attribute, table)

	case currency.KindCUSUMPoisson:
		return currency.NewPoissonCUSUM(n.Attribute, currency.PoissonModel{
			GroundRate:      n.CUSUM.GroundRate,
			AlternativeRate: n.CUSUM.AlternativeRate,
		}, squash(n.CUSUM))

	case currency.KindCUSUMNormal:
		return currency.NewNormalCUSUM(n.Attribute, currency.NormalModel{
			GroundMean:      n.CUSUM.GroundMean,
			GroundStd:       n.CUSUM.GroundStd,
			AlternativeMean: n.CUSUM.AlternativeMean,
			AlternativeStd:  n.CUSUM.AlternativeStd,
		}, squash(n.CUSUM))

	case currency.KindAggregator:
		q := currency.All
		if n.Quantifier != "" {
			var err error
			if q, err = currency.ParseQuantifier(n.Quantifier); err != nil {
				return nil, err
			}
		}
		return currency.NewAggregator(n.Attribute, q)
	}
	return nil, fmt.Errorf("%w: unknown kind %q", currency.ErrConfiguration, n.Kind)
}

func squash(c *domain.CUSUMDefinition) currency.Squash {
	s := currency.DefaultSquash
	if c.A != 0 {
		s.A = c.A
	}
	if c.B != 0 {
		s.B = c.B
	}
	return s
}

// describe flattens validator errors into one line.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		msgs = append(msgs, msg)
	}
	return strings.Join(msgs, "; ")
}

func uniq(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	j := 0
	for i, s := range out {
		if i > 0 && out[j-1] == s {
			continue
		}
		out[j] = s
		j++
	}
	return out[:j]
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
