package currency

import (
	"fmt"
	"math"
	"strings"
)

// Quantifier names a monotone reshaping of the fraction of changed parents.
type Quantifier string

const (
	// All is 1 only when every parent changed.
	All Quantifier = "ALL"
	// Most is x^4.
	Most Quantifier = "MOST"
	// Many is x^2.
	Many Quantifier = "MANY"
	// Average is the identity.
	Average Quantifier = "AVERAGE"
	// Some is x^(1/2).
	Some Quantifier = "SOME"
	// Few is x^(1/4).
	Few Quantifier = "FEW"
	// Any is 0 only when no parent changed.
	Any Quantifier = "ANY"
)

var quantifiers = map[Quantifier]func(float64) float64{
	All: func(x float64) float64 {
		if x == 1 {
			return 1
		}
		return 0
	},
	Most:    func(x float64) float64 { return math.Pow(x, 4) },
	Many:    func(x float64) float64 { return x * x },
	Average: func(x float64) float64 { return x },
	Some:    math.Sqrt,
	Few:     func(x float64) float64 { return math.Pow(x, 0.25) },
	Any: func(x float64) float64 {
		if x == 0 {
			return 0
		}
		return 1
	},
}

// AllQuantifiers lists the quantifiers from strictest to most lenient.
func AllQuantifiers() []Quantifier {
	return []Quantifier{All, Most, Many, Average, Some, Few, Any}
}

// ParseQuantifier resolves a quantifier name case-insensitively.
func ParseQuantifier(name string) (Quantifier, error) {
	q := Quantifier(strings.ToUpper(strings.TrimSpace(name)))
	if _, ok := quantifiers[q]; !ok {
		return "", fmt.Errorf("%w: unknown quantifier %q", ErrConfiguration, name)
	}
	return q, nil
}

// Apply evaluates the quantifier at x in [0,1]. Unknown quantifiers yield 0.
func (q Quantifier) Apply(x float64) float64 {
	f, ok := quantifiers[q]
	if !ok {
		return 0
	}
	return f(clamp01(x))
}
