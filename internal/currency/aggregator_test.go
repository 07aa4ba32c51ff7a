package currency

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bruteForce enumerates every subset of changed sources.
func bruteForce(q Quantifier, probs []float64) float64 {
	n := len(probs)
	var out float64
	for mask := 0; mask < 1<<n; mask++ {
		weight := 1.0
		changed := 0
		for i, p := range probs {
			if mask&(1<<i) != 0 {
				weight *= p
				changed++
			} else {
				weight *= 1 - p
			}
		}
		out += weight * q.Apply(float64(changed)/float64(n))
	}
	return out
}

func TestExpectedQuantity_MatchesEnumeration(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, q := range AllQuantifiers() {
		for n := 1; n <= 10; n++ {
			probs := make([]float64, n)
			for i := range probs {
				probs[i] = rng.Float64()
			}
			got := ExpectedQuantity{Quantifier: q}.Aggregate(probs)
			assert.InDeltaf(t, bruteForce(q, probs), got, 1e-9, "quantifier %s with %d parents", q, n)
		}
	}
}

func TestExpectedQuantity_Boundaries(t *testing.T) {
	assert.Zero(t, ExpectedQuantity{Quantifier: Any}.Aggregate(nil))
	assert.Equal(t, 1.0, ExpectedQuantity{Quantifier: All}.Aggregate([]float64{1, 1, 1}))
	assert.Zero(t, ExpectedQuantity{Quantifier: Any}.Aggregate([]float64{0, 0}))
	// ALL with one uncertain parent is the product of probabilities
	assert.InDelta(t, 0.5*0.4, ExpectedQuantity{Quantifier: All}.Aggregate([]float64{0.5, 0.4}), 1e-12)
	// ANY is one minus the probability nothing changed
	assert.InDelta(t, 1-0.5*0.6, ExpectedQuantity{Quantifier: Any}.Aggregate([]float64{0.5, 0.4}), 1e-12)
}

func TestQuantifiers(t *testing.T) {
	tests := []struct {
		q    Quantifier
		at   float64
		want float64
	}{
		{All, 1, 1},
		{All, 0.99, 0},
		{Most, 0.5, 0.0625},
		{Many, 0.5, 0.25},
		{Average, 0.3, 0.3},
		{Some, 0.25, 0.5},
		{Few, 0.0625, 0.5},
		{Any, 0, 0},
		{Any, 0.01, 1},
	}
	for _, tt := range tests {
		assert.InDeltaf(t, tt.want, tt.q.Apply(tt.at), 1e-12, "%s(%v)", tt.q, tt.at)
	}

	for _, q := range AllQuantifiers() {
		prev := q.Apply(0)
		for x := 0.05; x <= 1.0; x += 0.05 {
			v := q.Apply(x)
			assert.GreaterOrEqualf(t, v, prev, "%s must be monotone", q)
			prev = v
		}
		assert.Equal(t, 0.0, q.Apply(0))
		assert.Equal(t, 1.0, q.Apply(1))
	}
}

func TestParseQuantifier(t *testing.T) {
	q, err := ParseQuantifier(" most ")
	require.NoError(t, err)
	assert.Equal(t, Most, q)

	_, err = ParseQuantifier("several")
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = NewAggregator("x", Quantifier("several"))
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestAggregator_FollowsParents(t *testing.T) {
	a, err := NewShelfLife("a", ConstantHazard(0.2))
	require.NoError(t, err)
	b, err := NewShelfLife("b", ConstantHazard(0.4))
	require.NoError(t, err)
	agg, err := NewAggregator("ab", Average)
	require.NoError(t, err)

	parents := []Node{a, b}
	for i := int64(0); i < 6; i++ {
		var obs = empty(i)
		if i == 0 {
			obs = step(i, "a", 1)
			obs.Row["b"] = 1
			obs.Row["ab"] = 1
		}
		advance(t, a, obs)
		advance(t, b, obs)
		require.NoError(t, agg.UpdateState(obs))
		require.NoError(t, agg.UpdateBelief(parents))

		requireNormalized(t, agg.AgeDistribution())
	}

	// the aggregate cannot be more current than its least current parent
	assert.LessOrEqual(t, agg.Currency(), math.Max(a.Currency(), b.Currency())+1e-12)
	assert.Less(t, agg.Currency(), 1.0)
}

func TestAggregator_DefaultsToAll(t *testing.T) {
	agg, err := NewCustomAggregator("x", nil)
	require.NoError(t, err)
	assert.Equal(t, ExpectedQuantity{Quantifier: All}, agg.aggregation)
}

func TestAggregator_RejectsNonTrackingParents(t *testing.T) {
	data, err := NewDataNode("season", nil)
	require.NoError(t, err)
	agg, err := NewAggregator("x", Most)
	require.NoError(t, err)

	_, err = NewNetwork([]Member{
		{Node: data},
		{Node: agg, Parents: []string{"season"}},
	}, Options{}, nil)
	assert.ErrorIs(t, err, ErrDependency)
}
