package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgeNode_AgeFollowsObservedChanges(t *testing.T) {
	n := NewAgeNode("stock")

	values := []any{5, 5, 7, nil, 7}
	wantAges := []int{0, 1, 0, 1, 2}
	wantPrev := []any{5, 5, 7, 7, 7}

	for i, v := range values {
		advance(t, n, step(int64(i), "stock", v))

		age, ok := n.Age()
		require.True(t, ok)
		assert.Equalf(t, wantAges[i], age, "age at step %d", i)

		prev, ok := n.PreviousValue()
		require.True(t, ok)
		assert.Equalf(t, wantPrev[i], prev, "previous value at step %d", i)

		assert.Equal(t, 1.0, n.Currency())
		requireNormalized(t, n.AgeDistribution())
	}
}

func TestAgeNode_EmptyStepsAge(t *testing.T) {
	n := NewAgeNode("stock")

	advance(t, n, empty(0))
	age, ok := n.Age()
	require.True(t, ok)
	assert.Equal(t, 0, age)
	_, hasPrev := n.PreviousValue()
	assert.False(t, hasPrev)

	advance(t, n, empty(1))
	age, _ = n.Age()
	assert.Equal(t, 1, age)

	// numerically equal values are not a change
	advance(t, n, step(2, "stock", 3))
	advance(t, n, step(3, "stock", 3.0))
	age, _ = n.Age()
	assert.Equal(t, 1, age)
}

func TestAgeNode_Clear(t *testing.T) {
	n := NewAgeNode("stock")
	advance(t, n, step(0, "stock", 1))
	advance(t, n, step(1, "stock", 1))

	n.Clear()

	_, ok := n.Age()
	assert.False(t, ok)
	_, ok = n.PreviousValue()
	assert.False(t, ok)
	assert.Empty(t, n.AgeDistribution())
	assert.Zero(t, n.Currency())
	assert.Equal(t, "stock", n.Attribute())
}

func TestDataNode_Belief(t *testing.T) {
	n, err := NewDataNode("season", map[string]float64{"summer": 0.25, "winter": 0.75})
	require.NoError(t, err)

	advance(t, n, empty(0))
	assert.Equal(t, map[string]float64{"summer": 0.25, "winter": 0.75}, n.Belief())

	advance(t, n, step(1, "season", "winter"))
	assert.Equal(t, map[string]float64{"winter": 1.0}, n.Belief())

	// a missing value keeps the last state
	advance(t, n, step(2, "season", nil))
	assert.Equal(t, map[string]float64{"winter": 1.0}, n.Belief())

	n.Clear()
	_, ok := n.State()
	assert.False(t, ok)
	advance(t, n, empty(3))
	assert.Equal(t, map[string]float64{"summer": 0.25, "winter": 0.75}, n.Belief())
}

func TestDataNode_WithoutPrior(t *testing.T) {
	n, err := NewDataNode("season", nil)
	require.NoError(t, err)

	advance(t, n, empty(0))
	assert.Nil(t, n.Belief())
}

func TestDataNode_RejectsInvalidPrior(t *testing.T) {
	tests := []struct {
		name  string
		prior map[string]float64
	}{
		{"mass above one", map[string]float64{"summer": 1.5}},
		{"negative mass", map[string]float64{"summer": -0.1, "winter": 1.1}},
		{"total above one", map[string]float64{"summer": 0.9, "winter": 0.9}},
		{"total below one", map[string]float64{"summer": 0.3, "winter": 0.3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDataNode("season", tt.prior)
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}

func TestDataNode_PriorKeysMerge(t *testing.T) {
	// "5" and "5.0" canonicalize to the same key
	n, err := NewDataNode("size", map[string]float64{"5": 0.5, "5.0": 0.5})
	require.NoError(t, err)

	advance(t, n, empty(0))
	assert.Equal(t, map[string]float64{"5": 1.0}, n.Belief())
}
