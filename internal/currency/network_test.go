package currency

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/Harshitk-cp/currency/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func mustShelfLife(t *testing.T, attr string, p float64) *ShelfLife {
	t.Helper()
	n, err := NewShelfLife(attr, ConstantHazard(p))
	require.NoError(t, err)
	return n
}

func mustAggregator(t *testing.T, attr string, q Quantifier) *Aggregator {
	t.Helper()
	n, err := NewAggregator(attr, q)
	require.NoError(t, err)
	return n
}

func TestNetwork_OrderPlacesParentsFirst(t *testing.T) {
	// registered children first so the order cannot come from registration
	members := []Member{
		{Node: mustAggregator(t, "top", Most), Parents: []string{"left", "right"}},
		{Node: mustAggregator(t, "left", Any), Parents: []string{"a", "b"}},
		{Node: mustAggregator(t, "right", Average), Parents: []string{"b", "c"}},
		{Node: mustShelfLife(t, "a", 0.1)},
		{Node: mustShelfLife(t, "b", 0.2)},
		{Node: mustShelfLife(t, "c", 0.3)},
	}
	net, err := NewNetwork(members, Options{}, zap.NewNop())
	require.NoError(t, err)

	infos := net.Nodes()
	require.Len(t, infos, len(members))

	position := make(map[string]int)
	for i, info := range infos {
		position[info.Attribute] = i
	}
	for _, info := range infos {
		for _, p := range info.Parents {
			assert.Lessf(t, position[p], position[info.Attribute], "%s must follow its parent %s", info.Attribute, p)
		}
	}

	// parentless nodes come first
	for _, info := range infos[:3] {
		assert.Empty(t, info.Parents)
	}
	// ids follow registration
	assert.Equal(t, NodeID(0), infos[len(infos)-1].ID)
	assert.Equal(t, "top", infos[len(infos)-1].Attribute)
	assert.Equal(t, []string{"left", "right"}, infos[len(infos)-1].Parents)
}

func TestNetwork_DependencyErrors(t *testing.T) {
	tests := []struct {
		name    string
		members func() []Member
		want    error
	}{
		{
			name: "two node cycle",
			members: func() []Member {
				return []Member{
					{Node: mustAggregator(t, "x", All), Parents: []string{"y"}},
					{Node: mustAggregator(t, "y", All), Parents: []string{"x"}},
				}
			},
			want: ErrDependency,
		},
		{
			name: "self loop behind a valid root",
			members: func() []Member {
				return []Member{
					{Node: mustShelfLife(t, "root", 0.1)},
					{Node: mustAggregator(t, "loop", All), Parents: []string{"root", "loop"}},
					{Node: mustAggregator(t, "after", All), Parents: []string{"loop"}},
				}
			},
			want: ErrDependency,
		},
		{
			name: "unknown parent",
			members: func() []Member {
				return []Member{{Node: mustAggregator(t, "x", All), Parents: []string{"ghost"}}}
			},
			want: ErrDependency,
		},
		{
			name: "duplicate attribute",
			members: func() []Member {
				return []Member{{Node: mustShelfLife(t, "x", 0.1)}, {Node: NewAgeNode("x")}}
			},
			want: ErrConfiguration,
		},
		{
			name: "nil node",
			members: func() []Member {
				return []Member{{}}
			},
			want: ErrConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewNetwork(tt.members(), Options{}, nil)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNetwork_EstimateShelfLife(t *testing.T) {
	net, err := NewNetwork([]Member{{Node: mustShelfLife(t, "price", 0.1)}}, Options{}, zap.NewNop())
	require.NoError(t, err)

	var rows []domain.Row
	for i := 0; i < 10; i++ {
		v := 1
		if i >= 4 {
			v = 2
		}
		rows = append(rows, domain.Row{"t": i, "price": v})
	}

	series, err := net.Estimate(context.Background(), table(t, nil, rows...))
	require.NoError(t, err)

	points := series["price_currency"]
	require.Len(t, points, 10)
	for i, p := range points {
		age := i
		if i >= 4 {
			age = i - 4
		}
		assert.Equal(t, int64(i), p.Time)
		assert.InDeltaf(t, math.Pow(0.9, float64(age)), p.Value, 1e-6, "step %d", i)
	}
	assert.Equal(t, 1.0, points[0].Value)
	assert.Equal(t, 1.0, points[4].Value)
}

func TestNetwork_EstimateFillsGaps(t *testing.T) {
	tests := []struct {
		name      string
		skip      bool
		wantTimes []int64
	}{
		{"every step reported", false, []int64{3, 4, 5, 6}},
		{"steps without rows skipped", true, []int64{3, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net, err := NewNetwork([]Member{{Node: mustShelfLife(t, "price", 0.5)}}, Options{SkipNullObjects: tt.skip}, nil)
			require.NoError(t, err)

			series, err := net.Estimate(context.Background(), table(t, nil,
				domain.Row{"t": 6, "price": 1},
				domain.Row{"t": 3, "price": 1},
			))
			require.NoError(t, err)

			var times []int64
			for _, p := range series["price_currency"] {
				times = append(times, p.Time)
			}
			assert.Equal(t, tt.wantTimes, times)

			last := series["price_currency"][len(series["price_currency"])-1]
			// three steps of survival at hazard 0.5 since the value at t=3
			assert.InDelta(t, 0.125, last.Value, 1e-12)
		})
	}
}

func TestNetwork_DiamondEndToEnd(t *testing.T) {
	season, err := NewDataNode("season", map[string]float64{"summer": 0.5, "winter": 0.5})
	require.NoError(t, err)
	tbl := NewHazardTable("season")
	require.NoError(t, tbl.Set(map[string]any{"season": "summer"}, 0.05))
	require.NoError(t, tbl.Set(map[string]any{"season": "winter"}, 0.2))
	stock, err := NewConditionalShelfLifeFromTable("stock", tbl)
	require.NoError(t, err)
	orders, err := NewPoissonCUSUM("orders", PoissonModel{GroundRate: 2, AlternativeRate: 6}, DefaultSquash)
	require.NoError(t, err)
	price, err := NewDynamicShelfLife("price", 0.1, 0.3)
	require.NoError(t, err)
	listing := mustAggregator(t, "listing", Many)

	net, err := NewNetwork([]Member{
		{Node: listing, Parents: []string{"stock", "orders", "price"}},
		{Node: stock, Parents: []string{"season"}},
		{Node: season},
		{Node: orders},
		{Node: price},
	}, Options{}, zap.NewNop())
	require.NoError(t, err)

	ds := table(t, []string{"season", "stock", "orders", "price", "listing"},
		domain.Row{"t": 0, "season": "summer", "stock": 10, "orders": 2, "price": 9.5, "listing": "v1"},
		domain.Row{"t": 2, "stock": 10, "orders": 1, "price": 9.5},
		domain.Row{"t": 3, "season": "winter", "orders": 7, "price": 9.9},
		domain.Row{"t": 7, "orders": 8, "stock": 4, "listing": "v2"},
		domain.Row{"t": 11, "orders": 2, "price": 9.9},
	)

	first, err := net.Estimate(context.Background(), ds)
	require.NoError(t, err)

	assert.Len(t, first, 4, "every age-tracking node reports")
	assert.NotContains(t, first, "season_currency")
	for key, points := range first {
		assert.Lenf(t, points, 12, "series %s", key)
		for _, p := range points {
			assert.Truef(t, p.Value >= 0 && p.Value <= 1+1e-12, "%s at %d = %v", key, p.Time, p.Value)
		}
	}
	for _, attr := range []string{"stock", "orders", "price", "listing"} {
		node, ok := net.Node(attr)
		require.True(t, ok)
		requireNormalized(t, node.(AgeTracker).AgeDistribution())
	}

	// a cleared network reproduces the same run
	net.Clear()
	second, err := net.Estimate(context.Background(), ds)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNetwork_MissingAttribute(t *testing.T) {
	net, err := NewNetwork([]Member{{Node: mustShelfLife(t, "price", 0.5)}}, Options{}, nil)
	require.NoError(t, err)

	_, err = net.Estimate(context.Background(), table(t, nil, domain.Row{"t": 0, "stock": 1}))
	assert.ErrorIs(t, err, ErrMissingAttribute)

	// declared columns count even when every value is null
	_, err = net.Estimate(context.Background(), table(t, []string{"price"}, domain.Row{"t": 0}))
	assert.NoError(t, err)
}

func TestNetwork_EmptyDataset(t *testing.T) {
	net, err := NewNetwork([]Member{{Node: mustShelfLife(t, "price", 0.5)}}, Options{}, nil)
	require.NoError(t, err)

	series, err := net.Estimate(context.Background(), table(t, []string{"price"}))
	require.NoError(t, err)
	assert.Equal(t, Series{"price_currency": []Point{}}, series)
}

func TestNetwork_StepErrorsStopTheRun(t *testing.T) {
	orders, err := NewPoissonCUSUM("orders", PoissonModel{GroundRate: 1, AlternativeRate: 2}, DefaultSquash)
	require.NoError(t, err)
	net, err := NewNetwork([]Member{{Node: orders}}, Options{}, nil)
	require.NoError(t, err)

	_, err = net.Estimate(context.Background(), table(t, nil,
		domain.Row{"t": 0, "orders": 1},
		domain.Row{"t": 1, "orders": "lots"},
	))
	assert.ErrorIs(t, err, ErrNumericDomain)
	assert.Contains(t, err.Error(), "step 1")
}

func TestNetwork_EstimateEndsAtMaxInt64(t *testing.T) {
	net, err := NewNetwork([]Member{{Node: mustShelfLife(t, "price", 0.5)}}, Options{}, nil)
	require.NoError(t, err)

	ds := table(t, nil,
		domain.Row{"t": int64(math.MaxInt64 - 1), "price": 1},
		domain.Row{"t": int64(math.MaxInt64), "price": 1},
	)

	done := make(chan struct{})
	var series Series
	go func() {
		defer close(done)
		series, err = net.Estimate(context.Background(), ds)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("estimate did not stop at the last time step")
	}
	require.NoError(t, err)
	points := series["price_currency"]
	require.Len(t, points, 2)
	assert.Equal(t, int64(math.MaxInt64), points[1].Time)
}

func TestNetwork_EstimateStopsWhenCanceled(t *testing.T) {
	net, err := NewNetwork([]Member{{Node: mustShelfLife(t, "price", 0.5)}}, Options{}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = net.Estimate(ctx, table(t, nil,
		domain.Row{"t": 0, "price": 1},
		domain.Row{"t": 1_000_000_000, "price": 1},
	))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "step 0")
}
