package currency

import (
	"testing"

	"github.com/Harshitk-cp/currency/internal/domain"
	"github.com/stretchr/testify/require"
)

const massTolerance = 1e-9

// step returns the observation of a single attribute at time t; a nil value
// is a missing observation.
func step(t int64, attr string, v any) domain.Observation {
	return domain.Observation{Time: t, Row: domain.Row{"t": t, attr: v}}
}

// empty returns an observation without a row.
func empty(t int64) domain.Observation {
	return domain.Observation{Time: t}
}

// advance runs both update phases of n without parents.
func advance(t *testing.T, n Node, obs domain.Observation) {
	t.Helper()
	require.NoError(t, n.UpdateState(obs))
	require.NoError(t, n.UpdateBelief(nil))
}

// table builds a dataset with time column "t".
func table(t *testing.T, columns []string, rows ...domain.Row) *domain.Table {
	t.Helper()
	tbl, err := domain.NewTable("t", columns, rows)
	require.NoError(t, err)
	return tbl
}

func requireNormalized(t *testing.T, d AgeDistribution) {
	t.Helper()
	require.Truef(t, d.Normalized(massTolerance), "distribution %v not normalized (total %v)", d, d.Total())
}
