package store

import (
	"math/big"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
)

func TestSelectQuery(t *testing.T) {
	tests := []struct {
		name  string
		table string
		cols  []string
		want  string
	}{
		{
			name:  "plain table",
			table: "readings",
			cols:  []string{"day", "price"},
			want:  `SELECT "day", "price" FROM "readings" ORDER BY "day"`,
		},
		{
			name:  "schema qualified",
			table: "shop.readings",
			cols:  []string{"day"},
			want:  `SELECT "day" FROM "shop"."readings" ORDER BY "day"`,
		},
		{
			name:  "quotes are escaped",
			table: `x"; DROP TABLE y; --`,
			cols:  []string{`a"b`},
			want:  `SELECT "a""b" FROM "x""; DROP TABLE y; --" ORDER BY "a""b"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, selectQuery(tt.table, tt.cols))
		})
	}
}

func TestNormalizeValue(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 12.5, normalizeValue(pgtype.Numeric{Int: big.NewInt(125), Exp: -1, Valid: true}))
	assert.Nil(t, normalizeValue(pgtype.Numeric{}))
	assert.Equal(t, ts.Unix(), normalizeValue(ts))
	assert.Equal(t, "raw", normalizeValue([]byte("raw")))
	assert.Equal(t, int32(7), normalizeValue(int32(7)))
	assert.Nil(t, normalizeValue(nil))
}
