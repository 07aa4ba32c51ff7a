package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Row is one record of a dataset keyed by column name. A nil value is a
// missing observation.
type Row map[string]any

// Observation is the zero-or-one row a network sees at a single time step.
type Observation struct {
	Time int64
	Row  Row
}

// Empty reports whether there is no row at this step.
func (o Observation) Empty() bool {
	return o.Row == nil
}

// Value returns the non-missing value of column. The second result is false
// when the step has no row or the value is null.
func (o Observation) Value(column string) (any, bool) {
	if o.Row == nil {
		return nil, false
	}
	v, ok := o.Row[column]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Dataset is the tabular input of an estimation run.
type Dataset interface {
	// TimeRange returns the smallest and largest time value present.
	// ok is false for an empty dataset.
	TimeRange() (min, max int64, ok bool)
	// At returns the observation at time t; Row is nil when there is none.
	At(t int64) Observation
	// HasColumn reports whether column is part of the schema.
	HasColumn(column string) bool
}

// Table is an in-memory Dataset. Only the first row for a given time value is
// consulted, so callers should pre-aggregate to one row per time.
type Table struct {
	TimeColumn string
	Columns    []string

	byTime  map[int64]Row
	columns map[string]struct{}
	min     int64
	max     int64
}

// NewTable indexes rows by their time column. Every row must carry an
// integer time value.
func NewTable(timeColumn string, columns []string, rows []Row) (*Table, error) {
	t := &Table{
		TimeColumn: timeColumn,
		byTime:     make(map[int64]Row, len(rows)),
		columns:    make(map[string]struct{}, len(columns)+1),
	}
	t.addColumn(timeColumn)
	for _, c := range columns {
		t.addColumn(c)
	}

	for i, row := range rows {
		raw, ok := row[timeColumn]
		if !ok || raw == nil {
			return nil, fmt.Errorf("row %d: missing time column %q", i, timeColumn)
		}
		ts, ok := Integer(raw)
		if !ok {
			return nil, fmt.Errorf("row %d: time value %v is not an integer", i, raw)
		}
		for c := range row {
			t.addColumn(c)
		}
		if _, dup := t.byTime[ts]; dup {
			continue
		}
		if len(t.byTime) == 0 || ts < t.min {
			t.min = ts
		}
		if len(t.byTime) == 0 || ts > t.max {
			t.max = ts
		}
		t.byTime[ts] = row
	}
	return t, nil
}

func (t *Table) addColumn(c string) {
	if _, ok := t.columns[c]; ok {
		return
	}
	t.columns[c] = struct{}{}
	t.Columns = append(t.Columns, c)
}

func (t *Table) TimeRange() (int64, int64, bool) {
	if len(t.byTime) == 0 {
		return 0, 0, false
	}
	return t.min, t.max, true
}

func (t *Table) At(ts int64) Observation {
	return Observation{Time: ts, Row: t.byTime[ts]}
}

func (t *Table) HasColumn(c string) bool {
	_, ok := t.columns[c]
	return ok
}

// Span returns the number of integer time steps from lo to hi inclusive,
// saturating at math.MaxUint64. lo must not exceed hi.
func Span(lo, hi int64) uint64 {
	d := uint64(hi - lo)
	if d == math.MaxUint64 {
		return d
	}
	return d + 1
}

// Len returns the number of distinct time values.
func (t *Table) Len() int {
	return len(t.byTime)
}

// Number converts a numeric observation to float64.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

// Integer converts an integral observation to int64. Floats are accepted
// only when they carry no fractional part.
func Integer(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	f, ok := Number(v)
	if !ok || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}

// Canonical renders a value as the key used for equality and belief tables,
// so that 5, 5.0 and "5" compare equal.
func Canonical(v any) string {
	switch s := v.(type) {
	case string:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return s
	case bool:
		return strconv.FormatBool(s)
	}
	if f, ok := Number(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// CompareKeys orders canonical keys numerically when both parse as numbers
// and lexically otherwise.
func CompareKeys(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// SortKeys sorts canonical keys in place using CompareKeys.
func SortKeys(keys []string) {
	sort.Slice(keys, func(i, j int) bool { return CompareKeys(keys[i], keys[j]) < 0 })
}
