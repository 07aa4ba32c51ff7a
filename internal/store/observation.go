package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Harshitk-cp/currency/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ObservationStore reads observation tables from Postgres. Table and column
// names are quoted as identifiers; a dotted table name selects a schema.
type ObservationStore struct {
	db *pgxpool.Pool
}

func NewObservationStore(db *pgxpool.Pool) *ObservationStore {
	return &ObservationStore{db: db}
}

func (s *ObservationStore) Load(ctx context.Context, src domain.TableSource) (*domain.Table, error) {
	cols := append([]string{src.TimeColumn}, src.Columns...)
	query := selectQuery(src.Table, cols)

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, mapQueryError(err, src.Table)
	}
	defer rows.Close()

	var out []domain.Row
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(domain.Row, len(cols))
		for i, c := range cols {
			row[c] = normalizeValue(vals[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, mapQueryError(err, src.Table)
	}

	return domain.NewTable(src.TimeColumn, src.Columns, out)
}

func selectQuery(table string, cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		strings.Join(quoted, ", "),
		pgx.Identifier(strings.Split(table, ".")).Sanitize(),
		quoted[0])
}

func mapQueryError(err error, table string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "42P01", "42703":
			return fmt.Errorf("%w: %s: %s", ErrNotFound, table, pgErr.Message)
		}
	}
	return err
}

// normalizeValue converts driver values into the scalars the currency nodes
// compare: numerics become float64, timestamps become unix seconds.
func normalizeValue(v any) any {
	switch x := v.(type) {
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case time.Time:
		return x.Unix()
	case []byte:
		return string(x)
	default:
		return v
	}
}
