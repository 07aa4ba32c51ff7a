package store

import (
	"context"
	"errors"
	"time"

	"github.com/Harshitk-cp/currency/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EstimateStore struct {
	db *pgxpool.Pool
}

func NewEstimateStore(db *pgxpool.Pool) *EstimateStore {
	return &EstimateStore{db: db}
}

// Create stores the run header and bulk copies its points.
func (s *EstimateStore) Create(ctx context.Context, run *domain.EstimateRun) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	keys := make([]string, 0, len(run.Series))
	for k := range run.Series {
		keys = append(keys, k)
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO estimate_runs (network_name, steps, series_keys)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		run.NetworkName, run.Steps, keys,
	).Scan(&run.ID, &run.CreatedAt)
	if err != nil {
		return err
	}

	var points [][]any
	for key, series := range run.Series {
		for _, p := range series {
			points = append(points, []any{run.ID, key, p.Time, p.Value})
		}
	}
	if len(points) > 0 {
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"currency_points"},
			[]string{"run_id", "series_key", "time", "value"},
			pgx.CopyFromRows(points),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (s *EstimateStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.EstimateRun, error) {
	run := &domain.EstimateRun{}
	var keys []string
	err := s.db.QueryRow(ctx,
		`SELECT id, network_name, steps, series_keys, created_at
		 FROM estimate_runs WHERE id = $1`,
		id,
	).Scan(&run.ID, &run.NetworkName, &run.Steps, &keys, &run.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	run.Series = make(domain.Series, len(keys))
	for _, k := range keys {
		run.Series[k] = []domain.Point{}
	}

	rows, err := s.db.Query(ctx,
		`SELECT series_key, time, value FROM currency_points
		 WHERE run_id = $1 ORDER BY series_key, time`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key string
			p   domain.Point
		)
		if err := rows.Scan(&key, &p.Time, &p.Value); err != nil {
			return nil, err
		}
		run.Series[key] = append(run.Series[key], p)
	}
	return run, rows.Err()
}

// DeleteOlderThan removes runs created before cutoff together with their
// points.
func (s *EstimateStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM estimate_runs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
