package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ObservationStore reads observation tables.
type ObservationStore interface {
	Load(ctx context.Context, src TableSource) (*Table, error)
}

// EstimateStore persists estimation runs.
type EstimateStore interface {
	Create(ctx context.Context, run *EstimateRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*EstimateRun, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
