package domain

import (
	"time"

	"github.com/google/uuid"
)

// Point is one estimate of a currency series.
type Point struct {
	Time  int64   `json:"time"`
	Value float64 `json:"value"`
}

// Series maps "<attribute>_currency" to its points in ascending time.
type Series map[string][]Point

// EstimateRun is a persisted estimation result.
type EstimateRun struct {
	ID          uuid.UUID `json:"id"`
	NetworkName string    `json:"network_name"`
	Steps       int64     `json:"steps"`
	Series      Series    `json:"series"`
	CreatedAt   time.Time `json:"created_at"`
}
