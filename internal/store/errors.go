package store

import (
	"errors"

	"github.com/Harshitk-cp/currency/internal/domain"
)

var ErrNotFound = errors.New("not found")

// Ensure stores satisfy interfaces at compile time.
var (
	_ domain.ObservationStore = (*ObservationStore)(nil)
	_ domain.EstimateStore    = (*EstimateStore)(nil)
)
