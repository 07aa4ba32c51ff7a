package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Harshitk-cp/currency/internal/currency"
	"github.com/Harshitk-cp/currency/internal/definition"
	"github.com/Harshitk-cp/currency/internal/service"
	"go.uber.org/zap"
)

const maxBodyBytes = 16 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads a bounded JSON body. Untyped numbers stay json.Number so
// large integer times survive.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeServiceError maps service and engine errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrNetworkNotFound),
		errors.Is(err, service.ErrEstimateNotFound),
		errors.Is(err, service.ErrSourceNotFound),
		errors.Is(err, service.ErrPersistenceDisabled):
		writeError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, definition.ErrInvalidDefinition),
		errors.Is(err, definition.ErrInvalidSource),
		errors.Is(err, service.ErrInvalidObservations),
		errors.Is(err, service.ErrNetworkRequired),
		errors.Is(err, service.ErrNetworkAmbiguous),
		errors.Is(err, service.ErrDataRequired),
		errors.Is(err, service.ErrDataAmbiguous),
		errors.Is(err, service.ErrSourceUnavailable):
		writeError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, currency.ErrConfiguration),
		errors.Is(err, currency.ErrDependency),
		errors.Is(err, currency.ErrMissingAttribute),
		errors.Is(err, currency.ErrNumericDomain),
		errors.Is(err, service.ErrTooManySteps),
		errors.Is(err, service.ErrTooMuchWork):
		writeError(w, http.StatusUnprocessableEntity, err.Error())

	case errors.Is(err, service.ErrCanceled):
		logger.Warn(fallback, zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, service.ErrCanceled.Error())

	default:
		logger.Error(fallback, zap.Error(err))
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
