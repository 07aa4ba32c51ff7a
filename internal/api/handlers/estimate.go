package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/currency/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EstimateHandler struct {
	svc    *service.EstimateService
	logger *zap.Logger
}

func NewEstimateHandler(svc *service.EstimateService, logger *zap.Logger) *EstimateHandler {
	return &EstimateHandler{svc: svc, logger: logger}
}

func (h *EstimateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.EstimateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	run, err := h.svc.Estimate(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to run estimate")
		return
	}

	status := http.StatusOK
	if run.ID != uuid.Nil {
		status = http.StatusCreated
		w.Header().Set("Location", "/v1/estimates/"+run.ID.String())
	}
	writeJSON(w, status, run)
}

func (h *EstimateHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid estimate id")
		return
	}

	run, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to get estimate")
		return
	}
	writeJSON(w, http.StatusOK, run)
}
