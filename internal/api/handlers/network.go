package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/currency/internal/currency"
	"github.com/Harshitk-cp/currency/internal/domain"
	"github.com/Harshitk-cp/currency/internal/service"
	"go.uber.org/zap"
)

type NetworkHandler struct {
	svc    *service.EstimateService
	logger *zap.Logger
}

func NewNetworkHandler(svc *service.EstimateService, logger *zap.Logger) *NetworkHandler {
	return &NetworkHandler{svc: svc, logger: logger}
}

type describeResponse struct {
	Name  string              `json:"name"`
	Nodes []currency.NodeInfo `json:"nodes"`
}

// Describe validates a definition and returns its evaluation order.
func (h *NetworkHandler) Describe(w http.ResponseWriter, r *http.Request) {
	var def domain.NetworkDefinition
	if err := decodeJSON(w, r, &def); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	nodes, err := h.svc.Describe(&def)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to describe network")
		return
	}
	writeJSON(w, http.StatusOK, describeResponse{Name: def.Name, Nodes: nodes})
}

type networkSummary struct {
	Name       string `json:"name"`
	TimeColumn string `json:"time_column"`
	Nodes      int    `json:"nodes"`
}

// List returns the registered networks.
func (h *NetworkHandler) List(w http.ResponseWriter, r *http.Request) {
	defs := h.svc.Networks()
	out := make([]networkSummary, len(defs))
	for i, def := range defs {
		out[i] = networkSummary{Name: def.Name, TimeColumn: def.TimeColumn, Nodes: len(def.Nodes)}
	}
	writeJSON(w, http.StatusOK, map[string]any{"networks": out})
}
