package http

import (
	"net/http"
	"strconv"

	"healthrisk/ml"
)

const defaultPreviewRows = 10

// RegisterAPIHandlers registers the read-only model and dataset endpoints
func RegisterAPIHandlers(mux *http.ServeMux, api *API) {
	mux.HandleFunc("GET /api/model", api.handleModel)
	mux.HandleFunc("GET /api/features", handleFeatures)
	mux.HandleFunc("GET /api/dataset", api.handleDataset)
	mux.HandleFunc("GET /api/dataset/summary", api.handleDatasetSummary)
}

func handleFeatures(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"features": ml.FeatureRanges(),
		"default":  ml.DefaultPatient(),
	})
}

func (a *API) handleDataset(w http.ResponseWriter, r *http.Request) {
	limit := defaultPreviewRows
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l < 0 {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a non-negative integer"})
			return
		}
		limit = l
	}

	ds := a.pipeline.Dataset()
	head := ds.Head(limit)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"columns": head.Columns,
		"rows":    head.Rows,
		"total":   ds.Len(),
	})
}

func (a *API) handleDatasetSummary(w http.ResponseWriter, r *http.Request) {
	ds := a.pipeline.Dataset()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"rows":    ds.Len(),
		"columns": ds.Summary(),
	})
}
