package http

import (
	"net/http"

	"healthrisk/ml"
)

type modelResponse struct {
	Target       string             `json:"target"`
	Features     []string           `json:"features"`
	Coefficients map[string]float64 `json:"coefficients"`
	Impacts      []ml.Impact        `json:"impacts"`
	Intercept    float64            `json:"intercept"`
	Diagnostics  ml.Diagnostics     `json:"diagnostics"`
}

func (a *API) modelSummary() modelResponse {
	model := a.pipeline.Model()
	return modelResponse{
		Target:       a.pipeline.Target(),
		Features:     model.Features(),
		Coefficients: model.Coefficients(),
		Impacts:      model.Impacts(),
		Intercept:    model.Intercept(),
		Diagnostics:  model.Diagnostics(),
	}
}

// handleModel reports the coefficients fit at startup. The model is never
// retrained while the process runs.
func (a *API) handleModel(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, a.modelSummary())
}
