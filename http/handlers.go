package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"healthrisk/ml"
	"healthrisk/monitoring"
)

// API holds what the handlers need. The pipeline is built once in main and
// shared by every request.
type API struct {
	pipeline *ml.Pipeline
	metrics  *monitoring.Metrics
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewAPI(pipeline *ml.Pipeline, metrics *monitoring.Metrics, logger *zap.Logger, allowedOrigins []string) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		pipeline: pipeline,
		metrics:  metrics,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || originAllowed(allowedOrigins, origin)
			},
		},
	}
}

func RegisterHandlers(mux *http.ServeMux, api *API) {
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("POST /api/predict", api.handlePredict)
	mux.HandleFunc("POST /api/predict/batch", api.handlePredictBatch)
	mux.HandleFunc("GET /api/ws/predict", api.handlePredictSocket)
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handlePredict(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	query, err := ml.ParsePatientQuery(body)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	prediction, err := a.pipeline.Predict(query)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.metrics.ObservePrediction(string(prediction.Level), elapsed(r))

	respondJSON(w, http.StatusOK, prediction)
}

func (a *API) handlePredictBatch(w http.ResponseWriter, r *http.Request) {
	var frame ml.Frame
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&frame); err != nil {
		a.fail(w, r, err)
		return
	}

	predictions, err := a.pipeline.PredictFrame(&frame)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	levels := make([]string, len(predictions))
	for i, prediction := range predictions {
		levels[i] = string(prediction.Level)
	}
	a.metrics.ObservePredictions(levels, elapsed(r))

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"columns":     frame.Columns,
		"predictions": predictions,
		"count":       len(predictions),
	})
}

func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if errors.Is(err, ml.ErrSchemaMismatch) {
		a.metrics.ObserveSchemaMismatch()
	}
	a.logger.Warn("request failed",
		zap.String("request_id", GetRequestID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err))
	respondJSON(w, status, errorResponse{Error: err.Error(), Kind: ml.ErrorKind(err)})
}

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ml.ErrSchemaMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ml.ErrDataUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ml.ErrTraining):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func elapsed(r *http.Request) time.Duration {
	start := GetStartTime(r.Context())
	if start.IsZero() {
		return 0
	}
	return time.Since(start)
}

// respondJSON writes data as a JSON response. Encoding failures become a 500.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		zap.L().Error("failed to encode JSON", zap.Int("status", status), zap.Error(err))
		buf.Reset()
		status = http.StatusInternalServerError
		json.NewEncoder(&buf).Encode(errorResponse{Error: "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
