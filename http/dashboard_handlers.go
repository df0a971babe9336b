package http

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"go.uber.org/zap"

	"healthrisk/ml"
)

//go:embed web
var webFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(webFS, "web/index.html"))

type dashboardPage struct {
	Features []ml.FeatureRange
	Preview  *ml.Frame
	Total    int
	Model    modelResponse
}

// RegisterDashboardRoutes registers the dashboard page and its assets
func RegisterDashboardRoutes(mux *http.ServeMux, api *API) {
	static, err := fs.Sub(webFS, "web")
	if err != nil {
		panic(err)
	}
	mux.Handle("GET /static/", http.FileServerFS(static))
	mux.HandleFunc("GET /{$}", api.handleDashboard)
}

func (a *API) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ds := a.pipeline.Dataset()
	page := dashboardPage{
		Features: ml.FeatureRanges(),
		Preview:  ds.Head(defaultPreviewRows),
		Total:    ds.Len(),
		Model:    a.modelSummary(),
	}

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, page); err != nil {
		a.logger.Error("render dashboard", zap.Error(err))
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
