package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/polarplant/ecboard/pkg/catalog"
	"github.com/polarplant/ecboard/pkg/dataset"
	"github.com/polarplant/ecboard/pkg/kit"
)

// NewRouter returns an http.Handler with all dashboard API routes.
func NewRouter(store *dataset.Store, cat *catalog.DB, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	wrap := func(name string, ep kit.Endpoint) kit.Endpoint {
		return kit.Chain(kit.Logging(logger, name))(ep)
	}

	h := &handler{
		overview:    wrap("overview", overviewEndpoint(store)),
		environment: wrap("environment", environmentEndpoint(store)),
		growth:      wrap("growth", growthEndpoint(store)),
		datasets:    wrap("datasets", datasetsEndpoint(cat)),
		store:       store,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/overview", h.handleOverview)
	mux.HandleFunc("GET /v1/environment", h.handleEnvironment)
	mux.HandleFunc("GET /v1/environment/{group}", h.handleEnvironmentGroup)
	mux.HandleFunc("GET /v1/growth", h.handleGrowth)
	mux.HandleFunc("GET /v1/growth/{group}/export", h.handleGrowthExport)
	mux.HandleFunc("GET /v1/datasets", h.handleDatasets)
	mux.HandleFunc("GET /v1/health", h.handleHealth)

	return cors(mux)
}

type handler struct {
	overview    kit.Endpoint
	environment kit.Endpoint
	growth      kit.Endpoint
	datasets    kit.Endpoint
	store       *dataset.Store
}

func (h *handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	resp, err := h.overview(r.Context(), nil)
	if err != nil {
		writeEndpointError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleEnvironment(w http.ResponseWriter, r *http.Request) {
	resp, err := h.environment(r.Context(), &environmentReq{})
	if err != nil {
		writeEndpointError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleEnvironmentGroup(w http.ResponseWriter, r *http.Request) {
	resp, err := h.environment(r.Context(), &environmentReq{Group: r.PathValue("group")})
	if err != nil {
		writeEndpointError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleGrowth(w http.ResponseWriter, r *http.Request) {
	resp, err := h.growth(r.Context(), nil)
	if err != nil {
		writeEndpointError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleGrowthExport streams one group's growth table as an XLSX download.
// Binary output, so it bypasses the JSON endpoint plumbing.
func (h *handler) handleGrowthExport(w http.ResponseWriter, r *http.Request) {
	g, ok := h.store.Group(r.PathValue("group"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown group")
		return
	}
	table, ok := h.store.Growth(g.ID)
	if !ok {
		writeError(w, http.StatusNotFound, "growth dataset unavailable for "+g.ID)
		return
	}

	filename := g.Name + "_생육결과.xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	if err := table.ExportXLSX(w); err != nil {
		// Headers are already sent; nothing to do but log via the connection.
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *handler) handleDatasets(w http.ResponseWriter, r *http.Request) {
	resp, err := h.datasets(r.Context(), nil)
	if err != nil {
		writeEndpointError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- health ---

type healthResponse struct {
	Status   string `json:"status"`
	Datasets int    `json:"datasets"`
	Warnings int    `json:"warnings"`
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:   "ok",
		Datasets: h.store.DatasetCount(),
		Warnings: len(h.store.Warnings()),
	}
	if resp.Datasets == 0 {
		resp.Status = "no_data"
	} else if resp.Warnings > 0 {
		resp.Status = "degraded"
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- helpers ---

func writeEndpointError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dataset.ErrNoData):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, errNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// cors is a simple CORS middleware for browser-based chart clients.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
