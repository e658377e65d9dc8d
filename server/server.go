// Package server exposes the simulator over HTTP. Runs execute
// synchronously per request; stage transitions stream to websocket
// subscribers as they happen.
package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/chromalab/go-chroma/method"
	"github.com/chromalab/go-chroma/simulator"
	"github.com/chromalab/go-chroma/store"
	"github.com/chromalab/go-chroma/validation"
)

// DefaultRunTimeout bounds a single simulation request.
const DefaultRunTimeout = 2 * time.Minute

// Server routes simulation, validation, preset and run-history requests.
type Server struct {
	Router     http.Handler
	hub        *Hub
	store      *store.Store
	log        *zap.Logger
	runTimeout time.Duration
}

// SimulateRequest is the body of POST /api/simulate. RunID is optional
// and echoed into the result when set; the export flags are advisory
// pass-through fields for export collaborators.
type SimulateRequest struct {
	RunID                string                `json:"run_id,omitempty"`
	Method               *method.Parameters    `json:"method_parameters"`
	Sample               *method.SampleProfile `json:"sample_profile"`
	IncludeNoise         bool                  `json:"include_noise"`
	IncludeBaselineDrift bool                  `json:"include_baseline_drift"`
	Seed                 int64                 `json:"simulation_seed"`
	ExportCSV            bool                  `json:"export_csv"`
	ExportPNG            bool                  `json:"export_png"`
}

// Options assembles the simulation options carried by the request.
func (r SimulateRequest) Options() method.Options {
	return method.Options{
		RunID:                r.RunID,
		IncludeNoise:         r.IncludeNoise,
		IncludeBaselineDrift: r.IncludeBaselineDrift,
		Seed:                 r.Seed,
		ExportCSV:            r.ExportCSV,
		ExportPNG:            r.ExportPNG,
	}
}

// ValidateRequest is the body of POST /api/validate. Sample is optional.
type ValidateRequest struct {
	Method *method.Parameters    `json:"method_parameters"`
	Sample *method.SampleProfile `json:"sample_profile,omitempty"`
}

type stageEvent struct {
	Type      string `json:"type"`
	Stage     string `json:"stage"`
	Timestamp string `json:"timestamp"`
}

type errorBody struct {
	Error  string             `json:"error"`
	Issues []validation.Issue `json:"issues,omitempty"`
}

// New creates a Server. The store may be nil, in which case the preset
// and run-history endpoints respond 503.
func New(st *store.Store, log *zap.Logger) *Server {
	hub := NewHub(log)
	go hub.run()

	s := &Server{
		hub:        hub,
		store:      st,
		log:        log,
		runTimeout: DefaultRunTimeout,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/api/simulate", s.handleSimulate)
	mux.HandleFunc("/api/validate", s.handleValidate)
	mux.HandleFunc("/api/presets", s.handlePresets)
	mux.HandleFunc("/api/presets/", s.handlePreset)
	mux.HandleFunc("/api/runs", s.handleRuns)
	mux.HandleFunc("/api/runs/", s.handleRun)

	s.Router = withCORS(mux)
	return s
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	serveWS(s.hub, w, r)
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error(), nil)
		return
	}
	if req.Method == nil || req.Sample == nil {
		writeError(w, http.StatusBadRequest, "method_parameters and sample_profile are required", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.runTimeout)
	defer cancel()

	sim := simulator.New()
	sim.OnStage = func(stage simulator.Stage) {
		s.hub.broadcastJSON(stageEvent{
			Type:      "stage",
			Stage:     string(stage),
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		})
	}

	result, err := sim.Run(ctx, req.Method, req.Sample, req.Options())
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			writeError(w, http.StatusUnprocessableEntity, "validation failed", verr.Issues)
			return
		}
		if errors.Is(err, context.DeadlineExceeded) {
			writeError(w, http.StatusGatewayTimeout, "simulation timed out", nil)
			return
		}
		s.log.Error("simulation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	if s.store != nil {
		if _, err := s.store.SaveRun(result); err != nil {
			s.log.Warn("save run", zap.String("run_id", result.RunID), zap.Error(err))
		}
	}
	s.log.Info("simulation complete",
		zap.String("run_id", result.RunID),
		zap.String("method", result.Metadata.MethodName),
		zap.Float64("elapsed_ms", result.SimulationTimeMs))

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error(), nil)
		return
	}
	if req.Method == nil {
		writeError(w, http.StatusBadRequest, "method_parameters is required", nil)
		return
	}

	res := validation.NewValidator(req.Method, req.Sample).Validate()
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "no store configured", nil)
		return
	}
	switch r.Method {
	case http.MethodGet:
		names, err := s.store.ListPresets()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error(), nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"presets": names})
	case http.MethodPost:
		var p store.Preset
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json: "+err.Error(), nil)
			return
		}
		if p.Name == "" || p.Params == nil {
			writeError(w, http.StatusBadRequest, "name and params are required", nil)
			return
		}
		if err := s.store.SavePreset(&p); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error(), nil)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"name": p.Name})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handlePreset(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "no store configured", nil)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/api/presets/")
	if name == "" {
		writeError(w, http.StatusBadRequest, "preset name required", nil)
		return
	}
	switch r.Method {
	case http.MethodGet:
		p, err := s.store.GetPreset(name)
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "preset not found", nil)
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error(), nil)
			return
		}
		writeJSON(w, http.StatusOK, p)
	case http.MethodDelete:
		err := s.store.DeletePreset(name)
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "preset not found", nil)
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error(), nil)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "no store configured", nil)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	records, err := s.store.RecentRuns(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": records})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "no store configured", nil)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	runID := strings.TrimPrefix(r.URL.Path, "/api/runs/")
	result, err := s.store.GetRun(runID)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "run not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, issues []validation.Issue) {
	writeJSON(w, status, errorBody{Error: msg, Issues: issues})
}
