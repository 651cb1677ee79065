package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/civicstack/grievance/internal/engine"
	apperrors "github.com/civicstack/grievance/internal/errors"
	"github.com/civicstack/grievance/internal/logger"
	"github.com/civicstack/grievance/internal/models"
	"github.com/civicstack/grievance/internal/store"
	"github.com/civicstack/grievance/pkg/utils"
)

// Handler exposes the analysis engine over HTTP. It plays the collaborator
// role: persisting corpus entries after acceptance and applying department
// load deltas inside the store's locking discipline.
type Handler struct {
	engine      *engine.Engine
	corpus      store.CorpusStore
	departments store.DepartmentStore
	version     string
	buildTime   string
	gitCommit   string
	startTime   time.Time
}

// NewHandler creates a new API handler
func NewHandler(eng *engine.Engine, corpus store.CorpusStore, departments store.DepartmentStore, version, buildTime, gitCommit string) *Handler {
	return &Handler{
		engine:      eng,
		corpus:      corpus,
		departments: departments,
		version:     version,
		buildTime:   buildTime,
		gitCommit:   gitCommit,
		startTime:   time.Now(),
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", h.healthHandler)
		r.Get("/health/ready", h.readinessHandler)
		r.Get("/health/live", h.livenessHandler)
		r.Get("/version", h.versionHandler)

		r.Post("/grievances", h.submitGrievanceHandler)
		r.Post("/analyze", h.analyzeHandler)

		r.Get("/departments", h.listDepartmentsHandler)
		r.Post("/departments", h.upsertDepartmentHandler)
	})
}

type submitRequest struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type submitResponse struct {
	ID       string                 `json:"id"`
	Analysis *models.AnalysisResult `json:"analysis"`
}

// submitGrievanceHandler runs the full intake flow: analyze against the
// retained corpus and live departments, apply the load delta, then retain
// the text for future duplicate checks.
func (h *Handler) submitGrievanceHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	text := strings.TrimSpace(strings.TrimSpace(req.Title) + " " + strings.TrimSpace(req.Description))
	if text == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "title or description required")
		return
	}

	id := req.ID
	if id == "" {
		id = uuid.New().String()
	}

	// The category is not known until analysis runs, so the duplicate check
	// sees the whole corpus. Snapshot's category filter exists for callers
	// that already know the scope, e.g. a re-check after classification.
	corpus, err := h.corpus.Snapshot(ctx, "")
	if err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, "corpus unavailable")
		return
	}
	departments, err := h.departments.List(ctx)
	if err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, "departments unavailable")
		return
	}

	result, err := h.engine.Analyze(ctx, text, corpus, departments)
	if err != nil {
		logger.Error("Analysis failed", "grievance_id", id, "error", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	// Apply the engine's load instruction. A concurrent submission may
	// have filled the department since the snapshot; routing then degrades
	// to an unrouted outcome rather than overfilling.
	if result.Routing.Routed {
		if err := h.departments.ApplyDelta(ctx, result.Routing.DepartmentID, result.Routing.LoadDelta); err != nil {
			if errors.Is(err, apperrors.ErrCapacityExceeded) || errors.Is(err, apperrors.ErrNotFound) {
				logger.Warn("Routing lost capacity race",
					"grievance_id", id,
					"department_id", result.Routing.DepartmentID,
					"error", err,
				)
				result.Routing = models.RoutingDecision{
					Routed: false,
					Reason: "department filled during submission",
				}
			} else {
				h.writeErrorResponse(w, http.StatusInternalServerError, "load update failed")
				return
			}
		}
	}

	entry := models.CorpusEntry{ID: id, Text: text, Category: result.Category.Category}
	if err := h.corpus.Add(ctx, entry); err != nil {
		logger.Error("Corpus retention failed", "grievance_id", id, "error", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, "corpus update failed")
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, submitResponse{ID: id, Analysis: result})
}

type analyzeRequest struct {
	Text        string                      `json:"text"`
	Corpus      []models.CorpusEntry        `json:"corpus,omitempty"`
	Departments []models.DepartmentSnapshot `json:"departments,omitempty"`
}

// analyzeHandler runs a stateless dry-run analysis over caller-supplied
// corpus and department snapshots. Nothing is retained and no load delta is
// applied.
func (h *Handler) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Entries submitted without an ID get a deterministic one derived
	// from their text.
	for i := range req.Corpus {
		if req.Corpus[i].ID == "" {
			req.Corpus[i].ID = utils.HashString(req.Corpus[i].Text)
		}
	}

	result, err := h.engine.Analyze(r.Context(), req.Text, req.Corpus, req.Departments)
	if err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, result)
}

func (h *Handler) listDepartmentsHandler(w http.ResponseWriter, r *http.Request) {
	departments, err := h.departments.List(r.Context())
	if err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, "departments unavailable")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"departments": departments,
		"count":       len(departments),
	})
}

func (h *Handler) upsertDepartmentHandler(w http.ResponseWriter, r *http.Request) {
	var dept models.DepartmentSnapshot
	if err := json.NewDecoder(r.Body).Decode(&dept); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.departments.Upsert(r.Context(), dept); err != nil {
		if errors.Is(err, apperrors.ErrInvalidInput) {
			h.writeErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		h.writeErrorResponse(w, http.StatusInternalServerError, "department update failed")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{"id": dept.ID, "status": "ok"})
}

// healthHandler provides basic health check
func (h *Handler) healthHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"version":   h.version,
	})
}

// readinessHandler checks if the application is ready to serve traffic
func (h *Handler) readinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	checks := map[string]string{
		"corpus":      "ok",
		"departments": "ok",
	}
	statusCode := http.StatusOK

	if err := h.corpus.Health(ctx); err != nil {
		checks["corpus"] = "error: " + err.Error()
		statusCode = http.StatusServiceUnavailable
	}
	if err := h.departments.Health(ctx); err != nil {
		checks["departments"] = "error: " + err.Error()
		statusCode = http.StatusServiceUnavailable
	}

	h.writeJSONResponse(w, statusCode, map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"checks":    checks,
	})
}

// livenessHandler provides a liveness probe
func (h *Handler) livenessHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"status": "alive",
		"uptime": time.Since(h.startTime).String(),
	})
}

func (h *Handler) versionHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"version":    h.version,
		"build_time": h.buildTime,
		"git_commit": h.gitCommit,
	})
}

func (h *Handler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	h.writeJSONResponse(w, statusCode, map[string]interface{}{
		"error":  message,
		"status": statusCode,
	})
}
