package api

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bobarin/storyreel/internal/jobs"
	"github.com/bobarin/storyreel/internal/models"
	"github.com/bobarin/storyreel/internal/services"
	"github.com/bobarin/storyreel/internal/worker"
)

// gcProbePercent is the chance (in percent) that a request triggers an
// opportunistic garbage collection sweep of expired jobs.
const gcProbePercent = 1

// Dispatcher starts a generation job and returns its ID.
// Implemented by worker.Worker.
type Dispatcher interface {
	Dispatch(req worker.Request) (string, error)
}

// VoiceLister exposes the configured TTS provider's voice catalog.
type VoiceLister interface {
	ListVoices(ctx context.Context) ([]models.Voice, error)
}

type Handler struct {
	dispatcher    Dispatcher
	registry      *jobs.Registry
	voices        VoiceLister
	maxTextLength int
}

func NewHandler(dispatcher Dispatcher, registry *jobs.Registry, voices VoiceLister, maxTextLength int) *Handler {
	return &Handler{
		dispatcher:    dispatcher,
		registry:      registry,
		voices:        voices,
		maxTextLength: maxTextLength,
	}
}

// Generate handles POST /api/generate
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	h.maybeCollectGarbage()

	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Validate
	text := strings.TrimSpace(req.Text)
	if text == "" {
		respondError(w, http.StatusBadRequest, "Text is required")
		return
	}
	if len([]rune(text)) > h.maxTextLength {
		respondError(w, http.StatusBadRequest, "Text exceeds maximum length")
		return
	}

	// Transitions default on; callers opt out explicitly.
	useTransitions := true
	if req.UseTransitions != nil {
		useTransitions = *req.UseTransitions
	}

	jobID, err := h.dispatcher.Dispatch(worker.Request{
		Text:               text,
		Style:              req.Style,
		Voice:              req.Voice,
		UseTransitions:     useTransitions,
		AddBackgroundMusic: req.AddBackgroundMusic,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to start job")
		return
	}

	respondJSON(w, http.StatusAccepted, models.GenerateResponse{
		JobID:  jobID,
		Status: models.JobStatusProcessing,
	})
}

// Status handles GET /api/status/{id}
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	h.maybeCollectGarbage()

	job, err := h.registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, jobs.ErrJobNotFound) {
			respondError(w, http.StatusNotFound, "Job not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to look up job")
		return
	}

	respondJSON(w, http.StatusOK, models.StatusResponse{
		Status:   job.Status,
		Progress: job.Progress,
		VideoURL: job.VideoURL,
		Error:    job.Error,
	})
}

// History handles GET /api/history
// Query params:
//   - limit: max results (default 20, max 100)
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > 100 {
		limit = 100
	}

	respondJSON(w, http.StatusOK, h.registry.ListRecent(limit))
}

// Voices handles GET /api/voices
func (h *Handler) Voices(w http.ResponseWriter, r *http.Request) {
	voices, err := h.voices.ListVoices(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, "Failed to fetch voices")
		return
	}

	respondJSON(w, http.StatusOK, voices)
}

// Styles handles GET /api/styles
func (h *Handler) Styles(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, services.Styles)
}

// Health check
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// maybeCollectGarbage runs a sweep on a small fraction of requests so the
// registry stays bounded even without the periodic ticker.
func (h *Handler) maybeCollectGarbage() {
	if rand.Intn(100) < gcProbePercent {
		go h.registry.CollectGarbage()
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
