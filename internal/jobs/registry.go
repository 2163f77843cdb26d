package jobs

import (
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/bobarin/storyreel/internal/models"
	"github.com/google/uuid"
)

// ErrJobNotFound is returned by Get for unknown, expired, or mistyped job IDs.
// Distinct from a failed job, which is still returned with its error message.
var ErrJobNotFound = errors.New("job not found")

// ArtifactRemover deletes a job's output artifacts from storage.
// Implemented by storage.Store.
type ArtifactRemover interface {
	RemoveJob(jobID string) error
}

// Registry owns the lifecycle of every job in the process: creation, staged
// progress updates, terminal success/failure, and age-based garbage
// collection. Jobs are mutated from pipeline goroutines while being read
// from request handlers, so every access goes through the mutex.
type Registry struct {
	mu        sync.RWMutex
	jobs      map[string]*models.Job
	retention time.Duration
	artifacts ArtifactRemover
}

func NewRegistry(retention time.Duration, artifacts ArtifactRemover) *Registry {
	return &Registry{
		jobs:      make(map[string]*models.Job),
		retention: retention,
		artifacts: artifacts,
	}
}

// Create allocates a new job record with status processing and progress 0,
// and returns its identifier.
func (r *Registry) Create(textPreview, style string) string {
	id := uuid.New().String()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.jobs[id] = &models.Job{
		ID:          id,
		Status:      models.JobStatusProcessing,
		Progress:    0,
		TextPreview: textPreview,
		Style:       style,
		CreatedAt:   time.Now(),
	}
	return id
}

// Advance sets the progress of a processing job. Silently ignored when the
// job no longer exists (garbage collected) or has reached a terminal state.
// Callers must never decrease progress; that contract is not enforced here.
func (r *Registry) Advance(id string, progress int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok || job.Status.Terminal() {
		return
	}
	job.Progress = progress
}

// Complete atomically marks a job completed: progress 100, output location
// and completion timestamp set. No-op for missing or already-terminal jobs.
func (r *Registry) Complete(id, videoURL string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok || job.Status.Terminal() {
		return
	}

	now := time.Now()
	job.Status = models.JobStatusCompleted
	job.Progress = 100
	job.VideoURL = &videoURL
	job.CompletedAt = &now
}

// Fail atomically marks a job failed with a human-readable message.
// Progress is left at its last reported value.
func (r *Registry) Fail(id, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok || job.Status.Terminal() {
		return
	}

	job.Status = models.JobStatusFailed
	job.Error = &message
}

// Evict drops a job record outright, without touching storage. For setup
// failures where the ID was never handed to a client; everything else goes
// through Fail and ages out via CollectGarbage.
func (r *Registry) Evict(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, id)
}

// Get returns a read-only copy of the job's current fields.
func (r *Registry) Get(id string) (models.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return models.Job{}, ErrJobNotFound
	}
	return *job, nil
}

// ListRecent returns up to limit job summaries ordered by creation time,
// newest first.
func (r *Registry) ListRecent(limit int) []models.JobSummary {
	r.mu.RLock()
	snapshot := make([]models.Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		snapshot = append(snapshot, *job)
	}
	r.mu.RUnlock()

	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].CreatedAt.After(snapshot[j].CreatedAt)
	})

	if limit > 0 && len(snapshot) > limit {
		snapshot = snapshot[:limit]
	}

	summaries := make([]models.JobSummary, len(snapshot))
	for i, job := range snapshot {
		summaries[i] = models.JobSummary{
			JobID:       job.ID,
			Text:        job.TextPreview,
			Style:       job.Style,
			Status:      job.Status,
			CreatedAt:   job.CreatedAt,
			CompletedAt: job.CompletedAt,
		}
	}
	return summaries
}

// CollectGarbage evicts every job older than the retention window and
// removes its output artifacts. Returns the number of jobs evicted.
// Cheap to call frequently; safe to run concurrently with the other
// registry operations.
func (r *Registry) CollectGarbage() int {
	cutoff := time.Now().Add(-r.retention)

	r.mu.Lock()
	var expired []string
	for id, job := range r.jobs {
		if job.CreatedAt.Before(cutoff) {
			expired = append(expired, id)
			delete(r.jobs, id)
		}
	}
	r.mu.Unlock()

	for _, id := range expired {
		if err := r.artifacts.RemoveJob(id); err != nil {
			log.Printf("[Registry] Failed to remove artifacts for expired job %s: %v", id, err)
		}
	}

	if len(expired) > 0 {
		log.Printf("[Registry] Garbage collected %d expired job(s)", len(expired))
	}
	return len(expired)
}
