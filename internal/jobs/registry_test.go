package jobs

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bobarin/storyreel/internal/models"
	"github.com/bobarin/storyreel/internal/storage"
)

// fakeRemover records which jobs had their artifacts removed.
type fakeRemover struct {
	mu      sync.Mutex
	removed []string
	err     error
}

func (f *fakeRemover) RemoveJob(jobID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, jobID)
	return f.err
}

func newTestRegistry() (*Registry, *fakeRemover) {
	remover := &fakeRemover{}
	return NewRegistry(24*time.Hour, remover), remover
}

func TestCreateAndGet(t *testing.T) {
	r, _ := newTestRegistry()

	id := r.Create("once upon a time", "anime")
	if id == "" {
		t.Fatal("expected non-empty job ID")
	}

	job, err := r.Get(id)
	if err != nil {
		t.Fatalf("failed to get job: %v", err)
	}
	if job.Status != models.JobStatusProcessing {
		t.Errorf("expected status processing, got %s", job.Status)
	}
	if job.Progress != 0 {
		t.Errorf("expected progress 0, got %d", job.Progress)
	}
	if job.TextPreview != "once upon a time" {
		t.Errorf("unexpected text preview: %q", job.TextPreview)
	}
	if job.Style != "anime" {
		t.Errorf("unexpected style: %q", job.Style)
	}
	if job.VideoURL != nil || job.Error != nil {
		t.Error("expected no video URL or error on a fresh job")
	}
}

func TestGetUnknownID(t *testing.T) {
	r, _ := newTestRegistry()

	if _, err := r.Get("no-such-job"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("expected ErrJobNotFound, got %v", err)
	}
}

func TestAdvance(t *testing.T) {
	r, _ := newTestRegistry()
	id := r.Create("text", "default")

	r.Advance(id, 10)
	r.Advance(id, 60)

	job, _ := r.Get(id)
	if job.Progress != 60 {
		t.Errorf("expected progress 60, got %d", job.Progress)
	}

	// Unknown ID is a silent no-op.
	r.Advance("gone", 50)
}

func TestComplete(t *testing.T) {
	r, _ := newTestRegistry()
	id := r.Create("text", "default")
	r.Advance(id, 80)

	r.Complete(id, "/outputs/"+id+"/output.mp4")

	job, _ := r.Get(id)
	if job.Status != models.JobStatusCompleted {
		t.Errorf("expected completed, got %s", job.Status)
	}
	if job.Progress != 100 {
		t.Errorf("expected progress 100, got %d", job.Progress)
	}
	if job.VideoURL == nil || *job.VideoURL != "/outputs/"+id+"/output.mp4" {
		t.Errorf("unexpected video URL: %v", job.VideoURL)
	}
	if job.CompletedAt == nil {
		t.Error("expected completion timestamp")
	}
}

func TestFailKeepsProgress(t *testing.T) {
	r, _ := newTestRegistry()
	id := r.Create("text", "default")
	r.Advance(id, 60)

	r.Fail(id, "video assembly failed")

	job, _ := r.Get(id)
	if job.Status != models.JobStatusFailed {
		t.Errorf("expected failed, got %s", job.Status)
	}
	if job.Progress != 60 {
		t.Errorf("expected progress to stay at 60, got %d", job.Progress)
	}
	if job.Error == nil || *job.Error != "video assembly failed" {
		t.Errorf("unexpected error message: %v", job.Error)
	}
}

func TestTerminalStatesAreImmutable(t *testing.T) {
	r, _ := newTestRegistry()

	completed := r.Create("a", "default")
	r.Complete(completed, "/outputs/x/output.mp4")
	r.Fail(completed, "late failure")
	r.Advance(completed, 10)

	job, _ := r.Get(completed)
	if job.Status != models.JobStatusCompleted {
		t.Errorf("completed job mutated to %s", job.Status)
	}
	if job.Progress != 100 {
		t.Errorf("completed job progress mutated to %d", job.Progress)
	}

	failed := r.Create("b", "default")
	r.Fail(failed, "boom")
	r.Complete(failed, "/outputs/y/output.mp4")

	job, _ = r.Get(failed)
	if job.Status != models.JobStatusFailed {
		t.Errorf("failed job mutated to %s", job.Status)
	}
	if job.VideoURL != nil {
		t.Error("failed job gained a video URL")
	}
}

func TestEvict(t *testing.T) {
	r, remover := newTestRegistry()
	id := r.Create("text", "default")

	r.Evict(id)

	if _, err := r.Get(id); !errors.Is(err, ErrJobNotFound) {
		t.Error("evicted job still retrievable")
	}
	if len(r.ListRecent(10)) != 0 {
		t.Error("evicted job still listed")
	}
	if len(remover.removed) != 0 {
		t.Errorf("eviction must not touch storage, removed %v", remover.removed)
	}

	// Evicting an unknown ID is a no-op.
	r.Evict("no-such-job")
}

func TestGetReturnsSnapshot(t *testing.T) {
	r, _ := newTestRegistry()
	id := r.Create("text", "default")

	before, _ := r.Get(id)
	r.Advance(id, 50)

	if before.Progress != 0 {
		t.Error("snapshot changed after registry mutation")
	}
}

func TestListRecentOrderAndLimit(t *testing.T) {
	r, _ := newTestRegistry()

	first := r.Create("first", "default")
	second := r.Create("second", "default")
	third := r.Create("third", "default")

	// Spread creation times so ordering is unambiguous.
	r.jobs[first].CreatedAt = time.Now().Add(-3 * time.Minute)
	r.jobs[second].CreatedAt = time.Now().Add(-2 * time.Minute)
	r.jobs[third].CreatedAt = time.Now().Add(-1 * time.Minute)

	summaries := r.ListRecent(10)
	if len(summaries) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(summaries))
	}
	if summaries[0].JobID != third || summaries[2].JobID != first {
		t.Errorf("expected newest-first ordering, got %s, %s, %s",
			summaries[0].JobID, summaries[1].JobID, summaries[2].JobID)
	}

	limited := r.ListRecent(2)
	if len(limited) != 2 {
		t.Fatalf("expected 2 summaries with limit, got %d", len(limited))
	}
	if limited[0].JobID != third {
		t.Errorf("expected newest job first, got %s", limited[0].JobID)
	}
}

func TestCollectGarbage(t *testing.T) {
	r, remover := newTestRegistry()

	expired := r.Create("old", "default")
	fresh := r.Create("new", "default")
	r.jobs[expired].CreatedAt = time.Now().Add(-25 * time.Hour)
	r.jobs[fresh].CreatedAt = time.Now().Add(-1 * time.Hour)

	if n := r.CollectGarbage(); n != 1 {
		t.Fatalf("expected 1 eviction, got %d", n)
	}

	if _, err := r.Get(expired); !errors.Is(err, ErrJobNotFound) {
		t.Error("expired job still retrievable")
	}
	if _, err := r.Get(fresh); err != nil {
		t.Errorf("fresh job evicted: %v", err)
	}

	if len(remover.removed) != 1 || remover.removed[0] != expired {
		t.Errorf("expected artifacts removed for %s, got %v", expired, remover.removed)
	}

	// Updates for an evicted job are silent no-ops.
	r.Advance(expired, 90)
	r.Complete(expired, "/outputs/z/output.mp4")
	if _, err := r.Get(expired); !errors.Is(err, ErrJobNotFound) {
		t.Error("evicted job resurrected by a late update")
	}
}

func TestCollectGarbageRemovesArtifactDirectories(t *testing.T) {
	store, err := storage.New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	r := NewRegistry(24*time.Hour, store)

	expired := r.Create("old", "default")
	fresh := r.Create("new", "default")
	r.jobs[expired].CreatedAt = time.Now().Add(-25 * time.Hour)
	r.jobs[fresh].CreatedAt = time.Now().Add(-1 * time.Hour)

	for _, id := range []string{expired, fresh} {
		dir, err := store.CreateJobDir(id)
		if err != nil {
			t.Fatalf("failed to create job dir: %v", err)
		}
		if err := store.WriteFile(filepath.Join(dir, "output.mp4"), []byte("video")); err != nil {
			t.Fatalf("failed to write artifact: %v", err)
		}
	}

	r.CollectGarbage()

	if _, err := os.Stat(store.JobDir(expired)); !os.IsNotExist(err) {
		t.Error("expired job's directory still on disk")
	}
	if _, err := os.Stat(filepath.Join(store.JobDir(fresh), "output.mp4")); err != nil {
		t.Errorf("fresh job's artifacts disturbed: %v", err)
	}
}

func TestCollectGarbageNothingExpired(t *testing.T) {
	r, remover := newTestRegistry()
	r.Create("recent", "default")

	if n := r.CollectGarbage(); n != 0 {
		t.Errorf("expected no evictions, got %d", n)
	}
	if len(remover.removed) != 0 {
		t.Errorf("unexpected artifact removals: %v", remover.removed)
	}
}
