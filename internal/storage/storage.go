package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

const finalVideoName = "output.mp4"

// Store manages per-job artifact directories on local disk.
// Layout: <base>/<job-id>/scene_000.png, scene_000.mp3, ..., output.mp4.
type Store struct {
	baseDir string
}

func New(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

func (s *Store) BaseDir() string {
	return s.baseDir
}

// CreateJobDir creates the output directory for a job and returns its path.
func (s *Store) CreateJobDir(jobID string) (string, error) {
	dir := s.JobDir(jobID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create job dir: %w", err)
	}
	return dir, nil
}

func (s *Store) JobDir(jobID string) string {
	return filepath.Join(s.baseDir, jobID)
}

// ScenePath returns the path for a per-scene artifact, named by zero-padded
// scene index: scene_000.png, scene_001.mp3, ...
func (s *Store) ScenePath(jobID string, index int, ext string) string {
	return filepath.Join(s.JobDir(jobID), fmt.Sprintf("scene_%03d.%s", index, ext))
}

// VideoPath returns the fixed final video location within the job directory.
func (s *Store) VideoPath(jobID string) string {
	return filepath.Join(s.JobDir(jobID), finalVideoName)
}

// VideoURL returns the URL path under which the final video is served.
func (s *Store) VideoURL(jobID string) string {
	return "/outputs/" + jobID + "/" + finalVideoName
}

func (s *Store) WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// RemoveJob deletes a job's directory and everything in it.
// Used by garbage collection; best-effort at the call site.
func (s *Store) RemoveJob(jobID string) error {
	return os.RemoveAll(s.JobDir(jobID))
}
