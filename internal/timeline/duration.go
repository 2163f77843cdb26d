package timeline

import (
	"context"
	"log"
	"os"
)

const (
	// Rough bytes-per-second ratio for compressed narration audio, used to
	// estimate duration when probing fails.
	estimateBytesPerSecond = 10000.0

	// Lower bound on the size-based estimate.
	minEstimatedDuration = 1.0

	// Returned when the audio file cannot even be read.
	unreadableAudioDuration = 3.0
)

// DurationProber inspects an audio file and returns its exact playback
// duration in seconds. Implemented by services.FFmpegService via ffprobe.
type DurationProber interface {
	ProbeDuration(ctx context.Context, path string) (float64, error)
}

// Resolver determines audio playback durations with deterministic fallbacks.
// It never returns an error: probing failures degrade to a size-based
// estimate, and unreadable files get a fixed default.
type Resolver struct {
	prober DurationProber
}

func NewResolver(prober DurationProber) *Resolver {
	return &Resolver{prober: prober}
}

// Resolve returns the playback duration of the audio at path, in seconds.
// Always positive.
func (r *Resolver) Resolve(ctx context.Context, path string) float64 {
	info, err := os.Stat(path)
	if err != nil {
		log.Printf("[Duration] Audio %s unreadable, using %.1fs default: %v", path, unreadableAudioDuration, err)
		return unreadableAudioDuration
	}

	if d, err := r.prober.ProbeDuration(ctx, path); err == nil && d > 0 {
		return d
	} else if err != nil {
		log.Printf("[Duration] Probe failed for %s, estimating from size: %v", path, err)
	}

	estimated := float64(info.Size()) / estimateBytesPerSecond
	if estimated < minEstimatedDuration {
		estimated = minEstimatedDuration
	}
	return estimated
}
