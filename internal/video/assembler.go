package video

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/bobarin/storyreel/internal/audio"
	"github.com/bobarin/storyreel/internal/services"
	"github.com/bobarin/storyreel/internal/timeline"
)

// Assembler concatenates finalized timeline segments into one continuous
// video and mixes optional background music underneath the narration.
type Assembler struct {
	ffmpeg   *services.FFmpegService
	settings services.RenderSettings
}

func NewAssembler(ffmpeg *services.FFmpegService, settings services.RenderSettings) *Assembler {
	return &Assembler{
		ffmpeg:   ffmpeg,
		settings: settings,
	}
}

// Assemble renders each segment as a clip with its transitions and audio,
// concatenates the clips in order, and encodes the result to destPath.
// Intermediate clips are removed on completion or failure. An encoding
// failure is a stage failure — it is returned, not swallowed, and the
// caller surfaces it as a job failure.
func (a *Assembler) Assemble(ctx context.Context, segments []timeline.Segment, destPath string) (string, error) {
	if len(segments) == 0 {
		return "", fmt.Errorf("no segments to assemble")
	}

	base := filepath.Base(filepath.Dir(destPath)) // job ID, for unique temp names

	clipPaths := make([]string, 0, len(segments))
	defer func() {
		a.ffmpeg.Cleanup(clipPaths...)
	}()

	for i, seg := range segments {
		clipPath := a.ffmpeg.TempPath(fmt.Sprintf("clip_%s_%03d.mp4", base, i))
		if err := a.ffmpeg.RenderSegment(ctx, seg, a.settings, clipPath); err != nil {
			return "", fmt.Errorf("failed to render segment %d: %w", i, err)
		}
		clipPaths = append(clipPaths, clipPath)
	}

	if err := a.ffmpeg.Concatenate(ctx, clipPaths, destPath); err != nil {
		return "", fmt.Errorf("failed to concatenate segments: %w", err)
	}

	return destPath, nil
}

// MixBackground loops or trims the background music to the video's length,
// attenuates it, mixes it sample-wise with the narration, and muxes the
// result back over the video in place. Every failure here is recoverable:
// a missing or undecodable music asset leaves the video untouched.
func (a *Assembler) MixBackground(ctx context.Context, videoPath, musicPath string) error {
	if musicPath == "" {
		log.Printf("[Assembler] No background music path configured, skipping")
		return nil
	}

	if _, err := os.Stat(musicPath); os.IsNotExist(err) {
		log.Printf("[Assembler] Background music file not found at %s, skipping", musicPath)
		return nil
	}

	targetDuration, err := a.ffmpeg.ProbeDuration(ctx, videoPath)
	if err != nil {
		log.Printf("[Assembler] Could not probe video duration, skipping music: %v", err)
		return nil
	}

	background, err := a.ffmpeg.ExtractSamples(ctx, musicPath)
	if err != nil {
		log.Printf("[Assembler] Could not decode background music, skipping: %v", err)
		return nil
	}

	// The video may have no narration at all (every scene's TTS failed);
	// the music then becomes the only track.
	primary, err := a.ffmpeg.ExtractSamples(ctx, videoPath)
	if err != nil || len(primary.Samples) == 0 {
		primary = nil
	}

	mixed := audio.Mix(primary, background, targetDuration)
	if mixed == nil {
		return nil
	}

	base := filepath.Base(filepath.Dir(videoPath))
	mixedAudioPath := a.ffmpeg.TempPath(fmt.Sprintf("mixed_%s.m4a", base))
	muxedPath := a.ffmpeg.TempPath(fmt.Sprintf("muxed_%s.mp4", base))
	defer a.ffmpeg.Cleanup(mixedAudioPath, muxedPath)

	if err := a.ffmpeg.EncodeSamples(ctx, mixed, "aac", mixedAudioPath); err != nil {
		log.Printf("[Assembler] Could not encode mixed audio, keeping video without music: %v", err)
		return nil
	}

	if err := a.ffmpeg.ReplaceAudio(ctx, videoPath, mixedAudioPath, muxedPath); err != nil {
		log.Printf("[Assembler] Could not mux mixed audio, keeping video without music: %v", err)
		return nil
	}

	if err := os.Rename(muxedPath, videoPath); err != nil {
		return fmt.Errorf("failed to move mixed video into place: %w", err)
	}

	log.Printf("[Assembler] Background music mixed (target=%.1fs)", targetDuration)
	return nil
}
