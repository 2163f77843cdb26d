package services

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/bobarin/storyreel/internal/audio"
	"github.com/bobarin/storyreel/internal/timeline"
)

// PCMSampleRate is the sample rate used when shuttling audio between ffmpeg
// and the in-memory mixer.
const PCMSampleRate = 44100

// RenderSettings carries the encoding parameters for clip rendering.
type RenderSettings struct {
	Width      int
	Height     int
	FPS        int
	VideoCodec string // e.g. "libx264"
	AudioCodec string // e.g. "aac"
}

// ---------------------------------------------------------------------------
// FFmpegService — thin wrapper around the ffmpeg/ffprobe binaries
// ---------------------------------------------------------------------------

type FFmpegService struct {
	tempDir string
}

func NewFFmpegService(tempDir string) *FFmpegService {
	// Create temp directory if it doesn't exist
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		panic(fmt.Sprintf("failed to create temp dir: %v", err))
	}

	return &FFmpegService{
		tempDir: tempDir,
	}
}

// ProbeDuration returns the duration of a media file in seconds.
func (s *FFmpegService) ProbeDuration(ctx context.Context, path string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}

	cmd := exec.CommandContext(ctx, "ffprobe", args...)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	var durationSec float64
	if _, err := fmt.Sscanf(strings.TrimSpace(string(output)), "%f", &durationSec); err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}

	return durationSec, nil
}

// RenderSegment renders one timeline segment as a fixed-duration video clip:
// the still image scaled/padded to the output size, the segment's entry and
// exit fades applied, and the narration audio attached (silence when the
// segment has none, so every clip carries an audio stream for concat).
func (s *FFmpegService) RenderSegment(ctx context.Context, seg timeline.Segment, settings RenderSettings, outputPath string) error {
	durArg := fmt.Sprintf("%.3f", seg.Duration)

	args := []string{
		"-loop", "1",
		"-t", durArg,
		"-i", seg.ImagePath,
	}

	if seg.AudioPath != "" {
		args = append(args, "-i", seg.AudioPath)
	} else {
		args = append(args,
			"-f", "lavfi",
			"-t", durArg,
			"-i", fmt.Sprintf("anullsrc=channel_layout=stereo:sample_rate=%d", PCMSampleRate),
		)
	}

	args = append(args,
		"-vf", buildSegmentFilter(seg, settings),
		"-af", "apad", // fill short narration with silence up to the clip length
		"-t", durArg,
		"-r", fmt.Sprintf("%d", settings.FPS),
		"-c:v", settings.VideoCodec,
		"-c:a", settings.AudioCodec,
		"-b:a", "192k",
		"-ar", fmt.Sprintf("%d", PCMSampleRate),
		"-ac", "2",
		"-pix_fmt", "yuv420p",
		"-y",
		outputPath,
	)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg render segment failed: %w", err)
	}

	return nil
}

// buildSegmentFilter constructs the -vf chain: scale/pad to the target
// frame, then the entry and exit fades from the segment's transition
// metadata. Cross-fades map to plain fades (from/to black); color fades
// carry their randomly chosen RGB.
func buildSegmentFilter(seg timeline.Segment, settings RenderSettings) string {
	parts := []string{
		fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", settings.Width, settings.Height),
		fmt.Sprintf("pad=%d:%d:(ow-iw)/2:(oh-ih)/2", settings.Width, settings.Height),
	}

	if seg.Entry != nil {
		fade := fmt.Sprintf("fade=t=in:st=0:d=%.2f", seg.Entry.Duration)
		if seg.Entry.Color != nil {
			fade += fmt.Sprintf(":color=0x%02X%02X%02X", seg.Entry.Color.R, seg.Entry.Color.G, seg.Entry.Color.B)
		}
		parts = append(parts, fade)
	}

	if seg.Exit != nil {
		start := seg.Duration - seg.Exit.Duration
		if start < 0 {
			start = 0
		}
		fade := fmt.Sprintf("fade=t=out:st=%.3f:d=%.2f", start, seg.Exit.Duration)
		if seg.Exit.Color != nil {
			fade += fmt.Sprintf(":color=0x%02X%02X%02X", seg.Exit.Color.R, seg.Exit.Color.G, seg.Exit.Color.B)
		}
		parts = append(parts, fade)
	}

	parts = append(parts, "format=yuv420p")
	return strings.Join(parts, ",")
}

// Concatenate combines rendered clips into one continuous video.
// All clips share identical encoding settings, so streams are copied.
func (s *FFmpegService) Concatenate(ctx context.Context, clipPaths []string, outputPath string) error {
	if len(clipPaths) == 0 {
		return fmt.Errorf("no clips to concatenate")
	}

	// Create a concat list file. The name must be unique per call: concurrent
	// jobs all concatenate to an output.mp4, and a shared list would let one
	// job's ffmpeg read another job's clips.
	f, err := os.CreateTemp(s.tempDir, "concat_*.txt")
	if err != nil {
		return fmt.Errorf("failed to create concat list: %w", err)
	}
	listPath := f.Name()
	defer os.Remove(listPath)

	for _, path := range clipPaths {
		// Write in FFmpeg concat format
		fmt.Fprintf(f, "file '%s'\n", path)
	}
	f.Close()

	args := []string{
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy", // Copy without re-encoding
		"-y",
		outputPath,
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg concatenate failed: %w", err)
	}

	return nil
}

// ExtractSamples decodes a media file's audio into a mono PCM track for the
// mixer. Files without an audio stream produce an error; callers treat that
// as "no primary track".
func (s *FFmpegService) ExtractSamples(ctx context.Context, path string) (*audio.Track, error) {
	args := []string{
		"-i", path,
		"-vn",
		"-f", "f64le",
		"-acodec", "pcm_f64le",
		"-ac", "1",
		"-ar", fmt.Sprintf("%d", PCMSampleRate),
		"pipe:1",
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	raw, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg extract samples failed: %w", err)
	}

	samples := make([]float64, len(raw)/8)
	for i := range samples {
		bits := binary.LittleEndian.Uint64(raw[i*8 : i*8+8])
		samples[i] = math.Float64frombits(bits)
	}

	return &audio.Track{Samples: samples, SampleRate: PCMSampleRate}, nil
}

// EncodeSamples encodes a mono PCM track to a compressed audio file.
func (s *FFmpegService) EncodeSamples(ctx context.Context, track *audio.Track, codec, outputPath string) error {
	raw := make([]byte, len(track.Samples)*8)
	for i, sample := range track.Samples {
		binary.LittleEndian.PutUint64(raw[i*8:i*8+8], math.Float64bits(sample))
	}

	args := []string{
		"-f", "f64le",
		"-ar", fmt.Sprintf("%d", track.SampleRate),
		"-ac", "1",
		"-i", "pipe:0",
		"-c:a", codec,
		"-b:a", "192k",
		"-y",
		outputPath,
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	cmd.Stdin = bytes.NewReader(raw)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg encode samples failed: %w", err)
	}

	return nil
}

// ReplaceAudio muxes a new audio track over a video's existing one without
// re-encoding the video stream.
func (s *FFmpegService) ReplaceAudio(ctx context.Context, videoPath, audioPath, outputPath string) error {
	args := []string{
		"-i", videoPath,
		"-i", audioPath,
		"-map", "0:v",
		"-map", "1:a",
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		"-y",
		outputPath,
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg replace audio failed: %w", err)
	}

	return nil
}

// TempPath creates a path for an intermediate file in the service's temp directory.
func (s *FFmpegService) TempPath(filename string) string {
	return filepath.Join(s.tempDir, filename)
}

// Cleanup removes temporary files
func (s *FFmpegService) Cleanup(paths ...string) {
	for _, path := range paths {
		os.Remove(path)
	}
}
