package timeline

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func TestBuildSegmentPerScene(t *testing.T) {
	dir := t.TempDir()
	img0 := writePNG(t, dir, "scene_000.png")
	img1 := writePNG(t, dir, "scene_001.png")
	audio0 := writeBytes(t, dir, "scene_000.mp3", 50000)

	b := NewBuilder(NewResolver(&fakeProber{duration: 6.5}), 64, 48)
	segments := b.Build(context.Background(), []string{img0, img1}, []string{audio0, ""})

	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}

	if segments[0].ImagePath != img0 || segments[0].AudioPath != audio0 {
		t.Error("segment 0 paths not preserved")
	}
	if segments[0].Duration != 6.5 {
		t.Errorf("expected narrated duration 6.5, got %f", segments[0].Duration)
	}

	if segments[1].AudioPath != "" {
		t.Error("segment 1 should have no narration")
	}
	if segments[1].Duration != DefaultSegmentDuration {
		t.Errorf("expected default duration %f, got %f", DefaultSegmentDuration, segments[1].Duration)
	}
}

func TestBuildClampsShortNarration(t *testing.T) {
	dir := t.TempDir()
	img := writePNG(t, dir, "scene_000.png")
	audio := writeBytes(t, dir, "scene_000.mp3", 5000)

	b := NewBuilder(NewResolver(&fakeProber{duration: 0.8}), 64, 48)
	segments := b.Build(context.Background(), []string{img}, []string{audio})

	if segments[0].Duration != DurationFloor {
		t.Errorf("expected floor %f, got %f", DurationFloor, segments[0].Duration)
	}
}

func TestBuildSubstitutesPlaceholderForMissingImage(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "scene_000.png")

	b := NewBuilder(NewResolver(&fakeProber{duration: 3}), 64, 48)
	segments := b.Build(context.Background(), []string{missing}, []string{""})

	if segments[0].ImagePath == missing {
		t.Fatal("expected placeholder path for missing image")
	}
	if !strings.Contains(filepath.Base(segments[0].ImagePath), "placeholder_000") {
		t.Errorf("unexpected placeholder name: %s", segments[0].ImagePath)
	}

	f, err := os.Open(segments[0].ImagePath)
	if err != nil {
		t.Fatalf("placeholder not written: %v", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("placeholder does not decode: %v", err)
	}
	if cfg.Width != 64 || cfg.Height != 48 {
		t.Errorf("expected 64x48 placeholder, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestBuildSubstitutesPlaceholderForCorruptImage(t *testing.T) {
	dir := t.TempDir()
	corrupt := writeBytes(t, dir, "scene_000.png", 200) // zeros, not a PNG

	b := NewBuilder(NewResolver(&fakeProber{duration: 3}), 32, 32)
	segments := b.Build(context.Background(), []string{corrupt}, []string{""})

	if segments[0].ImagePath == corrupt {
		t.Error("expected placeholder path for corrupt image")
	}
}

func TestBuildOrderPreserved(t *testing.T) {
	dir := t.TempDir()
	paths := make([]string, 4)
	for i := range paths {
		paths[i] = writePNG(t, dir, fmt.Sprintf("scene_%03d.png", i))
	}

	b := NewBuilder(NewResolver(&fakeProber{duration: 3}), 16, 16)
	segments := b.Build(context.Background(), paths, make([]string, 4))

	for i, seg := range segments {
		if seg.ImagePath != paths[i] {
			t.Errorf("segment %d out of order: %s", i, seg.ImagePath)
		}
	}
}
