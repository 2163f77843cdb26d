package timeline

import (
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // decode support for generated scene images
	"image/png"
	"log"
	"os"
	"path/filepath"
)

// Builder converts parallel (image, optional audio) lists into an ordered
// list of timed segments. Duration comes from the narration audio when
// present (clamped to the floor), otherwise the no-audio default is used.
type Builder struct {
	resolver     *Resolver
	placeholderW int
	placeholderH int
}

func NewBuilder(resolver *Resolver, placeholderWidth, placeholderHeight int) *Builder {
	return &Builder{
		resolver:     resolver,
		placeholderW: placeholderWidth,
		placeholderH: placeholderHeight,
	}
}

// Build produces one segment per input position, in input order. imagePaths
// and audioPaths must be the same length; an empty audio path means the
// scene has no narration. A missing or undecodable image is replaced with a
// blank placeholder — a recoverable per-segment failure that never aborts
// the timeline.
func (b *Builder) Build(ctx context.Context, imagePaths, audioPaths []string) []Segment {
	segments := make([]Segment, len(imagePaths))

	for i, imagePath := range imagePaths {
		if !imageUsable(imagePath) {
			if placeholder, err := b.writePlaceholder(imagePath, i); err != nil {
				log.Printf("[Timeline] Scene %d: image unusable and placeholder failed, keeping original path: %v", i, err)
			} else {
				log.Printf("[Timeline] Scene %d: image unusable, substituting blank placeholder", i)
				imagePath = placeholder
			}
		}

		audioPath := ""
		duration := DefaultSegmentDuration
		if i < len(audioPaths) && audioPaths[i] != "" {
			audioPath = audioPaths[i]
			duration = b.resolver.Resolve(ctx, audioPath)
			if duration < DurationFloor {
				duration = DurationFloor
			}
		}

		segments[i] = Segment{
			ImagePath: imagePath,
			AudioPath: audioPath,
			Duration:  duration,
		}
	}

	return segments
}

// imageUsable reports whether the file exists and decodes as an image.
func imageUsable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	_, _, err = image.DecodeConfig(f)
	return err == nil
}

// writePlaceholder writes a white placeholder PNG next to the broken image
// and returns its path.
func (b *Builder) writePlaceholder(imagePath string, index int) (string, error) {
	img := image.NewRGBA(image.Rect(0, 0, b.placeholderW, b.placeholderH))
	white := color.RGBA{255, 255, 255, 255}
	for y := 0; y < b.placeholderH; y++ {
		for x := 0; x < b.placeholderW; x++ {
			img.Set(x, y, white)
		}
	}

	path := filepath.Join(filepath.Dir(imagePath), fmt.Sprintf("placeholder_%03d.png", index))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create placeholder: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("failed to encode placeholder: %w", err)
	}
	return path, nil
}
