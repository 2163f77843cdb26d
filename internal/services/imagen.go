package services

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/genai"
)

// ---------------------------------------------------------------------------
// Imagen Image Generation Service
// Uses the Google Gen AI SDK to generate scene illustrations.
// ---------------------------------------------------------------------------

const imagenModel = "imagen-3.0-generate-002"

// ImagenService handles image generation via Google's Imagen model.
type ImagenService struct {
	apiKey string
	model  string
}

// Ensure ImagenService implements ImageService at compile time.
var _ ImageService = (*ImagenService)(nil)

func NewImagenService(apiKey string) *ImagenService {
	return &ImagenService{
		apiKey: apiKey,
		model:  imagenModel,
	}
}

// GenerateImage generates a single image from the prompt.
// Width/height are mapped to the closest supported aspect ratio — Imagen
// does not take pixel dimensions directly.
func (s *ImagenService) GenerateImage(ctx context.Context, prompt, negativePrompt string, width, height int) ([]byte, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  s.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	config := &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    closestAspectRatio(width, height),
		NegativePrompt: negativePrompt,
	}

	log.Printf("[Imagen] Generating image (model=%s, promptLen=%d, aspect=%s)", s.model, len(prompt), config.AspectRatio)

	resp, err := client.Models.GenerateImages(ctx, s.model, prompt, config)
	if err != nil {
		return nil, fmt.Errorf("imagen request failed: %w", err)
	}

	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return nil, fmt.Errorf("no images in response")
	}

	data := resp.GeneratedImages[0].Image.ImageBytes
	if len(data) == 0 {
		return nil, fmt.Errorf("generated image is empty")
	}

	log.Printf("[Imagen] Image generated (%d bytes)", len(data))
	return data, nil
}

// closestAspectRatio maps pixel dimensions onto Imagen's supported ratios.
func closestAspectRatio(width, height int) string {
	if width <= 0 || height <= 0 {
		return "1:1"
	}

	ratio := float64(width) / float64(height)
	switch {
	case ratio >= 1.55: // 16:9 = 1.78
		return "16:9"
	case ratio >= 1.15: // 4:3 = 1.33
		return "4:3"
	case ratio >= 0.87: // 1:1
		return "1:1"
	case ratio >= 0.65: // 3:4 = 0.75
		return "3:4"
	default: // 9:16 = 0.56
		return "9:16"
	}
}
