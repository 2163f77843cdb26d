package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"

	openai "github.com/sashabaranov/go-openai"
)

// ---------------------------------------------------------------------------
// DALL-E Image Generation Service
// Alternative image provider using the OpenAI API, selected when no Gemini
// key is configured.
// ---------------------------------------------------------------------------

type DallEService struct {
	client *openai.Client
}

// Ensure DallEService implements ImageService at compile time.
var _ ImageService = (*DallEService)(nil)

func NewDallEService(apiKey string) *DallEService {
	return &DallEService{
		client: openai.NewClient(apiKey),
	}
}

// GenerateImage generates a single image from the prompt. The OpenAI image
// API has no negative prompt parameter, so the negative terms are folded
// into the prompt as an avoidance instruction, and pixel dimensions map to
// the closest supported size.
func (s *DallEService) GenerateImage(ctx context.Context, prompt, negativePrompt string, width, height int) ([]byte, error) {
	fullPrompt := prompt
	if negativePrompt != "" {
		fullPrompt = fmt.Sprintf("%s. Avoid: %s", prompt, negativePrompt)
	}

	size := closestImageSize(width, height)
	log.Printf("[DallE] Generating image (promptLen=%d, size=%s)", len(fullPrompt), size)

	resp, err := s.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         fullPrompt,
		Model:          openai.CreateImageModelDallE3,
		N:              1,
		Size:           size,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return nil, fmt.Errorf("openai image request failed: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no images in response")
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 image: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("generated image is empty")
	}

	log.Printf("[DallE] Image generated (%d bytes)", len(data))
	return data, nil
}

// closestImageSize maps pixel dimensions onto DALL-E 3's supported sizes.
func closestImageSize(width, height int) string {
	switch {
	case width > height:
		return openai.CreateImageSize1792x1024
	case height > width:
		return openai.CreateImageSize1024x1792
	default:
		return openai.CreateImageSize1024x1024
	}
}
