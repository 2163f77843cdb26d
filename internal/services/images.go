package services

import "context"

// ---------------------------------------------------------------------------
// ImageService — common interface for image generation providers
// Both Imagen and DALL-E implement this interface so the worker can use
// whichever is configured without knowing the underlying provider.
// ---------------------------------------------------------------------------

// ImageService generates one image per call. Calls are independent and safe
// for parallel execution across scenes; a per-call failure is recoverable at
// the call site (the scene falls back to a blank placeholder).
type ImageService interface {
	GenerateImage(ctx context.Context, prompt, negativePrompt string, width, height int) ([]byte, error)
}
