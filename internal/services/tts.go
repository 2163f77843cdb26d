package services

import (
	"context"

	"github.com/bobarin/storyreel/internal/models"
)

// ---------------------------------------------------------------------------
// TTSService — common interface for text-to-speech providers
// Both ElevenLabs and Azure Speech implement this interface so the worker
// can use whichever is configured without knowing the underlying provider.
// ---------------------------------------------------------------------------

// TTSResponse is the common response type from any TTS provider.
type TTSResponse struct {
	AudioData []byte
	Format    string // "mp3", "wav", etc.
}

// TTSService is the interface that any TTS provider must implement.
type TTSService interface {
	// GenerateSpeech converts text to audio. voice selects the provider's
	// voice; empty means use the provider default. A per-call failure is
	// recoverable at the call site (the scene gets an absent-audio slot).
	GenerateSpeech(ctx context.Context, text, voice string) (*TTSResponse, error)

	// ListVoices returns the voices the provider offers.
	ListVoices(ctx context.Context) ([]models.Voice, error)
}
