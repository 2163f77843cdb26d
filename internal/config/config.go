package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	APIPort            string
	BackendAPIKey      string // API key for authenticating requests (empty = no auth, dev mode)
	CorsAllowedOrigins string // Comma-separated allowed origins (empty = *, dev mode)

	// Paths
	OutputDir           string // Per-job artifact directories live here
	TempDir             string // Scratch space for ffmpeg intermediates
	BackgroundMusicPath string // Path to the background music file (empty = music disabled)

	// Image generation
	OpenAIKey   string
	GeminiKey   string
	ImageWidth  int
	ImageHeight int

	// TTS — ElevenLabs preferred, Azure Speech as alternative
	ElevenLabsKey     string
	ElevenLabsVoiceID string
	AzureSpeechKey    string
	AzureSpeechRegion string
	DefaultVoice      string

	// Video rendering
	FPS        int
	VideoCodec string
	AudioCodec string

	// Pipeline limits
	MaxTextLength     int
	MaxScenes         int
	MaxConcurrentJobs int

	// Job retention — expired jobs and their artifacts are garbage collected
	Retention time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	_ = godotenv.Load()

	cfg := &Config{
		APIPort:             getEnv("API_PORT", "8080"),
		BackendAPIKey:       getEnv("BACKEND_API_KEY", ""),
		CorsAllowedOrigins:  getEnv("CORS_ALLOWED_ORIGINS", ""),
		OutputDir:           getEnv("OUTPUT_DIR", "outputs"),
		TempDir:             getEnv("TEMP_DIR", "/tmp/storyreel"),
		BackgroundMusicPath: getEnv("BACKGROUND_MUSIC_PATH", "assets/audio/background.mp3"),
		OpenAIKey:           getEnv("OPENAI_API_KEY", ""),
		GeminiKey:           getEnv("GEMINI_API_KEY", ""),
		ImageWidth:          getEnvInt("IMAGE_WIDTH", 768),
		ImageHeight:         getEnvInt("IMAGE_HEIGHT", 512),
		ElevenLabsKey:       getEnv("ELEVENLABS_API_KEY", ""),
		ElevenLabsVoiceID:   getEnv("ELEVENLABS_VOICE_ID", ""),
		AzureSpeechKey:      getEnv("AZURE_SPEECH_KEY", ""),
		AzureSpeechRegion:   getEnv("AZURE_SPEECH_REGION", "eastasia"),
		DefaultVoice:        getEnv("DEFAULT_VOICE", "zh-CN-XiaoxiaoNeural"),
		FPS:                 getEnvInt("FPS", 24),
		VideoCodec:          getEnv("VIDEO_CODEC", "libx264"),
		AudioCodec:          getEnv("AUDIO_CODEC", "aac"),
		MaxTextLength:       getEnvInt("MAX_TEXT_LENGTH", 5000),
		MaxScenes:           getEnvInt("MAX_SCENES", 10),
		MaxConcurrentJobs:   getEnvInt("MAX_CONCURRENT_JOBS", 3),
		Retention:           time.Duration(getEnvInt("JOB_RETENTION_HOURS", 24)) * time.Hour,
	}

	// Validate required fields — at least one provider per modality
	if cfg.GeminiKey == "" && cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("either GEMINI_API_KEY or OPENAI_API_KEY is required for image generation")
	}

	if cfg.ElevenLabsKey == "" && cfg.AzureSpeechKey == "" {
		return nil, fmt.Errorf("either ELEVENLABS_API_KEY or AZURE_SPEECH_KEY is required for TTS")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return defaultValue
}
