package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bobarin/storyreel/internal/api"
	"github.com/bobarin/storyreel/internal/config"
	"github.com/bobarin/storyreel/internal/jobs"
	"github.com/bobarin/storyreel/internal/services"
	"github.com/bobarin/storyreel/internal/storage"
	"github.com/bobarin/storyreel/internal/timeline"
	"github.com/bobarin/storyreel/internal/video"
	"github.com/bobarin/storyreel/internal/worker"
)

func main() {
	log.Println("Starting StoryReel API...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize storage
	store, err := storage.New(cfg.OutputDir)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	log.Printf("Output directory: %s", cfg.OutputDir)

	// Job registry with age-based garbage collection
	registry := jobs.NewRegistry(cfg.Retention, store)

	// Image provider — Imagen preferred, DALL-E as alternative
	var imageSvc services.ImageService
	if cfg.GeminiKey != "" {
		imageSvc = services.NewImagenService(cfg.GeminiKey)
		log.Println("Image provider: Imagen")
	} else {
		imageSvc = services.NewDallEService(cfg.OpenAIKey)
		log.Println("Image provider: DALL-E")
	}

	// TTS provider — ElevenLabs preferred, Azure Speech as alternative
	var ttsSvc services.TTSService
	if cfg.ElevenLabsKey != "" {
		ttsSvc = services.NewElevenLabsService(cfg.ElevenLabsKey, cfg.ElevenLabsVoiceID)
		log.Println("TTS provider: ElevenLabs")
	} else {
		ttsSvc = services.NewAzureSpeechService(cfg.AzureSpeechKey, cfg.AzureSpeechRegion, cfg.DefaultVoice)
		log.Printf("TTS provider: Azure Speech (region: %s)", cfg.AzureSpeechRegion)
	}

	// Rendering pipeline
	ffmpegSvc := services.NewFFmpegService(cfg.TempDir)
	resolver := timeline.NewResolver(ffmpegSvc)
	builder := timeline.NewBuilder(resolver, cfg.ImageWidth, cfg.ImageHeight)
	assembler := video.NewAssembler(ffmpegSvc, services.RenderSettings{
		Width:      cfg.ImageWidth,
		Height:     cfg.ImageHeight,
		FPS:        cfg.FPS,
		VideoCodec: cfg.VideoCodec,
		AudioCodec: cfg.AudioCodec,
	})

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	w := worker.New(workerCtx, registry, store, imageSvc, ttsSvc, builder, assembler, worker.Options{
		MusicPath:     cfg.BackgroundMusicPath,
		MaxScenes:     cfg.MaxScenes,
		ImageWidth:    cfg.ImageWidth,
		ImageHeight:   cfg.ImageHeight,
		MaxConcurrent: cfg.MaxConcurrentJobs,
	})

	// Periodic sweep backs up the opportunistic per-request collection
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				registry.CollectGarbage()
			case <-workerCtx.Done():
				return
			}
		}
	}()

	handler := api.NewHandler(w, registry, ttsSvc, cfg.MaxTextLength)
	router := api.NewRouter(handler, api.RouterConfig{
		BackendAPIKey:      cfg.BackendAPIKey,
		CorsAllowedOrigins: cfg.CorsAllowedOrigins,
		OutputDir:          cfg.OutputDir,
	})

	if cfg.BackendAPIKey != "" {
		log.Println("API key authentication enabled")
	} else {
		log.Println("WARNING: No BACKEND_API_KEY set — API is unprotected (dev mode)")
	}

	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Printf("API server listening on :%s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Stop in-flight pipelines
	workerCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
