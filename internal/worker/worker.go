package worker

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bobarin/storyreel/internal/jobs"
	"github.com/bobarin/storyreel/internal/services"
	"github.com/bobarin/storyreel/internal/storage"
	"github.com/bobarin/storyreel/internal/timeline"
)

// maxConcurrentImages bounds the parallel image generation calls within a
// single job so one long text doesn't saturate the provider's rate limits.
const maxConcurrentImages = 3

// Assembler turns finalized segments into the output video.
// Implemented by video.Assembler.
type Assembler interface {
	Assemble(ctx context.Context, segments []timeline.Segment, destPath string) (string, error)
	MixBackground(ctx context.Context, videoPath, musicPath string) error
}

// Request carries everything a generation job needs.
type Request struct {
	Text               string
	Style              string
	Voice              string
	UseTransitions     bool
	AddBackgroundMusic bool
}

// Worker runs generation jobs on background goroutines, at most
// maxConcurrent at a time. Dispatch never blocks: jobs past the limit
// queue on the semaphore inside their own goroutine.
type Worker struct {
	ctx       context.Context
	registry  *jobs.Registry
	store     *storage.Store
	images    services.ImageService
	tts       services.TTSService
	builder   *timeline.Builder
	assembler Assembler

	musicPath   string
	maxScenes   int
	imageWidth  int
	imageHeight int

	sem chan struct{}
}

type Options struct {
	MusicPath     string
	MaxScenes     int
	ImageWidth    int
	ImageHeight   int
	MaxConcurrent int
}

func New(ctx context.Context, registry *jobs.Registry, store *storage.Store, images services.ImageService, tts services.TTSService, builder *timeline.Builder, assembler Assembler, opts Options) *Worker {
	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 1
	}

	return &Worker{
		ctx:         ctx,
		registry:    registry,
		store:       store,
		images:      images,
		tts:         tts,
		builder:     builder,
		assembler:   assembler,
		musicPath:   opts.MusicPath,
		maxScenes:   opts.MaxScenes,
		imageWidth:  opts.ImageWidth,
		imageHeight: opts.ImageHeight,
		sem:         make(chan struct{}, opts.MaxConcurrent),
	}
}

// Dispatch registers a new job, starts its pipeline in the background, and
// returns the job ID immediately. The caller polls the registry for status.
func (w *Worker) Dispatch(req Request) (string, error) {
	if _, ok := services.Styles[req.Style]; !ok {
		req.Style = services.DefaultStyle
	}

	preview := req.Text
	if runes := []rune(preview); len(runes) > 100 {
		preview = string(runes[:100])
	}

	// Allocate the record first so the directory is named after the ID.
	id := w.registry.Create(preview, req.Style)

	if _, err := w.store.CreateJobDir(id); err != nil {
		// The caller never sees this ID, so a failed record would just
		// linger until GC.
		w.registry.Evict(id)
		return "", fmt.Errorf("failed to create job dir: %w", err)
	}

	go func() {
		w.sem <- struct{}{}
		defer func() { <-w.sem }()

		w.run(w.ctx, id, req)
	}()

	return id, nil
}

// run executes the full generation pipeline for one job. Per-scene image and
// narration failures degrade that scene (placeholder frame, silent segment);
// only scene splitting and video assembly failures fail the job.
func (w *Worker) run(ctx context.Context, id string, req Request) {
	start := time.Now()
	log.Printf("[Worker] Job %s started (style=%s, transitions=%t, music=%t)", id, req.Style, req.UseTransitions, req.AddBackgroundMusic)

	scenes := services.SplitScenes(req.Text, w.maxScenes)
	if len(scenes) == 0 {
		w.registry.Fail(id, "text contains no usable sentences")
		return
	}
	w.registry.Advance(id, 10)

	prompts := make([]string, len(scenes))
	for i, scene := range scenes {
		prompts[i] = services.BuildPrompt(scene, req.Style)
	}
	negative := services.NegativePrompt(req.Style)
	w.registry.Advance(id, 20)

	imagePaths := w.generateImages(ctx, id, prompts, negative)
	w.registry.Advance(id, 60)

	audioPaths := w.generateNarration(ctx, id, scenes, req.Voice)
	w.registry.Advance(id, 80)

	segments := w.builder.Build(ctx, imagePaths, audioPaths)
	if req.UseTransitions {
		applier := timeline.NewApplier(rand.New(rand.NewSource(time.Now().UnixNano())))
		segments = applier.Apply(segments)
	}

	videoPath := w.store.VideoPath(id)
	if _, err := w.assembler.Assemble(ctx, segments, videoPath); err != nil {
		log.Printf("[Worker] Job %s assembly failed: %v", id, err)
		w.registry.Fail(id, fmt.Sprintf("video assembly failed: %v", err))
		return
	}
	w.registry.Advance(id, 90)

	if req.AddBackgroundMusic {
		if err := w.assembler.MixBackground(ctx, videoPath, w.musicPath); err != nil {
			log.Printf("[Worker] Job %s background music skipped: %v", id, err)
		}
	}

	w.registry.Complete(id, w.store.VideoURL(id))
	log.Printf("[Worker] Job %s completed in %.1fs (%d scenes)", id, time.Since(start).Seconds(), len(scenes))
}

// generateImages renders one frame per scene in parallel. A failed scene
// leaves no file behind; the timeline builder substitutes a placeholder.
// The returned slice always holds the expected path for every scene.
func (w *Worker) generateImages(ctx context.Context, id string, prompts []string, negative string) []string {
	paths := make([]string, len(prompts))
	for i := range prompts {
		paths[i] = w.store.ScenePath(id, i, "png")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentImages)

	for i, prompt := range prompts {
		g.Go(func() error {
			data, err := w.images.GenerateImage(gctx, prompt, negative, w.imageWidth, w.imageHeight)
			if err != nil {
				log.Printf("[Worker] Job %s scene %d image failed: %v", id, i, err)
				return nil
			}
			if err := w.store.WriteFile(paths[i], data); err != nil {
				log.Printf("[Worker] Job %s scene %d image write failed: %v", id, i, err)
			}
			return nil
		})
	}
	g.Wait()

	return paths
}

// generateNarration synthesizes speech for each scene in order. A failed
// scene gets an empty path and renders as a silent segment.
func (w *Worker) generateNarration(ctx context.Context, id string, scenes []string, voice string) []string {
	paths := make([]string, len(scenes))

	for i, scene := range scenes {
		resp, err := w.tts.GenerateSpeech(ctx, scene, voice)
		if err != nil {
			log.Printf("[Worker] Job %s scene %d narration failed: %v", id, i, err)
			continue
		}

		path := w.store.ScenePath(id, i, resp.Format)
		if err := w.store.WriteFile(path, resp.AudioData); err != nil {
			log.Printf("[Worker] Job %s scene %d narration write failed: %v", id, i, err)
			continue
		}
		paths[i] = path
	}

	return paths
}
