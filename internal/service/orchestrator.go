package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"podscribe/internal/core/domain"
	"podscribe/internal/core/ports"
)

// Orchestrator coordinates the daily transcription pipeline: resolve the
// latest episode, transcribe it, persist the result, publish the page.
type Orchestrator struct {
	resolver    ports.FeedResolver
	fetcher     ports.AudioFetcher
	transcriber ports.Transcriber
	storage     ports.Storage
	renderer    ports.Renderer
	logger      *log.Logger
	now         func() time.Time
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(
	resolver ports.FeedResolver,
	fetcher ports.AudioFetcher,
	transcriber ports.Transcriber,
	storage ports.Storage,
	renderer ports.Renderer,
	logger *log.Logger,
) *Orchestrator {
	return &Orchestrator{
		resolver:    resolver,
		fetcher:     fetcher,
		transcriber: transcriber,
		storage:     storage,
		renderer:    renderer,
		logger:      logger,
		now:         time.Now,
	}
}

// strategy is one way to obtain a terminal transcription result. The
// orchestrator tries each in order; a later strategy runs only when the
// previous one failed, and each runs at most once per invocation.
type strategy struct {
	name string
	run  func(ctx context.Context) (*domain.Transcript, error)
}

// Run executes one complete pipeline invocation for the feed.
func (o *Orchestrator) Run(ctx context.Context, feedURL string) (*domain.RunResult, error) {
	runID := uuid.New().String()
	result := &domain.RunResult{RunID: runID}
	o.logger.Printf("[RUN %s] Starting daily transcription for feed: %s", runID, feedURL)

	strategies := []strategy{
		{
			name: "direct-url",
			run: func(ctx context.Context) (*domain.Transcript, error) {
				episode, err := o.resolver.Resolve(ctx, feedURL)
				if err != nil {
					return nil, err
				}
				o.logger.Printf("[RUN %s] Found audio URL: %s", runID, episode.AudioURL)
				return o.transcriber.TranscribeURL(ctx, episode.AudioURL)
			},
		},
		{
			// The fetcher re-resolves the feed itself, so this path
			// still works when the resolver failed above.
			name: "download-upload",
			run: func(ctx context.Context) (*domain.Transcript, error) {
				path, err := o.fetcher.Fetch(ctx, feedURL)
				if err != nil {
					return nil, err
				}
				o.logger.Printf("[RUN %s] Downloaded audio to %s", runID, path)
				return o.transcriber.TranscribeFile(ctx, path)
			},
		},
	}

	var transcript *domain.Transcript
	var lastErr error
	for _, s := range strategies {
		o.logger.Printf("[RUN %s] Attempting %s strategy...", runID, s.name)
		transcript, lastErr = s.run(ctx)
		if lastErr == nil {
			result.Strategy = s.name
			o.logger.Printf("[RUN %s] %s strategy succeeded", runID, s.name)
			break
		}
		o.logger.Printf("[RUN %s] %s strategy failed: %v", runID, s.name, lastErr)
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
	}
	if transcript == nil {
		return result, fmt.Errorf("all transcription strategies failed: %w", lastErr)
	}

	date := o.now()

	transcriptPath, err := o.storage.SaveTranscript(date, transcript.Raw)
	if err != nil {
		return result, err
	}
	result.TranscriptPath = transcriptPath

	if err := o.storage.SaveDebug(transcript.Raw); err != nil {
		o.logger.Printf("[RUN %s] Warning: failed to save debug dump: %v", runID, err)
	}

	pagePath, archivePath, err := o.renderer.Publish(transcript, date)
	if err != nil {
		return result, fmt.Errorf("failed to publish page: %w", err)
	}
	result.PagePath = pagePath
	result.ArchivePath = archivePath

	result.Transcript = transcript
	result.CompletedAt = o.now().UTC()
	o.logger.Printf("[RUN %s] Completed: %d utterances, page at %s", runID, len(transcript.Utterances), pagePath)

	return result, nil
}
