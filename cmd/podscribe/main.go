package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"podscribe/internal/adapters/downloader"
	"podscribe/internal/adapters/feed"
	"podscribe/internal/adapters/gladia"
	"podscribe/internal/adapters/localstorage"
	"podscribe/internal/config"
	"podscribe/internal/render"
	"podscribe/internal/service"
	"podscribe/internal/timegate"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// It's okay if .env doesn't exist, environment variables might be set manually
		log.Println("No .env file found")
	}

	configPath := flag.String("config", "podscribe.yaml", "Path to configuration file")
	feedURL := flag.String("feed-url", "", "Override the podcast feed URL")
	flag.Parse()

	logger := log.New(os.Stdout, "", log.LstdFlags)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Printf("Configuration error: %v", err)
		os.Exit(1)
	}
	if *feedURL != "" {
		cfg.Feed.URL = *feedURL
	}

	// Time gate: before the threshold the run is a successful no-op.
	gate, err := timegate.New(cfg.Schedule.Hour, cfg.Schedule.Timezone)
	if err != nil {
		logger.Printf("Configuration error: %v", err)
		os.Exit(1)
	}
	local := gate.LocalTime()
	if !gate.Open() {
		logger.Printf("Current time in %s is %s, before %d:00 threshold; exiting",
			cfg.Schedule.Timezone, local.Format("15:04:05"), cfg.Schedule.Hour)
		return
	}
	logger.Printf("Current time in %s is %s, after %d:00 threshold",
		cfg.Schedule.Timezone, local.Format("15:04:05"), cfg.Schedule.Hour)

	// Initialize adapters
	resolver := feed.NewRSSResolver()
	fetcher := downloader.NewHTTPFetcher(resolver, cfg.Paths.AudioDir)
	transcriber := gladia.NewClient(gladia.Config{
		UploadURL:       cfg.Transcription.UploadURL,
		TranscribeURL:   cfg.Transcription.TranscribeURL,
		APIKey:          cfg.Transcription.APIKey,
		PollInterval:    cfg.Transcription.PollIntervalDuration(),
		MaxPollAttempts: cfg.Transcription.MaxPollAttempts,
		Timeout:         cfg.Transcription.RequestTimeoutDuration(),
	}, logger)
	storage := localstorage.NewLocalStorage(
		cfg.Paths.TranscriptionDir,
		cfg.Paths.ArchiveDir,
		cfg.Paths.PagePath,
		cfg.Paths.DebugPath,
	)
	renderer := render.NewHTMLRenderer(storage, cfg.Archive.DisplayLimit)

	orchestrator := service.NewOrchestrator(resolver, fetcher, transcriber, storage, renderer, logger)

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Println("\nReceived interrupt signal, cancelling...")
		cancel()
	}()

	result, err := orchestrator.Run(ctx, cfg.Feed.URL)
	if err != nil {
		logger.Printf("Run failed: %v", err)
		os.Exit(1)
	}

	// Print summary
	fmt.Println("\n=== Run Summary ===")
	fmt.Printf("Run ID:       %s\n", result.RunID)
	fmt.Printf("Strategy:     %s\n", result.Strategy)
	fmt.Printf("Utterances:   %d\n", len(result.Transcript.Utterances))
	fmt.Printf("Transcript:   %s\n", result.TranscriptPath)
	fmt.Printf("Page:         %s\n", result.PagePath)
	fmt.Printf("Archive:      %s\n", result.ArchivePath)
	fmt.Printf("Completed At: %s\n", result.CompletedAt.Format("2006-01-02 15:04:05 UTC"))
}
