package service

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"podscribe/internal/core/domain"
)

type fakeResolver struct {
	episode *domain.Episode
	err     error
	calls   int
}

func (r *fakeResolver) Resolve(ctx context.Context, feedURL string) (*domain.Episode, error) {
	r.calls++
	return r.episode, r.err
}

type fakeFetcher struct {
	path  string
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(ctx context.Context, feedURL string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.path, nil
}

type fakeTranscriber struct {
	urlTranscript  *domain.Transcript
	urlErr         error
	fileTranscript *domain.Transcript
	fileErr        error
	urlCalls       int
	fileCalls      int
}

func (t *fakeTranscriber) TranscribeURL(ctx context.Context, audioURL string) (*domain.Transcript, error) {
	t.urlCalls++
	return t.urlTranscript, t.urlErr
}

func (t *fakeTranscriber) TranscribeFile(ctx context.Context, path string) (*domain.Transcript, error) {
	t.fileCalls++
	return t.fileTranscript, t.fileErr
}

type fakeStorage struct {
	transcripts int
	debugs      int
}

func (s *fakeStorage) SaveTranscript(date time.Time, raw []byte) (string, error) {
	s.transcripts++
	return "transcriptions/2026-03-14.json", nil
}
func (s *fakeStorage) SaveDebug(raw []byte) error { s.debugs++; return nil }
func (s *fakeStorage) SavePage(html []byte) (string, error) {
	return "index.html", nil
}
func (s *fakeStorage) SaveArchivePage(date time.Time, html []byte) (string, error) {
	return "archive/2026-03-14.html", nil
}
func (s *fakeStorage) ListArchiveDates() ([]time.Time, error) { return nil, nil }

type fakeRenderer struct {
	published int
	err       error
}

func (r *fakeRenderer) Publish(transcript *domain.Transcript, date time.Time) (string, string, error) {
	if r.err != nil {
		return "", "", r.err
	}
	r.published++
	return "index.html", "archive/2026-03-14.html", nil
}

type fixture struct {
	resolver    *fakeResolver
	fetcher     *fakeFetcher
	transcriber *fakeTranscriber
	storage     *fakeStorage
	renderer    *fakeRenderer
}

func newFixture() *fixture {
	return &fixture{
		resolver:    &fakeResolver{episode: &domain.Episode{AudioURL: "https://cdn.example.com/ep.mp3"}},
		fetcher:     &fakeFetcher{path: "audio_files/2026-03-14.mp3"},
		transcriber: &fakeTranscriber{},
		storage:     &fakeStorage{},
		renderer:    &fakeRenderer{},
	}
}

func (f *fixture) orchestrator() *Orchestrator {
	return NewOrchestrator(f.resolver, f.fetcher, f.transcriber, f.storage, f.renderer,
		log.New(io.Discard, "", 0))
}

func goodTranscript() *domain.Transcript {
	return &domain.Transcript{
		Utterances: []domain.Utterance{{Text: "hello", End: 1}},
		Raw:        []byte(`{"status": "done"}`),
	}
}

func TestRunDirectStrategySucceeds(t *testing.T) {
	f := newFixture()
	f.transcriber.urlTranscript = goodTranscript()

	result, err := f.orchestrator().Run(context.Background(), "feed")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Strategy != "direct-url" {
		t.Errorf("expected direct-url strategy, got %q", result.Strategy)
	}
	if f.fetcher.calls != 0 || f.transcriber.fileCalls != 0 {
		t.Error("fallback must not run after direct success")
	}
	if f.storage.transcripts != 1 || f.storage.debugs != 1 {
		t.Errorf("expected transcript and debug persisted once, got %d/%d",
			f.storage.transcripts, f.storage.debugs)
	}
	if f.renderer.published != 1 {
		t.Errorf("expected one publish, got %d", f.renderer.published)
	}
	if result.PagePath == "" || result.ArchivePath == "" || result.TranscriptPath == "" {
		t.Errorf("artifact paths not reported: %+v", result)
	}
}

func TestRunFallsBackWhenDirectSubmissionFails(t *testing.T) {
	f := newFixture()
	f.transcriber.urlErr = domain.ErrSubmissionRejected
	f.transcriber.fileTranscript = goodTranscript()

	result, err := f.orchestrator().Run(context.Background(), "feed")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Strategy != "download-upload" {
		t.Errorf("expected download-upload strategy, got %q", result.Strategy)
	}
	if f.fetcher.calls != 1 || f.transcriber.fileCalls != 1 {
		t.Errorf("expected one fallback attempt, got fetch=%d file=%d",
			f.fetcher.calls, f.transcriber.fileCalls)
	}
	if f.renderer.published != 1 {
		t.Errorf("expected page published via fallback, got %d", f.renderer.published)
	}
}

func TestRunFallsBackWhenResolverFails(t *testing.T) {
	f := newFixture()
	f.resolver.err = domain.ErrFeedUnavailable
	f.resolver.episode = nil
	f.transcriber.fileTranscript = goodTranscript()

	result, err := f.orchestrator().Run(context.Background(), "feed")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Strategy != "download-upload" {
		t.Errorf("expected fallback strategy, got %q", result.Strategy)
	}
	// The fallback is handed the feed location, not a resolved URL.
	if f.fetcher.calls != 1 {
		t.Errorf("expected fetcher invoked once, got %d", f.fetcher.calls)
	}
	if f.transcriber.urlCalls != 0 {
		t.Errorf("direct submission must not run without a resolved URL, got %d", f.transcriber.urlCalls)
	}
}

func TestRunTotalFailureLeavesNoPage(t *testing.T) {
	f := newFixture()
	f.resolver.err = domain.ErrFeedUnavailable
	f.resolver.episode = nil
	f.fetcher.err = domain.ErrDownloadFailed

	_, err := f.orchestrator().Run(context.Background(), "feed")
	if !errors.Is(err, domain.ErrDownloadFailed) {
		t.Fatalf("expected ErrDownloadFailed, got %v", err)
	}
	if f.renderer.published != 0 || f.storage.transcripts != 0 {
		t.Error("no artifacts must be written on total failure")
	}
	if f.transcriber.urlCalls != 0 && f.transcriber.fileCalls != 0 {
		t.Error("no transcription should be attempted without audio")
	}
}

func TestRunEachStrategyAttemptedAtMostOnce(t *testing.T) {
	f := newFixture()
	f.transcriber.urlErr = domain.ErrTranscriptionTimeout
	f.transcriber.fileErr = domain.ErrTranscriptionFailed

	_, err := f.orchestrator().Run(context.Background(), "feed")
	if !errors.Is(err, domain.ErrTranscriptionFailed) {
		t.Fatalf("expected last strategy's failure, got %v", err)
	}
	if f.transcriber.urlCalls != 1 || f.transcriber.fileCalls != 1 {
		t.Errorf("expected one attempt per strategy, got url=%d file=%d",
			f.transcriber.urlCalls, f.transcriber.fileCalls)
	}
}

func TestRunStopsWhenContextCancelled(t *testing.T) {
	f := newFixture()
	f.transcriber.urlErr = context.Canceled

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.orchestrator().Run(ctx, "feed")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if f.fetcher.calls != 0 {
		t.Error("fallback must not run after cancellation")
	}
}

func TestRunPublishFailureIsTerminal(t *testing.T) {
	f := newFixture()
	f.transcriber.urlTranscript = goodTranscript()
	f.renderer.err = errors.New("disk full")

	_, err := f.orchestrator().Run(context.Background(), "feed")
	if err == nil {
		t.Fatal("expected publish failure to surface")
	}
}
