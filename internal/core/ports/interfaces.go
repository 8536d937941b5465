package ports

import (
	"context"
	"time"

	"podscribe/internal/core/domain"
)

// FeedResolver locates the latest episode's audio URL in a feed.
type FeedResolver interface {
	// Resolve fetches and parses the feed at feedURL and returns the
	// first item's audio enclosure. Feeds are assumed ordered
	// newest-first; no date comparison is performed.
	Resolve(ctx context.Context, feedURL string) (*domain.Episode, error)
}

// AudioFetcher downloads the latest episode's audio to local storage.
// It is handed the feed location, not a pre-resolved audio URL, so the
// fallback path still works when the direct resolution failed upstream.
type AudioFetcher interface {
	// Fetch resolves the feed and downloads the enclosure to a
	// date-named file, overwriting any same-day download.
	// Returns the local file path.
	Fetch(ctx context.Context, feedURL string) (string, error)
}

// Transcriber submits audio for asynchronous transcription and blocks
// until the job reaches a terminal state.
type Transcriber interface {
	// TranscribeURL submits a remote audio URL directly.
	TranscribeURL(ctx context.Context, audioURL string) (*domain.Transcript, error)

	// TranscribeFile uploads a local file first, then submits the
	// service-assigned reference URL.
	TranscribeFile(ctx context.Context, path string) (*domain.Transcript, error)
}

// Storage persists pipeline artifacts. All writes overwrite, keyed by
// date, so same-day reruns are idempotent.
type Storage interface {
	// SaveTranscript writes the raw transcription payload for the date.
	SaveTranscript(date time.Time, raw []byte) (string, error)

	// SaveDebug writes the last raw transcription payload to a fixed
	// debug dump path.
	SaveDebug(raw []byte) error

	// SavePage writes the current rendered page.
	SavePage(html []byte) (string, error)

	// SaveArchivePage writes the archive entry for the date.
	SaveArchivePage(date time.Time, html []byte) (string, error)

	// ListArchiveDates returns the dates of existing archive entries,
	// in no particular order.
	ListArchiveDates() ([]time.Time, error)
}

// Renderer turns a terminal transcription result into a persisted page
// plus one archive entry for the given date.
type Renderer interface {
	Publish(transcript *domain.Transcript, date time.Time) (pagePath, archivePath string, err error)
}
