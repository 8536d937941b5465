package domain

import "errors"

// Failure taxonomy for the pipeline. Adapters wrap these with context via
// fmt.Errorf("...: %w", ...); callers classify with errors.Is.
var (
	// ErrFeedUnavailable means the feed document could not be fetched.
	ErrFeedUnavailable = errors.New("feed unavailable")

	// ErrFeedMalformed means the feed lacks the expected
	// channel/item/audio-enclosure structure.
	ErrFeedMalformed = errors.New("feed malformed")

	// ErrDownloadFailed means the audio file could not be retrieved.
	ErrDownloadFailed = errors.New("audio download failed")

	// ErrUploadFailed means the local file could not be uploaded to the
	// transcription service (missing, empty, or rejected).
	ErrUploadFailed = errors.New("audio upload failed")

	// ErrSubmissionRejected means the transcription endpoint answered
	// outside the accepted 200/201/202 set.
	ErrSubmissionRejected = errors.New("transcription submission rejected")

	// ErrSubmissionMalformed means an accepted submission response lacks
	// the job id or result location.
	ErrSubmissionMalformed = errors.New("transcription submission response malformed")

	// ErrTranscriptionFailed means the service reported a terminal error
	// status for the job.
	ErrTranscriptionFailed = errors.New("transcription failed")

	// ErrTranscriptionTimeout means the poll budget was exhausted without
	// the job reaching a terminal status.
	ErrTranscriptionTimeout = errors.New("transcription timed out")
)
