package domain

import "time"

// Episode is the latest feed item's playable audio reference.
type Episode struct {
	AudioURL string `json:"audio_url"`
}

// JobStatus is the lifecycle state of a transcription job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusProcessing JobStatus = "processing"
	StatusDone       JobStatus = "done"
	StatusError      JobStatus = "error"
)

// Terminal reports whether no further status transition can occur.
func (s JobStatus) Terminal() bool {
	return s == StatusDone || s == StatusError
}

// Job tracks one asynchronous transcription request. At most one job
// exists per invocation and its status only moves forward.
type Job struct {
	ID        string    `json:"job_id"`
	ResultURL string    `json:"result_url"`
	Status    JobStatus `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Metadata describes the transcribed audio.
type Metadata struct {
	AudioDuration float64 `json:"audio_duration"` // seconds
	ChannelCount  int     `json:"channel_count"`
	Language      string  `json:"language"`
}

// Utterance is one speaker turn with timing and confidence.
type Utterance struct {
	Text       string  `json:"text"`
	Start      float64 `json:"start"` // seconds
	End        float64 `json:"end"`   // seconds
	Confidence float64 `json:"confidence"`
	Speaker    int     `json:"speaker"`
}

// Transcript is a terminal transcription result. Raw preserves the exact
// service payload for audit; Warnings lists result fields the tolerant
// decode could not find. Immutable once produced.
type Transcript struct {
	Metadata   Metadata
	Utterances []Utterance
	Warnings   []string
	Raw        []byte
}

// RunResult holds the outcome of one pipeline invocation.
type RunResult struct {
	RunID          string
	Strategy       string // "direct-url" or "download-upload"
	Transcript     *Transcript
	TranscriptPath string
	PagePath       string
	ArchivePath    string
	CompletedAt    time.Time
}
