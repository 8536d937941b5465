package gladia

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"time"

	"podscribe/internal/core/domain"
	"podscribe/internal/core/ports"
)

// Config contains transcription client configuration.
type Config struct {
	UploadURL       string
	TranscribeURL   string
	APIKey          string
	PollInterval    time.Duration
	MaxPollAttempts int
	Timeout         time.Duration // per HTTP request
}

// Client implements ports.Transcriber against the Gladia v2 REST API.
// Both submission paths share one submit-then-poll core; a job's status
// only moves forward to done or error.
type Client struct {
	config Config
	client *http.Client
	logger *log.Logger
	now    func() time.Time
}

// NewClient creates a new Client.
func NewClient(config Config, logger *log.Logger) *Client {
	return &Client{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
		now:    time.Now,
	}
}

var _ ports.Transcriber = (*Client)(nil)

// TranscribeURL submits a remote audio URL for transcription and polls
// the job to a terminal state.
func (c *Client) TranscribeURL(ctx context.Context, audioURL string) (*domain.Transcript, error) {
	job, err := c.submit(ctx, audioURL)
	if err != nil {
		return nil, err
	}
	return c.poll(ctx, job)
}

// TranscribeFile uploads a local audio file, then submits the
// service-assigned reference URL and polls the job to a terminal state.
func (c *Client) TranscribeFile(ctx context.Context, path string) (*domain.Transcript, error) {
	audioURL, err := c.upload(ctx, path)
	if err != nil {
		return nil, err
	}

	job, err := c.submit(ctx, audioURL)
	if err != nil {
		return nil, err
	}
	return c.poll(ctx, job)
}

// upload streams the file as multipart content to the upload endpoint
// and returns the service-assigned audio reference URL.
func (c *Client) upload(ctx context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: audio file does not exist at %s", domain.ErrUploadFailed, path)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("%w: audio file %s is empty", domain.ErrUploadFailed, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: opening %s: %v", domain.ErrUploadFailed, path, err)
	}
	defer file.Close()

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)
	go func() {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="audio"; filename=%q`, filepath.Base(path)))
		header.Set("Content-Type", "audio/mpeg")

		part, err := writer.CreatePart(header)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(writer.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.UploadURL, pr)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("x-gladia-key", c.config.APIKey)

	c.logger.Printf("Uploading file %s (%d bytes) to transcription service...", filepath.Base(path), info.Size())
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d, body: %s", domain.ErrUploadFailed, resp.StatusCode, string(body))
	}

	var result struct {
		AudioURL string `json:"audio_url"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: decoding upload response: %v", domain.ErrUploadFailed, err)
	}
	if result.AudioURL == "" {
		return "", fmt.Errorf("%w: upload response missing audio_url field: %s", domain.ErrUploadFailed, string(body))
	}

	return result.AudioURL, nil
}

// submit posts the transcription request. Any of 200/201/202 means the
// asynchronous job was accepted; acceptance does not imply completion.
func (c *Client) submit(ctx context.Context, audioURL string) (*domain.Job, error) {
	payload := map[string]interface{}{
		"audio_url":       audioURL,
		"diarization":     true,
		"detect_language": true,
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.TranscribeURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create submission request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-gladia-key", c.config.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSubmissionRejected, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	c.logger.Printf("Transcription request status code: %d", resp.StatusCode)

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
	default:
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrSubmissionRejected, resp.StatusCode, string(respBody))
	}

	var result struct {
		ID        string `json:"id"`
		ResultURL string `json:"result_url"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSubmissionMalformed, err)
	}
	if result.ID == "" || result.ResultURL == "" {
		return nil, fmt.Errorf("%w: missing id or result_url: %s", domain.ErrSubmissionMalformed, string(respBody))
	}

	c.logger.Printf("Transcription job created. ID: %s", result.ID)
	return &domain.Job{
		ID:        result.ID,
		ResultURL: result.ResultURL,
		Status:    domain.StatusQueued,
		CreatedAt: c.now().UTC(),
	}, nil
}

// poll queries the job's result location at a fixed interval until a
// terminal status, the attempt budget, or context cancellation. Per-poll
// transport failures are logged and consume an attempt but are never
// fatal on their own.
func (c *Client) poll(ctx context.Context, job *domain.Job) (*domain.Transcript, error) {
	for attempt := 1; attempt <= c.config.MaxPollAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.config.PollInterval):
			}
		}

		c.logger.Printf("Polling for results (attempt %d/%d)...", attempt, c.config.MaxPollAttempts)

		status, raw, err := c.pollOnce(ctx, job.ResultURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Printf("Error polling for results: %v", err)
			continue
		}

		switch status {
		case domain.StatusDone:
			job.Status = domain.StatusDone
			transcript := decodeTranscript(raw)
			for _, warning := range transcript.Warnings {
				c.logger.Printf("Warning: %s", warning)
			}
			return transcript, nil
		case domain.StatusError:
			job.Status = domain.StatusError
			code, message := decodeError(raw)
			c.logger.Printf("Transcription failed with error: %s (%s)", code, message)
			return nil, fmt.Errorf("%w: %s: %s", domain.ErrTranscriptionFailed, code, message)
		default:
			job.Status = domain.StatusProcessing
			c.logger.Printf("Status: %s - continuing to poll...", status)
		}
	}

	return nil, fmt.Errorf("%w: no terminal status after %d attempts", domain.ErrTranscriptionTimeout, c.config.MaxPollAttempts)
}

// pollOnce performs a single poll request and extracts the job status.
func (c *Client) pollOnce(ctx context.Context, resultURL string) (domain.JobStatus, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resultURL, nil)
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("x-gladia-key", c.config.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(raw))
	}

	var probe struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return "", nil, fmt.Errorf("decoding poll response: %w", err)
	}

	return domain.JobStatus(probe.Status), raw, nil
}
