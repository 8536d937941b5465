package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete pipeline configuration.
type Config struct {
	Feed          FeedConfig          `yaml:"feed"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Schedule      ScheduleConfig      `yaml:"schedule"`
	Paths         PathsConfig         `yaml:"paths"`
	Archive       ArchiveConfig       `yaml:"archive"`
}

// FeedConfig identifies the podcast feed.
type FeedConfig struct {
	URL string `yaml:"url"`
}

// TranscriptionConfig contains transcription API configuration. The API
// key is never read from the file; Load takes it from the environment.
type TranscriptionConfig struct {
	UploadURL       string `yaml:"upload_url"`
	TranscribeURL   string `yaml:"transcribe_url"`
	APIKey          string `yaml:"-"`
	PollInterval    int    `yaml:"poll_interval"`     // seconds
	MaxPollAttempts int    `yaml:"max_poll_attempts"` // 60 × 10s ≈ 10 minute ceiling
	RequestTimeout  int    `yaml:"request_timeout"`   // seconds, per HTTP call
}

// ScheduleConfig gates the run on local time of day.
type ScheduleConfig struct {
	Hour     int    `yaml:"hour"`
	Timezone string `yaml:"timezone"`
}

// PathsConfig lays out the persisted state.
type PathsConfig struct {
	AudioDir         string `yaml:"audio_dir"`
	TranscriptionDir string `yaml:"transcription_dir"`
	ArchiveDir       string `yaml:"archive_dir"`
	PagePath         string `yaml:"page_path"`
	DebugPath        string `yaml:"debug_path"`
}

// ArchiveConfig controls archive listing.
type ArchiveConfig struct {
	DisplayLimit int `yaml:"display_limit"`
}

// APIKeyEnv is the environment variable holding the transcription
// service credential.
const APIKeyEnv = "GLADIA_API_KEY"

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Feed: FeedConfig{
			URL: "https://www.omnycontent.com/d/playlist/5978613f-cd11-4352-8f26-adb900fa9a58/3c1222e5-288f-4047-a2f0-ae1b00a91688/a0389eb5-55da-493d-b7bb-ae1b00d0d95a/podcast.rss",
		},
		Transcription: TranscriptionConfig{
			UploadURL:       "https://api.gladia.io/v2/upload",
			TranscribeURL:   "https://api.gladia.io/v2/pre-recorded",
			PollInterval:    10,
			MaxPollAttempts: 60,
			RequestTimeout:  300,
		},
		Schedule: ScheduleConfig{
			Hour:     7,
			Timezone: "Europe/Brussels",
		},
		Paths: PathsConfig{
			AudioDir:         "audio_files",
			TranscriptionDir: "transcriptions",
			ArchiveDir:       "archive",
			PagePath:         "index.html",
			DebugPath:        "transcription_debug.json",
		},
		Archive: ArchiveConfig{
			DisplayLimit: 10,
		},
	}
}

// Load reads the configuration file at path, merging it over the
// defaults. A missing file is not an error; the defaults apply. The API
// key is read from the GLADIA_API_KEY environment variable.
func Load(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	config.Transcription.APIKey = os.Getenv(APIKeyEnv)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// Validate checks the configuration for contradictions and missing
// required values.
func (c *Config) Validate() error {
	if c.Feed.URL == "" {
		return fmt.Errorf("feed.url must be set")
	}
	if c.Transcription.APIKey == "" {
		return fmt.Errorf("%s environment variable is not set", APIKeyEnv)
	}
	if c.Transcription.UploadURL == "" {
		return fmt.Errorf("transcription.upload_url must be set")
	}
	if c.Transcription.TranscribeURL == "" {
		return fmt.Errorf("transcription.transcribe_url must be set")
	}
	if c.Transcription.PollInterval <= 0 {
		return fmt.Errorf("transcription.poll_interval must be positive, got %d", c.Transcription.PollInterval)
	}
	if c.Transcription.MaxPollAttempts <= 0 {
		return fmt.Errorf("transcription.max_poll_attempts must be positive, got %d", c.Transcription.MaxPollAttempts)
	}
	if c.Transcription.RequestTimeout <= 0 {
		return fmt.Errorf("transcription.request_timeout must be positive, got %d", c.Transcription.RequestTimeout)
	}
	if c.Schedule.Hour < 0 || c.Schedule.Hour > 23 {
		return fmt.Errorf("schedule.hour must be within 0-23, got %d", c.Schedule.Hour)
	}
	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		return fmt.Errorf("schedule.timezone %q is invalid: %w", c.Schedule.Timezone, err)
	}
	if c.Archive.DisplayLimit <= 0 {
		return fmt.Errorf("archive.display_limit must be positive, got %d", c.Archive.DisplayLimit)
	}
	return nil
}

// PollIntervalDuration returns the poll interval as a time.Duration.
func (c *TranscriptionConfig) PollIntervalDuration() time.Duration {
	return time.Duration(c.PollInterval) * time.Second
}

// RequestTimeoutDuration returns the per-request timeout as a
// time.Duration.
func (c *TranscriptionConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// Location resolves the configured timezone.
func (c *ScheduleConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}
