package localstorage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"podscribe/internal/core/ports"
)

// dateLayout names per-day artifacts; one entry per calendar date.
const dateLayout = "2006-01-02"

var archiveNamePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\.html$`)

// LocalStorage implements ports.Storage on the local filesystem. Every
// write overwrites, so same-day reruns are idempotent.
type LocalStorage struct {
	TranscriptionDir string
	ArchiveDir       string
	PagePath         string
	DebugPath        string
}

// NewLocalStorage creates a new LocalStorage instance.
func NewLocalStorage(transcriptionDir, archiveDir, pagePath, debugPath string) *LocalStorage {
	return &LocalStorage{
		TranscriptionDir: transcriptionDir,
		ArchiveDir:       archiveDir,
		PagePath:         pagePath,
		DebugPath:        debugPath,
	}
}

var _ ports.Storage = (*LocalStorage)(nil)

// SaveTranscript writes the raw transcription payload for the date.
func (s *LocalStorage) SaveTranscript(date time.Time, raw []byte) (string, error) {
	if err := os.MkdirAll(s.TranscriptionDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create transcription directory %s: %w", s.TranscriptionDir, err)
	}
	path := filepath.Join(s.TranscriptionDir, date.Format(dateLayout)+".json")
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return "", fmt.Errorf("failed to save transcript %s: %w", path, err)
	}
	return path, nil
}

// SaveDebug writes the last raw transcription payload to the debug dump.
func (s *LocalStorage) SaveDebug(raw []byte) error {
	if err := os.WriteFile(s.DebugPath, raw, 0644); err != nil {
		return fmt.Errorf("failed to save debug dump %s: %w", s.DebugPath, err)
	}
	return nil
}

// SavePage writes the current rendered page.
func (s *LocalStorage) SavePage(html []byte) (string, error) {
	if dir := filepath.Dir(s.PagePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create page directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(s.PagePath, html, 0644); err != nil {
		return "", fmt.Errorf("failed to save page %s: %w", s.PagePath, err)
	}
	return s.PagePath, nil
}

// SaveArchivePage writes the archive entry for the date, replacing any
// existing same-day entry.
func (s *LocalStorage) SaveArchivePage(date time.Time, html []byte) (string, error) {
	if err := os.MkdirAll(s.ArchiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory %s: %w", s.ArchiveDir, err)
	}
	path := filepath.Join(s.ArchiveDir, date.Format(dateLayout)+".html")
	if err := os.WriteFile(path, html, 0644); err != nil {
		return "", fmt.Errorf("failed to save archive page %s: %w", path, err)
	}
	return path, nil
}

// ListArchiveDates returns the dates of existing archive entries, parsed
// from their filenames. Files that do not match the date naming scheme
// are ignored.
func (s *LocalStorage) ListArchiveDates() ([]time.Time, error) {
	entries, err := os.ReadDir(s.ArchiveDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list archive directory %s: %w", s.ArchiveDir, err)
	}

	var dates []time.Time
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := archiveNamePattern.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		date, err := time.Parse(dateLayout, match[1])
		if err != nil {
			continue
		}
		dates = append(dates, date)
	}
	return dates, nil
}
