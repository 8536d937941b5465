package localstorage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	base := t.TempDir()
	return NewLocalStorage(
		filepath.Join(base, "transcriptions"),
		filepath.Join(base, "archive"),
		filepath.Join(base, "index.html"),
		filepath.Join(base, "transcription_debug.json"),
	)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestSaveTranscriptIsKeyedByDateAndOverwrites(t *testing.T) {
	storage := newTestStorage(t)
	day := date(2026, 3, 14)

	first, err := storage.SaveTranscript(day, []byte(`{"v": 1}`))
	if err != nil {
		t.Fatalf("SaveTranscript: %v", err)
	}
	if filepath.Base(first) != "2026-03-14.json" {
		t.Fatalf("unexpected transcript name: %s", first)
	}

	second, err := storage.SaveTranscript(day, []byte(`{"v": 2}`))
	if err != nil {
		t.Fatalf("second SaveTranscript: %v", err)
	}
	if first != second {
		t.Fatalf("same-day transcript paths differ: %s vs %s", first, second)
	}
	data, _ := os.ReadFile(second)
	if string(data) != `{"v": 2}` {
		t.Fatalf("expected overwrite, got %s", data)
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	storage := newTestStorage(t)

	days := []time.Time{
		date(2026, 3, 12),
		date(2026, 3, 13),
		date(2026, 3, 14),
	}
	for _, d := range days {
		if _, err := storage.SaveArchivePage(d, []byte("<html/>")); err != nil {
			t.Fatalf("SaveArchivePage: %v", err)
		}
	}
	// Same-day rewrite must not add an entry.
	if _, err := storage.SaveArchivePage(days[2], []byte("<html v2/>")); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	// Non-matching files are ignored when listing.
	if err := os.WriteFile(filepath.Join(storage.ArchiveDir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("write stray file: %v", err)
	}

	dates, err := storage.ListArchiveDates()
	if err != nil {
		t.Fatalf("ListArchiveDates: %v", err)
	}
	if len(dates) != 3 {
		t.Fatalf("expected 3 archive dates, got %d", len(dates))
	}
}

func TestListArchiveDatesMissingDir(t *testing.T) {
	storage := newTestStorage(t)

	dates, err := storage.ListArchiveDates()
	if err != nil {
		t.Fatalf("ListArchiveDates on missing dir: %v", err)
	}
	if len(dates) != 0 {
		t.Fatalf("expected no dates, got %d", len(dates))
	}
}

func TestSavePageAndDebug(t *testing.T) {
	storage := newTestStorage(t)

	path, err := storage.SavePage([]byte("<html/>"))
	if err != nil {
		t.Fatalf("SavePage: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("page not written: %v", err)
	}

	if err := storage.SaveDebug([]byte(`{}`)); err != nil {
		t.Fatalf("SaveDebug: %v", err)
	}
	if _, err := os.Stat(storage.DebugPath); err != nil {
		t.Fatalf("debug dump not written: %v", err)
	}
}
