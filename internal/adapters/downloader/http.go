package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"podscribe/internal/core/domain"
	"podscribe/internal/core/ports"
)

// HTTPFetcher implements ports.AudioFetcher. It re-resolves the feed
// itself so the fallback path works even when the upstream resolution
// failed, then streams the enclosure to a date-named local file.
type HTTPFetcher struct {
	resolver ports.FeedResolver
	destDir  string
	client   *http.Client
	now      func() time.Time
}

// NewHTTPFetcher creates a new HTTPFetcher writing into destDir.
func NewHTTPFetcher(resolver ports.FeedResolver, destDir string) *HTTPFetcher {
	return &HTTPFetcher{
		resolver: resolver,
		destDir:  destDir,
		client: &http.Client{
			Timeout: 30 * time.Minute, // Episodes can be large
		},
		now: time.Now,
	}
}

var _ ports.AudioFetcher = (*HTTPFetcher)(nil)

// Fetch downloads the latest episode's audio to <destDir>/YYYY-MM-DD.mp3,
// overwriting any existing same-day file.
func (f *HTTPFetcher) Fetch(ctx context.Context, feedURL string) (string, error) {
	episode, err := f.resolver.Resolve(ctx, feedURL)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(f.destDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create audio directory %s: %w", f.destDir, err)
	}

	filename := f.now().Format("2006-01-02") + ".mp3"
	path := filepath.Join(f.destDir, filename)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, episode.AudioURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", domain.ErrDownloadFailed, resp.StatusCode)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create audio file %s: %w", path, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		return "", fmt.Errorf("%w: writing %s: %v", domain.ErrDownloadFailed, path, err)
	}

	return path, nil
}
