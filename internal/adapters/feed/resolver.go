package feed

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"podscribe/internal/core/domain"
	"podscribe/internal/core/ports"
)

// mediaRSS is the Media RSS namespace carrying the audio enclosure.
const mediaRSS = "http://search.yahoo.com/mrss/"

// RSSResolver implements ports.FeedResolver for Media RSS podcast feeds.
type RSSResolver struct {
	client *http.Client
}

// NewRSSResolver creates a new RSSResolver.
func NewRSSResolver() *RSSResolver {
	return &RSSResolver{
		client: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

var _ ports.FeedResolver = (*RSSResolver)(nil)

type rssDocument struct {
	Channel *rssChannel `xml:"channel"`
}

type rssChannel struct {
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Media []mediaContent `xml:"content"`
}

type mediaContent struct {
	XMLName xml.Name `xml:"content"`
	Type    string   `xml:"type,attr"`
	URL     string   `xml:"url,attr"`
}

// Resolve fetches the feed and returns the first item's audio enclosure.
// The feed is assumed ordered newest-first; publish dates are not
// compared.
func (r *RSSResolver) Resolve(ctx context.Context, feedURL string) (*domain.Episode, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create feed request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrFeedUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrFeedUnavailable, err)
	}

	return extractEpisode(body)
}

// extractEpisode walks the channel/item/media:content structure. Any
// missing level is ErrFeedMalformed; a partial URL is never returned.
func extractEpisode(body []byte) (*domain.Episode, error) {
	var doc rssDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFeedMalformed, err)
	}

	if doc.Channel == nil {
		return nil, fmt.Errorf("%w: no channel element", domain.ErrFeedMalformed)
	}
	if len(doc.Channel.Items) == 0 {
		return nil, fmt.Errorf("%w: no items in channel", domain.ErrFeedMalformed)
	}

	for _, media := range doc.Channel.Items[0].Media {
		if media.XMLName.Space != mediaRSS || media.Type != "audio/mpeg" {
			continue
		}
		if media.URL == "" {
			return nil, fmt.Errorf("%w: media:content has no url attribute", domain.ErrFeedMalformed)
		}
		return &domain.Episode{AudioURL: media.URL}, nil
	}

	return nil, fmt.Errorf("%w: no audio/mpeg media:content in first item", domain.ErrFeedMalformed)
}
