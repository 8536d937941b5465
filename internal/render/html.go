package render

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"time"

	"podscribe/internal/core/domain"
	"podscribe/internal/core/ports"
)

// HTMLRenderer implements ports.Renderer, producing a static page with
// the day's transcription and a rolling archive list.
type HTMLRenderer struct {
	storage      ports.Storage
	displayLimit int // archive entries shown, not stored
}

// NewHTMLRenderer creates a new HTMLRenderer.
func NewHTMLRenderer(storage ports.Storage, displayLimit int) *HTMLRenderer {
	return &HTMLRenderer{
		storage:      storage,
		displayLimit: displayLimit,
	}
}

var _ ports.Renderer = (*HTMLRenderer)(nil)

type pageData struct {
	Date         string
	Duration     string
	ChannelCount string
	Language     string
	Utterances   []utteranceView
	Archives     []archiveLink
	UpdatedAt    string
}

type utteranceView struct {
	Text       string
	Start      string
	End        string
	Confidence string
	Speaker    int
}

type archiveLink struct {
	Date string
	Href string
}

// Publish renders the transcript into the current page and writes one
// archive entry for the date.
func (r *HTMLRenderer) Publish(transcript *domain.Transcript, date time.Time) (string, string, error) {
	page, err := r.Render(transcript, date)
	if err != nil {
		return "", "", err
	}

	pagePath, err := r.storage.SavePage(page)
	if err != nil {
		return "", "", err
	}
	archivePath, err := r.storage.SaveArchivePage(date, page)
	if err != nil {
		return "", "", err
	}
	return pagePath, archivePath, nil
}

// Render produces the HTML page bytes for the transcript.
func (r *HTMLRenderer) Render(transcript *domain.Transcript, date time.Time) ([]byte, error) {
	data := pageData{
		Date:         date.Format("2006-01-02"),
		Duration:     formatClock(transcript.Metadata.AudioDuration),
		ChannelCount: intOrUnknown(transcript.Metadata.ChannelCount),
		Language:     stringOrUnknown(transcript.Metadata.Language),
		UpdatedAt:    date.Format("2006-01-02 15:04:05"),
	}

	for _, u := range transcript.Utterances {
		data.Utterances = append(data.Utterances, utteranceView{
			Text:       u.Text,
			Start:      formatClock(u.Start),
			End:        formatClock(u.End),
			Confidence: fmt.Sprintf("%.2f", u.Confidence),
			Speaker:    u.Speaker,
		})
	}

	archives, err := r.archiveLinks()
	if err != nil {
		return nil, err
	}
	data.Archives = archives

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render page: %w", err)
	}
	return buf.Bytes(), nil
}

// archiveLinks lists existing archive entries, newest first, capped at
// the display limit. Storage keeps everything; only the listing prunes.
func (r *HTMLRenderer) archiveLinks() ([]archiveLink, error) {
	dates, err := r.storage.ListArchiveDates()
	if err != nil {
		return nil, fmt.Errorf("failed to list archive: %w", err)
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
	if len(dates) > r.displayLimit {
		dates = dates[:r.displayLimit]
	}

	links := make([]archiveLink, 0, len(dates))
	for _, d := range dates {
		name := d.Format("2006-01-02")
		links = append(links, archiveLink{
			Date: name,
			Href: "archive/" + name + ".html",
		})
	}
	return links, nil
}

// formatClock renders seconds as M:SS.
func formatClock(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func intOrUnknown(n int) string {
	if n == 0 {
		return "Unknown"
	}
	return fmt.Sprintf("%d", n)
}

func stringOrUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Daily Podcast Transcription</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            line-height: 1.6;
            margin: 0 auto;
            padding: 20px;
            max-width: 800px;
            color: #333;
        }
        h1 {
            color: #2c3e50;
            border-bottom: 1px solid #eee;
            padding-bottom: 10px;
        }
        .meta-info {
            background-color: #f8f9fa;
            padding: 15px;
            border-radius: 5px;
            margin-bottom: 20px;
            font-size: 14px;
        }
        .meta-item {
            margin-bottom: 5px;
        }
        .utterance {
            margin-bottom: 15px;
            padding: 12px;
            background-color: #f9f9f9;
            border-radius: 5px;
            box-shadow: 0 1px 3px rgba(0,0,0,0.1);
        }
        .utterance-text {
            font-size: 16px;
            margin-bottom: 8px;
        }
        .utterance-info {
            font-size: 12px;
            color: #666;
        }
        .timestamp {
            font-weight: bold;
        }
        .confidence {
            margin-left: 10px;
        }
        .updated-date {
            text-align: right;
            font-style: italic;
            margin-top: 30px;
            color: #999;
        }
        .archives {
            margin-top: 40px;
            padding-top: 20px;
            border-top: 1px solid #eee;
        }
        .archives h2 {
            font-size: 18px;
            margin-bottom: 10px;
        }
        .archives ul {
            list-style-type: none;
            padding: 0;
        }
        .archives li {
            margin-bottom: 5px;
        }
        .archives a {
            color: #3498db;
            text-decoration: none;
        }
        .archives a:hover {
            text-decoration: underline;
        }
    </style>
</head>
<body>
    <h1>Daily Podcast Transcription</h1>

    <div class="meta-info">
        <div class="meta-item"><strong>Date:</strong> {{.Date}}</div>
        <div class="meta-item"><strong>Audio Duration:</strong> {{.Duration}}</div>
        <div class="meta-item"><strong>Number of Channels:</strong> {{.ChannelCount}}</div>
        <div class="meta-item"><strong>Language:</strong> {{.Language}}</div>
    </div>

    <h2>Transcription</h2>
{{range .Utterances}}
    <div class="utterance">
        <div class="utterance-text">{{.Text}}</div>
        <div class="utterance-info">
            <span class="timestamp">{{.Start}} - {{.End}}</span>
            <span class="confidence">Confidence: {{.Confidence}}</span>
            <span class="speaker">Speaker: {{.Speaker}}</span>
        </div>
    </div>
{{end}}
    <div class="archives">
        <h2>Archives</h2>
        <ul>
{{range .Archives}}            <li><a href="{{.Href}}">{{.Date}}</a></li>
{{end}}        </ul>
    </div>

    <div class="updated-date">Last updated: {{.UpdatedAt}}</div>
</body>
</html>
`))
