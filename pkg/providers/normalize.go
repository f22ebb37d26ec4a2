package providers

import (
	"encoding/json"
	"html"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Adda-Baaj/geopulse/internal/domain"
	"github.com/microcosm-cc/bluemonday"
)

const (
	untitled        = "Untitled"
	removedTitle    = "[Removed]"
	youTubeWatchURL = "https://www.youtube.com/watch?v="
)

var (
	strictPolicy = bluemonday.StrictPolicy()
	epoch        = time.Unix(0, 0).UTC().Format(time.RFC3339)
)

type newsAPIArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
}

type gnewsArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	Image       string `json:"image"`
	PublishedAt string `json:"publishedAt"`
}

type youTubeItem struct {
	ID struct {
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		ChannelTitle string `json:"channelTitle"`
		PublishedAt  string `json:"publishedAt"`
		Thumbnails   map[string]struct {
			URL string `json:"url"`
		} `json:"thumbnails"`
	} `json:"snippet"`
}

// envelope keeps entries raw so one malformed entry does not cost the rest.
type envelope struct {
	Articles []json.RawMessage `json:"articles"`
	Items    []json.RawMessage `json:"items"`
}

// Normalize maps a raw provider payload of the given kind to pulse items.
// It never fails: unknown kinds and malformed bodies yield an empty slice,
// and entries that do not decode are skipped.
func Normalize(kind, displayName string, raw []byte) []domain.PulseItem {
	out := []domain.PulseItem{}
	var env envelope
	if json.Unmarshal(raw, &env) != nil {
		return out
	}

	switch strings.ToLower(kind) {
	case TypeNewsAPI:
		for i, entry := range env.Articles {
			var a newsAPIArticle
			if json.Unmarshal(entry, &a) != nil {
				continue
			}
			if strings.TrimSpace(a.Title) == removedTitle {
				continue
			}
			out = append(out, buildArticle(kind, displayName, i, a.Source.Name, a.Title, a.URL, a.URLToImage, a.PublishedAt, a.Description, a.Content))
		}
	case TypeGNews:
		for i, entry := range env.Articles {
			var a gnewsArticle
			if json.Unmarshal(entry, &a) != nil {
				continue
			}
			out = append(out, buildArticle(kind, displayName, i, a.Source.Name, a.Title, a.URL, a.Image, a.PublishedAt, a.Description, a.Content))
		}
	case TypeYouTube:
		for i, entry := range env.Items {
			var v youTubeItem
			if json.Unmarshal(entry, &v) != nil {
				continue
			}
			link := ""
			if v.ID.VideoID != "" {
				link = youTubeWatchURL + v.ID.VideoID
			}
			item := buildArticle(kind, displayName, i, v.Snippet.ChannelTitle, v.Snippet.Title, link, thumbnail(v.Snippet.Thumbnails), v.Snippet.PublishedAt, v.Snippet.Description, "")
			item.Type = domain.ItemTypeVideo
			out = append(out, item)
		}
	}
	return out
}

func buildArticle(kind, displayName string, index int, source, title, link, image, published, description, content string) domain.PulseItem {
	item := domain.PulseItem{
		Title:       firstNonEmpty(stripHTML(title), untitled),
		Source:      firstNonEmpty(source, displayName, kind),
		PublishedAt: normalizeTime(published),
		ImageURL:    strings.TrimSpace(image),
		Type:        domain.ItemTypeArticle,
		Tags:        []string{firstNonEmpty(displayName, kind)},
		Description: stripHTML(description),
		Content:     stripHTML(content),
	}

	if link, ok := absoluteLink(link); ok {
		item.ID = link
		item.URL = link
	} else {
		item.ID = kind + "-" + strconv.Itoa(index)
		item.URL = domain.UnlinkedURL
	}
	return item
}

// absoluteLink accepts only http(s) URLs with a host.
func absoluteLink(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return raw, true
	}
	return "", false
}

func normalizeTime(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.RFC3339, time.RFC3339Nano, "2006-01-02 15:04:05", time.RFC1123Z, time.RFC1123} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return epoch
}

func stripHTML(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

func thumbnail(thumbs map[string]struct {
	URL string `json:"url"`
}) string {
	for _, size := range []string{"high", "medium", "default"} {
		if t, ok := thumbs[size]; ok && t.URL != "" {
			return t.URL
		}
	}
	return ""
}
