package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Adda-Baaj/geopulse/pkg/httpclient"
	"github.com/PuerkitoBio/goquery"
)

// Package extract pulls readable article text out of news pages.

const (
	maxHTMLBodyBytes = 2 << 20 // 2 MiB
	maxErrorSnippet  = 1024
	// MaxTextChars caps extracted text.
	MaxTextChars = 20000
	// enoughChars stops the selector walk once a container yielded this much.
	enoughChars = 500
	// minChars triggers the body-paragraph fallback.
	minChars = 200
)

// Boilerplate removed before any text is read.
const noiseSelector = "script, style, nav, header, footer, iframe, .ad, .advertisement, .social-share, .comments"

// contentSelectors are tried in order.
var contentSelectors = []string{
	"article",
	`[itemprop="articleBody"]`,
	".article-body",
	".story-body",
	".post-content",
	".entry-content",
	"main",
}

var (
	// ErrFetch covers transport errors and non-200 responses.
	ErrFetch = errors.New("fetch article")
	// ErrNoContent means the page parsed but held no paragraph text.
	ErrNoContent = errors.New("no article text found")
)

// Page is what was read from one article.
type Page struct {
	Title string
	Text  string
}

// Extractor fetches article pages and reduces them to paragraph text.
type Extractor struct {
	client httpclient.Client
}

// NewExtractor constructs an extractor with the provided HTTP client (or a
// resty client presenting a browser User-Agent).
func NewExtractor(client httpclient.Client) *Extractor {
	if client == nil {
		client = httpclient.NewRestyClient(15*time.Second, httpclient.WithUserAgent(httpclient.BrowserUserAgent))
	}
	return &Extractor{client: client}
}

// Extract downloads url and returns its article text.
func (e *Extractor) Extract(ctx context.Context, url string) (Page, error) {
	headers := map[string]string{
		"User-Agent":      httpclient.BrowserUserAgent,
		"Accept":          "text/html,application/xhtml+xml",
		"Accept-Language": "en-US,en;q=0.9",
	}

	resp, err := e.client.Get(ctx, url, headers)
	if err != nil {
		return Page{}, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		snippet := truncate(strings.TrimSpace(string(resp.Body())), maxErrorSnippet)
		return Page{}, fmt.Errorf("%w: status %d body: %s", ErrFetch, resp.StatusCode(), snippet)
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	page, err := Parse(body)
	if err != nil {
		return Page{}, err
	}
	if page.Text == "" {
		return page, ErrNoContent
	}
	return page, nil
}

// Parse extracts the title and article text from raw HTML.
func Parse(body []byte) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Page{}, fmt.Errorf("parse html: %w", err)
	}

	title := firstNonEmpty(
		attr(doc, `meta[property="og:title"]`),
		strings.TrimSpace(doc.Find("title").First().Text()),
	)

	doc.Find(noiseSelector).Remove()

	var text string
	for _, sel := range contentSelectors {
		node := doc.Find(sel)
		if node.Length() == 0 {
			continue
		}
		text = paragraphs(node)
		if utf8.RuneCountInString(text) > enoughChars {
			break
		}
	}

	if utf8.RuneCountInString(text) < minChars {
		if fallback := paragraphs(doc.Find("body")); utf8.RuneCountInString(fallback) > utf8.RuneCountInString(text) {
			text = fallback
		}
	}

	return Page{Title: title, Text: truncate(text, MaxTextChars)}, nil
}

// paragraphs joins the non-empty <p> texts under sel with blank lines.
func paragraphs(sel *goquery.Selection) string {
	var parts []string
	sel.Find("p").Each(func(_ int, p *goquery.Selection) {
		if t := strings.Join(strings.Fields(p.Text()), " "); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, "\n\n")
}

func attr(doc *goquery.Document, sel string) string {
	if node := doc.Find(sel).First(); node.Length() > 0 {
		if val, ok := node.Attr("content"); ok {
			return strings.TrimSpace(val)
		}
	}
	return ""
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
