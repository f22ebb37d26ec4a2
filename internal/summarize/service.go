package summarize

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/Adda-Baaj/geopulse/internal/extract"
	"github.com/Adda-Baaj/geopulse/internal/logger"
	"github.com/Adda-Baaj/geopulse/internal/metrics"
	"github.com/Adda-Baaj/geopulse/internal/storage"
	"github.com/Adda-Baaj/geopulse/pkg/llm"
)

// Package summarize produces AI briefings and full-text views of articles.
// Callers only ever see the fixed messages below; causes go to the log.

// User-facing summary errors.
const (
	MsgRateLimited      = "Too many requests. Please try again in a minute."
	MsgInvalidURL       = "Invalid URL provided."
	MsgSubscription     = "Subscription required to access AI briefings."
	MsgUnavailable      = "Service temporarily unavailable."
	MsgSourceFailed     = "Unable to access source article."
	MsgTooShort         = "Content too short to summarize."
	MsgProcessingFailed = "A processing error occurred. Our team has been notified."
)

// User-facing content errors.
const (
	MsgContentInvalidURL  = "Invalid URL"
	MsgContentRateLimited = "Rate limit exceeded. Try again shortly."
	MsgContentFailed      = "Unable to retrieve full content from source."
)

const (
	// MinContentChars is the shortest article text worth summarizing.
	MinContentChars = 200
	// MaxPromptChars caps the article text sent to the model.
	MaxPromptChars = 10000
)

const promptTemplate = `You are a geopolitical intelligence analyst. Summarize the following news article in 3-4 concise, high-impact bullet points. Focus on the strategic implications, key actors, and potential risks.

Article Content:
%CONTENT%

Output Format:
- Point 1
- Point 2
- Point 3`

// Result is the outcome of Summarize. Exactly one field is set.
type Result struct {
	Summary string `json:"summary,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ContentResult is the outcome of Content. Exactly one field is set.
type ContentResult struct {
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RateLimiter admits or rejects a call for a client.
type RateLimiter interface {
	Check(id string) bool
}

// AccessGate reports whether a client may use briefings.
type AccessGate interface {
	HasAccess(clientID string) bool
}

// Extractor reads article text.
type Extractor interface {
	Extract(ctx context.Context, url string) (extract.Page, error)
}

// SummaryCache stores finished summaries by URL.
type SummaryCache interface {
	CachedSummary(url string) (string, bool, error)
	CacheSummary(url, summary string) error
}

// Deps are the collaborators of a Service. Model may be nil when no
// credentials are configured; Cache and Gate may be nil to disable them.
type Deps struct {
	Limiter   RateLimiter
	Gate      AccessGate
	Extractor Extractor
	Model     llm.Client
	Cache     SummaryCache
	Logger    logger.Logger
}

// Service implements the briefing and content operations.
type Service struct {
	limiter   RateLimiter
	gate      AccessGate
	extractor Extractor
	model     llm.Client
	cache     SummaryCache
	log       logger.Logger
}

var _ SummaryCache = storage.Store(nil)

// NewService wires a Service. A nil extractor gets the default one.
func NewService(d Deps) *Service {
	s := &Service{
		limiter:   d.Limiter,
		gate:      d.Gate,
		extractor: d.Extractor,
		model:     d.Model,
		cache:     d.Cache,
		log:       logger.Ensure(d.Logger),
	}
	if s.extractor == nil {
		s.extractor = extract.NewExtractor(nil)
	}
	return s
}

// Summarize returns a bullet-point briefing for the article at rawURL.
// The rate limit is checked before anything else, so rejected calls cost
// no network or model work.
func (s *Service) Summarize(ctx context.Context, clientID, rawURL string) Result {
	if s.limiter != nil && !s.limiter.Check(clientID) {
		metrics.RecordRateLimited("summarize")
		return s.fail("rate_limited", MsgRateLimited)
	}

	target, ok := validURL(rawURL)
	if !ok {
		return s.fail("invalid_url", MsgInvalidURL)
	}

	if s.gate != nil && !s.gate.HasAccess(clientID) {
		return s.fail("paywalled", MsgSubscription)
	}

	if s.model == nil {
		s.log.ErrorObj("summarization misconfigured", "summarize_error", map[string]any{
			"error": "llm api key is missing",
		})
		return s.fail("unavailable", MsgUnavailable)
	}

	if s.cache != nil {
		cached, hit, err := s.cache.CachedSummary(target)
		if err != nil {
			s.log.WarnObj("summary cache read failed", "cache_error", map[string]any{"url": target, "error": err.Error()})
		} else if hit {
			metrics.RecordSummary("cache_hit")
			return Result{Summary: cached}
		}
	}

	page, err := s.extractor.Extract(ctx, target)
	if err != nil && !errors.Is(err, extract.ErrNoContent) {
		s.log.WarnObj("article fetch failed", "summarize_error", map[string]any{"url": target, "error": err.Error()})
		return s.fail("source_failed", MsgSourceFailed)
	}

	text := strings.Join(strings.Fields(page.Text), " ")
	if utf8.RuneCountInString(text) < MinContentChars {
		return s.fail("too_short", MsgTooShort)
	}

	summary, err := s.model.Generate(ctx, buildPrompt(text))
	if err != nil {
		s.log.ErrorObj("summarization failed", "summarize_error", map[string]any{"url": target, "error": err.Error()})
		return s.fail("model_error", MsgProcessingFailed)
	}

	if s.cache != nil {
		if err := s.cache.CacheSummary(target, summary); err != nil {
			s.log.WarnObj("summary cache write failed", "cache_error", map[string]any{"url": target, "error": err.Error()})
		}
	}

	metrics.RecordSummary("success")
	return Result{Summary: summary}
}

// Content returns the readable text of the article at rawURL.
func (s *Service) Content(ctx context.Context, clientID, rawURL string) ContentResult {
	target, ok := validURL(rawURL)
	if !ok {
		return ContentResult{Error: MsgContentInvalidURL}
	}
	if s.limiter != nil && !s.limiter.Check(clientID) {
		metrics.RecordRateLimited("content")
		return ContentResult{Error: MsgContentRateLimited}
	}

	page, err := s.extractor.Extract(ctx, target)
	if err != nil {
		s.log.WarnObj("content fetch failed", "content_error", map[string]any{"url": target, "error": err.Error()})
		return ContentResult{Error: MsgContentFailed}
	}
	return ContentResult{Content: page.Text}
}

func (s *Service) fail(result, msg string) Result {
	metrics.RecordSummary(result)
	return Result{Error: msg}
}

// validURL accepts absolute http and https URLs with a host.
func validURL(raw string) (string, bool) {
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
		return u.String(), true
	default:
		return "", false
	}
}

func buildPrompt(text string) string {
	if utf8.RuneCountInString(text) > MaxPromptChars {
		text = string([]rune(text)[:MaxPromptChars])
	}
	return strings.Replace(promptTemplate, "%CONTENT%", text, 1)
}
