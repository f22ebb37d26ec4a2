package pulse

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/Adda-Baaj/geopulse/internal/domain"
	"github.com/Adda-Baaj/geopulse/internal/logger"
	"github.com/Adda-Baaj/geopulse/internal/metrics"
	"github.com/Adda-Baaj/geopulse/internal/mockdata"
	"github.com/Adda-Baaj/geopulse/pkg/providers"
	"golang.org/x/sync/errgroup"
)

// Package pulse aggregates the live feed: it builds the provider query,
// walks the news chain with quota rotation, merges supplementary videos and
// falls back to mock data whenever live data cannot be served.

var errNoProviders = errors.New("no providers configured")

// Options tune a Service. Zero values fall back to sensible defaults.
type Options struct {
	UseMock           bool
	MockDelay         time.Duration
	WeatherSampleSize int
	Now               func() time.Time
	// Sample returns k distinct indexes in [0, n).
	Sample func(n, k int) []int
	Logger logger.Logger
}

// Service is safe for concurrent use; it holds no per-request state.
type Service struct {
	news       []providers.SearchClient
	video      []providers.SearchClient
	headlines  providers.HeadlinesClient
	weather    []providers.WeatherClient
	cities     []providers.City
	useMock    bool
	mockDelay  time.Duration
	sampleSize int
	now        func() time.Time
	sample     func(n, k int) []int
	log        logger.Logger
}

// NewService wires a Service over the built provider set.
func NewService(set providers.Set, opts Options) *Service {
	s := &Service{
		news:       set.News,
		video:      set.Video,
		headlines:  set.Headlines,
		weather:    set.Weather,
		cities:     set.Cities,
		useMock:    opts.UseMock,
		mockDelay:  opts.MockDelay,
		sampleSize: opts.WeatherSampleSize,
		now:        opts.Now,
		sample:     opts.Sample,
		log:        logger.Ensure(opts.Logger),
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.sample == nil {
		s.sample = randomSample
	}
	if s.sampleSize <= 0 {
		s.sampleSize = 4
	}
	return s
}

// FetchPulseData returns the feed for opts, newest first. It never fails:
// provider problems degrade to the mock catalog filtered the same way.
func (s *Service) FetchPulseData(ctx context.Context, opts domain.FetchOptions) []domain.PulseItem {
	opts = opts.Normalized()

	if s.useMock {
		if err := sleep(ctx, s.mockDelay); err != nil {
			return []domain.PulseItem{}
		}
		return s.mockPulse(opts, "mock_mode")
	}

	query := BuildQuery(opts)
	items, err := s.rotate(ctx, query, opts.Page)
	if err != nil {
		reason := providers.Outcome(err)
		if errors.Is(err, errNoProviders) {
			reason = "no_providers"
		}
		s.log.WarnObj("serving mock pulse data", "fallback_meta", map[string]any{
			"region": opts.Region,
			"crisis": opts.IsCrisisMode,
			"page":   opts.Page,
			"reason": reason,
			"error":  err.Error(),
		})
		return s.mockPulse(opts, reason)
	}

	if opts.Page == 1 {
		items = append(items, s.videos(ctx, query)...)
	}
	items = uniqueByID(items)

	tag := primaryTag(opts)
	for i := range items {
		items[i].Tags = append([]string{tag}, items[i].Tags...)
	}
	mockdata.SortNewestFirst(items)
	return items
}

// rotate walks the news chain. Only quota failures move on to the next
// provider; any other failure ends the walk.
func (s *Service) rotate(ctx context.Context, query string, page int) ([]domain.PulseItem, error) {
	if len(s.news) == 0 {
		return nil, errNoProviders
	}

	var lastErr error
	for i, c := range s.news {
		body, err := s.search(ctx, c, query, page)
		if err == nil {
			return providers.Normalize(c.Kind(), c.DisplayName(), body), nil
		}
		if !providers.IsQuota(err) {
			return nil, err
		}
		lastErr = err
		if i+1 < len(s.news) {
			s.log.WarnObj("provider quota exhausted; rotating", "rotation_meta", map[string]any{
				"from": c.ID(),
				"to":   s.news[i+1].ID(),
			})
		}
	}
	return nil, lastErr
}

// videos queries every video provider concurrently; failures are dropped.
func (s *Service) videos(ctx context.Context, query string) []domain.PulseItem {
	if len(s.video) == 0 {
		return nil
	}

	results := make([][]domain.PulseItem, len(s.video))
	var g errgroup.Group
	for i, c := range s.video {
		g.Go(func() error {
			body, err := s.search(ctx, c, query, 1)
			if err != nil {
				s.log.DebugObj("video provider skipped", "provider_error", map[string]any{
					"provider_id": c.ID(),
					"error":       err.Error(),
				})
				return nil
			}
			results[i] = providers.Normalize(c.Kind(), c.DisplayName(), body)
			return nil
		})
	}
	_ = g.Wait()

	var out []domain.PulseItem
	for _, r := range results {
		out = append(out, r...)
	}
	return out
}

func (s *Service) search(ctx context.Context, c providers.SearchClient, query string, page int) ([]byte, error) {
	start := time.Now()
	body, err := c.Search(ctx, query, page)
	metrics.RecordProviderCall(c.ID(), providers.Outcome(err), time.Since(start).Seconds())
	return body, err
}

func (s *Service) mockPulse(opts domain.FetchOptions, reason string) []domain.PulseItem {
	metrics.RecordFallback("pulse", reason)
	region := opts.Region
	if opts.IsCrisisMode {
		region = domain.RegionGlobal
	}
	return mockdata.ForRegion(mockdata.Catalog(s.now()), region)
}

// FetchGNews returns top headlines for category, newest first, falling back
// to the mock catalog filtered by category.
func (s *Service) FetchGNews(ctx context.Context, category string, page int) []domain.PulseItem {
	category = strings.ToLower(strings.TrimSpace(category))
	if !providers.IsGNewsCategory(category) {
		category = mockdata.GeneralCategory
	}
	if page < 1 {
		page = 1
	}

	if s.useMock {
		if err := sleep(ctx, s.mockDelay); err != nil {
			return []domain.PulseItem{}
		}
		return s.mockHeadlines(category, "mock_mode")
	}
	if s.headlines == nil {
		return s.mockHeadlines(category, "no_providers")
	}

	start := time.Now()
	body, err := s.headlines.Headlines(ctx, category, page)
	metrics.RecordProviderCall(s.headlines.ID(), providers.Outcome(err), time.Since(start).Seconds())
	if err != nil {
		s.log.WarnObj("serving mock headlines", "fallback_meta", map[string]any{
			"category": category,
			"reason":   providers.Outcome(err),
			"error":    err.Error(),
		})
		return s.mockHeadlines(category, providers.Outcome(err))
	}

	items := uniqueByID(providers.Normalize(s.headlines.Kind(), s.headlines.DisplayName(), body))
	for i := range items {
		items[i].Tags = append([]string{category}, items[i].Tags...)
	}
	mockdata.SortNewestFirst(items)
	return items
}

// uniqueByID drops repeated IDs in place, keeping the first occurrence.
func uniqueByID(items []domain.PulseItem) []domain.PulseItem {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, it := range items {
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}
	return out
}

func (s *Service) mockHeadlines(category, reason string) []domain.PulseItem {
	metrics.RecordFallback("headlines", reason)
	return mockdata.ForCategory(mockdata.Catalog(s.now()), category)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func randomSample(n, k int) []int {
	perm := rand.Perm(n)
	if k > n {
		k = n
	}
	return perm[:k]
}
