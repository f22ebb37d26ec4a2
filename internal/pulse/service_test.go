package pulse

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Adda-Baaj/geopulse/internal/domain"
	"github.com/Adda-Baaj/geopulse/internal/mockdata"
	"github.com/Adda-Baaj/geopulse/pkg/providers"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type searchCall struct {
	query string
	page  int
}

type fakeSearch struct {
	id   string
	kind string
	body string
	err  error

	mu    sync.Mutex
	calls []searchCall
}

func (f *fakeSearch) ID() string          { return f.id }
func (f *fakeSearch) Kind() string        { return f.kind }
func (f *fakeSearch) DisplayName() string { return f.id }

func (f *fakeSearch) Search(_ context.Context, query string, page int) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, searchCall{query: query, page: page})
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.body), nil
}

func (f *fakeSearch) Headlines(ctx context.Context, category string, page int) ([]byte, error) {
	return f.Search(ctx, category, page)
}

func (f *fakeSearch) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

var (
	quotaErr   = &providers.Error{ProviderID: "x", Kind: providers.ErrQuotaExceeded, Status: 429}
	failureErr = &providers.Error{ProviderID: "x", Kind: providers.ErrProviderFailure, Status: 500}
	missingKey = &providers.Error{ProviderID: "x", Kind: providers.ErrUnavailable}
)

func articles(prefix string, n int) string {
	body := `{"articles":[`
	for i := 0; i < n; i++ {
		if i > 0 {
			body += ","
		}
		body += fmt.Sprintf(`{"title":"%s %d","url":"https://%s.example/%d","publishedAt":"2024-05-0%dT00:00:00Z","source":{"name":"%s"}}`, prefix, i, prefix, i, i+1, prefix)
	}
	return body + `]}`
}

func newTestService(set providers.Set, opts Options) *Service {
	opts.Now = func() time.Time { return fixedNow }
	return NewService(set, opts)
}

func TestBuildQuery(t *testing.T) {
	cases := []struct {
		name string
		opts domain.FetchOptions
		want string
	}{
		{"crisis ignores everything", domain.FetchOptions{IsCrisisMode: true, Region: domain.RegionArctic, Query: "ships"}, CrisisQuery},
		{"free text overrides region", domain.FetchOptions{Region: domain.RegionArctic, Query: "  {Arctic} <shipping> lanes "}, "Arctic shipping lanes"},
		{"region keywords", domain.FetchOptions{Region: domain.RegionSouthAsia}, RegionKeywords[domain.RegionSouthAsia]},
		{"default global", domain.FetchOptions{}, RegionKeywords[domain.RegionGlobal]},
		{"sanitized to empty", domain.FetchOptions{Query: " <>{} ", Region: domain.RegionAfrica}, RegionKeywords[domain.RegionAfrica]},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := BuildQuery(tc.opts); got != tc.want {
				t.Fatalf("BuildQuery = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPrimarySuccessSkipsSecondary(t *testing.T) {
	primary := &fakeSearch{id: "newsapi", kind: providers.TypeNewsAPI, body: articles("a", 3)}
	secondary := &fakeSearch{id: "gnews", kind: providers.TypeGNews, body: articles("b", 2)}
	svc := newTestService(providers.Set{News: []providers.SearchClient{primary, secondary}}, Options{})

	items := svc.FetchPulseData(context.Background(), domain.FetchOptions{Region: domain.RegionMiddleEast})
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if secondary.callCount() != 0 {
		t.Fatalf("secondary should not be called")
	}
	for _, it := range items {
		if it.Tags[0] != string(domain.RegionMiddleEast) || it.Tags[1] != "newsapi" {
			t.Fatalf("unexpected tags %v", it.Tags)
		}
	}
	if items[0].Title != "a 2" {
		t.Fatalf("items not sorted newest first: %q", items[0].Title)
	}
}

func TestQuotaRotatesToSecondary(t *testing.T) {
	primary := &fakeSearch{id: "newsapi", kind: providers.TypeNewsAPI, err: quotaErr}
	secondary := &fakeSearch{id: "gnews", kind: providers.TypeGNews, body: articles("g", 2)}
	svc := newTestService(providers.Set{News: []providers.SearchClient{primary, secondary}}, Options{})

	opts := domain.FetchOptions{Query: "sanctions", Page: 2}
	items := svc.FetchPulseData(context.Background(), opts)
	if len(items) != 2 || items[0].Source != "g" {
		t.Fatalf("expected secondary items, got %#v", items)
	}
	if primary.calls[0] != secondary.calls[0] {
		t.Fatalf("secondary must receive the same query and page: %v vs %v", primary.calls[0], secondary.calls[0])
	}
	if secondary.calls[0].page != 2 {
		t.Fatalf("page not forwarded")
	}
}

func TestOtherFailureFallsBackWithoutRotation(t *testing.T) {
	for name, err := range map[string]error{"failure": failureErr, "unavailable": missingKey} {
		t.Run(name, func(t *testing.T) {
			primary := &fakeSearch{id: "newsapi", kind: providers.TypeNewsAPI, err: err}
			secondary := &fakeSearch{id: "gnews", kind: providers.TypeGNews, body: articles("g", 2)}
			svc := newTestService(providers.Set{News: []providers.SearchClient{primary, secondary}}, Options{})

			items := svc.FetchPulseData(context.Background(), domain.FetchOptions{Region: domain.RegionArctic})
			if secondary.callCount() != 0 {
				t.Fatalf("secondary must not be called on %s", name)
			}
			want := mockdata.ForRegion(mockdata.Catalog(fixedNow), domain.RegionArctic)
			assertSameIDs(t, items, want)
		})
	}
}

func TestQuotaExhaustionFallsBackToMock(t *testing.T) {
	primary := &fakeSearch{id: "newsapi", kind: providers.TypeNewsAPI, err: quotaErr}
	secondary := &fakeSearch{id: "gnews", kind: providers.TypeGNews, err: quotaErr}
	svc := newTestService(providers.Set{News: []providers.SearchClient{primary, secondary}}, Options{})

	items := svc.FetchPulseData(context.Background(), domain.FetchOptions{Region: domain.RegionAfrica})
	if secondary.callCount() != 1 {
		t.Fatalf("secondary should be attempted once")
	}
	assertSameIDs(t, items, mockdata.ForRegion(mockdata.Catalog(fixedNow), domain.RegionAfrica))
}

func TestNoProvidersServesMock(t *testing.T) {
	svc := newTestService(providers.Set{}, Options{})
	items := svc.FetchPulseData(context.Background(), domain.FetchOptions{})
	if len(items) != len(mockdata.Catalog(fixedNow)) {
		t.Fatalf("expected whole mock catalog, got %d", len(items))
	}
}

func TestVideosMergedOnFirstPageOnly(t *testing.T) {
	news := &fakeSearch{id: "newsapi", kind: providers.TypeNewsAPI, body: articles("a", 2)}
	video := &fakeSearch{id: "youtube", kind: providers.TypeYouTube, body: `{"items":[{"id":{"videoId":"v1"},"snippet":{"title":"clip","channelTitle":"DW","publishedAt":"2024-05-09T00:00:00Z"}}]}`}
	broken := &fakeSearch{id: "youtube-2", kind: providers.TypeYouTube, err: failureErr}
	svc := newTestService(providers.Set{
		News:  []providers.SearchClient{news},
		Video: []providers.SearchClient{video, broken},
	}, Options{})

	items := svc.FetchPulseData(context.Background(), domain.FetchOptions{})
	if len(items) != 3 {
		t.Fatalf("expected 2 articles + 1 video, got %d", len(items))
	}
	if items[0].Type != domain.ItemTypeVideo {
		t.Fatalf("newest item should be the video")
	}

	items = svc.FetchPulseData(context.Background(), domain.FetchOptions{Page: 2})
	if len(items) != 2 {
		t.Fatalf("page 2 should not merge videos, got %d", len(items))
	}
	if video.callCount() != 1 {
		t.Fatalf("video provider should be called once, got %d", video.callCount())
	}
}

func TestCrisisModeTagsAndQuery(t *testing.T) {
	news := &fakeSearch{id: "newsapi", kind: providers.TypeNewsAPI, body: articles("a", 1)}
	svc := newTestService(providers.Set{News: []providers.SearchClient{news}}, Options{})

	items := svc.FetchPulseData(context.Background(), domain.FetchOptions{IsCrisisMode: true, Region: domain.RegionArctic, Query: "x"})
	if news.calls[0].query != CrisisQuery {
		t.Fatalf("unexpected query %q", news.calls[0].query)
	}
	if items[0].Tags[0] != CrisisTag {
		t.Fatalf("unexpected tags %v", items[0].Tags)
	}
}

func TestMockModeMakesNoCalls(t *testing.T) {
	news := &fakeSearch{id: "newsapi", kind: providers.TypeNewsAPI, body: articles("a", 1)}
	svc := newTestService(providers.Set{News: []providers.SearchClient{news}}, Options{UseMock: true, MockDelay: 10 * time.Millisecond})

	start := time.Now()
	items := svc.FetchPulseData(context.Background(), domain.FetchOptions{Region: domain.RegionCentralAsia})
	if time.Since(start) < 10*time.Millisecond {
		t.Fatalf("mock delay not applied")
	}
	if news.callCount() != 0 {
		t.Fatalf("mock mode must not call providers")
	}
	assertSameIDs(t, items, mockdata.ForRegion(mockdata.Catalog(fixedNow), domain.RegionCentralAsia))
}

func TestMockModeHonoursCancellation(t *testing.T) {
	svc := newTestService(providers.Set{}, Options{UseMock: true, MockDelay: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if items := svc.FetchPulseData(ctx, domain.FetchOptions{}); len(items) != 0 {
		t.Fatalf("cancelled request should return no items")
	}
}

func TestFetchGNews(t *testing.T) {
	hl := &fakeSearch{id: "gnews", kind: providers.TypeGNews, body: articles("h", 2)}
	svc := newTestService(providers.Set{Headlines: hl}, Options{})

	items := svc.FetchGNews(context.Background(), "Technology", 1)
	if hl.calls[0].query != "technology" {
		t.Fatalf("category not normalized: %q", hl.calls[0].query)
	}
	if len(items) != 2 || items[0].Tags[0] != "technology" {
		t.Fatalf("unexpected items %#v", items)
	}

	svc.FetchGNews(context.Background(), "astrology", 0)
	if hl.calls[1].query != "general" || hl.calls[1].page != 1 {
		t.Fatalf("unknown category should map to general page 1: %#v", hl.calls[1])
	}
}

func TestFetchGNewsFallsBack(t *testing.T) {
	hl := &fakeSearch{id: "gnews", kind: providers.TypeGNews, err: quotaErr}
	svc := newTestService(providers.Set{Headlines: hl}, Options{})

	items := svc.FetchGNews(context.Background(), "sports", 1)
	assertSameIDs(t, items, mockdata.ForCategory(mockdata.Catalog(fixedNow), "sports"))
}

func assertSameIDs(t *testing.T, got, want []domain.PulseItem) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d items, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i].ID != want[i].ID {
			t.Fatalf("item %d: got %s, want %s", i, got[i].ID, want[i].ID)
		}
	}
}

func TestRepeatedURLsCollapseToOneItem(t *testing.T) {
	body := `{"articles":[
		{"title":"Strait closed","url":"https://x.example/story","publishedAt":"2024-05-02T00:00:00Z","source":{"name":"Wire"}},
		{"title":"Strait closed (updated)","url":"https://x.example/story","publishedAt":"2024-05-03T00:00:00Z","source":{"name":"Wire"}},
		{"title":"Other","url":"https://x.example/other","publishedAt":"2024-05-01T00:00:00Z","source":{"name":"Wire"}}
	]}`
	news := &fakeSearch{id: "newsapi", kind: providers.TypeNewsAPI, body: body}
	video := &fakeSearch{id: "youtube", kind: providers.TypeYouTube, body: `{"items":[{"id":{"videoId":"v1"},"snippet":{"title":"a"}},{"id":{"videoId":"v1"},"snippet":{"title":"b"}}]}`}
	svc := newTestService(providers.Set{
		News:  []providers.SearchClient{news},
		Video: []providers.SearchClient{video},
	}, Options{})

	items := svc.FetchPulseData(context.Background(), domain.FetchOptions{})
	if len(items) != 3 {
		t.Fatalf("expected 3 distinct items, got %d", len(items))
	}
	seen := map[string]bool{}
	for _, it := range items {
		if seen[it.ID] {
			t.Fatalf("id %q repeated in one result set", it.ID)
		}
		seen[it.ID] = true
		if it.ID == "https://x.example/story" && it.Title != "Strait closed" {
			t.Fatalf("first occurrence should win, got %q", it.Title)
		}
	}

	hl := &fakeSearch{id: "gnews", kind: providers.TypeGNews, body: body}
	svc = newTestService(providers.Set{Headlines: hl}, Options{})
	if got := svc.FetchGNews(context.Background(), "world", 1); len(got) != 2 {
		t.Fatalf("headlines should collapse repeated urls, got %d", len(got))
	}
}
